package main

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

const exported = `{
  "teams": {"1": ["Lars"], "2": ["Anna"], "3": ["Ole"]},
  "teamNames": {"2": "Bajerne"},
  "teamScores": {"1": 1, "2": 2, "3": 0},
  "completedGames": [
    {"name": "Dart", "results": {"1": 2, "2": 1, "3": 3}, "timestamp": "2024-06-15T13:00:00Z"},
    "Golf"
  ],
  "groupPhoto": null,
  "teamPhotos": {}
}`

// sharedDB opens the archive on first use and hands the same handle to every
// later command. libSQL cannot reopen a file in the process that closed it.
func sharedDB(t *testing.T) dbOpener {
	t.Helper()
	var db *sql.DB
	return func(ctx context.Context, path string) (*sql.DB, func() error, error) {
		if db == nil {
			opened, _, err := openDB(ctx, path)
			if err != nil {
				return nil, nil, err
			}
			db = opened
			t.Cleanup(func() { db.Close() })
		}
		return db, func() error { return nil }, nil
	}
}

func runApp(t *testing.T, open dbOpener, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := newApp(&stdout, &stderr, open).Run(append([]string{"bakken-admin"}, args...))
	return stdout.String(), err
}

func TestArchiveCommands(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "bakken.db")
	src := filepath.Join(dir, "2024.json")
	if err := os.WriteFile(src, []byte(exported), 0o644); err != nil {
		t.Fatal(err)
	}
	open := sharedDB(t)

	if _, err := runApp(t, open, "--db", db, "import", "2024", src); err != nil {
		t.Fatalf("import: %v", err)
	}

	out, err := runApp(t, open, "--db", db, "years")
	if err != nil || strings.TrimSpace(out) != "2024" {
		t.Fatalf("years = %q, %v", out, err)
	}

	out, err = runApp(t, open, "--db", db, "export", "2024")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, `"Bajerne"`) || !strings.Contains(out, `"Golf"`) {
		t.Errorf("unexpected export:\n%s", out)
	}

	out, err = runApp(t, open, "--db", db, "report", "--format", "text", "2024")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	for _, want := range []string{"🥇 1. Bajerne - 2 point", "2. Golf - resultat gemt", "Dato: 15.6.2024"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	xlsx := filepath.Join(dir, "2024.xlsx")
	if _, err := runApp(t, open, "--db", db, "report", "-f", "xlsx", "-o", xlsx, "2024"); err != nil {
		t.Fatalf("xlsx report: %v", err)
	}
	if info, err := os.Stat(xlsx); err != nil || info.Size() == 0 {
		t.Errorf("xlsx not written: %v", err)
	}

	if _, err := runApp(t, open, "--db", db, "report", "-f", "pdf", "2024"); err == nil {
		t.Error("expected unknown format to fail")
	}

	if _, err := runApp(t, open, "--db", db, "delete", "2024"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := runApp(t, open, "--db", db, "delete", "2024"); err == nil {
		t.Error("expected deleting a missing year to fail")
	}
	out, _ = runApp(t, open, "--db", db, "years")
	if strings.TrimSpace(out) != "" {
		t.Errorf("years after delete = %q", out)
	}
}

func TestPinHash(t *testing.T) {
	out, err := runApp(t, nil, "pin-hash", "4321")
	if err != nil {
		t.Fatalf("pin-hash: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("4321")); err != nil {
		t.Errorf("hash does not match pin: %v", err)
	}
}

func TestBadYear(t *testing.T) {
	db := filepath.Join(t.TempDir(), "bakken.db")
	if _, err := runApp(t, sharedDB(t), "--db", db, "export", "soon"); err == nil {
		t.Error("expected invalid year to fail")
	}
}
