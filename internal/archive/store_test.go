package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/playperu/bakken/internal/bakken"
	"github.com/playperu/bakken/internal/database"
	"github.com/playperu/bakken/internal/migrations"
)

var summer2025 = time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(context.Background(), database.Memory)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStore(db, logger, WithClock(func() time.Time { return summer2025 }))
}

func playedSnapshot(t *testing.T, winner bakken.TeamID) bakken.Snapshot {
	t.Helper()
	s := bakken.NewSession(bakken.EmptySnapshot(), bakken.DefaultTeams())
	l := s.Ledger()
	if err := l.StartRound("Dart"); err != nil {
		t.Fatalf("start: %v", err)
	}
	others := []bakken.TeamID{}
	for id := bakken.TeamID(1); id <= 3; id++ {
		if id != winner {
			others = append(others, id)
		}
	}
	l.Assign(winner, bakken.First)
	l.Assign(others[0], bakken.Second)
	l.Assign(others[1], bakken.Third)
	if _, err := s.ConfirmRound(summer2025); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	s.SetGroupPhoto("data:image/png;base64,iVBORw0KGgo=")
	return s.Snapshot()
}

func TestLoadCurrentMissing(t *testing.T) {
	store := setupStore(t)
	snap := store.LoadCurrent(context.Background())
	if diff := cmp.Diff(bakken.EmptySnapshot(), snap); diff != "" {
		t.Errorf("expected empty snapshot (-want +got):\n%s", diff)
	}
}

func TestSaveAndLoadCurrent(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	want := playedSnapshot(t, 2)

	if err := store.SaveCurrent(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got := store.LoadCurrent(ctx)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	years, err := store.Years(ctx)
	if err != nil {
		t.Fatalf("years: %v", err)
	}
	if diff := cmp.Diff([]int{2025}, years); diff != "" {
		t.Errorf("years mismatch (-want +got):\n%s", diff)
	}
}

func TestCorruptSnapshotTreatedAsAbsent(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	_, err := store.db.ExecContext(ctx,
		`INSERT INTO year_snapshots (year, data, updated_at) VALUES (2025, '{"teams": [', '')`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, err := store.Year(ctx, 2025); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
	snap := store.LoadCurrent(ctx)
	if snap.HasTeams() || len(snap.CompletedGames) != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
}

func TestDeleteOtherYearKeepsCurrent(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	current := playedSnapshot(t, 1)
	old := playedSnapshot(t, 3)

	store.SaveCurrent(ctx, current)
	store.SaveYear(ctx, 2024, old)
	store.SaveYear(ctx, 2023, old)
	store.PutRoster(ctx, 2024, []byte(`{"teams":{"1":[]}}`))

	years, _ := store.Years(ctx)
	if diff := cmp.Diff([]int{2025, 2024, 2023}, years); diff != "" {
		t.Fatalf("years mismatch (-want +got):\n%s", diff)
	}

	if err := store.DeleteYear(ctx, 2024); err != nil {
		t.Fatalf("delete: %v", err)
	}

	years, _ = store.Years(ctx)
	if diff := cmp.Diff([]int{2025, 2023}, years); diff != "" {
		t.Errorf("years mismatch after delete (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(current, store.LoadCurrent(ctx)); diff != "" {
		t.Errorf("current year changed (-want +got):\n%s", diff)
	}
	if _, err := store.Year(ctx, 2024); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Roster(ctx, 2024); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected roster to be deleted with its year, got %v", err)
	}
	if err := store.DeleteYear(ctx, 2024); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	want := playedSnapshot(t, 1)
	want.CompletedGames = append([]bakken.CompletedGame{{Name: "Andedammen"}}, want.CompletedGames...)
	store.SaveYear(ctx, 2024, want)

	exported, err := store.ExportYear(ctx, 2024)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := store.ImportYear(ctx, 2022, exported); err != nil {
		t.Fatalf("import: %v", err)
	}

	got, err := store.Year(ctx, 2022)
	if err != nil {
		t.Fatalf("year: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	reexported, _ := store.ExportYear(ctx, 2022)
	var a, b any
	json.Unmarshal(exported, &a)
	json.Unmarshal(reexported, &b)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("export documents differ (-first +second):\n%s", diff)
	}
}

func TestImportRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `not json`},
		{"negative score", `{"teamScores":{"1":-7,"2":3}}`},
		{"team on two places", `{"completedGames":[{"name":"Dart","results":{"1":2,"2":2,"3":1}}]}`},
		{"place out of range", `{"completedGames":[{"name":"Dart","results":{"1":2,"2":3,"7":1}}]}`},
		{"missing place", `{"completedGames":[{"name":"Dart","results":{"1":2,"2":3}}]}`},
		{"team id zero", `{"teamNames":{"0":"Ingen"}}`},
		{"result team id zero", `{"completedGames":[{"name":"Dart","results":{"1":0,"2":3,"3":1}}]}`},
		{"game without name", `{"completedGames":[""]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := setupStore(t)
			err := store.ImportYear(ctx, 2020, []byte(tt.doc))
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("expected ErrCorrupt, got %v", err)
			}
			if years, _ := store.Years(ctx); len(years) != 0 {
				t.Errorf("expected nothing stored, got %v", years)
			}
		})
	}
}

func TestImportAcceptsLegacyHistory(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	doc := `{"teamScores":{"1":4,"2":0},"completedGames":["Andedammen",{"name":"Dart","winner":"Hold 2"}]}`
	if err := store.ImportYear(ctx, 2019, []byte(doc)); err != nil {
		t.Fatalf("import: %v", err)
	}
	got, err := store.Year(ctx, 2019)
	if err != nil {
		t.Fatalf("year: %v", err)
	}
	want := []bakken.CompletedGame{{Name: "Andedammen"}, {Name: "Dart", WinnerName: "Hold 2"}}
	if diff := cmp.Diff(want, got.CompletedGames); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestRoster(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	if _, err := store.Roster(ctx, 2025); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.PutRoster(ctx, 2025, []byte(`{"teams":{"1":[]}}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.PutRoster(ctx, 2025, []byte(`{"teams":{"2":[]}}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, err := store.Roster(ctx, 2025)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != `{"teams":{"2":[]}}` {
		t.Errorf("unexpected roster %s", data)
	}
}
