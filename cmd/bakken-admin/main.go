// Command bakken-admin inspects and maintains the tournament archive
// without going through the HTTP server.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/playperu/bakken/internal/archive"
	"github.com/playperu/bakken/internal/bakken"
	"github.com/playperu/bakken/internal/database"
	"github.com/playperu/bakken/internal/migrations"
	"github.com/playperu/bakken/internal/report"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr, openDB).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var exit cli.ExitCoder
		if errors.As(err, &exit) {
			os.Exit(exit.ExitCode())
		}
		os.Exit(1)
	}
}

// dbOpener opens the archive database for one command. release is called
// when the command is done with it.
type dbOpener func(ctx context.Context, path string) (db *sql.DB, release func() error, err error)

func newApp(stdout, stderr io.Writer, open dbOpener) *cli.App {
	withStore := func(action func(*cli.Context, *archive.Store) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			db, release, err := open(c.Context, c.String("db"))
			if err != nil {
				return err
			}
			defer release()

			logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: slog.LevelWarn}))
			return action(c, archive.NewStore(db, logger))
		}
	}

	return &cli.App{
		Name:      "bakken-admin",
		Usage:     "maintain the Bakken tournament archive",
		Writer:    stdout,
		ErrWriter: stderr,
		// Exit codes are applied in main so commands stay testable.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Usage:   "path to the archive database",
				Value:   "data/bakken.db",
				EnvVars: []string{"DB_PATH"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "years",
				Usage: "list archived years",
				Action: withStore(func(c *cli.Context, store *archive.Store) error {
					years, err := store.Years(c.Context)
					if err != nil {
						return err
					}
					for _, y := range years {
						fmt.Fprintln(c.App.Writer, y)
					}
					return nil
				}),
			},
			{
				Name:      "export",
				Usage:     "write a year as JSON",
				ArgsUsage: "<year>",
				Flags:     []cli.Flag{outFlag()},
				Action: withStore(func(c *cli.Context, store *archive.Store) error {
					year, err := yearArg(c)
					if err != nil {
						return err
					}
					data, err := store.ExportYear(c.Context, year)
					if err != nil {
						return err
					}
					return writeOut(c, append(data, '\n'))
				}),
			},
			{
				Name:      "import",
				Usage:     "store an exported JSON document under a year",
				ArgsUsage: "<year> <file>",
				Action: withStore(func(c *cli.Context, store *archive.Store) error {
					year, err := yearArg(c)
					if err != nil {
						return err
					}
					path := c.Args().Get(1)
					if path == "" {
						return cli.Exit("missing file argument", 2)
					}
					data, err := os.ReadFile(path)
					if err != nil {
						return err
					}
					if err := store.ImportYear(c.Context, year, data); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "imported %s as %d\n", path, year)
					return nil
				}),
			},
			{
				Name:      "report",
				Usage:     "render a year as text, html or xlsx",
				ArgsUsage: "<year>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "text, html or xlsx"},
					&cli.StringFlag{Name: "title", EnvVars: []string{"REPORT_TITLE"}, Usage: "report heading"},
					outFlag(),
				},
				Action: withStore(func(c *cli.Context, store *archive.Store) error {
					year, err := yearArg(c)
					if err != nil {
						return err
					}
					render, err := reportFormat(c.String("format"))
					if err != nil {
						return err
					}
					snap, err := store.Year(c.Context, year)
					if err != nil {
						return err
					}
					w, done, err := openOut(c)
					if err != nil {
						return err
					}
					if err := render(w, snap, report.Options{Title: c.String("title"), Date: report.PlayedOn(snap, year, time.Now())}); err != nil {
						done()
						return err
					}
					return done()
				}),
			},
			{
				Name:      "delete",
				Usage:     "remove a year and its roster",
				ArgsUsage: "<year>",
				Action: withStore(func(c *cli.Context, store *archive.Store) error {
					year, err := yearArg(c)
					if err != nil {
						return err
					}
					if err := store.DeleteYear(c.Context, year); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "deleted %d\n", year)
					return nil
				}),
			},
			{
				Name:      "pin-hash",
				Usage:     "print a bcrypt hash for OPERATOR_PIN_HASH",
				ArgsUsage: "<pin>",
				Action: func(c *cli.Context) error {
					pin := c.Args().First()
					if pin == "" {
						return cli.Exit("missing pin argument", 2)
					}
					hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, string(hash))
					return nil
				},
			},
		},
	}
}

// openDB opens and migrates the archive at path.
func openDB(ctx context.Context, path string) (*sql.DB, func() error, error) {
	db, err := database.Open(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, db.Close, nil
}

func yearArg(c *cli.Context) (int, error) {
	year, err := strconv.Atoi(c.Args().First())
	if err != nil || year < 1 {
		return 0, cli.Exit(fmt.Sprintf("invalid year %q", c.Args().First()), 2)
	}
	return year, nil
}

func reportFormat(name string) (func(io.Writer, bakken.Snapshot, report.Options) error, error) {
	switch name {
	case "text", "txt":
		return report.Text, nil
	case "html":
		return report.HTML, nil
	case "xlsx":
		return report.XLSX, nil
	}
	return nil, cli.Exit(fmt.Sprintf("unknown format %q", name), 2)
}

func outFlag() cli.Flag {
	return &cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write to file instead of stdout"}
}

func openOut(c *cli.Context) (io.Writer, func() error, error) {
	path := c.String("out")
	if path == "" {
		return c.App.Writer, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func writeOut(c *cli.Context, data []byte) error {
	w, done, err := openOut(c)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		done()
		return err
	}
	return done()
}
