package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/playperu/bakken/internal/bakken"
)

// Sheet names used by XLSX.
const (
	StandingsSheet = "Stilling"
	GamesSheet     = "Spil"
)

// XLSX writes a workbook with one sheet for standings and one for games.
func XLSX(w io.Writer, snap bakken.Snapshot, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), StandingsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(GamesSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	if err := f.SetDocProps(&excelize.DocProperties{Title: opts.title(), Language: "da-DK"}); err != nil {
		return fmt.Errorf("doc props: %w", err)
	}

	standings := [][]any{{"Placering", "Hold", "Point", "Spillere"}}
	for _, st := range snap.Standings() {
		standings = append(standings, []any{st.Rank, st.Team.Name, st.Team.Score, strings.Join(st.Team.Members, ", ")})
	}
	if err := writeRows(f, StandingsSheet, standings); err != nil {
		return err
	}

	games := [][]any{{"Nr", "Spil", "1. plads", "2. plads", "3. plads", "Tidspunkt"}}
	for _, g := range gameRows(snap) {
		first := g.Places[0]
		if g.Legacy {
			first = LegacyResult
		}
		games = append(games, []any{g.N, g.Name, first, g.Places[1], g.Places[2], g.Recorded})
	}
	if err := writeRows(f, GamesSheet, games); err != nil {
		return err
	}

	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
