// Package report renders a tournament year as a Danish text summary, a
// self-contained HTML page or an XLSX workbook.
package report

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/playperu/bakken/internal/bakken"
)

// DefaultTitle heads reports when no title is configured.
const DefaultTitle = "HÅNDÆG OG HÅNDBAJERE"

// LegacyResult stands in for the winner of a game recorded without results.
const LegacyResult = "resultat gemt"

// Options controls report headers.
type Options struct {
	Title string
	Date  time.Time
}

func (o Options) title() string {
	if o.Title == "" {
		return DefaultTitle
	}
	return o.Title
}

func printer() *message.Printer {
	return message.NewPrinter(language.Danish)
}

// danishDate formats t the way da-DK locales print short dates.
func danishDate(t time.Time) string {
	return fmt.Sprintf("%d.%d.%d", t.Day(), int(t.Month()), t.Year())
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	default:
		return "🥉"
	}
}

// PlayedOn picks the date printed on a year's report: the time of the last
// recorded game, else now when year is the current year, else 1 January.
func PlayedOn(snap bakken.Snapshot, year int, now time.Time) time.Time {
	var last time.Time
	for _, g := range snap.CompletedGames {
		if g.Timestamp.After(last) {
			last = g.Timestamp
		}
	}
	if !last.IsZero() {
		return last
	}
	if now.Year() == year {
		return now
	}
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// gameRow is one completed game resolved to team names.
type gameRow struct {
	N        int
	Name     string
	Winner   string
	Places   [3]string
	Legacy   bool // no winner is known
	Recorded string
}

func gameRows(snap bakken.Snapshot) []gameRow {
	rows := make([]gameRow, 0, len(snap.CompletedGames))
	for i, g := range snap.CompletedGames {
		row := gameRow{N: i + 1, Name: g.Name, Legacy: g.Legacy(), Winner: LegacyResult}
		if !g.Timestamp.IsZero() {
			row.Recorded = g.Timestamp.Format(time.RFC3339)
		}
		if row.Legacy && g.WinnerName != "" {
			row.Legacy = false
			row.Winner = g.WinnerName
			row.Places[0] = g.WinnerName
		}
		if !g.Legacy() {
			for i, p := range bakken.Places {
				if id, ok := g.Results[p]; ok {
					row.Places[i] = snap.TeamName(id)
				}
			}
			row.Winner = row.Places[0]
		}
		rows = append(rows, row)
	}
	return rows
}
