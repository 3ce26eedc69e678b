package report

import (
	"bufio"
	"io"
	"strings"

	"github.com/playperu/bakken/internal/bakken"
)

// Text writes the plain-text results summary.
func Text(w io.Writer, snap bakken.Snapshot, opts Options) error {
	bw := bufio.NewWriter(w)
	p := printer()

	header := "🎪 " + opts.title() + " - RESULTATER"
	p.Fprintf(bw, "%s\n%s\n\n", header, strings.Repeat("=", 37))

	p.Fprintf(bw, "🏆 SLUTSTILLING:\n")
	for _, st := range snap.Standings() {
		p.Fprintf(bw, "%s %d. %s - %d point\n", medal(st.Rank), st.Rank, st.Team.Name, st.Team.Score)
		p.Fprintf(bw, "   Spillere: %s\n\n", strings.Join(st.Team.Members, ", "))
	}

	p.Fprintf(bw, "🎯 GENNEMFØRTE SPIL:\n")
	for _, g := range gameRows(snap) {
		if g.Legacy {
			p.Fprintf(bw, "%d. %s - %s\n", g.N, g.Name, g.Winner)
			continue
		}
		p.Fprintf(bw, "%d. %s - Vinder: %s\n", g.N, g.Name, g.Winner)
	}

	p.Fprintf(bw, "\n📅 Dato: %s\n", danishDate(opts.Date))
	return bw.Flush()
}
