package report

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/playperu/bakken/internal/bakken"
)

//go:embed report.html.tmpl
var templates embed.FS

var htmlTemplate = template.Must(template.ParseFS(templates, "report.html.tmpl"))

type htmlStanding struct {
	Rank    int
	Name    string
	Score   string
	Members string
	Medal   string
	Class   string
}

type htmlPhoto struct {
	Src     template.URL
	Caption string
}

type htmlPage struct {
	Title     string
	Year      int
	Date      string
	Standings []htmlStanding
	Chart     template.URL
	Photos    []htmlPhoto
	Games     []gameRow
}

var placeClasses = [...]string{"first", "second", "third"}

// HTML writes a self-contained report. Photos and the standings chart are
// inlined as data URIs.
func HTML(w io.Writer, snap bakken.Snapshot, opts Options) error {
	p := printer()
	page := htmlPage{
		Title: opts.title(),
		Year:  opts.Date.Year(),
		Date:  danishDate(opts.Date),
		Games: gameRows(snap),
	}

	standings := snap.Standings()
	for i, st := range standings {
		page.Standings = append(page.Standings, htmlStanding{
			Rank:    st.Rank,
			Name:    st.Team.Name,
			Score:   p.Sprintf("%d", st.Team.Score),
			Members: strings.Join(st.Team.Members, ", "),
			Medal:   medal(st.Rank),
			Class:   placeClasses[min(i, len(placeClasses)-1)],
		})
	}

	if len(standings) > 0 {
		png, err := StandingsChart(standings)
		if err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		page.Chart = dataURI("image/png", png)
	}

	if src, ok := imageURI(snap.GroupPhoto); ok {
		page.Photos = append(page.Photos, htmlPhoto{Src: src, Caption: "Alle sammen"})
	}
	for _, team := range snap.TeamList() {
		if src, ok := imageURI(snap.TeamPhotos[team.ID]); ok {
			page.Photos = append(page.Photos, htmlPhoto{Src: src, Caption: team.Name})
		}
	}

	return htmlTemplate.Execute(w, page)
}

// imageURI accepts only inline data:image references.
func imageURI(ref *string) (template.URL, bool) {
	if ref == nil || !strings.HasPrefix(*ref, "data:image/") {
		return "", false
	}
	return template.URL(*ref), true
}

func dataURI(mime string, data []byte) template.URL {
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data))
}

// StandingsChart renders a PNG bar chart of team scores in rank order.
func StandingsChart(standings []bakken.Standing) ([]byte, error) {
	bars := make([]chart.Value, 0, len(standings))
	top := 1
	for i, st := range standings {
		bars = append(bars, chart.Value{
			Label: st.Team.Name,
			Value: float64(st.Team.Score),
			Style: chart.Style{FillColor: barColors[min(i, len(barColors)-1)], StrokeColor: drawing.ColorBlack},
		})
		top = max(top, st.Team.Score)
	}

	graph := chart.BarChart{
		Title:  "Point",
		Width:  640,
		Height: 320,
		Background: chart.Style{
			Padding:   chart.Box{Top: 40},
			FillColor: drawing.ColorWhite,
		},
		BarWidth: 60,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(top)},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var barColors = []drawing.Color{
	{R: 255, G: 215, B: 0, A: 255},
	{R: 192, G: 192, B: 192, A: 255},
	{R: 205, G: 127, B: 50, A: 255},
	{R: 120, G: 144, B: 156, A: 255},
}
