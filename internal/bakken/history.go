package bakken

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"
)

// Assignment maps places to the teams occupying them.
type Assignment map[Place]TeamID

func (a Assignment) Clone() Assignment {
	if a == nil {
		return nil
	}
	return maps.Clone(a)
}

// PlaceOf returns the place held by id, if any.
func (a Assignment) PlaceOf(id TeamID) (Place, bool) {
	for p, t := range a {
		if t == id {
			return p, true
		}
	}
	return 0, false
}

// Complete reports whether every place is filled by a distinct team.
func (a Assignment) Complete() bool {
	if len(a) != len(Places) {
		return false
	}
	seen := make(map[TeamID]bool, len(Places))
	for _, p := range Places {
		id, ok := a[p]
		if !ok || seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}

// CompletedGame is one entry of the history. Entries written by early
// versions carry only the game name, sometimes with the winner's name and a
// timestamp; those have nil Results.
type CompletedGame struct {
	Name      string
	Results   Assignment
	Timestamp time.Time
	// WinnerName is the winner as written by early versions. It is only
	// kept on legacy entries; full results name the winner by id.
	WinnerName string
}

// Legacy reports whether the entry predates recorded results.
func (g CompletedGame) Legacy() bool { return g.Results == nil }

// Winner returns the team placed first.
func (g CompletedGame) Winner() (TeamID, bool) {
	id, ok := g.Results[First]
	return id, ok
}

type completedGameJSON struct {
	Name      string     `json:"name"`
	Results   Assignment `json:"results,omitempty"`
	Winner    string     `json:"winner,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

func (g CompletedGame) MarshalJSON() ([]byte, error) {
	if g.Legacy() && g.WinnerName == "" && g.Timestamp.IsZero() {
		return json.Marshal(g.Name)
	}
	doc := completedGameJSON{Name: g.Name, Results: g.Results}
	if g.Legacy() {
		doc.Winner = g.WinnerName
	}
	if !g.Timestamp.IsZero() {
		ts := g.Timestamp
		doc.Timestamp = &ts
	}
	return json.Marshal(doc)
}

// UnmarshalJSON accepts a bare game name as well as a full record and
// normalises both into one shape.
func (g *CompletedGame) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*g = CompletedGame{Name: name}
		return nil
	}

	var doc completedGameJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("completed game: %w", err)
	}
	*g = CompletedGame{Name: doc.Name}
	if len(doc.Results) > 0 {
		g.Results = doc.Results
	} else {
		g.WinnerName = doc.Winner
	}
	if doc.Timestamp != nil {
		g.Timestamp = *doc.Timestamp
	}
	return nil
}

// History is the append-only log of confirmed games in chronological order.
type History struct {
	games []CompletedGame
}

func NewHistory(games []CompletedGame) *History {
	h := &History{}
	for _, g := range games {
		h.Append(g)
	}
	return h
}

func (h *History) Append(g CompletedGame) {
	g.Results = g.Results.Clone()
	h.games = append(h.games, g)
}

func (h *History) Len() int { return len(h.games) }

// List returns the entries in insertion order.
func (h *History) List() []CompletedGame {
	out := make([]CompletedGame, len(h.games))
	for i, g := range h.games {
		g.Results = g.Results.Clone()
		out[i] = g
	}
	return out
}

// Completed reports whether name already has an entry.
func (h *History) Completed(name string) bool {
	return slices.ContainsFunc(h.games, func(g CompletedGame) bool { return g.Name == name })
}
