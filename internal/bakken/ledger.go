package bakken

import (
	"fmt"
	"time"
)

// Round is a read-only view of the open round.
type Round struct {
	Game       string
	Assignment Assignment
	CanConfirm bool
}

// Ledger is the result state machine. It is either idle or has exactly one
// round open, during which teams are assigned to places. Confirming a round
// awards points into the registry and appends to the history.
type Ledger struct {
	teams   *Registry
	history *History

	open       bool
	game       string
	assignment Assignment
}

func NewLedger(teams *Registry, history *History) *Ledger {
	return &Ledger{teams: teams, history: history}
}

func (l *Ledger) IsOpen() bool { return l.open }

// Active returns the open round, if any.
func (l *Ledger) Active() (Round, bool) {
	if !l.open {
		return Round{}, false
	}
	return Round{
		Game:       l.game,
		Assignment: l.assignment.Clone(),
		CanConfirm: l.CanConfirm(),
	}, true
}

// StartRound opens a round for game. A round that is already open is kept
// and ErrRoundOpen returned; it has to be confirmed or cancelled first.
// Games already in the history are locked so points cannot be awarded twice.
func (l *Ledger) StartRound(game string) error {
	if l.open {
		return fmt.Errorf("start %q: %w", game, ErrRoundOpen)
	}
	if !InCatalog(game) {
		return fmt.Errorf("start %q: %w", game, ErrUnknownGame)
	}
	if l.history.Completed(game) {
		return fmt.Errorf("start %q: %w", game, ErrGameCompleted)
	}
	l.open = true
	l.game = game
	l.assignment = make(Assignment, len(Places))
	return nil
}

// Assign puts team id at place p. The team first leaves whatever place it
// held, then replaces any team at p, so the assignment stays one-to-one.
func (l *Ledger) Assign(id TeamID, p Place) error {
	if !l.open {
		return ErrNoRound
	}
	if !p.Valid() {
		return fmt.Errorf("place %d: %w", p, ErrInvalidPlace)
	}
	if !l.teams.Has(id) {
		return fmt.Errorf("assign team %d: %w", id, ErrUnknownTeam)
	}
	if held, ok := l.assignment.PlaceOf(id); ok {
		delete(l.assignment, held)
	}
	l.assignment[p] = id
	return nil
}

// CanConfirm reports whether all places hold distinct, known teams.
func (l *Ledger) CanConfirm() bool {
	if !l.open || !l.assignment.Complete() {
		return false
	}
	for _, id := range l.assignment {
		if !l.teams.Has(id) {
			return false
		}
	}
	return true
}

// Confirm finalises the open round: points per place go to the registry, a
// history entry stamped now is appended, and the ledger returns to idle.
func (l *Ledger) Confirm(now time.Time) (CompletedGame, error) {
	if !l.open {
		return CompletedGame{}, ErrNoRound
	}
	if !l.CanConfirm() {
		return CompletedGame{}, fmt.Errorf("confirm %q: %w", l.game, ErrIncomplete)
	}

	for _, p := range Places {
		if err := l.teams.AwardPoints(l.assignment[p], p.Points()); err != nil {
			// Unreachable after CanConfirm; every team was checked above.
			return CompletedGame{}, err
		}
	}

	g := CompletedGame{
		Name:      l.game,
		Results:   l.assignment.Clone(),
		Timestamp: now,
	}
	l.history.Append(g)
	l.reset()
	return g, nil
}

// Cancel discards the open round without scoring it.
func (l *Ledger) Cancel() error {
	if !l.open {
		return ErrNoRound
	}
	l.reset()
	return nil
}

func (l *Ledger) reset() {
	l.open = false
	l.game = ""
	l.assignment = nil
}
