package bakken

import (
	"fmt"
	"strings"
	"time"
)

// Outcome describes a confirmed round.
type Outcome struct {
	Game               CompletedGame
	Winner             Team
	CompletedCount     int
	TournamentComplete bool
}

// GameStatus is one catalog game and whether it has been played.
type GameStatus struct {
	Name      string
	Completed bool
}

// Session owns the state of the year being played: teams, the ledger, the
// history and photo references.
type Session struct {
	teams   *Registry
	history *History
	ledger  *Ledger

	groupPhoto *string
	teamPhotos map[TeamID]*string
}

// NewSession restores a session from snap. When snap has no teams yet the
// roster teams are used instead.
func NewSession(snap Snapshot, roster map[TeamID]Team) *Session {
	snap.Normalize()

	var teams map[TeamID]Team
	if snap.HasTeams() {
		teams = make(map[TeamID]Team)
		for _, t := range snap.TeamList() {
			teams[t.ID] = t
		}
	} else {
		teams = roster
		if len(teams) == 0 {
			teams = DefaultTeams()
		}
	}

	s := &Session{
		teams:      NewRegistry(teams),
		history:    NewHistory(snap.CompletedGames),
		groupPhoto: cloneString(snap.GroupPhoto),
		teamPhotos: make(map[TeamID]*string),
	}
	s.ledger = NewLedger(s.teams, s.history)
	for id, photo := range snap.TeamPhotos {
		if s.teams.Has(id) {
			s.teamPhotos[id] = cloneString(photo)
		}
	}
	return s
}

func (s *Session) Teams() *Registry      { return s.teams }
func (s *Session) History() *History     { return s.history }
func (s *Session) Ledger() *Ledger       { return s.ledger }
func (s *Session) Standings() []Standing { return s.teams.Standings() }

// ConfirmRound confirms the open round and reports the winner.
func (s *Session) ConfirmRound(now time.Time) (Outcome, error) {
	g, err := s.ledger.Confirm(now)
	if err != nil {
		return Outcome{}, err
	}
	winnerID, _ := g.Winner()
	winner, _ := s.teams.Team(winnerID)
	return Outcome{
		Game:               g,
		Winner:             winner,
		CompletedCount:     s.history.Len(),
		TournamentComplete: s.TournamentComplete(),
	}, nil
}

// TournamentComplete reports whether enough games have been played.
func (s *Session) TournamentComplete() bool {
	return s.history.Len() >= CompletionThreshold
}

// Games lists the catalog with completion flags.
func (s *Session) Games() []GameStatus {
	out := make([]GameStatus, len(Catalog))
	for i, name := range Catalog {
		out[i] = GameStatus{Name: name, Completed: s.history.Completed(name)}
	}
	return out
}

func (s *Session) GroupPhoto() (string, bool) {
	if s.groupPhoto == nil {
		return "", false
	}
	return *s.groupPhoto, true
}

func (s *Session) TeamPhoto(id TeamID) (string, bool) {
	p := s.teamPhotos[id]
	if p == nil {
		return "", false
	}
	return *p, true
}

func (s *Session) SetGroupPhoto(ref string) error {
	if strings.TrimSpace(ref) == "" {
		return fmt.Errorf("group photo: %w", ErrBlankName)
	}
	s.groupPhoto = &ref
	return nil
}

func (s *Session) ClearGroupPhoto() { s.groupPhoto = nil }

func (s *Session) SetTeamPhoto(id TeamID, ref string) error {
	if !s.teams.Has(id) {
		return fmt.Errorf("photo for team %d: %w", id, ErrUnknownTeam)
	}
	if strings.TrimSpace(ref) == "" {
		return fmt.Errorf("photo for team %d: %w", id, ErrBlankName)
	}
	s.teamPhotos[id] = &ref
	return nil
}

func (s *Session) ClearTeamPhoto(id TeamID) error {
	if !s.teams.Has(id) {
		return fmt.Errorf("photo for team %d: %w", id, ErrUnknownTeam)
	}
	s.teamPhotos[id] = nil
	return nil
}

// Snapshot captures the session in its persisted form. The open round is
// not part of it.
func (s *Session) Snapshot() Snapshot {
	snap := EmptySnapshot()
	for _, t := range s.teams.Teams() {
		snap.Teams[t.ID] = t.Members
		snap.TeamNames[t.ID] = t.Name
		snap.TeamScores[t.ID] = t.Score
		snap.TeamPhotos[t.ID] = cloneString(s.teamPhotos[t.ID])
	}
	snap.CompletedGames = s.history.List()
	snap.GroupPhoto = cloneString(s.groupPhoto)
	return snap
}

// ReplaceTeams swaps in a new set of teams. It is only meant for use before
// any game has been completed; scores start over at zero.
func (s *Session) ReplaceTeams(teams map[TeamID]Team) {
	fresh := make(map[TeamID]Team, len(teams))
	for id, t := range teams {
		t.Score = 0
		fresh[id] = t
	}
	s.teams = NewRegistry(fresh)
	s.ledger = NewLedger(s.teams, s.history)
	for id := range s.teamPhotos {
		if !s.teams.Has(id) {
			delete(s.teamPhotos, id)
		}
	}
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
