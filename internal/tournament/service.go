// Package tournament runs the ledger for the current year: it applies
// operator actions one at a time and writes the snapshot after each change.
package tournament

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/playperu/bakken/internal/archive"
	"github.com/playperu/bakken/internal/bakken"
)

// ErrTournamentStarted is returned when teams would change after results exist.
var ErrTournamentStarted = errors.New("teams cannot change once a game is completed")

// Change reports how a mutation was persisted. The mutation itself has been
// applied even when SaveErr is set.
type Change struct {
	SaveErr error
}

func (c Change) Saved() bool { return c.SaveErr == nil }

// Status summarises the current year for the overview screen.
type Status struct {
	Year      int
	Completed int
	Threshold int
	Complete  bool
	RoundOpen bool

	Teams           int
	Players         int // players in the roster
	AssignedPlayers int // players placed on a team
	GroupPhoto      bool
	TeamPhotos      int
}

type Service struct {
	mu      sync.Mutex
	session *bakken.Session
	// year the session belongs to. It is fixed when the session is loaded so
	// a ledger running past New Year keeps saving under the year it was
	// played in.
	year int
	// players counted in the year's roster.
	players int

	store   *archive.Store
	logger  *slog.Logger
	metrics *Metrics
	events  Publisher
	now     func() time.Time
}

type Option func(*Service)

func WithMetrics(m *Metrics) Option { return func(s *Service) { s.metrics = m } }

func WithPublisher(p Publisher) Option { return func(s *Service) { s.events = p } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// Open restores the current year from store.
func Open(ctx context.Context, store *archive.Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: logger,
		events: nopPublisher{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}

	s.session = s.load(ctx)
	s.metrics.completedGames.Set(float64(s.session.History().Len()))
	logger.Info("tournament loaded",
		"year", s.year,
		"teams", s.session.Teams().Len(),
		"completed_games", s.session.History().Len(),
	)
	return s
}

// load reads the current year's session and makes that year the one saved to.
func (s *Service) load(ctx context.Context) *bakken.Session {
	s.year = s.store.CurrentYear()
	snap := s.store.Load(ctx, s.year)
	return bakken.NewSession(snap, s.rosterTeams(ctx, s.year))
}

func (s *Service) rosterTeams(ctx context.Context, year int) map[bakken.TeamID]bakken.Team {
	data, err := s.store.Roster(ctx, year)
	if err != nil && !errors.Is(err, archive.ErrNotFound) {
		s.logger.Warn("reading roster", "year", year, "error", err)
	}
	teams, err := bakken.LoadTeams(data)
	if err != nil {
		s.logger.Info("using default teams", "year", year, "reason", err)
		s.players = 0
		return teams
	}
	roster, _ := bakken.ParseRoster(data)
	s.players = len(roster.Players)
	return teams
}

// persist writes the session snapshot. Failures are logged and counted but
// leave the in-memory change in place.
func (s *Service) persist(ctx context.Context) Change {
	s.metrics.completedGames.Set(float64(s.session.History().Len()))
	if err := s.store.SaveYear(ctx, s.year, s.session.Snapshot()); err != nil {
		s.metrics.saveFailures.Inc()
		s.logger.Error("saving snapshot", "year", s.year, "error", err)
		return Change{SaveErr: err}
	}
	return Change{}
}

func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		Year:      s.year,
		Completed: s.session.History().Len(),
		Threshold: bakken.CompletionThreshold,
		Complete:  s.session.TournamentComplete(),
		RoundOpen: s.session.Ledger().IsOpen(),
		Teams:     s.session.Teams().Len(),
		Players:   s.players,
	}
	for _, t := range s.session.Teams().Teams() {
		st.AssignedPlayers += len(t.Members)
		if _, ok := s.session.TeamPhoto(t.ID); ok {
			st.TeamPhotos++
		}
	}
	_, st.GroupPhoto = s.session.GroupPhoto()
	return st
}

func (s *Service) Teams() []bakken.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Teams().Teams()
}

func (s *Service) Standings() []bakken.Standing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Standings()
}

func (s *Service) Games() []bakken.GameStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Games()
}

func (s *Service) History() []bakken.CompletedGame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.History().List()
}

func (s *Service) Round() (bakken.Round, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Ledger().Active()
}

func (s *Service) Snapshot() bakken.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Snapshot()
}

func (s *Service) StartRound(game string) (bakken.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.session.Ledger()
	if err := l.StartRound(game); err != nil {
		return bakken.Round{}, err
	}
	s.logger.Info("round started", "game", game)
	s.events.Publish(Event{Type: EventRoundStarted, Game: game})
	round, _ := l.Active()
	return round, nil
}

func (s *Service) Assign(id bakken.TeamID, p bakken.Place) (bakken.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.session.Ledger()
	if err := l.Assign(id, p); err != nil {
		return bakken.Round{}, err
	}
	round, _ := l.Active()
	s.logger.Debug("place assigned", "game", round.Game, "team", id, "place", p)
	s.events.Publish(Event{Type: EventPlaceAssigned, Game: round.Game, TeamID: int(id), Place: int(p)})
	return round, nil
}

func (s *Service) CancelRound() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	round, _ := s.session.Ledger().Active()
	if err := s.session.Ledger().Cancel(); err != nil {
		return err
	}
	s.metrics.roundsCancelled.Inc()
	s.logger.Info("round cancelled", "game", round.Game)
	s.events.Publish(Event{Type: EventRoundCancelled, Game: round.Game})
	return nil
}

// ConfirmRound scores the open round and saves the year.
func (s *Service) ConfirmRound(ctx context.Context) (bakken.Outcome, Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.session.ConfirmRound(s.now().UTC())
	if err != nil {
		return bakken.Outcome{}, Change{}, err
	}
	s.metrics.roundsConfirmed.Inc()
	s.logger.Info("round confirmed",
		"game", out.Game.Name,
		"winner", out.Winner.Name,
		"completed_games", out.CompletedCount,
	)
	change := s.persist(ctx)
	s.events.Publish(Event{Type: EventRoundConfirmed, Game: out.Game.Name, TeamID: int(out.Winner.ID), Place: int(bakken.First)})
	return out, change, nil
}

func (s *Service) RenameTeam(ctx context.Context, id bakken.TeamID, name string) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.Teams().Rename(id, name); err != nil {
		return Change{}, err
	}
	change := s.persist(ctx)
	s.events.Publish(Event{Type: EventTeamRenamed, TeamID: int(id)})
	return change, nil
}

func (s *Service) SetGroupPhoto(ctx context.Context, ref string) (Change, error) {
	return s.photoChange(ctx, 0, func() error { return s.session.SetGroupPhoto(ref) })
}

func (s *Service) ClearGroupPhoto(ctx context.Context) (Change, error) {
	return s.photoChange(ctx, 0, func() error { s.session.ClearGroupPhoto(); return nil })
}

func (s *Service) SetTeamPhoto(ctx context.Context, id bakken.TeamID, ref string) (Change, error) {
	return s.photoChange(ctx, id, func() error { return s.session.SetTeamPhoto(id, ref) })
}

func (s *Service) ClearTeamPhoto(ctx context.Context, id bakken.TeamID) (Change, error) {
	return s.photoChange(ctx, id, func() error { return s.session.ClearTeamPhoto(id) })
}

func (s *Service) photoChange(ctx context.Context, id bakken.TeamID, fn func() error) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(); err != nil {
		return Change{}, err
	}
	change := s.persist(ctx)
	s.events.Publish(Event{Type: EventPhotosChanged, TeamID: int(id)})
	return change, nil
}

// ImportRoster replaces the teams with those in data and keeps data as the
// year's roster. It is refused once any game has been completed.
func (s *Service) ImportRoster(ctx context.Context, data []byte) ([]bakken.Team, Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.History().Len() > 0 {
		return nil, Change{}, ErrTournamentStarted
	}
	if s.session.Ledger().IsOpen() {
		return nil, Change{}, fmt.Errorf("import roster: %w", bakken.ErrRoundOpen)
	}
	roster, err := bakken.ParseRoster(data)
	if err != nil {
		return nil, Change{}, err
	}
	teams, err := roster.TeamMap()
	if err != nil {
		return nil, Change{}, err
	}
	if len(teams) < len(bakken.Places) {
		return nil, Change{}, fmt.Errorf("%w: %d teams cannot fill %d places", bakken.ErrInvalidRoster, len(teams), len(bakken.Places))
	}

	rosterErr := s.store.PutRoster(ctx, s.year, data)
	if rosterErr != nil {
		s.metrics.saveFailures.Inc()
		s.logger.Error("saving roster", "year", s.year, "error", rosterErr)
	}
	s.session.ReplaceTeams(teams)
	s.players = len(roster.Players)
	s.logger.Info("roster imported", "year", s.year, "teams", len(teams))
	change := s.persist(ctx)
	if rosterErr != nil {
		change.SaveErr = errors.Join(rosterErr, change.SaveErr)
	}
	s.events.Publish(Event{Type: EventRosterImported})
	return s.session.Teams().Teams(), change, nil
}

func (s *Service) currentYear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.year
}

func (s *Service) Years(ctx context.Context) ([]int, error) {
	return s.store.Years(ctx)
}

// Year returns the snapshot for year. The current year comes from memory so
// it reflects changes whose save failed.
func (s *Service) Year(ctx context.Context, year int) (bakken.Snapshot, error) {
	if year == s.currentYear() {
		return s.Snapshot(), nil
	}
	return s.store.Year(ctx, year)
}

// Export returns the year's snapshot in the download format.
func (s *Service) Export(ctx context.Context, year int) ([]byte, error) {
	snap, err := s.Year(ctx, year)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(snap, "", "  ")
}

// DeleteYear removes a stored year. Deleting the current year starts it over.
func (s *Service) DeleteYear(ctx context.Context, year int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteYear(ctx, year); err != nil {
		return err
	}
	s.logger.Info("year deleted", "year", year)
	if year == s.year {
		s.session = s.load(ctx)
		s.metrics.completedGames.Set(float64(s.session.History().Len()))
		s.events.Publish(Event{Type: EventYearReset})
	}
	return nil
}

// ImportYear stores an exported document under year. Importing into the
// current year also restores the live session from it.
func (s *Service) ImportYear(ctx context.Context, year int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if year == s.year && s.session.Ledger().IsOpen() {
		return fmt.Errorf("import year: %w", bakken.ErrRoundOpen)
	}
	if err := s.store.ImportYear(ctx, year, data); err != nil {
		return err
	}
	s.logger.Info("year imported", "year", year)
	if year == s.year {
		s.session = s.load(ctx)
		s.metrics.completedGames.Set(float64(s.session.History().Len()))
		s.events.Publish(Event{Type: EventYearReset})
	}
	return nil
}
