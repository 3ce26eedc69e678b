package tournament

// EventType names a change to the ledger.
type EventType string

const (
	EventRoundStarted   EventType = "round_started"
	EventPlaceAssigned  EventType = "place_assigned"
	EventRoundConfirmed EventType = "round_confirmed"
	EventRoundCancelled EventType = "round_cancelled"
	EventTeamRenamed    EventType = "team_renamed"
	EventPhotosChanged  EventType = "photos_changed"
	EventRosterImported EventType = "roster_imported"
	EventYearReset      EventType = "year_reset"
)

// Event is published after every successful mutation so connected screens
// can refresh.
type Event struct {
	Type   EventType `json:"type"`
	Game   string    `json:"game,omitempty"`
	TeamID int       `json:"teamId,omitempty"`
	Place  int       `json:"place,omitempty"`
}

type Publisher interface {
	Publish(Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}
