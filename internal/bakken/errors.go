package bakken

import "errors"

var (
	ErrRoundOpen      = errors.New("a round is already open")
	ErrNoRound        = errors.New("no round is open")
	ErrUnknownGame    = errors.New("game is not in the catalog")
	ErrGameCompleted  = errors.New("game has already been completed")
	ErrInvalidPlace   = errors.New("place must be 1, 2 or 3")
	ErrUnknownTeam    = errors.New("unknown team")
	ErrIncomplete     = errors.New("all three places must be filled by distinct teams")
	ErrNegativePoints = errors.New("points must not be negative")
	ErrBlankName      = errors.New("name must not be blank")
	ErrInvalidRoster  = errors.New("invalid roster")
)
