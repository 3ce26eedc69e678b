// Package bakken holds the tournament ledger: teams, the result state machine,
// standings and the completed-games history. It has no I/O of its own.
package bakken

import "slices"

// Catalog is the fixed, ordered list of games that can be played.
var Catalog = []string{
	"Andedammen", "Revolver skydebane", "Dart", "Bonanza", "Boom ball",
	"Bueskydning", "Delfinspillet", "Fodbold", "Fodbolddart", "Golf",
	"Hønen", "Håndboldspillet", "Basket", "Mini bowling", "Dåsekast",
	"Øksekast", "Andet1", "Andet2", "Andet3", "Andet4",
}

// CompletionThreshold is the number of completed games that ends the tournament.
const CompletionThreshold = 10

// InCatalog reports whether name is a catalog game.
func InCatalog(name string) bool {
	return slices.Contains(Catalog, name)
}

// Place is a finishing rank within one game.
type Place int

const (
	First  Place = 1
	Second Place = 2
	Third  Place = 3
)

// Places lists every place in rank order.
var Places = []Place{First, Second, Third}

func (p Place) Valid() bool { return p >= First && p <= Third }

// Points returns the fixed award for finishing at p.
func (p Place) Points() int {
	switch p {
	case First:
		return 2
	case Second:
		return 1
	default:
		return 0
	}
}
