package catalog

import (
	"context"

	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
)

// Kind tags which variant a Listing carries.
type Kind string

const (
	KindPlayers  Kind = "players"
	KindDefenses Kind = "defenses"
)

// Player is a selectable player in the position catalog.
type Player struct {
	ID           string
	Name         string
	Position     roster.Position
	Team         string
	HeadshotURL  string
	SeasonPoints float64
}

// Defense is a selectable team defense.
type Defense struct {
	ID   string
	Name string
}

// Listing is the catalog for one position. Exactly one of Players or
// Defenses is populated, as indicated by Kind.
type Listing struct {
	Kind     Kind
	Position roster.Position
	Players  []Player
	Defenses []Defense
}

// KindFor resolves which variant a position lookup returns.
func KindFor(pos roster.Position) Kind {
	if pos == roster.PositionDEF {
		return KindDefenses
	}
	return KindPlayers
}

// Len returns the number of items in the populated variant.
func (l Listing) Len() int {
	if l.Kind == KindDefenses {
		return len(l.Defenses)
	}
	return len(l.Players)
}

// Repository reads the selectable pool for a position.
type Repository interface {
	ListByPosition(ctx context.Context, pos roster.Position) (Listing, error)
}
