package roster

import (
	"fmt"
	"strings"
)

// Position is a slot category in a league roster configuration.
// Natural positions (QB..DEF) are what entries play; FLEX and BENCH are
// capacity-only categories that no entry carries as its natural position.
type Position string

const (
	PositionQB    Position = "QB"
	PositionRB    Position = "RB"
	PositionWR    Position = "WR"
	PositionTE    Position = "TE"
	PositionK     Position = "K"
	PositionDEF   Position = "DEF"
	PositionFlex  Position = "FLEX"
	PositionBench Position = "BENCH"
)

// NaturalPositions are the positions an entry can play.
var NaturalPositions = map[Position]struct{}{
	PositionQB:  {},
	PositionRB:  {},
	PositionWR:  {},
	PositionTE:  {},
	PositionK:   {},
	PositionDEF: {},
}

// FlexEligible lists positions that may borrow FLEX capacity once their
// direct slots are exhausted. Order is stable and used for overflow reports.
var FlexEligible = []Position{PositionRB, PositionWR, PositionTE}

// IsFlexEligible reports whether p can occupy a FLEX slot.
func (p Position) IsFlexEligible() bool {
	for _, pos := range FlexEligible {
		if pos == p {
			return true
		}
	}
	return false
}

// IsNatural reports whether p is a position an entry can play.
func (p Position) IsNatural() bool {
	_, ok := NaturalPositions[p]
	return ok
}

func (p Position) String() string {
	return string(p)
}

// ParsePosition normalizes user input such as " wr " into a natural position.
func ParsePosition(raw string) (Position, error) {
	pos := Position(strings.ToUpper(strings.TrimSpace(raw)))
	if !pos.IsNatural() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPosition, raw)
	}
	return pos, nil
}
