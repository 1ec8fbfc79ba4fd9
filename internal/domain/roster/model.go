package roster

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownPosition = errors.New("unknown roster position")
	ErrInvalidSettings = errors.New("invalid roster settings")
	ErrLeagueNotFound  = errors.New("league not found")
	ErrMemberNotFound  = errors.New("roster member not found")
	ErrMemberExists    = errors.New("roster member already exists")
)

// Settings is the per-league slot capacity configuration.
type Settings struct {
	QB    int
	RB    int
	WR    int
	TE    int
	K     int
	DEF   int
	Flex  int
	Bench int
}

func (s Settings) Validate() error {
	for _, pos := range []Position{
		PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDEF, PositionFlex, PositionBench,
	} {
		if SlotsFor(s, pos) < 0 {
			return fmt.Errorf("%w: %s capacity must not be negative", ErrInvalidSettings, pos)
		}
	}
	if s.StartingSlots() == 0 {
		return fmt.Errorf("%w: at least one starting slot is required", ErrInvalidSettings)
	}

	return nil
}

// StartingSlots is the total of all direct slots plus FLEX.
func (s Settings) StartingSlots() int {
	return s.QB + s.RB + s.WR + s.TE + s.K + s.DEF + s.Flex
}

// Entry is one roster member: a player or a team defense.
// Picked entries occupy a starting slot, the rest sit on the bench.
type Entry struct {
	ID           string
	Name         string
	Position     Position
	Team         string
	HeadshotURL  string
	IsDefense    bool
	Picked       bool
	SeasonPoints float64
	Weeks        []int
}

// Ref identifies an entry across the player and defense variants.
type Ref struct {
	ID        string
	IsDefense bool
}

func (e Entry) Ref() Ref {
	return Ref{ID: e.ID, IsDefense: e.IsDefense}
}

// League is an in-memory snapshot of one league's roster.
type League struct {
	ID       string
	Name     string
	Settings Settings
	Players  []Entry
	Defenses []Entry
}

// Find looks up an entry by id within the player or defense list.
func (l League) Find(ref Ref) (Entry, bool) {
	list := l.Players
	if ref.IsDefense {
		list = l.Defenses
	}
	for _, entry := range list {
		if entry.ID == ref.ID {
			return entry, true
		}
	}
	return Entry{}, false
}

// Contains reports whether the member is already on this league's roster.
func (l League) Contains(ref Ref) bool {
	_, ok := l.Find(ref)
	return ok
}

// PlayerIDs returns ids of all players in roster order. Defenses are excluded.
func (l League) PlayerIDs() []string {
	out := make([]string, 0, len(l.Players))
	for _, entry := range l.Players {
		out = append(out, entry.ID)
	}
	return out
}

// Entries returns players followed by defenses.
func (l League) Entries() []Entry {
	out := make([]Entry, 0, len(l.Players)+len(l.Defenses))
	out = append(out, l.Players...)
	out = append(out, l.Defenses...)
	return out
}

// NewLeague is the payload for league creation.
type NewLeague struct {
	Name     string
	Settings Settings
}

func (n NewLeague) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return fmt.Errorf("league name is required")
	}
	return n.Settings.Validate()
}
