package roster

import (
	"errors"
	"fmt"
)

var ErrCapacityExceeded = errors.New("roster capacity exceeded")

// Slot describes the kind of capacity an entry would consume.
type Slot string

const (
	SlotNone   Slot = ""
	SlotDirect Slot = "direct"
	SlotFlex   Slot = "flex"
	SlotBench  Slot = "bench"
)

// Started counts picked entries at a natural position. Defenses are kept in
// their own list and are counted from it.
func Started(l League, pos Position) int {
	if pos == PositionDEF {
		return countPicked(l.Defenses)
	}

	count := 0
	for _, entry := range l.Players {
		if entry.Picked && entry.Position == pos {
			count++
		}
	}
	return count
}

// Benched counts unpicked entries across players and defenses.
func Benched(l League) int {
	count := 0
	for _, entry := range l.Players {
		if !entry.Picked {
			count++
		}
	}
	for _, entry := range l.Defenses {
		if !entry.Picked {
			count++
		}
	}
	return count
}

// RemainingBench is max(0, BENCH capacity - benched entries).
func RemainingBench(l League) int {
	return max(0, l.Settings.Bench-Benched(l))
}

// Overflow is the number of started entries at pos beyond its direct slots.
// Only flex-eligible positions can overflow; others report zero.
func Overflow(l League, pos Position) int {
	if !pos.IsFlexEligible() {
		return 0
	}
	return max(0, Started(l, pos)-SlotsFor(l.Settings, pos))
}

// FlexConsumed sums overflow across all flex-eligible positions. Overflow is
// symmetric: which position filled FLEX first is irrelevant.
func FlexConsumed(l League) int {
	total := 0
	for _, pos := range FlexEligible {
		total += Overflow(l, pos)
	}
	return total
}

// FlexRemaining is FLEX capacity minus FlexConsumed. It can be negative when
// the remote snapshot is already over capacity.
func FlexRemaining(l League) int {
	return l.Settings.Flex - FlexConsumed(l)
}

// StartSlot returns the starting capacity a benched entry at pos would take,
// or SlotNone when a swap is required. Bench room is never considered.
func StartSlot(l League, pos Position) Slot {
	if !pos.IsNatural() {
		return SlotNone
	}
	if SlotsFor(l.Settings, pos)-Started(l, pos) > 0 {
		return SlotDirect
	}
	if pos.IsFlexEligible() && FlexRemaining(l) > 0 {
		return SlotFlex
	}
	return SlotNone
}

// CanStart reports whether an entry at pos can occupy a starting slot now.
func CanStart(l League, pos Position) bool {
	return StartSlot(l, pos) != SlotNone
}

// AddSlot returns where a new member at pos could be placed. A free direct
// slot wins, then bench room, then FLEX. Defenses compete against the whole
// defense list rather than started defenses only.
func AddSlot(l League, pos Position) Slot {
	if !pos.IsNatural() {
		return SlotNone
	}

	filled := Started(l, pos)
	if pos == PositionDEF {
		filled = len(l.Defenses)
	}
	if SlotsFor(l.Settings, pos)-filled > 0 {
		return SlotDirect
	}
	if RemainingBench(l) > 0 {
		return SlotBench
	}
	if pos.IsFlexEligible() && FlexRemaining(l) > 0 {
		return SlotFlex
	}
	return SlotNone
}

// CanAdd reports whether a new member at pos fits anywhere on the roster,
// starting or bench.
func CanAdd(l League, pos Position) bool {
	return AddSlot(l, pos) != SlotNone
}

// SwapCandidates lists started entries that may be benched to make room for
// an entry at pos, in roster order.
//
// Defenses swap with started defenses. Other non-flex positions swap within
// the same position. Flex-eligible positions may also swap with any started
// flex player whose position currently overflows into FLEX.
func SwapCandidates(l League, pos Position) []Entry {
	if pos == PositionDEF {
		return pickedOnly(l.Defenses)
	}

	out := make([]Entry, 0)
	if !pos.IsFlexEligible() {
		for _, entry := range l.Players {
			if entry.Picked && entry.Position == pos {
				out = append(out, entry)
			}
		}
		return out
	}

	overflowing := make(map[Position]bool, len(FlexEligible))
	for _, flexPos := range FlexEligible {
		overflowing[flexPos] = Overflow(l, flexPos) > 0
	}
	for _, entry := range l.Players {
		if !entry.Picked || !entry.Position.IsFlexEligible() {
			continue
		}
		if overflowing[entry.Position] || entry.Position == pos {
			out = append(out, entry)
		}
	}
	return out
}

// IsSwapCandidate reports whether ref is in SwapCandidates(l, pos).
func IsSwapCandidate(l League, pos Position, ref Ref) bool {
	for _, entry := range SwapCandidates(l, pos) {
		if entry.Ref() == ref {
			return true
		}
	}
	return false
}

// Decision is the full eligibility answer for one position.
type Decision struct {
	Position   Position
	CanAdd     bool
	AddVia     Slot
	CanStart   bool
	StartVia   Slot
	Candidates []Entry
}

// Evaluate answers both capacity queries for pos. Candidates are only
// computed when no starting slot is free.
func Evaluate(l League, pos Position) Decision {
	decision := Decision{
		Position: pos,
		AddVia:   AddSlot(l, pos),
		StartVia: StartSlot(l, pos),
	}
	decision.CanAdd = decision.AddVia != SlotNone
	decision.CanStart = decision.StartVia != SlotNone
	if !decision.CanStart && pos.IsNatural() {
		decision.Candidates = SwapCandidates(l, pos)
	}
	return decision
}

// Usage is the occupancy of one slot category.
type Usage struct {
	Category Position
	Capacity int
	Used     int
}

// Occupancy reports per-category usage in configuration order. Direct usage
// is capped at capacity; the excess is reported under FLEX.
func Occupancy(l League) []Usage {
	out := make([]Usage, 0, 8)
	for _, pos := range []Position{PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDEF} {
		capacity := SlotsFor(l.Settings, pos)
		out = append(out, Usage{Category: pos, Capacity: capacity, Used: min(Started(l, pos), max(capacity, 0))})
	}
	out = append(out,
		Usage{Category: PositionFlex, Capacity: l.Settings.Flex, Used: FlexConsumed(l)},
		Usage{Category: PositionBench, Capacity: l.Settings.Bench, Used: Benched(l)},
	)
	return out
}

// CheckCapacity verifies the starting lineup invariants: no position beyond
// its direct slots plus borrowed FLEX, and FLEX borrowing within FLEX slots.
func CheckCapacity(l League) error {
	for _, pos := range []Position{PositionQB, PositionK, PositionDEF} {
		if started, slots := Started(l, pos), SlotsFor(l.Settings, pos); started > slots {
			return fmt.Errorf("%w: %s started=%d slots=%d", ErrCapacityExceeded, pos, started, slots)
		}
	}
	if consumed := FlexConsumed(l); consumed > l.Settings.Flex {
		return fmt.Errorf("%w: flex consumed=%d slots=%d", ErrCapacityExceeded, consumed, l.Settings.Flex)
	}

	return nil
}

func countPicked(entries []Entry) int {
	count := 0
	for _, entry := range entries {
		if entry.Picked {
			count++
		}
	}
	return count
}

func pickedOnly(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Picked {
			out = append(out, entry)
		}
	}
	return out
}
