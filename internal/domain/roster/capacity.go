package roster

// UnknownCapacity is returned by SlotsFor for categories outside the
// configuration, so callers can tell "no such category" from zero slots.
const UnknownCapacity = -1

// SlotsFor returns the configured capacity for a slot category.
func SlotsFor(settings Settings, category Position) int {
	switch category {
	case PositionQB:
		return settings.QB
	case PositionRB:
		return settings.RB
	case PositionWR:
		return settings.WR
	case PositionTE:
		return settings.TE
	case PositionK:
		return settings.K
	case PositionDEF:
		return settings.DEF
	case PositionFlex:
		return settings.Flex
	case PositionBench:
		return settings.Bench
	default:
		return UnknownCapacity
	}
}
