package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/riskibarqy/fantasy-roster/internal/domain/advice"
	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
)

// AdviceGenerator produces deterministic advice from season points: the
// best entries fill the starting slots, the rest sit. It stands in for the
// remote advice service and, like it, spends one token per generation.
type AdviceGenerator struct {
	backend *RosterBackend
}

func NewAdviceGenerator(backend *RosterBackend) *AdviceGenerator {
	return &AdviceGenerator{backend: backend}
}

func (g *AdviceGenerator) Generate(ctx context.Context, leagueID string) ([]advice.Recommendation, error) {
	profile, err := g.backend.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	league, ok := profile.League(leagueID)
	if !ok {
		return nil, fmt.Errorf("%w: league=%s", roster.ErrLeagueNotFound, leagueID)
	}
	if err := g.backend.spendToken(); err != nil {
		return nil, err
	}

	// Rebuild the lineup from an empty bench so the result only depends on
	// the roster composition.
	draft := roster.League{Settings: league.Settings}
	for _, entry := range league.Players {
		entry.Picked = false
		draft.Players = append(draft.Players, entry)
	}
	for _, entry := range league.Defenses {
		entry.Picked = false
		draft.Defenses = append(draft.Defenses, entry)
	}

	order := make([]int, len(draft.Players))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case draft.Players[a].SeasonPoints > draft.Players[b].SeasonPoints:
			return -1
		case draft.Players[a].SeasonPoints < draft.Players[b].SeasonPoints:
			return 1
		default:
			return 0
		}
	})

	out := make([]advice.Recommendation, 0, len(draft.Players)+len(draft.Defenses))
	for _, idx := range order {
		entry := &draft.Players[idx]
		entry.Picked = roster.CanStart(draft, entry.Position)
		out = append(out, recommendation(*entry))
	}
	for i := range draft.Defenses {
		entry := &draft.Defenses[i]
		entry.Picked = roster.CanStart(draft, roster.PositionDEF)
		out = append(out, recommendation(*entry))
	}
	return out, nil
}

func recommendation(entry roster.Entry) advice.Recommendation {
	reasoning := fmt.Sprintf("%.1f season points; bench depth at %s.", entry.SeasonPoints, entry.Position)
	if entry.Picked {
		reasoning = fmt.Sprintf("%.1f season points; top option at %s.", entry.SeasonPoints, entry.Position)
	}
	return advice.Recommendation{
		PlayerID:  entry.ID,
		Position:  string(entry.Position),
		Picked:    entry.Picked,
		Reasoning: reasoning,
	}
}
