package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/riskibarqy/fantasy-roster/internal/domain/catalog"
	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
)

type CatalogService struct {
	repo catalog.Repository
}

func NewCatalogService(repo catalog.Repository) *CatalogService {
	return &CatalogService{repo: repo}
}

// ListByPosition returns the selectable pool for a position. Players are
// ordered by season points, highest first. query filters by name,
// case-insensitively.
func (s *CatalogService) ListByPosition(ctx context.Context, position, query string) (catalog.Listing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.ListByPosition")
	defer span.End()

	pos, err := roster.ParsePosition(position)
	if err != nil {
		return catalog.Listing{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	listing, err := s.repo.ListByPosition(ctx, pos)
	if err != nil {
		return catalog.Listing{}, readError("list catalog by position", err)
	}

	out := catalog.Listing{Kind: catalog.KindFor(pos), Position: pos}
	query = strings.ToLower(strings.TrimSpace(query))
	matches := func(name string) bool {
		return query == "" || strings.Contains(strings.ToLower(name), query)
	}

	if out.Kind == catalog.KindDefenses {
		out.Defenses = make([]catalog.Defense, 0, len(listing.Defenses))
		for _, item := range listing.Defenses {
			if matches(item.Name) {
				out.Defenses = append(out.Defenses, item)
			}
		}
		return out, nil
	}

	out.Players = make([]catalog.Player, 0, len(listing.Players))
	for _, item := range listing.Players {
		if matches(item.Name) {
			out.Players = append(out.Players, item)
		}
	}
	slices.SortStableFunc(out.Players, func(a, b catalog.Player) int {
		switch {
		case a.SeasonPoints > b.SeasonPoints:
			return -1
		case a.SeasonPoints < b.SeasonPoints:
			return 1
		default:
			return 0
		}
	})
	return out, nil
}
