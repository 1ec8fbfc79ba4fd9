package cache

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/riskibarqy/fantasy-roster/internal/domain/catalog"
	"github.com/riskibarqy/fantasy-roster/internal/domain/performance"
	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
	basecache "github.com/riskibarqy/fantasy-roster/internal/platform/cache"
)

// CatalogRepository caches position listings. Listings are shared by every
// caller so the key only carries the position.
type CatalogRepository struct {
	next  catalog.Repository
	cache *basecache.Store
}

func NewCatalogRepository(next catalog.Repository, cache *basecache.Store) *CatalogRepository {
	return &CatalogRepository{next: next, cache: cache}
}

func (r *CatalogRepository) ListByPosition(ctx context.Context, pos roster.Position) (catalog.Listing, error) {
	key := "catalog:position:" + pos.String()
	listing, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (catalog.Listing, error) {
		return r.next.ListByPosition(ctx, pos)
	})
	if err != nil {
		return catalog.Listing{}, err
	}
	return cloneListing(listing), nil
}

func cloneListing(in catalog.Listing) catalog.Listing {
	out := in
	out.Players = slices.Clone(in.Players)
	out.Defenses = slices.Clone(in.Defenses)
	return out
}

// PerformanceRepository caches finished-week reports and player labels.
type PerformanceRepository struct {
	next  performance.Repository
	cache *basecache.Store
}

func NewPerformanceRepository(next performance.Repository, cache *basecache.Store) *PerformanceRepository {
	return &PerformanceRepository{next: next, cache: cache}
}

func (r *PerformanceRepository) GetWeek(ctx context.Context, leagueID string, week int) (performance.Report, error) {
	key := "performance:week:" + leagueID + ":" + strconv.Itoa(week)
	report, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (performance.Report, error) {
		return r.next.GetWeek(ctx, leagueID, week)
	})
	if err != nil {
		return performance.Report{}, err
	}
	return performance.Report{
		Players: slices.Clone(report.Players),
		History: slices.Clone(report.History),
	}, nil
}

func (r *PerformanceRepository) GetPlayerInfo(ctx context.Context, playerIDs []string) ([]performance.PlayerInfo, error) {
	ids := slices.Clone(playerIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	key := "performance:players:" + strings.Join(ids, ",")
	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]performance.PlayerInfo, error) {
		return r.next.GetPlayerInfo(ctx, ids)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

// InvalidateLeague drops cached reports for one league.
func (r *PerformanceRepository) InvalidateLeague(ctx context.Context, leagueID string) {
	r.cache.DeletePrefix(ctx, "performance:week:"+leagueID+":")
}

// RosterRepository forwards mutations and drops the league's cached weekly
// reports once the backend accepts one, since reports carry started status
// and lineup accuracy.
type RosterRepository struct {
	next        roster.Repository
	performance *PerformanceRepository
}

var _ roster.Repository = (*RosterRepository)(nil)

func NewRosterRepository(next roster.Repository, performance *PerformanceRepository) *RosterRepository {
	return &RosterRepository{next: next, performance: performance}
}

func (r *RosterRepository) AddMember(ctx context.Context, leagueID string, member roster.Ref) error {
	return r.invalidateOn(ctx, leagueID, r.next.AddMember(ctx, leagueID, member))
}

func (r *RosterRepository) RemoveMember(ctx context.Context, leagueID string, member roster.Ref) error {
	return r.invalidateOn(ctx, leagueID, r.next.RemoveMember(ctx, leagueID, member))
}

func (r *RosterRepository) SetPickedStatus(ctx context.Context, leagueID string, member roster.Ref, picked bool) error {
	return r.invalidateOn(ctx, leagueID, r.next.SetPickedStatus(ctx, leagueID, member, picked))
}

func (r *RosterRepository) SwapMember(ctx context.Context, leagueID string, outgoing, incoming roster.Ref) error {
	return r.invalidateOn(ctx, leagueID, r.next.SwapMember(ctx, leagueID, outgoing, incoming))
}

func (r *RosterRepository) CreateLeague(ctx context.Context, league roster.NewLeague) error {
	return r.next.CreateLeague(ctx, league)
}

func (r *RosterRepository) invalidateOn(ctx context.Context, leagueID string, err error) error {
	if err == nil {
		r.performance.InvalidateLeague(ctx, leagueID)
	}
	return err
}
