package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/riskibarqy/fantasy-roster/internal/domain/account"
	"github.com/riskibarqy/fantasy-roster/internal/domain/catalog"
	"github.com/riskibarqy/fantasy-roster/internal/domain/performance"
	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
	"github.com/riskibarqy/fantasy-roster/internal/platform/id"
)

// RosterBackend is an in-process stand-in for the remote roster backend. It
// serves one profile and a shared player pool, and implements the account,
// roster, catalog and performance repositories.
type RosterBackend struct {
	mu       sync.RWMutex
	profile  account.Profile
	players  map[string]catalog.Player
	order    []string
	defenses []catalog.Defense
	weeks    map[string][]int
	ids      id.Generator
}

func NewRosterBackend(seed Seed, ids id.Generator) *RosterBackend {
	if ids == nil {
		ids = id.NewUUIDGenerator("league-")
	}

	players := make(map[string]catalog.Player, len(seed.Players))
	order := make([]string, 0, len(seed.Players))
	for _, item := range seed.Players {
		players[item.ID] = item
		order = append(order, item.ID)
	}

	return &RosterBackend{
		profile:  cloneProfile(seed.Profile),
		players:  players,
		order:    order,
		defenses: slices.Clone(seed.Defenses),
		weeks:    seed.Weeks,
		ids:      ids,
	}
}

func (b *RosterBackend) GetProfile(_ context.Context) (account.Profile, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return cloneProfile(b.profile), nil
}

func (b *RosterBackend) AddMember(_ context.Context, leagueID string, member roster.Ref) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	league, err := b.leagueLocked(leagueID)
	if err != nil {
		return err
	}
	if league.Contains(member) {
		return fmt.Errorf("%w: member=%s league=%s", roster.ErrMemberExists, member.ID, leagueID)
	}

	entry, err := b.entryFromPool(member)
	if err != nil {
		return err
	}
	entry.Picked = roster.CanStart(*league, entry.Position)
	if member.IsDefense {
		league.Defenses = append(league.Defenses, entry)
	} else {
		league.Players = append(league.Players, entry)
	}
	return nil
}

func (b *RosterBackend) RemoveMember(_ context.Context, leagueID string, member roster.Ref) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	league, err := b.leagueLocked(leagueID)
	if err != nil {
		return err
	}

	list := memberList(league, member.IsDefense)
	idx := slices.IndexFunc(*list, func(entry roster.Entry) bool { return entry.ID == member.ID })
	if idx < 0 {
		return fmt.Errorf("%w: member=%s league=%s", roster.ErrMemberNotFound, member.ID, leagueID)
	}
	*list = slices.Delete(*list, idx, idx+1)
	return nil
}

func (b *RosterBackend) SetPickedStatus(_ context.Context, leagueID string, member roster.Ref, picked bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	league, err := b.leagueLocked(leagueID)
	if err != nil {
		return err
	}

	list := memberList(league, member.IsDefense)
	for i := range *list {
		if (*list)[i].ID == member.ID {
			(*list)[i].Picked = picked
			return nil
		}
	}
	return fmt.Errorf("%w: member=%s league=%s", roster.ErrMemberNotFound, member.ID, leagueID)
}

// SwapMember puts incoming in outgoing's place, keeping its picked status.
func (b *RosterBackend) SwapMember(_ context.Context, leagueID string, outgoing, incoming roster.Ref) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	league, err := b.leagueLocked(leagueID)
	if err != nil {
		return err
	}
	old, ok := league.Find(outgoing)
	if !ok {
		return fmt.Errorf("%w: member=%s league=%s", roster.ErrMemberNotFound, outgoing.ID, leagueID)
	}
	if league.Contains(incoming) {
		return fmt.Errorf("%w: member=%s league=%s", roster.ErrMemberExists, incoming.ID, leagueID)
	}
	entry, err := b.entryFromPool(incoming)
	if err != nil {
		return err
	}
	entry.Picked = old.Picked

	outList := memberList(league, outgoing.IsDefense)
	idx := slices.IndexFunc(*outList, func(e roster.Entry) bool { return e.ID == outgoing.ID })
	*outList = slices.Delete(*outList, idx, idx+1)
	inList := memberList(league, incoming.IsDefense)
	*inList = append(*inList, entry)
	return nil
}

func (b *RosterBackend) CreateLeague(_ context.Context, payload roster.NewLeague) error {
	leagueID, err := b.ids.NewID()
	if err != nil {
		return fmt.Errorf("generate league id: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.profile.Leagues = append(b.profile.Leagues, roster.League{
		ID:       leagueID,
		Name:     payload.Name,
		Settings: payload.Settings,
		Players:  []roster.Entry{},
		Defenses: []roster.Entry{},
	})
	return nil
}

func (b *RosterBackend) ListByPosition(_ context.Context, pos roster.Position) (catalog.Listing, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	listing := catalog.Listing{Kind: catalog.KindFor(pos), Position: pos}
	if listing.Kind == catalog.KindDefenses {
		listing.Defenses = slices.Clone(b.defenses)
		return listing, nil
	}

	listing.Players = make([]catalog.Player, 0)
	for _, playerID := range b.order {
		if item := b.players[playerID]; item.Position == pos {
			listing.Players = append(listing.Players, item)
		}
	}
	return listing, nil
}

// GetWeek spreads each player's season points evenly over the weeks they
// played and ranks the result.
func (b *RosterBackend) GetWeek(_ context.Context, leagueID string, week int) (performance.Report, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	league, ok := b.profile.League(leagueID)
	if !ok {
		return performance.Report{}, fmt.Errorf("%w: league=%s", roster.ErrLeagueNotFound, leagueID)
	}

	history := make(map[int]*performance.LeagueWeek)
	report := performance.Report{Players: make([]performance.PlayerWeek, 0)}
	for _, entry := range league.Players {
		if len(entry.Weeks) == 0 {
			continue
		}
		perWeek := entry.SeasonPoints / float64(len(entry.Weeks))
		for _, w := range entry.Weeks {
			item, ok := history[w]
			if !ok {
				item = &performance.LeagueWeek{Week: w}
				history[w] = item
			}
			item.MaxPoints += perWeek
			if entry.Picked {
				item.ActualPoints += perWeek
			}
		}
		if slices.Contains(entry.Weeks, week) {
			report.Players = append(report.Players, performance.PlayerWeek{
				PlayerID:     entry.ID,
				ActualPoints: perWeek,
				Picked:       entry.Picked,
			})
		}
	}

	rankPlayerWeeks(report.Players, b.players)
	for _, item := range history {
		if item.MaxPoints > 0 {
			item.Accuracy = item.ActualPoints / item.MaxPoints * 100
		}
		report.History = append(report.History, *item)
	}
	slices.SortFunc(report.History, func(a, c performance.LeagueWeek) int { return a.Week - c.Week })
	return report, nil
}

func (b *RosterBackend) GetPlayerInfo(_ context.Context, playerIDs []string) ([]performance.PlayerInfo, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]performance.PlayerInfo, 0, len(playerIDs))
	for _, playerID := range playerIDs {
		item, ok := b.players[playerID]
		if !ok {
			continue
		}
		out = append(out, performance.PlayerInfo{
			ID:          item.ID,
			Name:        item.Name,
			Position:    string(item.Position),
			HeadshotURL: item.HeadshotURL,
		})
	}
	return out, nil
}

// spendToken charges one advice generation against the quota.
func (b *RosterBackend) spendToken() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.profile.TokensLeft <= 0 {
		return fmt.Errorf("advice quota exhausted: tokens_left=%d", b.profile.TokensLeft)
	}
	b.profile.TokensLeft--
	return nil
}

func (b *RosterBackend) leagueLocked(leagueID string) (*roster.League, error) {
	for i := range b.profile.Leagues {
		if b.profile.Leagues[i].ID == leagueID {
			return &b.profile.Leagues[i], nil
		}
	}
	return nil, fmt.Errorf("%w: league=%s", roster.ErrLeagueNotFound, leagueID)
}

func (b *RosterBackend) entryFromPool(member roster.Ref) (roster.Entry, error) {
	if member.IsDefense {
		idx := slices.IndexFunc(b.defenses, func(d catalog.Defense) bool { return d.ID == member.ID })
		if idx < 0 {
			return roster.Entry{}, fmt.Errorf("%w: defense=%s", roster.ErrMemberNotFound, member.ID)
		}
		return roster.Entry{
			ID:        member.ID,
			Name:      b.defenses[idx].Name,
			Position:  roster.PositionDEF,
			IsDefense: true,
		}, nil
	}

	item, ok := b.players[member.ID]
	if !ok {
		return roster.Entry{}, fmt.Errorf("%w: player=%s", roster.ErrMemberNotFound, member.ID)
	}
	return roster.Entry{
		ID:           item.ID,
		Name:         item.Name,
		Position:     item.Position,
		Team:         item.Team,
		HeadshotURL:  item.HeadshotURL,
		SeasonPoints: item.SeasonPoints,
		Weeks:        slices.Clone(b.weeks[item.ID]),
	}, nil
}

func memberList(league *roster.League, isDefense bool) *[]roster.Entry {
	if isDefense {
		return &league.Defenses
	}
	return &league.Players
}

func rankPlayerWeeks(rows []performance.PlayerWeek, pool map[string]catalog.Player) {
	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	byPoints := func(a, c int) int {
		switch {
		case rows[a].ActualPoints > rows[c].ActualPoints:
			return -1
		case rows[a].ActualPoints < rows[c].ActualPoints:
			return 1
		default:
			return 0
		}
	}

	slices.SortStableFunc(order, byPoints)
	positionSeen := make(map[roster.Position]int)
	for rank, idx := range order {
		rows[idx].OverallRank = rank + 1
		pos := pool[rows[idx].PlayerID].Position
		positionSeen[pos]++
		rows[idx].PositionRank = positionSeen[pos]
	}
}

func cloneProfile(in account.Profile) account.Profile {
	out := in
	out.Leagues = make([]roster.League, 0, len(in.Leagues))
	for _, league := range in.Leagues {
		league.Players = slices.Clone(league.Players)
		league.Defenses = slices.Clone(league.Defenses)
		out.Leagues = append(out.Leagues, league)
	}
	return out
}
