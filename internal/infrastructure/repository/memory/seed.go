package memory

import (
	"slices"

	"github.com/riskibarqy/fantasy-roster/internal/domain/account"
	"github.com/riskibarqy/fantasy-roster/internal/domain/catalog"
	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
)

const (
	SeedUserID         = "demo-user"
	LeagueIDHomeLeague = "league-home"
	LeagueIDWorkLeague = "league-work"
)

// Seed is the initial state of a RosterBackend.
type Seed struct {
	Profile  account.Profile
	Players  []catalog.Player
	Defenses []catalog.Defense
	// Weeks lists the weeks each pool player has stats for.
	Weeks map[string][]int
}

func DefaultSettings() roster.Settings {
	return roster.Settings{QB: 1, RB: 2, WR: 2, TE: 1, K: 1, DEF: 1, Flex: 1, Bench: 5}
}

func SeedPlayers() []catalog.Player {
	return []catalog.Player{
		{ID: "qb-allen", Name: "Josh Allen", Position: roster.PositionQB, Team: "BUF", SeasonPoints: 301.4},
		{ID: "qb-hurts", Name: "Jalen Hurts", Position: roster.PositionQB, Team: "PHI", SeasonPoints: 288.2},
		{ID: "rb-barkley", Name: "Saquon Barkley", Position: roster.PositionRB, Team: "PHI", SeasonPoints: 254.9},
		{ID: "rb-gibbs", Name: "Jahmyr Gibbs", Position: roster.PositionRB, Team: "DET", SeasonPoints: 246.1},
		{ID: "rb-henry", Name: "Derrick Henry", Position: roster.PositionRB, Team: "BAL", SeasonPoints: 239.7},
		{ID: "rb-cook", Name: "James Cook", Position: roster.PositionRB, Team: "BUF", SeasonPoints: 188.3},
		{ID: "wr-chase", Name: "Ja'Marr Chase", Position: roster.PositionWR, Team: "CIN", SeasonPoints: 276.0},
		{ID: "wr-jefferson", Name: "Justin Jefferson", Position: roster.PositionWR, Team: "MIN", SeasonPoints: 221.5},
		{ID: "wr-lamb", Name: "CeeDee Lamb", Position: roster.PositionWR, Team: "DAL", SeasonPoints: 203.8},
		{ID: "wr-nacua", Name: "Puka Nacua", Position: roster.PositionWR, Team: "LAR", SeasonPoints: 176.4},
		{ID: "te-bowers", Name: "Brock Bowers", Position: roster.PositionTE, Team: "LV", SeasonPoints: 168.9},
		{ID: "te-kelce", Name: "Travis Kelce", Position: roster.PositionTE, Team: "KC", SeasonPoints: 131.2},
		{ID: "k-aubrey", Name: "Brandon Aubrey", Position: roster.PositionK, Team: "DAL", SeasonPoints: 158.0},
		{ID: "k-butker", Name: "Harrison Butker", Position: roster.PositionK, Team: "KC", SeasonPoints: 112.0},
	}
}

func SeedDefenses() []catalog.Defense {
	return []catalog.Defense{
		{ID: "def-den", Name: "Denver Broncos"},
		{ID: "def-min", Name: "Minnesota Vikings"},
		{ID: "def-phi", Name: "Philadelphia Eagles"},
	}
}

// DefaultSeed returns a profile with one populated league and one empty
// league, plus the shared player pool.
// SeedWeeks is the stat history of the pool, including players that start
// off the roster.
func SeedWeeks() map[string][]int {
	return map[string][]int{
		"qb-allen":     {1, 2, 3},
		"qb-hurts":     {1, 2, 3},
		"rb-barkley":   {1, 2, 3},
		"rb-gibbs":     {1, 2, 3},
		"rb-henry":     {1, 2},
		"rb-cook":      {2, 3},
		"wr-chase":     {1, 2, 3},
		"wr-jefferson": {1, 2, 3},
		"wr-lamb":      {1, 3},
		"wr-nacua":     {1},
		"te-bowers":    {1, 2, 3},
		"te-kelce":     {2, 3},
		"k-aubrey":     {2, 3},
		"k-butker":     {1, 2, 3},
	}
}

func DefaultSeed() Seed {
	players := SeedPlayers()
	pool := make(map[string]catalog.Player, len(players))
	for _, item := range players {
		pool[item.ID] = item
	}
	weeks := SeedWeeks()
	entry := func(playerID string, picked bool) roster.Entry {
		item := pool[playerID]
		return roster.Entry{
			ID:           item.ID,
			Name:         item.Name,
			Position:     item.Position,
			Team:         item.Team,
			Picked:       picked,
			SeasonPoints: item.SeasonPoints,
			Weeks:        slices.Clone(weeks[playerID]),
		}
	}

	return Seed{
		Profile: account.Profile{
			UserID:     SeedUserID,
			Email:      "demo@example.com",
			TokensLeft: 5,
			Leagues: []roster.League{
				{
					ID:       LeagueIDHomeLeague,
					Name:     "Home League",
					Settings: DefaultSettings(),
					Players: []roster.Entry{
						entry("qb-allen", true),
						entry("rb-barkley", true),
						entry("rb-gibbs", true),
						entry("rb-henry", true),
						entry("wr-chase", true),
						entry("wr-lamb", true),
						entry("te-bowers", true),
						entry("k-aubrey", true),
						entry("wr-nacua", false),
						entry("te-kelce", false),
					},
					Defenses: []roster.Entry{
						{ID: "def-den", Name: "Denver Broncos", Position: roster.PositionDEF, IsDefense: true, Picked: true},
					},
				},
				{
					ID:       LeagueIDWorkLeague,
					Name:     "Work League",
					Settings: roster.Settings{QB: 1, RB: 2, WR: 3, TE: 1, K: 1, DEF: 1, Flex: 2, Bench: 6},
					Players:  []roster.Entry{},
					Defenses: []roster.Entry{},
				},
			},
		},
		Players:  players,
		Defenses: SeedDefenses(),
		Weeks:    weeks,
	}
}
