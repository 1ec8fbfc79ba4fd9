package rosterapi

import (
	"strings"

	"github.com/riskibarqy/fantasy-roster/internal/domain/account"
	"github.com/riskibarqy/fantasy-roster/internal/domain/advice"
	"github.com/riskibarqy/fantasy-roster/internal/domain/catalog"
	"github.com/riskibarqy/fantasy-roster/internal/domain/performance"
	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
)

type userDataResponse struct {
	UserInfo struct {
		ID         string `json:"id"`
		Email      string `json:"email"`
		TokensLeft int    `json:"tokens_left"`
	} `json:"userInfo"`
	Leagues []leaguePayload `json:"leagues"`
}

type leaguePayload struct {
	LeagueID       string                `json:"leagueId"`
	LeagueName     string                `json:"leagueName"`
	RosterSettings rosterSettingsPayload `json:"rosterSettings"`
	Players        []playerDataPayload   `json:"players"`
	Defenses       []defensePayload      `json:"defenses"`
}

type rosterSettingsPayload struct {
	QBCount    int `json:"qb_count"`
	RBCount    int `json:"rb_count"`
	WRCount    int `json:"wr_count"`
	TECount    int `json:"te_count"`
	KCount     int `json:"k_count"`
	DEFCount   int `json:"def_count"`
	FlexCount  int `json:"flex_count"`
	BenchCount int `json:"bench_count"`
}

type playerDataPayload struct {
	Picked bool `json:"picked"`
	Player struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Position    string `json:"position"`
		Team        string `json:"team"`
		HeadshotURL string `json:"headshot_url"`
	} `json:"player"`
	SeasonStats struct {
		FantasyPoints float64 `json:"fantasy_points"`
	} `json:"seasonStats"`
	WeeklyStats []struct {
		Week int `json:"week"`
	} `json:"weeklyStats"`
}

type defensePayload struct {
	Picked bool `json:"picked"`
	Team   struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
}

type memberRequest struct {
	LeagueID  string `json:"leagueId"`
	MemberID  string `json:"memberId"`
	IsDefense bool   `json:"isDefense"`
}

type pickedStatusRequest struct {
	LeagueID  string `json:"league_id"`
	MemberID  string `json:"member_id"`
	Picked    bool   `json:"picked"`
	IsDefense bool   `json:"is_defense"`
}

type swapMemberRequest struct {
	LeagueID     string `json:"leagueId"`
	OldMemberID  string `json:"oldMemberId"`
	OldIsDefense bool   `json:"oldIsDefense"`
	NewMemberID  string `json:"newMemberId"`
	NewIsDefense bool   `json:"newIsDefense"`
}

type createLeagueRequest struct {
	LeagueName     string                `json:"leagueName"`
	RosterSettings rosterSettingsPayload `json:"rosterSettings"`
}

type predictionResponse struct {
	Recommendations []advice.Recommendation `json:"recommendations"`
}

type leaguePerformanceResponse struct {
	PlayerPerformance []struct {
		PlayerID     string  `json:"playerId"`
		ActualFpts   float64 `json:"actualFpts"`
		Picked       bool    `json:"picked"`
		PositionRank int     `json:"positionRank"`
		OverallRank  int     `json:"overallRank"`
	} `json:"playerPerformance"`
	LeaguePerformance []struct {
		Week       int     `json:"week"`
		ActualFpts float64 `json:"actualFpts"`
		MaxFpts    float64 `json:"maxFpts"`
		Accuracy   float64 `json:"accuracy"`
	} `json:"leaguePerformance"`
}

type basicInfoRequest struct {
	IDs []string `json:"ids"`
}

type basicInfoPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Position    string `json:"position"`
	HeadshotURL string `json:"headshot_url"`
}

func (r userDataResponse) toProfile() account.Profile {
	leagues := make([]roster.League, 0, len(r.Leagues))
	for _, item := range r.Leagues {
		leagues = append(leagues, item.toLeague())
	}
	return account.Profile{
		UserID:     r.UserInfo.ID,
		Email:      r.UserInfo.Email,
		TokensLeft: r.UserInfo.TokensLeft,
		Leagues:    leagues,
	}
}

func (p leaguePayload) toLeague() roster.League {
	players := make([]roster.Entry, 0, len(p.Players))
	for _, item := range p.Players {
		players = append(players, item.toEntry())
	}
	defenses := make([]roster.Entry, 0, len(p.Defenses))
	for _, item := range p.Defenses {
		defenses = append(defenses, item.toEntry())
	}
	return roster.League{
		ID:       p.LeagueID,
		Name:     p.LeagueName,
		Settings: p.RosterSettings.toSettings(),
		Players:  players,
		Defenses: defenses,
	}
}

func (s rosterSettingsPayload) toSettings() roster.Settings {
	return roster.Settings{
		QB:    s.QBCount,
		RB:    s.RBCount,
		WR:    s.WRCount,
		TE:    s.TECount,
		K:     s.KCount,
		DEF:   s.DEFCount,
		Flex:  s.FlexCount,
		Bench: s.BenchCount,
	}
}

func settingsPayload(s roster.Settings) rosterSettingsPayload {
	return rosterSettingsPayload{
		QBCount:    s.QB,
		RBCount:    s.RB,
		WRCount:    s.WR,
		TECount:    s.TE,
		KCount:     s.K,
		DEFCount:   s.DEF,
		FlexCount:  s.Flex,
		BenchCount: s.Bench,
	}
}

func (p playerDataPayload) toEntry() roster.Entry {
	weeks := make([]int, 0, len(p.WeeklyStats))
	for _, stat := range p.WeeklyStats {
		weeks = append(weeks, stat.Week)
	}
	return roster.Entry{
		ID:           p.Player.ID,
		Name:         p.Player.Name,
		Position:     roster.Position(strings.ToUpper(strings.TrimSpace(p.Player.Position))),
		Team:         p.Player.Team,
		HeadshotURL:  p.Player.HeadshotURL,
		Picked:       p.Picked,
		SeasonPoints: p.SeasonStats.FantasyPoints,
		Weeks:        weeks,
	}
}

func (p playerDataPayload) toCatalog() catalog.Player {
	entry := p.toEntry()
	return catalog.Player{
		ID:           entry.ID,
		Name:         entry.Name,
		Position:     entry.Position,
		Team:         entry.Team,
		HeadshotURL:  entry.HeadshotURL,
		SeasonPoints: entry.SeasonPoints,
	}
}

func (p defensePayload) toEntry() roster.Entry {
	return roster.Entry{
		ID:        p.Team.ID,
		Name:      p.Team.Name,
		Position:  roster.PositionDEF,
		Team:      p.Team.Name,
		IsDefense: true,
		Picked:    p.Picked,
	}
}

func (r leaguePerformanceResponse) toReport() performance.Report {
	report := performance.Report{
		Players: make([]performance.PlayerWeek, 0, len(r.PlayerPerformance)),
		History: make([]performance.LeagueWeek, 0, len(r.LeaguePerformance)),
	}
	for _, item := range r.PlayerPerformance {
		report.Players = append(report.Players, performance.PlayerWeek{
			PlayerID:     item.PlayerID,
			ActualPoints: item.ActualFpts,
			Picked:       item.Picked,
			PositionRank: item.PositionRank,
			OverallRank:  item.OverallRank,
		})
	}
	for _, item := range r.LeaguePerformance {
		report.History = append(report.History, performance.LeagueWeek{
			Week:         item.Week,
			ActualPoints: item.ActualFpts,
			MaxPoints:    item.MaxFpts,
			Accuracy:     item.Accuracy,
		})
	}
	return report
}
