package httpapi

import (
	"github.com/riskibarqy/fantasy-roster/internal/domain/account"
	"github.com/riskibarqy/fantasy-roster/internal/domain/advice"
	"github.com/riskibarqy/fantasy-roster/internal/domain/catalog"
	"github.com/riskibarqy/fantasy-roster/internal/domain/performance"
	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

type rosterSettingsRequest struct {
	QB    int `json:"qb" validate:"min=0"`
	RB    int `json:"rb" validate:"min=0"`
	WR    int `json:"wr" validate:"min=0"`
	TE    int `json:"te" validate:"min=0"`
	K     int `json:"k" validate:"min=0"`
	DEF   int `json:"def" validate:"min=0"`
	Flex  int `json:"flex" validate:"min=0"`
	Bench int `json:"bench" validate:"min=0"`
}

func (r rosterSettingsRequest) toDomain() roster.Settings {
	return roster.Settings{QB: r.QB, RB: r.RB, WR: r.WR, TE: r.TE, K: r.K, DEF: r.DEF, Flex: r.Flex, Bench: r.Bench}
}

type createLeagueRequest struct {
	Name     string                `json:"name" validate:"required,max=100"`
	Settings rosterSettingsRequest `json:"rosterSettings"`
}

type memberRefRequest struct {
	ID        string `json:"id" validate:"required"`
	IsDefense bool   `json:"isDefense"`
}

func (r memberRefRequest) toDomain() roster.Ref {
	return roster.Ref{ID: r.ID, IsDefense: r.IsDefense}
}

type addMemberRequest struct {
	MemberID  string `json:"memberId" validate:"required"`
	IsDefense bool   `json:"isDefense"`
	Position  string `json:"position" validate:"required_without=IsDefense"`
}

type swapMemberRequest struct {
	Outgoing memberRefRequest `json:"outgoing"`
	Incoming memberRefRequest `json:"incoming"`
}

type toggleLineupRequest struct {
	Member memberRefRequest `json:"member"`
}

type swapLineupRequest struct {
	Target memberRefRequest `json:"target"`
	Bench  memberRefRequest `json:"bench"`
}

type rosterSettingsDTO struct {
	QB    int `json:"qb"`
	RB    int `json:"rb"`
	WR    int `json:"wr"`
	TE    int `json:"te"`
	K     int `json:"k"`
	DEF   int `json:"def"`
	Flex  int `json:"flex"`
	Bench int `json:"bench"`
}

type entryDTO struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Position     string  `json:"position"`
	Team         string  `json:"team,omitempty"`
	HeadshotURL  string  `json:"headshotUrl,omitempty"`
	IsDefense    bool    `json:"isDefense"`
	Picked       bool    `json:"picked"`
	SeasonPoints float64 `json:"seasonPoints"`
}

type leagueDTO struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Settings rosterSettingsDTO `json:"rosterSettings"`
	Players  []entryDTO        `json:"players"`
	Defenses []entryDTO        `json:"defenses"`
}

type profileDTO struct {
	UserID     string      `json:"userId"`
	Email      string      `json:"email"`
	TokensLeft int         `json:"tokensLeft"`
	Leagues    []leagueDTO `json:"leagues"`
}

type capacityUsageDTO struct {
	Position string `json:"position"`
	Slots    int    `json:"slots"`
	Used     int    `json:"used"`
}

type rosterViewDTO struct {
	League        leagueDTO          `json:"league"`
	Usage         []capacityUsageDTO `json:"usage"`
	FlexRemaining int                `json:"flexRemaining"`
	BenchLeft     int                `json:"benchRemaining"`
}

type eligibilityDTO struct {
	Position   string     `json:"position"`
	CanAdd     bool       `json:"canAdd"`
	AddVia     string     `json:"addVia,omitempty"`
	CanStart   bool       `json:"canStart"`
	StartVia   string     `json:"startVia,omitempty"`
	Candidates []entryDTO `json:"candidates"`
}

// mutationDTO is shared by add and toggle. When Outcome is swap_required the
// caller picks one of Candidates and follows up with a swap call.
type mutationDTO struct {
	Outcome    string     `json:"outcome"`
	Slot       string     `json:"slot,omitempty"`
	Candidates []entryDTO `json:"candidates,omitempty"`
	League     leagueDTO  `json:"league"`
}

type recommendationDTO struct {
	PlayerID  string `json:"playerId"`
	Position  string `json:"position"`
	Picked    bool   `json:"picked"`
	Reasoning string `json:"reasoning"`
}

type adviceDTO struct {
	Cached          bool                `json:"cached"`
	Recommendations []recommendationDTO `json:"recommendations"`
	Start           []entryDTO          `json:"start"`
	Sit             []entryDTO          `json:"sit"`
}

type applyAdviceDTO struct {
	Applied int       `json:"applied"`
	Failed  int       `json:"failed"`
	League  leagueDTO `json:"league"`
}

type catalogPlayerDTO struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Position     string  `json:"position"`
	Team         string  `json:"team"`
	HeadshotURL  string  `json:"headshotUrl,omitempty"`
	SeasonPoints float64 `json:"seasonPoints"`
}

type catalogDefenseDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type catalogDTO struct {
	Kind     string              `json:"kind"`
	Position string              `json:"position"`
	Players  []catalogPlayerDTO  `json:"players,omitempty"`
	Defenses []catalogDefenseDTO `json:"defenses,omitempty"`
}

type availableWeeksDTO struct {
	LeagueID string `json:"leagueId"`
	Weeks    []int  `json:"weeks"`
}

type performanceRowDTO struct {
	PlayerID     string  `json:"playerId"`
	Name         string  `json:"name"`
	Position     string  `json:"position"`
	HeadshotURL  string  `json:"headshotUrl,omitempty"`
	ActualPoints float64 `json:"actualPoints"`
	Picked       bool    `json:"picked"`
	PositionRank int     `json:"positionRank"`
	OverallRank  int     `json:"overallRank"`
}

type leagueWeekDTO struct {
	Week         int     `json:"week"`
	ActualPoints float64 `json:"actualPoints"`
	MaxPoints    float64 `json:"maxPoints"`
	Accuracy     float64 `json:"accuracy"`
}

type weeklyPerformanceDTO struct {
	LeagueID string              `json:"leagueId"`
	Week     int                 `json:"week"`
	Rows     []performanceRowDTO `json:"rows"`
	History  []leagueWeekDTO     `json:"history"`
}

func profileToDTO(profile account.Profile) profileDTO {
	leagues := make([]leagueDTO, 0, len(profile.Leagues))
	for _, league := range profile.Leagues {
		leagues = append(leagues, leagueToDTO(league))
	}
	return profileDTO{
		UserID:     profile.UserID,
		Email:      profile.Email,
		TokensLeft: profile.TokensLeft,
		Leagues:    leagues,
	}
}

func leagueToDTO(league roster.League) leagueDTO {
	s := league.Settings
	return leagueDTO{
		ID:   league.ID,
		Name: league.Name,
		Settings: rosterSettingsDTO{
			QB: s.QB, RB: s.RB, WR: s.WR, TE: s.TE, K: s.K, DEF: s.DEF, Flex: s.Flex, Bench: s.Bench,
		},
		Players:  entriesToDTO(league.Players),
		Defenses: entriesToDTO(league.Defenses),
	}
}

func entriesToDTO(entries []roster.Entry) []entryDTO {
	out := make([]entryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entryDTO{
			ID:           entry.ID,
			Name:         entry.Name,
			Position:     entry.Position.String(),
			Team:         entry.Team,
			HeadshotURL:  entry.HeadshotURL,
			IsDefense:    entry.IsDefense,
			Picked:       entry.Picked,
			SeasonPoints: entry.SeasonPoints,
		})
	}
	return out
}

var usagePositions = []roster.Position{
	roster.PositionQB, roster.PositionRB, roster.PositionWR, roster.PositionTE, roster.PositionK, roster.PositionDEF,
}

func rosterViewToDTO(league roster.League) rosterViewDTO {
	usage := make([]capacityUsageDTO, 0, len(usagePositions)+1)
	for _, pos := range usagePositions {
		usage = append(usage, capacityUsageDTO{
			Position: pos.String(),
			Slots:    roster.SlotsFor(league.Settings, pos),
			Used:     roster.Started(league, pos),
		})
	}
	usage = append(usage, capacityUsageDTO{
		Position: roster.PositionBench.String(),
		Slots:    league.Settings.Bench,
		Used:     roster.Benched(league),
	})

	return rosterViewDTO{
		League:        leagueToDTO(league),
		Usage:         usage,
		FlexRemaining: roster.FlexRemaining(league),
		BenchLeft:     roster.RemainingBench(league),
	}
}

func decisionToDTO(decision roster.Decision) eligibilityDTO {
	return eligibilityDTO{
		Position:   decision.Position.String(),
		CanAdd:     decision.CanAdd,
		AddVia:     string(decision.AddVia),
		CanStart:   decision.CanStart,
		StartVia:   string(decision.StartVia),
		Candidates: entriesToDTO(decision.Candidates),
	}
}

func addResultToDTO(result usecase.AddMemberResult) mutationDTO {
	return mutationDTO{
		Outcome:    string(result.Outcome),
		Slot:       string(result.Slot),
		Candidates: entriesToDTO(result.Candidates),
		League:     leagueToDTO(result.League),
	}
}

func toggleResultToDTO(result usecase.ToggleResult) mutationDTO {
	return mutationDTO{
		Outcome:    string(result.Outcome),
		Slot:       string(result.Slot),
		Candidates: entriesToDTO(result.Candidates),
		League:     leagueToDTO(result.League),
	}
}

func recommendationsToDTO(recs []advice.Recommendation) []recommendationDTO {
	out := make([]recommendationDTO, 0, len(recs))
	for _, rec := range recs {
		out = append(out, recommendationDTO(rec))
	}
	return out
}

func adviceToDTO(result usecase.AdviceResult) adviceDTO {
	return adviceDTO{
		Cached:          result.Cached,
		Recommendations: recommendationsToDTO(result.Recommendations),
		Start:           entriesToDTO(result.Split.Start),
		Sit:             entriesToDTO(result.Split.Sit),
	}
}

func catalogToDTO(listing catalog.Listing) catalogDTO {
	out := catalogDTO{Kind: string(listing.Kind), Position: listing.Position.String()}
	if listing.Kind == catalog.KindDefenses {
		out.Defenses = make([]catalogDefenseDTO, 0, len(listing.Defenses))
		for _, item := range listing.Defenses {
			out.Defenses = append(out.Defenses, catalogDefenseDTO{ID: item.ID, Name: item.Name})
		}
		return out
	}

	out.Players = make([]catalogPlayerDTO, 0, len(listing.Players))
	for _, item := range listing.Players {
		out.Players = append(out.Players, catalogPlayerDTO{
			ID:           item.ID,
			Name:         item.Name,
			Position:     item.Position.String(),
			Team:         item.Team,
			HeadshotURL:  item.HeadshotURL,
			SeasonPoints: item.SeasonPoints,
		})
	}
	return out
}

func weeklyPerformanceToDTO(report usecase.WeeklyPerformance) weeklyPerformanceDTO {
	rows := make([]performanceRowDTO, 0, len(report.Rows))
	for _, row := range report.Rows {
		rows = append(rows, performanceRowDTO{
			PlayerID:     row.PlayerID,
			Name:         row.Name,
			Position:     row.Position,
			HeadshotURL:  row.HeadshotURL,
			ActualPoints: row.ActualPoints,
			Picked:       row.Picked,
			PositionRank: row.PositionRank,
			OverallRank:  row.OverallRank,
		})
	}
	return weeklyPerformanceDTO{
		LeagueID: report.LeagueID,
		Week:     report.Week,
		Rows:     rows,
		History:  leagueWeeksToDTO(report.History),
	}
}

func leagueWeeksToDTO(weeks []performance.LeagueWeek) []leagueWeekDTO {
	out := make([]leagueWeekDTO, 0, len(weeks))
	for _, week := range weeks {
		out = append(out, leagueWeekDTO(week))
	}
	return out
}
