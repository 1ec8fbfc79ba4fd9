package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/riskibarqy/fantasy-roster/internal/domain/account"
	"github.com/riskibarqy/fantasy-roster/internal/domain/performance"
	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const unknownPosition = "UNK"

var performancePositionOrder = []string{"QB", "RB", "WR", "TE", "K"}

// PerformanceRow is a weekly player line labelled with basic player info.
type PerformanceRow struct {
	performance.PlayerWeek
	Name        string
	Position    string
	HeadshotURL string
}

type WeeklyPerformance struct {
	LeagueID string
	Week     int
	Rows     []PerformanceRow
	History  []performance.LeagueWeek
}

type PerformanceService struct {
	loader rosterLoader
	repo   performance.Repository
	logger *logging.Logger
}

func NewPerformanceService(profiles account.Repository, repo performance.Repository, logger *logging.Logger) *PerformanceService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PerformanceService{
		loader: rosterLoader{profiles: profiles},
		repo:   repo,
		logger: logger,
	}
}

// AvailableWeeks lists weeks with stats for any roster player, ascending.
func (s *PerformanceService) AvailableWeeks(ctx context.Context, leagueID string) ([]int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PerformanceService.AvailableWeeks")
	defer span.End()

	leagueID, err := normalizeLeagueID(leagueID)
	if err != nil {
		return nil, err
	}
	_, league, err := s.loader.league(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	return availableWeeks(league), nil
}

// Week loads the league's report for one week. The roster read and the
// report read run concurrently. Missing basic info degrades to the player id
// and an UNK position instead of failing the report.
func (s *PerformanceService) Week(ctx context.Context, leagueID string, week int) (WeeklyPerformance, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PerformanceService.Week", leagueAttr(leagueID))
	defer span.End()

	leagueID, err := normalizeLeagueID(leagueID)
	if err != nil {
		return WeeklyPerformance{}, err
	}
	if week <= 0 {
		return WeeklyPerformance{}, fmt.Errorf("%w: week must be positive", ErrInvalidInput)
	}

	var report performance.Report
	reads := pool.New().WithErrors()
	reads.Go(func() error {
		_, _, err := s.loader.league(ctx, leagueID)
		return err
	})
	reads.Go(func() error {
		var err error
		report, err = s.repo.GetWeek(ctx, leagueID, week)
		if err != nil {
			return readError("get league performance", err)
		}
		return nil
	})
	if err := reads.Wait(); err != nil {
		return WeeklyPerformance{}, err
	}

	info := make(map[string]performance.PlayerInfo, len(report.Players))
	if len(report.Players) > 0 {
		ids := make([]string, 0, len(report.Players))
		for _, row := range report.Players {
			ids = append(ids, row.PlayerID)
		}
		items, err := s.repo.GetPlayerInfo(ctx, ids)
		if err != nil {
			s.logger.WarnContext(ctx, "basic player info unavailable", "league_id", leagueID, "week", week, "error", err)
		}
		for _, item := range items {
			info[item.ID] = item
		}
	}

	return WeeklyPerformance{
		LeagueID: leagueID,
		Week:     week,
		Rows:     labelRows(report.Players, info),
		History:  report.History,
	}, nil
}

// labelRows joins rows with player info and orders them by position group,
// then overall rank. Positions outside the known order sort last.
func labelRows(rows []performance.PlayerWeek, info map[string]performance.PlayerInfo) []PerformanceRow {
	out := make([]PerformanceRow, 0, len(rows))
	for _, row := range rows {
		labelled := PerformanceRow{PlayerWeek: row, Name: row.PlayerID, Position: unknownPosition}
		if item, ok := info[row.PlayerID]; ok {
			if item.Name != "" {
				labelled.Name = item.Name
			}
			if item.Position != "" {
				labelled.Position = item.Position
			}
			labelled.HeadshotURL = item.HeadshotURL
		}
		out = append(out, labelled)
	}

	rank := func(pos string) int {
		if idx := slices.Index(performancePositionOrder, pos); idx >= 0 {
			return idx
		}
		return len(performancePositionOrder)
	}
	slices.SortStableFunc(out, func(a, b PerformanceRow) int {
		if diff := rank(a.Position) - rank(b.Position); diff != 0 {
			return diff
		}
		return a.OverallRank - b.OverallRank
	})
	return out
}

func availableWeeks(league roster.League) []int {
	weeks := make([]int, 0)
	for _, entry := range league.Players {
		weeks = append(weeks, entry.Weeks...)
	}
	slices.Sort(weeks)
	return slices.Compact(weeks)
}
