package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/fantasy-roster/internal/domain/performance"
	"github.com/riskibarqy/fantasy-roster/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
)

type failingPlayerInfo struct {
	*memory.RosterBackend
}

func (failingPlayerInfo) GetPlayerInfo(context.Context, []string) ([]performance.PlayerInfo, error) {
	return nil, errors.New("basic info down")
}

func TestPerformanceService_AvailableWeeks(t *testing.T) {
	t.Parallel()

	backend := memory.NewRosterBackend(memory.DefaultSeed(), nil)
	svc := NewPerformanceService(backend, backend, logging.NewNop())

	weeks, err := svc.AvailableWeeks(t.Context(), memory.LeagueIDHomeLeague)
	if err != nil {
		t.Fatalf("available weeks: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, weeks); diff != "" {
		t.Fatalf("weeks mismatch (-want +got):\n%s", diff)
	}

	empty, err := svc.AvailableWeeks(t.Context(), memory.LeagueIDWorkLeague)
	if err != nil {
		t.Fatalf("available weeks for empty league: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no weeks, got %v", empty)
	}
}

func TestPerformanceService_WeekRowsOrderedByPositionThenRank(t *testing.T) {
	t.Parallel()

	backend := memory.NewRosterBackend(memory.DefaultSeed(), nil)
	svc := NewPerformanceService(backend, backend, logging.NewNop())

	report, err := svc.Week(t.Context(), memory.LeagueIDHomeLeague, 3)
	if err != nil {
		t.Fatalf("week: %v", err)
	}

	positions := make([]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		positions = append(positions, row.Position)
		if row.Name == row.PlayerID {
			t.Fatalf("expected row %s to be labelled", row.PlayerID)
		}
	}
	want := []string{"QB", "RB", "RB", "WR", "WR", "TE", "TE", "K"}
	if diff := cmp.Diff(want, positions); diff != "" {
		t.Fatalf("position order mismatch (-want +got):\n%s", diff)
	}
	for i := 1; i < len(report.Rows); i++ {
		prev, cur := report.Rows[i-1], report.Rows[i]
		if prev.Position == cur.Position && prev.OverallRank > cur.OverallRank {
			t.Fatalf("rows %s and %s not ordered by overall rank", prev.PlayerID, cur.PlayerID)
		}
	}
	if len(report.History) != 3 {
		t.Fatalf("expected 3 history weeks, got %d", len(report.History))
	}
}

func TestPerformanceService_MissingPlayerInfoFallsBackToIDs(t *testing.T) {
	t.Parallel()

	backend := memory.NewRosterBackend(memory.DefaultSeed(), nil)
	svc := NewPerformanceService(backend, failingPlayerInfo{backend}, logging.NewNop())

	report, err := svc.Week(t.Context(), memory.LeagueIDHomeLeague, 1)
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	for _, row := range report.Rows {
		if row.Name != row.PlayerID || row.Position != unknownPosition {
			t.Fatalf("expected fallback labels, got %+v", row)
		}
	}
}

func TestPerformanceService_WeekValidation(t *testing.T) {
	t.Parallel()

	backend := memory.NewRosterBackend(memory.DefaultSeed(), nil)
	svc := NewPerformanceService(backend, backend, logging.NewNop())

	if _, err := svc.Week(t.Context(), memory.LeagueIDHomeLeague, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Week(t.Context(), "missing", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLabelRowsUnknownPositionsSortLast(t *testing.T) {
	t.Parallel()

	rows := labelRows([]performance.PlayerWeek{
		{PlayerID: "x", OverallRank: 1},
		{PlayerID: "k", OverallRank: 5},
		{PlayerID: "qb", OverallRank: 9},
	}, map[string]performance.PlayerInfo{
		"k":  {ID: "k", Name: "Kicker", Position: "K"},
		"qb": {ID: "qb", Name: "Passer", Position: "QB"},
	})

	got := []string{rows[0].PlayerID, rows[1].PlayerID, rows[2].PlayerID}
	if diff := cmp.Diff([]string{"qb", "k", "x"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}
