package usecase

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/fantasy-roster/internal/domain/advice"
	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
	"github.com/riskibarqy/fantasy-roster/internal/infrastructure/repository/memory"
	advicemock "github.com/riskibarqy/fantasy-roster/internal/mocks/domain/advice"
	rostermock "github.com/riskibarqy/fantasy-roster/internal/mocks/domain/roster"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func newAdviceFixture(t *testing.T) (*AdviceService, *memory.RosterBackend, *advicemock.Generator) {
	t.Helper()

	backend := memory.NewRosterBackend(memory.DefaultSeed(), nil)
	generator := advicemock.NewGenerator(t)
	cache := NewAdviceCache(memory.NewBlobStore(), AdviceCacheConfig{}, logging.NewNop())
	svc := NewAdviceService(backend, backend, generator, cache, 2, logging.NewNop())
	return svc, backend, generator
}

func homeAdvice() []advice.Recommendation {
	return []advice.Recommendation{
		{PlayerID: "wr-nacua", Position: "WR", Picked: true, Reasoning: "soft matchup"},
		{PlayerID: "rb-henry", Position: "RB", Picked: false, Reasoning: "bye risk"},
		{PlayerID: "def-den", Position: "DEF", Picked: true, Reasoning: "turnovers"},
	}
}

func TestAdviceService_GetUsesCacheOnSecondCall(t *testing.T) {
	t.Parallel()

	svc, _, generator := newAdviceFixture(t)
	generator.On("Generate", mock.Anything, memory.LeagueIDHomeLeague).Return(homeAdvice(), nil).Once()

	input := GetAdviceInput{UserID: memory.SeedUserID, LeagueID: memory.LeagueIDHomeLeague}
	first, err := svc.Get(t.Context(), input)
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	if first.Cached {
		t.Fatalf("first call must not be served from cache")
	}

	second, err := svc.Get(t.Context(), input)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if !second.Cached {
		t.Fatalf("second call should be served from cache")
	}
	if diff := cmp.Diff(first.Recommendations, second.Recommendations); diff != "" {
		t.Fatalf("cached advice mismatch (-first +second):\n%s", diff)
	}
}

func TestAdviceService_RegenerateBypassesCache(t *testing.T) {
	t.Parallel()

	svc, _, generator := newAdviceFixture(t)
	generator.On("Generate", mock.Anything, memory.LeagueIDHomeLeague).Return(homeAdvice(), nil).Twice()

	input := GetAdviceInput{UserID: memory.SeedUserID, LeagueID: memory.LeagueIDHomeLeague}
	if _, err := svc.Get(t.Context(), input); err != nil {
		t.Fatalf("get: %v", err)
	}
	input.Regenerate = true
	result, err := svc.Get(t.Context(), input)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if result.Cached {
		t.Fatalf("regenerate must not be served from cache")
	}
}

func TestAdviceService_RosterChangeMissesCache(t *testing.T) {
	t.Parallel()

	svc, backend, generator := newAdviceFixture(t)
	generator.On("Generate", mock.Anything, memory.LeagueIDHomeLeague).Return(homeAdvice(), nil).Twice()

	input := GetAdviceInput{UserID: memory.SeedUserID, LeagueID: memory.LeagueIDHomeLeague}
	if _, err := svc.Get(t.Context(), input); err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := backend.AddMember(t.Context(), memory.LeagueIDHomeLeague, roster.Ref{ID: "rb-cook"}); err != nil {
		t.Fatalf("add member: %v", err)
	}
	result, err := svc.Get(t.Context(), input)
	if err != nil {
		t.Fatalf("get after roster change: %v", err)
	}
	if result.Cached {
		t.Fatalf("changed roster must miss the cache")
	}
}

func TestAdviceService_QuotaExhausted(t *testing.T) {
	t.Parallel()

	seed := memory.DefaultSeed()
	seed.Profile.TokensLeft = 0
	backend := memory.NewRosterBackend(seed, nil)
	cache := NewAdviceCache(memory.NewBlobStore(), AdviceCacheConfig{}, logging.NewNop())
	svc := NewAdviceService(backend, backend, advicemock.NewGenerator(t), cache, 2, logging.NewNop())

	_, err := svc.Get(t.Context(), GetAdviceInput{UserID: memory.SeedUserID, LeagueID: memory.LeagueIDHomeLeague})
	if !errors.Is(err, ErrAdviceQuotaExhausted) {
		t.Fatalf("expected ErrAdviceQuotaExhausted, got %v", err)
	}
}

func TestAdviceService_GenerationFailureIsDependencyError(t *testing.T) {
	t.Parallel()

	svc, _, generator := newAdviceFixture(t)
	generator.On("Generate", mock.Anything, memory.LeagueIDHomeLeague).Return(nil, errors.New("timeout")).Once()

	_, err := svc.Get(t.Context(), GetAdviceInput{UserID: memory.SeedUserID, LeagueID: memory.LeagueIDHomeLeague})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestAdviceService_ConcurrentGetSharesOneGeneration(t *testing.T) {
	t.Parallel()

	svc, _, generator := newAdviceFixture(t)
	release := make(chan struct{})
	var calls atomic.Int32
	generator.
		On("Generate", mock.Anything, memory.LeagueIDHomeLeague).
		Run(func(mock.Arguments) {
			calls.Add(1)
			<-release
		}).
		Return(homeAdvice(), nil).
		Maybe()

	input := GetAdviceInput{UserID: memory.SeedUserID, LeagueID: memory.LeagueIDHomeLeague, Regenerate: true}
	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Get(t.Context(), input)
			errs <- err
		}()
	}

	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("get: %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one shared generation, got %d", got)
	}
}

func TestAdviceService_ApplySetsEveryRecommendation(t *testing.T) {
	t.Parallel()

	svc, _, generator := newAdviceFixture(t)
	generator.On("Generate", mock.Anything, memory.LeagueIDHomeLeague).Return(homeAdvice(), nil).Once()

	result, err := svc.Apply(t.Context(), GetAdviceInput{UserID: memory.SeedUserID, LeagueID: memory.LeagueIDHomeLeague})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.Applied != 3 || result.Failed != 0 {
		t.Fatalf("unexpected counts: applied=%d failed=%d", result.Applied, result.Failed)
	}
	if !mustEntry(t, result.League, roster.Ref{ID: "wr-nacua"}).Picked {
		t.Fatalf("expected wr-nacua started")
	}
	if mustEntry(t, result.League, roster.Ref{ID: "rb-henry"}).Picked {
		t.Fatalf("expected rb-henry benched")
	}
	if !mustEntry(t, result.League, roster.Ref{ID: "def-den", IsDefense: true}).Picked {
		t.Fatalf("expected def-den started")
	}
}

func TestAdviceService_ApplyAggregatesFailuresUsingMockery(t *testing.T) {
	t.Parallel()

	backend := memory.NewRosterBackend(memory.DefaultSeed(), nil)
	generator := advicemock.NewGenerator(t)
	store := rostermock.NewRepository(t)
	svc := NewAdviceService(backend, store, generator, nil, 3, logging.NewNop())

	generator.On("Generate", mock.Anything, memory.LeagueIDHomeLeague).Return(homeAdvice(), nil).Once()
	store.On("SetPickedStatus", mock.Anything, memory.LeagueIDHomeLeague, roster.Ref{ID: "wr-nacua"}, true).Return(nil).Once()
	store.On("SetPickedStatus", mock.Anything, memory.LeagueIDHomeLeague, roster.Ref{ID: "rb-henry"}, false).Return(errors.New("conflict")).Once()
	store.On("SetPickedStatus", mock.Anything, memory.LeagueIDHomeLeague, roster.Ref{ID: "def-den", IsDefense: true}, true).Return(nil).Once()

	result, err := svc.Apply(t.Context(), GetAdviceInput{UserID: memory.SeedUserID, LeagueID: memory.LeagueIDHomeLeague})
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if result.Applied != 2 || result.Failed != 1 {
		t.Fatalf("unexpected counts: applied=%d failed=%d", result.Applied, result.Failed)
	}
	if result.League.ID != memory.LeagueIDHomeLeague {
		t.Fatalf("expected roster refresh despite failures")
	}
}

func TestSplitByAdvice(t *testing.T) {
	t.Parallel()

	league := roster.League{
		Players: []roster.Entry{
			{ID: "p1", Position: roster.PositionRB, Picked: false},
			{ID: "p2", Position: roster.PositionWR, Picked: true},
			{ID: "shared", Position: roster.PositionK, Picked: true},
		},
		Defenses: []roster.Entry{
			{ID: "shared", Position: roster.PositionDEF, IsDefense: true},
			{ID: "d2", Position: roster.PositionDEF, IsDefense: true, Picked: true},
		},
	}
	recs := []advice.Recommendation{
		{PlayerID: "p1", Position: "RB", Picked: true},
		{PlayerID: "p2", Position: "WR", Picked: false},
		{PlayerID: "shared", Position: "K", Picked: true},
	}

	split := SplitByAdvice(league, recs)
	if diff := cmp.Diff([]string{"p1", "shared"}, entryIDs(split.Start)); diff != "" {
		t.Fatalf("start mismatch (-want +got):\n%s", diff)
	}
	// The defense sharing an id with a kicker is not started: only DEF
	// recommendations apply to defenses.
	if diff := cmp.Diff([]string{"p2", "shared", "d2"}, entryIDs(split.Sit)); diff != "" {
		t.Fatalf("sit mismatch (-want +got):\n%s", diff)
	}
}
