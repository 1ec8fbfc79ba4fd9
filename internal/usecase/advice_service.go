package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/fantasy-roster/internal/domain/account"
	"github.com/riskibarqy/fantasy-roster/internal/domain/advice"
	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/riskibarqy/fantasy-roster/internal/platform/resilience"
)

const defaultAdviceApplyWorkers = 4

type GetAdviceInput struct {
	UserID     string
	LeagueID   string
	Regenerate bool
}

// AdviceSplit groups roster entries by the advice's start/sit call.
type AdviceSplit struct {
	Start []roster.Entry
	Sit   []roster.Entry
}

type AdviceResult struct {
	Recommendations []advice.Recommendation
	Cached          bool
	League          roster.League
	Split           AdviceSplit
}

type ApplyAdviceResult struct {
	Applied int
	Failed  int
	League  roster.League
}

type AdviceService struct {
	loader    rosterLoader
	store     roster.Repository
	generator advice.Generator
	cache     *AdviceCache
	workers   int
	flight    resilience.SingleFlight
	logger    *logging.Logger
}

func NewAdviceService(
	profiles account.Repository,
	store roster.Repository,
	generator advice.Generator,
	cache *AdviceCache,
	applyWorkers int,
	logger *logging.Logger,
) *AdviceService {
	if logger == nil {
		logger = logging.Default()
	}
	if applyWorkers <= 0 {
		applyWorkers = defaultAdviceApplyWorkers
	}

	return &AdviceService{
		loader:    rosterLoader{profiles: profiles},
		store:     store,
		generator: generator,
		cache:     cache,
		workers:   applyWorkers,
		logger:    logger,
	}
}

// Get returns advice for the caller's league, from cache unless Regenerate
// is set. Concurrent requests for the same user and league share one
// generation call.
func (s *AdviceService) Get(ctx context.Context, input GetAdviceInput) (AdviceResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdviceService.Get", leagueAttr(input.LeagueID))
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return AdviceResult{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	leagueID, err := normalizeLeagueID(input.LeagueID)
	if err != nil {
		return AdviceResult{}, err
	}

	profile, league, err := s.loader.league(ctx, leagueID)
	if err != nil {
		return AdviceResult{}, err
	}
	if !profile.CanRequestAdvice() {
		return AdviceResult{}, fmt.Errorf("%w: tokens_left=%d", ErrAdviceQuotaExhausted, profile.TokensLeft)
	}

	playerIDs := league.PlayerIDs()
	if !input.Regenerate && s.cache != nil {
		recs, ok, err := s.cache.Get(ctx, input.UserID, leagueID, playerIDs)
		if err != nil {
			s.logger.WarnContext(ctx, "advice cache read failed", "user_id", input.UserID, "league_id", leagueID, "error", err)
		}
		if ok {
			return newAdviceResult(recs, true, league), nil
		}
	}

	val, err, shared := s.flight.DoContext(ctx, "advice:"+input.UserID+":"+leagueID, func() (any, error) {
		recs, err := s.generator.Generate(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Put(ctx, input.UserID, leagueID, playerIDs, recs); err != nil {
				s.logger.WarnContext(ctx, "advice cache write failed", "user_id", input.UserID, "league_id", leagueID, "error", err)
			}
		}
		return recs, nil
	})
	if err != nil {
		return AdviceResult{}, readError("generate advice", err)
	}
	if shared {
		s.logger.DebugContext(ctx, "advice generation shared with in-flight request", "user_id", input.UserID, "league_id", leagueID)
	}

	recs, _ := val.([]advice.Recommendation)
	return newAdviceResult(recs, false, league), nil
}

// Apply pushes every recommendation's picked status to the roster store,
// then re-reads the roster. Failures are counted and reported together.
func (s *AdviceService) Apply(ctx context.Context, input GetAdviceInput) (ApplyAdviceResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdviceService.Apply", leagueAttr(input.LeagueID))
	defer span.End()

	input.Regenerate = false
	current, err := s.Get(ctx, input)
	if err != nil {
		return ApplyAdviceResult{}, err
	}
	leagueID := current.League.ID

	pool, err := ants.NewPool(min(s.workers, max(len(current.Recommendations), 1)))
	if err != nil {
		return ApplyAdviceResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		workers   sync.WaitGroup
		failed    atomic.Int32
		errMu     sync.Mutex
		applyErrs []error
	)
	for _, rec := range current.Recommendations {
		member := roster.Ref{ID: rec.PlayerID, IsDefense: isDefenseRecommendation(rec)}
		picked := rec.Picked
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			if err := s.store.SetPickedStatus(ctx, leagueID, member, picked); err != nil {
				failed.Add(1)
				s.logger.WarnContext(ctx, "roster mutation failed",
					"op", "apply_advice",
					"league_id", leagueID,
					"member_id", member.ID,
					"is_defense", member.IsDefense,
					"picked", picked,
					"error", err,
				)
				errMu.Lock()
				applyErrs = append(applyErrs, err)
				errMu.Unlock()
			}
		}); err != nil {
			workers.Done()
			return ApplyAdviceResult{}, fmt.Errorf("submit advice update to worker pool: %w", err)
		}
	}
	workers.Wait()

	result := ApplyAdviceResult{
		Failed:  int(failed.Load()),
		Applied: len(current.Recommendations) - int(failed.Load()),
	}
	_, league, refreshErr := s.loader.league(ctx, leagueID)
	if refreshErr == nil {
		result.League = league
	}

	if result.Failed > 0 {
		return result, fmt.Errorf("apply advice: %d of %d updates failed: %w", result.Failed, len(current.Recommendations), errors.Join(applyErrs...))
	}
	if refreshErr != nil {
		return result, fmt.Errorf("refresh roster after advice: %w", refreshErr)
	}
	s.logger.InfoContext(ctx, "advice applied", "league_id", leagueID, "updates", result.Applied)

	return result, nil
}

// SplitByAdvice partitions roster entries into start and sit groups. Players
// match any recommendation by id; defenses only match DEF recommendations.
func SplitByAdvice(league roster.League, recs []advice.Recommendation) AdviceSplit {
	startPlayers := make(map[string]struct{})
	startDefenses := make(map[string]struct{})
	for _, rec := range recs {
		if !rec.Picked {
			continue
		}
		startPlayers[rec.PlayerID] = struct{}{}
		if isDefenseRecommendation(rec) {
			startDefenses[rec.PlayerID] = struct{}{}
		}
	}

	split := AdviceSplit{Start: []roster.Entry{}, Sit: []roster.Entry{}}
	place := func(entry roster.Entry, starts map[string]struct{}) {
		if _, ok := starts[entry.ID]; ok {
			entry.Picked = true
			split.Start = append(split.Start, entry)
			return
		}
		entry.Picked = false
		split.Sit = append(split.Sit, entry)
	}
	for _, entry := range league.Players {
		place(entry, startPlayers)
	}
	for _, entry := range league.Defenses {
		place(entry, startDefenses)
	}
	return split
}

func newAdviceResult(recs []advice.Recommendation, cached bool, league roster.League) AdviceResult {
	return AdviceResult{
		Recommendations: recs,
		Cached:          cached,
		League:          league,
		Split:           SplitByAdvice(league, recs),
	}
}

func isDefenseRecommendation(rec advice.Recommendation) bool {
	return strings.EqualFold(strings.TrimSpace(rec.Position), string(roster.PositionDEF))
}
