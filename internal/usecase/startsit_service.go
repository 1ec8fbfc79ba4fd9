package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-roster/internal/domain/account"
	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
)

// ToggleOutcome is the result of a start/sit toggle.
type ToggleOutcome string

const (
	ToggleBenched      ToggleOutcome = "benched"
	ToggleStarted      ToggleOutcome = "started"
	ToggleSwapRequired ToggleOutcome = "swap_required"
)

type ToggleResult struct {
	Outcome    ToggleOutcome
	Slot       roster.Slot
	Candidates []roster.Entry
	League     roster.League
}

type SwapStartInput struct {
	LeagueID string
	Target   roster.Ref
	Bench    roster.Ref
}

// StartSitService moves entries between the starting lineup and the bench.
// It holds no state between calls; every decision is made on a fresh
// snapshot and the roster is re-read after every mutation attempt.
type StartSitService struct {
	loader rosterLoader
	store  roster.Repository
	logger *logging.Logger
}

func NewStartSitService(profiles account.Repository, store roster.Repository, logger *logging.Logger) *StartSitService {
	if logger == nil {
		logger = logging.Default()
	}

	return &StartSitService{
		loader: rosterLoader{profiles: profiles},
		store:  store,
		logger: logger,
	}
}

// Toggle benches a started entry, or starts a benched one when a slot is
// free. When no slot is free the result lists the swap candidates and
// nothing is committed.
func (s *StartSitService) Toggle(ctx context.Context, leagueID string, member roster.Ref) (ToggleResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StartSitService.Toggle", leagueAttr(leagueID), memberAttr(member))
	defer span.End()

	leagueID, err := normalizeLeagueID(leagueID)
	if err != nil {
		return ToggleResult{}, err
	}
	member, err = normalizeRef(member)
	if err != nil {
		return ToggleResult{}, err
	}

	_, league, err := s.loader.league(ctx, leagueID)
	if err != nil {
		return ToggleResult{}, err
	}
	entry, ok := league.Find(member)
	if !ok {
		return ToggleResult{}, fmt.Errorf("%w: member=%s is not on league=%s", ErrNotFound, member.ID, leagueID)
	}

	if entry.Picked {
		err := s.setPicked(ctx, leagueID, member, false)
		return s.finish(ctx, leagueID, ToggleResult{Outcome: ToggleBenched, Slot: roster.SlotBench}, err)
	}

	pos := positionOf(entry)
	slot := roster.StartSlot(league, pos)
	if slot == roster.SlotNone {
		return ToggleResult{
			Outcome:    ToggleSwapRequired,
			Candidates: roster.SwapCandidates(league, pos),
			League:     league,
		}, nil
	}

	err = s.setPicked(ctx, leagueID, member, true)
	return s.finish(ctx, leagueID, ToggleResult{Outcome: ToggleStarted, Slot: slot}, err)
}

// Swap benches input.Bench and then starts input.Target. The second call is
// issued only after the first one succeeded.
func (s *StartSitService) Swap(ctx context.Context, input SwapStartInput) (roster.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StartSitService.Swap", leagueAttr(input.LeagueID), memberAttr(input.Target))
	defer span.End()

	leagueID, err := normalizeLeagueID(input.LeagueID)
	if err != nil {
		return roster.League{}, err
	}
	target, err := normalizeRef(input.Target)
	if err != nil {
		return roster.League{}, err
	}
	bench, err := normalizeRef(input.Bench)
	if err != nil {
		return roster.League{}, err
	}

	_, league, err := s.loader.league(ctx, leagueID)
	if err != nil {
		return roster.League{}, err
	}
	entry, ok := league.Find(target)
	if !ok {
		return roster.League{}, fmt.Errorf("%w: member=%s is not on league=%s", ErrNotFound, target.ID, leagueID)
	}
	if entry.Picked {
		return roster.League{}, fmt.Errorf("%w: member=%s is already started", ErrInvalidInput, target.ID)
	}
	if !roster.IsSwapCandidate(league, positionOf(entry), bench) {
		return roster.League{}, fmt.Errorf("%w: member=%s cannot make room for member=%s", ErrInvalidSwapCandidate, bench.ID, target.ID)
	}

	if err := s.setPicked(ctx, leagueID, bench, false); err != nil {
		result, _ := s.finish(ctx, leagueID, ToggleResult{}, err)
		return result.League, err
	}
	err = s.setPicked(ctx, leagueID, target, true)
	result, err := s.finish(ctx, leagueID, ToggleResult{}, err)
	if err != nil {
		return result.League, err
	}
	s.logger.InfoContext(ctx, "start/sit swap committed", "league_id", leagueID, "benched_member_id", bench.ID, "started_member_id", target.ID)

	return result.League, nil
}

func (s *StartSitService) setPicked(ctx context.Context, leagueID string, member roster.Ref, picked bool) error {
	if err := s.store.SetPickedStatus(ctx, leagueID, member, picked); err != nil {
		s.logger.WarnContext(ctx, "roster mutation failed",
			"op", "set_picked_status",
			"league_id", leagueID,
			"member_id", member.ID,
			"is_defense", member.IsDefense,
			"picked", picked,
			"error", err,
		)
		return fmt.Errorf("set picked status: %w", err)
	}
	return nil
}

// finish re-reads the roster whether or not the mutation succeeded. The
// mutation error wins over a refresh error.
func (s *StartSitService) finish(ctx context.Context, leagueID string, result ToggleResult, mutationErr error) (ToggleResult, error) {
	_, league, refreshErr := s.loader.league(ctx, leagueID)
	if refreshErr == nil {
		result.League = league
	}
	if mutationErr != nil {
		return result, mutationErr
	}
	if refreshErr != nil {
		return result, fmt.Errorf("refresh roster: %w", refreshErr)
	}
	return result, nil
}

// StartSitState is the phase of one interactive start/sit session.
type StartSitState string

const (
	StateIdle               StartSitState = "idle"
	StateAwaitingSwapChoice StartSitState = "awaiting_swap_choice"
	StateCommitting         StartSitState = "committing"
)

// StartSitSession drives one interactive toggle: Idle, optionally
// AwaitingSwapChoice, then Committing, and back to Idle. It is not safe for
// concurrent use.
type StartSitSession struct {
	service    *StartSitService
	leagueID   string
	state      StartSitState
	target     roster.Ref
	candidates []roster.Entry
	league     roster.League
}

func (s *StartSitService) NewSession(leagueID string) *StartSitSession {
	return &StartSitSession{service: s, leagueID: leagueID, state: StateIdle}
}

func (s *StartSitSession) State() StartSitState {
	return s.state
}

func (s *StartSitSession) Candidates() []roster.Entry {
	return s.candidates
}

// League is the latest snapshot observed by the session.
func (s *StartSitSession) League() roster.League {
	return s.league
}

// Toggle starts an interaction. It ends in Idle unless a swap choice is
// needed.
func (s *StartSitSession) Toggle(ctx context.Context, member roster.Ref) (ToggleResult, error) {
	if s.state != StateIdle {
		return ToggleResult{}, fmt.Errorf("%w: toggle while %s", ErrInvalidState, s.state)
	}

	s.state = StateCommitting
	result, err := s.service.Toggle(ctx, s.leagueID, member)
	if result.League.ID != "" {
		s.league = result.League
	}
	if err == nil && result.Outcome == ToggleSwapRequired {
		s.state = StateAwaitingSwapChoice
		s.target = member
		s.candidates = result.Candidates
		return result, nil
	}

	s.reset()
	return result, err
}

// Choose commits the swap with one of the offered candidates.
func (s *StartSitSession) Choose(ctx context.Context, candidate roster.Ref) (roster.League, error) {
	if s.state != StateAwaitingSwapChoice {
		return roster.League{}, fmt.Errorf("%w: choose while %s", ErrInvalidState, s.state)
	}

	s.state = StateCommitting
	league, err := s.service.Swap(ctx, SwapStartInput{LeagueID: s.leagueID, Target: s.target, Bench: candidate})
	if league.ID != "" {
		s.league = league
	}
	s.reset()
	return league, err
}

// Cancel abandons a pending swap choice.
func (s *StartSitSession) Cancel() {
	if s.state == StateAwaitingSwapChoice {
		s.reset()
	}
}

func (s *StartSitSession) reset() {
	s.state = StateIdle
	s.target = roster.Ref{}
	s.candidates = nil
}
