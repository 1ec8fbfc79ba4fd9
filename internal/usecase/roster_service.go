package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/fantasy-roster/internal/domain/account"
	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
)

// AddOutcome tells whether an add was committed or needs a swap choice.
type AddOutcome string

const (
	AddOutcomeAdded        AddOutcome = "added"
	AddOutcomeSwapRequired AddOutcome = "swap_required"
)

type AddMemberInput struct {
	LeagueID  string
	MemberID  string
	IsDefense bool
	Position  string
}

type AddMemberResult struct {
	Outcome    AddOutcome
	Slot       roster.Slot
	Candidates []roster.Entry
	League     roster.League
}

type SwapMemberInput struct {
	LeagueID string
	Outgoing roster.Ref
	Incoming roster.Ref
}

type CreateLeagueInput struct {
	Name     string
	Settings roster.Settings
}

type RosterService struct {
	loader rosterLoader
	store  roster.Repository
	logger *logging.Logger
}

func NewRosterService(profiles account.Repository, store roster.Repository, logger *logging.Logger) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RosterService{
		loader: rosterLoader{profiles: profiles},
		store:  store,
		logger: logger,
	}
}

func (s *RosterService) Profile(ctx context.Context) (account.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Profile")
	defer span.End()

	profile, err := s.loader.profile(ctx)
	if err != nil {
		return account.Profile{}, err
	}
	for _, league := range profile.Leagues {
		if err := roster.CheckCapacity(league); err != nil {
			s.logger.WarnContext(ctx, "roster snapshot exceeds capacity", "league_id", league.ID, "error", err)
		}
	}

	return profile, nil
}

func (s *RosterService) GetLeague(ctx context.Context, leagueID string) (roster.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.GetLeague", leagueAttr(leagueID))
	defer span.End()

	leagueID, err := normalizeLeagueID(leagueID)
	if err != nil {
		return roster.League{}, err
	}

	_, league, err := s.loader.league(ctx, leagueID)
	if err != nil {
		return roster.League{}, err
	}
	return league, nil
}

// Eligibility answers both the add and the start query for a position.
func (s *RosterService) Eligibility(ctx context.Context, leagueID, position string) (roster.Decision, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Eligibility", leagueAttr(leagueID))
	defer span.End()

	pos, err := roster.ParsePosition(position)
	if err != nil {
		return roster.Decision{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	league, err := s.GetLeague(ctx, leagueID)
	if err != nil {
		return roster.Decision{}, err
	}

	return roster.Evaluate(league, pos), nil
}

// AddMember adds a player or defense when there is start or bench room.
// A full roster is not an error: the result carries the swap candidates.
func (s *RosterService) AddMember(ctx context.Context, input AddMemberInput) (AddMemberResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AddMember", leagueAttr(input.LeagueID))
	defer span.End()

	leagueID, err := normalizeLeagueID(input.LeagueID)
	if err != nil {
		return AddMemberResult{}, err
	}
	member, err := normalizeRef(roster.Ref{ID: input.MemberID, IsDefense: input.IsDefense})
	if err != nil {
		return AddMemberResult{}, err
	}
	pos := roster.PositionDEF
	if !member.IsDefense {
		pos, err = roster.ParsePosition(input.Position)
		if err != nil {
			return AddMemberResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		if pos == roster.PositionDEF {
			return AddMemberResult{}, fmt.Errorf("%w: DEF members must be added as defenses", ErrInvalidInput)
		}
	}

	_, league, err := s.loader.league(ctx, leagueID)
	if err != nil {
		return AddMemberResult{}, err
	}
	if league.Contains(member) {
		return AddMemberResult{}, fmt.Errorf("%w: member=%s league=%s", ErrAlreadyRostered, member.ID, leagueID)
	}

	slot := roster.AddSlot(league, pos)
	if slot == roster.SlotNone {
		return AddMemberResult{
			Outcome:    AddOutcomeSwapRequired,
			Candidates: roster.SwapCandidates(league, pos),
			League:     league,
		}, nil
	}

	if err := s.store.AddMember(ctx, leagueID, member); err != nil {
		s.logMutationFailure(ctx, "add_member", leagueID, member, err)
		return AddMemberResult{}, fmt.Errorf("add member: %w", err)
	}
	s.logger.InfoContext(ctx, "roster member added", "league_id", leagueID, "member_id", member.ID, "is_defense", member.IsDefense, "slot", string(slot))

	refreshed, err := s.GetLeague(ctx, leagueID)
	if err != nil {
		return AddMemberResult{}, fmt.Errorf("refresh roster after add: %w", err)
	}
	return AddMemberResult{Outcome: AddOutcomeAdded, Slot: slot, League: refreshed}, nil
}

// SwapMember replaces a rostered member with one not yet on the roster.
func (s *RosterService) SwapMember(ctx context.Context, input SwapMemberInput) (roster.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SwapMember", leagueAttr(input.LeagueID), memberAttr(input.Incoming))
	defer span.End()

	leagueID, err := normalizeLeagueID(input.LeagueID)
	if err != nil {
		return roster.League{}, err
	}
	outgoing, err := normalizeRef(input.Outgoing)
	if err != nil {
		return roster.League{}, err
	}
	incoming, err := normalizeRef(input.Incoming)
	if err != nil {
		return roster.League{}, err
	}

	_, league, err := s.loader.league(ctx, leagueID)
	if err != nil {
		return roster.League{}, err
	}
	if !league.Contains(outgoing) {
		return roster.League{}, fmt.Errorf("%w: member=%s is not on league=%s", ErrNotFound, outgoing.ID, leagueID)
	}
	if league.Contains(incoming) {
		return roster.League{}, fmt.Errorf("%w: member=%s league=%s", ErrAlreadyRostered, incoming.ID, leagueID)
	}

	if err := s.store.SwapMember(ctx, leagueID, outgoing, incoming); err != nil {
		s.logMutationFailure(ctx, "swap_member", leagueID, incoming, err, "outgoing_member_id", outgoing.ID)
		return roster.League{}, fmt.Errorf("swap member: %w", err)
	}
	s.logger.InfoContext(ctx, "roster member swapped", "league_id", leagueID, "outgoing_member_id", outgoing.ID, "incoming_member_id", incoming.ID)

	return s.GetLeague(ctx, leagueID)
}

func (s *RosterService) RemoveMember(ctx context.Context, leagueID string, member roster.Ref) (roster.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.RemoveMember", leagueAttr(leagueID), memberAttr(member))
	defer span.End()

	leagueID, err := normalizeLeagueID(leagueID)
	if err != nil {
		return roster.League{}, err
	}
	member, err = normalizeRef(member)
	if err != nil {
		return roster.League{}, err
	}

	_, league, err := s.loader.league(ctx, leagueID)
	if err != nil {
		return roster.League{}, err
	}
	if !league.Contains(member) {
		return roster.League{}, fmt.Errorf("%w: member=%s is not on league=%s", ErrNotFound, member.ID, leagueID)
	}

	if err := s.store.RemoveMember(ctx, leagueID, member); err != nil {
		s.logMutationFailure(ctx, "remove_member", leagueID, member, err)
		return roster.League{}, fmt.Errorf("remove member: %w", err)
	}
	s.logger.InfoContext(ctx, "roster member removed", "league_id", leagueID, "member_id", member.ID, "is_defense", member.IsDefense)

	return s.GetLeague(ctx, leagueID)
}

func (s *RosterService) CreateLeague(ctx context.Context, input CreateLeagueInput) (account.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.CreateLeague")
	defer span.End()

	payload := roster.NewLeague{Name: strings.TrimSpace(input.Name), Settings: input.Settings}
	if err := payload.Validate(); err != nil {
		return account.Profile{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := s.store.CreateLeague(ctx, payload); err != nil {
		s.logger.WarnContext(ctx, "create league failed", "league_name", payload.Name, "error", err)
		return account.Profile{}, fmt.Errorf("create league: %w", err)
	}
	s.logger.InfoContext(ctx, "league created", "league_name", payload.Name)

	return s.Profile(ctx)
}

func (s *RosterService) logMutationFailure(ctx context.Context, op, leagueID string, member roster.Ref, err error, extra ...any) {
	args := append([]any{
		"op", op,
		"league_id", leagueID,
		"member_id", member.ID,
		"is_defense", member.IsDefense,
		"error", err,
	}, extra...)
	s.logger.WarnContext(ctx, "roster mutation failed", args...)
}
