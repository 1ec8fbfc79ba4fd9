package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/fantasy-roster/internal/domain/account"
	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
)

// rosterLoader re-reads the authoritative profile from the backend. Every
// use case that mutates a roster goes through it afterwards.
type rosterLoader struct {
	profiles account.Repository
}

func (l rosterLoader) profile(ctx context.Context) (account.Profile, error) {
	profile, err := l.profiles.GetProfile(ctx)
	if err != nil {
		return account.Profile{}, readError("get profile", err)
	}
	return profile, nil
}

func (l rosterLoader) league(ctx context.Context, leagueID string) (account.Profile, roster.League, error) {
	profile, err := l.profile(ctx)
	if err != nil {
		return account.Profile{}, roster.League{}, err
	}
	league, ok := profile.League(leagueID)
	if !ok {
		return profile, roster.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	return profile, league, nil
}

// readError keeps classified failures as they are and marks everything else
// as an unavailable dependency, so callers can tell a failed read from an
// empty one.
func readError(op string, err error) error {
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDependencyUnavailable) || errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, roster.ErrLeagueNotFound) || errors.Is(err, roster.ErrMemberNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrDependencyUnavailable, op, err)
}

func normalizeLeagueID(leagueID string) (string, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return "", fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	return leagueID, nil
}

func normalizeRef(ref roster.Ref) (roster.Ref, error) {
	ref.ID = strings.TrimSpace(ref.ID)
	if ref.ID == "" {
		return roster.Ref{}, fmt.Errorf("%w: member id is required", ErrInvalidInput)
	}
	return ref, nil
}

func positionOf(entry roster.Entry) roster.Position {
	if entry.IsDefense {
		return roster.PositionDEF
	}
	return entry.Position
}
