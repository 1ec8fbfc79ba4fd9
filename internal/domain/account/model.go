package account

import "github.com/riskibarqy/fantasy-roster/internal/domain/roster"

// Principal is the verified caller. AccessToken is forwarded unchanged to
// downstream services.
type Principal struct {
	UserID      string
	Email       string
	AccessToken string
}

// Profile is the caller's account state as reported by the roster backend.
type Profile struct {
	UserID     string
	Email      string
	TokensLeft int
	Leagues    []roster.League
}

// CanRequestAdvice reports whether the advice quota has any tokens left.
func (p Profile) CanRequestAdvice() bool {
	return p.TokensLeft > 0
}

// League returns the league snapshot with the given id.
func (p Profile) League(leagueID string) (roster.League, bool) {
	for _, league := range p.Leagues {
		if league.ID == leagueID {
			return league, true
		}
	}
	return roster.League{}, false
}
