package performance

import "context"

// PlayerWeek is one player's scoring line for a league week.
type PlayerWeek struct {
	PlayerID     string
	ActualPoints float64
	Picked       bool
	PositionRank int
	OverallRank  int
}

// LeagueWeek is the league's lineup accuracy for one week.
type LeagueWeek struct {
	Week         int
	ActualPoints float64
	MaxPoints    float64
	Accuracy     float64
}

// Report is the backend response for one league week.
type Report struct {
	Players []PlayerWeek
	History []LeagueWeek
}

// PlayerInfo is the minimal identity used to label performance rows.
type PlayerInfo struct {
	ID          string
	Name        string
	Position    string
	HeadshotURL string
}

// Repository reads weekly performance and basic player info.
type Repository interface {
	GetWeek(ctx context.Context, leagueID string, week int) (Report, error)
	GetPlayerInfo(ctx context.Context, playerIDs []string) ([]PlayerInfo, error)
}
