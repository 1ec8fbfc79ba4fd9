package advice

import (
	"context"
	"slices"
)

// Recommendation is one start/sit suggestion from the advice service.
type Recommendation struct {
	PlayerID  string `json:"playerId"`
	Position  string `json:"position"`
	Picked    bool   `json:"picked"`
	Reasoning string `json:"reasoning"`
}

// Entry is a cached advice result for one user and league. Timestamp is in
// Unix milliseconds.
type Entry struct {
	UserID    string           `json:"userId"`
	LeagueID  string           `json:"leagueId"`
	PlayerIDs []string         `json:"playerIds"`
	Timestamp int64            `json:"timestamp"`
	Advice    []Recommendation `json:"advice"`
}

// Generator produces advice for a league. It is opaque and possibly slow.
type Generator interface {
	Generate(ctx context.Context, leagueID string) ([]Recommendation, error)
}

// BlobStore persists the whole cache as a single string value under key.
type BlobStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// NormalizeIDs deduplicates and sorts player ids. It is idempotent.
func NormalizeIDs(ids []string) []string {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// SameFingerprint reports whether two id sets normalize to the same list.
func SameFingerprint(a, b []string) bool {
	return slices.Equal(NormalizeIDs(a), NormalizeIDs(b))
}
