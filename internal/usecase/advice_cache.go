package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-roster/internal/domain/advice"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
)

const (
	DefaultAdviceCacheKey = "aiAdviceCache"
	DefaultAdviceCacheTTL = 7 * 24 * time.Hour
)

type AdviceCacheConfig struct {
	Key string
	TTL time.Duration
}

// AdviceCache keeps at most one advice entry per user and league, matched by
// the normalized player-id fingerprint. The whole cache is one JSON blob in
// the store. Expired entries are pruned and written back on every read.
//
// The mutex only serializes callers in this process; separate processes
// sharing a store race with last writer wins.
type AdviceCache struct {
	store  advice.BlobStore
	key    string
	ttl    time.Duration
	now    func() time.Time
	logger *logging.Logger
	mu     sync.Mutex
}

func NewAdviceCache(store advice.BlobStore, cfg AdviceCacheConfig, logger *logging.Logger) *AdviceCache {
	if logger == nil {
		logger = logging.Default()
	}
	key := strings.TrimSpace(cfg.Key)
	if key == "" {
		key = DefaultAdviceCacheKey
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultAdviceCacheTTL
	}

	return &AdviceCache{
		store:  store,
		key:    key,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// Get returns cached advice whose fingerprint equals playerIDs exactly.
func (c *AdviceCache) Get(ctx context.Context, userID, leagueID string, playerIDs []string) ([]advice.Recommendation, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdviceCache.Get")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.load(ctx)
	if err != nil {
		return nil, false, err
	}

	nowMs := c.now().UnixMilli()
	fresh := slices.DeleteFunc(entries, func(entry advice.Entry) bool {
		return nowMs-entry.Timestamp > c.ttl.Milliseconds()
	})
	if err := c.save(ctx, fresh); err != nil {
		return nil, false, err
	}

	for _, entry := range fresh {
		if entry.UserID != userID || entry.LeagueID != leagueID {
			continue
		}
		if advice.SameFingerprint(entry.PlayerIDs, playerIDs) {
			return entry.Advice, true, nil
		}
	}

	return nil, false, nil
}

// Put replaces any entry for the same user and league.
func (c *AdviceCache) Put(ctx context.Context, userID, leagueID string, playerIDs []string, recs []advice.Recommendation) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdviceCache.Put")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.load(ctx)
	if err != nil {
		return err
	}

	entries = slices.DeleteFunc(entries, func(entry advice.Entry) bool {
		return entry.UserID == userID && entry.LeagueID == leagueID
	})
	entries = append(entries, advice.Entry{
		UserID:    userID,
		LeagueID:  leagueID,
		PlayerIDs: advice.NormalizeIDs(playerIDs),
		Timestamp: c.now().UnixMilli(),
		Advice:    recs,
	})

	return c.save(ctx, entries)
}

func (c *AdviceCache) load(ctx context.Context) ([]advice.Entry, error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("read advice cache: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var entries []advice.Entry
	if err := sonic.UnmarshalString(raw, &entries); err != nil {
		// A corrupt blob is replaced on the next write.
		c.logger.WarnContext(ctx, "discard unreadable advice cache", "key", c.key, "error", err)
		return nil, nil
	}
	return entries, nil
}

func (c *AdviceCache) save(ctx context.Context, entries []advice.Entry) error {
	if entries == nil {
		entries = []advice.Entry{}
	}
	raw, err := sonic.MarshalString(entries)
	if err != nil {
		return fmt.Errorf("encode advice cache: %w", err)
	}
	if err := c.store.Set(ctx, c.key, raw); err != nil {
		return fmt.Errorf("write advice cache: %w", err)
	}
	return nil
}
