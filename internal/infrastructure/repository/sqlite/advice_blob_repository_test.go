package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-roster/internal/domain/advice"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

func newTestRepository(t *testing.T, path string) *AdviceBlobRepository {
	t.Helper()

	db, err := Open(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo, err := NewAdviceBlobRepository(t.Context(), db)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	return repo
}

func TestAdviceBlobRepository_GetMissing(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, ":memory:")
	value, ok, err := repo.Get(t.Context(), "aiAdviceCache")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok || value != "" {
		t.Fatalf("expected miss, got %q ok=%v", value, ok)
	}
}

func TestAdviceBlobRepository_SetOverwrites(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, ":memory:")
	ctx := t.Context()

	if err := repo.Set(ctx, "aiAdviceCache", "[]"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Set(ctx, "aiAdviceCache", `[{"userId":"u1"}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	value, ok, err := repo.Get(ctx, "aiAdviceCache")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if value != `[{"userId":"u1"}]` {
		t.Fatalf("unexpected value %q", value)
	}

	var version int64
	if err := repo.db.GetContext(ctx, &version, "SELECT version FROM advice_blobs WHERE blob_key = ?", "aiAdviceCache"); err != nil {
		t.Fatalf("select version: %v", err)
	}
	if version != 2 {
		t.Fatalf("version = %d, want 2", version)
	}
}

func TestAdviceBlobRepository_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "advice.db")
	first := newTestRepository(t, path)
	if err := first.Set(t.Context(), "k", "v1"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	second := newTestRepository(t, path)
	value, ok, err := second.Get(t.Context(), "k")
	if err != nil || !ok || value != "v1" {
		t.Fatalf("expected persisted value, got %q ok=%v err=%v", value, ok, err)
	}
}

func TestAdviceBlobRepository_BacksAdviceCache(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, ":memory:")
	cache := usecase.NewAdviceCache(repo, usecase.AdviceCacheConfig{TTL: time.Hour}, logging.NewNop())

	recs := []advice.Recommendation{{PlayerID: "p1", Position: "QB", Picked: true}}
	if err := cache.Put(t.Context(), "u1", "l1", []string{"p2", "p1"}, recs); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := cache.Get(t.Context(), "u1", "l1", []string{"p1", "p2"})
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0].PlayerID != "p1" {
		t.Fatalf("unexpected advice: %+v", got)
	}
}
