package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-roster/internal/domain/advice"
	qb "github.com/riskibarqy/fantasy-roster/internal/platform/querybuilder"
	_ "modernc.org/sqlite"
)

const (
	DriverName      = "sqlite"
	adviceBlobTable = "advice_blobs"
)

const adviceBlobSchema = `CREATE TABLE IF NOT EXISTS advice_blobs (
    blob_key   TEXT PRIMARY KEY,
    value      TEXT    NOT NULL,
    version    INTEGER NOT NULL DEFAULT 1,
    updated_at TEXT    NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

var _ advice.BlobStore = (*AdviceBlobRepository)(nil)

// AdviceBlobRepository keeps the advice cache blob in a local SQLite file.
// The CLI uses it so cached advice survives between invocations.
type AdviceBlobRepository struct {
	db *sqlx.DB
}

// NewAdviceBlobRepository creates the table when missing.
func NewAdviceBlobRepository(ctx context.Context, db *sqlx.DB) (*AdviceBlobRepository, error) {
	if _, err := db.ExecContext(ctx, adviceBlobSchema); err != nil {
		return nil, fmt.Errorf("create advice blob table: %w", err)
	}
	return &AdviceBlobRepository{db: db}, nil
}

// Open opens path with the modernc driver. One connection is kept so an
// in-memory database stays the same across calls.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func (r *AdviceBlobRepository) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := qb.Select("value").
		For(qb.SQLite).
		From(adviceBlobTable).
		Where(qb.Eq("blob_key", key)).
		Limit(1).
		ToSQL()
	if err != nil {
		return "", false, fmt.Errorf("build select advice blob query: %w", err)
	}

	var value string
	if err := r.db.GetContext(ctx, &value, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("select advice blob key=%s: %w", key, err)
	}
	return value, true, nil
}

func (r *AdviceBlobRepository) Set(ctx context.Context, key, value string) error {
	query, args, err := qb.InsertInto(adviceBlobTable).
		For(qb.SQLite).
		Columns("blob_key", "value").
		Values(key, value).
		Suffix(`ON CONFLICT (blob_key) DO UPDATE SET
    value = excluded.value,
    version = advice_blobs.version + 1,
    updated_at = CURRENT_TIMESTAMP`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert advice blob query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert advice blob key=%s: %w", key, err)
	}
	return nil
}
