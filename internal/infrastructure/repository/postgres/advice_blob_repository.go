package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-roster/internal/domain/advice"
	qb "github.com/riskibarqy/fantasy-roster/internal/platform/querybuilder"
)

var _ advice.BlobStore = (*AdviceBlobRepository)(nil)

// AdviceBlobRepository persists the advice cache blob in Postgres so it
// survives restarts and is shared across API replicas.
type AdviceBlobRepository struct {
	db *sqlx.DB
}

func NewAdviceBlobRepository(db *sqlx.DB) *AdviceBlobRepository {
	return &AdviceBlobRepository{db: db}
}

func (r *AdviceBlobRepository) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := selectAdviceBlobQuery(key)
	if err != nil {
		return "", false, fmt.Errorf("build select advice blob query: %w", err)
	}

	var row adviceBlobRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("select advice blob key=%s: %w", key, err)
	}

	return row.Value, true, nil
}

func (r *AdviceBlobRepository) Set(ctx context.Context, key, value string) error {
	query, args, err := upsertAdviceBlobQuery(key, value)
	if err != nil {
		return fmt.Errorf("build upsert advice blob query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert advice blob key=%s: %w", key, err)
	}
	return nil
}

func selectAdviceBlobQuery(key string) (string, []any, error) {
	return qb.SelectModel(adviceBlobRow{}).
		For(qb.Postgres).
		From(adviceBlobTable).
		Where(qb.Eq("blob_key", key)).
		Limit(1).
		ToSQL()
}

func upsertAdviceBlobQuery(key, value string) (string, []any, error) {
	return qb.InsertModel(qb.Postgres, adviceBlobTable, adviceBlobRow{Key: key, Value: value}, `ON CONFLICT (blob_key)
DO UPDATE SET
    value = EXCLUDED.value,
    version = advice_blobs.version + 1,
    updated_at = NOW()`)
}
