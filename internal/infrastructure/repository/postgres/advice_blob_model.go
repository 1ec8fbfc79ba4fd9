package postgres

import "time"

const adviceBlobTable = "advice_blobs"

// adviceBlobRow mirrors the advice_blobs table. Version and UpdatedAt are
// maintained by the upsert.
type adviceBlobRow struct {
	Key       string    `db:"blob_key"`
	Value     string    `db:"value"`
	Version   int64     `db:"version,readonly"`
	UpdatedAt time.Time `db:"updated_at,readonly"`
}
