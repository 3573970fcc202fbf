package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
)

type ManualRepository struct {
	db *sql.DB
}

func NewManualRepository(db *sql.DB) *ManualRepository {
	return &ManualRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *ManualRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS manuals (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT,
	page_count INTEGER NOT NULL DEFAULT 0,
	chunk_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_manuals_status ON manuals(status);
CREATE INDEX IF NOT EXISTS idx_manuals_created_at ON manuals(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ManualRepository) Create(ctx context.Context, m *domain.Manual) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO manuals (
	id, filename, mime_type, storage_path, status, error_message, page_count, chunk_count, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		m.ID, m.Filename, m.MimeType, m.StoragePath, string(m.Status), m.Error,
		m.PageCount, m.ChunkCount, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert manual: %w", err)
	}
	return nil
}

func (r *ManualRepository) GetByID(ctx context.Context, id string) (*domain.Manual, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, mime_type, storage_path, status, error_message, page_count, chunk_count, created_at, updated_at
FROM manuals
WHERE id = $1
`, id)

	var m domain.Manual
	var status string

	err := row.Scan(
		&m.ID, &m.Filename, &m.MimeType, &m.StoragePath, &status, &m.Error,
		&m.PageCount, &m.ChunkCount, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrManualNotFound, "fetch manual", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan manual: %w", err)
	}

	m.Status = domain.ManualStatus(status)
	return &m, nil
}

func (r *ManualRepository) UpdateStatus(ctx context.Context, id string, status domain.ManualStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE manuals
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update manual status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update manual status rows: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrManualNotFound, "update manual status", fmt.Errorf("id %s", id))
	}
	return nil
}

func (r *ManualRepository) SaveIndexStats(ctx context.Context, id string, pageCount, chunkCount int) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE manuals
SET page_count = $2, chunk_count = $3, updated_at = $4
WHERE id = $1
`, id, pageCount, chunkCount, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save index stats: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save index stats rows: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrManualNotFound, "save index stats", fmt.Errorf("id %s", id))
	}
	return nil
}
