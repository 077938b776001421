package meta

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/osobist/wikisync/internal/client/models"
	"github.com/osobist/wikisync/internal/dbx"
)

// SQLiteRepository stores article metadata in the articles_meta table.
// docID is any stable document identity the caller chooses (the CLI uses the
// absolute file path).
type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context, docID string) (models.ArticleMeta, error) {
	var m models.ArticleMeta
	err := r.db.QueryRowContext(ctx,
		`SELECT page_id, title, fingerprint FROM articles_meta WHERE doc_id = ?`, docID).
		Scan(&m.PageID, &m.Title, &m.ContentFingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ArticleMeta{}, nil
	}
	if err != nil {
		return models.ArticleMeta{}, fmt.Errorf("failed to load meta[%s]: %w", docID, err)
	}
	return m, nil
}

// Save merges inside a transaction so the pageID/fingerprint pair can never
// be observed half-written.
func (r *SQLiteRepository) Save(ctx context.Context, docID string, value models.ArticleMeta) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var current models.ArticleMeta
		err := tx.QueryRowContext(ctx,
			`SELECT page_id, title, fingerprint FROM articles_meta WHERE doc_id = ?`, docID).
			Scan(&current.PageID, &current.Title, &current.ContentFingerprint)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to load meta[%s]: %w", docID, err)
		}

		merged := current.Merge(value)
		_, err = tx.ExecContext(ctx, `
			INSERT INTO articles_meta (doc_id, page_id, title, fingerprint) VALUES (?, ?, ?, ?)
			ON CONFLICT(doc_id) DO UPDATE SET
				page_id = excluded.page_id,
				title = excluded.title,
				fingerprint = excluded.fingerprint
		`, docID, merged.PageID, merged.Title, merged.ContentFingerprint)
		if err != nil {
			return fmt.Errorf("failed to save meta[%s]: %w", docID, err)
		}
		return nil
	})
}

// Migrate keeps the target's row intact when the source has never been
// synced, matching the file backend.
func (r *SQLiteRepository) Migrate(ctx context.Context, oldID, newID string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM articles_meta WHERE doc_id = ?`, oldID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load meta[%s]: %w", oldID, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM articles_meta WHERE doc_id = ?`, newID); err != nil {
			return fmt.Errorf("failed to clear meta[%s]: %w", newID, err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE articles_meta SET doc_id = ? WHERE doc_id = ?`, newID, oldID); err != nil {
			return fmt.Errorf("failed to migrate meta[%s -> %s]: %w", oldID, newID, err)
		}
		return nil
	})
}

func (r *SQLiteRepository) Delete(ctx context.Context, docID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM articles_meta WHERE doc_id = ?`, docID); err != nil {
		return fmt.Errorf("failed to delete meta[%s]: %w", docID, err)
	}
	return nil
}
