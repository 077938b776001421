// Package meta stores per-document article metadata: the page id, title and
// content fingerprint of the last confirmed sync. Two backends exist: a JSON
// sidecar next to the document (editor integrations) and a SQLite repository
// (the CLI).
package meta

import (
	"context"

	"github.com/osobist/wikisync/internal/client/models"
)

// Repository is the sidecar storage keyed by document identity.
//
// Save merges: non-empty incoming fields overwrite, previously recorded
// fields survive a partial update. A Save carrying pageID, title and
// fingerprint together must land atomically — a partial write that updates
// the page id but not the fingerprint corrupts divergence detection.
type Repository interface {
	// Load returns the recorded metadata, or a zero value when the document
	// has never been synced.
	Load(ctx context.Context, docID string) (models.ArticleMeta, error)

	// Save merges value into the stored metadata for docID.
	Save(ctx context.Context, docID string, value models.ArticleMeta) error

	// Migrate moves metadata from oldID to newID when a document is renamed.
	// Missing source metadata is a no-op.
	Migrate(ctx context.Context, oldID, newID string) error

	// Delete removes the metadata for docID.
	Delete(ctx context.Context, docID string) error
}
