package services

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/osobist/wikisync/internal/client/models"
)

// Fingerprint returns the hex SHA-256 digest of the exact byte sequence of
// source. It is applied identically when committing metadata and when
// comparing against a fetched baseline, which is all the divergence contract
// requires of it.
func Fingerprint(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// HasDiverged reports whether the server-side article drifted away from the
// state recorded at the last successful sync. A document that has never been
// synced (empty fingerprint) has nothing to protect and is not diverged.
func HasDiverged(local models.ArticleMeta, article *models.Article) bool {
	if local.ContentFingerprint == "" {
		return false
	}
	return local.ContentFingerprint != Fingerprint(article.Source)
}
