package models

// ArticleMeta is the sidecar state a local document keeps about its wiki
// counterpart. It is written after every successful fetch or publish and read
// before every publish to run divergence detection.
type ArticleMeta struct {
	// PageID of the article this document was last synced with.
	PageID string `json:"pageId"`

	// Title last confirmed on the server.
	Title string `json:"title"`

	// ContentFingerprint is the digest of the source last confirmed written
	// to (or read from) the server. Never the fingerprint of unsaved local
	// edits. Empty before the first sync.
	ContentFingerprint string `json:"hash,omitempty"`
}

// IsZero reports whether no sync has ever recorded anything for the document.
func (m ArticleMeta) IsZero() bool {
	return m.PageID == "" && m.Title == "" && m.ContentFingerprint == ""
}

// Merge overlays the non-empty fields of other onto m and returns the result.
// Mirrors the save-merge semantics of the sidecar: a partial update keeps
// previously recorded fields.
func (m ArticleMeta) Merge(other ArticleMeta) ArticleMeta {
	if other.PageID != "" {
		m.PageID = other.PageID
	}
	if other.Title != "" {
		m.Title = other.Title
	}
	if other.ContentFingerprint != "" {
		m.ContentFingerprint = other.ContentFingerprint
	}
	return m
}
