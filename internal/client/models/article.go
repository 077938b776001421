package models

// Article is a read-only snapshot of a server-owned wiki page.
type Article struct {
	// PageID is the stable external identifier, e.g. "scp-1234".
	PageID string `json:"pageId"`

	// Title is the display title of the page.
	Title string `json:"title"`

	// Source is the raw markup body, trimmed of leading/trailing whitespace
	// by the article client on both fetch and publish.
	Source string `json:"source"`

	// Tags is the set of page tags.
	Tags []string `json:"tags"`

	// ParentID is the page id of the parent article, if any.
	ParentID string `json:"parent"`

	// Locked reports whether the page is locked for editing.
	Locked bool `json:"locked"`
}
