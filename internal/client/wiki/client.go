// Package wiki implements the HTTP client for the wiki service: the CSRF
// login handshake, cookie-based session authentication, and the stateless
// article operations (fetch, publish, create).
package wiki

import (
	"context"

	"github.com/osobist/wikisync/internal/client/models"
)

// Handshake carries the CSRF token and the cookies set by the unauthenticated
// login page. It is produced fresh for every login attempt — tokens are
// single-use and bound to their cookies — and is never persisted.
type Handshake struct {
	Token   string
	Cookies []string
}

// Client is the remote surface of the wiki service.
//
// All methods fail with a taxonomy error from internal/common; no transport
// or parsing error leaks through. None of the article operations retries
// automatically — retry policy belongs to the caller.
type Client interface {
	// AcquireHandshake performs the unauthenticated GET of the login page
	// and extracts the CSRF token and initial cookies.
	// Kinds: Network, AuthorizationFailed (no token in a completed response).
	AcquireHandshake(ctx context.Context) (*Handshake, error)

	// Login POSTs credentials with the handshake attached, without following
	// redirects. A 302 is the only success signal; the returned cookies come
	// from the login response, not the handshake.
	// Kinds: Network, InvalidCredentials.
	Login(ctx context.Context, username, password string, hs *Handshake) ([]string, error)

	// Logout is best-effort: failures are logged, never returned, so local
	// session removal can always proceed.
	Logout(ctx context.Context, cookies []string)

	// FetchArticle GETs an article by page id. The returned source is
	// trimmed of leading/trailing whitespace.
	// Kinds: Network, AccessDenied, PageNotFound, PageLoadFailed.
	FetchArticle(ctx context.Context, pageID string) (*models.Article, error)

	// PublishArticle PUTs an updated article body. The source is trimmed and
	// the fixed attribution suffix is appended to the comment before sending.
	// Kinds: Network, AccessDenied, PageNotFound, PagePublishFailed.
	PublishArticle(ctx context.Context, session *models.Session, pageID, title, source, comment string) (*models.Article, error)

	// CreateArticle POSTs a new page, without following redirects. Success
	// is 201.
	// Kinds: Network, AccessDenied, PageLoadFailed.
	CreateArticle(ctx context.Context, session *models.Session, pageID, title, source, comment string) (*models.Article, error)
}
