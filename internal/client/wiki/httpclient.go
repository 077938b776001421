package wiki

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/osobist/wikisync/internal/client/models"
	"github.com/osobist/wikisync/internal/common"
	"github.com/osobist/wikisync/internal/logging"
)

const (
	loginPath     = "/-/login"
	logoutPath    = "/-/logout"
	articlesPath  = "/api/articles/"
	newActionPath = "/api/articles/new"

	// commentSuffix is appended to every publish/create comment so edits made
	// through the client are attributable on the wiki side.
	commentSuffix = "(published via wikisync)"
)

// csrfTokenRe matches the hidden input field Django renders into the login
// page. The capture group is the token value.
var csrfTokenRe = regexp.MustCompile(`<input type="hidden" name="csrfmiddlewaretoken" value="([^"]*)">`)

// HTTPClient is the production Client implementation. It never follows
// redirects: the login protocol signals success with a 302 and page creation
// responds with a redirect as well.
type HTTPClient struct {
	baseURL string
	httpc   *http.Client
	log     logging.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the wiki at baseURL (no trailing slash).
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		log: log,
	}
}

// joinCookies presents the session cookie set verbatim. The raw Set-Cookie
// values are concatenated without re-parsing so cookie attributes survive
// untouched.
func joinCookies(cookies []string) string {
	return strings.Join(cookies, ";")
}

func (c *HTTPClient) AcquireHandshake(ctx context.Context) (*Handshake, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+loginPath, nil)
	if err != nil {
		return nil, common.WrapError(common.KindNetwork, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, common.WrapError(common.KindNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, common.WrapError(common.KindNetwork, err)
	}

	m := csrfTokenRe.FindSubmatch(body)
	if m == nil || len(m[1]) == 0 {
		return nil, common.NewErrorf(common.KindAuthorizationFailed, "login page contains no csrf token")
	}

	return &Handshake{
		Token:   string(m[1]),
		Cookies: resp.Header.Values("Set-Cookie"),
	}, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string, hs *Handshake) ([]string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("csrfmiddlewaretoken", hs.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, common.WrapError(common.KindNetwork, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", c.baseURL+loginPath)
	req.Header.Set("Cookie", joinCookies(hs.Cookies))

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, common.WrapError(common.KindNetwork, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	// The server answers a successful login with a redirect; any completed
	// non-302 response means the credentials were rejected.
	if resp.StatusCode != http.StatusFound {
		return nil, common.NewError(common.KindInvalidCredentials)
	}

	return resp.Header.Values("Set-Cookie"), nil
}

func (c *HTTPClient) Logout(ctx context.Context, cookies []string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+logoutPath, nil)
	if err != nil {
		c.log.Warn(ctx, "logout request could not be built", "error", err)
		return
	}
	req.Header.Set("Referer", c.baseURL+"/")
	req.Header.Set("Cookie", joinCookies(cookies))

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Warn(ctx, "remote logout failed", "error", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
}

func (c *HTTPClient) FetchArticle(ctx context.Context, pageID string) (*models.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+articlesPath+pageID, nil)
	if err != nil {
		return nil, common.WrapError(common.KindNetwork, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, common.WrapError(common.KindNetwork, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var article models.Article
		if err := json.NewDecoder(resp.Body).Decode(&article); err != nil {
			return nil, common.WrapError(common.KindPageLoadFailed, err)
		}
		article.Source = strings.TrimSpace(article.Source)
		return &article, nil
	case http.StatusForbidden:
		return nil, common.NewError(common.KindAccessDenied)
	case http.StatusNotFound:
		return nil, common.NewError(common.KindPageNotFound)
	default:
		return nil, common.NewErrorf(common.KindPageLoadFailed, "page loading failed: status %d", resp.StatusCode)
	}
}

// articlePayload is the request body shared by publish and create.
type articlePayload struct {
	PageID  string `json:"pageId"`
	Title   string `json:"title"`
	Source  string `json:"source"`
	Comment string `json:"comment"`
}

// buildComment appends the fixed attribution suffix, or substitutes it when
// no comment was given.
func buildComment(comment string) string {
	if comment == "" {
		return commentSuffix
	}
	return comment + "\n\n" + commentSuffix
}

func (c *HTTPClient) PublishArticle(ctx context.Context, session *models.Session, pageID, title, source, comment string) (*models.Article, error) {
	payload := articlePayload{
		PageID:  pageID,
		Title:   title,
		Source:  strings.TrimSpace(source),
		Comment: buildComment(comment),
	}

	resp, err := c.sendArticle(ctx, http.MethodPut, c.baseURL+articlesPath+pageID, session, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return &models.Article{PageID: payload.PageID, Title: payload.Title, Source: payload.Source}, nil
	case http.StatusForbidden:
		return nil, common.NewError(common.KindAccessDenied)
	case http.StatusNotFound:
		return nil, common.NewError(common.KindPageNotFound)
	default:
		return nil, common.NewErrorf(common.KindPagePublishFailed, "page publishing failed: status %d", resp.StatusCode)
	}
}

func (c *HTTPClient) CreateArticle(ctx context.Context, session *models.Session, pageID, title, source, comment string) (*models.Article, error) {
	payload := articlePayload{
		PageID:  pageID,
		Title:   title,
		Source:  strings.TrimSpace(source),
		Comment: buildComment(comment),
	}

	resp, err := c.sendArticle(ctx, http.MethodPost, c.baseURL+newActionPath, session, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusCreated:
		return &models.Article{PageID: payload.PageID, Title: payload.Title, Source: payload.Source}, nil
	case http.StatusForbidden:
		return nil, common.NewError(common.KindAccessDenied)
	default:
		return nil, common.NewErrorf(common.KindPageLoadFailed, "page creation rejected: status %d", resp.StatusCode)
	}
}

// sendArticle builds and executes an authenticated article request. The
// session cookies are the sole credential.
func (c *HTTPClient) sendArticle(ctx context.Context, method, endpoint string, session *models.Session, payload articlePayload) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, common.WrapError(common.KindNetwork, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, common.WrapError(common.KindNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", endpoint)
	req.Header.Set("Cookie", joinCookies(session.Cookies))

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, common.WrapError(common.KindNetwork, err)
	}
	return resp, nil
}
