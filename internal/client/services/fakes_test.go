package services

import (
	"context"
	"sync"

	"github.com/osobist/wikisync/internal/client/models"
	"github.com/osobist/wikisync/internal/client/wiki"
)

// fakeWiki implements wiki.Client for service unit tests.
type fakeWiki struct {
	HandshakeRet *wiki.Handshake
	HandshakeErr error

	LoginRet []string
	LoginErr error

	FetchRet *models.Article
	FetchErr error

	PublishRet *models.Article
	PublishErr error

	CreateRet *models.Article
	CreateErr error

	// argument capture
	LastLoginUser string
	LastLoginPass string
	LogoutCookies [][]string

	FetchCalls   int
	PublishCalls int
	CreateCalls  int

	LastPublishSource string
	LastCreateSource  string
}

var _ wiki.Client = (*fakeWiki)(nil)

func (f *fakeWiki) AcquireHandshake(ctx context.Context) (*wiki.Handshake, error) {
	return f.HandshakeRet, f.HandshakeErr
}

func (f *fakeWiki) Login(ctx context.Context, username, password string, hs *wiki.Handshake) ([]string, error) {
	f.LastLoginUser = username
	f.LastLoginPass = password
	return append([]string(nil), f.LoginRet...), f.LoginErr
}

func (f *fakeWiki) Logout(ctx context.Context, cookies []string) {
	f.LogoutCookies = append(f.LogoutCookies, append([]string(nil), cookies...))
}

func (f *fakeWiki) FetchArticle(ctx context.Context, pageID string) (*models.Article, error) {
	f.FetchCalls++
	return f.FetchRet, f.FetchErr
}

func (f *fakeWiki) PublishArticle(ctx context.Context, session *models.Session, pageID, title, source, comment string) (*models.Article, error) {
	f.PublishCalls++
	f.LastPublishSource = source
	return f.PublishRet, f.PublishErr
}

func (f *fakeWiki) CreateArticle(ctx context.Context, session *models.Session, pageID, title, source, comment string) (*models.Article, error) {
	f.CreateCalls++
	f.LastCreateSource = source
	return f.CreateRet, f.CreateErr
}

// fakeVault is an in-memory SecretStore with injectable failures.
type fakeVault struct {
	mu      sync.Mutex
	data    map[string][]byte
	GetErr  error
	SetErr  error
	SetsRun int
}

func newFakeVault() *fakeVault {
	return &fakeVault{data: make(map[string][]byte)}
}

func (v *fakeVault) Get(key string) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.GetErr != nil {
		return nil, v.GetErr
	}
	return v.data[key], nil
}

func (v *fakeVault) Set(key string, value []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.SetErr != nil {
		return v.SetErr
	}
	v.SetsRun++
	v.data[key] = append([]byte(nil), value...)
	return nil
}
