package cli

import (
	"bufio"
	"context"
	"io"
	"testing"

	"github.com/osobist/wikisync/internal/client/models"
	"github.com/osobist/wikisync/internal/client/wiki"
)

type fakeWiki struct {
	HandshakeRet *wiki.Handshake
	HandshakeErr error

	LoginRet      []string
	LoginErr      error
	LastLoginUser string
	LastLoginPass string

	LogoutCookies []string

	FetchRet   *models.Article
	FetchErr   error
	FetchCalls int

	PublishRet   *models.Article
	PublishErr   error
	PublishCalls int

	CreateRet   *models.Article
	CreateErr   error
	CreateCalls int
}

func (f *fakeWiki) AcquireHandshake(context.Context) (*wiki.Handshake, error) {
	if f.HandshakeErr != nil {
		return nil, f.HandshakeErr
	}
	if f.HandshakeRet != nil {
		return f.HandshakeRet, nil
	}
	return &wiki.Handshake{Token: "tok", Cookies: []string{"csrftoken=tok"}}, nil
}

func (f *fakeWiki) Login(_ context.Context, username, password string, _ *wiki.Handshake) ([]string, error) {
	f.LastLoginUser, f.LastLoginPass = username, password
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	if f.LoginRet != nil {
		return f.LoginRet, nil
	}
	return []string{"sessionid=abc"}, nil
}

func (f *fakeWiki) Logout(_ context.Context, cookies []string) {
	f.LogoutCookies = cookies
}

func (f *fakeWiki) FetchArticle(context.Context, string) (*models.Article, error) {
	f.FetchCalls++
	return f.FetchRet, f.FetchErr
}

func (f *fakeWiki) PublishArticle(context.Context, *models.Session, string, string, string, string) (*models.Article, error) {
	f.PublishCalls++
	return f.PublishRet, f.PublishErr
}

func (f *fakeWiki) CreateArticle(context.Context, *models.Session, string, string, string, string) (*models.Article, error) {
	f.CreateCalls++
	return f.CreateRet, f.CreateErr
}

type fakeStore struct {
	data map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (f *fakeStore) Get(key string) ([]byte, error) {
	blob, ok := f.data[key]
	if !ok {
		return nil, nil
	}
	return blob, nil
}

func (f *fakeStore) Set(key string, value []byte) error {
	f.data[key] = append([]byte(nil), value...)
	return nil
}

func stubInputs(t *testing.T, username string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return username, nil }
	getPassword = func(_ io.Writer, _ string) ([]byte, error) { return append([]byte(nil), password...), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func stubTextAnswers(t *testing.T, answers ...string) {
	t.Helper()
	orig := getSimpleText
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(answers) {
			return "", nil
		}
		a := answers[i]
		i++
		return a, nil
	}
	t.Cleanup(func() { getSimpleText = orig })
}
