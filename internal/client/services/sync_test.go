package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/osobist/wikisync/internal/client/models"
	"github.com/osobist/wikisync/internal/client/repositories/meta"
	"github.com/osobist/wikisync/internal/common"
	"github.com/osobist/wikisync/internal/logging"
	"github.com/stretchr/testify/require"
)

type syncFixture struct {
	wiki     *fakeWiki
	meta     *meta.FileRepository
	doc      string
	resolves []Decision // consumed in order by the conflict resolver
	resolved int
	svc      *SyncService
}

func newSyncFixture(t *testing.T, w *fakeWiki) *syncFixture {
	t.Helper()
	f := &syncFixture{
		wiki: w,
		meta: meta.NewFileRepository(),
		doc:  filepath.Join(t.TempDir(), "draft.ftml"),
	}

	session := &models.Session{AccountID: "osobist", Cookies: []string{"sessionid=s3cret"}}
	resolveSession := func(ctx context.Context) (*models.Session, error) { return session, nil }
	resolveConflict := func(ctx context.Context, local models.ArticleMeta, baseline *models.Article) (Decision, error) {
		d := DecisionCancel
		if f.resolved < len(f.resolves) {
			d = f.resolves[f.resolved]
		}
		f.resolved++
		return d, nil
	}

	f.svc = NewSyncService(w, f.meta, resolveSession, resolveConflict, logging.NewNopLogger())
	return f
}

func (f *syncFixture) loadMeta(t *testing.T) models.ArticleMeta {
	t.Helper()
	m, err := f.meta.Load(context.Background(), f.doc)
	require.NoError(t, err)
	return m
}

func TestSync_PublishCommitsFingerprintOfStoredSource(t *testing.T) {
	w := &fakeWiki{
		FetchRet:   &models.Article{PageID: "scp-1234", Source: "old body"},
		PublishRet: &models.Article{PageID: "scp-1234", Title: "T", Source: "Hello"},
	}
	f := newSyncFixture(t, w)

	res, err := f.svc.Publish(context.Background(), PublishRequest{
		DocID: f.doc, PageID: "scp-1234", Title: "T", Source: "  Hello  ",
	})
	require.NoError(t, err)
	require.False(t, res.Created)
	require.Equal(t, StateCommitted, res.State)

	m := f.loadMeta(t)
	require.Equal(t, "scp-1234", m.PageID)
	// the committed fingerprint is that of the post-trim stored source
	require.Equal(t, Fingerprint("Hello"), m.ContentFingerprint)
	require.Equal(t, res.Fingerprint, m.ContentFingerprint)
}

func TestSync_MissingPageTakesCreatePath(t *testing.T) {
	w := &fakeWiki{
		FetchErr:  common.NewError(common.KindPageNotFound),
		CreateRet: &models.Article{PageID: "scp-9999", Title: "New", Source: "draft"},
	}
	f := newSyncFixture(t, w)

	res, err := f.svc.Publish(context.Background(), PublishRequest{
		DocID: f.doc, PageID: "scp-9999", Title: "New", Source: "draft",
	})
	require.NoError(t, err)
	require.True(t, res.Created)
	require.Equal(t, 1, w.CreateCalls)
	require.Zero(t, w.PublishCalls, "a missing page must be created, not updated")

	require.Equal(t, Fingerprint("draft"), f.loadMeta(t).ContentFingerprint)
}

func TestSync_OtherFetchErrorsAreFatal(t *testing.T) {
	w := &fakeWiki{FetchErr: common.NewError(common.KindAccessDenied)}
	f := newSyncFixture(t, w)

	_, err := f.svc.Publish(context.Background(), PublishRequest{DocID: f.doc, PageID: "scp-1234", Source: "x"})
	require.True(t, common.IsKind(err, common.KindAccessDenied), "got %v", err)
	require.Zero(t, w.PublishCalls)
	require.Zero(t, w.CreateCalls)
	require.True(t, f.loadMeta(t).IsZero())
}

func TestSync_DivergenceCancelLeavesMetaUntouched(t *testing.T) {
	w := &fakeWiki{
		FetchRet:   &models.Article{PageID: "scp-1234", Source: "someone else's edit"},
		PublishRet: &models.Article{PageID: "scp-1234", Source: "mine"},
	}
	f := newSyncFixture(t, w)
	f.resolves = []Decision{DecisionCancel}

	before := models.ArticleMeta{PageID: "scp-1234", ContentFingerprint: Fingerprint("my last sync")}
	require.NoError(t, f.meta.Save(context.Background(), f.doc, before))

	_, err := f.svc.Publish(context.Background(), PublishRequest{DocID: f.doc, PageID: "scp-1234", Source: "mine"})
	require.True(t, common.IsKind(err, common.KindActionCancelled), "got %v", err)
	require.Equal(t, 1, f.resolved, "resolver must be consulted")
	require.Zero(t, w.PublishCalls)

	require.Equal(t, before, f.loadMeta(t), "cancel must not touch local metadata")
}

func TestSync_DivergenceProceedPublishes(t *testing.T) {
	w := &fakeWiki{
		FetchRet:   &models.Article{PageID: "scp-1234", Source: "someone else's edit"},
		PublishRet: &models.Article{PageID: "scp-1234", Source: "mine"},
	}
	f := newSyncFixture(t, w)
	f.resolves = []Decision{DecisionProceed}

	require.NoError(t, f.meta.Save(context.Background(), f.doc,
		models.ArticleMeta{PageID: "scp-1234", ContentFingerprint: Fingerprint("my last sync")}))

	res, err := f.svc.Publish(context.Background(), PublishRequest{DocID: f.doc, PageID: "scp-1234", Source: "mine"})
	require.NoError(t, err)
	require.Equal(t, 1, w.PublishCalls)
	require.Equal(t, Fingerprint("mine"), res.Fingerprint)
}

func TestSync_NoDivergenceSkipsResolver(t *testing.T) {
	w := &fakeWiki{
		FetchRet:   &models.Article{PageID: "scp-1234", Source: "baseline"},
		PublishRet: &models.Article{PageID: "scp-1234", Source: "updated"},
	}
	f := newSyncFixture(t, w)

	require.NoError(t, f.meta.Save(context.Background(), f.doc,
		models.ArticleMeta{PageID: "scp-1234", ContentFingerprint: Fingerprint("baseline")}))

	_, err := f.svc.Publish(context.Background(), PublishRequest{DocID: f.doc, PageID: "scp-1234", Source: "updated"})
	require.NoError(t, err)
	require.Zero(t, f.resolved, "matching baseline must not prompt")
}

func TestSync_FirstSyncNeverPrompts(t *testing.T) {
	w := &fakeWiki{
		FetchRet:   &models.Article{PageID: "scp-1234", Source: "whatever is live"},
		PublishRet: &models.Article{PageID: "scp-1234", Source: "mine"},
	}
	f := newSyncFixture(t, w)

	_, err := f.svc.Publish(context.Background(), PublishRequest{DocID: f.doc, PageID: "scp-1234", Source: "mine"})
	require.NoError(t, err)
	require.Zero(t, f.resolved, "no recorded fingerprint means nothing to protect")
}

func TestSync_SessionResolutionFailureStopsEverything(t *testing.T) {
	w := &fakeWiki{}
	f := newSyncFixture(t, w)
	f.svc = NewSyncService(w, f.meta,
		func(ctx context.Context) (*models.Session, error) {
			return nil, common.NewError(common.KindActionCancelled)
		},
		func(ctx context.Context, local models.ArticleMeta, baseline *models.Article) (Decision, error) {
			return DecisionProceed, nil
		},
		logging.NewNopLogger())

	_, err := f.svc.Publish(context.Background(), PublishRequest{DocID: f.doc, PageID: "scp-1234", Source: "x"})
	require.True(t, common.IsKind(err, common.KindActionCancelled), "got %v", err)
	require.Zero(t, w.FetchCalls, "no network traffic without a session")
}

func TestSync_FetchCommitsBaselineMeta(t *testing.T) {
	w := &fakeWiki{
		FetchRet: &models.Article{PageID: "scp-1234", Title: "The Sculpture", Source: "body"},
	}
	f := newSyncFixture(t, w)

	article, err := f.svc.Fetch(context.Background(), f.doc, "scp-1234")
	require.NoError(t, err)
	require.Equal(t, "body", article.Source)

	m := f.loadMeta(t)
	require.Equal(t, "scp-1234", m.PageID)
	require.Equal(t, "The Sculpture", m.Title)
	require.Equal(t, Fingerprint("body"), m.ContentFingerprint)
}

func TestSync_FetchErrorDoesNotTouchMeta(t *testing.T) {
	w := &fakeWiki{FetchErr: common.NewError(common.KindPageNotFound)}
	f := newSyncFixture(t, w)

	_, err := f.svc.Fetch(context.Background(), f.doc, "scp-1234")
	require.True(t, common.IsKind(err, common.KindPageNotFound), "got %v", err)
	require.True(t, f.loadMeta(t).IsZero())
}

func TestSync_PublishFailureLeavesMetaUntouched(t *testing.T) {
	w := &fakeWiki{
		FetchRet:   &models.Article{PageID: "scp-1234", Source: "baseline"},
		PublishErr: common.NewError(common.KindPagePublishFailed),
	}
	f := newSyncFixture(t, w)

	_, err := f.svc.Publish(context.Background(), PublishRequest{DocID: f.doc, PageID: "scp-1234", Source: "x"})
	require.True(t, common.IsKind(err, common.KindPagePublishFailed), "got %v", err)
	require.True(t, f.loadMeta(t).IsZero())
}
