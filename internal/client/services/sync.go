package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/osobist/wikisync/internal/client/models"
	"github.com/osobist/wikisync/internal/client/repositories/meta"
	"github.com/osobist/wikisync/internal/client/wiki"
	"github.com/osobist/wikisync/internal/common"
	"github.com/osobist/wikisync/internal/logging"
)

// SyncState names a position in the publish state machine.
type SyncState string

const (
	StateIdle               SyncState = "idle"
	StateResolvingSession   SyncState = "resolving_session"
	StateFetchingBaseline   SyncState = "fetching_baseline"
	StateDecidingPath       SyncState = "deciding_path"
	StateAwaitingResolution SyncState = "awaiting_resolution"
	StatePublishing         SyncState = "publishing"
	StateCancelled          SyncState = "cancelled"
	StateCommitted          SyncState = "committed"
)

// Decision is the outcome of a divergence resolution.
type Decision int

const (
	DecisionCancel Decision = iota
	DecisionProceed
)

// SessionResolver produces the session a sync attempt runs under, creating
// one interactively if needed. An abandoned login surfaces ActionCancelled.
type SessionResolver func(ctx context.Context) (*models.Session, error)

// ConflictResolver is the external decision point entered when the baseline
// has diverged from the locally recorded state. Implementations typically
// show the user a diff between local and server source before answering.
type ConflictResolver func(ctx context.Context, local models.ArticleMeta, baseline *models.Article) (Decision, error)

// PublishRequest describes one publish attempt.
type PublishRequest struct {
	// DocID identifies the local document whose metadata is consulted and
	// committed (file path for the CLI).
	DocID string

	PageID  string
	Title   string
	Source  string
	Comment string
}

// SyncResult reports a finished attempt.
type SyncResult struct {
	// Article as confirmed stored on the server.
	Article *models.Article

	// Created is true when the attempt took the new-page path.
	Created bool

	// Fingerprint of the stored source, as committed to local metadata.
	Fingerprint string

	// State is the terminal state, StateCommitted on success.
	State SyncState
}

// SyncService sequences fetch → conflict-check → publish/create and commits
// the resulting fingerprint back to local metadata. One attempt runs at a
// time per document; races between independent documents publishing the same
// page id are only defended by the advisory divergence check.
type SyncService struct {
	wiki     wiki.Client
	meta     meta.Repository
	sessions SessionResolver
	resolve  ConflictResolver
	log      logging.Logger
}

func NewSyncService(wikiClient wiki.Client, metaRepo meta.Repository, sessions SessionResolver, resolve ConflictResolver, log logging.Logger) *SyncService {
	return &SyncService{
		wiki:     wikiClient,
		meta:     metaRepo,
		sessions: sessions,
		resolve:  resolve,
		log:      log,
	}
}

// Fetch retrieves an article and commits its fingerprint to the document's
// metadata, establishing the baseline later publishes are compared against.
func (s *SyncService) Fetch(ctx context.Context, docID, pageID string) (*models.Article, error) {
	article, err := s.wiki.FetchArticle(ctx, pageID)
	if err != nil {
		return nil, err
	}

	err = s.meta.Save(ctx, docID, models.ArticleMeta{
		PageID:             article.PageID,
		Title:              article.Title,
		ContentFingerprint: Fingerprint(article.Source),
	})
	if err != nil {
		return nil, common.WrapError(common.KindPageLoadFailed, err)
	}
	return article, nil
}

// Publish drives the state machine for one attempt. Errors carry the kind of
// the failing step; a resolver cancel terminates with ActionCancelled and
// leaves local metadata untouched.
func (s *SyncService) Publish(ctx context.Context, req PublishRequest) (*SyncResult, error) {
	log := s.log.With("attempt", uuid.NewString(), "page_id", req.PageID)
	state := StateIdle

	state = StateResolvingSession
	session, err := s.sessions(ctx)
	if err != nil {
		log.Warn(ctx, "session resolution failed", "state", state, "error", err)
		return nil, err
	}

	state = StateFetchingBaseline
	baseline, err := s.wiki.FetchArticle(ctx, req.PageID)
	createPath := false
	if err != nil {
		// an absent page is the signal to create rather than update
		if !common.IsKind(err, common.KindPageNotFound) {
			log.Warn(ctx, "baseline fetch failed", "state", state, "error", err)
			return nil, err
		}
		createPath = true
	}

	if !createPath {
		state = StateDecidingPath
		local, err := s.meta.Load(ctx, req.DocID)
		if err != nil {
			return nil, common.WrapError(common.KindPagePublishFailed, err)
		}

		if HasDiverged(local, baseline) {
			state = StateAwaitingResolution
			log.Info(ctx, "baseline diverged from last sync", "local_fingerprint", local.ContentFingerprint)

			decision, err := s.resolve(ctx, local, baseline)
			if err != nil {
				return nil, err
			}
			if decision != DecisionProceed {
				state = StateCancelled
				log.Info(ctx, "publication cancelled by resolver", "state", state)
				return nil, common.NewErrorf(common.KindActionCancelled, "publication cancelled")
			}
		}
	}

	state = StatePublishing
	var article *models.Article
	if createPath {
		article, err = s.wiki.CreateArticle(ctx, session, req.PageID, req.Title, req.Source, req.Comment)
	} else {
		article, err = s.wiki.PublishArticle(ctx, session, req.PageID, req.Title, req.Source, req.Comment)
	}
	if err != nil {
		log.Warn(ctx, "publish failed", "state", state, "created", createPath, "error", err)
		return nil, err
	}

	// Commit the fingerprint of what the server actually stored, in one
	// atomic metadata write.
	fingerprint := Fingerprint(article.Source)
	err = s.meta.Save(ctx, req.DocID, models.ArticleMeta{
		PageID:             article.PageID,
		Title:              article.Title,
		ContentFingerprint: fingerprint,
	})
	if err != nil {
		return nil, common.WrapError(common.KindPagePublishFailed, err)
	}

	state = StateCommitted
	log.Info(ctx, "publish committed", "created", createPath, "state", state)
	return &SyncResult{
		Article:     article,
		Created:     createPath,
		Fingerprint: fingerprint,
		State:       state,
	}, nil
}
