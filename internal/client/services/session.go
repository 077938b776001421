// Package services contains the application services of the wikisync client:
// the session store, the divergence detector and the sync orchestrator.
package services

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/osobist/wikisync/internal/client/models"
	"github.com/osobist/wikisync/internal/client/wiki"
	"github.com/osobist/wikisync/internal/common"
	"github.com/osobist/wikisync/internal/logging"
)

// sessionsSecretKey is the fixed namespaced key the session list is stored
// under in the secrets vault: a single blob holding a JSON array of sessions.
const sessionsSecretKey = "ruscpwiki.auth"

// SecretStore is the durable-storage surface the session service needs.
// Implemented by secrets.Vault.
type SecretStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// ChangeEvent describes a session-store mutation for UI subscribers.
type ChangeEvent struct {
	Added   []*models.Session
	Removed []*models.Session
	Changed []*models.Session
}

// SessionService owns the in-memory session map and its encrypted
// persistence. At most one session exists per account id; creating a session
// for an already-registered account replaces the prior entry. Every mutation
// persists first and notifies subscribers after, so a delivered notification
// always describes durable state.
type SessionService struct {
	wiki  wiki.Client
	vault SecretStore
	log   logging.Logger

	mu          sync.RWMutex
	sessions    map[string]*models.Session
	subscribers []func(ChangeEvent)
}

func NewSessionService(wikiClient wiki.Client, vault SecretStore, log logging.Logger) *SessionService {
	return &SessionService{
		wiki:     wikiClient,
		vault:    vault,
		log:      log,
		sessions: make(map[string]*models.Session),
	}
}

// Subscribe registers a change listener. Delivery is fire-and-forget and
// synchronous; listeners must not block.
func (s *SessionService) Subscribe(fn func(ChangeEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Restore loads the persisted session list from the vault. Called once at
// process start. An unreadable blob (wrong vault passphrase, tampering)
// fails with AuthorizationFailed.
func (s *SessionService) Restore(ctx context.Context) error {
	blob, err := s.vault.Get(sessionsSecretKey)
	if err != nil {
		return common.WrapError(common.KindAuthorizationFailed, err)
	}
	if blob == nil {
		return nil
	}

	var restored []*models.Session
	if err := json.Unmarshal(blob, &restored); err != nil {
		return common.WrapError(common.KindAuthorizationFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range restored {
		s.sessions[session.AccountID] = session
	}
	s.log.Debug(ctx, "sessions restored", "count", len(restored))
	return nil
}

// Create performs the full login sequence — fresh CSRF handshake, credential
// POST, cookie capture — then stores, persists and announces the session.
// Kinds: AuthorizationFailed (handshake or empty cookie set),
// InvalidCredentials (login rejected), Network.
func (s *SessionService) Create(ctx context.Context, username, password string) (*models.Session, error) {
	hs, err := s.wiki.AcquireHandshake(ctx)
	if err != nil {
		return nil, err
	}

	cookies, err := s.wiki.Login(ctx, username, password, hs)
	if err != nil {
		return nil, err
	}
	// a session without cookies can never authenticate a request
	if len(cookies) == 0 {
		return nil, common.NewErrorf(common.KindAuthorizationFailed, "login response carried no cookies")
	}

	session := &models.Session{
		AccountID: username,
		Cookies:   cookies,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	prev, replaced := s.sessions[username]
	s.sessions[username] = session
	err = s.persistLocked()
	if err != nil {
		// the vault still holds the prior state, memory must match it
		if replaced {
			s.sessions[username] = prev
		} else {
			delete(s.sessions, username)
		}
		s.mu.Unlock()
		return nil, common.WrapError(common.KindAuthorizationFailed, err)
	}
	s.mu.Unlock()

	event := ChangeEvent{Added: []*models.Session{session.Clone()}}
	if replaced {
		event = ChangeEvent{Changed: []*models.Session{session.Clone()}}
	}
	s.notify(event)

	s.log.Info(ctx, "session created", "account", username, "replaced", replaced)
	return session.Clone(), nil
}

// Get returns a copy of the session for accountID, if any.
func (s *SessionService) Get(accountID string) (*models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[accountID]
	return session.Clone(), ok
}

// List returns copies of all sessions, ordered by account id.
func (s *SessionService) List() []*models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out
}

// Remove invalidates the remote session best-effort, then deletes the local
// entry, persists and announces. Local removal always wins: a failed remote
// logout is logged by the wiki client and ignored here.
func (s *SessionService) Remove(ctx context.Context, accountID string) error {
	s.mu.Lock()
	session, ok := s.sessions[accountID]
	if !ok {
		s.mu.Unlock()
		return common.NewErrorf(common.KindAuthorizationFailed, "no active session for %q", accountID)
	}
	delete(s.sessions, accountID)
	if err := s.persistLocked(); err != nil {
		s.sessions[accountID] = session
		s.mu.Unlock()
		return common.WrapError(common.KindAuthorizationFailed, err)
	}
	s.mu.Unlock()

	s.wiki.Logout(ctx, session.Cookies)

	s.notify(ChangeEvent{Removed: []*models.Session{session.Clone()}})
	s.log.Info(ctx, "session removed", "account", accountID)
	return nil
}

// persistLocked writes the current session list as a single vault blob.
// Caller holds s.mu.
func (s *SessionService) persistLocked() error {
	list := make([]*models.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		list = append(list, session)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].AccountID < list[j].AccountID })

	blob, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.vault.Set(sessionsSecretKey, blob)
}

func (s *SessionService) notify(event ChangeEvent) {
	s.mu.RLock()
	subs := append([]func(ChangeEvent){}, s.subscribers...)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(event)
	}
}
