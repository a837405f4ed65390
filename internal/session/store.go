package session

import (
	"context"
	"github.com/alexedwards/scs/v2"
	"github.com/myrjola/reelcheck/internal/errors"
	"github.com/myrjola/reelcheck/internal/random"
	"sync"
)

// TokenKey is the well-known session key holding the collaborator token.
const TokenKey = "insta_token"

// stateKeyKey holds the random key of the session's dashboard state.
const stateKeyKey = "dashboard_state_key"

const stateKeyLength = 32

// TokenStore is the single slot holding the session token.
type TokenStore interface {
	// Token returns the stored token or "" when there is none.
	Token(ctx context.Context) string
	SetToken(ctx context.Context, token string) error
	// ClearToken removes the token. Clearing an empty slot is not an error.
	ClearToken(ctx context.Context) error
}

// SessionStore keeps the token in the scs session loaded into the request context.
type SessionStore struct {
	sessionManager *scs.SessionManager
}

func NewSessionStore(sessionManager *scs.SessionManager) *SessionStore {
	return &SessionStore{sessionManager: sessionManager}
}

func (s *SessionStore) Token(ctx context.Context) string {
	return s.sessionManager.GetString(ctx, TokenKey)
}

// SetToken renews the session token before storing the credential to prevent session fixation.
func (s *SessionStore) SetToken(ctx context.Context, token string) error {
	if err := s.sessionManager.RenewToken(ctx); err != nil {
		return errors.Wrap(err, "renew session token")
	}
	s.sessionManager.Put(ctx, TokenKey, token)
	return nil
}

func (s *SessionStore) ClearToken(ctx context.Context) error {
	s.sessionManager.Remove(ctx, TokenKey)
	if err := s.sessionManager.RenewToken(ctx); err != nil {
		return errors.Wrap(err, "renew session token")
	}
	return nil
}

// StateKey returns the key of the dashboard state for this session, creating one on first use.
func (s *SessionStore) StateKey(ctx context.Context) (string, error) {
	if key := s.sessionManager.GetString(ctx, stateKeyKey); key != "" {
		return key, nil
	}
	key, err := random.Letters(stateKeyLength)
	if err != nil {
		return "", errors.Wrap(err, "generate dashboard state key")
	}
	s.sessionManager.Put(ctx, stateKeyKey, key)
	return key, nil
}

// MemoryStore is a TokenStore shared by every context. Used in tests and the smoke test client.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryStore) Token(_ context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *MemoryStore) SetToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) ClearToken(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// StateKey returns the same key for every context since a MemoryStore is a single session.
func (s *MemoryStore) StateKey(_ context.Context) (string, error) {
	return "memory", nil
}
