package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/freshmall/mallclient/diag"
	"github.com/freshmall/mallclient/storage"
	"github.com/freshmall/mallclient/token"
)

// Config tunes a [Store]. Zero values pick the conventional storage keys and
// a no-op diagnostic sink.
type Config struct {
	UserKey  string
	TokenKey string
	Sink     diag.Sink
}

// Store is the owning component for session state. All reads and writes of
// the in-memory session go through it; the guard, the HTTP layer, and the
// expiry monitor hold a *Store and nothing else.
type Store struct {
	store    storage.Storage
	userKey  string
	tokenKey string
	sink     diag.Sink
	now      func() time.Time

	mu    sync.RWMutex
	state Session
}

// NewStore creates a [Store] on top of st.
func NewStore(st storage.Storage, cfg Config) *Store {
	if cfg.UserKey == "" {
		cfg.UserKey = storage.UserKey
	}
	if cfg.TokenKey == "" {
		cfg.TokenKey = storage.TokenKey
	}
	if cfg.Sink == nil {
		cfg.Sink = diag.NoOpSink{}
	}

	return &Store{
		store:    st,
		userKey:  cfg.UserKey,
		tokenKey: cfg.TokenKey,
		sink:     cfg.Sink,
		now:      time.Now,
	}
}

// Snapshot returns a copy of the current session state.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// LoggedIn reports whether the session is currently marked logged in.
func (s *Store) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.LoggedIn
}

// LoginWithUsername marks the session logged in under username, leaving any
// existing user ID untouched. This is the registration flow's entry point,
// where only the chosen name is known.
func (s *Store) LoginWithUsername(ctx context.Context, username string) error {
	s.mu.Lock()
	s.state.LoggedIn = true
	s.state.Username = username
	snapshot := s.state
	s.mu.Unlock()

	return s.persistUser(ctx, snapshot)
}

// LoginWithUser marks the session logged in for a full user record. This is
// the login flow's entry point.
func (s *Store) LoginWithUser(ctx context.Context, u User) error {
	s.mu.Lock()
	s.state.LoggedIn = true
	s.state.Username = u.Username
	s.state.UserID = u.ID
	snapshot := s.state
	s.mu.Unlock()

	return s.persistUser(ctx, snapshot)
}

func (s *Store) persistUser(ctx context.Context, snapshot Session) error {
	data, err := encodeUser(snapshot)
	if err != nil {
		return fmt.Errorf("encode user entry: %w", err)
	}
	if err := s.store.Set(ctx, s.userKey, string(data)); err != nil {
		return fmt.Errorf("persist user entry: %w", err)
	}
	return nil
}

// SetToken writes the bearer token entry. The login flow calls it once the
// server has issued a token; the Store itself never does so as part of login.
func (s *Store) SetToken(ctx context.Context, tok string) error {
	if err := s.store.Set(ctx, s.tokenKey, tok); err != nil {
		return fmt.Errorf("persist token entry: %w", err)
	}
	return nil
}

// Token returns the stored bearer token, or "" when none is stored. Absence
// is not an error; only backend failures are.
func (s *Store) Token(ctx context.Context) (string, error) {
	tok, err := s.store.Get(ctx, s.tokenKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("read token entry: %w", err)
	}
	return tok, nil
}

// Logout resets the in-memory session and deletes both storage entries.
// Idempotent: calling it on an already logged-out session is harmless. The
// in-memory state is cleared even when storage deletion fails, so the process
// never keeps acting logged-in against a store it cannot reach.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.state = Session{}
	s.mu.Unlock()

	var firstErr error
	if err := s.store.Delete(ctx, s.userKey); err != nil {
		firstErr = err
	}
	if err := s.store.Delete(ctx, s.tokenKey); err != nil && firstErr == nil {
		firstErr = err
	}
	if firstErr != nil {
		return fmt.Errorf("clear session entries: %w", firstErr)
	}
	return nil
}

// Init rehydrates the session from storage, typically once at startup. Both
// entries must exist; either one missing leaves the session logged out. A
// corrupt user blob forces a clean logout and emits a diagnostic event, but
// is not an error to the caller.
func (s *Store) Init(ctx context.Context) error {
	userBlob, err := s.store.Get(ctx, s.userKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("read user entry: %w", err)
	}

	if _, err := s.store.Get(ctx, s.tokenKey); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("read token entry: %w", err)
	}

	restored, err := decodeUser([]byte(userBlob))
	if err != nil {
		s.sink.Emit(ctx, diag.Event{
			Timestamp: s.now(),
			Kind:      diag.EventUserBlobCorrupt,
			Error:     err.Error(),
		})
		return s.Logout(ctx)
	}

	s.mu.Lock()
	s.state = restored
	s.mu.Unlock()
	return nil
}

// TokenExpired reports whether the stored token is absent, undecodable, or
// past its claimed expiry. It never errors: every failure mode maps to
// "expired" and is recorded through the diagnostic sink.
func (s *Store) TokenExpired(ctx context.Context) bool {
	tok, err := s.store.Get(ctx, s.tokenKey)
	if err != nil {
		// Missing and unreachable both read as expired; the caller's
		// reaction (force a login) is the safe one either way.
		if !errors.Is(err, storage.ErrNotFound) {
			s.sink.Emit(ctx, diag.Event{
				Timestamp: s.now(),
				Kind:      diag.EventTokenDecodeFailed,
				Error:     err.Error(),
			})
		}
		return true
	}

	expired, err := token.Expired(tok, s.now())
	if err != nil {
		s.sink.Emit(ctx, diag.Event{
			Timestamp: s.now(),
			Kind:      diag.EventTokenDecodeFailed,
			Error:     err.Error(),
		})
	}
	return expired
}
