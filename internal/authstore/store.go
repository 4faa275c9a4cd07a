// Package authstore is the single source of truth for a session's
// authentication data: the bearer token, the user record snapshot, and a
// subscription mechanism notifying consumers of every change.
package authstore

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/srw-platform/portal/internal/domain"
	"github.com/srw-platform/portal/internal/storage"
)

const (
	tokenKey = "srw.auth.token"
	userKey  = "srw.auth.user"
)

// Listener receives the fresh auth state after every mutation.
type Listener func(domain.AuthState)

type listenerEntry struct {
	id int64
	fn Listener
}

// Store owns the persisted auth data for one portal session. Reads fail
// soft: malformed or missing storage content surfaces as absent data, never
// as an error to the caller.
type Store struct {
	storage storage.Storage
	logger  *zap.Logger

	mu        sync.Mutex
	listeners []listenerEntry
	nextID    int64

	now func() time.Time
}

// New builds a store over the given storage slot.
func New(st storage.Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{storage: st, logger: logger, now: time.Now}
}

// GetToken returns the persisted token, or false if none is stored.
func (s *Store) GetToken() (string, bool) {
	token, err := s.storage.Get(tokenKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("token read failed", zap.Error(err))
		}
		return "", false
	}
	return token, true
}

// SetToken persists the token and notifies subscribers. No validation is
// applied here; a malformed token is simply treated as expired on the next
// check.
func (s *Store) SetToken(token string) {
	if err := s.storage.Set(tokenKey, token); err != nil {
		s.logger.Warn("token write failed", zap.Error(err))
	}
	s.notifyAuthChange()
}

// GetUserData returns the persisted user record, or false if nothing is
// stored or the stored value does not parse.
func (s *Store) GetUserData() (*domain.UserRecord, bool) {
	raw, err := s.storage.Get(userKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("user record read failed", zap.Error(err))
		}
		return nil, false
	}

	var user domain.UserRecord
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("user record unparseable, treating as absent", zap.Error(err))
		return nil, false
	}
	return &user, true
}

// SetUserData persists the record and notifies subscribers.
func (s *Store) SetUserData(user domain.UserRecord) {
	raw, err := json.Marshal(user)
	if err != nil {
		s.logger.Warn("user record encode failed", zap.Error(err))
	} else if err := s.storage.Set(userKey, string(raw)); err != nil {
		s.logger.Warn("user record write failed", zap.Error(err))
	}
	s.notifyAuthChange()
}

// IsTokenExpired reports whether the token is unusable: absent, undecodable,
// missing a numeric exp claim, or past its expiry. Decode failures fail
// closed.
func (s *Store) IsTokenExpired(token string) bool {
	if token == "" {
		return true
	}
	exp, err := tokenExpiry(token)
	if err != nil {
		s.logger.Debug("treating token as expired", zap.Error(err))
		return true
	}
	return !exp.After(s.now())
}

// IsAuthenticated reports whether a token is present and not expired.
func (s *Store) IsAuthenticated() bool {
	token, ok := s.GetToken()
	return ok && !s.IsTokenExpired(token)
}

// ClearAuthData removes the token and user record, then notifies
// subscribers. Idempotent.
func (s *Store) ClearAuthData() {
	if err := s.storage.Remove(tokenKey); err != nil {
		s.logger.Warn("token remove failed", zap.Error(err))
	}
	if err := s.storage.Remove(userKey); err != nil {
		s.logger.Warn("user record remove failed", zap.Error(err))
	}
	s.notifyAuthChange()
}

// Subscribe registers a listener for future auth changes and returns a
// closure that removes exactly that listener.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, entry := range s.listeners {
			if entry.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// AuthState returns the current derived state. Pure read, safe to call from
// inside a listener.
func (s *Store) AuthState() domain.AuthState {
	token, ok := s.GetToken()
	user, _ := s.GetUserData()
	return domain.AuthState{
		IsAuthenticated: ok && !s.IsTokenExpired(token),
		User:            user,
		Token:           token,
	}
}

// notifyAuthChange delivers the fresh state to a snapshot of the listener
// set, in registration order. A listener panicking is logged and does not
// stop delivery to the rest; listeners added or removed mid-pass do not
// affect the in-progress pass.
func (s *Store) notifyAuthChange() {
	s.mu.Lock()
	snapshot := append([]listenerEntry(nil), s.listeners...)
	s.mu.Unlock()

	state := s.AuthState()
	for _, entry := range snapshot {
		s.invoke(entry, state)
	}
}

func (s *Store) invoke(entry listenerEntry, state domain.AuthState) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("auth listener panicked",
				zap.Int64("listener_id", entry.id),
				zap.Any("panic", r))
		}
	}()
	entry.fn(state)
}
