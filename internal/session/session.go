// Package session bridges the auth store's imperative state into a
// per-consumer reactive view and orchestrates logout against the remote
// API.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srw-platform/portal/internal/authstore"
	"github.com/srw-platform/portal/internal/domain"
	"github.com/srw-platform/portal/internal/events"
)

// Terminator invalidates the session server-side. *srwapi.Client satisfies
// it.
type Terminator interface {
	TerminateSession(ctx context.Context, token string) error
}

// Navigator redirects the user agent to a portal path.
type Navigator interface {
	Navigate(path string)
}

// Notifier surfaces a transient informational notice to the user.
type Notifier interface {
	Notify(message string)
}

// Notice texts shown after logout. Remote failure only changes the wording;
// the local outcome is identical.
const (
	NoticeLoggedOut        = "logged out successfully"
	NoticeLoggedOutLocally = "logged out locally"
)

// Manager produces Session instances bound to one auth store.
type Manager struct {
	store      *authstore.Store
	api        Terminator
	dispatcher events.Dispatcher
	logger     *zap.Logger
	loginRoute string
	sessionID  string
}

// NewManager builds a session manager for one portal browser session.
func NewManager(store *authstore.Store, api Terminator, dispatcher events.Dispatcher, logger *zap.Logger, loginRoute, sessionID string) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:      store,
		api:        api,
		dispatcher: dispatcher,
		logger:     logger,
		loginRoute: loginRoute,
		sessionID:  sessionID,
	}
}

// Store exposes the underlying auth store for direct reads.
func (m *Manager) Store() *authstore.Store {
	return m.store
}

// Session is one consumer's reactive view of the auth state. It subscribes
// to the store exactly once at construction and keeps its snapshot current
// until Close.
type Session struct {
	mgr *Manager
	nav Navigator
	ntf Notifier

	mu    sync.Mutex
	state domain.AuthState

	loggingOut  atomic.Bool
	unsubscribe func()
	closeOnce   sync.Once
}

// NewSession captures the current auth state and subscribes for updates.
func (m *Manager) NewSession(nav Navigator, ntf Notifier) *Session {
	s := &Session{mgr: m, nav: nav, ntf: ntf, state: m.store.AuthState()}
	s.unsubscribe = m.store.Subscribe(func(state domain.AuthState) {
		s.mu.Lock()
		s.state = state
		s.mu.Unlock()
	})
	return s
}

// Close releases the store subscription. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(s.unsubscribe)
}

// State returns the snapshot from the most recent notification (or from
// construction time if nothing changed since).
func (s *Session) State() domain.AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsLoggingOut reports whether a logout is in flight on this session.
func (s *Session) IsLoggingOut() bool {
	return s.loggingOut.Load()
}

// Logout terminates the session. The remote call may fail; local state is
// cleared and the user redirected regardless, with only the notice wording
// reflecting the difference. A second call while one is in flight is a
// no-op. Returns true if this call performed the logout.
func (s *Session) Logout(ctx context.Context, showNotice bool, redirectTo string) bool {
	if !s.loggingOut.CompareAndSwap(false, true) {
		return false
	}
	if redirectTo == "" {
		redirectTo = s.mgr.loginRoute
	}

	user, _ := s.mgr.store.GetUserData()

	var remoteErr error
	defer func() {
		s.mgr.store.ClearAuthData()
		s.loggingOut.Store(false)
		s.publishLogout(ctx, user, remoteErr == nil, redirectTo)
		s.nav.Navigate(redirectTo)
	}()

	token, _ := s.mgr.store.GetToken()
	remoteErr = s.mgr.api.TerminateSession(ctx, token)
	if remoteErr != nil {
		s.mgr.logger.Warn("remote logout failed, clearing locally", zap.Error(remoteErr))
	}

	if showNotice && s.ntf != nil {
		if remoteErr != nil {
			s.ntf.Notify(NoticeLoggedOutLocally)
		} else {
			s.ntf.Notify(NoticeLoggedOut)
		}
	}
	return true
}

func (s *Session) publishLogout(ctx context.Context, user *domain.UserRecord, remoteOK bool, redirectTo string) {
	if s.mgr.dispatcher == nil {
		return
	}
	payload := events.LoggedOutPayload{RemoteOK: remoteOK, RedirectTo: redirectTo}
	if user != nil {
		payload.UserID = user.ID
	}
	_ = s.mgr.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserLoggedOut,
		SessionID: s.mgr.sessionID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
