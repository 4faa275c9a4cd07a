package authstore

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/srw-platform/portal/internal/domain"
	"github.com/srw-platform/portal/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(storage.NewMemory(), zap.NewNop())
}

// signedToken builds a real HS256 token whose claims contain the given exp
// offset from now. The store never verifies signatures, so the key is
// arbitrary.
func signedToken(t *testing.T, expIn time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{"exp": time.Now().Add(expIn).Unix(), "sub": "user-1"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func tokenWithoutExp(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestIsTokenExpired(t *testing.T) {
	s := newTestStore(t)

	t.Run("absent token is expired", func(t *testing.T) {
		assert.True(t, s.IsTokenExpired(""))
	})

	t.Run("garbage token is expired", func(t *testing.T) {
		assert.True(t, s.IsTokenExpired("not-a-token"))
		assert.True(t, s.IsTokenExpired("a.b.c"))
	})

	t.Run("token without exp is expired", func(t *testing.T) {
		assert.True(t, s.IsTokenExpired(tokenWithoutExp(t)))
	})

	t.Run("future exp is not expired", func(t *testing.T) {
		assert.False(t, s.IsTokenExpired(signedToken(t, time.Hour)))
	})

	t.Run("past exp is expired", func(t *testing.T) {
		assert.True(t, s.IsTokenExpired(signedToken(t, -time.Hour)))
	})

	t.Run("exp equal to now is expired", func(t *testing.T) {
		token := signedToken(t, time.Hour)
		exp, err := tokenExpiry(token)
		require.NoError(t, err)
		s.now = func() time.Time { return exp }
		defer func() { s.now = time.Now }()
		assert.True(t, s.IsTokenExpired(token))
	})
}

func TestIsAuthenticated(t *testing.T) {
	t.Run("false without token even with user record", func(t *testing.T) {
		s := newTestStore(t)
		s.SetUserData(domain.UserRecord{ID: "u1", Role: domain.RoleCustomer})
		assert.False(t, s.IsAuthenticated())
	})

	t.Run("true with valid token and no user record", func(t *testing.T) {
		s := newTestStore(t)
		s.SetToken(signedToken(t, time.Hour))
		assert.True(t, s.IsAuthenticated())
		_, ok := s.GetUserData()
		assert.False(t, ok)
	})

	t.Run("false once token expires", func(t *testing.T) {
		s := newTestStore(t)
		s.SetToken(signedToken(t, -time.Minute))
		assert.False(t, s.IsAuthenticated())
	})
}

func TestClearAuthData(t *testing.T) {
	s := newTestStore(t)
	s.SetToken(signedToken(t, time.Hour))
	s.SetUserData(domain.UserRecord{ID: "u1", Name: "Dana", Role: domain.RoleOwner})

	s.ClearAuthData()

	_, ok := s.GetToken()
	assert.False(t, ok)
	_, ok = s.GetUserData()
	assert.False(t, ok)
	assert.False(t, s.IsAuthenticated())

	// Clearing again is a harmless no-op.
	s.ClearAuthData()
	assert.False(t, s.IsAuthenticated())
}

func TestUserRecordRoundTrip(t *testing.T) {
	s := newTestStore(t)
	record := domain.UserRecord{
		ID:        "u1",
		Name:      "Dana",
		Email:     "dana@example.com",
		Role:      domain.RoleEmployee,
		Status:    domain.UserStatusActive,
		TimeStamp: time.Now().UnixMilli(),
		ExpiresIn: int64(time.Hour / time.Millisecond),
	}
	s.SetUserData(record)

	got, ok := s.GetUserData()
	require.True(t, ok)
	assert.Equal(t, record, *got)
}

func TestCorruptUserRecordIsAbsent(t *testing.T) {
	st := storage.NewMemory()
	require.NoError(t, st.Set(userKey, "{not json"))
	s := New(st, zap.NewNop())

	_, ok := s.GetUserData()
	assert.False(t, ok)
}

func TestSubscribeUnsubscribe(t *testing.T) {
	s := newTestStore(t)

	var calls int
	unsubscribe := s.Subscribe(func(domain.AuthState) { calls++ })
	unsubscribe()

	s.SetToken(signedToken(t, time.Hour))
	assert.Zero(t, calls, "unsubscribed listener must never fire")
}

func TestUnsubscribeRemovesOnlyItself(t *testing.T) {
	s := newTestStore(t)

	var first, second int
	u1 := s.Subscribe(func(domain.AuthState) { first++ })
	s.Subscribe(func(domain.AuthState) { second++ })

	u1()
	s.SetToken(signedToken(t, time.Hour))

	assert.Zero(t, first)
	assert.Equal(t, 1, second)

	// Unsubscribing twice is harmless.
	u1()
	s.ClearAuthData()
	assert.Equal(t, 2, second)
}

func TestNotificationOrderAndSnapshots(t *testing.T) {
	s := newTestStore(t)
	token := signedToken(t, time.Hour)

	var states []domain.AuthState
	var order []string
	s.Subscribe(func(st domain.AuthState) {
		order = append(order, "a")
		states = append(states, st)
	})
	s.Subscribe(func(domain.AuthState) { order = append(order, "b") })

	s.SetToken(token)
	s.SetUserData(domain.UserRecord{ID: "u1", Role: domain.RoleCustomer})

	// Two mutations, two passes, registration order within each.
	assert.Equal(t, []string{"a", "b", "a", "b"}, order)

	require.Len(t, states, 2)
	assert.True(t, states[0].IsAuthenticated)
	assert.Nil(t, states[0].User, "first pass sees token but no user record yet")
	assert.Equal(t, token, states[0].Token)
	require.NotNil(t, states[1].User)
	assert.Equal(t, "u1", states[1].User.ID)
}

func TestPanickingListenerIsIsolated(t *testing.T) {
	s := newTestStore(t)

	var reached bool
	s.Subscribe(func(domain.AuthState) { panic("boom") })
	s.Subscribe(func(domain.AuthState) { reached = true })

	assert.NotPanics(t, func() { s.SetToken(signedToken(t, time.Hour)) })
	assert.True(t, reached, "listener after the panicking one must still run")
}

func TestListenerChangesDuringPassDoNotAffectIt(t *testing.T) {
	s := newTestStore(t)

	var lateCalls int
	var unsubscribeB func()
	var bCalls int

	s.Subscribe(func(domain.AuthState) {
		// Mutating the listener set mid-pass affects future passes only.
		s.Subscribe(func(domain.AuthState) { lateCalls++ })
		unsubscribeB()
	})
	unsubscribeB = s.Subscribe(func(domain.AuthState) { bCalls++ })

	s.SetToken(signedToken(t, time.Hour))
	assert.Zero(t, lateCalls, "listener added during pass must not fire in it")
	assert.Equal(t, 1, bCalls, "listener removed during pass still gets this pass")
}

func TestMalformedTokenAcceptedThenTreatedExpired(t *testing.T) {
	s := newTestStore(t)
	s.SetToken("garbage")

	token, ok := s.GetToken()
	require.True(t, ok)
	assert.Equal(t, "garbage", token)
	assert.False(t, s.IsAuthenticated())
}

func TestAuthStateSnapshot(t *testing.T) {
	s := newTestStore(t)
	token := signedToken(t, time.Hour)
	s.SetToken(token)
	s.SetUserData(domain.UserRecord{ID: "u1", Role: domain.RoleOwner})

	state := s.AuthState()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, token, state.Token)
	require.NotNil(t, state.User)
	assert.Equal(t, domain.RoleOwner, state.User.Role)
}
