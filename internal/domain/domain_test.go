package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"CUSTOMER", "OWNER", "EMPLOYEE"} {
		role, err := ParseRole(raw)
		require.NoError(t, err)
		assert.True(t, role.Valid())
	}

	for _, raw := range []string{"", "customer", "ADMIN"} {
		_, err := ParseRole(raw)
		assert.Error(t, err, raw)
	}
}

func TestSessionRemaining(t *testing.T) {
	now := time.Now()

	t.Run("mid-session", func(t *testing.T) {
		u := UserRecord{
			TimeStamp: now.Add(-30 * time.Minute).UnixMilli(),
			ExpiresIn: int64(time.Hour / time.Millisecond),
		}
		remaining := u.SessionRemaining(now)
		assert.InDelta(t, (30 * time.Minute).Seconds(), remaining.Seconds(), 1)
	})

	t.Run("lapsed session clamps to zero", func(t *testing.T) {
		u := UserRecord{
			TimeStamp: now.Add(-2 * time.Hour).UnixMilli(),
			ExpiresIn: int64(time.Hour / time.Millisecond),
		}
		assert.Zero(t, u.SessionRemaining(now))
	})

	t.Run("missing bookkeeping yields zero", func(t *testing.T) {
		assert.Zero(t, UserRecord{}.SessionRemaining(now))
	})
}
