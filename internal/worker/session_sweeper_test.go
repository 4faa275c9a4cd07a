package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/srw-platform/portal/internal/authstore"
	"github.com/srw-platform/portal/internal/events"
	"github.com/srw-platform/portal/internal/observability"
	"github.com/srw-platform/portal/internal/registry"
	"github.com/srw-platform/portal/internal/storage"
)

func TestSweeperPublishesExpiryEvents(t *testing.T) {
	reg := registry.New(func(string) *authstore.Store {
		return authstore.New(storage.NewMemory(), zap.NewNop())
	}, time.Hour)

	claims := jwt.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	reg.Resolve("sid-1").SetToken(expired)

	dispatcher := events.NewInMemoryDispatcher()
	var mu sync.Mutex
	var seen []string
	dispatcher.Subscribe(events.EventSessionExpired, func(_ context.Context, e events.Event) error {
		mu.Lock()
		seen = append(seen, e.SessionID)
		mu.Unlock()
		return nil
	})

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	sweeper := NewSessionSweeper(reg, dispatcher, metrics, zap.NewNop(), 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "sid-1", seen[0])
	_, ok := reg.Resolve("sid-1").GetToken()
	assert.False(t, ok, "expired session's store was cleared")
}
