package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishReachesSubscribersByType(t *testing.T) {
	d := NewInMemoryDispatcher()

	var logins, logouts int
	d.Subscribe(EventUserLoggedIn, func(context.Context, Event) error {
		logins++
		return nil
	})
	d.Subscribe(EventUserLoggedOut, func(context.Context, Event) error {
		logouts++
		return nil
	})

	_ = d.Publish(context.Background(), Event{Type: EventUserLoggedIn})
	_ = d.Publish(context.Background(), Event{Type: EventUserLoggedIn})

	assert.Equal(t, 2, logins)
	assert.Zero(t, logouts)
}

func TestFailingHandlerDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var reached bool
	d.Subscribe(EventSessionExpired, func(context.Context, Event) error {
		return errors.New("handler failed")
	})
	d.Subscribe(EventSessionExpired, func(context.Context, Event) error {
		reached = true
		return nil
	})

	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventSessionExpired}))
	assert.True(t, reached)
}
