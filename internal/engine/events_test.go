package engine

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pocketorg/organizer/internal/logging"
	"github.com/pocketorg/organizer/internal/model"
)

func newTestBus() *Bus {
	return NewBus(logging.NewSlogLogger(slog.Default()))
}

func TestBus(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to topic subscribers only", func(t *testing.T) {
		bus := newTestBus()

		var lists, dates int
		bus.Subscribe(TopicListUpdated, func(Event) { lists++ })
		bus.Subscribe(TopicDatesUpdated, func(Event) { dates++ })

		bus.Publish(ctx, Event{Topic: TopicListUpdated, Entity: model.EntityTasks})
		bus.Publish(ctx, Event{Topic: TopicListUpdated, Entity: model.EntityChecklists})

		assert.Equal(t, 2, lists)
		assert.Equal(t, 0, dates)
	})

	t.Run("multiple subscribers all fire", func(t *testing.T) {
		bus := newTestBus()

		var a, b bool
		bus.Subscribe(TopicStorageSynced, func(Event) { a = true })
		bus.Subscribe(TopicStorageSynced, func(Event) { b = true })

		bus.Publish(ctx, Event{Topic: TopicStorageSynced})
		assert.True(t, a)
		assert.True(t, b)
	})

	t.Run("publish without subscribers is safe", func(t *testing.T) {
		newTestBus().Publish(ctx, Event{Topic: TopicListUpdated})
	})

	t.Run("panicking subscriber does not block others", func(t *testing.T) {
		bus := newTestBus()

		delivered := false
		bus.Subscribe(TopicStorageSynced, func(Event) { panic("bad subscriber") })
		bus.Subscribe(TopicStorageSynced, func(Event) { delivered = true })

		bus.Publish(ctx, Event{Topic: TopicStorageSynced})
		assert.True(t, delivered)
	})
}
