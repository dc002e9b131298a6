package engine

import (
	"context"
	"sync"

	"github.com/pocketorg/organizer/internal/logging"
	"github.com/pocketorg/organizer/internal/model"
)

// Topic names a change-notification channel consumed by UI collaborators.
type Topic string

const (
	TopicStorageSynced Topic = "storage:synced"
	TopicListUpdated   Topic = "list:updated"
	TopicDatesUpdated  Topic = "dates:updated"
)

// Event is a fire-and-forget change notification. Entity is set when a
// single collection changed, empty for store-wide events.
type Event struct {
	Topic  Topic
	Entity model.Entity
}

// Bus is a minimal in-process publish/subscribe dispatcher. Publishing never
// fails and never propagates a subscriber panic to the publisher: misbehaving
// subscribers are isolated and logged here.
type Bus struct {
	log logging.Logger

	mu   sync.RWMutex
	subs map[Topic][]func(Event)
}

func NewBus(log logging.Logger) *Bus {
	return &Bus{log: log, subs: make(map[Topic][]func(Event))}
}

// Subscribe registers fn for all events published on topic. There is no
// unsubscribe; subscribers live as long as the engine.
func (b *Bus) Subscribe(topic Topic, fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], fn)
}

// Publish delivers ev to every subscriber of its topic, synchronously.
func (b *Bus) Publish(ctx context.Context, ev Event) {
	b.mu.RLock()
	subs := append(([]func(Event))(nil), b.subs[ev.Topic]...)
	b.mu.RUnlock()

	for _, fn := range subs {
		b.dispatch(ctx, ev, fn)
	}
}

func (b *Bus) dispatch(ctx context.Context, ev Event, fn func(Event)) {
	defer func() {
		if p := recover(); p != nil {
			b.log.Error(ctx, "event subscriber panicked", "topic", ev.Topic, "panic", p)
		}
	}()
	fn(ev)
}
