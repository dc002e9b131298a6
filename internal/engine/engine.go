package engine

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pocketorg/organizer/internal/blob"
	"github.com/pocketorg/organizer/internal/logging"
	"github.com/pocketorg/organizer/internal/model"
	"github.com/pocketorg/organizer/internal/remote"
)

// Config carries the engine's dependencies. Blobs is required; everything
// else has a working default (offline remote, system clock, slog to stderr).
type Config struct {
	Blobs  blob.Store
	Remote remote.Remote
	Clock  Clock
	Logger logging.Logger

	// SyncInterval is the periodic sync cadence while online and
	// authenticated. Defaults to 60s.
	SyncInterval time.Duration

	// PingInterval is the reachability probe cadence driving the
	// offline→online sync trigger. Defaults to 15s.
	PingInterval time.Duration
}

// Engine is the storage-and-sync core: the normalized local store, the
// durable outbox, the LWW resolver, the trash/archive lifecycle and the sync
// coordinator, all behind one instance constructed with explicit
// dependencies and an explicit Start/Stop lifecycle.
type Engine struct {
	blobs  blob.Store
	remote remote.Remote
	clock  Clock
	log    logging.Logger
	bus    *Bus

	syncInterval time.Duration
	pingInterval time.Duration

	// mu guards the in-memory copies of the three persisted values. Every
	// mutation is read-modify-persist under this lock; persistence writes
	// whole blobs, never partial records.
	mu    sync.Mutex
	snap  *model.Snapshot
	meta  model.Metadata
	queue []model.QueueRecord
	guest bool

	// syncMu guards the in-progress flag, the engine's only concurrency
	// control for SyncNow. Local mutations interleave freely with a running
	// sync.
	syncMu  sync.Mutex
	syncing bool

	lifeMu sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Open loads persisted state, sweeps expired trash, runs the one-shot legacy
// migration, and registers the auth-change sync trigger. Corrupt or missing
// blobs load as defaults; Open fails only on a nil blob store.
func Open(ctx context.Context, cfg Config) (*Engine, error) {
	if cfg.Blobs == nil {
		return nil, errors.New("engine: blob store is required")
	}
	if cfg.Remote == nil {
		cfg.Remote = remote.NewOffline()
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = 60 * time.Second
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 15 * time.Second
	}

	e := &Engine{
		blobs:        cfg.Blobs,
		remote:       cfg.Remote,
		clock:        cfg.Clock,
		log:          cfg.Logger,
		syncInterval: cfg.SyncInterval,
		pingInterval: cfg.PingInterval,
	}
	e.bus = NewBus(e.log)

	e.snap = model.NewSnapshot()
	loadJSON(ctx, e, blob.SlotDB, e.snap)
	e.snap.Normalize()

	e.meta = model.Metadata{SchemaVersion: model.SchemaVersion}
	loadJSON(ctx, e, blob.SlotMeta, &e.meta)
	if e.meta.SchemaVersion == 0 {
		e.meta.SchemaVersion = model.SchemaVersion
	}
	e.guest = e.meta.UserID == ""

	loadJSON(ctx, e, blob.SlotQueue, &e.queue)

	e.SweepTrash(ctx)
	e.migrateLegacy(ctx)

	e.remote.OnAuthStateChange(func(s *remote.Session) {
		if s == nil {
			return
		}
		go e.SyncNow(context.Background())
	})

	return e, nil
}

// Start launches the background sync triggers: the reachability watcher and
// the periodic sync ticker. Safe to call once; further calls are no-ops
// until Stop.
func (e *Engine) Start(ctx context.Context) {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()
	if e.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.done = make(chan struct{})
	go e.run(runCtx)
}

// Stop cancels the background triggers and waits for them to exit.
func (e *Engine) Stop() {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()
	if e.cancel == nil {
		return
	}
	e.cancel()
	<-e.done
	e.cancel = nil
	e.done = nil
}

func (e *Engine) run(ctx context.Context) {
	defer close(e.done)

	syncTicker := time.NewTicker(e.syncInterval)
	defer syncTicker.Stop()
	pingTicker := time.NewTicker(e.pingInterval)
	defer pingTicker.Stop()

	online := e.remote.Ping(ctx) == nil
	if online {
		e.SyncNow(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-pingTicker.C:
			reachable := e.remote.Ping(ctx) == nil
			if reachable && !online {
				e.log.Info(ctx, "server reachable again, syncing")
				e.SyncNow(ctx)
			}
			online = reachable
		case <-syncTicker.C:
			if online {
				e.SyncNow(ctx)
			}
		}
	}
}

// Subscribe registers a change-notification callback for topic.
func (e *Engine) Subscribe(topic Topic, fn func(Event)) {
	e.bus.Subscribe(topic, fn)
}

// Meta returns a copy of the persisted engine metadata.
func (e *Engine) Meta() model.Metadata {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.meta
}

// PendingOps reports the outbox depth.
func (e *Engine) PendingOps() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// GuestMode reports whether the local data is still unattributed to an
// authenticated identity.
func (e *Engine) GuestMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.guest
}

func (e *Engine) nowMillis() int64 {
	return e.clock.Now().UnixMilli()
}

// loadJSON fills out from the blob stored under key. A missing key leaves
// the default in place; a corrupt blob is logged and also yields the
// default, so a damaged slot can never block initialization.
func loadJSON[T any](ctx context.Context, e *Engine, key string, out *T) {
	data, err := e.blobs.Load(ctx, key)
	if err != nil {
		e.log.Warn(ctx, "failed to load blob, using defaults", "key", key, "error", err)
		return
	}
	if len(data) == 0 {
		return
	}
	var decoded T
	if err := json.Unmarshal(data, &decoded); err != nil {
		e.log.Warn(ctx, "corrupt blob, using defaults", "key", key, "error", err)
		return
	}
	*out = decoded
}

// persistLocked serializes v into the given slot. Persistence failures are
// logged and swallowed: in-memory state runs ahead of disk until the next
// successful save. Callers hold e.mu.
func (e *Engine) persistLocked(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		e.log.Error(ctx, "failed to serialize blob", "key", key, "error", err)
		return
	}
	if err := e.blobs.Save(ctx, key, data); err != nil {
		e.log.Warn(ctx, "failed to persist blob", "key", key, "error", err)
	}
}

func (e *Engine) persistDBLocked(ctx context.Context)    { e.persistLocked(ctx, blob.SlotDB, e.snap) }
func (e *Engine) persistMetaLocked(ctx context.Context)  { e.persistLocked(ctx, blob.SlotMeta, e.meta) }
func (e *Engine) persistQueueLocked(ctx context.Context) { e.persistLocked(ctx, blob.SlotQueue, e.queue) }

// enqueueLocked appends an outbox record and persists the queue. Callers
// hold e.mu.
func (e *Engine) enqueueLocked(ctx context.Context, op model.Op, entity model.Entity, data *model.Record, key string) {
	e.queue = append(e.queue, model.QueueRecord{
		ID:     uuid.NewString(),
		Op:     op,
		Entity: entity,
		Data:   data,
		Key:    key,
		TS:     e.nowMillis(),
	})
	e.persistQueueLocked(ctx)
}

// notify publishes the domain-grouped change notification for entity.
func (e *Engine) notify(ctx context.Context, entity model.Entity) {
	topic := TopicListUpdated
	if entity == model.EntityDates {
		topic = TopicDatesUpdated
	}
	e.bus.Publish(ctx, Event{Topic: topic, Entity: entity})
}
