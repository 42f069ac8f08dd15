// internal/coordinator/coordinator.go
package coordinator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/tamzrod/heliobridge/internal/catalog"
	"github.com/tamzrod/heliobridge/internal/codec"
)

var (
	// ErrWriteDisabled reports a write attempt while the coordinator
	// runs in read-only mode. The device is never touched.
	ErrWriteDisabled = errors.New("coordinator: writes disabled")

	// ErrReadOnlyRegister reports a write attempt on a read-only entry.
	ErrReadOnlyRegister = errors.New("coordinator: register is read-only")
)

// Session abstracts the device link the coordinator drives.
// The coordinator depends on word geometry only.
type Session interface {
	ReadWords(ctx context.Context, addr, count uint16) ([]uint16, error)
	WriteWords(ctx context.Context, addr uint16, words []uint16) error
}

// EventKind tags a subscriber notification.
type EventKind uint8

const (
	// EventUpdated carries a freshly published snapshot.
	EventUpdated EventKind = iota
	// EventDegraded reports a failed poll cycle; cached values are
	// still being served.
	EventDegraded
	// EventOffline fires once when the consecutive-failure threshold
	// is crossed, distinguishing a sustained outage from a blip.
	EventOffline
)

// Event is delivered to subscribers. All subscribers for one
// publication observe the same Snapshot instance.
type Event struct {
	Kind     EventKind
	Snapshot *Snapshot
	Err      error
}

// Listener receives events in publication order.
type Listener func(Event)

// Config is the coordinator runtime configuration.
type Config struct {
	ScanInterval     time.Duration
	FailureThreshold int
	ReadOnly         bool
}

// Coordinator owns the device session and the published snapshot. All
// device traffic (poll cycles and writes) is serialized through a
// capacity-one region; snapshot readers never block on it.
type Coordinator struct {
	cfg     Config
	cat     *catalog.Catalog
	session Session
	logger  zerolog.Logger
	blocks  []readBlock

	// sem serializes device access. A channel rather than a mutex so
	// acquisition can be abandoned on context cancellation.
	sem chan struct{}

	snap atomic.Pointer[Snapshot]

	// state below is guarded by sem.
	seq      uint64
	failures int

	notifyMu  sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// New creates a coordinator with an immutable catalog and plan.
func New(cfg Config, cat *catalog.Catalog, session Session, logger zerolog.Logger) (*Coordinator, error) {
	if cfg.ScanInterval <= 0 {
		return nil, errors.New("coordinator: scan interval must be > 0")
	}
	if cfg.FailureThreshold <= 0 {
		return nil, errors.New("coordinator: failure threshold must be > 0")
	}
	if session == nil {
		return nil, errors.New("coordinator: session required")
	}

	c := &Coordinator{
		cfg:       cfg,
		cat:       cat,
		session:   session,
		logger:    logger.With().Str("component", "coordinator").Logger(),
		blocks:    planBlocks(cat),
		sem:       make(chan struct{}, 1),
		listeners: make(map[int]Listener),
	}
	c.snap.Store(&Snapshot{State: Disconnected, values: map[string]codec.Value{}})
	return c, nil
}

// Snapshot returns the last published snapshot. Never blocks.
func (c *Coordinator) Snapshot() *Snapshot {
	return c.snap.Load()
}

// Subscribe registers a listener and returns its cancel function.
// Listeners are invoked synchronously with publication, so delivery
// order matches publication order.
func (c *Coordinator) Subscribe(fn Listener) (cancel func()) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.notifyMu.Lock()
		defer c.notifyMu.Unlock()
		delete(c.listeners, id)
	}
}

// Refresh runs one on-demand poll cycle. The error mirrors what
// subscribers were notified of; cached values survive a failure.
func (c *Coordinator) Refresh(ctx context.Context) error {
	if err := c.acquire(ctx); err != nil {
		return err
	}
	defer c.release()

	return c.pollLocked(ctx)
}

// Write validates, encodes, and writes one register, then refreshes so
// the next observed snapshot reflects the write. Policy and range
// rejections happen before any device traffic.
func (c *Coordinator) Write(ctx context.Context, key string, v codec.Value) error {
	if c.cfg.ReadOnly {
		return errors.Wrapf(ErrWriteDisabled, "write %s", key)
	}

	d, ok := c.cat.Lookup(key)
	if !ok {
		return errors.Wrapf(catalog.ErrUnknownKey, "write %s", key)
	}
	if d.Access != catalog.ReadWrite {
		return errors.Wrapf(ErrReadOnlyRegister, "write %s", key)
	}

	words, err := codec.Encode(v, d)
	if err != nil {
		return err
	}

	if err := c.acquire(ctx); err != nil {
		return err
	}
	defer c.release()

	if err := c.session.WriteWords(ctx, d.Addr, words); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("write failed")
		return err
	}

	c.logger.Info().Str("key", key).Float64("value", v.Float64()).Msg("register written")

	// The write succeeded; a refresh failure surfaces through events.
	if err := c.pollLocked(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("post-write refresh failed")
	}
	return nil
}

func (c *Coordinator) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case c.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) release() {
	<-c.sem
}

// pollLocked runs one full-catalog cycle. All-or-nothing: any failed
// read aborts the cycle and the previous snapshot's values survive.
func (c *Coordinator) pollLocked(ctx context.Context) error {
	values := make(map[string]codec.Value, c.cat.Len())

	for _, b := range c.blocks {
		words, err := c.session.ReadWords(ctx, b.start, b.count)
		if err != nil {
			c.failLocked(err)
			return err
		}

		for _, key := range b.keys {
			d, _ := c.cat.Lookup(key)
			v, err := codec.Decode(words[d.Addr-b.start:d.Addr-b.start+d.Words()], d)
			if err != nil {
				c.failLocked(err)
				return err
			}
			values[key] = v
		}
	}

	c.seq++
	snap := &Snapshot{
		Seq:    c.seq,
		Taken:  time.Now(),
		State:  Connected,
		values: values,
	}
	c.snap.Store(snap)
	c.failures = 0

	c.logger.Debug().Uint64("seq", snap.Seq).Int("values", snap.Len()).Msg("snapshot published")
	c.publish(Event{Kind: EventUpdated, Snapshot: snap})
	return nil
}

// failLocked marks the cycle failed: cached values are kept, the state
// turns Degraded, and the threshold crossing fires exactly once.
// Degraded means stale-but-valid data is still served, so before the
// first successful cycle the state stays Disconnected.
func (c *Coordinator) failLocked(err error) {
	prev := c.snap.Load()
	state := Degraded
	if prev.Seq == 0 {
		state = Disconnected
	}
	degraded := prev.withState(state)
	c.snap.Store(degraded)
	c.failures++

	c.logger.Warn().Err(err).Int("consecutive", c.failures).Msg("poll cycle failed")
	c.publish(Event{Kind: EventDegraded, Snapshot: degraded, Err: err})

	if c.failures == c.cfg.FailureThreshold {
		c.logger.Error().Err(err).Msg("failure threshold crossed, device considered offline")
		c.publish(Event{Kind: EventOffline, Snapshot: degraded, Err: err})
	}
}

func (c *Coordinator) publish(ev Event) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	for _, fn := range c.listeners {
		fn(ev)
	}
}
