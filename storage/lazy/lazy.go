// Package lazy keeps the in-memory deck registry and the durable deck store in
// step. Reads are served from memory; the disk is only touched on hydrate and
// when a mutation actually changed something.
package lazy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"git.sr.ht/~jackmordaunt/decks"
	"git.sr.ht/~jackmordaunt/decks/storage"
)

// DefaultWriteTimeout bounds a single durable write.
const DefaultWriteTimeout = 5 * time.Second

// Disk is the durable side of the controller.
type Disk interface {
	ReadAll(ctx context.Context) ([]decks.Deck, bool, error)
	WriteAll(ctx context.Context, list []decks.Deck) error
	RemoveKey(ctx context.Context) error
}

var _ Disk = (*storage.Decks)(nil)

// Controller applies every mutation to the registry synchronously and then
// mirrors the result to disk in the background.
//
// Durable failures never reach the caller: they are reported to the Hook and
// the log, and the registry keeps the intended end state.
type Controller struct {
	Cache *decks.Registry
	Disk  Disk

	// mu serializes mutations so snapshots reach the writer in the order the
	// registry changed.
	mu      sync.Mutex
	hook    Hook
	log     *zap.Logger
	timeout time.Duration
	w       *writer
}

// Option configures a Controller.
type Option func(*Controller)

// WithRegistry uses r as the in-memory side instead of a fresh registry.
func WithRegistry(r *decks.Registry) Option {
	return func(c *Controller) { c.Cache = r }
}

// WithHook reports durable outcomes to h.
func WithHook(h Hook) Option {
	return func(c *Controller) { c.hook = h }
}

// WithLogger logs durable outcomes to l.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithWriteTimeout bounds each durable write.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// New starts a controller over disk. Close stops its background writer.
func New(disk Disk, opts ...Option) *Controller {
	c := &Controller{
		Disk:    disk,
		hook:    NopHook{},
		log:     zap.NewNop(),
		timeout: DefaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Cache == nil {
		c.Cache = decks.NewRegistry()
	}
	if c.hook == nil {
		c.hook = NopHook{}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.timeout <= 0 {
		c.timeout = DefaultWriteTimeout
	}
	if s, ok := disk.(*storage.Decks); ok && s.OnDecodeError == nil {
		s.OnDecodeError = c.decodeFailed
	}
	c.w = newWriter(c.apply)
	go c.w.loop()
	return c
}

// Hydrate replaces the registry with the persisted collection.
//
// Absent data leaves an empty registry. Calling it again fully overwrites the
// registry; nothing is merged. Writes still queued are flushed first so the
// read observes them. Mutations issued while hydrating wait for it.
func (c *Controller) Hydrate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.Flush(ctx); err != nil {
		return fmt.Errorf("flushing pending writes: %w", err)
	}
	list, ok, err := c.Disk.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading decks from disk: %w", err)
	}
	if !ok {
		list = nil
	}
	c.Cache.LoadAll(list)
	c.hook.Size(c.Cache.Len())
	c.log.Debug("hydrated decks", zap.Int("count", len(list)), zap.Bool("persisted", ok))
	return nil
}

// Add appends a newly built deck and mirrors it to disk.
func (c *Controller) Add(d decks.Deck) (decks.Deck, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, err := c.Cache.Append(d)
	if err != nil {
		return d, err
	}
	c.persist()
	return d, nil
}

// Remove the first deck named d.Name.
// A deck that no longer exists is a no-op and does not touch the disk.
func (c *Controller) Remove(d decks.Deck) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.Cache.Remove(d.Name); !ok {
		return false
	}
	c.persist()
	return true
}

// Update renames the first deck named d.Name to newName, keeping its cards
// and position. An empty newName, a missing deck or a name already in use
// leave everything as is.
func (c *Controller) Update(d decks.Deck, newName string) (decks.Deck, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	renamed, ok, err := c.Cache.Rename(d.Name, newName)
	if err != nil {
		c.log.Debug("rename rejected", zap.String("deck", d.Name), zap.Error(err))
		return d, false
	}
	if !ok {
		return d, false
	}
	c.persist()
	return renamed, true
}

// ClearAll empties the registry and removes the persisted collection.
func (c *Controller) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Cache.Clear()
	c.hook.Size(0)
	c.schedule(job{op: OpRemove})
}

// Flush blocks until every mutation issued so far has reached the disk (or
// failed trying).
func (c *Controller) Flush(ctx context.Context) error {
	return c.w.flush(ctx)
}

// Close flushes outstanding writes and stops the background writer.
func (c *Controller) Close(ctx context.Context) error {
	err := c.Flush(ctx)
	c.w.stop()
	return err
}

func (c *Controller) persist() {
	list := c.Cache.List()
	c.hook.Size(len(list))
	c.schedule(job{op: OpWrite, decks: list})
}

func (c *Controller) schedule(j job) {
	if !c.w.schedule(j) {
		c.log.Warn("controller closed, dropping durable write",
			zap.String("op", string(j.op)),
			zap.Int("count", len(j.decks)),
		)
	}
}

func (c *Controller) apply(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	start := time.Now()
	var err error
	switch j.op {
	case OpWrite:
		err = c.Disk.WriteAll(ctx, j.decks)
	case OpRemove:
		err = c.Disk.RemoveKey(ctx)
	}
	elapsed := time.Since(start)
	c.hook.Written(j.op, elapsed, err)
	if err != nil {
		c.log.Error("persisting decks",
			zap.String("op", string(j.op)),
			zap.Int("count", len(j.decks)),
			zap.Error(err),
		)
		return
	}
	c.log.Debug("persisted decks",
		zap.String("op", string(j.op)),
		zap.Int("count", len(j.decks)),
		zap.Duration("elapsed", elapsed),
	)
}

func (c *Controller) decodeFailed(err error) {
	c.hook.DecodeFailed(err)
	c.log.Warn("discarding malformed saved decks", zap.Error(err))
}
