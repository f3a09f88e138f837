package lazy

import (
	"context"
	"errors"
	"sync"

	"git.sr.ht/~jackmordaunt/decks"
)

// ErrClosed is returned by Flush when a mutation was issued after Close and
// its durable write was dropped.
var ErrClosed = errors.New("lazy: controller closed")

type job struct {
	op    Op
	decks []decks.Deck
	seq   uint64
}

// writer applies durable jobs one at a time, in issue order.
//
// Each job carries the whole collection, so a job still queued when a newer
// one arrives is superseded and never written.
type writer struct {
	apply func(job)

	mu      sync.Mutex
	pending *job
	seq     uint64 // last scheduled
	done    uint64 // last applied
	settled chan struct{}

	wake    chan struct{}
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func newWriter(apply func(job)) *writer {
	return &writer{
		apply:   apply,
		settled: make(chan struct{}),
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// schedule queues j, reporting false when the writer has already been stopped
// and j will never be applied.
func (w *writer) schedule(j job) bool {
	select {
	case <-w.quit:
		w.mu.Lock()
		w.seq++
		w.mu.Unlock()
		return false
	default:
	}
	w.mu.Lock()
	w.seq++
	j.seq = w.seq
	w.pending = &j
	w.mu.Unlock()
	select {
	case w.wake <- struct{}{}:
	default:
	}
	return true
}

func (w *writer) loop() {
	defer close(w.stopped)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.quit:
			w.drain()
			return
		}
	}
}

func (w *writer) drain() {
	for {
		w.mu.Lock()
		j := w.pending
		w.pending = nil
		w.mu.Unlock()
		if j == nil {
			return
		}
		w.apply(*j)
		w.mu.Lock()
		w.done = j.seq
		close(w.settled)
		w.settled = make(chan struct{})
		w.mu.Unlock()
	}
}

func (w *writer) flush(ctx context.Context) error {
	w.mu.Lock()
	target := w.seq
	for w.done < target {
		settled := w.settled
		w.mu.Unlock()
		select {
		case <-settled:
		case <-w.stopped:
			w.mu.Lock()
			lost := w.done < target
			w.mu.Unlock()
			if lost {
				return ErrClosed
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
		w.mu.Lock()
	}
	w.mu.Unlock()
	return nil
}

func (w *writer) stop() {
	w.once.Do(func() { close(w.quit) })
	<-w.stopped
}
