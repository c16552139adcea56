package lock

import (
	"hash/maphash"
	"sync"
	"time"
)

// DefaultShards is used when a non-positive shard count is requested.
const DefaultShards = 64

// WaitObserver receives the time a caller spent blocked in Acquire.
type WaitObserver func(wait time.Duration)

// Registry serializes work per user id. Each user id gets its own FIFO lock,
// created on first use and dropped once nobody holds or waits for it.
// Entries live in a fixed set of shards so bookkeeping for unrelated users
// rarely touches the same guard.
type Registry struct {
	shards   []shard
	seed     maphash.Seed
	observer WaitObserver
}

type shard struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

// entry is held while held == true. Waiters are queued in arrival order and
// receive ownership directly from the releasing holder.
type entry struct {
	held    bool
	waiters []chan struct{}
}

// Option configures Registry.
type Option func(*Registry)

// WithWaitObserver reports how long each Acquire call waited.
func WithWaitObserver(fn WaitObserver) Option {
	return func(r *Registry) { r.observer = fn }
}

// NewRegistry creates a registry with the given number of shards.
func NewRegistry(shards int, opts ...Option) *Registry {
	if shards <= 0 {
		shards = DefaultShards
	}
	r := &Registry{
		shards: make([]shard, shards),
		seed:   maphash.MakeSeed(),
	}
	for i := range r.shards {
		r.shards[i].entries = make(map[int64]*entry)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Acquire blocks until the caller owns the lock for userID.
// The returned handle must be released exactly once.
func (r *Registry) Acquire(userID int64) *Handle {
	start := time.Now()
	s := r.shardFor(userID)

	s.mu.Lock()
	e, ok := s.entries[userID]
	if !ok {
		e = &entry{}
		s.entries[userID] = e
	}
	if !e.held {
		e.held = true
		s.mu.Unlock()
		r.observe(start)
		return &Handle{registry: r, shard: s, userID: userID}
	}
	ready := make(chan struct{})
	e.waiters = append(e.waiters, ready)
	s.mu.Unlock()

	<-ready
	r.observe(start)
	return &Handle{registry: r, shard: s, userID: userID}
}

// Len returns the number of user ids that currently have a holder or waiters.
func (r *Registry) Len() int {
	n := 0
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}
	return n
}

func (r *Registry) release(s *shard, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[userID]
	if !ok || !e.held {
		panic("lock: release of unheld lock")
	}
	if len(e.waiters) == 0 {
		delete(s.entries, userID)
		return
	}
	next := e.waiters[0]
	e.waiters[0] = nil
	e.waiters = e.waiters[1:]
	// held stays true: ownership moves to next.
	close(next)
}

func (r *Registry) shardFor(userID int64) *shard {
	if len(r.shards) == 1 {
		return &r.shards[0]
	}
	h := maphash.Comparable(r.seed, userID)
	return &r.shards[h%uint64(len(r.shards))]
}

func (r *Registry) observe(start time.Time) {
	if r.observer != nil {
		r.observer(time.Since(start))
	}
}

// Handle is proof of ownership of one user's lock.
type Handle struct {
	registry *Registry
	shard    *shard
	userID   int64
	once     sync.Once
}

// Release gives the lock to the next waiter. Calls after the first are no-ops.
func (h *Handle) Release() {
	h.once.Do(func() {
		h.registry.release(h.shard, h.userID)
	})
}
