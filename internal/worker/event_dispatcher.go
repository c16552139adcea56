package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/polkiloo/pointledger/internal/domain/model"
)

// Event delivery outcomes.
const (
	EventPublished = "published"
	EventFailed    = "failed"
	EventDropped   = "dropped"
)

// Publisher delivers a transaction event to an external system.
type Publisher interface {
	Publish(ctx context.Context, event model.TransactionEvent) error
}

// EventObserver counts delivery outcomes.
type EventObserver interface {
	ObserveEvent(result string)
}

// EventDispatcher hands committed transactions to a Publisher in the background.
// Every user id maps to one worker queue, so events of a user leave in enqueue order.
type EventDispatcher struct {
	publisher Publisher
	workers   int
	buffer    int
	logger    *slog.Logger
	observer  EventObserver

	queues  []chan model.TransactionEvent
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.RWMutex
	running bool
}

// NewEventDispatcher constructs dispatcher with the given worker count and per-worker queue size.
func NewEventDispatcher(publisher Publisher, workers, buffer int, logger *slog.Logger, observer EventObserver) *EventDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if buffer <= 0 {
		buffer = 1
	}
	return &EventDispatcher{
		publisher: publisher,
		workers:   workers,
		buffer:    buffer,
		logger:    logger,
		observer:  observer,
	}
}

// Start launches the workers. Calling Start on a running dispatcher does nothing.
func (d *EventDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d.cancel = cancel
	d.queues = make([]chan model.TransactionEvent, d.workers)
	for i := range d.queues {
		d.queues[i] = make(chan model.TransactionEvent, d.buffer)
		d.wg.Add(1)
		go d.worker(runCtx, d.queues[i])
	}
	d.running = true
}

// Stop stops accepting events and waits for queued ones to be published.
// When ctx expires first, in-flight publishes are cancelled and ctx.Err is returned.
func (d *EventDispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return nil
	}
	d.running = false
	for _, q := range d.queues {
		close(q)
	}
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		cancel()
		return nil
	case <-ctx.Done():
		cancel()
		<-done
		return ctx.Err()
	}
}

// Enqueue schedules event for publication without blocking.
// Events are dropped when the dispatcher is not running or the user's queue is full.
func (d *EventDispatcher) Enqueue(event model.TransactionEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.running {
		d.drop(event, "dispatcher stopped")
		return
	}

	select {
	case d.queues[d.queueFor(event.UserID)] <- event:
	default:
		d.drop(event, "queue full")
	}
}

func (d *EventDispatcher) queueFor(userID int64) int {
	return int(uint64(userID) % uint64(len(d.queues)))
}

func (d *EventDispatcher) worker(ctx context.Context, queue <-chan model.TransactionEvent) {
	defer d.wg.Done()
	for event := range queue {
		if err := d.publisher.Publish(ctx, event); err != nil {
			d.logger.Error("publish transaction event failed",
				slog.Int64("user_id", event.UserID),
				slog.Int64("history_id", event.HistoryID),
				slog.String("error", err.Error()),
			)
			d.observe(EventFailed)
			continue
		}
		d.observe(EventPublished)
	}
}

func (d *EventDispatcher) drop(event model.TransactionEvent, reason string) {
	d.logger.Warn("transaction event dropped",
		slog.Int64("user_id", event.UserID),
		slog.Int64("history_id", event.HistoryID),
		slog.String("reason", reason),
	)
	d.observe(EventDropped)
}

func (d *EventDispatcher) observe(result string) {
	if d.observer != nil {
		d.observer.ObserveEvent(result)
	}
}
