package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	domainErrors "github.com/polkiloo/pointledger/internal/domain/errors"
	"github.com/polkiloo/pointledger/internal/domain/model"
	"github.com/polkiloo/pointledger/internal/domain/repository"
	"github.com/polkiloo/pointledger/internal/lock"
)

// Operation names used in logs and metrics.
const (
	OpCharge  = "charge"
	OpUse     = "use"
	OpPoint   = "point"
	OpHistory = "history"
)

// EventSink receives committed transactions. Enqueue must not block indefinitely.
type EventSink interface {
	Enqueue(event model.TransactionEvent)
}

// OperationObserver records the outcome of each operation.
type OperationObserver interface {
	ObserveOperation(operation, result string, elapsed time.Duration)
}

// PointUseCase applies charges and uses to user balances.
// Mutations for one user are serialized through the lock registry; queries read the stores directly.
type PointUseCase struct {
	points    repository.UserPointRepository
	histories repository.PointHistoryRepository
	locks     *lock.Registry
	tx        repository.Transactor

	now      func() time.Time
	logger   *slog.Logger
	events   EventSink
	observer OperationObserver
}

// Option customizes PointUseCase.
type Option func(*PointUseCase)

// WithClock sets the time source for history records.
func WithClock(now func() time.Time) Option {
	return func(u *PointUseCase) {
		if now != nil {
			u.now = now
		}
	}
}

// WithTransactor runs each mutation inside a store transaction provided by t.
func WithTransactor(t repository.Transactor) Option {
	return func(u *PointUseCase) { u.tx = t }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(u *PointUseCase) {
		if l != nil {
			u.logger = l
		}
	}
}

// WithEvents publishes every committed transaction to sink.
func WithEvents(sink EventSink) Option {
	return func(u *PointUseCase) { u.events = sink }
}

// WithObserver reports operation outcomes to o.
func WithObserver(o OperationObserver) Option {
	return func(u *PointUseCase) { u.observer = o }
}

// NewPointUseCase constructs PointUseCase.
func NewPointUseCase(points repository.UserPointRepository, histories repository.PointHistoryRepository, locks *lock.Registry, opts ...Option) *PointUseCase {
	u := &PointUseCase{
		points:    points,
		histories: histories,
		locks:     locks,
		now:       time.Now,
		logger:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.locks == nil {
		u.locks = lock.NewRegistry(lock.DefaultShards)
	}
	if u.tx == nil {
		u.tx = directTransactor{points: u.points, histories: u.histories}
	}
	return u
}

// directTransactor runs fn against the plain repositories without a store transaction.
type directTransactor struct {
	points    repository.UserPointRepository
	histories repository.PointHistoryRepository
}

func (d directTransactor) WithinTransaction(ctx context.Context, fn repository.TxFunc) error {
	return fn(ctx, d.points, d.histories)
}

// Charge adds amount to the user's balance and returns the new balance.
func (u *PointUseCase) Charge(ctx context.Context, userID, amount int64) (*model.UserPoint, error) {
	start := time.Now()
	p, err := u.charge(ctx, userID, amount)
	u.finish(ctx, OpCharge, userID, amount, start, err)
	return p, err
}

func (u *PointUseCase) charge(ctx context.Context, userID, amount int64) (*model.UserPoint, error) {
	if err := ValidateChargeAmount(amount); err != nil {
		return nil, err
	}
	return u.mutate(ctx, userID, amount, model.TransactionCharge, func(current int64) (int64, error) {
		if amount > model.MaxPoint-current {
			return 0, domainErrors.ErrLimitExceeded
		}
		return current + amount, nil
	})
}

// Use subtracts amount from the user's balance and returns the new balance.
func (u *PointUseCase) Use(ctx context.Context, userID, amount int64) (*model.UserPoint, error) {
	start := time.Now()
	p, err := u.use(ctx, userID, amount)
	u.finish(ctx, OpUse, userID, amount, start, err)
	return p, err
}

func (u *PointUseCase) use(ctx context.Context, userID, amount int64) (*model.UserPoint, error) {
	if err := ValidateUseAmount(amount); err != nil {
		return nil, err
	}
	return u.mutate(ctx, userID, amount, model.TransactionUse, func(current int64) (int64, error) {
		if current < amount {
			return 0, domainErrors.ErrInsufficientBalance
		}
		return current - amount, nil
	})
}

// mutate runs the read-check-append-write sequence while holding the user's lock.
// apply computes the new balance or rejects the transition.
// Once the lock is held the sequence ignores cancellation of ctx so it never stops between writes.
func (u *PointUseCase) mutate(ctx context.Context, userID, amount int64, typ model.TransactionType, apply func(current int64) (int64, error)) (*model.UserPoint, error) {
	h := u.locks.Acquire(userID)
	defer h.Release()

	var (
		record  *model.PointHistory
		updated *model.UserPoint
	)
	err := u.tx.WithinTransaction(context.WithoutCancel(ctx), func(ctx context.Context, points repository.UserPointRepository, histories repository.PointHistoryRepository) error {
		current, err := points.SelectByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("select user point: %w", err)
		}

		next, err := apply(current.Point)
		if err != nil {
			return err
		}

		at := u.now()
		record, err = histories.Insert(ctx, userID, amount, typ, at)
		if err != nil {
			return fmt.Errorf("insert point history: %w", err)
		}

		updated, err = points.InsertOrUpdate(ctx, userID, next, at)
		if err != nil {
			return fmt.Errorf("update user point: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if u.events != nil {
		u.events.Enqueue(model.NewTransactionEvent(record, updated))
	}
	return updated, nil
}

// Point returns the stored balance of the user, zero for unknown users.
func (u *PointUseCase) Point(ctx context.Context, userID int64) (*model.UserPoint, error) {
	start := time.Now()
	p, err := u.points.SelectByID(ctx, userID)
	if err != nil {
		err = fmt.Errorf("select user point: %w", err)
	}
	u.finish(ctx, OpPoint, userID, 0, start, err)
	return p, err
}

// History returns the user's transactions in commit order.
// A user without transactions yields ErrEmptyHistory.
func (u *PointUseCase) History(ctx context.Context, userID int64) ([]model.PointHistory, error) {
	start := time.Now()
	records, err := u.history(ctx, userID)
	u.finish(ctx, OpHistory, userID, 0, start, err)
	return records, err
}

func (u *PointUseCase) history(ctx context.Context, userID int64) ([]model.PointHistory, error) {
	records, err := u.histories.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list point histories: %w", err)
	}
	if len(records) == 0 {
		return nil, domainErrors.ErrEmptyHistory
	}
	return records, nil
}

func (u *PointUseCase) finish(ctx context.Context, op string, userID, amount int64, start time.Time, err error) {
	elapsed := time.Since(start)
	result := resultOf(err)
	if u.observer != nil {
		u.observer.ObserveOperation(op, result, elapsed)
	}

	attrs := []slog.Attr{
		slog.String("operation", op),
		slog.Int64("user_id", userID),
		slog.Duration("elapsed", elapsed),
	}
	if amount != 0 {
		attrs = append(attrs, slog.Int64("amount", amount))
	}

	switch {
	case err == nil && (op == OpCharge || op == OpUse):
		u.logger.LogAttrs(ctx, slog.LevelInfo, "point transaction committed", attrs...)
	case err == nil:
		u.logger.LogAttrs(ctx, slog.LevelDebug, "point query served", attrs...)
	case domainErrors.IsRejection(err):
		attrs = append(attrs, slog.String("kind", string(domainErrors.Kind(err))), slog.String("reason", err.Error()))
		u.logger.LogAttrs(ctx, slog.LevelWarn, "point operation rejected", attrs...)
	default:
		attrs = append(attrs, slog.Any("error", err))
		u.logger.LogAttrs(ctx, slog.LevelError, "point operation failed", attrs...)
	}
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domainErrors.IsRejection(err):
		return "rejected"
	default:
		return "error"
	}
}
