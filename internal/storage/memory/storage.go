package memory

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/pointledger/internal/domain/errors"
	"github.com/polkiloo/pointledger/internal/domain/model"
	"github.com/polkiloo/pointledger/internal/domain/repository"
)

// Storage keeps balances and histories in process memory.
// Every call copies data in or out under the lock, so callers never share records.
type Storage struct {
	mu        sync.RWMutex
	points    map[int64]model.UserPoint
	histories map[int64][]model.PointHistory
	nextID    int64

	latency time.Duration
}

// Option configures Storage.
type Option func(*Storage)

// WithLatency makes every call sleep a random duration up to max before touching data.
func WithLatency(max time.Duration) Option {
	return func(s *Storage) {
		if max > 0 {
			s.latency = max
		}
	}
}

// New creates empty storage.
func New(opts ...Option) *Storage {
	s := &Storage{
		points:    make(map[int64]model.UserPoint),
		histories: make(map[int64][]model.PointHistory),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UserPoints returns the balance repository.
func (s *Storage) UserPoints() repository.UserPointRepository {
	return (*userPointRepository)(s)
}

// PointHistories returns the history repository.
func (s *Storage) PointHistories() repository.PointHistoryRepository {
	return (*pointHistoryRepository)(s)
}

func (s *Storage) delay(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	d := time.Duration(rand.Int64N(int64(s.latency) + 1))
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type userPointRepository Storage

func (r *userPointRepository) SelectByID(ctx context.Context, userID int64) (*model.UserPoint, error) {
	s := (*Storage)(r)
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	p, ok := s.points[userID]
	s.mu.RUnlock()
	if !ok {
		return model.EmptyUserPoint(userID), nil
	}
	return &p, nil
}

func (r *userPointRepository) InsertOrUpdate(ctx context.Context, userID, point int64, at time.Time) (*model.UserPoint, error) {
	s := (*Storage)(r)
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	p := model.UserPoint{ID: userID, Point: point, UpdatedAt: at}
	s.mu.Lock()
	s.points[userID] = p
	s.mu.Unlock()
	return &p, nil
}

type pointHistoryRepository Storage

func (r *pointHistoryRepository) Insert(ctx context.Context, userID, amount int64, typ model.TransactionType, at time.Time) (*model.PointHistory, error) {
	s := (*Storage)(r)
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %q", domainErrors.ErrUnknownTransactionType, typ)
	}
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.nextID++
	h := model.PointHistory{ID: s.nextID, UserID: userID, Amount: amount, Type: typ, CreatedAt: at}
	s.histories[userID] = append(s.histories[userID], h)
	s.mu.Unlock()
	return &h, nil
}

func (r *pointHistoryRepository) ListByUserID(ctx context.Context, userID int64) ([]model.PointHistory, error) {
	s := (*Storage)(r)
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.PointHistory, len(s.histories[userID]))
	copy(out, s.histories[userID])
	return out, nil
}
