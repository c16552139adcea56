package test

import (
	"context"
	"sync"
	"time"

	"github.com/polkiloo/pointledger/internal/domain/model"
	"github.com/polkiloo/pointledger/internal/domain/repository"
)

// UserPointRepositoryStub keeps balances in a map for tests.
type UserPointRepositoryStub struct {
	SelectFn func(context.Context, int64) (*model.UserPoint, error)
	UpdateFn func(context.Context, int64, int64, time.Time) (*model.UserPoint, error)
	Points   map[int64]int64
	Err      error
	Updates  int

	mu sync.Mutex
}

// NewUserPointRepositoryStub constructs stub seeded with balances.
func NewUserPointRepositoryStub(points map[int64]int64) *UserPointRepositoryStub {
	if points == nil {
		points = make(map[int64]int64)
	}
	return &UserPointRepositoryStub{Points: points}
}

// SelectByID returns the stored balance or a zero record.
func (s *UserPointRepositoryStub) SelectByID(ctx context.Context, userID int64) (*model.UserPoint, error) {
	if s.SelectFn != nil {
		return s.SelectFn(ctx, userID)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return &model.UserPoint{ID: userID, Point: s.Points[userID]}, nil
}

// InsertOrUpdate replaces the stored balance.
func (s *UserPointRepositoryStub) InsertOrUpdate(ctx context.Context, userID, point int64, at time.Time) (*model.UserPoint, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, userID, point, at)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Points == nil {
		s.Points = make(map[int64]int64)
	}
	s.Points[userID] = point
	s.Updates++
	return &model.UserPoint{ID: userID, Point: point, UpdatedAt: at}, nil
}

// Balance returns the stored balance without going through the repository contract.
func (s *UserPointRepositoryStub) Balance(userID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Points[userID]
}

// PointHistoryRepositoryStub records appended history in memory.
type PointHistoryRepositoryStub struct {
	InsertFn func(context.Context, int64, int64, model.TransactionType, time.Time) (*model.PointHistory, error)
	ListFn   func(context.Context, int64) ([]model.PointHistory, error)
	Records  []model.PointHistory
	Err      error

	mu sync.Mutex
}

// Insert appends a record with the next sequential id.
func (s *PointHistoryRepositoryStub) Insert(ctx context.Context, userID, amount int64, typ model.TransactionType, at time.Time) (*model.PointHistory, error) {
	if s.InsertFn != nil {
		return s.InsertFn(ctx, userID, amount, typ, at)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record := model.PointHistory{
		ID:        int64(len(s.Records) + 1),
		UserID:    userID,
		Amount:    amount,
		Type:      typ,
		CreatedAt: at,
	}
	s.Records = append(s.Records, record)
	return &record, nil
}

// ListByUserID filters recorded history by user.
func (s *PointHistoryRepositoryStub) ListByUserID(ctx context.Context, userID int64) ([]model.PointHistory, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, userID)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.PointHistory, 0)
	for _, r := range s.Records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Len returns the number of recorded entries across users.
func (s *PointHistoryRepositoryStub) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Records)
}

// TransactorStub hands Points and Histories to fn and counts the outcome.
type TransactorStub struct {
	Points    repository.UserPointRepository
	Histories repository.PointHistoryRepository
	BeginErr  error
	Commits   int
	Rollbacks int

	mu sync.Mutex
}

// WithinTransaction runs fn unless BeginErr is set.
func (s *TransactorStub) WithinTransaction(ctx context.Context, fn repository.TxFunc) error {
	if s.BeginErr != nil {
		return s.BeginErr
	}
	err := fn(ctx, s.Points, s.Histories)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.Rollbacks++
	} else {
		s.Commits++
	}
	return err
}

// EventSinkStub collects enqueued transaction events.
type EventSinkStub struct {
	mu     sync.Mutex
	Events []model.TransactionEvent
}

// Enqueue stores event.
func (s *EventSinkStub) Enqueue(event model.TransactionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, event)
}

// Snapshot returns a copy of collected events.
func (s *EventSinkStub) Snapshot() []model.TransactionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.TransactionEvent(nil), s.Events...)
}

// ObservedOperation is one call recorded by OperationObserverStub.
type ObservedOperation struct {
	Operation string
	Result    string
}

// OperationObserverStub records operation outcomes.
type OperationObserverStub struct {
	mu    sync.Mutex
	Calls []ObservedOperation
}

// ObserveOperation stores the call.
func (s *OperationObserverStub) ObserveOperation(operation, result string, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, ObservedOperation{Operation: operation, Result: result})
}

// PublisherStub records published events.
type PublisherStub struct {
	PublishFn func(context.Context, model.TransactionEvent) error

	mu        sync.Mutex
	Published []model.TransactionEvent
}

// Publish runs PublishFn when set and records successful events.
func (s *PublisherStub) Publish(ctx context.Context, event model.TransactionEvent) error {
	if s.PublishFn != nil {
		if err := s.PublishFn(ctx, event); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Published = append(s.Published, event)
	return nil
}

// Snapshot returns a copy of published events.
func (s *PublisherStub) Snapshot() []model.TransactionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.TransactionEvent(nil), s.Published...)
}

// EventObserverStub counts delivery outcomes.
type EventObserverStub struct {
	mu     sync.Mutex
	Counts map[string]int
}

// ObserveEvent increments the counter for result.
func (s *EventObserverStub) ObserveEvent(result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Counts == nil {
		s.Counts = make(map[string]int)
	}
	s.Counts[result]++
}

// Count returns the number of observations of result.
func (s *EventObserverStub) Count(result string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Counts[result]
}
