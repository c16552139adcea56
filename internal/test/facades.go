package test

import (
	"context"
	"sync"
	"time"

	"github.com/polkiloo/pointledger/internal/domain/model"
)

// PointCall records one mutating call received by PointFacadeStub.
type PointCall struct {
	Operation string
	UserID    int64
	Amount    int64
}

// PointFacadeStub provides controllable behaviour for point endpoints.
type PointFacadeStub struct {
	ChargeFn  func(context.Context, int64, int64) (*model.UserPoint, error)
	UseFn     func(context.Context, int64, int64) (*model.UserPoint, error)
	PointFn   func(context.Context, int64) (*model.UserPoint, error)
	HistoryFn func(context.Context, int64) ([]model.PointHistory, error)

	mu    sync.Mutex
	calls []PointCall
}

// Charge delegates to ChargeFn or echoes the amount as the new balance.
func (s *PointFacadeStub) Charge(ctx context.Context, userID, amount int64) (*model.UserPoint, error) {
	s.record("charge", userID, amount)
	if s.ChargeFn != nil {
		return s.ChargeFn(ctx, userID, amount)
	}
	return &model.UserPoint{ID: userID, Point: amount, UpdatedAt: time.Unix(0, 0)}, nil
}

// Use delegates to UseFn or returns a zero balance.
func (s *PointFacadeStub) Use(ctx context.Context, userID, amount int64) (*model.UserPoint, error) {
	s.record("use", userID, amount)
	if s.UseFn != nil {
		return s.UseFn(ctx, userID, amount)
	}
	return &model.UserPoint{ID: userID, UpdatedAt: time.Unix(0, 0)}, nil
}

// Point delegates to PointFn or returns the empty record.
func (s *PointFacadeStub) Point(ctx context.Context, userID int64) (*model.UserPoint, error) {
	if s.PointFn != nil {
		return s.PointFn(ctx, userID)
	}
	return model.EmptyUserPoint(userID), nil
}

// History delegates to HistoryFn or returns a single charge record.
func (s *PointFacadeStub) History(ctx context.Context, userID int64) ([]model.PointHistory, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, userID)
	}
	return []model.PointHistory{{ID: 1, UserID: userID, Amount: model.ChargeUnit, Type: model.TransactionCharge}}, nil
}

// Calls returns a copy of the recorded mutating calls.
func (s *PointFacadeStub) Calls() []PointCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PointCall(nil), s.calls...)
}

func (s *PointFacadeStub) record(op string, userID, amount int64) {
	s.mu.Lock()
	s.calls = append(s.calls, PointCall{Operation: op, UserID: userID, Amount: amount})
	s.mu.Unlock()
}

// PingerStub reports Err from every Ping call.
type PingerStub struct {
	Err error
}

// Ping returns the configured error.
func (s PingerStub) Ping(context.Context) error {
	return s.Err
}

// ObservedRequest is one call received by HTTPObserverStub.
type ObservedRequest struct {
	Method string
	Route  string
	Status int
}

// HTTPObserverStub collects observed HTTP requests.
type HTTPObserverStub struct {
	mu       sync.Mutex
	Requests []ObservedRequest
}

// ObserveHTTP records the request.
func (s *HTTPObserverStub) ObserveHTTP(method, route string, status int, _ time.Duration) {
	s.mu.Lock()
	s.Requests = append(s.Requests, ObservedRequest{Method: method, Route: route, Status: status})
	s.mu.Unlock()
}

// Snapshot returns a copy of the observed requests.
func (s *HTTPObserverStub) Snapshot() []ObservedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ObservedRequest(nil), s.Requests...)
}
