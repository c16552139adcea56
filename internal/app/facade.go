package app

import (
	"context"

	"github.com/polkiloo/pointledger/internal/domain/model"
	"github.com/polkiloo/pointledger/internal/usecase"
)

// PointFacade exposes the point use case to the transport layer.
type PointFacade struct {
	points *usecase.PointUseCase
}

func NewPointFacade(points *usecase.PointUseCase) *PointFacade {
	return &PointFacade{points: points}
}

func (f *PointFacade) Charge(ctx context.Context, userID, amount int64) (*model.UserPoint, error) {
	return f.points.Charge(ctx, userID, amount)
}

func (f *PointFacade) Use(ctx context.Context, userID, amount int64) (*model.UserPoint, error) {
	return f.points.Use(ctx, userID, amount)
}

func (f *PointFacade) Point(ctx context.Context, userID int64) (*model.UserPoint, error) {
	return f.points.Point(ctx, userID)
}

func (f *PointFacade) History(ctx context.Context, userID int64) ([]model.PointHistory, error) {
	return f.points.History(ctx, userID)
}
