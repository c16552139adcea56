package handlers

import (
	"context"

	"github.com/polkiloo/pointledger/internal/domain/model"
)

// PointFacade describes the point operations exposed via HTTP.
type PointFacade interface {
	Charge(ctx context.Context, userID, amount int64) (*model.UserPoint, error)
	Use(ctx context.Context, userID, amount int64) (*model.UserPoint, error)
	Point(ctx context.Context, userID int64) (*model.UserPoint, error)
	History(ctx context.Context, userID int64) ([]model.PointHistory, error)
}
