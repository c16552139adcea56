package repository

import (
	"context"
	"time"

	"github.com/polkiloo/pointledger/internal/domain/model"
)

// PointHistoryRepository is an append-only log of point transactions.
type PointHistoryRepository interface {
	// Insert appends one record and assigns it the next identifier.
	Insert(ctx context.Context, userID, amount int64, typ model.TransactionType, at time.Time) (*model.PointHistory, error)
	// ListByUserID returns the user's records in append order, empty when none exist.
	ListByUserID(ctx context.Context, userID int64) ([]model.PointHistory, error)
}
