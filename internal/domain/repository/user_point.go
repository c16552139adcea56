package repository

import (
	"context"
	"time"

	"github.com/polkiloo/pointledger/internal/domain/model"
)

// UserPointRepository stores the current balance record of each user.
// Both operations must be atomic for a single record.
type UserPointRepository interface {
	// SelectByID returns the stored record or a zero record when none exists.
	SelectByID(ctx context.Context, userID int64) (*model.UserPoint, error)
	// InsertOrUpdate replaces the stored balance, stamps it with at and returns the written record.
	InsertOrUpdate(ctx context.Context, userID, point int64, at time.Time) (*model.UserPoint, error)
}
