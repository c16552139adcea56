package model

import "time"

const (
	// MaxPoint is the highest balance a user may hold.
	MaxPoint int64 = 1_000_000
	// ChargeUnit is the granularity and minimum of a charge.
	ChargeUnit int64 = 1_000
)

// UserPoint is the current point balance of a user.
type UserPoint struct {
	ID        int64
	Point     int64
	UpdatedAt time.Time
}

// EmptyUserPoint returns the implicit record of a user that has never been charged.
func EmptyUserPoint(userID int64) *UserPoint {
	return &UserPoint{ID: userID}
}
