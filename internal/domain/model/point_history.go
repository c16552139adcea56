package model

import "time"

// TransactionType describes direction of a point movement.
type TransactionType string

const (
	TransactionCharge TransactionType = "CHARGE"
	TransactionUse    TransactionType = "USE"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionCharge || t == TransactionUse
}

// PointHistory is an immutable record of one committed charge or use.
type PointHistory struct {
	ID        int64
	UserID    int64
	Amount    int64
	Type      TransactionType
	CreatedAt time.Time
}
