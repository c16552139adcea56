package repository

import "context"

// TxFunc receives repositories bound to one transaction.
type TxFunc func(ctx context.Context, points UserPointRepository, histories PointHistoryRepository) error

// Transactor is implemented by backends that can commit a balance write and
// a history append atomically. fn's writes are committed when it returns nil
// and rolled back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn TxFunc) error
}
