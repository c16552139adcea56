package errors

import (
	"errors"
	"fmt"
)

// Rejection kinds returned by point operations.
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrLimitExceeded       = errors.New("point limit exceeded")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrEmptyHistory        = errors.New("empty point history")
)

// ErrUnknownTransactionType is returned by stores asked to persist a type other than CHARGE or USE.
var ErrUnknownTransactionType = errors.New("unknown transaction type")

// Reasons behind ErrInvalidAmount. Each one matches ErrInvalidAmount via errors.Is.
var (
	ErrZeroCharge         = fmt.Errorf("%w: charge amount is zero", ErrInvalidAmount)
	ErrNegativeCharge     = fmt.Errorf("%w: charge amount is negative", ErrInvalidAmount)
	ErrBelowMinimumCharge = fmt.Errorf("%w: charge amount is below 1000", ErrInvalidAmount)
	ErrNotChargeUnit      = fmt.Errorf("%w: charge amount is not a multiple of 1000", ErrInvalidAmount)
	ErrNonPositiveUse     = fmt.Errorf("%w: use amount must be positive", ErrInvalidAmount)
)

// ErrorKind is a stable name for a rejection class.
type ErrorKind string

const (
	KindInvalidAmount       ErrorKind = "INVALID_AMOUNT"
	KindLimitExceeded       ErrorKind = "LIMIT_EXCEEDED"
	KindInsufficientBalance ErrorKind = "INSUFFICIENT_BALANCE"
	KindEmptyHistory        ErrorKind = "EMPTY_HISTORY"
	KindInternal            ErrorKind = "INTERNAL"
)

// Kind classifies err. Errors that are not point rejections map to KindInternal.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return KindInvalidAmount
	case errors.Is(err, ErrLimitExceeded):
		return KindLimitExceeded
	case errors.Is(err, ErrInsufficientBalance):
		return KindInsufficientBalance
	case errors.Is(err, ErrEmptyHistory):
		return KindEmptyHistory
	default:
		return KindInternal
	}
}

// IsRejection reports whether err is a business rejection rather than a failure.
func IsRejection(err error) bool {
	return err != nil && Kind(err) != KindInternal
}
