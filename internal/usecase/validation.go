package usecase

import (
	domainErrors "github.com/polkiloo/pointledger/internal/domain/errors"
	"github.com/polkiloo/pointledger/internal/domain/model"
)

// ValidateChargeAmount checks a charge amount without looking at any balance.
// Checks run in a fixed order so the first failing rule decides the reason.
func ValidateChargeAmount(amount int64) error {
	switch {
	case amount == 0:
		return domainErrors.ErrZeroCharge
	case amount < 0:
		return domainErrors.ErrNegativeCharge
	case amount < model.ChargeUnit:
		return domainErrors.ErrBelowMinimumCharge
	case amount%model.ChargeUnit != 0:
		return domainErrors.ErrNotChargeUnit
	}
	return nil
}

// ValidateUseAmount checks a use amount without looking at any balance.
func ValidateUseAmount(amount int64) error {
	if amount <= 0 {
		return domainErrors.ErrNonPositiveUse
	}
	return nil
}
