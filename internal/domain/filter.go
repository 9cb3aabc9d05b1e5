package domain

import (
	"fmt"
	"time"
)

// MaxAmount caps how many trading days one request may ask for.
const MaxAmount = 1000

// TradingFilter narrows results by the codes derived from the product id.
// Nil fields are not applied.
type TradingFilter struct {
	OilID           *string
	DeliveryTypeID  *string
	DeliveryBasisID *string
}

// DynamicsFilter selects results between two trading dates, both inclusive.
type DynamicsFilter struct {
	TradingFilter
	Start time.Time
	End   time.Time
}

// Validate rejects missing or inverted ranges.
func (f DynamicsFilter) Validate() error {
	if f.Start.IsZero() {
		return &ValidationError{Field: "start_date", Reason: "is required"}
	}
	if f.End.IsZero() {
		return &ValidationError{Field: "end_date", Reason: "is required"}
	}
	if f.Start.After(f.End) {
		return &ValidationError{Field: "start_date", Reason: "must not be after end_date"}
	}
	return nil
}

// ValidateAmount checks the number of trading days requested.
func ValidateAmount(amount int) error {
	if amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if amount > MaxAmount {
		return &ValidationError{Field: "amount", Reason: fmt.Sprintf("must not exceed %d", MaxAmount)}
	}
	return nil
}
