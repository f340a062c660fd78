package payroll

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	// BreakHours is deducted from every shift.
	BreakHours = 1.0
	// FullDayHours caps paid hours. Shorter shifts need a deduction reason.
	FullDayHours = 10.0
	// MinPaidHours is the floor below which a shift pays nothing.
	MinPaidHours = 1.0
)

var (
	ErrNegativeInterval        = errors.New("logout time cannot be before login time")
	ErrDeductionReasonRequired = errors.New("deduction reason is required when worked hours are below a full day")
)

// ShiftHours is the outcome of closing a shift.
type ShiftHours struct {
	RawHours       float64 `json:"raw_hours"`
	AdjustedHours  float64 `json:"adjusted_hours"`
	ReasonRequired bool    `json:"reason_required"`
}

// ComputeShiftHours applies the break deduction, the full-day cap and the
// one-hour floor to the interval between login and logout.
func ComputeShiftHours(login, logout time.Time) (ShiftHours, error) {
	if logout.Before(login) {
		return ShiftHours{}, ErrNegativeInterval
	}

	raw := logout.Sub(login).Hours()
	adjusted := math.Max(0, raw-BreakHours)
	adjusted = math.Min(adjusted, FullDayHours)
	if adjusted < MinPaidHours {
		adjusted = 0
	}
	adjusted = Round2(adjusted)

	return ShiftHours{
		RawHours:       Round2(raw),
		AdjustedHours:  adjusted,
		ReasonRequired: adjusted < FullDayHours,
	}, nil
}

// CheckDeductionReason enforces the reason rule on computed hours.
func (h ShiftHours) CheckDeductionReason(reason string) error {
	if h.ReasonRequired && strings.TrimSpace(reason) == "" {
		return ErrDeductionReasonRequired
	}
	return nil
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
