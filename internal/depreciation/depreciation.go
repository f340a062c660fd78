// Package depreciation computes asset depreciation schedules and book values.
// Nothing here is persisted; schedules are rebuilt on every read.
package depreciation

import (
	"errors"
	"math"
	"time"
)

// Method is the depreciation method of an asset.
type Method string

const (
	StraightLine     Method = "straight-line"
	DecliningBalance Method = "declining-balance"
)

func (m Method) Valid() bool {
	return m == StraightLine || m == DecliningBalance
}

var (
	ErrNegativeCost  = errors.New("asset cost cannot be negative")
	ErrInvalidLife   = errors.New("useful life must be at least one year")
	ErrUnknownMethod = errors.New("depreciation method must be straight-line or declining-balance")
)

// Input describes the asset being depreciated.
type Input struct {
	Cost            float64
	PurchaseDate    time.Time
	UsefulLifeYears int
	Method          Method
}

// Year is one row of a schedule.
type Year struct {
	Year                    int     `json:"year"`
	FiscalYear              int     `json:"fiscal_year"`
	OpeningValue            float64 `json:"opening_value"`
	Depreciation            float64 `json:"depreciation"`
	AccumulatedDepreciation float64 `json:"accumulated_depreciation"`
	ClosingValue            float64 `json:"closing_value"`
}

func (in Input) validate() error {
	switch {
	case in.Cost < 0:
		return ErrNegativeCost
	case in.UsefulLifeYears <= 0:
		return ErrInvalidLife
	case !in.Method.Valid():
		return ErrUnknownMethod
	}
	return nil
}

// Schedule returns one row per year of useful life.
func Schedule(in Input) ([]Year, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	life := in.UsefulLifeYears
	rows := make([]Year, 0, life)
	straight := in.Cost / float64(life)
	rate := 2.0 / float64(life)

	var accumulated float64
	for y := 1; y <= life; y++ {
		opening := math.Max(0, in.Cost-accumulated)

		var dep float64
		switch in.Method {
		case StraightLine:
			dep = straight
		case DecliningBalance:
			dep = opening * rate
		}
		// The final year writes off whatever is left, rounding residue included.
		if y == life {
			dep = opening
		}
		// Never depreciate past zero.
		dep = round2(math.Min(dep, opening))
		accumulated = round2(accumulated + dep)

		rows = append(rows, Year{
			Year:                    y,
			FiscalYear:              in.PurchaseDate.Year() + y - 1,
			OpeningValue:            round2(opening),
			Depreciation:            dep,
			AccumulatedDepreciation: accumulated,
			ClosingValue:            round2(math.Max(0, in.Cost-accumulated)),
		})
	}
	return rows, nil
}

// BookValueAt is the closing value of the last year fully elapsed at t.
func BookValueAt(in Input, t time.Time) (float64, error) {
	rows, err := Schedule(in)
	if err != nil {
		return 0, err
	}
	elapsed := fullYearsBetween(in.PurchaseDate, t)
	if elapsed <= 0 {
		return round2(in.Cost), nil
	}
	if elapsed >= len(rows) {
		return rows[len(rows)-1].ClosingValue, nil
	}
	return rows[elapsed-1].ClosingValue, nil
}

func fullYearsBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	years := to.Year() - from.Year()
	if from.AddDate(years, 0, 0).After(to) {
		years--
	}
	return years
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
