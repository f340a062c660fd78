package payroll

import "errors"

var ErrNoRate = errors.New("work role has no hourly or daily rate")

// EffectiveHourlyRate prefers the explicit hourly rate and otherwise spreads
// the daily rate over a full day.
func EffectiveHourlyRate(hourlyRate, baseDailyRate float64) (float64, error) {
	if hourlyRate > 0 {
		return hourlyRate, nil
	}
	if baseDailyRate > 0 {
		return baseDailyRate / FullDayHours, nil
	}
	return 0, ErrNoRate
}

// SalaryAmount is hours times rate, rounded to cents.
func SalaryAmount(hours, hourlyRate float64) float64 {
	if hours <= 0 || hourlyRate <= 0 {
		return 0
	}
	return Round2(hours * hourlyRate)
}
