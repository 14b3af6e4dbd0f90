package kernel

import (
	"fmt"
	"time"

	"printflow/internal/pkg/errs"
)

// ErrPeriodIsNotConstructed indicates that a Period was not properly initialized
// through one of the constructor functions.
var ErrPeriodIsNotConstructed = errs.NewValueIsRequiredError("Period must be created via NewPeriod or PeriodOf")

// Period is a value object that represents a calendar month, the keying unit
// for quota records. Whatever date it is constructed from, a Period is always
// normalized to the first day of its month in UTC, so two Periods built from
// any two dates within the same month compare equal.
//
// The zero value of Period is invalid and must be constructed using NewPeriod
// or PeriodOf.
//
// Period is immutable and thread-safe.
//
// Example usage:
//
//	// Period for an arbitrary timestamp
//	p := kernel.NewPeriod(time.Date(2026, time.August, 17, 14, 3, 0, 0, time.UTC))
//	fmt.Println(p) // "2026-08"
//
//	// Period for a specific year/month
//	p = kernel.PeriodOf(2026, time.August)
type Period struct {
	year  int
	month time.Month

	isConstructed bool
}

// NewPeriod creates a Period from an arbitrary point in time.
// The time is interpreted in UTC and normalized to its calendar month.
func NewPeriod(t time.Time) Period {
	utc := t.UTC()
	return Period{
		year:          utc.Year(),
		month:         utc.Month(),
		isConstructed: true,
	}
}

// PeriodOf creates a Period for the given year and month.
// Returns an error if the month is outside the January..December range
// or the year is not positive.
func PeriodOf(year int, month time.Month) (Period, error) {
	if year <= 0 {
		return Period{}, errs.NewValueIsInvalidErrorWithCause("year", fmt.Errorf("%d is not a valid year", year))
	}
	if month < time.January || month > time.December {
		return Period{}, errs.NewValueIsInvalidErrorWithCause("month", fmt.Errorf("%d is not a valid month", month))
	}

	return Period{
		year:          year,
		month:         month,
		isConstructed: true,
	}, nil
}

// Validate checks if the Period was properly constructed.
// Returns ErrPeriodIsNotConstructed for a zero-value Period.
func (p Period) Validate() error {
	if !p.isConstructed {
		return ErrPeriodIsNotConstructed
	}
	return nil
}

// Year returns the calendar year of the period.
func (p Period) Year() int {
	return p.year
}

// Month returns the calendar month of the period.
func (p Period) Month() time.Month {
	return p.month
}

// Date returns the normalized first-of-month date of the period in UTC.
// This is the canonical representation used for persistence keys.
func (p Period) Date() time.Time {
	return time.Date(p.year, p.month, 1, 0, 0, 0, 0, time.UTC)
}

// IsEqual compares two periods for equality.
// Two periods are equal when they denote the same calendar month.
func (p Period) IsEqual(other Period) bool {
	return p.year == other.year && p.month == other.month
}

// IsZero reports whether the period is the zero value.
// Callers use this to substitute the current period for an unset one.
func (p Period) IsZero() bool {
	return !p.isConstructed
}

// String returns the period in "YYYY-MM" form, e.g. "2026-08".
// It implements the fmt.Stringer interface.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.year, int(p.month))
}
