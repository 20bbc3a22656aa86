package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Date is a calendar date with day granularity, normalized to UTC midnight.
// Its wire and storage form is ISO "YYYY-MM-DD".
type Date struct {
	time.Time
}

// Month is a calendar month in "YYYY-MM" form. Payout records are
// month-granular and filtered by exact match on this value.
type Month string

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidMonth = errors.New("invalid month")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t.UTC()}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// ISO returns the "YYYY-MM-DD" form.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

// InMonth reports whether the date falls in the given month. This is the
// string-prefix filter used for payments and expenses in monthly reports.
func (d Date) InMonth(m Month) bool {
	return MonthOf(d.Time) == m
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.ISO())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month(t.Format("2006-01"))
}

// ParseMonth validates a "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	if _, err := time.Parse("2006-01", s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return Month(s), nil
}

func (m Month) Validate() error {
	_, err := ParseMonth(string(m))
	return err
}

// Bounds returns the first and last day of the month. Both bounds are
// inclusive; dates are day-normalized so no time-of-day slack is needed.
func (m Month) Bounds() (Date, Date, error) {
	t, err := time.Parse("2006-01", string(m))
	if err != nil {
		return Date{}, Date{}, fmt.Errorf("%w: %q", ErrInvalidMonth, string(m))
	}
	first := Date{Time: t.UTC()}
	last := Date{Time: t.UTC().AddDate(0, 1, -1)}
	return first, last, nil
}

// Contains reports whether d falls within the month's inclusive day range.
// This is the parsed-range filter used for investor payout deductions; it is
// intentionally distinct from the prefix filter in Date.InMonth, matching the
// original reconciliation behavior.
func (m Month) Contains(d Date) bool {
	first, last, err := m.Bounds()
	if err != nil {
		return false
	}
	return !d.Before(first.Time) && !d.After(last.Time)
}
