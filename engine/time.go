package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Day-granularity time point
// =============================================================================
// All temporal comparisons in this engine happen at day granularity. A Date
// is always normalized to midnight UTC so that Equal/Before/After never
// depend on the wall-clock hour a record was written at.

type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses an ISO date (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date { return DateOf(d.Time.AddDate(0, 0, n)) }

// Properties
func (d Date) IsZero() bool   { return d.Time.IsZero() }
func (d Date) String() string { return d.Time.Format("2006-01-02") }

// =============================================================================
// CLOCK - Injectable source of "today"
// =============================================================================
// Every gate asks the clock for today instead of reading the wall clock.
// Tests inject a FixedClock to get deterministic, time-travel-capable runs.

type Clock interface {
	Today() Date
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Today() Date { return DateOf(time.Now()) }

// FixedClock always reports the same day.
type FixedClock struct {
	Day Date
}

func (c FixedClock) Today() Date { return c.Day }
