package recurrence

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind names a recurrence pattern.
type Kind string

const (
	KindDaily   Kind = "daily"
	KindWeekly  Kind = "weekly"
	KindMonthly Kind = "monthly"
)

// ValidationError reports a malformed recurrence or record. It is returned
// before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Pattern is one of Daily, Weekly or Monthly. The set is closed: the expander
// switches over it exhaustively.
type Pattern interface {
	Kind() Kind
	validate() error
}

// Daily recurs on every day of the active range.
type Daily struct{}

// Weekly recurs on the given weekdays of every IntervalWeeks-th calendar week.
type Weekly struct {
	Weekdays      WeekdaySet
	IntervalWeeks int
}

// Monthly recurs on DayOfMonth (clamped to short months) of every
// IntervalMonths-th month.
type Monthly struct {
	DayOfMonth     int
	IntervalMonths int
}

func (Daily) Kind() Kind   { return KindDaily }
func (Weekly) Kind() Kind  { return KindWeekly }
func (Monthly) Kind() Kind { return KindMonthly }

func (Daily) validate() error { return nil }

func (w Weekly) validate() error {
	if w.Weekdays.Empty() {
		return invalid("weekdays", "at least one weekday is required")
	}
	if w.IntervalWeeks < 1 {
		return invalid("interval_weeks", "must be >= 1, got %d", w.IntervalWeeks)
	}
	return nil
}

func (m Monthly) validate() error {
	if m.DayOfMonth < 1 || m.DayOfMonth > 31 {
		return invalid("day_of_month", "must be within 1..31, got %d", m.DayOfMonth)
	}
	if m.IntervalMonths < 1 {
		return invalid("interval_months", "must be >= 1, got %d", m.IntervalMonths)
	}
	return nil
}

// Descriptor is a recurrence pattern bounded by a start date and an optional
// end date. Both bounds are inclusive civil dates.
type Descriptor struct {
	Pattern   Pattern
	StartDate time.Time
	EndDate   *time.Time
}

// Kind returns the pattern's kind, or "" when no pattern is set.
func (d Descriptor) Kind() Kind {
	if d.Pattern == nil {
		return ""
	}
	return d.Pattern.Kind()
}

// Validate checks the pattern fields and the date range.
func (d Descriptor) Validate() error {
	if d.Pattern == nil {
		return invalid("recurrence", "pattern is required")
	}
	if d.StartDate.IsZero() {
		return invalid("start_date", "is required")
	}
	if d.EndDate != nil && Truncate(*d.EndDate).Before(Truncate(d.StartDate)) {
		return invalid("end_date", "is before start_date")
	}
	return d.Pattern.validate()
}

// ActiveBetween reports whether the descriptor's range overlaps [from, to].
func (d Descriptor) ActiveBetween(from, to time.Time) bool {
	if Truncate(d.StartDate).After(Truncate(to)) {
		return false
	}
	return d.EndDate == nil || !Truncate(*d.EndDate).Before(Truncate(from))
}

type descriptorJSON struct {
	Kind           Kind        `json:"kind"`
	Weekdays       *WeekdaySet `json:"weekdays,omitempty"`
	IntervalWeeks  int         `json:"interval_weeks,omitempty"`
	DayOfMonth     int         `json:"day_of_month,omitempty"`
	IntervalMonths int         `json:"interval_months,omitempty"`
	StartDate      string      `json:"start_date"`
	EndDate        *string     `json:"end_date,omitempty"`
}

// MarshalJSON encodes the descriptor as a kind-tagged object.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	out := descriptorJSON{Kind: d.Kind(), StartDate: FormatDate(d.StartDate)}
	if d.EndDate != nil {
		end := FormatDate(*d.EndDate)
		out.EndDate = &end
	}
	switch p := d.Pattern.(type) {
	case Daily:
	case Weekly:
		days := p.Weekdays
		out.Weekdays = &days
		out.IntervalWeeks = p.IntervalWeeks
	case Monthly:
		out.DayOfMonth = p.DayOfMonth
		out.IntervalMonths = p.IntervalMonths
	case nil:
		return nil, fmt.Errorf("recurrence descriptor has no pattern")
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a kind-tagged object. Fields belonging to another kind
// are rejected so exactly one variant is ever populated.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var in descriptorJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	weeklySet := in.Weekdays != nil || in.IntervalWeeks != 0
	monthlySet := in.DayOfMonth != 0 || in.IntervalMonths != 0

	var out Descriptor
	switch in.Kind {
	case KindDaily:
		if weeklySet || monthlySet {
			return invalid("recurrence", "daily recurrence carries weekly or monthly fields")
		}
		out.Pattern = Daily{}
	case KindWeekly:
		if monthlySet {
			return invalid("recurrence", "weekly recurrence carries monthly fields")
		}
		w := Weekly{IntervalWeeks: in.IntervalWeeks}
		if in.Weekdays != nil {
			w.Weekdays = *in.Weekdays
		}
		out.Pattern = w
	case KindMonthly:
		if weeklySet {
			return invalid("recurrence", "monthly recurrence carries weekly fields")
		}
		out.Pattern = Monthly{DayOfMonth: in.DayOfMonth, IntervalMonths: in.IntervalMonths}
	default:
		return invalid("kind", "unknown recurrence kind %q", in.Kind)
	}

	start, err := ParseDate(in.StartDate)
	if err != nil {
		return invalid("start_date", "%v", err)
	}
	out.StartDate = start
	if in.EndDate != nil && *in.EndDate != "" {
		end, err := ParseDate(*in.EndDate)
		if err != nil {
			return invalid("end_date", "%v", err)
		}
		out.EndDate = &end
	}
	*d = out
	return nil
}
