package recurrence

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Default occurrence caps applied when Expand is called with maxOccurrences <= 0.
// They bound iteration over malformed data, not legitimate windows.
const (
	DefaultWeeklyCap  = 100
	DefaultMonthlyCap = 36
	DefaultDailyCap   = 366
)

// Occurrence is one dated instance implied by a descriptor.
type Occurrence struct {
	Date   time.Time
	Amount decimal.Decimal
}

// Expand returns the occurrences of d within [windowStart, windowEnd], in date
// order, each carrying amount. A descriptor whose start is after windowEnd
// yields nothing. An absent end date is treated as windowEnd.
func Expand(d Descriptor, amount decimal.Decimal, windowStart, windowEnd time.Time, maxOccurrences int) []Occurrence {
	if d.Pattern == nil {
		return nil
	}
	start := Truncate(d.StartDate)
	end := Truncate(windowEnd)
	if start.After(end) {
		return nil
	}
	if d.EndDate != nil {
		end = minDate(end, Truncate(*d.EndDate))
	}
	from := maxDate(start, Truncate(windowStart))
	if from.After(end) {
		return nil
	}
	if maxOccurrences <= 0 {
		maxOccurrences = defaultCap(d.Pattern)
	}

	switch p := d.Pattern.(type) {
	case Daily:
		return expandDaily(amount, from, end, maxOccurrences)
	case Weekly:
		return expandWeekly(p, start, amount, from, end, maxOccurrences)
	case Monthly:
		return expandMonthly(p, start, amount, from, end, maxOccurrences)
	default:
		panic(fmt.Sprintf("recurrence: unhandled pattern %T", p))
	}
}

func defaultCap(p Pattern) int {
	switch p.(type) {
	case Weekly:
		return DefaultWeeklyCap
	case Monthly:
		return DefaultMonthlyCap
	default:
		return DefaultDailyCap
	}
}

func expandDaily(amount decimal.Decimal, from, end time.Time, limit int) []Occurrence {
	var out []Occurrence
	for day := from; !day.After(end) && len(out) < limit; day = day.AddDate(0, 0, 1) {
		out = append(out, Occurrence{Date: day, Amount: amount})
	}
	return out
}

// expandWeekly walks every day of the range and keeps the ones whose weekday
// is selected and whose calendar week is a multiple of the interval away from
// the start week.
func expandWeekly(p Weekly, start time.Time, amount decimal.Decimal, from, end time.Time, limit int) []Occurrence {
	if p.IntervalWeeks < 1 || p.Weekdays.Empty() {
		return nil
	}
	var out []Occurrence
	for day := from; !day.After(end) && len(out) < limit; day = day.AddDate(0, 0, 1) {
		if !p.Weekdays.Has(day.Weekday()) {
			continue
		}
		if WeekOffset(start, day)%p.IntervalWeeks != 0 {
			continue
		}
		out = append(out, Occurrence{Date: day, Amount: amount})
	}
	return out
}

func expandMonthly(p Monthly, start time.Time, amount decimal.Decimal, from, end time.Time, limit int) []Occurrence {
	if p.IntervalMonths < 1 || p.DayOfMonth < 1 {
		return nil
	}
	var out []Occurrence
	for month := MonthStart(from); !month.After(end) && len(out) < limit; month = month.AddDate(0, 1, 0) {
		if MonthOffset(start, month)%p.IntervalMonths != 0 {
			continue
		}
		day := ClampDay(month.Year(), month.Month(), p.DayOfMonth)
		if day.Before(from) || day.After(end) {
			continue
		}
		out = append(out, Occurrence{Date: day, Amount: amount})
	}
	return out
}

// MonthlyTotal is the aggregated amount a descriptor contributes to one month.
type MonthlyTotal struct {
	DueDate time.Time
	Amount  decimal.Decimal
}

var weeksPerMonth = decimal.NewFromInt(4)

// MonthlyAggregate computes the amount d contributes to the month containing
// month. The formula depends on the pattern:
//
//   - monthly: the full amount once, on the clamped day, in months whose offset
//     from the start month is a multiple of the interval.
//   - weekly: amount × |weekdays| × 4 / intervalWeeks for every month the range
//     overlaps. Months are normalised to four weeks; dashboards rely on it.
//   - daily: amount × the number of days the range overlaps the month.
//
// ok is false when the descriptor contributes nothing to the month.
func MonthlyAggregate(d Descriptor, amount decimal.Decimal, month time.Time) (MonthlyTotal, bool) {
	first, last := MonthStart(month), MonthEnd(month)
	switch p := d.Pattern.(type) {
	case Monthly:
		occ := Expand(d, amount, first, last, 1)
		if len(occ) == 0 {
			return MonthlyTotal{}, false
		}
		return MonthlyTotal{DueDate: occ[0].Date, Amount: amount}, true
	case Weekly:
		if p.IntervalWeeks < 1 || p.Weekdays.Empty() || !d.ActiveBetween(first, last) {
			return MonthlyTotal{}, false
		}
		total := amount.
			Mul(decimal.NewFromInt(int64(p.Weekdays.Len()))).
			Mul(weeksPerMonth).
			Div(decimal.NewFromInt(int64(p.IntervalWeeks)))
		return MonthlyTotal{DueDate: first, Amount: total}, true
	case Daily:
		days := len(Expand(d, amount, first, last, DefaultDailyCap))
		if days == 0 {
			return MonthlyTotal{}, false
		}
		return MonthlyTotal{DueDate: first, Amount: amount.Mul(decimal.NewFromInt(int64(days)))}, true
	case nil:
		return MonthlyTotal{}, false
	default:
		panic(fmt.Sprintf("recurrence: unhandled pattern %T", p))
	}
}
