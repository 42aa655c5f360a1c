package service

import (
	"context"
	"fmt"
	"time"

	"github.com/castlemilk/agenda/backend/internal/model"
	"github.com/castlemilk/agenda/backend/internal/recurrence"
	"github.com/castlemilk/agenda/backend/internal/store"
	"github.com/shopspring/decimal"
)

const (
	defaultMonthsBack    = 6
	defaultMonthsForward = 6
	maxSeriesMonths      = 24
)

// MonthPoint is one month of the dashboard series.
type MonthPoint struct {
	Month     string          `json:"month"`
	Realized  decimal.Decimal `json:"realized"`
	Expenses  decimal.Decimal `json:"expenses"`
	Scheduled decimal.Decimal `json:"scheduled"`
}

// MonthlySeries holds history (oldest first, ending with the current month)
// and projection (the current month followed by future months).
type MonthlySeries struct {
	History    []MonthPoint `json:"history"`
	Projection []MonthPoint `json:"projection"`
}

// OccurrenceKey identifies one appointment occurrence across materialized
// rows and virtual rule re-expansion. Never persisted.
type OccurrenceKey string

// RuleOccurrenceKey keys a rule-derived occurrence.
func RuleOccurrenceKey(ruleID string, date time.Time) OccurrenceKey {
	return OccurrenceKey(ruleID + "#" + recurrence.FormatDate(date))
}

// AppointmentOccurrenceKey keys an appointment row: rule-derived rows share the
// key of their virtual occurrence, manual rows are keyed by ID.
func AppointmentOccurrenceKey(a *model.Appointment) OccurrenceKey {
	if a.Manual() {
		return OccurrenceKey("appointment#" + a.ID)
	}
	return RuleOccurrenceKey(a.RuleID, a.Date)
}

// seriesInput is everything buildMonthlySeries reads. Rows are fetched once
// per call; nothing is cached between calls.
type seriesInput struct {
	today         time.Time
	monthsBack    int
	monthsForward int
	appointments  []*model.Appointment
	entries       []*model.FinancialEntry
	rules         []*model.RecurrenceRule
	sources       []*model.SourceRecord
}

func clampMonths(n, def int) int {
	if n <= 0 {
		return def
	}
	if n > maxSeriesMonths {
		return maxSeriesMonths
	}
	return n
}

// GetMonthlySeries computes realized and scheduled totals per month. When the
// owner's cooldown allows, orphans are reconciled first; a failed reconcile is
// logged and the series is still served.
func (s *SchedulingService) GetMonthlySeries(ctx context.Context, ownerID string, monthsBack, monthsForward int) (MonthlySeries, error) {
	monthsBack = clampMonths(monthsBack, defaultMonthsBack)
	monthsForward = clampMonths(monthsForward, defaultMonthsForward)

	if s.reconcileCooldown.Allow(ownerID) {
		if _, err := s.ReconcileOrphans(ctx, ownerID); err != nil {
			s.logger.Warn("opportunistic reconcile failed", "component", "series", "owner_id", ownerID, "err", err)
		}
	}

	loc, err := s.ownerLocation(ctx, ownerID)
	if err != nil {
		return MonthlySeries{}, err
	}
	today := s.today(loc)
	from := recurrence.MonthStart(today).AddDate(0, -(monthsBack - 1), 0)
	to := recurrence.MonthEnd(recurrence.MonthStart(today).AddDate(0, monthsForward, 0))

	in := seriesInput{today: today, monthsBack: monthsBack, monthsForward: monthsForward}
	if in.appointments, err = s.store.ListAppointments(ctx, store.AppointmentFilter{OwnerID: ownerID, From: &from, To: &to}); err != nil {
		return MonthlySeries{}, unavailable("list appointments", err)
	}
	if in.entries, err = s.store.ListFinancialEntries(ctx, store.EntryFilter{OwnerID: ownerID, From: &from, To: &to}); err != nil {
		return MonthlySeries{}, unavailable("list financial entries", err)
	}
	if in.rules, err = s.store.ListRecurrenceRules(ctx, store.RuleFilter{OwnerID: ownerID, ActiveOnly: true}); err != nil {
		return MonthlySeries{}, unavailable("list recurrence rules", err)
	}
	if in.sources, err = s.store.ListSourceRecords(ctx, ownerID, false); err != nil {
		return MonthlySeries{}, unavailable("list source records", err)
	}

	return buildMonthlySeries(in), nil
}

// buildMonthlySeries is pure: the same input always yields the same series.
func buildMonthlySeries(in seriesInput) MonthlySeries {
	live := newLiveSources(in.sources)

	// Any appointment, whatever its status, suppresses the virtual occurrence
	// of the same rule and date or the same client and date.
	occupied := make(map[string]bool, 2*len(in.appointments))
	for _, a := range in.appointments {
		if !a.Manual() {
			occupied["rule:"+a.RuleID+"#"+recurrence.FormatDate(a.Date)] = true
		}
		occupied["client:"+a.ClientID+"#"+recurrence.FormatDate(a.Date)] = true
	}

	point := func(month time.Time, current, future bool) MonthPoint {
		first, last := recurrence.MonthStart(month), recurrence.MonthEnd(month)
		realized, expenses := decimal.Zero, decimal.Zero

		for _, e := range in.entries {
			if e.DueDate.Before(first) || e.DueDate.After(last) {
				continue
			}
			if current && e.DueDate.After(in.today) {
				continue
			}
			if _, orphan := live.orphaned(e); orphan {
				continue
			}
			switch e.Kind {
			case model.KindRevenue:
				realized = realized.Add(e.Amount)
			case model.KindExpense:
				expenses = expenses.Add(e.Amount)
			}
		}

		if !future {
			for _, a := range in.appointments {
				if a.Status == model.AppointmentCompleted && !a.Date.Before(first) && !a.Date.After(last) {
					realized = realized.Add(a.Amount)
				}
			}
		}

		return MonthPoint{
			Month:     recurrence.MonthKey(first),
			Realized:  realized.Round(2),
			Expenses:  expenses.Round(2),
			Scheduled: scheduledTotal(first, last, in.appointments, in.rules, occupied).Round(2),
		}
	}

	current := recurrence.MonthStart(in.today)
	series := MonthlySeries{
		History:    make([]MonthPoint, 0, in.monthsBack),
		Projection: make([]MonthPoint, 0, in.monthsForward+1),
	}
	for i := in.monthsBack - 1; i > 0; i-- {
		series.History = append(series.History, point(current.AddDate(0, -i, 0), false, false))
	}
	currentPoint := point(current, true, false)
	series.History = append(series.History, currentPoint)
	series.Projection = append(series.Projection, currentPoint)
	for j := 1; j <= in.monthsForward; j++ {
		series.Projection = append(series.Projection, point(current.AddDate(0, j, 0), false, true))
	}
	return series
}

// scheduledTotal sums scheduled appointments in [first, last] plus the virtual
// occurrences of active rules that no appointment already covers. Each
// OccurrenceKey is counted once, and a manual appointment takes the place of
// the rule occurrence for the same client and date, persisted or virtual.
func scheduledTotal(first, last time.Time, appts []*model.Appointment, rules []*model.RecurrenceRule, occupied map[string]bool) decimal.Decimal {
	total := decimal.Zero
	counted := make(map[OccurrenceKey]bool)

	manualDays := make(map[string]bool)
	for _, a := range appts {
		if a.Manual() {
			manualDays[a.ClientID+"#"+recurrence.FormatDate(a.Date)] = true
		}
	}

	for _, a := range appts {
		if a.Status != model.AppointmentScheduled || a.Date.Before(first) || a.Date.After(last) {
			continue
		}
		if !a.Manual() && manualDays[a.ClientID+"#"+recurrence.FormatDate(a.Date)] {
			continue
		}
		key := AppointmentOccurrenceKey(a)
		if counted[key] {
			continue
		}
		counted[key] = true
		total = total.Add(a.Amount)
	}

	for _, r := range rules {
		if !r.Active || r.Validate() != nil {
			continue
		}
		for _, occ := range recurrence.Expand(r.Descriptor(), r.Amount, first, last, 0) {
			key := RuleOccurrenceKey(r.ID, occ.Date)
			date := recurrence.FormatDate(occ.Date)
			if counted[key] || occupied["rule:"+r.ID+"#"+date] || occupied["client:"+r.ClientID+"#"+date] {
				continue
			}
			counted[key] = true
			total = total.Add(occ.Amount)
		}
	}
	return total
}

func (p MonthPoint) String() string {
	return fmt.Sprintf("%s realized=%s expenses=%s scheduled=%s", p.Month, p.Realized, p.Expenses, p.Scheduled)
}
