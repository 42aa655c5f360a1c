package service

import (
	"context"
	"fmt"
	"time"

	"github.com/castlemilk/agenda/backend/internal/model"
	"github.com/castlemilk/agenda/backend/internal/recurrence"
	"github.com/castlemilk/agenda/backend/internal/store"
)

// MaterializeResult counts what one appointment materialization did.
type MaterializeResult struct {
	Created  int      `json:"created"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Deleted  int      `json:"deleted"`
	Warnings []string `json:"warnings,omitempty"`
}

// MaterializeAppointmentRule upserts the rule's appointments for
// [today, today+window] in the rule's zone. Completed and cancelled rows are
// frozen. Scheduled rows the rule no longer produces are removed. Inactive
// rules are a no-op; invalid active rules fail before any write.
func (s *SchedulingService) MaterializeAppointmentRule(ctx context.Context, ruleID string) (MaterializeResult, error) {
	rule, err := s.store.GetRecurrenceRule(ctx, ruleID)
	if err != nil {
		if store.IsNotFound(err) {
			return MaterializeResult{}, err
		}
		return MaterializeResult{}, unavailable("get recurrence rule", err)
	}
	if !rule.Active {
		return MaterializeResult{}, nil
	}
	if err := rule.Validate(); err != nil {
		return MaterializeResult{}, err
	}

	var result MaterializeResult
	err = s.store.WithOwnerLock(ctx, rule.OwnerID, func(ctx context.Context) error {
		var runErr error
		result, runErr = s.materializeRule(ctx, rule)
		return runErr
	})
	return result, err
}

func (s *SchedulingService) materializeRule(ctx context.Context, rule *model.RecurrenceRule) (MaterializeResult, error) {
	var result MaterializeResult

	ownerLoc, err := s.ownerLocation(ctx, rule.OwnerID)
	if err != nil {
		return result, err
	}
	today := s.today(rule.Location(ownerLoc))
	windowEnd := today.AddDate(0, 0, s.appointmentWindowDays)
	amount := rule.Amount.Round(2)

	occurrences := recurrence.Expand(rule.Descriptor(), amount, today, windowEnd, recurrence.DefaultWeeklyCap)

	// When the cap truncates the expansion, only the covered prefix of the
	// window can be judged for stale rows.
	covered := windowEnd
	if len(occurrences) == recurrence.DefaultWeeklyCap {
		covered = occurrences[len(occurrences)-1].Date
	}

	wanted := make(map[time.Time]bool, len(occurrences))
	for _, occ := range occurrences {
		wanted[occ.Date] = true

		existing, err := s.store.FindRuleAppointment(ctx, rule.ID, occ.Date)
		switch {
		case store.IsNotFound(err):
			now := s.now()
			appt := &model.Appointment{
				OwnerID:   rule.OwnerID,
				RuleID:    rule.ID,
				ClientID:  rule.ClientID,
				Date:      occ.Date,
				Time:      rule.TimeOfDay,
				Amount:    amount,
				Status:    model.AppointmentScheduled,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.store.CreateAppointment(ctx, appt); err != nil {
				result.Warnings = append(result.Warnings, s.occurrenceFailure(rule, occ.Date, "create", err))
				continue
			}
			result.Created++
		case err != nil:
			result.Warnings = append(result.Warnings, s.occurrenceFailure(rule, occ.Date, "find", err))
		case existing.Status.Frozen():
			result.Skipped++
		case !existing.Amount.Equal(amount) || existing.Time != rule.TimeOfDay || existing.ClientID != rule.ClientID:
			existing.Amount = amount
			existing.Time = rule.TimeOfDay
			existing.ClientID = rule.ClientID
			existing.UpdatedAt = s.now()
			if err := s.store.UpdateAppointment(ctx, existing); err != nil {
				result.Warnings = append(result.Warnings, s.occurrenceFailure(rule, occ.Date, "update", err))
				continue
			}
			result.Updated++
		default:
			result.Skipped++
		}
	}

	scheduled, err := s.store.ListAppointments(ctx, store.AppointmentFilter{
		OwnerID:  rule.OwnerID,
		RuleID:   rule.ID,
		From:     &today,
		To:       &covered,
		Statuses: []model.AppointmentStatus{model.AppointmentScheduled},
	})
	if err != nil {
		return result, unavailable("list rule appointments", err)
	}
	for _, appt := range scheduled {
		if wanted[appt.Date] {
			continue
		}
		if err := s.store.DeleteAppointment(ctx, appt.ID); err != nil {
			result.Warnings = append(result.Warnings, s.occurrenceFailure(rule, appt.Date, "delete stale", err))
			continue
		}
		result.Deleted++
	}

	s.logger.Info("materialized appointment rule",
		"component", "appointments",
		"rule_id", rule.ID,
		"owner_id", rule.OwnerID,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"deleted", result.Deleted,
		"warnings", len(result.Warnings))
	return result, nil
}

func (s *SchedulingService) occurrenceFailure(rule *model.RecurrenceRule, date time.Time, op string, err error) string {
	s.logger.Warn("appointment upsert failed",
		"component", "appointments",
		"rule_id", rule.ID,
		"date", recurrence.FormatDate(date),
		"op", op,
		"err", err)
	return fmt.Sprintf("rule %s on %s: %s: %v", rule.ID, recurrence.FormatDate(date), op, err)
}

// removeFutureScheduled deletes the rule's scheduled appointments from today on.
// Completed and cancelled rows stay as history.
func (s *SchedulingService) removeFutureScheduled(ctx context.Context, rule *model.RecurrenceRule) (int, error) {
	ownerLoc, err := s.ownerLocation(ctx, rule.OwnerID)
	if err != nil {
		return 0, err
	}
	today := s.today(rule.Location(ownerLoc))

	appts, err := s.store.ListAppointments(ctx, store.AppointmentFilter{
		OwnerID:  rule.OwnerID,
		RuleID:   rule.ID,
		From:     &today,
		Statuses: []model.AppointmentStatus{model.AppointmentScheduled},
	})
	if err != nil {
		return 0, unavailable("list rule appointments", err)
	}
	removed := 0
	for _, appt := range appts {
		if err := s.store.DeleteAppointment(ctx, appt.ID); err != nil {
			return removed, unavailable("delete appointment", err)
		}
		removed++
	}
	return removed, nil
}
