package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/castlemilk/agenda/backend/internal/store"
)

// OwnerRun is the outcome of advancing one owner's rolling window.
type OwnerRun struct {
	OwnerID      string            `json:"owner_id"`
	Rules        int               `json:"rules"`
	Appointments MaterializeResult `json:"appointments"`
	Financial    FinancialResult   `json:"financial"`
	Reconciled   ReconcileResult   `json:"reconciled"`
	Warnings     []string          `json:"warnings,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// RunReport summarises one scheduled pass over every owner.
type RunReport struct {
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
	Owners     []OwnerRun `json:"owners"`
	Failed     int        `json:"failed"`
}

// AdvanceWindow re-materializes every active rule and the financial sources
// of the owner, then reconciles orphans. Rule failures are warnings; a
// datastore failure aborts the owner.
func (s *SchedulingService) AdvanceWindow(ctx context.Context, ownerID string) (OwnerRun, error) {
	run := OwnerRun{OwnerID: ownerID}

	rules, err := s.store.ListRecurrenceRules(ctx, store.RuleFilter{OwnerID: ownerID, ActiveOnly: true})
	if err != nil {
		return run, unavailable("list recurrence rules", err)
	}
	run.Rules = len(rules)

	for _, rule := range rules {
		res, err := s.MaterializeAppointmentRule(ctx, rule.ID)
		if err != nil {
			if errors.Is(err, ErrDatastoreUnavailable) || ctx.Err() != nil {
				return run, err
			}
			run.Warnings = append(run.Warnings, fmt.Sprintf("rule %s: %v", rule.ID, err))
			continue
		}
		run.Appointments.Created += res.Created
		run.Appointments.Updated += res.Updated
		run.Appointments.Skipped += res.Skipped
		run.Appointments.Deleted += res.Deleted
		run.Appointments.Warnings = append(run.Appointments.Warnings, res.Warnings...)
	}

	if run.Financial, err = s.MaterializeFinancialRecurring(ctx, ownerID); err != nil {
		return run, err
	}
	if run.Reconciled, err = s.ReconcileOrphans(ctx, ownerID); err != nil {
		return run, err
	}
	return run, nil
}

// AdvanceAll advances every known owner and archives the report when a sink
// is configured. One owner failing does not stop the pass.
func (s *SchedulingService) AdvanceAll(ctx context.Context) (RunReport, error) {
	report := RunReport{StartedAt: s.now()}

	owners, err := s.store.ListOwnerIDs(ctx)
	if err != nil {
		return report, unavailable("list owners", err)
	}

	for _, ownerID := range owners {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		run, err := s.AdvanceWindow(ctx, ownerID)
		if err != nil {
			run.Error = err.Error()
			report.Failed++
			s.logger.Error("advance window failed", "component", "runs", "owner_id", ownerID, "err", err)
		}
		report.Owners = append(report.Owners, run)
	}
	report.FinishedAt = s.now()

	s.logger.Info("advanced rolling windows",
		"component", "runs",
		"owners", len(owners),
		"failed", report.Failed,
		"duration", report.FinishedAt.Sub(report.StartedAt))

	if s.reports != nil {
		name := report.StartedAt.UTC().Format("20060102T150405Z") + ".json"
		if err := s.reports.WriteJSON(ctx, name, report); err != nil {
			s.logger.Warn("run report not archived", "component", "runs", "name", name, "err", err)
		}
	}
	return report, nil
}
