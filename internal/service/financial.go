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

// FinancialResult counts what one financial materialization did.
type FinancialResult struct {
	Created  int      `json:"created"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Deleted  int      `json:"deleted"`
	Warnings []string `json:"warnings,omitempty"`
}

// entryKey is the upsert key of a derived financial entry.
type entryKey struct {
	kind    model.EntryKind
	dueDate time.Time
	note    string
}

type plannedEntry struct {
	key    entryKey
	amount decimal.Decimal
}

// noteKey identifies the derived rows of one live source description.
type noteKey struct {
	kind model.EntryKind
	note string
}

// financialPlan is the set of derived entries the owner's sources imply,
// in first-seen order.
type financialPlan struct {
	entries []*plannedEntry
	byKey   map[entryKey]*plannedEntry
	// owned notes belong to sources that expanded; only their rows can be
	// stale. Rows of vanished sources are orphans and left to the reconciler.
	owned map[noteKey]bool
	// held notes belong to sources that failed to expand; their rows are
	// neither written nor treated as stale.
	held map[string]bool
}

func newFinancialPlan() *financialPlan {
	return &financialPlan{
		byKey: make(map[entryKey]*plannedEntry),
		owned: make(map[noteKey]bool),
		held:  make(map[string]bool),
	}
}

// add sums amounts per key so sources sharing a description and kind
// collapse into one row instead of overwriting each other.
func (p *financialPlan) add(key entryKey, amount decimal.Decimal) {
	if pe, ok := p.byKey[key]; ok {
		pe.amount = pe.amount.Add(amount)
		return
	}
	pe := &plannedEntry{key: key, amount: amount}
	p.byKey[key] = pe
	p.entries = append(p.entries, pe)
}

// planFinancialEntries computes the monthly aggregate of every derived source
// for each month from firstMonth through lastDay. It is pure.
func planFinancialEntries(sources []*model.SourceRecord, firstMonth, lastDay time.Time) (*financialPlan, []string) {
	plan := newFinancialPlan()
	var failures []string

	for _, src := range sources {
		d, ok := src.Schedule()
		if !ok {
			continue
		}
		note := src.DerivedNote()
		if err := validateDerivedSource(src, d); err != nil {
			plan.held[note] = true
			failures = append(failures, fmt.Sprintf("source %s (%s): %v", src.ID, src.Description, err))
			continue
		}
		plan.owned[noteKey{kind: src.Kind, note: note}] = true
		for month := recurrence.MonthStart(firstMonth); !month.After(lastDay); month = month.AddDate(0, 1, 0) {
			total, ok := recurrence.MonthlyAggregate(d, src.Amount, month)
			if !ok {
				continue
			}
			plan.add(entryKey{kind: src.Kind, dueDate: total.DueDate, note: note}, total.Amount)
		}
	}

	for _, pe := range plan.entries {
		pe.amount = pe.amount.Round(2)
	}
	return plan, failures
}

func validateDerivedSource(src *model.SourceRecord, d recurrence.Descriptor) error {
	if !src.Kind.Valid() {
		return &model.ValidationError{Field: "kind", Reason: "must be revenue or expense"}
	}
	if model.NormalizeDescription(src.Description) == "" {
		return &model.ValidationError{Field: "description", Reason: "is required"}
	}
	return d.Validate()
}

// MaterializeFinancialRecurring upserts one expected entry per month per
// recurring or fixed source for every month intersecting
// [today, today+window]. One source failing does not stop the others; its
// failure is returned as a warning. Expected entries of a live source that the
// plan no longer contains are deleted.
func (s *SchedulingService) MaterializeFinancialRecurring(ctx context.Context, ownerID string) (FinancialResult, error) {
	var result FinancialResult
	err := s.store.WithOwnerLock(ctx, ownerID, func(ctx context.Context) error {
		var runErr error
		result, runErr = s.materializeFinancial(ctx, ownerID)
		return runErr
	})
	return result, err
}

func (s *SchedulingService) materializeFinancial(ctx context.Context, ownerID string) (FinancialResult, error) {
	var result FinancialResult

	loc, err := s.ownerLocation(ctx, ownerID)
	if err != nil {
		return result, err
	}
	today := s.today(loc)
	firstMonth := recurrence.MonthStart(today)
	lastDay := today.AddDate(0, 0, s.financialWindowDays)
	lastMonthEnd := recurrence.MonthEnd(lastDay)

	sources, err := s.store.ListSourceRecords(ctx, ownerID, true)
	if err != nil {
		return result, unavailable("list source records", err)
	}
	existing, err := s.store.ListFinancialEntries(ctx, store.EntryFilter{
		OwnerID:     ownerID,
		From:        &firstMonth,
		To:          &lastMonthEnd,
		DerivedOnly: true,
	})
	if err != nil {
		return result, unavailable("list financial entries", err)
	}

	plan, failures := planFinancialEntries(sources, firstMonth, lastDay)
	for _, f := range failures {
		s.logger.Warn("source record skipped", "component", "financial", "owner_id", ownerID, "err", f)
		result.Warnings = append(result.Warnings, f)
	}

	matched := make(map[string]bool)
	failedKeys := make(map[entryKey]bool)
	for _, pe := range plan.entries {
		id, outcome, err := s.upsertEntry(ctx, ownerID, pe)
		if err != nil {
			failedKeys[pe.key] = true
			msg := fmt.Sprintf("%s %s on %s: %v", pe.key.kind, pe.key.note, recurrence.FormatDate(pe.key.dueDate), err)
			s.logger.Warn("financial entry upsert failed", "component", "financial", "owner_id", ownerID, "err", msg)
			result.Warnings = append(result.Warnings, msg)
			continue
		}
		matched[id] = true
		switch outcome {
		case upsertCreated:
			result.Created++
		case upsertUpdated:
			result.Updated++
		default:
			result.Skipped++
		}
	}

	for _, e := range existing {
		if matched[e.ID] || e.Status != model.EntryExpected || plan.held[e.Note] || !plan.owned[noteKey{kind: e.Kind, note: e.Note}] {
			continue
		}
		if failedKeys[entryKey{kind: e.Kind, dueDate: e.DueDate, note: e.Note}] {
			continue
		}
		if err := s.store.DeleteFinancialEntry(ctx, e.ID); err != nil {
			msg := fmt.Sprintf("delete stale entry %s: %v", e.ID, err)
			s.logger.Warn("stale entry delete failed", "component", "financial", "owner_id", ownerID, "err", msg)
			result.Warnings = append(result.Warnings, msg)
			continue
		}
		result.Deleted++
	}

	s.logger.Info("materialized financial recurrences",
		"component", "financial",
		"owner_id", ownerID,
		"sources", len(sources),
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"deleted", result.Deleted,
		"warnings", len(result.Warnings))
	return result, nil
}

type upsertOutcome int

const (
	upsertSkipped upsertOutcome = iota
	upsertCreated
	upsertUpdated
)

// upsertEntry inserts the planned entry when absent and updates its amount
// when it differs. Status is never touched on update.
func (s *SchedulingService) upsertEntry(ctx context.Context, ownerID string, pe *plannedEntry) (string, upsertOutcome, error) {
	existing, err := s.store.FindFinancialEntry(ctx, ownerID, pe.key.kind, pe.key.dueDate, pe.key.note)
	if err != nil && !store.IsNotFound(err) {
		return "", upsertSkipped, err
	}
	if existing == nil {
		now := s.now()
		entry := &model.FinancialEntry{
			OwnerID:   ownerID,
			Kind:      pe.key.kind,
			Status:    model.EntryExpected,
			Amount:    pe.amount,
			DueDate:   pe.key.dueDate,
			Note:      pe.key.note,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.store.CreateFinancialEntry(ctx, entry); err != nil {
			return "", upsertSkipped, err
		}
		return entry.ID, upsertCreated, nil
	}
	if existing.Amount.Equal(pe.amount) {
		return existing.ID, upsertSkipped, nil
	}
	existing.Amount = pe.amount
	existing.UpdatedAt = s.now()
	if err := s.store.UpdateFinancialEntry(ctx, existing); err != nil {
		return "", upsertSkipped, err
	}
	return existing.ID, upsertUpdated, nil
}
