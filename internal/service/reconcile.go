package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/castlemilk/agenda/backend/internal/model"
	"github.com/castlemilk/agenda/backend/internal/store"
)

// renameDistance is the largest edit distance reported as a possible rename.
// The distance must also stay within a third of the description's length so
// short words like "Gym" and "Tax" are not paired.
const renameDistance = 3

// ReconcileResult reports one orphan reconciliation.
type ReconcileResult struct {
	DeletedCount int      `json:"deleted_count"`
	Warnings     []string `json:"warnings,omitempty"`
}

type sourceKey struct {
	kind        model.EntryKind
	description string
}

// liveSources indexes source descriptions by kind for orphan checks.
type liveSources struct {
	keys   map[sourceKey]bool
	byKind map[model.EntryKind][]string
}

func newLiveSources(sources []*model.SourceRecord) liveSources {
	ls := liveSources{
		keys:   make(map[sourceKey]bool, len(sources)),
		byKind: make(map[model.EntryKind][]string),
	}
	for _, src := range sources {
		desc := model.NormalizeDescription(src.Description)
		key := sourceKey{kind: src.Kind, description: desc}
		if ls.keys[key] {
			continue
		}
		ls.keys[key] = true
		ls.byKind[src.Kind] = append(ls.byKind[src.Kind], desc)
	}
	return ls
}

// orphaned reports whether e is a derived entry whose source no longer exists.
// Matching is exact on the normalised description and kind; entries whose
// note is not a derived note are never orphans.
func (ls liveSources) orphaned(e *model.FinancialEntry) (string, bool) {
	desc, ok := model.ParseDerivedNote(e.Note)
	if !ok {
		return "", false
	}
	desc = model.NormalizeDescription(desc)
	return desc, !ls.keys[sourceKey{kind: e.Kind, description: desc}]
}

// lookalike returns a live description of the same kind that desc may have
// been renamed to, or "".
func (ls liveSources) lookalike(kind model.EntryKind, desc string) string {
	lower := strings.ToLower(desc)
	for _, live := range ls.byKind[kind] {
		liveLower := strings.ToLower(live)
		if strings.HasPrefix(liveLower, lower) || strings.HasPrefix(lower, liveLower) {
			return live
		}
		if d := levenshtein.ComputeDistance(lower, liveLower); d <= renameDistance && d*3 <= len([]rune(lower)) {
			return live
		}
	}
	return ""
}

// ReconcileOrphans deletes every derived entry of the owner whose source
// record is gone. Orphans that look like a rename of a live source are still
// deleted but reported as warnings.
func (s *SchedulingService) ReconcileOrphans(ctx context.Context, ownerID string) (ReconcileResult, error) {
	var result ReconcileResult
	err := s.store.WithOwnerLock(ctx, ownerID, func(ctx context.Context) error {
		var runErr error
		result, runErr = s.reconcile(ctx, ownerID)
		return runErr
	})
	if err == nil {
		s.reconcileCooldown.Mark(ownerID)
	}
	return result, err
}

func (s *SchedulingService) reconcile(ctx context.Context, ownerID string) (ReconcileResult, error) {
	var result ReconcileResult

	sources, err := s.store.ListSourceRecords(ctx, ownerID, false)
	if err != nil {
		return result, unavailable("list source records", err)
	}
	entries, err := s.store.ListFinancialEntries(ctx, store.EntryFilter{OwnerID: ownerID, DerivedOnly: true})
	if err != nil {
		return result, unavailable("list financial entries", err)
	}

	live := newLiveSources(sources)
	ambiguous := make(map[string]string)
	for _, e := range entries {
		desc, orphan := live.orphaned(e)
		if !orphan {
			continue
		}
		if match := live.lookalike(e.Kind, desc); match != "" {
			ambiguous[desc] = match
		}
		if err := s.store.DeleteFinancialEntry(ctx, e.ID); err != nil {
			s.logger.Warn("orphan delete failed", "component", "reconciler", "owner_id", ownerID, "entry_id", e.ID, "err", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("delete orphan %s: %v", e.ID, err))
			continue
		}
		result.DeletedCount++
	}

	descs := make([]string, 0, len(ambiguous))
	for desc := range ambiguous {
		descs = append(descs, desc)
	}
	sort.Strings(descs)
	for _, desc := range descs {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("removed entries for %q, which resembles existing source %q; check for a rename", desc, ambiguous[desc]))
	}

	s.logger.Info("reconciled orphans",
		"component", "reconciler",
		"owner_id", ownerID,
		"deleted", result.DeletedCount,
		"warnings", len(result.Warnings))
	return result, nil
}
