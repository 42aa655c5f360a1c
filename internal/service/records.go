package service

import (
	"context"
	"strings"
	"time"

	"github.com/castlemilk/agenda/backend/internal/model"
	"github.com/castlemilk/agenda/backend/internal/recurrence"
	"github.com/castlemilk/agenda/backend/internal/store"
)

// ClientDeletion reports the cascade performed by DeleteClient.
type ClientDeletion struct {
	AppointmentsDeleted int `json:"appointments_deleted"`
	RulesDeactivated    int `json:"rules_deactivated"`
}

// SourceChange reports what a source record write triggered.
type SourceChange struct {
	Record       *model.SourceRecord   `json:"record,omitempty"`
	Entry        *model.FinancialEntry `json:"entry,omitempty"`
	Materialized FinancialResult       `json:"materialized"`
	Reconciled   ReconcileResult       `json:"reconciled"`
}

// lookupError keeps not-found errors as they are and marks anything else as
// a datastore failure.
func lookupError(operation string, err error) error {
	if store.IsNotFound(err) {
		return err
	}
	return unavailable(operation, err)
}

// SetOwnerTimezone declares the IANA zone every date of the owner is computed in.
func (s *SchedulingService) SetOwnerTimezone(ctx context.Context, ownerID, timezone string) (*model.Owner, error) {
	if _, err := time.LoadLocation(timezone); err != nil || timezone == "" {
		return nil, &model.ValidationError{Field: "timezone", Reason: "unknown zone " + timezone}
	}
	owner, err := s.store.GetOwner(ctx, ownerID)
	if err != nil {
		if !store.IsNotFound(err) {
			return nil, unavailable("get owner", err)
		}
		owner = &model.Owner{ID: ownerID, CreatedAt: s.now()}
	}
	owner.Timezone = timezone
	owner.UpdatedAt = s.now()
	if err := s.store.UpsertOwner(ctx, owner); err != nil {
		return nil, unavailable("upsert owner", err)
	}
	return owner, nil
}

// CreateClient stores a new client for the owner.
func (s *SchedulingService) CreateClient(ctx context.Context, ownerID, name string) (*model.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &model.ValidationError{Field: "name", Reason: "is required"}
	}
	client := &model.Client{OwnerID: ownerID, Name: name, CreatedAt: s.now()}
	if err := s.store.CreateClient(ctx, client); err != nil {
		return nil, unavailable("create client", err)
	}
	return client, nil
}

// DeleteClient removes the client with all of its appointments and
// deactivates its rules so nothing is materialized for it again.
func (s *SchedulingService) DeleteClient(ctx context.Context, clientID string) (ClientDeletion, error) {
	var out ClientDeletion
	client, err := s.store.GetClient(ctx, clientID)
	if err != nil {
		return out, lookupError("get client", err)
	}

	err = s.store.WithOwnerLock(ctx, client.OwnerID, func(ctx context.Context) error {
		rules, err := s.store.ListRecurrenceRules(ctx, store.RuleFilter{OwnerID: client.OwnerID, ClientID: clientID, ActiveOnly: true})
		if err != nil {
			return unavailable("list client rules", err)
		}
		for _, rule := range rules {
			rule.Active = false
			rule.UpdatedAt = s.now()
			if err := s.store.UpdateRecurrenceRule(ctx, rule); err != nil {
				return unavailable("deactivate rule", err)
			}
			out.RulesDeactivated++
		}

		appts, err := s.store.ListAppointments(ctx, store.AppointmentFilter{OwnerID: client.OwnerID, ClientID: clientID})
		if err != nil {
			return unavailable("list client appointments", err)
		}
		for _, appt := range appts {
			if err := s.store.DeleteAppointment(ctx, appt.ID); err != nil {
				return unavailable("delete appointment", err)
			}
			out.AppointmentsDeleted++
		}

		if err := s.store.DeleteClient(ctx, clientID); err != nil {
			return lookupError("delete client", err)
		}
		return nil
	})
	if err != nil {
		return out, err
	}

	s.logger.Info("deleted client",
		"component", "records",
		"owner_id", client.OwnerID,
		"client_id", clientID,
		"appointments_deleted", out.AppointmentsDeleted,
		"rules_deactivated", out.RulesDeactivated)
	return out, nil
}

// checkClient fails validation when clientID is not one of the owner's clients.
func (s *SchedulingService) checkClient(ctx context.Context, ownerID, clientID string) error {
	if clientID == "" {
		return &model.ValidationError{Field: "client_id", Reason: "is required"}
	}
	client, err := s.store.GetClient(ctx, clientID)
	if err != nil {
		if store.IsNotFound(err) {
			return &model.ValidationError{Field: "client_id", Reason: "unknown client " + clientID}
		}
		return unavailable("get client", err)
	}
	if client.OwnerID != ownerID {
		return &model.ValidationError{Field: "client_id", Reason: "unknown client " + clientID}
	}
	return nil
}

func normalizeRule(rule *model.RecurrenceRule) {
	rule.Title = strings.TrimSpace(rule.Title)
	rule.StartDate = recurrence.Truncate(rule.StartDate)
	if rule.EndDate != nil {
		end := recurrence.Truncate(*rule.EndDate)
		rule.EndDate = &end
	}
	if rule.IntervalWeeks == 0 {
		rule.IntervalWeeks = 1
	}
	rule.Amount = rule.Amount.Round(2)
}

// CreateRecurrenceRule stores an active rule and materializes its window.
func (s *SchedulingService) CreateRecurrenceRule(ctx context.Context, rule *model.RecurrenceRule) (*model.RecurrenceRule, MaterializeResult, error) {
	normalizeRule(rule)
	rule.Active = true
	if err := rule.Validate(); err != nil {
		return nil, MaterializeResult{}, err
	}
	if err := s.checkClient(ctx, rule.OwnerID, rule.ClientID); err != nil {
		return nil, MaterializeResult{}, err
	}

	now := s.now()
	rule.CreatedAt = now
	rule.UpdatedAt = now
	if err := s.store.CreateRecurrenceRule(ctx, rule); err != nil {
		return nil, MaterializeResult{}, unavailable("create recurrence rule", err)
	}

	result, err := s.MaterializeAppointmentRule(ctx, rule.ID)
	if err != nil {
		return rule, result, err
	}
	return rule, result, nil
}

// UpdateRecurrenceRule replaces the rule's schedule and re-materializes it.
// Frozen appointments keep their values; scheduled ones follow the rule.
func (s *SchedulingService) UpdateRecurrenceRule(ctx context.Context, rule *model.RecurrenceRule) (*model.RecurrenceRule, MaterializeResult, error) {
	existing, err := s.store.GetRecurrenceRule(ctx, rule.ID)
	if err != nil {
		return nil, MaterializeResult{}, lookupError("get recurrence rule", err)
	}

	normalizeRule(rule)
	rule.OwnerID = existing.OwnerID
	rule.Active = existing.Active
	rule.CreatedAt = existing.CreatedAt
	if err := rule.Validate(); err != nil {
		return nil, MaterializeResult{}, err
	}
	if err := s.checkClient(ctx, rule.OwnerID, rule.ClientID); err != nil {
		return nil, MaterializeResult{}, err
	}

	rule.UpdatedAt = s.now()
	if err := s.store.UpdateRecurrenceRule(ctx, rule); err != nil {
		return nil, MaterializeResult{}, lookupError("update recurrence rule", err)
	}
	if !rule.Active {
		return rule, MaterializeResult{}, nil
	}

	result, err := s.MaterializeAppointmentRule(ctx, rule.ID)
	return rule, result, err
}

// DeactivateRecurrenceRule stops a rule and removes its future scheduled
// appointments. Completed and cancelled appointments stay as history.
func (s *SchedulingService) DeactivateRecurrenceRule(ctx context.Context, ruleID string) (int, error) {
	rule, err := s.store.GetRecurrenceRule(ctx, ruleID)
	if err != nil {
		return 0, lookupError("get recurrence rule", err)
	}

	removed := 0
	err = s.store.WithOwnerLock(ctx, rule.OwnerID, func(ctx context.Context) error {
		if rule.Active {
			rule.Active = false
			rule.UpdatedAt = s.now()
			if err := s.store.UpdateRecurrenceRule(ctx, rule); err != nil {
				return lookupError("update recurrence rule", err)
			}
		}
		var err error
		removed, err = s.removeFutureScheduled(ctx, rule)
		return err
	})
	if err != nil {
		return removed, err
	}

	s.logger.Info("deactivated recurrence rule",
		"component", "records",
		"owner_id", rule.OwnerID,
		"rule_id", rule.ID,
		"removed", removed)
	return removed, nil
}

// CreateAppointment stores a manual appointment, one that no rule owns.
func (s *SchedulingService) CreateAppointment(ctx context.Context, appt *model.Appointment) (*model.Appointment, error) {
	appt.RuleID = ""
	appt.Date = recurrence.Truncate(appt.Date)
	appt.Amount = appt.Amount.Round(2)
	if appt.Status == "" {
		appt.Status = model.AppointmentScheduled
	}

	if appt.Date.IsZero() {
		return nil, &model.ValidationError{Field: "date", Reason: "is required"}
	}
	if _, err := time.Parse("15:04", appt.Time); err != nil {
		return nil, &model.ValidationError{Field: "time", Reason: "must be HH:MM"}
	}
	if appt.Amount.IsNegative() {
		return nil, &model.ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	if !appt.Status.Valid() {
		return nil, &model.ValidationError{Field: "status", Reason: "unknown status " + string(appt.Status)}
	}
	if err := s.checkClient(ctx, appt.OwnerID, appt.ClientID); err != nil {
		return nil, err
	}

	now := s.now()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	if err := s.store.CreateAppointment(ctx, appt); err != nil {
		return nil, unavailable("create appointment", err)
	}
	return appt, nil
}

// SetAppointmentStatus moves an appointment through its lifecycle. Once
// completed or cancelled, materialization never rewrites it.
func (s *SchedulingService) SetAppointmentStatus(ctx context.Context, apptID string, status model.AppointmentStatus) (*model.Appointment, error) {
	if !status.Valid() {
		return nil, &model.ValidationError{Field: "status", Reason: "unknown status " + string(status)}
	}
	appt, err := s.store.GetAppointment(ctx, apptID)
	if err != nil {
		return nil, lookupError("get appointment", err)
	}
	if appt.Status == status {
		return appt, nil
	}
	appt.Status = status
	appt.UpdatedAt = s.now()
	if err := s.store.UpdateAppointment(ctx, appt); err != nil {
		return nil, lookupError("update appointment", err)
	}
	return appt, nil
}

func normalizeSource(rec *model.SourceRecord) {
	rec.Description = model.NormalizeDescription(rec.Description)
	rec.Category = strings.TrimSpace(rec.Category)
	rec.CompetenceDate = recurrence.Truncate(rec.CompetenceDate)
	rec.Amount = rec.Amount.Round(2)
	if rec.Recurrence != nil {
		d := *rec.Recurrence
		d.StartDate = recurrence.Truncate(d.StartDate)
		if d.StartDate.IsZero() {
			d.StartDate = rec.CompetenceDate
		}
		if d.EndDate != nil {
			end := recurrence.Truncate(*d.EndDate)
			d.EndDate = &end
		}
		rec.Recurrence = &d
	}
	if !rec.IsRecurring {
		rec.Recurrence = nil
	}
}

// CreateSourceRecord stores a source record. A single record is posted at
// once as a confirmed entry; recurring and fixed ones are materialized.
func (s *SchedulingService) CreateSourceRecord(ctx context.Context, rec *model.SourceRecord) (SourceChange, error) {
	normalizeSource(rec)
	if err := rec.Validate(); err != nil {
		return SourceChange{}, err
	}

	now := s.now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if err := s.store.CreateSourceRecord(ctx, rec); err != nil {
		return SourceChange{}, unavailable("create source record", err)
	}
	change := SourceChange{Record: rec}

	if !rec.Derived() {
		entry := &model.FinancialEntry{
			OwnerID:   rec.OwnerID,
			Kind:      rec.Kind,
			Status:    model.EntryConfirmed,
			Amount:    rec.Amount,
			DueDate:   rec.CompetenceDate,
			Note:      rec.Description,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.store.CreateFinancialEntry(ctx, entry); err != nil {
			return change, unavailable("create financial entry", err)
		}
		change.Entry = entry
		return change, nil
	}

	result, err := s.MaterializeFinancialRecurring(ctx, rec.OwnerID)
	change.Materialized = result
	return change, err
}

// UpdateSourceRecord rewrites a source record, re-materializes the owner and
// reconciles entries a rename left behind. A single record's posted entry is
// not touched.
func (s *SchedulingService) UpdateSourceRecord(ctx context.Context, rec *model.SourceRecord) (SourceChange, error) {
	existing, err := s.store.GetSourceRecord(ctx, rec.ID)
	if err != nil {
		return SourceChange{}, lookupError("get source record", err)
	}

	normalizeSource(rec)
	rec.OwnerID = existing.OwnerID
	rec.CreatedAt = existing.CreatedAt
	if err := rec.Validate(); err != nil {
		return SourceChange{}, err
	}
	rec.UpdatedAt = s.now()
	if err := s.store.UpdateSourceRecord(ctx, rec); err != nil {
		return SourceChange{}, lookupError("update source record", err)
	}
	change := SourceChange{Record: rec}

	if rec.Derived() || existing.Derived() {
		if change.Materialized, err = s.MaterializeFinancialRecurring(ctx, rec.OwnerID); err != nil {
			return change, err
		}
	}
	change.Reconciled, err = s.ReconcileOrphans(ctx, rec.OwnerID)
	return change, err
}

// DeleteSourceRecord removes a source record and reconciles its derived
// entries away.
func (s *SchedulingService) DeleteSourceRecord(ctx context.Context, recordID string) (SourceChange, error) {
	rec, err := s.store.GetSourceRecord(ctx, recordID)
	if err != nil {
		return SourceChange{}, lookupError("get source record", err)
	}
	if err := s.store.DeleteSourceRecord(ctx, recordID); err != nil {
		return SourceChange{}, lookupError("delete source record", err)
	}

	var change SourceChange
	change.Reconciled, err = s.ReconcileOrphans(ctx, rec.OwnerID)
	return change, err
}
