// Package model holds the rows the scheduling engine reads and writes.
package model

import (
	"strings"
	"time"

	"github.com/castlemilk/agenda/backend/internal/recurrence"
	"github.com/shopspring/decimal"
)

// ValidationError reports a malformed rule or record.
type ValidationError = recurrence.ValidationError

// EntryKind tells revenue from expense for source records and financial entries.
type EntryKind string

const (
	KindRevenue EntryKind = "revenue"
	KindExpense EntryKind = "expense"
)

// Valid reports whether k is a known kind.
func (k EntryKind) Valid() bool {
	return k == KindRevenue || k == KindExpense
}

// EntryStatus is the lifecycle state of a financial entry.
type EntryStatus string

const (
	EntryExpected  EntryStatus = "expected"
	EntryConfirmed EntryStatus = "confirmed"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

// Frozen reports whether materialization must leave the appointment alone.
func (s AppointmentStatus) Frozen() bool {
	return s == AppointmentCompleted || s == AppointmentCancelled
}

// Owner is a tenant. Every date computation for its rows is anchored to Timezone.
type Owner struct {
	ID        string    `json:"id"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Client is a customer of the owner. Deleting one cascades to its appointments
// and deactivates its rules.
type Client struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// RecurrenceRule describes recurring appointments for a client.
type RecurrenceRule struct {
	ID            string                `json:"id"`
	OwnerID       string                `json:"owner_id"`
	ClientID      string                `json:"client_id"`
	Title         string                `json:"title"`
	Weekdays      recurrence.WeekdaySet `json:"weekdays"`
	TimeOfDay     string                `json:"time_of_day"`
	Timezone      string                `json:"timezone"`
	StartDate     time.Time             `json:"start_date"`
	EndDate       *time.Time            `json:"end_date,omitempty"`
	IntervalWeeks int                   `json:"interval_weeks"`
	Amount        decimal.Decimal       `json:"amount"`
	Active        bool                  `json:"active"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// Descriptor returns the weekly recurrence the rule implies.
func (r *RecurrenceRule) Descriptor() recurrence.Descriptor {
	return recurrence.Descriptor{
		Pattern:   recurrence.Weekly{Weekdays: r.Weekdays, IntervalWeeks: r.IntervalWeeks},
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
}

// Location resolves the rule's zone, falling back to the owner's.
func (r *RecurrenceRule) Location(fallback *time.Location) *time.Location {
	return recurrence.LoadLocation(r.Timezone, fallback)
}

// Validate rejects rules that cannot be materialized.
func (r *RecurrenceRule) Validate() error {
	if r.ClientID == "" {
		return &ValidationError{Field: "client_id", Reason: "is required"}
	}
	if r.Active && r.Weekdays.Empty() {
		return &ValidationError{Field: "weekdays", Reason: "an active rule needs at least one weekday"}
	}
	if r.IntervalWeeks < 1 {
		return &ValidationError{Field: "interval_weeks", Reason: "must be >= 1"}
	}
	if _, err := time.Parse("15:04", r.TimeOfDay); err != nil {
		return &ValidationError{Field: "time_of_day", Reason: "must be HH:MM"}
	}
	if r.Timezone != "" {
		if _, err := time.LoadLocation(r.Timezone); err != nil {
			return &ValidationError{Field: "timezone", Reason: "unknown zone " + r.Timezone}
		}
	}
	if r.StartDate.IsZero() {
		return &ValidationError{Field: "start_date", Reason: "is required"}
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return &ValidationError{Field: "end_date", Reason: "is before start_date"}
	}
	if r.Amount.IsNegative() {
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	return nil
}

// Appointment is a concrete dated appointment. RuleID is empty for manual ones.
type Appointment struct {
	ID        string            `json:"id"`
	OwnerID   string            `json:"owner_id"`
	RuleID    string            `json:"rule_id,omitempty"`
	ClientID  string            `json:"client_id"`
	Date      time.Time         `json:"date"`
	Time      string            `json:"time"`
	Amount    decimal.Decimal   `json:"amount"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Manual reports whether the appointment was created outside of a rule.
func (a *Appointment) Manual() bool {
	return a.RuleID == ""
}

// SourceRecord is an expense or revenue as entered by the user. Recurring and
// fixed records are expanded into monthly financial entries.
type SourceRecord struct {
	ID             string                 `json:"id"`
	OwnerID        string                 `json:"owner_id"`
	Kind           EntryKind              `json:"kind"`
	Amount         decimal.Decimal        `json:"amount"`
	Description    string                 `json:"description"`
	Category       string                 `json:"category"`
	CompetenceDate time.Time              `json:"competence_date"`
	IsRecurring    bool                   `json:"is_recurring"`
	Recurrence     *recurrence.Descriptor `json:"recurrence,omitempty"`
	// IsFixed marks the legacy single-day-of-month shape. It is only honoured
	// when IsRecurring is false.
	IsFixed   bool      `json:"is_fixed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Derived reports whether the record is expanded by the financial materializer.
func (s *SourceRecord) Derived() bool {
	return s.IsRecurring || s.IsFixed
}

// Schedule returns the recurrence to expand. The legacy fixed shape becomes a
// monthly recurrence on the competence day with an interval of one.
func (s *SourceRecord) Schedule() (recurrence.Descriptor, bool) {
	switch {
	case s.IsRecurring && s.Recurrence != nil:
		return *s.Recurrence, true
	case s.IsFixed && !s.IsRecurring:
		return recurrence.Descriptor{
			Pattern:   recurrence.Monthly{DayOfMonth: s.CompetenceDate.Day(), IntervalMonths: 1},
			StartDate: s.CompetenceDate,
		}, true
	}
	return recurrence.Descriptor{}, false
}

// DerivedNote is the note carried by entries generated from this record.
func (s *SourceRecord) DerivedNote() string {
	if s.IsRecurring {
		return RecurringNote(s.Description)
	}
	return FixedNote(s.Description)
}

// Validate rejects records that cannot be stored.
func (s *SourceRecord) Validate() error {
	if !s.Kind.Valid() {
		return &ValidationError{Field: "kind", Reason: "must be revenue or expense"}
	}
	if strings.TrimSpace(s.Description) == "" {
		return &ValidationError{Field: "description", Reason: "is required"}
	}
	if s.Amount.IsNegative() {
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	if s.CompetenceDate.IsZero() {
		return &ValidationError{Field: "competence_date", Reason: "is required"}
	}
	if s.IsRecurring {
		if s.Recurrence == nil {
			return &ValidationError{Field: "recurrence", Reason: "is required for recurring records"}
		}
		return s.Recurrence.Validate()
	}
	return nil
}

// FinancialEntry is one month's amount for one source record, or a single
// confirmed transaction. Note links derived entries back to their source.
type FinancialEntry struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"owner_id"`
	Kind      EntryKind       `json:"kind"`
	Status    EntryStatus     `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   time.Time       `json:"due_date"`
	Note      string          `json:"note"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
