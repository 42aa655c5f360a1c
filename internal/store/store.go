package store

import (
	"context"
	"errors"
	"time"

	"github.com/castlemilk/agenda/backend/internal/model"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=store

// ErrNotFound is returned (possibly wrapped) when a row does not exist.
var ErrNotFound = errors.New("not found")

// RuleFilter selects recurrence rules of one owner.
type RuleFilter struct {
	OwnerID    string
	ClientID   string
	ActiveOnly bool
}

// AppointmentFilter selects appointments of one owner. From and To are
// inclusive civil dates.
type AppointmentFilter struct {
	OwnerID  string
	ClientID string
	RuleID   string
	From     *time.Time
	To       *time.Time
	Statuses []model.AppointmentStatus
}

// EntryFilter selects financial entries of one owner. From and To are
// inclusive civil dates; an empty Kind matches both kinds.
type EntryFilter struct {
	OwnerID     string
	Kind        model.EntryKind
	From        *time.Time
	To          *time.Time
	DerivedOnly bool
}

// Store defines the datastore operations used by the scheduling service.
// Every row is scoped by an owner ID; tenant isolation beyond that is the
// datastore's job.
type Store interface {
	// Owner operations
	GetOwner(ctx context.Context, ownerID string) (*model.Owner, error)
	UpsertOwner(ctx context.Context, owner *model.Owner) error
	ListOwnerIDs(ctx context.Context) ([]string, error)

	// Client operations
	CreateClient(ctx context.Context, client *model.Client) error
	GetClient(ctx context.Context, clientID string) (*model.Client, error)
	DeleteClient(ctx context.Context, clientID string) error

	// Recurrence rule operations
	CreateRecurrenceRule(ctx context.Context, rule *model.RecurrenceRule) error
	GetRecurrenceRule(ctx context.Context, ruleID string) (*model.RecurrenceRule, error)
	UpdateRecurrenceRule(ctx context.Context, rule *model.RecurrenceRule) error
	ListRecurrenceRules(ctx context.Context, filter RuleFilter) ([]*model.RecurrenceRule, error)

	// Appointment operations
	CreateAppointment(ctx context.Context, appt *model.Appointment) error
	GetAppointment(ctx context.Context, apptID string) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, appt *model.Appointment) error
	DeleteAppointment(ctx context.Context, apptID string) error
	FindRuleAppointment(ctx context.Context, ruleID string, date time.Time) (*model.Appointment, error)
	ListAppointments(ctx context.Context, filter AppointmentFilter) ([]*model.Appointment, error)

	// Source record operations
	CreateSourceRecord(ctx context.Context, rec *model.SourceRecord) error
	GetSourceRecord(ctx context.Context, recordID string) (*model.SourceRecord, error)
	UpdateSourceRecord(ctx context.Context, rec *model.SourceRecord) error
	DeleteSourceRecord(ctx context.Context, recordID string) error
	ListSourceRecords(ctx context.Context, ownerID string, derivedOnly bool) ([]*model.SourceRecord, error)

	// Financial entry operations
	CreateFinancialEntry(ctx context.Context, entry *model.FinancialEntry) error
	UpdateFinancialEntry(ctx context.Context, entry *model.FinancialEntry) error
	DeleteFinancialEntry(ctx context.Context, entryID string) error
	FindFinancialEntry(ctx context.Context, ownerID string, kind model.EntryKind, dueDate time.Time, note string) (*model.FinancialEntry, error)
	ListFinancialEntries(ctx context.Context, filter EntryFilter) ([]*model.FinancialEntry, error)

	// WithOwnerLock runs fn while holding the owner's materialization lock so
	// match-then-insert upserts cannot race for the same owner.
	WithOwnerLock(ctx context.Context, ownerID string, fn func(ctx context.Context) error) error
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func inDateRange(d time.Time, from, to *time.Time) bool {
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

func hasStatus(s model.AppointmentStatus, statuses []model.AppointmentStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, want := range statuses {
		if s == want {
			return true
		}
	}
	return false
}
