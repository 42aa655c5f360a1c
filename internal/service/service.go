package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/castlemilk/agenda/backend/internal/cooldown"
	"github.com/castlemilk/agenda/backend/internal/recurrence"
	"github.com/castlemilk/agenda/backend/internal/store"
)

// ErrDatastoreUnavailable marks failures that abort a whole run. The run is
// safe to retry because every write is an idempotent upsert.
var ErrDatastoreUnavailable = errors.New("datastore unavailable")

const (
	defaultAppointmentWindowDays = 90
	defaultFinancialWindowDays   = 180
	defaultReconcileCooldown     = 30 * time.Minute
)

// ReportSink receives the JSON report of each scheduled run.
type ReportSink interface {
	WriteJSON(ctx context.Context, name string, v any) error
}

// SchedulingService materializes recurrences, reconciles derived entries and
// serves the monthly series. It holds no per-owner state besides the
// reconcile cooldown.
type SchedulingService struct {
	store store.Store

	now                   func() time.Time
	defaultLocation       *time.Location
	appointmentWindowDays int
	financialWindowDays   int
	reconcileCooldown     *cooldown.Cooldown
	requireSubscription   bool
	reports               ReportSink
	logger                *slog.Logger
}

// Option configures a SchedulingService.
type Option func(*SchedulingService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *SchedulingService) { s.now = now }
}

// WithWindows sets the appointment and financial materialization windows in days.
func WithWindows(appointmentDays, financialDays int) Option {
	return func(s *SchedulingService) {
		if appointmentDays > 0 {
			s.appointmentWindowDays = appointmentDays
		}
		if financialDays > 0 {
			s.financialWindowDays = financialDays
		}
	}
}

// WithDefaultLocation sets the zone used for owners that declare none.
func WithDefaultLocation(loc *time.Location) Option {
	return func(s *SchedulingService) {
		if loc != nil {
			s.defaultLocation = loc
		}
	}
}

// WithReconcileCooldown sets how often GetMonthlySeries may reconcile an owner.
func WithReconcileCooldown(c *cooldown.Cooldown) Option {
	return func(s *SchedulingService) { s.reconcileCooldown = c }
}

// WithSubscriptionGate makes every owner-facing procedure require an active plan.
func WithSubscriptionGate(required bool) Option {
	return func(s *SchedulingService) { s.requireSubscription = required }
}

// WithReportSink archives scheduled run reports.
func WithReportSink(sink ReportSink) Option {
	return func(s *SchedulingService) { s.reports = sink }
}

// WithLogger sets the logger; defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *SchedulingService) { s.logger = l }
}

// NewSchedulingService creates the service over st.
func NewSchedulingService(st store.Store, opts ...Option) *SchedulingService {
	s := &SchedulingService{
		store:                 st,
		now:                   time.Now,
		defaultLocation:       time.UTC,
		appointmentWindowDays: defaultAppointmentWindowDays,
		financialWindowDays:   defaultFinancialWindowDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reconcileCooldown == nil {
		s.reconcileCooldown = cooldown.New(defaultReconcileCooldown).WithClock(s.now)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// ownerLocation resolves the owner's declared zone. Owners without a row use
// the default zone.
func (s *SchedulingService) ownerLocation(ctx context.Context, ownerID string) (*time.Location, error) {
	owner, err := s.store.GetOwner(ctx, ownerID)
	if err != nil {
		if store.IsNotFound(err) {
			return s.defaultLocation, nil
		}
		return nil, unavailable("get owner", err)
	}
	return recurrence.LoadLocation(owner.Timezone, s.defaultLocation), nil
}

// today returns the current civil date in loc.
func (s *SchedulingService) today(loc *time.Location) time.Time {
	return recurrence.DateOf(s.now(), loc)
}

func unavailable(operation string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return fmt.Errorf("%s: %w: %w", operation, ErrDatastoreUnavailable, err)
}
