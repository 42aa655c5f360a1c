package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/castlemilk/agenda/backend/internal/auth"
	"github.com/castlemilk/agenda/backend/internal/model"
	"github.com/castlemilk/agenda/backend/internal/recurrence"
	"github.com/castlemilk/agenda/backend/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// testNow is a Tuesday.
var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

// testContextWithUser creates a context with authenticated user claims for testing
func testContextWithUser(userID string) context.Context {
	return auth.WithUserClaims(context.Background(), &auth.UserClaims{
		UID:   userID,
		Email: userID + "@test.local",
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestService returns a service over a fresh MemoryStore with the clock
// pinned to now.
func newTestService(now time.Time, opts ...Option) (*SchedulingService, *store.MemoryStore) {
	st := store.NewMemoryStore()
	base := []Option{WithClock(func() time.Time { return now }), WithLogger(discardLogger())}
	return NewSchedulingService(st, append(base, opts...)...), st
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedClient(t *testing.T, st store.Store, ownerID, name string) *model.Client {
	t.Helper()
	c := &model.Client{OwnerID: ownerID, Name: name, CreatedAt: testNow}
	require.NoError(t, st.CreateClient(context.Background(), c))
	return c
}

// seedRule stores an active weekly rule without materializing it.
func seedRule(t *testing.T, st store.Store, ownerID, clientID string, amount string, days ...time.Weekday) *model.RecurrenceRule {
	t.Helper()
	r := &model.RecurrenceRule{
		OwnerID:       ownerID,
		ClientID:      clientID,
		Title:         "Session",
		Weekdays:      recurrence.NewWeekdaySet(days...),
		TimeOfDay:     "09:00",
		StartDate:     recurrence.Date(2026, time.March, 1),
		IntervalWeeks: 1,
		Amount:        dec(amount),
		Active:        true,
	}
	require.NoError(t, st.CreateRecurrenceRule(context.Background(), r))
	return r
}

func seedSource(t *testing.T, st store.Store, rec *model.SourceRecord) *model.SourceRecord {
	t.Helper()
	require.NoError(t, st.CreateSourceRecord(context.Background(), rec))
	return rec
}

func monthlySource(ownerID string, kind model.EntryKind, desc, amount string, day, interval int, start time.Time) *model.SourceRecord {
	return &model.SourceRecord{
		OwnerID:        ownerID,
		Kind:           kind,
		Amount:         dec(amount),
		Description:    desc,
		CompetenceDate: start,
		IsRecurring:    true,
		Recurrence: &recurrence.Descriptor{
			Pattern:   recurrence.Monthly{DayOfMonth: day, IntervalMonths: interval},
			StartDate: start,
		},
	}
}

func weeklySource(ownerID string, kind model.EntryKind, desc, amount string, interval int, start time.Time, days ...time.Weekday) *model.SourceRecord {
	return &model.SourceRecord{
		OwnerID:        ownerID,
		Kind:           kind,
		Amount:         dec(amount),
		Description:    desc,
		CompetenceDate: start,
		IsRecurring:    true,
		Recurrence: &recurrence.Descriptor{
			Pattern:   recurrence.Weekly{Weekdays: recurrence.NewWeekdaySet(days...), IntervalWeeks: interval},
			StartDate: start,
		},
	}
}

func entriesWithNote(t *testing.T, st store.Store, ownerID, note string) []*model.FinancialEntry {
	t.Helper()
	all, err := st.ListFinancialEntries(context.Background(), store.EntryFilter{OwnerID: ownerID})
	require.NoError(t, err)
	var out []*model.FinancialEntry
	for _, e := range all {
		if e.Note == note {
			out = append(out, e)
		}
	}
	return out
}

// lockPassthrough makes a MockStore run WithOwnerLock callbacks directly.
func lockPassthrough(m *store.MockStore) {
	m.EXPECT().WithOwnerLock(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, fn func(context.Context) error) error {
			return fn(ctx)
		}).AnyTimes()
}
