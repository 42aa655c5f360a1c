package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/castlemilk/agenda/backend/internal/model"
	"github.com/castlemilk/agenda/backend/internal/recurrence"
	"github.com/castlemilk/agenda/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	name   string
	report any
	err    error
}

func (c *captureSink) WriteJSON(ctx context.Context, name string, v any) error {
	c.name = name
	c.report = v
	return c.err
}

// brokenOwnerStore fails every rule listing for one owner.
type brokenOwnerStore struct {
	*store.MemoryStore
	owner string
}

func (b *brokenOwnerStore) ListRecurrenceRules(ctx context.Context, filter store.RuleFilter) ([]*model.RecurrenceRule, error) {
	if filter.OwnerID == b.owner {
		return nil, errors.New("connection reset")
	}
	return b.MemoryStore.ListRecurrenceRules(ctx, filter)
}

func TestAdvanceAll(t *testing.T) {
	ctx := context.Background()
	sink := &captureSink{}
	svc, st := newTestService(testNow, WithWindows(14, 30), WithReportSink(sink))

	ana := seedClient(t, st, "owner-1", "Ana")
	seedRule(t, st, "owner-1", ana.ID, "100", time.Monday)
	seedSource(t, st, monthlySource("owner-1", model.KindExpense, "Rent", "900", 1, 1, recurrence.Date(2026, time.January, 1)))

	bia := seedClient(t, st, "owner-2", "Bia")
	seedRule(t, st, "owner-2", bia.ID, "100")

	report, err := svc.AdvanceAll(ctx)
	require.NoError(t, err)
	require.Len(t, report.Owners, 2)
	assert.Zero(t, report.Failed)
	assert.Equal(t, testNow, report.StartedAt)

	first := report.Owners[0]
	assert.Equal(t, "owner-1", first.OwnerID)
	assert.Equal(t, 1, first.Rules)
	assert.Equal(t, 2, first.Appointments.Created)
	assert.Equal(t, 2, first.Financial.Created)
	assert.Empty(t, first.Warnings)

	second := report.Owners[1]
	assert.Equal(t, "owner-2", second.OwnerID)
	require.Len(t, second.Warnings, 1, "a rule without weekdays is skipped, not fatal")
	assert.Contains(t, second.Warnings[0], "weekdays")
	assert.Empty(t, second.Error)

	assert.Equal(t, "20260310T120000Z.json", sink.name)
	assert.Equal(t, report, sink.report)

	again, err := svc.AdvanceAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Owners[0].Appointments.Skipped)
	assert.Zero(t, again.Owners[0].Appointments.Created)
	assert.Equal(t, 2, again.Owners[0].Financial.Skipped)
}

func TestAdvanceAll_OwnerFailureIsRecorded(t *testing.T) {
	mem := store.NewMemoryStore()
	st := &brokenOwnerStore{MemoryStore: mem, owner: "owner-1"}
	svc := NewSchedulingService(st, WithClock(func() time.Time { return testNow }), WithLogger(discardLogger()))

	seedSource(t, mem, monthlySource("owner-1", model.KindExpense, "Rent", "900", 1, 1, recurrence.Date(2026, time.January, 1)))
	seedSource(t, mem, monthlySource("owner-2", model.KindExpense, "Rent", "900", 1, 1, recurrence.Date(2026, time.January, 1)))

	report, err := svc.AdvanceAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Owners, 2)
	assert.Contains(t, report.Owners[0].Error, "datastore unavailable")
	assert.Empty(t, report.Owners[1].Error)
	assert.NotZero(t, report.Owners[1].Financial.Created)
}

func TestAdvanceAll_SinkFailureIsNotFatal(t *testing.T) {
	sink := &captureSink{err: errors.New("bucket gone")}
	svc, st := newTestService(testNow, WithReportSink(sink))
	seedSource(t, st, monthlySource("owner-1", model.KindRevenue, "Retainer", "400", 20, 1, recurrence.Date(2026, time.January, 20)))

	report, err := svc.AdvanceAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Owners, 1)
	assert.NotEmpty(t, sink.name)
}

func TestAdvanceAll_CancelledContext(t *testing.T) {
	svc, st := newTestService(testNow)
	seedSource(t, st, monthlySource("owner-1", model.KindRevenue, "Retainer", "400", 20, 1, recurrence.Date(2026, time.January, 20)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.AdvanceAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
