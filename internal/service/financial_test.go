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
	"go.uber.org/mock/gomock"
)

func dueDates(entries []*model.FinancialEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = recurrence.FormatDate(e.DueDate)
	}
	return out
}

func TestMaterializeFinancialRecurring_WeeklyAggregate(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(testNow)
	seedSource(t, st, weeklySource("owner-1", model.KindExpense, "Cleaning", "100", 1,
		recurrence.Date(2026, time.January, 1), time.Monday, time.Wednesday))

	first, err := svc.MaterializeFinancialRecurring(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 7, first.Created, "March through September")

	entries := entriesWithNote(t, st, "owner-1", "auto-recurring: Cleaning")
	require.Len(t, entries, 7)
	for _, e := range entries {
		assert.True(t, e.Amount.Equal(dec("800")), "got %s", e.Amount)
		assert.Equal(t, 1, e.DueDate.Day())
		assert.Equal(t, model.EntryExpected, e.Status)
		assert.Equal(t, model.KindExpense, e.Kind)
	}

	second, err := svc.MaterializeFinancialRecurring(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, FinancialResult{Skipped: 7}, second)
}

func TestMaterializeFinancialRecurring_MonthlyInterval(t *testing.T) {
	svc, st := newTestService(testNow)
	seedSource(t, st, monthlySource("owner-1", model.KindRevenue, "Retainer", "500", 15, 2, recurrence.Date(2026, time.January, 15)))

	res, err := svc.MaterializeFinancialRecurring(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 4, res.Created)
	assert.Equal(t,
		[]string{"2026-03-15", "2026-05-15", "2026-07-15", "2026-09-15"},
		dueDates(entriesWithNote(t, st, "owner-1", "auto-recurring: Retainer")))
}

func TestMaterializeFinancialRecurring_ClampsToMonthEnd(t *testing.T) {
	now := time.Date(2028, time.February, 10, 12, 0, 0, 0, time.UTC)
	svc, st := newTestService(now, WithWindows(0, 20))
	seedSource(t, st, monthlySource("owner-1", model.KindExpense, "Rent", "1200", 31, 1, recurrence.Date(2028, time.January, 31)))

	_, err := svc.MaterializeFinancialRecurring(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2028-02-29", "2028-03-31"}, dueDates(entriesWithNote(t, st, "owner-1", "auto-recurring: Rent")))
}

func TestMaterializeFinancialRecurring_DailyAndFixed(t *testing.T) {
	svc, st := newTestService(testNow, WithWindows(0, 30))
	end := recurrence.Date(2026, time.March, 31)
	seedSource(t, st, &model.SourceRecord{
		OwnerID:        "owner-1",
		Kind:           model.KindExpense,
		Amount:         dec("10"),
		Description:    "Parking",
		CompetenceDate: recurrence.Date(2026, time.March, 1),
		IsRecurring:    true,
		Recurrence: &recurrence.Descriptor{
			Pattern:   recurrence.Daily{},
			StartDate: recurrence.Date(2026, time.March, 1),
			EndDate:   &end,
		},
	})
	seedSource(t, st, &model.SourceRecord{
		OwnerID:        "owner-1",
		Kind:           model.KindExpense,
		Amount:         dec("45.5"),
		Description:    "Gym",
		CompetenceDate: recurrence.Date(2026, time.January, 31),
		IsFixed:        true,
	})

	res, err := svc.MaterializeFinancialRecurring(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)

	parking := entriesWithNote(t, st, "owner-1", "auto-recurring: Parking")
	require.Len(t, parking, 1)
	assert.True(t, parking[0].Amount.Equal(dec("310")))
	assert.Equal(t, "2026-03-01", recurrence.FormatDate(parking[0].DueDate))

	gym := entriesWithNote(t, st, "owner-1", "auto-fixed: Gym")
	assert.Equal(t, []string{"2026-03-31", "2026-04-30"}, dueDates(gym))
}

func TestMaterializeFinancialRecurring_DuplicateDescriptionsAggregate(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(testNow, WithWindows(0, 30))
	start := recurrence.Date(2026, time.January, 5)
	seedSource(t, st, monthlySource("owner-1", model.KindExpense, "Rent", "100", 5, 1, start))
	seedSource(t, st, monthlySource("owner-1", model.KindExpense, "Rent ", "50", 5, 1, start))

	first, err := svc.MaterializeFinancialRecurring(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)
	for _, e := range entriesWithNote(t, st, "owner-1", "auto-recurring: Rent") {
		assert.True(t, e.Amount.Equal(dec("150")))
	}

	second, err := svc.MaterializeFinancialRecurring(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, FinancialResult{Skipped: 2}, second)
}

func TestMaterializeFinancialRecurring_RemovesStaleAfterIntervalChange(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(testNow)
	src := seedSource(t, st, monthlySource("owner-1", model.KindExpense, "Insurance", "90", 1, 1, recurrence.Date(2026, time.January, 1)))

	_, err := svc.MaterializeFinancialRecurring(ctx, "owner-1")
	require.NoError(t, err)
	entries := entriesWithNote(t, st, "owner-1", "auto-recurring: Insurance")
	require.Len(t, entries, 7)

	// A confirmed entry is never removed, even when the plan drops its month.
	april := entries[1]
	april.Status = model.EntryConfirmed
	require.NoError(t, st.UpdateFinancialEntry(ctx, april))

	src.Recurrence = &recurrence.Descriptor{
		Pattern:   recurrence.Monthly{DayOfMonth: 1, IntervalMonths: 2},
		StartDate: recurrence.Date(2026, time.January, 1),
	}
	require.NoError(t, st.UpdateSourceRecord(ctx, src))

	res, err := svc.MaterializeFinancialRecurring(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Deleted)
	assert.Equal(t, 4, res.Skipped)
	assert.Equal(t,
		[]string{"2026-03-01", "2026-04-01", "2026-05-01", "2026-07-01", "2026-09-01"},
		dueDates(entriesWithNote(t, st, "owner-1", "auto-recurring: Insurance")))
}

func TestMaterializeFinancialRecurring_AmountChangeUpdates(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(testNow, WithWindows(0, 30))
	src := seedSource(t, st, weeklySource("owner-1", model.KindRevenue, "Lessons", "33.333", 3,
		recurrence.Date(2026, time.January, 1), time.Friday))

	_, err := svc.MaterializeFinancialRecurring(ctx, "owner-1")
	require.NoError(t, err)
	entries := entriesWithNote(t, st, "owner-1", "auto-recurring: Lessons")
	require.Len(t, entries, 2)
	assert.Equal(t, "44.44", entries[0].Amount.StringFixed(2))

	src.Amount = dec("60")
	require.NoError(t, st.UpdateSourceRecord(ctx, src))
	res, err := svc.MaterializeFinancialRecurring(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Updated)
	for _, e := range entriesWithNote(t, st, "owner-1", "auto-recurring: Lessons") {
		assert.True(t, e.Amount.Equal(dec("80")))
	}
}

func TestMaterializeFinancialRecurring_InvalidSourceIsWarning(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(testNow, WithWindows(0, 30))
	good := seedSource(t, st, monthlySource("owner-1", model.KindExpense, "Phone", "30", 10, 1, recurrence.Date(2026, time.January, 10)))
	bad := seedSource(t, st, monthlySource("owner-1", model.KindExpense, "Broken", "30", 10, 1, recurrence.Date(2026, time.January, 10)))

	_, err := svc.MaterializeFinancialRecurring(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, entriesWithNote(t, st, "owner-1", "auto-recurring: Broken"), 2)

	bad.Recurrence = &recurrence.Descriptor{
		Pattern:   recurrence.Monthly{DayOfMonth: 10, IntervalMonths: 0},
		StartDate: recurrence.Date(2026, time.January, 10),
	}
	require.NoError(t, st.UpdateSourceRecord(ctx, bad))

	res, err := svc.MaterializeFinancialRecurring(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], bad.ID)
	assert.Zero(t, res.Deleted, "entries of a failed source are held")
	assert.Len(t, entriesWithNote(t, st, "owner-1", "auto-recurring: Broken"), 2)
	assert.Len(t, entriesWithNote(t, st, "owner-1", model.RecurringNote(good.Description)), 2)
}

func TestMaterializeFinancialRecurring_ListingFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := store.NewMockStore(ctrl)
	svc := NewSchedulingService(mockStore, WithClock(func() time.Time { return testNow }), WithLogger(discardLogger()))

	lockPassthrough(mockStore)
	mockStore.EXPECT().GetOwner(gomock.Any(), "owner-1").Return(&model.Owner{ID: "owner-1", Timezone: "Europe/Lisbon"}, nil)
	mockStore.EXPECT().ListSourceRecords(gomock.Any(), "owner-1", true).Return(nil, errors.New("deadline exceeded talking to replica"))

	_, err := svc.MaterializeFinancialRecurring(context.Background(), "owner-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatastoreUnavailable)
}

func TestMaterializeFinancialRecurring_UpsertFailureIsWarning(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := store.NewMockStore(ctrl)
	svc := NewSchedulingService(mockStore,
		WithClock(func() time.Time { return testNow }),
		WithWindows(0, 30),
		WithLogger(discardLogger()))

	src := monthlySource("owner-1", model.KindExpense, "Rent", "1000", 1, 1, recurrence.Date(2026, time.January, 1))
	src.ID = "src-1"
	note := model.RecurringNote("Rent")
	march := recurrence.Date(2026, time.March, 1)
	april := recurrence.Date(2026, time.April, 1)

	lockPassthrough(mockStore)
	mockStore.EXPECT().GetOwner(gomock.Any(), "owner-1").Return(nil, store.ErrNotFound)
	mockStore.EXPECT().ListSourceRecords(gomock.Any(), "owner-1", true).Return([]*model.SourceRecord{src}, nil)
	// The stale April row must survive because its upsert failed.
	staleApril := &model.FinancialEntry{ID: "e-apr", OwnerID: "owner-1", Kind: model.KindExpense, Status: model.EntryExpected, Amount: dec("900"), DueDate: april, Note: note}
	mockStore.EXPECT().ListFinancialEntries(gomock.Any(), gomock.Any()).Return([]*model.FinancialEntry{staleApril}, nil)
	mockStore.EXPECT().FindFinancialEntry(gomock.Any(), "owner-1", model.KindExpense, march, note).Return(nil, store.ErrNotFound)
	mockStore.EXPECT().CreateFinancialEntry(gomock.Any(), gomock.Any()).Return(nil)
	mockStore.EXPECT().FindFinancialEntry(gomock.Any(), "owner-1", model.KindExpense, april, note).Return(nil, errors.New("timeout"))

	res, err := svc.MaterializeFinancialRecurring(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Zero(t, res.Deleted)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "2026-04-01")
}
