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

func ruleAppointments(t *testing.T, st store.Store, rule *model.RecurrenceRule) []*model.Appointment {
	t.Helper()
	appts, err := st.ListAppointments(context.Background(), store.AppointmentFilter{OwnerID: rule.OwnerID, RuleID: rule.ID})
	require.NoError(t, err)
	return appts
}

func dates(appts []*model.Appointment) []string {
	out := make([]string, len(appts))
	for i, a := range appts {
		out[i] = recurrence.FormatDate(a.Date)
	}
	return out
}

func TestMaterializeAppointmentRule_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(testNow, WithWindows(14, 0))
	client := seedClient(t, st, "owner-1", "Ana")
	rule := seedRule(t, st, "owner-1", client.ID, "100", time.Monday, time.Wednesday)

	first, err := svc.MaterializeAppointmentRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, first.Created)
	assert.Equal(t, []string{"2026-03-11", "2026-03-16", "2026-03-18", "2026-03-23"}, dates(ruleAppointments(t, st, rule)))

	second, err := svc.MaterializeAppointmentRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, MaterializeResult{Skipped: 4}, second)
	assert.Len(t, ruleAppointments(t, st, rule), 4)

	for _, a := range ruleAppointments(t, st, rule) {
		assert.Equal(t, model.AppointmentScheduled, a.Status)
		assert.Equal(t, "09:00", a.Time)
		assert.True(t, a.Amount.Equal(dec("100")))
		assert.Equal(t, client.ID, a.ClientID)
	}
}

func TestMaterializeAppointmentRule_FrozenAppointmentsKeepTheirValues(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(testNow, WithWindows(14, 0))
	client := seedClient(t, st, "owner-1", "Ana")
	rule := seedRule(t, st, "owner-1", client.ID, "100", time.Monday, time.Wednesday)

	_, err := svc.MaterializeAppointmentRule(ctx, rule.ID)
	require.NoError(t, err)

	appts := ruleAppointments(t, st, rule)
	_, err = svc.SetAppointmentStatus(ctx, appts[0].ID, model.AppointmentCompleted)
	require.NoError(t, err)
	_, err = svc.SetAppointmentStatus(ctx, appts[1].ID, model.AppointmentCancelled)
	require.NoError(t, err)

	rule.Amount = dec("120")
	rule.TimeOfDay = "10:30"
	require.NoError(t, st.UpdateRecurrenceRule(ctx, rule))

	res, err := svc.MaterializeAppointmentRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Updated)
	assert.Equal(t, 2, res.Skipped)
	assert.Zero(t, res.Created)

	appts = ruleAppointments(t, st, rule)
	assert.True(t, appts[0].Amount.Equal(dec("100")), "completed appointment rewritten")
	assert.Equal(t, "09:00", appts[0].Time)
	assert.Equal(t, model.AppointmentCancelled, appts[1].Status)
	assert.True(t, appts[2].Amount.Equal(dec("120")))
	assert.Equal(t, "10:30", appts[3].Time)
}

func TestMaterializeAppointmentRule_RemovesStaleScheduled(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(testNow, WithWindows(14, 0))
	client := seedClient(t, st, "owner-1", "Ana")
	rule := seedRule(t, st, "owner-1", client.ID, "100", time.Monday, time.Wednesday)

	_, err := svc.MaterializeAppointmentRule(ctx, rule.ID)
	require.NoError(t, err)

	// 2026-03-11 is a Wednesday; completing it keeps it as history.
	wed, err := st.FindRuleAppointment(ctx, rule.ID, recurrence.Date(2026, time.March, 11))
	require.NoError(t, err)
	_, err = svc.SetAppointmentStatus(ctx, wed.ID, model.AppointmentCompleted)
	require.NoError(t, err)

	rule.Weekdays = recurrence.NewWeekdaySet(time.Monday)
	require.NoError(t, st.UpdateRecurrenceRule(ctx, rule))

	res, err := svc.MaterializeAppointmentRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Deleted)
	assert.Equal(t, []string{"2026-03-11", "2026-03-16", "2026-03-23"}, dates(ruleAppointments(t, st, rule)))
}

func TestMaterializeAppointmentRule_UsesRuleTimezone(t *testing.T) {
	// 23:30 UTC on the 10th is already the 11th in Auckland.
	now := time.Date(2026, time.March, 10, 23, 30, 0, 0, time.UTC)
	svc, st := newTestService(now, WithWindows(14, 0))
	client := seedClient(t, st, "owner-1", "Ana")
	rule := seedRule(t, st, "owner-1", client.ID, "100", time.Monday, time.Wednesday)
	rule.Timezone = "Pacific/Auckland"
	require.NoError(t, st.UpdateRecurrenceRule(context.Background(), rule))

	res, err := svc.MaterializeAppointmentRule(context.Background(), rule.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Created)
	assert.Equal(t, "2026-03-11", dates(ruleAppointments(t, st, rule))[0])
}

func TestMaterializeAppointmentRule_OwnerTimezone(t *testing.T) {
	// 02:00 UTC on the 11th is still the 10th in New York.
	now := time.Date(2026, time.March, 11, 2, 0, 0, 0, time.UTC)
	svc, st := newTestService(now, WithWindows(1, 0))
	client := seedClient(t, st, "owner-1", "Ana")
	rule := seedRule(t, st, "owner-1", client.ID, "100", time.Tuesday)
	_, err := svc.SetOwnerTimezone(context.Background(), "owner-1", "America/New_York")
	require.NoError(t, err)

	res, err := svc.MaterializeAppointmentRule(context.Background(), rule.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, []string{"2026-03-10"}, dates(ruleAppointments(t, st, rule)))
}

func TestMaterializeAppointmentRule_InactiveAndInvalid(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(testNow)
	client := seedClient(t, st, "owner-1", "Ana")

	inactive := seedRule(t, st, "owner-1", client.ID, "100", time.Monday)
	inactive.Active = false
	require.NoError(t, st.UpdateRecurrenceRule(ctx, inactive))
	res, err := svc.MaterializeAppointmentRule(ctx, inactive.ID)
	require.NoError(t, err)
	assert.Equal(t, MaterializeResult{}, res)
	assert.Empty(t, ruleAppointments(t, st, inactive))

	invalid := seedRule(t, st, "owner-1", client.ID, "100")
	_, err = svc.MaterializeAppointmentRule(ctx, invalid.ID)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "weekdays", verr.Field)
	assert.Empty(t, ruleAppointments(t, st, invalid))

	_, err = svc.MaterializeAppointmentRule(ctx, "missing")
	assert.True(t, store.IsNotFound(err))
}

func TestMaterializeAppointmentRule_EndDateBoundsWindow(t *testing.T) {
	svc, st := newTestService(testNow)
	client := seedClient(t, st, "owner-1", "Ana")
	rule := seedRule(t, st, "owner-1", client.ID, "100", time.Monday)
	end := recurrence.Date(2026, time.March, 31)
	rule.EndDate = &end
	require.NoError(t, st.UpdateRecurrenceRule(context.Background(), rule))

	res, err := svc.MaterializeAppointmentRule(context.Background(), rule.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)
	assert.Equal(t, []string{"2026-03-16", "2026-03-23", "2026-03-30"}, dates(ruleAppointments(t, st, rule)))
}

func TestMaterializeAppointmentRule_StoreUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := store.NewMockStore(ctrl)
	svc := NewSchedulingService(mockStore, WithClock(func() time.Time { return testNow }), WithLogger(discardLogger()))

	mockStore.EXPECT().GetRecurrenceRule(gomock.Any(), "rule-1").Return(nil, errors.New("connection refused"))

	_, err := svc.MaterializeAppointmentRule(context.Background(), "rule-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatastoreUnavailable)
}

func TestMaterializeAppointmentRule_PartialFailureBecomesWarning(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := store.NewMockStore(ctrl)
	svc := NewSchedulingService(mockStore,
		WithClock(func() time.Time { return testNow }),
		WithWindows(7, 0),
		WithLogger(discardLogger()))

	rule := &model.RecurrenceRule{
		ID:            "rule-1",
		OwnerID:       "owner-1",
		ClientID:      "client-1",
		Weekdays:      recurrence.NewWeekdaySet(time.Monday, time.Wednesday),
		TimeOfDay:     "09:00",
		StartDate:     recurrence.Date(2026, time.March, 1),
		IntervalWeeks: 1,
		Amount:        dec("80"),
		Active:        true,
	}
	failing := recurrence.Date(2026, time.March, 16)

	mockStore.EXPECT().GetRecurrenceRule(gomock.Any(), "rule-1").Return(rule, nil)
	lockPassthrough(mockStore)
	mockStore.EXPECT().GetOwner(gomock.Any(), "owner-1").Return(nil, store.ErrNotFound)
	mockStore.EXPECT().FindRuleAppointment(gomock.Any(), "rule-1", gomock.Any()).Return(nil, store.ErrNotFound).Times(2)
	mockStore.EXPECT().CreateAppointment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *model.Appointment) error {
			if a.Date.Equal(failing) {
				return errors.New("write conflict")
			}
			return nil
		}).Times(2)
	mockStore.EXPECT().ListAppointments(gomock.Any(), gomock.Any()).Return(nil, nil)

	res, err := svc.MaterializeAppointmentRule(context.Background(), "rule-1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "2026-03-16")
	assert.Contains(t, res.Warnings[0], "write conflict")
}

func TestDeactivateRecurrenceRule_RemovesFutureScheduledOnly(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(testNow, WithWindows(14, 0))
	client := seedClient(t, st, "owner-1", "Ana")
	rule := seedRule(t, st, "owner-1", client.ID, "100", time.Monday, time.Wednesday)

	_, err := svc.MaterializeAppointmentRule(ctx, rule.ID)
	require.NoError(t, err)
	appts := ruleAppointments(t, st, rule)
	_, err = svc.SetAppointmentStatus(ctx, appts[0].ID, model.AppointmentCompleted)
	require.NoError(t, err)

	removed, err := svc.DeactivateRecurrenceRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	left := ruleAppointments(t, st, rule)
	require.Len(t, left, 1)
	assert.Equal(t, model.AppointmentCompleted, left[0].Status)

	stored, err := st.GetRecurrenceRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)

	res, err := svc.MaterializeAppointmentRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Zero(t, res.Created)
}
