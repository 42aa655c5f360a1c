package service

import (
	"context"
	"testing"
	"time"

	"github.com/castlemilk/agenda/backend/internal/model"
	"github.com/castlemilk/agenda/backend/internal/recurrence"
	"github.com/castlemilk/agenda/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetOwnerTimezone(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(testNow)

	owner, err := svc.SetOwnerTimezone(ctx, "owner-1", "Europe/Lisbon")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Lisbon", owner.Timezone)

	stored, err := st.GetOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Lisbon", stored.Timezone)

	for _, tz := range []string{"", "Mars/Olympus"} {
		_, err = svc.SetOwnerTimezone(ctx, "owner-1", tz)
		var verr *model.ValidationError
		assert.ErrorAs(t, err, &verr, tz)
	}
}

func TestCreateRecurrenceRule(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(testNow, WithWindows(14, 0))
	client := seedClient(t, st, "owner-1", "Ana")
	foreign := seedClient(t, st, "owner-2", "Bruno")

	base := func() *model.RecurrenceRule {
		return &model.RecurrenceRule{
			OwnerID:   "owner-1",
			ClientID:  client.ID,
			Title:     "  Pilates ",
			Weekdays:  recurrence.NewWeekdaySet(time.Tuesday),
			TimeOfDay: "18:00",
			StartDate: time.Date(2026, time.March, 1, 15, 0, 0, 0, time.UTC),
			Amount:    dec("59.999"),
		}
	}

	rule, res, err := svc.CreateRecurrenceRule(ctx, base())
	require.NoError(t, err)
	assert.True(t, rule.Active)
	assert.Equal(t, "Pilates", rule.Title)
	assert.Equal(t, 1, rule.IntervalWeeks)
	assert.Equal(t, recurrence.Date(2026, time.March, 1), rule.StartDate)
	assert.Equal(t, "60", rule.Amount.String())
	assert.Equal(t, 3, res.Created, "Tuesdays 10, 17 and 24")

	bad := base()
	bad.ClientID = foreign.ID
	_, _, err = svc.CreateRecurrenceRule(ctx, bad)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "client_id", verr.Field)

	bad = base()
	bad.TimeOfDay = "6pm"
	_, _, err = svc.CreateRecurrenceRule(ctx, bad)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "time_of_day", verr.Field)

	rules, err := st.ListRecurrenceRules(ctx, store.RuleFilter{OwnerID: "owner-1"})
	require.NoError(t, err)
	assert.Len(t, rules, 1, "invalid rules are not stored")
}

func TestUpdateRecurrenceRule_Rematerializes(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(testNow, WithWindows(14, 0))
	client := seedClient(t, st, "owner-1", "Ana")

	rule, _, err := svc.CreateRecurrenceRule(ctx, &model.RecurrenceRule{
		OwnerID:   "owner-1",
		ClientID:  client.ID,
		Weekdays:  recurrence.NewWeekdaySet(time.Monday, time.Wednesday),
		TimeOfDay: "09:00",
		StartDate: recurrence.Date(2026, time.March, 1),
		Amount:    dec("100"),
	})
	require.NoError(t, err)

	update := *rule
	update.OwnerID = "someone-else"
	update.Weekdays = recurrence.NewWeekdaySet(time.Wednesday)
	update.Amount = dec("110")
	updated, res, err := svc.UpdateRecurrenceRule(ctx, &update)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", updated.OwnerID, "owner cannot change")
	assert.Equal(t, 2, res.Updated)
	assert.Equal(t, 2, res.Deleted)

	appts := ruleAppointments(t, st, rule)
	assert.Equal(t, []string{"2026-03-11", "2026-03-18"}, dates(appts))
	for _, a := range appts {
		assert.True(t, a.Amount.Equal(dec("110")))
	}
}

func TestDeleteClient_Cascades(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(testNow, WithWindows(14, 0))
	ana := seedClient(t, st, "owner-1", "Ana")
	bia := seedClient(t, st, "owner-1", "Bia")

	anaRule := seedRule(t, st, "owner-1", ana.ID, "100", time.Monday)
	biaRule := seedRule(t, st, "owner-1", bia.ID, "100", time.Monday)
	for _, r := range []*model.RecurrenceRule{anaRule, biaRule} {
		_, err := svc.MaterializeAppointmentRule(ctx, r.ID)
		require.NoError(t, err)
	}
	_, err := svc.CreateAppointment(ctx, &model.Appointment{
		OwnerID:  "owner-1",
		ClientID: ana.ID,
		Date:     recurrence.Date(2026, time.March, 12),
		Time:     "14:00",
		Amount:   dec("50"),
	})
	require.NoError(t, err)

	out, err := svc.DeleteClient(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, ClientDeletion{AppointmentsDeleted: 3, RulesDeactivated: 1}, out)

	_, err = st.GetClient(ctx, ana.ID)
	assert.True(t, store.IsNotFound(err))
	stored, err := st.GetRecurrenceRule(ctx, anaRule.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
	assert.Len(t, ruleAppointments(t, st, biaRule), 2, "other clients untouched")

	_, err = svc.DeleteClient(ctx, ana.ID)
	assert.True(t, store.IsNotFound(err))
}

func TestCreateAppointment_Validation(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(testNow)
	client := seedClient(t, st, "owner-1", "Ana")

	valid := func() *model.Appointment {
		return &model.Appointment{OwnerID: "owner-1", ClientID: client.ID, Date: recurrence.Date(2026, time.March, 12), Time: "14:00", Amount: dec("50")}
	}

	appt, err := svc.CreateAppointment(ctx, valid())
	require.NoError(t, err)
	assert.True(t, appt.Manual())
	assert.Equal(t, model.AppointmentScheduled, appt.Status)

	cases := map[string]func(a *model.Appointment){
		"time":      func(a *model.Appointment) { a.Time = "25:00" },
		"amount":    func(a *model.Appointment) { a.Amount = dec("-1") },
		"status":    func(a *model.Appointment) { a.Status = "postponed" },
		"client_id": func(a *model.Appointment) { a.ClientID = "nope" },
		"date":      func(a *model.Appointment) { a.Date = time.Time{} },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			a := valid()
			mutate(a)
			_, err := svc.CreateAppointment(ctx, a)
			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, field, verr.Field)
		})
	}

	_, err = svc.SetAppointmentStatus(ctx, appt.ID, "postponed")
	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)
	_, err = svc.SetAppointmentStatus(ctx, "missing", model.AppointmentCompleted)
	assert.True(t, store.IsNotFound(err))
}

func TestCreateSourceRecord_SingleIsPostedConfirmed(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(testNow)

	change, err := svc.CreateSourceRecord(ctx, &model.SourceRecord{
		OwnerID:        "owner-1",
		Kind:           model.KindRevenue,
		Amount:         dec("320"),
		Description:    "  Workshop ",
		CompetenceDate: recurrence.Date(2026, time.March, 4),
	})
	require.NoError(t, err)
	require.NotNil(t, change.Entry)
	assert.Equal(t, model.EntryConfirmed, change.Entry.Status)
	assert.Equal(t, "Workshop", change.Entry.Note)
	assert.Equal(t, recurrence.Date(2026, time.March, 4), change.Entry.DueDate)
	assert.Zero(t, change.Materialized.Created)

	// Editing the record does not repost its entry.
	rec := change.Record
	rec.Amount = dec("400")
	update, err := svc.UpdateSourceRecord(ctx, rec)
	require.NoError(t, err)
	assert.Zero(t, update.Reconciled.DeletedCount)
	entries := entriesWithNote(t, st, "owner-1", "Workshop")
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Amount.Equal(dec("320")))
}

func TestCreateSourceRecord_RecurringMaterializes(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(testNow, WithWindows(0, 30))

	rec := monthlySource("owner-1", model.KindExpense, "Software", "19.90", 8, 1, recurrence.Date(2026, time.January, 8))
	change, err := svc.CreateSourceRecord(ctx, rec)
	require.NoError(t, err)
	assert.Nil(t, change.Entry)
	assert.Equal(t, 2, change.Materialized.Created)
	assert.Len(t, entriesWithNote(t, st, "owner-1", "auto-recurring: Software"), 2)

	_, err = svc.CreateSourceRecord(ctx, &model.SourceRecord{
		OwnerID:        "owner-1",
		Kind:           model.KindExpense,
		Amount:         dec("10"),
		Description:    "No schedule",
		CompetenceDate: recurrence.Date(2026, time.March, 1),
		IsRecurring:    true,
	})
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "recurrence", verr.Field)
}

func TestDeleteSourceRecord_ReconcilesEntries(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(testNow, WithWindows(0, 60))

	change, err := svc.CreateSourceRecord(ctx, monthlySource("owner-1", model.KindExpense, "Coworking", "250", 1, 1, recurrence.Date(2026, time.January, 1)))
	require.NoError(t, err)
	require.Len(t, entriesWithNote(t, st, "owner-1", "auto-recurring: Coworking"), 3)

	deleted, err := svc.DeleteSourceRecord(ctx, change.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted.Reconciled.DeletedCount)
	assert.Empty(t, entriesWithNote(t, st, "owner-1", "auto-recurring: Coworking"))

	_, err = svc.DeleteSourceRecord(ctx, change.Record.ID)
	assert.True(t, store.IsNotFound(err))
}

func TestUpdateSourceRecord_RecurringToSingle(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(testNow, WithWindows(0, 30))

	change, err := svc.CreateSourceRecord(ctx, monthlySource("owner-1", model.KindExpense, "Course", "80", 3, 1, recurrence.Date(2026, time.January, 3)))
	require.NoError(t, err)

	rec := change.Record
	rec.IsRecurring = false
	rec.Recurrence = nil
	update, err := svc.UpdateSourceRecord(ctx, rec)
	require.NoError(t, err)

	// The description is still live, so neither pass removes the derived
	// rows; they are simply no longer refreshed.
	assert.Zero(t, update.Materialized.Deleted)
	assert.Zero(t, update.Reconciled.DeletedCount)
	assert.Len(t, entriesWithNote(t, st, "owner-1", "auto-recurring: Course"), 2)
}
