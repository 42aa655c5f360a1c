package recurrence

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorValidate(t *testing.T) {
	start := Date(2026, time.January, 1)
	tests := []struct {
		name  string
		desc  Descriptor
		field string
	}{
		{"missing pattern", Descriptor{StartDate: start}, "recurrence"},
		{"missing start", Descriptor{Pattern: Daily{}}, "start_date"},
		{"empty weekdays", Descriptor{Pattern: Weekly{IntervalWeeks: 1}, StartDate: start}, "weekdays"},
		{"zero week interval", Descriptor{Pattern: Weekly{Weekdays: NewWeekdaySet(time.Monday)}, StartDate: start}, "interval_weeks"},
		{"day of month out of range", Descriptor{Pattern: Monthly{DayOfMonth: 32, IntervalMonths: 1}, StartDate: start}, "day_of_month"},
		{"zero month interval", Descriptor{Pattern: Monthly{DayOfMonth: 5}, StartDate: start}, "interval_months"},
		{"end before start", Descriptor{Pattern: Daily{}, StartDate: start, EndDate: ptr(start.AddDate(0, 0, -1))}, "end_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.Validate()
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	valid := Descriptor{Pattern: Monthly{DayOfMonth: 31, IntervalMonths: 3}, StartDate: start}
	assert.NoError(t, valid.Validate())
}

func TestDescriptorJSON(t *testing.T) {
	t.Run("weekly round trip", func(t *testing.T) {
		in := Descriptor{
			Pattern:   Weekly{Weekdays: NewWeekdaySet(time.Monday, time.Thursday), IntervalWeeks: 2},
			StartDate: Date(2026, time.March, 2),
			EndDate:   ptr(Date(2026, time.December, 31)),
		}
		data, err := json.Marshal(in)
		require.NoError(t, err)
		assert.JSONEq(t, `{"kind":"weekly","weekdays":[1,4],"interval_weeks":2,"start_date":"2026-03-02","end_date":"2026-12-31"}`, string(data))

		var out Descriptor
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, in.Pattern, out.Pattern)
		assert.Equal(t, in.StartDate, out.StartDate)
		require.NotNil(t, out.EndDate)
		assert.Equal(t, *in.EndDate, *out.EndDate)
	})

	t.Run("rejects fields from another variant", func(t *testing.T) {
		var d Descriptor
		err := json.Unmarshal([]byte(`{"kind":"monthly","day_of_month":3,"interval_months":1,"weekdays":[1],"start_date":"2026-01-01"}`), &d)
		assert.Error(t, err)

		err = json.Unmarshal([]byte(`{"kind":"daily","interval_weeks":1,"start_date":"2026-01-01"}`), &d)
		assert.Error(t, err)
	})

	t.Run("rejects unknown kind and bad weekday", func(t *testing.T) {
		var d Descriptor
		assert.Error(t, json.Unmarshal([]byte(`{"kind":"yearly","start_date":"2026-01-01"}`), &d))
		assert.Error(t, json.Unmarshal([]byte(`{"kind":"weekly","weekdays":[7],"interval_weeks":1,"start_date":"2026-01-01"}`), &d))
	})
}
