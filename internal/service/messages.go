package service

import (
	"github.com/castlemilk/agenda/backend/internal/model"
	"github.com/castlemilk/agenda/backend/internal/recurrence"
	"github.com/shopspring/decimal"
)

// Request and response messages of SchedulingService. Calendar dates travel
// as "YYYY-MM-DD" strings and amounts as decimal strings.

type HealthRequest struct{}

type HealthResponse struct {
	Status string `json:"status"`
}

type MaterializeAppointmentRuleRequest struct {
	RuleID string `json:"rule_id"`
}

type MaterializeAppointmentRuleResponse struct {
	Result MaterializeResult `json:"result"`
}

type MaterializeFinancialRecurringRequest struct {
	OwnerID string `json:"owner_id,omitempty"`
}

type MaterializeFinancialRecurringResponse struct {
	Result FinancialResult `json:"result"`
}

type ReconcileOrphansRequest struct {
	OwnerID string `json:"owner_id,omitempty"`
}

type ReconcileOrphansResponse struct {
	Result ReconcileResult `json:"result"`
}

type GetMonthlySeriesRequest struct {
	OwnerID       string `json:"owner_id,omitempty"`
	MonthsBack    int    `json:"months_back,omitempty"`
	MonthsForward int    `json:"months_forward,omitempty"`
}

type GetMonthlySeriesResponse struct {
	Series MonthlySeries `json:"series"`
}

type AdvanceWindowRequest struct {
	OwnerID string `json:"owner_id,omitempty"`
}

type AdvanceWindowResponse struct {
	Run OwnerRun `json:"run"`
}

type SetOwnerTimezoneRequest struct {
	OwnerID  string `json:"owner_id,omitempty"`
	Timezone string `json:"timezone"`
}

type SetOwnerTimezoneResponse struct {
	Owner *model.Owner `json:"owner"`
}

type CreateClientRequest struct {
	OwnerID string `json:"owner_id,omitempty"`
	Name    string `json:"name"`
}

type CreateClientResponse struct {
	Client *model.Client `json:"client"`
}

type DeleteClientRequest struct {
	ClientID string `json:"client_id"`
}

type DeleteClientResponse struct {
	Deletion ClientDeletion `json:"deletion"`
}

// RuleFields are the writable fields of a recurrence rule.
type RuleFields struct {
	ClientID      string                `json:"client_id"`
	Title         string                `json:"title,omitempty"`
	Weekdays      recurrence.WeekdaySet `json:"weekdays"`
	TimeOfDay     string                `json:"time_of_day"`
	Timezone      string                `json:"timezone,omitempty"`
	StartDate     string                `json:"start_date"`
	EndDate       string                `json:"end_date,omitempty"`
	IntervalWeeks int                   `json:"interval_weeks,omitempty"`
	Amount        decimal.Decimal       `json:"amount"`
}

type CreateRecurrenceRuleRequest struct {
	OwnerID string `json:"owner_id,omitempty"`
	RuleFields
}

type UpdateRecurrenceRuleRequest struct {
	RuleID string `json:"rule_id"`
	RuleFields
}

type RecurrenceRuleResponse struct {
	Rule   *model.RecurrenceRule `json:"rule"`
	Result MaterializeResult     `json:"result"`
}

type DeactivateRecurrenceRuleRequest struct {
	RuleID string `json:"rule_id"`
}

type DeactivateRecurrenceRuleResponse struct {
	Removed int `json:"removed"`
}

type ListRecurrenceRulesRequest struct {
	OwnerID    string `json:"owner_id,omitempty"`
	ClientID   string `json:"client_id,omitempty"`
	ActiveOnly bool   `json:"active_only,omitempty"`
}

type ListRecurrenceRulesResponse struct {
	Rules []*model.RecurrenceRule `json:"rules"`
}

type CreateAppointmentRequest struct {
	OwnerID  string                  `json:"owner_id,omitempty"`
	ClientID string                  `json:"client_id"`
	Date     string                  `json:"date"`
	Time     string                  `json:"time"`
	Amount   decimal.Decimal         `json:"amount"`
	Status   model.AppointmentStatus `json:"status,omitempty"`
}

type SetAppointmentStatusRequest struct {
	AppointmentID string                  `json:"appointment_id"`
	Status        model.AppointmentStatus `json:"status"`
}

type AppointmentResponse struct {
	Appointment *model.Appointment `json:"appointment"`
}

type ListAppointmentsRequest struct {
	OwnerID  string                    `json:"owner_id,omitempty"`
	ClientID string                    `json:"client_id,omitempty"`
	RuleID   string                    `json:"rule_id,omitempty"`
	From     string                    `json:"from,omitempty"`
	To       string                    `json:"to,omitempty"`
	Statuses []model.AppointmentStatus `json:"statuses,omitempty"`
}

type ListAppointmentsResponse struct {
	Appointments []*model.Appointment `json:"appointments"`
}

// SourceFields are the writable fields of a source record.
type SourceFields struct {
	Kind           model.EntryKind        `json:"kind"`
	Amount         decimal.Decimal        `json:"amount"`
	Description    string                 `json:"description"`
	Category       string                 `json:"category,omitempty"`
	CompetenceDate string                 `json:"competence_date"`
	IsRecurring    bool                   `json:"is_recurring,omitempty"`
	Recurrence     *recurrence.Descriptor `json:"recurrence,omitempty"`
	IsFixed        bool                   `json:"is_fixed,omitempty"`
}

type CreateSourceRecordRequest struct {
	OwnerID string `json:"owner_id,omitempty"`
	SourceFields
}

type UpdateSourceRecordRequest struct {
	RecordID string `json:"record_id"`
	SourceFields
}

type DeleteSourceRecordRequest struct {
	RecordID string `json:"record_id"`
}

type SourceRecordResponse struct {
	Change SourceChange `json:"change"`
}

type ListSourceRecordsRequest struct {
	OwnerID     string `json:"owner_id,omitempty"`
	DerivedOnly bool   `json:"derived_only,omitempty"`
}

type ListSourceRecordsResponse struct {
	Records []*model.SourceRecord `json:"records"`
}

type ListFinancialEntriesRequest struct {
	OwnerID     string          `json:"owner_id,omitempty"`
	Kind        model.EntryKind `json:"kind,omitempty"`
	From        string          `json:"from,omitempty"`
	To          string          `json:"to,omitempty"`
	DerivedOnly bool            `json:"derived_only,omitempty"`
}

type ListFinancialEntriesResponse struct {
	Entries []*model.FinancialEntry `json:"entries"`
}
