package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/castlemilk/agenda/backend/internal/auth"
	"github.com/castlemilk/agenda/backend/internal/model"
	"github.com/castlemilk/agenda/backend/internal/recurrence"
	"github.com/castlemilk/agenda/backend/internal/store"
)

// SchedulingServiceName is the fully-qualified name of the RPC service.
const SchedulingServiceName = "agenda.v1.SchedulingService"

// Procedure paths of SchedulingService.
const (
	SchedulingServiceHealthProcedure                        = auth.HealthProcedure
	SchedulingServiceMaterializeAppointmentRuleProcedure    = "/agenda.v1.SchedulingService/MaterializeAppointmentRule"
	SchedulingServiceMaterializeFinancialRecurringProcedure = "/agenda.v1.SchedulingService/MaterializeFinancialRecurring"
	SchedulingServiceReconcileOrphansProcedure              = "/agenda.v1.SchedulingService/ReconcileOrphans"
	SchedulingServiceGetMonthlySeriesProcedure              = "/agenda.v1.SchedulingService/GetMonthlySeries"
	SchedulingServiceAdvanceWindowProcedure                 = "/agenda.v1.SchedulingService/AdvanceWindow"
	SchedulingServiceSetOwnerTimezoneProcedure              = "/agenda.v1.SchedulingService/SetOwnerTimezone"
	SchedulingServiceCreateClientProcedure                  = "/agenda.v1.SchedulingService/CreateClient"
	SchedulingServiceDeleteClientProcedure                  = "/agenda.v1.SchedulingService/DeleteClient"
	SchedulingServiceCreateRecurrenceRuleProcedure          = "/agenda.v1.SchedulingService/CreateRecurrenceRule"
	SchedulingServiceUpdateRecurrenceRuleProcedure          = "/agenda.v1.SchedulingService/UpdateRecurrenceRule"
	SchedulingServiceDeactivateRecurrenceRuleProcedure      = "/agenda.v1.SchedulingService/DeactivateRecurrenceRule"
	SchedulingServiceListRecurrenceRulesProcedure           = "/agenda.v1.SchedulingService/ListRecurrenceRules"
	SchedulingServiceCreateAppointmentProcedure             = "/agenda.v1.SchedulingService/CreateAppointment"
	SchedulingServiceSetAppointmentStatusProcedure          = "/agenda.v1.SchedulingService/SetAppointmentStatus"
	SchedulingServiceListAppointmentsProcedure              = "/agenda.v1.SchedulingService/ListAppointments"
	SchedulingServiceCreateSourceRecordProcedure            = "/agenda.v1.SchedulingService/CreateSourceRecord"
	SchedulingServiceUpdateSourceRecordProcedure            = "/agenda.v1.SchedulingService/UpdateSourceRecord"
	SchedulingServiceDeleteSourceRecordProcedure            = "/agenda.v1.SchedulingService/DeleteSourceRecord"
	SchedulingServiceListSourceRecordsProcedure             = "/agenda.v1.SchedulingService/ListSourceRecords"
	SchedulingServiceListFinancialEntriesProcedure          = "/agenda.v1.SchedulingService/ListFinancialEntries"
)

// schedulingHandler adapts SchedulingService to Connect. Every method checks
// the caller against the owner of the rows it touches.
type schedulingHandler struct {
	svc *SchedulingService
}

func register[Req, Res any](mux *http.ServeMux, procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

// NewSchedulingServiceHandler builds an HTTP handler serving every procedure
// of SchedulingService. It returns the path to mount it on.
func NewSchedulingServiceHandler(svc *SchedulingService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSONCodec()}, opts...)
	h := &schedulingHandler{svc: svc}

	mux := http.NewServeMux()
	register(mux, SchedulingServiceHealthProcedure, h.Health, opts)
	register(mux, SchedulingServiceMaterializeAppointmentRuleProcedure, h.MaterializeAppointmentRule, opts)
	register(mux, SchedulingServiceMaterializeFinancialRecurringProcedure, h.MaterializeFinancialRecurring, opts)
	register(mux, SchedulingServiceReconcileOrphansProcedure, h.ReconcileOrphans, opts)
	register(mux, SchedulingServiceGetMonthlySeriesProcedure, h.GetMonthlySeries, opts)
	register(mux, SchedulingServiceAdvanceWindowProcedure, h.AdvanceWindow, opts)
	register(mux, SchedulingServiceSetOwnerTimezoneProcedure, h.SetOwnerTimezone, opts)
	register(mux, SchedulingServiceCreateClientProcedure, h.CreateClient, opts)
	register(mux, SchedulingServiceDeleteClientProcedure, h.DeleteClient, opts)
	register(mux, SchedulingServiceCreateRecurrenceRuleProcedure, h.CreateRecurrenceRule, opts)
	register(mux, SchedulingServiceUpdateRecurrenceRuleProcedure, h.UpdateRecurrenceRule, opts)
	register(mux, SchedulingServiceDeactivateRecurrenceRuleProcedure, h.DeactivateRecurrenceRule, opts)
	register(mux, SchedulingServiceListRecurrenceRulesProcedure, h.ListRecurrenceRules, opts)
	register(mux, SchedulingServiceCreateAppointmentProcedure, h.CreateAppointment, opts)
	register(mux, SchedulingServiceSetAppointmentStatusProcedure, h.SetAppointmentStatus, opts)
	register(mux, SchedulingServiceListAppointmentsProcedure, h.ListAppointments, opts)
	register(mux, SchedulingServiceCreateSourceRecordProcedure, h.CreateSourceRecord, opts)
	register(mux, SchedulingServiceUpdateSourceRecordProcedure, h.UpdateSourceRecord, opts)
	register(mux, SchedulingServiceDeleteSourceRecordProcedure, h.DeleteSourceRecord, opts)
	register(mux, SchedulingServiceListSourceRecordsProcedure, h.ListSourceRecords, opts)
	register(mux, SchedulingServiceListFinancialEntriesProcedure, h.ListFinancialEntries, opts)

	return "/" + SchedulingServiceName + "/", mux
}

// toConnectError maps domain errors to Connect codes. Errors that already
// carry a code pass through.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}
	var cerr *connect.Error
	if errors.As(err, &cerr) {
		return err
	}
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case store.IsNotFound(err):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ErrDatastoreUnavailable):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// owner resolves the owner a request acts on and applies the subscription gate.
func (h *schedulingHandler) owner(ctx context.Context, ownerID string) (string, error) {
	uid, err := auth.RequireOwnerAccess(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if h.svc.requireSubscription {
		if err := auth.RequireActiveSubscription(ctx); err != nil {
			return "", err
		}
	}
	return uid, nil
}

// row checks a row fetched by ID against the caller.
func (h *schedulingHandler) row(ctx context.Context, rowOwner string) error {
	if err := auth.CheckRowOwner(ctx, rowOwner); err != nil {
		return err
	}
	if h.svc.requireSubscription {
		return auth.RequireActiveSubscription(ctx)
	}
	return nil
}

func parseDate(field, value string) (time.Time, error) {
	d, err := recurrence.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, &model.ValidationError{Field: field, Reason: "must be YYYY-MM-DD"}
	}
	return d, nil
}

func parseOptionalDate(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	d, err := parseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (f RuleFields) toRule() (*model.RecurrenceRule, error) {
	start, err := parseDate("start_date", f.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate("end_date", f.EndDate)
	if err != nil {
		return nil, err
	}
	return &model.RecurrenceRule{
		ClientID:      f.ClientID,
		Title:         f.Title,
		Weekdays:      f.Weekdays,
		TimeOfDay:     f.TimeOfDay,
		Timezone:      f.Timezone,
		StartDate:     start,
		EndDate:       end,
		IntervalWeeks: f.IntervalWeeks,
		Amount:        f.Amount,
	}, nil
}

func (f SourceFields) toRecord() (*model.SourceRecord, error) {
	competence, err := parseDate("competence_date", f.CompetenceDate)
	if err != nil {
		return nil, err
	}
	return &model.SourceRecord{
		Kind:           f.Kind,
		Amount:         f.Amount,
		Description:    f.Description,
		Category:       f.Category,
		CompetenceDate: competence,
		IsRecurring:    f.IsRecurring,
		Recurrence:     f.Recurrence,
		IsFixed:        f.IsFixed,
	}, nil
}

// Health reports that the server is up. It needs no credentials.
func (h *schedulingHandler) Health(ctx context.Context, req *connect.Request[HealthRequest]) (*connect.Response[HealthResponse], error) {
	return connect.NewResponse(&HealthResponse{Status: "ok"}), nil
}

// MaterializeAppointmentRule upserts a rule's appointments for the window.
func (h *schedulingHandler) MaterializeAppointmentRule(ctx context.Context, req *connect.Request[MaterializeAppointmentRuleRequest]) (*connect.Response[MaterializeAppointmentRuleResponse], error) {
	rule, err := h.svc.store.GetRecurrenceRule(ctx, req.Msg.RuleID)
	if err != nil {
		return nil, toConnectError(lookupError("get recurrence rule", err))
	}
	if err := h.row(ctx, rule.OwnerID); err != nil {
		return nil, err
	}

	result, err := h.svc.MaterializeAppointmentRule(ctx, rule.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&MaterializeAppointmentRuleResponse{Result: result}), nil
}

// MaterializeFinancialRecurring upserts the owner's derived financial entries.
func (h *schedulingHandler) MaterializeFinancialRecurring(ctx context.Context, req *connect.Request[MaterializeFinancialRecurringRequest]) (*connect.Response[MaterializeFinancialRecurringResponse], error) {
	ownerID, err := h.owner(ctx, req.Msg.OwnerID)
	if err != nil {
		return nil, err
	}
	result, err := h.svc.MaterializeFinancialRecurring(ctx, ownerID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&MaterializeFinancialRecurringResponse{Result: result}), nil
}

// ReconcileOrphans deletes derived entries whose source is gone.
func (h *schedulingHandler) ReconcileOrphans(ctx context.Context, req *connect.Request[ReconcileOrphansRequest]) (*connect.Response[ReconcileOrphansResponse], error) {
	ownerID, err := h.owner(ctx, req.Msg.OwnerID)
	if err != nil {
		return nil, err
	}
	result, err := h.svc.ReconcileOrphans(ctx, ownerID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ReconcileOrphansResponse{Result: result}), nil
}

// GetMonthlySeries returns the dashboard history and projection.
func (h *schedulingHandler) GetMonthlySeries(ctx context.Context, req *connect.Request[GetMonthlySeriesRequest]) (*connect.Response[GetMonthlySeriesResponse], error) {
	ownerID, err := h.owner(ctx, req.Msg.OwnerID)
	if err != nil {
		return nil, err
	}
	series, err := h.svc.GetMonthlySeries(ctx, ownerID, req.Msg.MonthsBack, req.Msg.MonthsForward)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetMonthlySeriesResponse{Series: series}), nil
}

// AdvanceWindow runs the scheduled pass for the caller only.
func (h *schedulingHandler) AdvanceWindow(ctx context.Context, req *connect.Request[AdvanceWindowRequest]) (*connect.Response[AdvanceWindowResponse], error) {
	ownerID, err := h.owner(ctx, req.Msg.OwnerID)
	if err != nil {
		return nil, err
	}
	run, err := h.svc.AdvanceWindow(ctx, ownerID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&AdvanceWindowResponse{Run: run}), nil
}

// SetOwnerTimezone declares the caller's zone.
func (h *schedulingHandler) SetOwnerTimezone(ctx context.Context, req *connect.Request[SetOwnerTimezoneRequest]) (*connect.Response[SetOwnerTimezoneResponse], error) {
	ownerID, err := h.owner(ctx, req.Msg.OwnerID)
	if err != nil {
		return nil, err
	}
	owner, err := h.svc.SetOwnerTimezone(ctx, ownerID, req.Msg.Timezone)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&SetOwnerTimezoneResponse{Owner: owner}), nil
}

// CreateClient creates a client for the caller.
func (h *schedulingHandler) CreateClient(ctx context.Context, req *connect.Request[CreateClientRequest]) (*connect.Response[CreateClientResponse], error) {
	ownerID, err := h.owner(ctx, req.Msg.OwnerID)
	if err != nil {
		return nil, err
	}
	client, err := h.svc.CreateClient(ctx, ownerID, req.Msg.Name)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CreateClientResponse{Client: client}), nil
}

// DeleteClient removes a client and cascades to its appointments and rules.
func (h *schedulingHandler) DeleteClient(ctx context.Context, req *connect.Request[DeleteClientRequest]) (*connect.Response[DeleteClientResponse], error) {
	client, err := h.svc.store.GetClient(ctx, req.Msg.ClientID)
	if err != nil {
		return nil, toConnectError(lookupError("get client", err))
	}
	if err := h.row(ctx, client.OwnerID); err != nil {
		return nil, err
	}
	deletion, err := h.svc.DeleteClient(ctx, client.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DeleteClientResponse{Deletion: deletion}), nil
}

// CreateRecurrenceRule stores a rule and materializes it.
func (h *schedulingHandler) CreateRecurrenceRule(ctx context.Context, req *connect.Request[CreateRecurrenceRuleRequest]) (*connect.Response[RecurrenceRuleResponse], error) {
	ownerID, err := h.owner(ctx, req.Msg.OwnerID)
	if err != nil {
		return nil, err
	}
	rule, err := req.Msg.toRule()
	if err != nil {
		return nil, toConnectError(err)
	}
	rule.OwnerID = ownerID

	rule, result, err := h.svc.CreateRecurrenceRule(ctx, rule)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&RecurrenceRuleResponse{Rule: rule, Result: result}), nil
}

// UpdateRecurrenceRule replaces a rule's schedule and re-materializes it.
func (h *schedulingHandler) UpdateRecurrenceRule(ctx context.Context, req *connect.Request[UpdateRecurrenceRuleRequest]) (*connect.Response[RecurrenceRuleResponse], error) {
	existing, err := h.svc.store.GetRecurrenceRule(ctx, req.Msg.RuleID)
	if err != nil {
		return nil, toConnectError(lookupError("get recurrence rule", err))
	}
	if err := h.row(ctx, existing.OwnerID); err != nil {
		return nil, err
	}
	rule, err := req.Msg.toRule()
	if err != nil {
		return nil, toConnectError(err)
	}
	rule.ID = existing.ID

	rule, result, err := h.svc.UpdateRecurrenceRule(ctx, rule)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&RecurrenceRuleResponse{Rule: rule, Result: result}), nil
}

// DeactivateRecurrenceRule stops a rule and clears its future appointments.
func (h *schedulingHandler) DeactivateRecurrenceRule(ctx context.Context, req *connect.Request[DeactivateRecurrenceRuleRequest]) (*connect.Response[DeactivateRecurrenceRuleResponse], error) {
	rule, err := h.svc.store.GetRecurrenceRule(ctx, req.Msg.RuleID)
	if err != nil {
		return nil, toConnectError(lookupError("get recurrence rule", err))
	}
	if err := h.row(ctx, rule.OwnerID); err != nil {
		return nil, err
	}
	removed, err := h.svc.DeactivateRecurrenceRule(ctx, rule.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DeactivateRecurrenceRuleResponse{Removed: removed}), nil
}

// ListRecurrenceRules lists the caller's rules.
func (h *schedulingHandler) ListRecurrenceRules(ctx context.Context, req *connect.Request[ListRecurrenceRulesRequest]) (*connect.Response[ListRecurrenceRulesResponse], error) {
	ownerID, err := h.owner(ctx, req.Msg.OwnerID)
	if err != nil {
		return nil, err
	}
	rules, err := h.svc.store.ListRecurrenceRules(ctx, store.RuleFilter{
		OwnerID:    ownerID,
		ClientID:   req.Msg.ClientID,
		ActiveOnly: req.Msg.ActiveOnly,
	})
	if err != nil {
		return nil, toConnectError(unavailable("list recurrence rules", err))
	}
	return connect.NewResponse(&ListRecurrenceRulesResponse{Rules: rules}), nil
}

// CreateAppointment stores a manual appointment.
func (h *schedulingHandler) CreateAppointment(ctx context.Context, req *connect.Request[CreateAppointmentRequest]) (*connect.Response[AppointmentResponse], error) {
	ownerID, err := h.owner(ctx, req.Msg.OwnerID)
	if err != nil {
		return nil, err
	}
	date, err := parseDate("date", req.Msg.Date)
	if err != nil {
		return nil, toConnectError(err)
	}

	appt, err := h.svc.CreateAppointment(ctx, &model.Appointment{
		OwnerID:  ownerID,
		ClientID: req.Msg.ClientID,
		Date:     date,
		Time:     req.Msg.Time,
		Amount:   req.Msg.Amount,
		Status:   req.Msg.Status,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&AppointmentResponse{Appointment: appt}), nil
}

// SetAppointmentStatus completes, cancels or reschedules an appointment.
func (h *schedulingHandler) SetAppointmentStatus(ctx context.Context, req *connect.Request[SetAppointmentStatusRequest]) (*connect.Response[AppointmentResponse], error) {
	appt, err := h.svc.store.GetAppointment(ctx, req.Msg.AppointmentID)
	if err != nil {
		return nil, toConnectError(lookupError("get appointment", err))
	}
	if err := h.row(ctx, appt.OwnerID); err != nil {
		return nil, err
	}
	appt, err = h.svc.SetAppointmentStatus(ctx, appt.ID, req.Msg.Status)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&AppointmentResponse{Appointment: appt}), nil
}

// ListAppointments lists the caller's appointments within an optional range.
func (h *schedulingHandler) ListAppointments(ctx context.Context, req *connect.Request[ListAppointmentsRequest]) (*connect.Response[ListAppointmentsResponse], error) {
	ownerID, err := h.owner(ctx, req.Msg.OwnerID)
	if err != nil {
		return nil, err
	}
	from, err := parseOptionalDate("from", req.Msg.From)
	if err != nil {
		return nil, toConnectError(err)
	}
	to, err := parseOptionalDate("to", req.Msg.To)
	if err != nil {
		return nil, toConnectError(err)
	}

	appts, err := h.svc.store.ListAppointments(ctx, store.AppointmentFilter{
		OwnerID:  ownerID,
		ClientID: req.Msg.ClientID,
		RuleID:   req.Msg.RuleID,
		From:     from,
		To:       to,
		Statuses: req.Msg.Statuses,
	})
	if err != nil {
		return nil, toConnectError(unavailable("list appointments", err))
	}
	return connect.NewResponse(&ListAppointmentsResponse{Appointments: appts}), nil
}

// CreateSourceRecord stores an expense or revenue and derives its entries.
func (h *schedulingHandler) CreateSourceRecord(ctx context.Context, req *connect.Request[CreateSourceRecordRequest]) (*connect.Response[SourceRecordResponse], error) {
	ownerID, err := h.owner(ctx, req.Msg.OwnerID)
	if err != nil {
		return nil, err
	}
	rec, err := req.Msg.toRecord()
	if err != nil {
		return nil, toConnectError(err)
	}
	rec.OwnerID = ownerID

	change, err := h.svc.CreateSourceRecord(ctx, rec)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&SourceRecordResponse{Change: change}), nil
}

// UpdateSourceRecord rewrites a source record and reconciles its entries.
func (h *schedulingHandler) UpdateSourceRecord(ctx context.Context, req *connect.Request[UpdateSourceRecordRequest]) (*connect.Response[SourceRecordResponse], error) {
	existing, err := h.svc.store.GetSourceRecord(ctx, req.Msg.RecordID)
	if err != nil {
		return nil, toConnectError(lookupError("get source record", err))
	}
	if err := h.row(ctx, existing.OwnerID); err != nil {
		return nil, err
	}
	rec, err := req.Msg.toRecord()
	if err != nil {
		return nil, toConnectError(err)
	}
	rec.ID = existing.ID

	change, err := h.svc.UpdateSourceRecord(ctx, rec)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&SourceRecordResponse{Change: change}), nil
}

// DeleteSourceRecord removes a source record and reconciles its entries away.
func (h *schedulingHandler) DeleteSourceRecord(ctx context.Context, req *connect.Request[DeleteSourceRecordRequest]) (*connect.Response[SourceRecordResponse], error) {
	rec, err := h.svc.store.GetSourceRecord(ctx, req.Msg.RecordID)
	if err != nil {
		return nil, toConnectError(lookupError("get source record", err))
	}
	if err := h.row(ctx, rec.OwnerID); err != nil {
		return nil, err
	}
	change, err := h.svc.DeleteSourceRecord(ctx, rec.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&SourceRecordResponse{Change: change}), nil
}

// ListSourceRecords lists the caller's source records.
func (h *schedulingHandler) ListSourceRecords(ctx context.Context, req *connect.Request[ListSourceRecordsRequest]) (*connect.Response[ListSourceRecordsResponse], error) {
	ownerID, err := h.owner(ctx, req.Msg.OwnerID)
	if err != nil {
		return nil, err
	}
	records, err := h.svc.store.ListSourceRecords(ctx, ownerID, req.Msg.DerivedOnly)
	if err != nil {
		return nil, toConnectError(unavailable("list source records", err))
	}
	return connect.NewResponse(&ListSourceRecordsResponse{Records: records}), nil
}

// ListFinancialEntries lists the caller's financial entries.
func (h *schedulingHandler) ListFinancialEntries(ctx context.Context, req *connect.Request[ListFinancialEntriesRequest]) (*connect.Response[ListFinancialEntriesResponse], error) {
	ownerID, err := h.owner(ctx, req.Msg.OwnerID)
	if err != nil {
		return nil, err
	}
	if req.Msg.Kind != "" && !req.Msg.Kind.Valid() {
		return nil, toConnectError(&model.ValidationError{Field: "kind", Reason: "must be revenue or expense"})
	}
	from, err := parseOptionalDate("from", req.Msg.From)
	if err != nil {
		return nil, toConnectError(err)
	}
	to, err := parseOptionalDate("to", req.Msg.To)
	if err != nil {
		return nil, toConnectError(err)
	}

	entries, err := h.svc.store.ListFinancialEntries(ctx, store.EntryFilter{
		OwnerID:     ownerID,
		Kind:        req.Msg.Kind,
		From:        from,
		To:          to,
		DerivedOnly: req.Msg.DerivedOnly,
	})
	if err != nil {
		return nil, toConnectError(unavailable("list financial entries", err))
	}
	return connect.NewResponse(&ListFinancialEntriesResponse{Entries: entries}), nil
}
