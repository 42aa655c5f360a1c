package service

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// SchedulingServiceClient calls SchedulingService over Connect with the JSON codec.
type SchedulingServiceClient struct {
	health                        *connect.Client[HealthRequest, HealthResponse]
	materializeAppointmentRule    *connect.Client[MaterializeAppointmentRuleRequest, MaterializeAppointmentRuleResponse]
	materializeFinancialRecurring *connect.Client[MaterializeFinancialRecurringRequest, MaterializeFinancialRecurringResponse]
	reconcileOrphans              *connect.Client[ReconcileOrphansRequest, ReconcileOrphansResponse]
	getMonthlySeries              *connect.Client[GetMonthlySeriesRequest, GetMonthlySeriesResponse]
	advanceWindow                 *connect.Client[AdvanceWindowRequest, AdvanceWindowResponse]
	setOwnerTimezone              *connect.Client[SetOwnerTimezoneRequest, SetOwnerTimezoneResponse]
	createClient                  *connect.Client[CreateClientRequest, CreateClientResponse]
	deleteClient                  *connect.Client[DeleteClientRequest, DeleteClientResponse]
	createRecurrenceRule          *connect.Client[CreateRecurrenceRuleRequest, RecurrenceRuleResponse]
	updateRecurrenceRule          *connect.Client[UpdateRecurrenceRuleRequest, RecurrenceRuleResponse]
	deactivateRecurrenceRule      *connect.Client[DeactivateRecurrenceRuleRequest, DeactivateRecurrenceRuleResponse]
	listRecurrenceRules           *connect.Client[ListRecurrenceRulesRequest, ListRecurrenceRulesResponse]
	createAppointment             *connect.Client[CreateAppointmentRequest, AppointmentResponse]
	setAppointmentStatus          *connect.Client[SetAppointmentStatusRequest, AppointmentResponse]
	listAppointments              *connect.Client[ListAppointmentsRequest, ListAppointmentsResponse]
	createSourceRecord            *connect.Client[CreateSourceRecordRequest, SourceRecordResponse]
	updateSourceRecord            *connect.Client[UpdateSourceRecordRequest, SourceRecordResponse]
	deleteSourceRecord            *connect.Client[DeleteSourceRecordRequest, SourceRecordResponse]
	listSourceRecords             *connect.Client[ListSourceRecordsRequest, ListSourceRecordsResponse]
	listFinancialEntries          *connect.Client[ListFinancialEntriesRequest, ListFinancialEntriesResponse]
}

// NewSchedulingServiceClient builds a client for the server at baseURL
// (e.g. http://localhost:8111).
func NewSchedulingServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SchedulingServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSONCodec()}, opts...)
	return &SchedulingServiceClient{
		health:                        connect.NewClient[HealthRequest, HealthResponse](httpClient, baseURL+SchedulingServiceHealthProcedure, opts...),
		materializeAppointmentRule:    connect.NewClient[MaterializeAppointmentRuleRequest, MaterializeAppointmentRuleResponse](httpClient, baseURL+SchedulingServiceMaterializeAppointmentRuleProcedure, opts...),
		materializeFinancialRecurring: connect.NewClient[MaterializeFinancialRecurringRequest, MaterializeFinancialRecurringResponse](httpClient, baseURL+SchedulingServiceMaterializeFinancialRecurringProcedure, opts...),
		reconcileOrphans:              connect.NewClient[ReconcileOrphansRequest, ReconcileOrphansResponse](httpClient, baseURL+SchedulingServiceReconcileOrphansProcedure, opts...),
		getMonthlySeries:              connect.NewClient[GetMonthlySeriesRequest, GetMonthlySeriesResponse](httpClient, baseURL+SchedulingServiceGetMonthlySeriesProcedure, opts...),
		advanceWindow:                 connect.NewClient[AdvanceWindowRequest, AdvanceWindowResponse](httpClient, baseURL+SchedulingServiceAdvanceWindowProcedure, opts...),
		setOwnerTimezone:              connect.NewClient[SetOwnerTimezoneRequest, SetOwnerTimezoneResponse](httpClient, baseURL+SchedulingServiceSetOwnerTimezoneProcedure, opts...),
		createClient:                  connect.NewClient[CreateClientRequest, CreateClientResponse](httpClient, baseURL+SchedulingServiceCreateClientProcedure, opts...),
		deleteClient:                  connect.NewClient[DeleteClientRequest, DeleteClientResponse](httpClient, baseURL+SchedulingServiceDeleteClientProcedure, opts...),
		createRecurrenceRule:          connect.NewClient[CreateRecurrenceRuleRequest, RecurrenceRuleResponse](httpClient, baseURL+SchedulingServiceCreateRecurrenceRuleProcedure, opts...),
		updateRecurrenceRule:          connect.NewClient[UpdateRecurrenceRuleRequest, RecurrenceRuleResponse](httpClient, baseURL+SchedulingServiceUpdateRecurrenceRuleProcedure, opts...),
		deactivateRecurrenceRule:      connect.NewClient[DeactivateRecurrenceRuleRequest, DeactivateRecurrenceRuleResponse](httpClient, baseURL+SchedulingServiceDeactivateRecurrenceRuleProcedure, opts...),
		listRecurrenceRules:           connect.NewClient[ListRecurrenceRulesRequest, ListRecurrenceRulesResponse](httpClient, baseURL+SchedulingServiceListRecurrenceRulesProcedure, opts...),
		createAppointment:             connect.NewClient[CreateAppointmentRequest, AppointmentResponse](httpClient, baseURL+SchedulingServiceCreateAppointmentProcedure, opts...),
		setAppointmentStatus:          connect.NewClient[SetAppointmentStatusRequest, AppointmentResponse](httpClient, baseURL+SchedulingServiceSetAppointmentStatusProcedure, opts...),
		listAppointments:              connect.NewClient[ListAppointmentsRequest, ListAppointmentsResponse](httpClient, baseURL+SchedulingServiceListAppointmentsProcedure, opts...),
		createSourceRecord:            connect.NewClient[CreateSourceRecordRequest, SourceRecordResponse](httpClient, baseURL+SchedulingServiceCreateSourceRecordProcedure, opts...),
		updateSourceRecord:            connect.NewClient[UpdateSourceRecordRequest, SourceRecordResponse](httpClient, baseURL+SchedulingServiceUpdateSourceRecordProcedure, opts...),
		deleteSourceRecord:            connect.NewClient[DeleteSourceRecordRequest, SourceRecordResponse](httpClient, baseURL+SchedulingServiceDeleteSourceRecordProcedure, opts...),
		listSourceRecords:             connect.NewClient[ListSourceRecordsRequest, ListSourceRecordsResponse](httpClient, baseURL+SchedulingServiceListSourceRecordsProcedure, opts...),
		listFinancialEntries:          connect.NewClient[ListFinancialEntriesRequest, ListFinancialEntriesResponse](httpClient, baseURL+SchedulingServiceListFinancialEntriesProcedure, opts...),
	}
}

func (c *SchedulingServiceClient) Health(ctx context.Context, req *connect.Request[HealthRequest]) (*connect.Response[HealthResponse], error) {
	return c.health.CallUnary(ctx, req)
}

func (c *SchedulingServiceClient) MaterializeAppointmentRule(ctx context.Context, req *connect.Request[MaterializeAppointmentRuleRequest]) (*connect.Response[MaterializeAppointmentRuleResponse], error) {
	return c.materializeAppointmentRule.CallUnary(ctx, req)
}

func (c *SchedulingServiceClient) MaterializeFinancialRecurring(ctx context.Context, req *connect.Request[MaterializeFinancialRecurringRequest]) (*connect.Response[MaterializeFinancialRecurringResponse], error) {
	return c.materializeFinancialRecurring.CallUnary(ctx, req)
}

func (c *SchedulingServiceClient) ReconcileOrphans(ctx context.Context, req *connect.Request[ReconcileOrphansRequest]) (*connect.Response[ReconcileOrphansResponse], error) {
	return c.reconcileOrphans.CallUnary(ctx, req)
}

func (c *SchedulingServiceClient) GetMonthlySeries(ctx context.Context, req *connect.Request[GetMonthlySeriesRequest]) (*connect.Response[GetMonthlySeriesResponse], error) {
	return c.getMonthlySeries.CallUnary(ctx, req)
}

func (c *SchedulingServiceClient) AdvanceWindow(ctx context.Context, req *connect.Request[AdvanceWindowRequest]) (*connect.Response[AdvanceWindowResponse], error) {
	return c.advanceWindow.CallUnary(ctx, req)
}

func (c *SchedulingServiceClient) SetOwnerTimezone(ctx context.Context, req *connect.Request[SetOwnerTimezoneRequest]) (*connect.Response[SetOwnerTimezoneResponse], error) {
	return c.setOwnerTimezone.CallUnary(ctx, req)
}

func (c *SchedulingServiceClient) CreateClient(ctx context.Context, req *connect.Request[CreateClientRequest]) (*connect.Response[CreateClientResponse], error) {
	return c.createClient.CallUnary(ctx, req)
}

func (c *SchedulingServiceClient) DeleteClient(ctx context.Context, req *connect.Request[DeleteClientRequest]) (*connect.Response[DeleteClientResponse], error) {
	return c.deleteClient.CallUnary(ctx, req)
}

func (c *SchedulingServiceClient) CreateRecurrenceRule(ctx context.Context, req *connect.Request[CreateRecurrenceRuleRequest]) (*connect.Response[RecurrenceRuleResponse], error) {
	return c.createRecurrenceRule.CallUnary(ctx, req)
}

func (c *SchedulingServiceClient) UpdateRecurrenceRule(ctx context.Context, req *connect.Request[UpdateRecurrenceRuleRequest]) (*connect.Response[RecurrenceRuleResponse], error) {
	return c.updateRecurrenceRule.CallUnary(ctx, req)
}

func (c *SchedulingServiceClient) DeactivateRecurrenceRule(ctx context.Context, req *connect.Request[DeactivateRecurrenceRuleRequest]) (*connect.Response[DeactivateRecurrenceRuleResponse], error) {
	return c.deactivateRecurrenceRule.CallUnary(ctx, req)
}

func (c *SchedulingServiceClient) ListRecurrenceRules(ctx context.Context, req *connect.Request[ListRecurrenceRulesRequest]) (*connect.Response[ListRecurrenceRulesResponse], error) {
	return c.listRecurrenceRules.CallUnary(ctx, req)
}

func (c *SchedulingServiceClient) CreateAppointment(ctx context.Context, req *connect.Request[CreateAppointmentRequest]) (*connect.Response[AppointmentResponse], error) {
	return c.createAppointment.CallUnary(ctx, req)
}

func (c *SchedulingServiceClient) SetAppointmentStatus(ctx context.Context, req *connect.Request[SetAppointmentStatusRequest]) (*connect.Response[AppointmentResponse], error) {
	return c.setAppointmentStatus.CallUnary(ctx, req)
}

func (c *SchedulingServiceClient) ListAppointments(ctx context.Context, req *connect.Request[ListAppointmentsRequest]) (*connect.Response[ListAppointmentsResponse], error) {
	return c.listAppointments.CallUnary(ctx, req)
}

func (c *SchedulingServiceClient) CreateSourceRecord(ctx context.Context, req *connect.Request[CreateSourceRecordRequest]) (*connect.Response[SourceRecordResponse], error) {
	return c.createSourceRecord.CallUnary(ctx, req)
}

func (c *SchedulingServiceClient) UpdateSourceRecord(ctx context.Context, req *connect.Request[UpdateSourceRecordRequest]) (*connect.Response[SourceRecordResponse], error) {
	return c.updateSourceRecord.CallUnary(ctx, req)
}

func (c *SchedulingServiceClient) DeleteSourceRecord(ctx context.Context, req *connect.Request[DeleteSourceRecordRequest]) (*connect.Response[SourceRecordResponse], error) {
	return c.deleteSourceRecord.CallUnary(ctx, req)
}

func (c *SchedulingServiceClient) ListSourceRecords(ctx context.Context, req *connect.Request[ListSourceRecordsRequest]) (*connect.Response[ListSourceRecordsResponse], error) {
	return c.listSourceRecords.CallUnary(ctx, req)
}

func (c *SchedulingServiceClient) ListFinancialEntries(ctx context.Context, req *connect.Request[ListFinancialEntriesRequest]) (*connect.Response[ListFinancialEntriesResponse], error) {
	return c.listFinancialEntries.CallUnary(ctx, req)
}
