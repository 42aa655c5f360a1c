//go:build ignore
// +build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/castlemilk/agenda/backend/internal/model"
	"github.com/castlemilk/agenda/backend/internal/recurrence"
	"github.com/castlemilk/agenda/backend/internal/service"
	"github.com/shopspring/decimal"
)

func main() {
	// Get API URL from environment or use default
	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8111"
	}

	// Empty means the server's local dev owner
	ownerID := os.Getenv("OWNER_ID")

	authToken := os.Getenv("AUTH_TOKEN")

	log.Printf("Seeding data for owner: %q", ownerID)
	log.Printf("API URL: %s", apiURL)

	var opts []connect.ClientOption
	if authToken != "" {
		log.Println("Using provided auth token")
		opts = append(opts, connect.WithInterceptors(authInterceptor(authToken, "")))
	} else {
		log.Println("No auth token provided - backend must be running with AGENDA_AUTH_SKIP=true")
		opts = append(opts, connect.WithInterceptors(authInterceptor("", ownerID)))
	}

	client := service.NewSchedulingServiceClient(&http.Client{Timeout: 30 * time.Second}, apiURL, opts...)
	ctx := context.Background()

	if tz := os.Getenv("OWNER_TIMEZONE"); tz != "" {
		if _, err := client.SetOwnerTimezone(ctx, connect.NewRequest(&service.SetOwnerTimezoneRequest{Timezone: tz})); err != nil {
			log.Fatalf("Failed to set timezone: %v", err)
		}
	}

	clients, err := seedClients(ctx, client)
	if err != nil {
		log.Fatalf("Failed to seed clients: %v", err)
	}
	if err := seedRules(ctx, client, clients); err != nil {
		log.Fatalf("Failed to seed recurrence rules: %v", err)
	}
	if err := seedSources(ctx, client); err != nil {
		log.Fatalf("Failed to seed source records: %v", err)
	}

	log.Println("Successfully seeded all data")

	log.Println("Verifying the monthly series...")
	if err := verifySeries(ctx, client); err != nil {
		log.Fatalf("Verification failed: %v", err)
	}
	log.Println("All data verified successfully")
}

// authInterceptor adds the Authorization or impersonation header to requests
func authInterceptor(token, impersonate string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token != "" {
				req.Header().Set("Authorization", "Bearer "+token)
			}
			if impersonate != "" {
				req.Header().Set("X-Debug-Impersonate-User", impersonate)
			}
			return next(ctx, req)
		}
	}
}

func seedClients(ctx context.Context, client *service.SchedulingServiceClient) (map[string]string, error) {
	log.Println("Creating clients...")

	ids := make(map[string]string)
	for _, name := range []string{"Ana Souza", "Bruno Lima", "Carla Dias"} {
		res, err := client.CreateClient(ctx, connect.NewRequest(&service.CreateClientRequest{Name: name}))
		if err != nil {
			return nil, fmt.Errorf("create client %s: %w", name, err)
		}
		ids[name] = res.Msg.Client.ID
		log.Printf("  + %s", name)
	}
	return ids, nil
}

func seedRules(ctx context.Context, client *service.SchedulingServiceClient, clients map[string]string) error {
	log.Println("Creating recurrence rules...")

	start := recurrence.FormatDate(recurrence.MonthStart(time.Now()))
	rules := []struct {
		client   string
		title    string
		days     []time.Weekday
		at       string
		interval int
		amount   string
	}{
		{"Ana Souza", "Pilates", []time.Weekday{time.Monday, time.Wednesday}, "08:00", 1, "90"},
		{"Bruno Lima", "Physiotherapy", []time.Weekday{time.Tuesday}, "17:30", 1, "150"},
		{"Carla Dias", "Follow-up", []time.Weekday{time.Friday}, "10:00", 2, "200"},
	}

	for _, r := range rules {
		res, err := client.CreateRecurrenceRule(ctx, connect.NewRequest(&service.CreateRecurrenceRuleRequest{RuleFields: service.RuleFields{
			ClientID:      clients[r.client],
			Title:         r.title,
			Weekdays:      recurrence.NewWeekdaySet(r.days...),
			TimeOfDay:     r.at,
			StartDate:     start,
			IntervalWeeks: r.interval,
			Amount:        decimal.RequireFromString(r.amount),
		}}))
		if err != nil {
			return fmt.Errorf("create rule %s: %w", r.title, err)
		}
		log.Printf("  + %s for %s (%d appointments)", r.title, r.client, res.Msg.Result.Created)
	}
	return nil
}

func seedSources(ctx context.Context, client *service.SchedulingServiceClient) error {
	log.Println("Creating source records...")

	start := recurrence.MonthStart(time.Now()).AddDate(0, -2, 0)
	monthly := func(day int) *recurrence.Descriptor {
		return &recurrence.Descriptor{Pattern: recurrence.Monthly{DayOfMonth: day, IntervalMonths: 1}, StartDate: start}
	}

	sources := []service.SourceFields{
		{Kind: model.KindExpense, Description: "Studio rent", Amount: decimal.RequireFromString("1800"), IsRecurring: true, Recurrence: monthly(5)},
		{Kind: model.KindExpense, Description: "Scheduling software", Amount: decimal.RequireFromString("49.90"), IsRecurring: true, Recurrence: monthly(12)},
		{Kind: model.KindExpense, Description: "Towels laundry", Amount: decimal.RequireFromString("35"), IsRecurring: true, Recurrence: &recurrence.Descriptor{
			Pattern:   recurrence.Weekly{Weekdays: recurrence.NewWeekdaySet(time.Saturday), IntervalWeeks: 1},
			StartDate: start,
		}},
		{Kind: model.KindRevenue, Description: "Clinic partnership", Amount: decimal.RequireFromString("1200"), IsRecurring: true, Recurrence: monthly(31)},
		{Kind: model.KindRevenue, Description: "Workshop", Amount: decimal.RequireFromString("640")},
	}

	for _, src := range sources {
		src.CompetenceDate = recurrence.FormatDate(start)
		res, err := client.CreateSourceRecord(ctx, connect.NewRequest(&service.CreateSourceRecordRequest{SourceFields: src}))
		if err != nil {
			return fmt.Errorf("create source %s: %w", src.Description, err)
		}
		log.Printf("  + %s %s (%d entries)", src.Kind, src.Description, res.Msg.Change.Materialized.Created)
	}
	return nil
}

func verifySeries(ctx context.Context, client *service.SchedulingServiceClient) error {
	res, err := client.GetMonthlySeries(ctx, connect.NewRequest(&service.GetMonthlySeriesRequest{MonthsBack: 3, MonthsForward: 3}))
	if err != nil {
		return fmt.Errorf("get monthly series: %w", err)
	}
	series := res.Msg.Series
	if len(series.Projection) != 4 {
		return fmt.Errorf("expected 4 projection points, got %d", len(series.Projection))
	}
	if series.History[len(series.History)-1] != series.Projection[0] {
		return fmt.Errorf("current month differs between history and projection")
	}
	for _, p := range series.History {
		log.Printf("  history    %s", p)
	}
	for _, p := range series.Projection[1:] {
		log.Printf("  projection %s", p)
	}
	if series.Projection[1].Scheduled.IsZero() {
		return fmt.Errorf("next month has no scheduled revenue")
	}
	return nil
}
