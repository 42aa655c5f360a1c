package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/castlemilk/agenda/backend/internal/model"
	"github.com/castlemilk/agenda/backend/internal/recurrence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore implements the Store interface on PostgreSQL.
// Amounts travel as text and are cast to numeric in SQL so no precision is
// lost on the way through float types.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an open pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// OpenPostgres connects, pings and migrates the database at dsn.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if err := RunMigrations(dsn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewPostgresStore(pool), nil
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// conditions accumulates a WHERE clause with positional arguments.
type conditions struct {
	clauses []string
	args    []any
}

func (c *conditions) add(clause string, arg any) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, strings.ReplaceAll(clause, "?", fmt.Sprintf("$%d", len(c.args))))
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}

// Owner operations

func (s *PostgresStore) GetOwner(ctx context.Context, ownerID string) (*model.Owner, error) {
	var o model.Owner
	err := s.pool.QueryRow(ctx,
		`SELECT id, timezone, created_at, updated_at FROM owners WHERE id = $1`, ownerID,
	).Scan(&o.ID, &o.Timezone, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "owner "+ownerID)
	}
	return &o, nil
}

func (s *PostgresStore) UpsertOwner(ctx context.Context, owner *model.Owner) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO owners (id, timezone, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET timezone = EXCLUDED.timezone, updated_at = EXCLUDED.updated_at`,
		owner.ID, owner.Timezone, owner.CreatedAt, owner.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert owner %s: %w", owner.ID, err)
	}
	return nil
}

func (s *PostgresStore) ListOwnerIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id FROM owners
		UNION SELECT owner_id FROM recurrence_rules
		UNION SELECT owner_id FROM source_records
		ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Client operations

func (s *PostgresStore) CreateClient(ctx context.Context, client *model.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO clients (id, owner_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		client.ID, client.OwnerID, client.Name, client.CreatedAt)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetClient(ctx context.Context, clientID string) (*model.Client, error) {
	var c model.Client
	err := s.pool.QueryRow(ctx,
		`SELECT id, owner_id, name, created_at FROM clients WHERE id = $1`, clientID,
	).Scan(&c.ID, &c.OwnerID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err, "client "+clientID)
	}
	return &c, nil
}

func (s *PostgresStore) DeleteClient(ctx context.Context, clientID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, clientID); err != nil {
		return fmt.Errorf("delete client %s: %w", clientID, err)
	}
	return nil
}

// Recurrence rule operations

const ruleColumns = `id, owner_id, client_id, title, weekdays, time_of_day, timezone,
	start_date, end_date, interval_weeks, amount::text, active, created_at, updated_at`

func scanRule(row pgx.Row) (*model.RecurrenceRule, error) {
	var (
		r        model.RecurrenceRule
		weekdays int16
		amount   string
	)
	if err := row.Scan(&r.ID, &r.OwnerID, &r.ClientID, &r.Title, &weekdays, &r.TimeOfDay, &r.Timezone,
		&r.StartDate, &r.EndDate, &r.IntervalWeeks, &amount, &r.Active, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Weekdays = recurrence.WeekdaySet(weekdays)
	var err error
	if r.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *PostgresStore) CreateRecurrenceRule(ctx context.Context, rule *model.RecurrenceRule) error {
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO recurrence_rules (`+ruleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::numeric, $12, $13, $14)`,
		rule.ID, rule.OwnerID, rule.ClientID, rule.Title, int16(rule.Weekdays), rule.TimeOfDay, rule.Timezone,
		rule.StartDate, rule.EndDate, rule.IntervalWeeks, rule.Amount.String(), rule.Active, rule.CreatedAt, rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create recurrence rule: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetRecurrenceRule(ctx context.Context, ruleID string) (*model.RecurrenceRule, error) {
	rule, err := scanRule(s.pool.QueryRow(ctx, `SELECT `+ruleColumns+` FROM recurrence_rules WHERE id = $1`, ruleID))
	if err != nil {
		return nil, notFound(err, "recurrence rule "+ruleID)
	}
	return rule, nil
}

func (s *PostgresStore) UpdateRecurrenceRule(ctx context.Context, rule *model.RecurrenceRule) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE recurrence_rules SET client_id = $2, title = $3, weekdays = $4, time_of_day = $5, timezone = $6,
			start_date = $7, end_date = $8, interval_weeks = $9, amount = $10::numeric, active = $11, updated_at = $12
		WHERE id = $1`,
		rule.ID, rule.ClientID, rule.Title, int16(rule.Weekdays), rule.TimeOfDay, rule.Timezone,
		rule.StartDate, rule.EndDate, rule.IntervalWeeks, rule.Amount.String(), rule.Active, rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update recurrence rule %s: %w", rule.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recurrence rule %s: %w", rule.ID, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) ListRecurrenceRules(ctx context.Context, filter RuleFilter) ([]*model.RecurrenceRule, error) {
	var c conditions
	if filter.OwnerID != "" {
		c.add("owner_id = ?", filter.OwnerID)
	}
	if filter.ClientID != "" {
		c.add("client_id = ?", filter.ClientID)
	}
	if filter.ActiveOnly {
		c.add("active = ?", true)
	}
	rows, err := s.pool.Query(ctx, `SELECT `+ruleColumns+` FROM recurrence_rules`+c.where()+` ORDER BY id`, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list recurrence rules: %w", err)
	}
	defer rows.Close()

	var result []*model.RecurrenceRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recurrence rule: %w", err)
		}
		result = append(result, rule)
	}
	return result, rows.Err()
}

// Appointment operations

const appointmentColumns = `id, owner_id, COALESCE(rule_id, ''), client_id, date, time, amount::text, status, created_at, updated_at`

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var (
		a      model.Appointment
		amount string
	)
	if err := row.Scan(&a.ID, &a.OwnerID, &a.RuleID, &a.ClientID, &a.Date, &a.Time, &amount,
		&a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if a.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStore) CreateAppointment(ctx context.Context, appt *model.Appointment) error {
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO appointments (id, owner_id, rule_id, client_id, date, time, amount, status, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7::numeric, $8, $9, $10)`,
		appt.ID, appt.OwnerID, appt.RuleID, appt.ClientID, appt.Date, appt.Time, appt.Amount.String(),
		string(appt.Status), appt.CreatedAt, appt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetAppointment(ctx context.Context, apptID string) (*model.Appointment, error) {
	appt, err := scanAppointment(s.pool.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, apptID))
	if err != nil {
		return nil, notFound(err, "appointment "+apptID)
	}
	return appt, nil
}

func (s *PostgresStore) UpdateAppointment(ctx context.Context, appt *model.Appointment) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE appointments SET client_id = $2, date = $3, time = $4, amount = $5::numeric, status = $6, updated_at = $7
		WHERE id = $1`,
		appt.ID, appt.ClientID, appt.Date, appt.Time, appt.Amount.String(), string(appt.Status), appt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update appointment %s: %w", appt.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("appointment %s: %w", appt.ID, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) DeleteAppointment(ctx context.Context, apptID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, apptID); err != nil {
		return fmt.Errorf("delete appointment %s: %w", apptID, err)
	}
	return nil
}

func (s *PostgresStore) FindRuleAppointment(ctx context.Context, ruleID string, date time.Time) (*model.Appointment, error) {
	appt, err := scanAppointment(s.pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE rule_id = $1 AND date = $2`, ruleID, date))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("appointment for rule %s on %s", ruleID, recurrence.FormatDate(date)))
	}
	return appt, nil
}

func (s *PostgresStore) ListAppointments(ctx context.Context, filter AppointmentFilter) ([]*model.Appointment, error) {
	var c conditions
	if filter.OwnerID != "" {
		c.add("owner_id = ?", filter.OwnerID)
	}
	if filter.ClientID != "" {
		c.add("client_id = ?", filter.ClientID)
	}
	if filter.RuleID != "" {
		c.add("rule_id = ?", filter.RuleID)
	}
	if filter.From != nil {
		c.add("date >= ?", *filter.From)
	}
	if filter.To != nil {
		c.add("date <= ?", *filter.To)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			statuses[i] = string(st)
		}
		c.add("status = ANY(?)", statuses)
	}
	rows, err := s.pool.Query(ctx, `SELECT `+appointmentColumns+` FROM appointments`+c.where()+` ORDER BY date, id`, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var result []*model.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		result = append(result, appt)
	}
	return result, rows.Err()
}

// Source record operations

const sourceColumns = `id, owner_id, kind, amount::text, description, category, competence_date,
	is_recurring, recurrence, is_fixed, created_at, updated_at`

func scanSource(row pgx.Row) (*model.SourceRecord, error) {
	var (
		rec     model.SourceRecord
		amount  string
		recJSON []byte
	)
	if err := row.Scan(&rec.ID, &rec.OwnerID, &rec.Kind, &amount, &rec.Description, &rec.Category,
		&rec.CompetenceDate, &rec.IsRecurring, &recJSON, &rec.IsFixed, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if rec.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	if len(recJSON) > 0 {
		var d recurrence.Descriptor
		if err := json.Unmarshal(recJSON, &d); err != nil {
			return nil, fmt.Errorf("decode recurrence of %s: %w", rec.ID, err)
		}
		rec.Recurrence = &d
	}
	return &rec, nil
}

func encodeRecurrence(d *recurrence.Descriptor) ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

func (s *PostgresStore) CreateSourceRecord(ctx context.Context, rec *model.SourceRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	recJSON, err := encodeRecurrence(rec.Recurrence)
	if err != nil {
		return fmt.Errorf("encode recurrence: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO source_records (`+sourceColumns+`)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rec.ID, rec.OwnerID, string(rec.Kind), rec.Amount.String(), rec.Description, rec.Category,
		rec.CompetenceDate, rec.IsRecurring, recJSON, rec.IsFixed, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create source record: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetSourceRecord(ctx context.Context, recordID string) (*model.SourceRecord, error) {
	rec, err := scanSource(s.pool.QueryRow(ctx, `SELECT `+sourceColumns+` FROM source_records WHERE id = $1`, recordID))
	if err != nil {
		return nil, notFound(err, "source record "+recordID)
	}
	return rec, nil
}

func (s *PostgresStore) UpdateSourceRecord(ctx context.Context, rec *model.SourceRecord) error {
	recJSON, err := encodeRecurrence(rec.Recurrence)
	if err != nil {
		return fmt.Errorf("encode recurrence: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE source_records SET kind = $2, amount = $3::numeric, description = $4, category = $5,
			competence_date = $6, is_recurring = $7, recurrence = $8, is_fixed = $9, updated_at = $10
		WHERE id = $1`,
		rec.ID, string(rec.Kind), rec.Amount.String(), rec.Description, rec.Category,
		rec.CompetenceDate, rec.IsRecurring, recJSON, rec.IsFixed, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update source record %s: %w", rec.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("source record %s: %w", rec.ID, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) DeleteSourceRecord(ctx context.Context, recordID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM source_records WHERE id = $1`, recordID); err != nil {
		return fmt.Errorf("delete source record %s: %w", recordID, err)
	}
	return nil
}

func (s *PostgresStore) ListSourceRecords(ctx context.Context, ownerID string, derivedOnly bool) ([]*model.SourceRecord, error) {
	query := `SELECT ` + sourceColumns + ` FROM source_records WHERE owner_id = $1`
	if derivedOnly {
		query += ` AND (is_recurring OR is_fixed)`
	}
	rows, err := s.pool.Query(ctx, query+` ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list source records: %w", err)
	}
	defer rows.Close()

	var result []*model.SourceRecord
	for rows.Next() {
		rec, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan source record: %w", err)
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

// Financial entry operations

const entryColumns = `id, owner_id, kind, status, amount::text, due_date, note, created_at, updated_at`

func scanEntry(row pgx.Row) (*model.FinancialEntry, error) {
	var (
		e      model.FinancialEntry
		amount string
	)
	if err := row.Scan(&e.ID, &e.OwnerID, &e.Kind, &e.Status, &amount, &e.DueDate, &e.Note,
		&e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if e.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *PostgresStore) CreateFinancialEntry(ctx context.Context, entry *model.FinancialEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO financial_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9)`,
		entry.ID, entry.OwnerID, string(entry.Kind), string(entry.Status), entry.Amount.String(),
		entry.DueDate, entry.Note, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create financial entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateFinancialEntry(ctx context.Context, entry *model.FinancialEntry) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE financial_entries SET kind = $2, status = $3, amount = $4::numeric, due_date = $5, note = $6, updated_at = $7
		WHERE id = $1`,
		entry.ID, string(entry.Kind), string(entry.Status), entry.Amount.String(), entry.DueDate, entry.Note, entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update financial entry %s: %w", entry.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("financial entry %s: %w", entry.ID, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) DeleteFinancialEntry(ctx context.Context, entryID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM financial_entries WHERE id = $1`, entryID); err != nil {
		return fmt.Errorf("delete financial entry %s: %w", entryID, err)
	}
	return nil
}

func (s *PostgresStore) FindFinancialEntry(ctx context.Context, ownerID string, kind model.EntryKind, dueDate time.Time, note string) (*model.FinancialEntry, error) {
	entry, err := scanEntry(s.pool.QueryRow(ctx, `
		SELECT `+entryColumns+` FROM financial_entries
		WHERE owner_id = $1 AND kind = $2 AND due_date = $3 AND note = $4
		ORDER BY id LIMIT 1`,
		ownerID, string(kind), dueDate, note))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("financial entry %s/%s/%s", ownerID, kind, recurrence.FormatDate(dueDate)))
	}
	return entry, nil
}

func (s *PostgresStore) ListFinancialEntries(ctx context.Context, filter EntryFilter) ([]*model.FinancialEntry, error) {
	var c conditions
	if filter.OwnerID != "" {
		c.add("owner_id = ?", filter.OwnerID)
	}
	if filter.Kind != "" {
		c.add("kind = ?", string(filter.Kind))
	}
	if filter.From != nil {
		c.add("due_date >= ?", *filter.From)
	}
	if filter.To != nil {
		c.add("due_date <= ?", *filter.To)
	}
	if filter.DerivedOnly {
		c.add("note ~ ?", `^auto-(recurring|fixed): .+$`)
	}
	rows, err := s.pool.Query(ctx, `SELECT `+entryColumns+` FROM financial_entries`+c.where()+` ORDER BY due_date, id`, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list financial entries: %w", err)
	}
	defer rows.Close()

	var result []*model.FinancialEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan financial entry: %w", err)
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// WithOwnerLock holds a session advisory lock on the owner for the duration
// of fn. Other instances block on the same key.
func (s *PostgresStore) WithOwnerLock(ctx context.Context, ownerID string, fn func(ctx context.Context) error) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire lock connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock(hashtext($1))`, ownerID); err != nil {
		return fmt.Errorf("lock owner %s: %w", ownerID, err)
	}
	defer func() {
		// Unlock on a fresh context so a cancelled request still releases the key.
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock(hashtext($1))`, ownerID)
	}()

	return fn(ctx)
}
