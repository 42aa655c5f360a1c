package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/castlemilk/agenda/backend/internal/model"
	"github.com/google/uuid"
)

// MemoryStore implements Store interface with in-memory storage
type MemoryStore struct {
	mu sync.RWMutex

	// Storage maps
	owners           map[string]*model.Owner
	clients          map[string]*model.Client
	rules            map[string]*model.RecurrenceRule
	appointments     map[string]*model.Appointment
	sourceRecords    map[string]*model.SourceRecord
	financialEntries map[string]*model.FinancialEntry

	locks *ownerLocks
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		owners:           make(map[string]*model.Owner),
		clients:          make(map[string]*model.Client),
		rules:            make(map[string]*model.RecurrenceRule),
		appointments:     make(map[string]*model.Appointment),
		sourceRecords:    make(map[string]*model.SourceRecord),
		financialEntries: make(map[string]*model.FinancialEntry),
		locks:            newOwnerLocks(),
	}
}

// Owner operations

func (m *MemoryStore) GetOwner(ctx context.Context, ownerID string) (*model.Owner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	owner, ok := m.owners[ownerID]
	if !ok {
		return nil, fmt.Errorf("owner %s: %w", ownerID, ErrNotFound)
	}
	cp := *owner
	return &cp, nil
}

func (m *MemoryStore) UpsertOwner(ctx context.Context, owner *model.Owner) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *owner
	m.owners[owner.ID] = &cp
	return nil
}

func (m *MemoryStore) ListOwnerIDs(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	for id := range m.owners {
		seen[id] = true
	}
	for _, r := range m.rules {
		seen[r.OwnerID] = true
	}
	for _, s := range m.sourceRecords {
		seen[s.OwnerID] = true
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Client operations

func (m *MemoryStore) CreateClient(ctx context.Context, client *model.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	cp := *client
	m.clients[client.ID] = &cp
	return nil
}

func (m *MemoryStore) GetClient(ctx context.Context, clientID string) (*model.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	client, ok := m.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("client %s: %w", clientID, ErrNotFound)
	}
	cp := *client
	return &cp, nil
}

func (m *MemoryStore) DeleteClient(ctx context.Context, clientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.clients, clientID)
	return nil
}

// Recurrence rule operations

func (m *MemoryStore) CreateRecurrenceRule(ctx context.Context, rule *model.RecurrenceRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	cp := *rule
	m.rules[rule.ID] = &cp
	return nil
}

func (m *MemoryStore) GetRecurrenceRule(ctx context.Context, ruleID string) (*model.RecurrenceRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rule, ok := m.rules[ruleID]
	if !ok {
		return nil, fmt.Errorf("recurrence rule %s: %w", ruleID, ErrNotFound)
	}
	cp := *rule
	return &cp, nil
}

func (m *MemoryStore) UpdateRecurrenceRule(ctx context.Context, rule *model.RecurrenceRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rules[rule.ID]; !ok {
		return fmt.Errorf("recurrence rule %s: %w", rule.ID, ErrNotFound)
	}
	cp := *rule
	m.rules[rule.ID] = &cp
	return nil
}

func (m *MemoryStore) ListRecurrenceRules(ctx context.Context, filter RuleFilter) ([]*model.RecurrenceRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*model.RecurrenceRule
	for _, rule := range m.rules {
		if filter.OwnerID != "" && rule.OwnerID != filter.OwnerID {
			continue
		}
		if filter.ClientID != "" && rule.ClientID != filter.ClientID {
			continue
		}
		if filter.ActiveOnly && !rule.Active {
			continue
		}
		cp := *rule
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Appointment operations

func (m *MemoryStore) CreateAppointment(ctx context.Context, appt *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	if appt.RuleID != "" {
		for _, existing := range m.appointments {
			if existing.RuleID == appt.RuleID && existing.Date.Equal(appt.Date) {
				return fmt.Errorf("appointment for rule %s on %s already exists", appt.RuleID, appt.Date.Format("2006-01-02"))
			}
		}
	}
	cp := *appt
	m.appointments[appt.ID] = &cp
	return nil
}

func (m *MemoryStore) GetAppointment(ctx context.Context, apptID string) (*model.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	appt, ok := m.appointments[apptID]
	if !ok {
		return nil, fmt.Errorf("appointment %s: %w", apptID, ErrNotFound)
	}
	cp := *appt
	return &cp, nil
}

func (m *MemoryStore) UpdateAppointment(ctx context.Context, appt *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.appointments[appt.ID]; !ok {
		return fmt.Errorf("appointment %s: %w", appt.ID, ErrNotFound)
	}
	cp := *appt
	m.appointments[appt.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteAppointment(ctx context.Context, apptID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.appointments, apptID)
	return nil
}

func (m *MemoryStore) FindRuleAppointment(ctx context.Context, ruleID string, date time.Time) (*model.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var found *model.Appointment
	for _, appt := range m.appointments {
		if appt.RuleID != ruleID || !appt.Date.Equal(date) {
			continue
		}
		if found == nil || appt.ID < found.ID {
			found = appt
		}
	}
	if found == nil {
		return nil, fmt.Errorf("appointment for rule %s on %s: %w", ruleID, date.Format("2006-01-02"), ErrNotFound)
	}
	cp := *found
	return &cp, nil
}

func (m *MemoryStore) ListAppointments(ctx context.Context, filter AppointmentFilter) ([]*model.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*model.Appointment
	for _, appt := range m.appointments {
		if filter.OwnerID != "" && appt.OwnerID != filter.OwnerID {
			continue
		}
		if filter.ClientID != "" && appt.ClientID != filter.ClientID {
			continue
		}
		if filter.RuleID != "" && appt.RuleID != filter.RuleID {
			continue
		}
		if !inDateRange(appt.Date, filter.From, filter.To) || !hasStatus(appt.Status, filter.Statuses) {
			continue
		}
		cp := *appt
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Source record operations

func (m *MemoryStore) CreateSourceRecord(ctx context.Context, rec *model.SourceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	cp := *rec
	m.sourceRecords[rec.ID] = &cp
	return nil
}

func (m *MemoryStore) GetSourceRecord(ctx context.Context, recordID string) (*model.SourceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.sourceRecords[recordID]
	if !ok {
		return nil, fmt.Errorf("source record %s: %w", recordID, ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

func (m *MemoryStore) UpdateSourceRecord(ctx context.Context, rec *model.SourceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sourceRecords[rec.ID]; !ok {
		return fmt.Errorf("source record %s: %w", rec.ID, ErrNotFound)
	}
	cp := *rec
	m.sourceRecords[rec.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteSourceRecord(ctx context.Context, recordID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sourceRecords, recordID)
	return nil
}

func (m *MemoryStore) ListSourceRecords(ctx context.Context, ownerID string, derivedOnly bool) ([]*model.SourceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*model.SourceRecord
	for _, rec := range m.sourceRecords {
		if rec.OwnerID != ownerID {
			continue
		}
		if derivedOnly && !rec.Derived() {
			continue
		}
		cp := *rec
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Financial entry operations

func (m *MemoryStore) CreateFinancialEntry(ctx context.Context, entry *model.FinancialEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	cp := *entry
	m.financialEntries[entry.ID] = &cp
	return nil
}

func (m *MemoryStore) UpdateFinancialEntry(ctx context.Context, entry *model.FinancialEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.financialEntries[entry.ID]; !ok {
		return fmt.Errorf("financial entry %s: %w", entry.ID, ErrNotFound)
	}
	cp := *entry
	m.financialEntries[entry.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteFinancialEntry(ctx context.Context, entryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.financialEntries, entryID)
	return nil
}

func (m *MemoryStore) FindFinancialEntry(ctx context.Context, ownerID string, kind model.EntryKind, dueDate time.Time, note string) (*model.FinancialEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var found *model.FinancialEntry
	for _, entry := range m.financialEntries {
		if entry.OwnerID != ownerID || entry.Kind != kind || !entry.DueDate.Equal(dueDate) || entry.Note != note {
			continue
		}
		// Lowest ID wins so duplicates resolve the same way every run.
		if found == nil || entry.ID < found.ID {
			found = entry
		}
	}
	if found == nil {
		return nil, fmt.Errorf("financial entry %s/%s/%s: %w", ownerID, kind, dueDate.Format("2006-01-02"), ErrNotFound)
	}
	cp := *found
	return &cp, nil
}

func (m *MemoryStore) ListFinancialEntries(ctx context.Context, filter EntryFilter) ([]*model.FinancialEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*model.FinancialEntry
	for _, entry := range m.financialEntries {
		if filter.OwnerID != "" && entry.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Kind != "" && entry.Kind != filter.Kind {
			continue
		}
		if !inDateRange(entry.DueDate, filter.From, filter.To) {
			continue
		}
		if filter.DerivedOnly {
			if _, ok := model.ParseDerivedNote(entry.Note); !ok {
				continue
			}
		}
		cp := *entry
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].DueDate.Equal(result[j].DueDate) {
			return result[i].DueDate.Before(result[j].DueDate)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// WithOwnerLock serialises fn with other runs for the same owner.
func (m *MemoryStore) WithOwnerLock(ctx context.Context, ownerID string, fn func(ctx context.Context) error) error {
	return m.locks.with(ctx, ownerID, fn)
}
