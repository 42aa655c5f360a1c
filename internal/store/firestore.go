package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/castlemilk/agenda/backend/internal/model"
	"github.com/castlemilk/agenda/backend/internal/recurrence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ownersCollection       = "owners"
	clientsCollection      = "clients"
	rulesCollection        = "recurrenceRules"
	appointmentsCollection = "appointments"
	sourcesCollection      = "sourceRecords"
	entriesCollection      = "financialEntries"
)

// FirestoreStore implements the Store interface using Firestore
type FirestoreStore struct {
	client *firestore.Client
	locks  *ownerLocks
}

// NewFirestoreStore creates a new Firestore-backed store
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{
		client: client,
		locks:  newOwnerLocks(),
	}
}

// Documents keep amounts as decimal strings; Firestore has no decimal type.

type ownerDoc struct {
	Timezone  string    `firestore:"timezone"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

type clientDoc struct {
	OwnerID   string    `firestore:"ownerId"`
	Name      string    `firestore:"name"`
	CreatedAt time.Time `firestore:"createdAt"`
}

type ruleDoc struct {
	OwnerID       string     `firestore:"ownerId"`
	ClientID      string     `firestore:"clientId"`
	Title         string     `firestore:"title"`
	Weekdays      int64      `firestore:"weekdays"`
	TimeOfDay     string     `firestore:"timeOfDay"`
	Timezone      string     `firestore:"timezone"`
	StartDate     time.Time  `firestore:"startDate"`
	EndDate       *time.Time `firestore:"endDate"`
	IntervalWeeks int64      `firestore:"intervalWeeks"`
	Amount        string     `firestore:"amount"`
	Active        bool       `firestore:"active"`
	CreatedAt     time.Time  `firestore:"createdAt"`
	UpdatedAt     time.Time  `firestore:"updatedAt"`
}

type appointmentDoc struct {
	OwnerID   string    `firestore:"ownerId"`
	RuleID    string    `firestore:"ruleId"`
	ClientID  string    `firestore:"clientId"`
	Date      time.Time `firestore:"date"`
	Time      string    `firestore:"time"`
	Amount    string    `firestore:"amount"`
	Status    string    `firestore:"status"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

type sourceDoc struct {
	OwnerID        string    `firestore:"ownerId"`
	Kind           string    `firestore:"kind"`
	Amount         string    `firestore:"amount"`
	Description    string    `firestore:"description"`
	Category       string    `firestore:"category"`
	CompetenceDate time.Time `firestore:"competenceDate"`
	IsRecurring    bool      `firestore:"isRecurring"`
	RecurrenceJSON string    `firestore:"recurrenceJson"`
	IsFixed        bool      `firestore:"isFixed"`
	Derived        bool      `firestore:"derived"`
	CreatedAt      time.Time `firestore:"createdAt"`
	UpdatedAt      time.Time `firestore:"updatedAt"`
}

type entryDoc struct {
	OwnerID   string    `firestore:"ownerId"`
	Kind      string    `firestore:"kind"`
	Status    string    `firestore:"status"`
	Amount    string    `firestore:"amount"`
	DueDate   time.Time `firestore:"dueDate"`
	Note      string    `firestore:"note"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

func wrapGetError(err error, what string) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// Owner operations

func (s *FirestoreStore) GetOwner(ctx context.Context, ownerID string) (*model.Owner, error) {
	snap, err := s.client.Collection(ownersCollection).Doc(ownerID).Get(ctx)
	if err != nil {
		return nil, wrapGetError(err, "owner "+ownerID)
	}
	var doc ownerDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse owner: %w", err)
	}
	return &model.Owner{ID: ownerID, Timezone: doc.Timezone, CreatedAt: doc.CreatedAt, UpdatedAt: doc.UpdatedAt}, nil
}

func (s *FirestoreStore) UpsertOwner(ctx context.Context, owner *model.Owner) error {
	_, err := s.client.Collection(ownersCollection).Doc(owner.ID).Set(ctx, ownerDoc{
		Timezone:  owner.Timezone,
		CreatedAt: owner.CreatedAt,
		UpdatedAt: owner.UpdatedAt,
	})
	return err
}

func (s *FirestoreStore) ListOwnerIDs(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	refs, err := s.client.Collection(ownersCollection).DocumentRefs(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	for _, ref := range refs {
		seen[ref.ID] = true
	}
	for _, collection := range []string{rulesCollection, sourcesCollection} {
		docs, err := s.client.Collection(collection).Select("ownerId").Documents(ctx).GetAll()
		if err != nil {
			return nil, fmt.Errorf("failed to list %s owners: %w", collection, err)
		}
		for _, d := range docs {
			if id, ok := d.Data()["ownerId"].(string); ok {
				seen[id] = true
			}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Client operations

func (s *FirestoreStore) CreateClient(ctx context.Context, client *model.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	_, err := s.client.Collection(clientsCollection).Doc(client.ID).Set(ctx, clientDoc{
		OwnerID:   client.OwnerID,
		Name:      client.Name,
		CreatedAt: client.CreatedAt,
	})
	return err
}

func (s *FirestoreStore) GetClient(ctx context.Context, clientID string) (*model.Client, error) {
	snap, err := s.client.Collection(clientsCollection).Doc(clientID).Get(ctx)
	if err != nil {
		return nil, wrapGetError(err, "client "+clientID)
	}
	var doc clientDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse client: %w", err)
	}
	return &model.Client{ID: clientID, OwnerID: doc.OwnerID, Name: doc.Name, CreatedAt: doc.CreatedAt}, nil
}

func (s *FirestoreStore) DeleteClient(ctx context.Context, clientID string) error {
	_, err := s.client.Collection(clientsCollection).Doc(clientID).Delete(ctx)
	return err
}

// Recurrence rule operations

func ruleToDoc(r *model.RecurrenceRule) ruleDoc {
	return ruleDoc{
		OwnerID:       r.OwnerID,
		ClientID:      r.ClientID,
		Title:         r.Title,
		Weekdays:      int64(r.Weekdays),
		TimeOfDay:     r.TimeOfDay,
		Timezone:      r.Timezone,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		IntervalWeeks: int64(r.IntervalWeeks),
		Amount:        r.Amount.String(),
		Active:        r.Active,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func ruleFromSnapshot(snap *firestore.DocumentSnapshot) (*model.RecurrenceRule, error) {
	var doc ruleDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse recurrence rule: %w", err)
	}
	amount, err := decimal.NewFromString(doc.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount of rule %s: %w", snap.Ref.ID, err)
	}
	r := &model.RecurrenceRule{
		ID:            snap.Ref.ID,
		OwnerID:       doc.OwnerID,
		ClientID:      doc.ClientID,
		Title:         doc.Title,
		Weekdays:      recurrence.WeekdaySet(doc.Weekdays),
		TimeOfDay:     doc.TimeOfDay,
		Timezone:      doc.Timezone,
		StartDate:     doc.StartDate.UTC(),
		IntervalWeeks: int(doc.IntervalWeeks),
		Amount:        amount,
		Active:        doc.Active,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
	if doc.EndDate != nil {
		end := doc.EndDate.UTC()
		r.EndDate = &end
	}
	return r, nil
}

func (s *FirestoreStore) CreateRecurrenceRule(ctx context.Context, rule *model.RecurrenceRule) error {
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	_, err := s.client.Collection(rulesCollection).Doc(rule.ID).Set(ctx, ruleToDoc(rule))
	return err
}

func (s *FirestoreStore) GetRecurrenceRule(ctx context.Context, ruleID string) (*model.RecurrenceRule, error) {
	snap, err := s.client.Collection(rulesCollection).Doc(ruleID).Get(ctx)
	if err != nil {
		return nil, wrapGetError(err, "recurrence rule "+ruleID)
	}
	return ruleFromSnapshot(snap)
}

func (s *FirestoreStore) UpdateRecurrenceRule(ctx context.Context, rule *model.RecurrenceRule) error {
	ref := s.client.Collection(rulesCollection).Doc(rule.ID)
	if _, err := ref.Get(ctx); err != nil {
		return wrapGetError(err, "recurrence rule "+rule.ID)
	}
	_, err := ref.Set(ctx, ruleToDoc(rule))
	return err
}

func (s *FirestoreStore) ListRecurrenceRules(ctx context.Context, filter RuleFilter) ([]*model.RecurrenceRule, error) {
	query := s.client.Collection(rulesCollection).Query
	if filter.OwnerID != "" {
		query = query.Where("ownerId", "==", filter.OwnerID)
	}
	if filter.ClientID != "" {
		query = query.Where("clientId", "==", filter.ClientID)
	}
	if filter.ActiveOnly {
		query = query.Where("active", "==", true)
	}
	docs, err := query.OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list recurrence rules: %w", err)
	}
	rules := make([]*model.RecurrenceRule, 0, len(docs))
	for _, d := range docs {
		r, err := ruleFromSnapshot(d)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// Appointment operations

func appointmentToDoc(a *model.Appointment) appointmentDoc {
	return appointmentDoc{
		OwnerID:   a.OwnerID,
		RuleID:    a.RuleID,
		ClientID:  a.ClientID,
		Date:      a.Date,
		Time:      a.Time,
		Amount:    a.Amount.String(),
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func appointmentFromSnapshot(snap *firestore.DocumentSnapshot) (*model.Appointment, error) {
	var doc appointmentDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse appointment: %w", err)
	}
	amount, err := decimal.NewFromString(doc.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount of appointment %s: %w", snap.Ref.ID, err)
	}
	return &model.Appointment{
		ID:        snap.Ref.ID,
		OwnerID:   doc.OwnerID,
		RuleID:    doc.RuleID,
		ClientID:  doc.ClientID,
		Date:      doc.Date.UTC(),
		Time:      doc.Time,
		Amount:    amount,
		Status:    model.AppointmentStatus(doc.Status),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func (s *FirestoreStore) CreateAppointment(ctx context.Context, appt *model.Appointment) error {
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	_, err := s.client.Collection(appointmentsCollection).Doc(appt.ID).Set(ctx, appointmentToDoc(appt))
	return err
}

func (s *FirestoreStore) GetAppointment(ctx context.Context, apptID string) (*model.Appointment, error) {
	snap, err := s.client.Collection(appointmentsCollection).Doc(apptID).Get(ctx)
	if err != nil {
		return nil, wrapGetError(err, "appointment "+apptID)
	}
	return appointmentFromSnapshot(snap)
}

func (s *FirestoreStore) UpdateAppointment(ctx context.Context, appt *model.Appointment) error {
	ref := s.client.Collection(appointmentsCollection).Doc(appt.ID)
	if _, err := ref.Get(ctx); err != nil {
		return wrapGetError(err, "appointment "+appt.ID)
	}
	_, err := ref.Set(ctx, appointmentToDoc(appt))
	return err
}

func (s *FirestoreStore) DeleteAppointment(ctx context.Context, apptID string) error {
	_, err := s.client.Collection(appointmentsCollection).Doc(apptID).Delete(ctx)
	return err
}

func (s *FirestoreStore) FindRuleAppointment(ctx context.Context, ruleID string, date time.Time) (*model.Appointment, error) {
	docs, err := s.client.Collection(appointmentsCollection).
		Where("ruleId", "==", ruleID).
		Where("date", "==", date).
		OrderBy(firestore.DocumentID, firestore.Asc).
		Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to find appointment: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("appointment for rule %s on %s: %w", ruleID, recurrence.FormatDate(date), ErrNotFound)
	}
	return appointmentFromSnapshot(docs[0])
}

func (s *FirestoreStore) ListAppointments(ctx context.Context, filter AppointmentFilter) ([]*model.Appointment, error) {
	query := s.client.Collection(appointmentsCollection).Query
	if filter.OwnerID != "" {
		query = query.Where("ownerId", "==", filter.OwnerID)
	}
	if filter.ClientID != "" {
		query = query.Where("clientId", "==", filter.ClientID)
	}
	if filter.RuleID != "" {
		query = query.Where("ruleId", "==", filter.RuleID)
	}
	if filter.From != nil {
		query = query.Where("date", ">=", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date", "<=", *filter.To)
	}
	docs, err := query.OrderBy("date", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	appts := make([]*model.Appointment, 0, len(docs))
	for _, d := range docs {
		a, err := appointmentFromSnapshot(d)
		if err != nil {
			return nil, err
		}
		// Status is filtered here to avoid a composite index per status set.
		if !hasStatus(a.Status, filter.Statuses) {
			continue
		}
		appts = append(appts, a)
	}
	sort.SliceStable(appts, func(i, j int) bool {
		if !appts[i].Date.Equal(appts[j].Date) {
			return appts[i].Date.Before(appts[j].Date)
		}
		return appts[i].ID < appts[j].ID
	})
	return appts, nil
}

// Source record operations

func sourceToDoc(rec *model.SourceRecord) (sourceDoc, error) {
	doc := sourceDoc{
		OwnerID:        rec.OwnerID,
		Kind:           string(rec.Kind),
		Amount:         rec.Amount.String(),
		Description:    rec.Description,
		Category:       rec.Category,
		CompetenceDate: rec.CompetenceDate,
		IsRecurring:    rec.IsRecurring,
		IsFixed:        rec.IsFixed,
		Derived:        rec.Derived(),
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
	if rec.Recurrence != nil {
		b, err := json.Marshal(rec.Recurrence)
		if err != nil {
			return doc, fmt.Errorf("failed to encode recurrence: %w", err)
		}
		doc.RecurrenceJSON = string(b)
	}
	return doc, nil
}

func sourceFromSnapshot(snap *firestore.DocumentSnapshot) (*model.SourceRecord, error) {
	var doc sourceDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse source record: %w", err)
	}
	amount, err := decimal.NewFromString(doc.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount of source record %s: %w", snap.Ref.ID, err)
	}
	rec := &model.SourceRecord{
		ID:             snap.Ref.ID,
		OwnerID:        doc.OwnerID,
		Kind:           model.EntryKind(doc.Kind),
		Amount:         amount,
		Description:    doc.Description,
		Category:       doc.Category,
		CompetenceDate: doc.CompetenceDate.UTC(),
		IsRecurring:    doc.IsRecurring,
		IsFixed:        doc.IsFixed,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
	if doc.RecurrenceJSON != "" {
		var d recurrence.Descriptor
		if err := json.Unmarshal([]byte(doc.RecurrenceJSON), &d); err != nil {
			return nil, fmt.Errorf("failed to decode recurrence of %s: %w", snap.Ref.ID, err)
		}
		rec.Recurrence = &d
	}
	return rec, nil
}

func (s *FirestoreStore) CreateSourceRecord(ctx context.Context, rec *model.SourceRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	doc, err := sourceToDoc(rec)
	if err != nil {
		return err
	}
	_, err = s.client.Collection(sourcesCollection).Doc(rec.ID).Set(ctx, doc)
	return err
}

func (s *FirestoreStore) GetSourceRecord(ctx context.Context, recordID string) (*model.SourceRecord, error) {
	snap, err := s.client.Collection(sourcesCollection).Doc(recordID).Get(ctx)
	if err != nil {
		return nil, wrapGetError(err, "source record "+recordID)
	}
	return sourceFromSnapshot(snap)
}

func (s *FirestoreStore) UpdateSourceRecord(ctx context.Context, rec *model.SourceRecord) error {
	ref := s.client.Collection(sourcesCollection).Doc(rec.ID)
	if _, err := ref.Get(ctx); err != nil {
		return wrapGetError(err, "source record "+rec.ID)
	}
	doc, err := sourceToDoc(rec)
	if err != nil {
		return err
	}
	_, err = ref.Set(ctx, doc)
	return err
}

func (s *FirestoreStore) DeleteSourceRecord(ctx context.Context, recordID string) error {
	_, err := s.client.Collection(sourcesCollection).Doc(recordID).Delete(ctx)
	return err
}

func (s *FirestoreStore) ListSourceRecords(ctx context.Context, ownerID string, derivedOnly bool) ([]*model.SourceRecord, error) {
	query := s.client.Collection(sourcesCollection).Where("ownerId", "==", ownerID)
	if derivedOnly {
		query = query.Where("derived", "==", true)
	}
	docs, err := query.OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list source records: %w", err)
	}
	records := make([]*model.SourceRecord, 0, len(docs))
	for _, d := range docs {
		rec, err := sourceFromSnapshot(d)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Financial entry operations

func entryToDoc(e *model.FinancialEntry) entryDoc {
	return entryDoc{
		OwnerID:   e.OwnerID,
		Kind:      string(e.Kind),
		Status:    string(e.Status),
		Amount:    e.Amount.String(),
		DueDate:   e.DueDate,
		Note:      e.Note,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func entryFromSnapshot(snap *firestore.DocumentSnapshot) (*model.FinancialEntry, error) {
	var doc entryDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse financial entry: %w", err)
	}
	amount, err := decimal.NewFromString(doc.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount of financial entry %s: %w", snap.Ref.ID, err)
	}
	return &model.FinancialEntry{
		ID:        snap.Ref.ID,
		OwnerID:   doc.OwnerID,
		Kind:      model.EntryKind(doc.Kind),
		Status:    model.EntryStatus(doc.Status),
		Amount:    amount,
		DueDate:   doc.DueDate.UTC(),
		Note:      doc.Note,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func (s *FirestoreStore) CreateFinancialEntry(ctx context.Context, entry *model.FinancialEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	_, err := s.client.Collection(entriesCollection).Doc(entry.ID).Set(ctx, entryToDoc(entry))
	return err
}

func (s *FirestoreStore) UpdateFinancialEntry(ctx context.Context, entry *model.FinancialEntry) error {
	ref := s.client.Collection(entriesCollection).Doc(entry.ID)
	if _, err := ref.Get(ctx); err != nil {
		return wrapGetError(err, "financial entry "+entry.ID)
	}
	_, err := ref.Set(ctx, entryToDoc(entry))
	return err
}

func (s *FirestoreStore) DeleteFinancialEntry(ctx context.Context, entryID string) error {
	_, err := s.client.Collection(entriesCollection).Doc(entryID).Delete(ctx)
	return err
}

func (s *FirestoreStore) FindFinancialEntry(ctx context.Context, ownerID string, kind model.EntryKind, dueDate time.Time, note string) (*model.FinancialEntry, error) {
	docs, err := s.client.Collection(entriesCollection).
		Where("ownerId", "==", ownerID).
		Where("kind", "==", string(kind)).
		Where("dueDate", "==", dueDate).
		Where("note", "==", note).
		OrderBy(firestore.DocumentID, firestore.Asc).
		Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to find financial entry: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("financial entry %s/%s/%s: %w", ownerID, kind, recurrence.FormatDate(dueDate), ErrNotFound)
	}
	return entryFromSnapshot(docs[0])
}

func (s *FirestoreStore) ListFinancialEntries(ctx context.Context, filter EntryFilter) ([]*model.FinancialEntry, error) {
	query := s.client.Collection(entriesCollection).Query
	if filter.OwnerID != "" {
		query = query.Where("ownerId", "==", filter.OwnerID)
	}
	if filter.Kind != "" {
		query = query.Where("kind", "==", string(filter.Kind))
	}
	if filter.From != nil {
		query = query.Where("dueDate", ">=", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("dueDate", "<=", *filter.To)
	}
	docs, err := query.OrderBy("dueDate", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list financial entries: %w", err)
	}
	entries := make([]*model.FinancialEntry, 0, len(docs))
	for _, d := range docs {
		e, err := entryFromSnapshot(d)
		if err != nil {
			return nil, err
		}
		if filter.DerivedOnly {
			if _, ok := model.ParseDerivedNote(e.Note); !ok {
				continue
			}
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].DueDate.Equal(entries[j].DueDate) {
			return entries[i].DueDate.Before(entries[j].DueDate)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

// WithOwnerLock serialises one owner's runs within this instance. Firestore
// has no advisory locks; multi-instance deployments should use Postgres.
func (s *FirestoreStore) WithOwnerLock(ctx context.Context, ownerID string, fn func(ctx context.Context) error) error {
	return s.locks.with(ctx, ownerID, fn)
}
