// ABOUTME: Customer record store that owns the canonical list of account records
// ABOUTME: Every mutation publishes fresh copies to subscribers and rewrites the persisted document
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/harperreed/acctnotes/models"
	"github.com/harperreed/acctnotes/observability"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrEmptyName        = errors.New("customer name is required")
	ErrAmbiguousName    = errors.New("customer name matches more than one record")
)

// Document is the persisted layout: every record plus the time of the write.
type Document struct {
	Customers []models.CustomerRecord `json:"customers"`
	LastSaved time.Time               `json:"lastSaved"`
}

// Persister loads and saves the whole document.
type Persister interface {
	Load(ctx context.Context) (Document, error)
	Save(ctx context.Context, doc Document) error
}

// ChangeKind names what a mutation did.
type ChangeKind string

const (
	ChangeCreated  ChangeKind = "created"
	ChangeUpdated  ChangeKind = "updated"
	ChangeDeleted  ChangeKind = "deleted"
	ChangeReplaced ChangeKind = "replaced"
)

// Change is delivered to subscribers after a mutation commits.
// Before is nil on create, After is nil on delete, both are nil on replace.
type Change struct {
	Kind   ChangeKind
	ID     models.RecordID
	Before *models.CustomerRecord
	After  *models.CustomerRecord
}

// Store holds records in memory and is the only writer of the persisted document.
type Store struct {
	mu        sync.RWMutex
	customers []models.CustomerRecord

	saveMu    sync.Mutex
	lastErr   error
	persister Persister

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int

	clock    clock.Clock
	logger   *zap.Logger
	metrics  *observability.Metrics
	validate *validator.Validate
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for lastEdited and lastSaved stamps.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// New creates an empty store. A nil persister keeps records in memory only.
func New(p Persister, opts ...Option) *Store {
	s := &Store{
		customers: []models.CustomerRecord{},
		persister: p,
		subs:      make(map[int]func(Change)),
		clock:     clock.New(),
		logger:    zap.NewNop(),
		validate:  newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory records with the persisted document.
func (s *Store) Load(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	doc, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load customers: %w", err)
	}

	loaded := make([]models.CustomerRecord, 0, len(doc.Customers))
	for _, c := range doc.Customers {
		loaded = append(loaded, c.Clone())
	}

	s.mu.Lock()
	s.customers = loaded
	s.mu.Unlock()
	return nil
}

// Subscribe registers fn for every committed change and returns a function
// that removes it. fn runs on the mutating goroutine after locks are released.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// List returns copies of every record in display order.
func (s *Store) List() []models.CustomerRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CustomerRecord, len(s.customers))
	for i, c := range s.customers {
		out[i] = c.Clone()
	}
	return out
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id models.RecordID) (models.CustomerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.CustomerRecord{}, ErrCustomerNotFound
	}
	return s.customers[idx].Clone(), nil
}

// Resolve finds a record by exact id, then by case-insensitive name.
func (s *Store) Resolve(ref string) (models.CustomerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(models.RecordID(ref)); idx >= 0 {
		return s.customers[idx].Clone(), nil
	}

	match := -1
	for i, c := range s.customers {
		if strings.EqualFold(c.Name, ref) {
			if match >= 0 {
				return models.CustomerRecord{}, ErrAmbiguousName
			}
			match = i
		}
	}
	if match < 0 {
		return models.CustomerRecord{}, ErrCustomerNotFound
	}
	return s.customers[match].Clone(), nil
}

// Search returns records whose name contains query, ignoring case.
func (s *Store) Search(query string) []models.CustomerRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.CustomerRecord
	for _, c := range s.List() {
		if q == "" || strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	return out
}

// Create adds a record named name seeded with modules and returns it.
func (s *Store) Create(ctx context.Context, name string, modules []models.ProductEntry) (models.CustomerRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.CustomerRecord{}, ErrEmptyName
	}

	rec := models.NewCustomerRecord(name, s.clock.Now())
	rec.Data.Modules = append(rec.Data.Modules, modules...)

	s.mu.Lock()
	s.customers = append(s.customers, rec)
	sortByName(s.customers)
	s.mu.Unlock()

	after := rec.Clone()
	s.commit(ctx, Change{Kind: ChangeCreated, ID: rec.ID, After: &after})
	return rec.Clone(), nil
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, id models.RecordID) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrCustomerNotFound
	}
	before := s.customers[idx].Clone()
	s.customers = append(s.customers[:idx:idx], s.customers[idx+1:]...)
	s.mu.Unlock()

	s.commit(ctx, Change{Kind: ChangeDeleted, ID: id, Before: &before})
	return nil
}

// Update applies fn to a copy of the record and publishes the result.
// The id is immutable and lastEdited is stamped regardless of what fn returns.
func (s *Store) Update(ctx context.Context, id models.RecordID, fn func(models.CustomerRecord) (models.CustomerRecord, error)) (models.CustomerRecord, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.CustomerRecord{}, ErrCustomerNotFound
	}

	before := s.customers[idx].Clone()
	next, err := fn(before.Clone())
	if err != nil {
		s.mu.Unlock()
		return models.CustomerRecord{}, err
	}
	next = next.Clone()
	next.ID = id
	next.Touch(s.clock.Now())
	s.customers[idx] = next

	renamed := before.Name != next.Name
	if renamed {
		sortByName(s.customers)
	}
	s.mu.Unlock()

	after := next.Clone()
	s.commit(ctx, Change{Kind: ChangeUpdated, ID: id, Before: &before, After: &after})
	return next.Clone(), nil
}

// Rename changes the display name of a record.
func (s *Store) Rename(ctx context.Context, id models.RecordID, name string) (models.CustomerRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.CustomerRecord{}, ErrEmptyName
	}
	return s.Update(ctx, id, func(rec models.CustomerRecord) (models.CustomerRecord, error) {
		rec.Name = name
		rec.Data.Overview.CustomerName = name
		return rec, nil
	})
}

// SetGeneral sets one general attribute. An empty value removes the key.
func (s *Store) SetGeneral(ctx context.Context, id models.RecordID, key, value string) (models.CustomerRecord, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return models.CustomerRecord{}, fmt.Errorf("attribute key is required")
	}
	return s.Update(ctx, id, func(rec models.CustomerRecord) (models.CustomerRecord, error) {
		if rec.Data.General == nil {
			rec.Data.General = models.Attributes{}
		}
		if value == "" {
			delete(rec.Data.General, key)
		} else {
			rec.Data.General[key] = value
		}
		return rec, nil
	})
}

// SetNotes replaces the free-text overview notes.
func (s *Store) SetNotes(ctx context.Context, id models.RecordID, notes string) (models.CustomerRecord, error) {
	return s.Update(ctx, id, func(rec models.CustomerRecord) (models.CustomerRecord, error) {
		rec.Data.Overview.GeneralNotes = notes
		return rec, nil
	})
}

// ReplaceAll swaps in a new record list wholesale, as a restore does.
func (s *Store) ReplaceAll(ctx context.Context, customers []models.CustomerRecord) error {
	next := make([]models.CustomerRecord, 0, len(customers))
	seen := make(map[models.RecordID]bool, len(customers))
	for _, c := range customers {
		if c.ID == "" {
			return fmt.Errorf("customer %q has no id", c.Name)
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate customer id %s", c.ID)
		}
		seen[c.ID] = true
		next = append(next, c.Clone())
	}

	s.mu.Lock()
	s.customers = next
	s.mu.Unlock()

	s.commit(ctx, Change{Kind: ChangeReplaced})
	return nil
}

// Append adds already-built records, as a spreadsheet import does.
func (s *Store) Append(ctx context.Context, customers []models.CustomerRecord) error {
	s.mu.Lock()
	for _, c := range customers {
		if s.indexOf(c.ID) >= 0 {
			s.mu.Unlock()
			return fmt.Errorf("duplicate customer id %s", c.ID)
		}
	}
	for _, c := range customers {
		s.customers = append(s.customers, c.Clone())
	}
	sortByName(s.customers)
	s.mu.Unlock()

	s.commit(ctx, Change{Kind: ChangeReplaced})
	return nil
}

// Flush rewrites the persisted document from current state.
func (s *Store) Flush(ctx context.Context) error {
	return s.persist(ctx)
}

// LastSaveError returns the most recent persistence failure, or nil once a write succeeds.
func (s *Store) LastSaveError() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.lastErr
}

func (s *Store) commit(ctx context.Context, change Change) {
	if err := s.persist(ctx); err != nil {
		s.logger.Warn("failed to persist customers", zap.Error(err))
	}
	s.publish(change)
}

// persist writes the document. A failure is recorded but never propagated to
// the mutation that triggered it: memory stays authoritative for the session.
func (s *Store) persist(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	doc := Document{Customers: s.List(), LastSaved: s.clock.Now().UTC()}
	if err := s.persister.Save(ctx, doc); err != nil {
		s.lastErr = err
		s.metrics.IncrPersistFailure()
		return err
	}
	s.lastErr = nil
	return nil
}

func (s *Store) publish(change Change) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Change), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}

func (s *Store) indexOf(id models.RecordID) int {
	for i, c := range s.customers {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func sortByName(customers []models.CustomerRecord) {
	sort.SliceStable(customers, func(i, j int) bool {
		return strings.ToLower(customers[i].Name) < strings.ToLower(customers[j].Name)
	})
}
