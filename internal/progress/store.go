package progress

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/dmitrijs2005/learnkeeper/internal/logging"
	"github.com/dmitrijs2005/learnkeeper/internal/storage"
)

// Storage is the persistence port the store writes through.
type Storage interface {
	Read(ctx context.Context, key string) ([]byte, bool)
	Write(ctx context.Context, key string, v any)
	Remove(ctx context.Context, key string)
}

type Option func(*Store)

func WithCatalog(c Catalog) Option {
	return func(s *Store) { s.catalog = c }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store holds the progress set of one user. It is safe for concurrent use;
// each mutator changes memory and persists under the same lock, so the
// stored set always reflects every completed mutation.
type Store struct {
	mu      sync.Mutex
	userID  string
	records map[int]ModuleProgress

	storage Storage
	catalog Catalog
	log     logging.Logger
	now     func() time.Time
}

// NewStore returns a store scoped to userID ("" for anonymous) with its
// progress already loaded.
func NewStore(ctx context.Context, st Storage, userID string, logger logging.Logger, opts ...Option) *Store {
	s := &Store{
		storage: st,
		catalog: DefaultCatalog(),
		log:     logger.With("component", "progress"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Scope(ctx, userID)
	return s
}

// Scope switches the store to userID and reloads its records.
func (s *Store) Scope(ctx context.Context, userID string) {
	if userID == "" {
		userID = storage.AnonymousUserID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.userID = userID
	s.records = s.load(ctx)
}

func (s *Store) key() string {
	return storage.ProgressKey(s.userID)
}

// load reads the persisted set, coercing what it can. A payload that is not
// an object is removed so it cannot shadow good data again.
func (s *Store) load(ctx context.Context) map[int]ModuleProgress {
	records := s.defaults()

	raw, ok := s.storage.Read(ctx, s.key())
	if !ok {
		s.log.Debug(ctx, "no saved progress, starting fresh", "user", s.userID)
		return records
	}

	set, err := decodeSet(raw, s.catalog, s.now().UTC())
	if err != nil {
		s.log.Warn(ctx, "saved progress is corrupt, cleared", "user", s.userID, "error", err)
		s.storage.Remove(ctx, s.key())
		return records
	}
	if len(set.skipped) > 0 {
		s.log.Warn(ctx, "saved progress entries ignored", "user", s.userID, "keys", set.skipped)
	}

	maps.Copy(records, set.records)
	s.log.Debug(ctx, "progress loaded", "user", s.userID, "modules", len(set.records))
	return records
}

func (s *Store) defaults() map[int]ModuleProgress {
	records := make(map[int]ModuleProgress, s.catalog.Len())
	for id := 1; id <= s.catalog.Len(); id++ {
		records[id] = empty(id)
	}
	return records
}

func (s *Store) persist(ctx context.Context) {
	s.storage.Write(ctx, s.key(), s.records)
}

func (s *Store) check(id int) error {
	if !s.catalog.Contains(id) {
		return fmt.Errorf("%w: %d", ErrUnknownModule, id)
	}
	return nil
}

// UserID is the id the store is scoped to; AnonymousUserID when nobody is
// signed in.
func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *Store) Catalog() Catalog {
	return s.catalog
}

// UpdateAudioProgress records percent (clamped to [0,100]) for a module.
// A permanently completed module ignores anything below 100.
func (s *Store) UpdateAudioProgress(ctx context.Context, id, percent int) (ModuleProgress, error) {
	if err := s.check(id); err != nil {
		return ModuleProgress{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.records[id]
	percent = clamp(percent)
	if rec.PermanentlyCompleted && percent < 100 {
		return rec, nil
	}

	done := percent >= 100
	rec = ModuleProgress{
		ModuleID:             id,
		AudioProgress:        percent,
		ProgressPercentage:   percent,
		AudioCompleted:       done,
		PermanentlyCompleted: done,
		LastAccessed:         s.now().UTC(),
	}
	s.records[id] = rec
	s.persist(ctx)
	return rec, nil
}

// MarkAudioCompleted sets the module to fully completed regardless of the
// last reported percentage.
func (s *Store) MarkAudioCompleted(ctx context.Context, id int) (ModuleProgress, error) {
	if err := s.check(id); err != nil {
		return ModuleProgress{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := ModuleProgress{
		ModuleID:             id,
		AudioProgress:        100,
		ProgressPercentage:   100,
		AudioCompleted:       true,
		PermanentlyCompleted: true,
		LastAccessed:         s.now().UTC(),
	}
	s.records[id] = rec
	s.persist(ctx)
	return rec, nil
}

// Module returns the record for id, or an empty one. It never fails.
func (s *Store) Module(id int) ModuleProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[id]; ok {
		return rec
	}
	return empty(id)
}

// Snapshot returns a copy of every record.
func (s *Store) Snapshot() map[int]ModuleProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.records)
}

// Overall is the mean ProgressPercentage over all records, rounded half up.
func (s *Store) Overall() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.records)
	if n == 0 {
		return 0
	}
	sum := 0
	for _, rec := range s.records {
		sum += rec.ProgressPercentage
	}
	return (2*sum + n) / (2 * n)
}

// LastAccessed returns the most recently touched record. Records that were
// never accessed do not count.
func (s *Store) LastAccessed() (ModuleProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		last  ModuleProgress
		found bool
	)
	for _, rec := range s.records {
		if rec.LastAccessed.IsZero() {
			continue
		}
		if !found || rec.LastAccessed.After(last.LastAccessed) ||
			(rec.LastAccessed.Equal(last.LastAccessed) && rec.ModuleID < last.ModuleID) {
			last, found = rec, true
		}
	}
	return last, found
}

// NextIncomplete finds the next module after current that is below 100%,
// wrapping around to the start of the catalog. A current outside the
// catalog searches every module from the first.
func (s *Store) NextIncomplete(current int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.catalog.Len()
	start, steps := current, n-1
	if !s.catalog.Contains(current) {
		start, steps = 0, n
	}
	for step := 1; step <= steps; step++ {
		id := (start-1+step)%n + 1
		if !s.records[id].Completed() {
			return id, true
		}
	}
	return 0, false
}

// Reset clears one module, including its completion ratchet.
func (s *Store) Reset(ctx context.Context, id int) error {
	if err := s.check(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := empty(id)
	rec.LastAccessed = s.now().UTC()
	s.records[id] = rec
	s.persist(ctx)
	return nil
}

// ResetAll restores every module to its empty record and drops the
// persisted set of the current user.
func (s *Store) ResetAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = s.defaults()
	s.storage.Remove(ctx, s.key())
	s.log.Info(ctx, "all progress reset", "user", s.userID)
}

