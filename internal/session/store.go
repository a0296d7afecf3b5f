package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/learnkeeper/internal/logging"
	"github.com/dmitrijs2005/learnkeeper/internal/storage"
)

// Storage is the persistence port the store writes through.
type Storage interface {
	Read(ctx context.Context, key string) ([]byte, bool)
	Write(ctx context.Context, key string, v any)
	Remove(ctx context.Context, key string)
}

// Hasher produces and checks password digests.
type Hasher interface {
	Digest(secret string) (string, error)
	VerifyTimingSafe(secret, digest string) bool
	NeedsRehash(digest string) bool
}

type Option func(*Store)

// WithDelay simulates a network round trip on sign-up and sign-in.
func WithDelay(d time.Duration) Option {
	return func(s *Store) { s.delay = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithAttemptLimit allows burst sign-in attempts per email, refilled at one
// per interval. Without it attempts are unlimited.
func WithAttemptLimit(burst int, interval time.Duration) Option {
	return func(s *Store) {
		s.attemptBurst = burst
		s.attemptEvery = rate.Every(interval)
	}
}

// WithMaxPhotoBytes caps decoded profile photos. Zero or less disables the
// check.
func WithMaxPhotoBytes(n int) Option {
	return func(s *Store) { s.maxPhotoBytes = n }
}

// Store is the session store. It is safe for concurrent use; every mutator
// runs its read-modify-persist step under one lock.
type Store struct {
	mu        sync.Mutex
	directory map[string]User
	current   *Session
	observers []func(userID string)

	storage  Storage
	hasher   Hasher
	validate *validator.Validate
	log      logging.Logger

	now           func() time.Time
	newID         func() string
	delay         time.Duration
	maxPhotoBytes int

	attemptBurst int
	attemptEvery rate.Limit
	attempts     map[string]*rate.Limiter
}

// NewStore loads the directory and restores the persisted session, if any.
func NewStore(ctx context.Context, st Storage, hasher Hasher, logger logging.Logger, opts ...Option) *Store {
	s := &Store{
		directory:     make(map[string]User),
		attempts:      make(map[string]*rate.Limiter),
		storage:       st,
		hasher:        hasher,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		log:           logger.With("component", "session"),
		now:           time.Now,
		newID:         func() string { return uuid.NewString() },
		maxPhotoBytes: DefaultMaxPhotoBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.loadDirectory(ctx)
	s.restore(ctx)
	return s
}

func (s *Store) loadDirectory(ctx context.Context) {
	raw, ok := s.storage.Read(ctx, storage.DirectoryKey)
	if !ok {
		return
	}

	var dir map[string]User
	if err := json.Unmarshal(raw, &dir); err != nil {
		s.log.Warn(ctx, "user directory unreadable, starting empty", "error", err)
		return
	}
	for email, u := range dir {
		s.directory[email] = u
	}
}

func (s *Store) restore(ctx context.Context) {
	raw, ok := s.storage.Read(ctx, storage.SessionKey)
	if !ok {
		return
	}

	var saved Session
	if err := json.Unmarshal(raw, &saved); err != nil {
		s.log.Warn(ctx, "stored session unreadable, discarded", "error", err)
		s.storage.Remove(ctx, storage.SessionKey)
		return
	}

	u, ok := s.directory[saved.Email]
	if !ok {
		s.log.Info(ctx, "stored session has no directory entry, discarded", "email", saved.Email)
		s.storage.Remove(ctx, storage.SessionKey)
		return
	}

	// the directory is authoritative; rewriting also drops any credential
	// material older clients kept in the snapshot
	snap := u.snapshot()
	s.current = &snap
	s.storage.Write(ctx, storage.SessionKey, snap)
	s.log.Debug(ctx, "session restored", "user", u.ID)
}

// OnChange registers fn to be called with the new user id after sign-in
// and with "" after sign-out.
func (s *Store) OnChange(fn func(userID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *Store) notify(userID string, observers []func(string)) {
	for _, fn := range observers {
		fn(userID)
	}
}

// Current returns the active session snapshot.
func (s *Store) Current() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// UserID is the signed-in user's id or "" when signed out.
func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.UserID
}

// Lookup returns the directory entry for email.
func (s *Store) Lookup(email string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.directory[email]
	return u, ok
}

// SignUp registers a new user. It does not sign them in.
func (s *Store) SignUp(ctx context.Context, c Candidate) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	if err := s.validate.StructCtx(ctx, c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.directory[c.Email]; exists {
		return ErrDuplicateEmail
	}

	digest, err := s.hasher.Digest(c.Password)
	if err != nil {
		return fmt.Errorf("digest password: %w", err)
	}

	u := User{
		ID:             s.newID(),
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		PasswordDigest: digest,
		CreatedAt:      s.now().UTC(),
	}
	s.directory[c.Email] = u
	s.persistDirectory(ctx)

	s.log.Info(ctx, "user registered", "user", u.ID)
	return nil
}

// SignIn checks the credentials and makes the user the active session.
// Digests made by an older scheme are upgraded on the way.
func (s *Store) SignIn(ctx context.Context, cr Credentials) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()

	if !s.allowAttempt(cr.Email) {
		s.mu.Unlock()
		s.log.Warn(ctx, "sign-in throttled", "email", cr.Email)
		return ErrTooManyAttempts
	}

	u, ok := s.directory[cr.Email]
	if !ok {
		s.hasher.VerifyTimingSafe(cr.Password, "")
		s.mu.Unlock()
		return ErrUnknownUser
	}
	if !s.hasher.VerifyTimingSafe(cr.Password, u.PasswordDigest) {
		s.mu.Unlock()
		return ErrInvalidCredentials
	}
	delete(s.attempts, cr.Email)

	if s.hasher.NeedsRehash(u.PasswordDigest) {
		if digest, err := s.hasher.Digest(cr.Password); err != nil {
			s.log.Warn(ctx, "rehash failed, keeping old digest", "user", u.ID, "error", err)
		} else {
			u.PasswordDigest = digest
			s.log.Info(ctx, "password digest upgraded", "user", u.ID)
		}
	}

	now := s.now().UTC()
	u.LastLogin = &now
	s.directory[u.Email] = u
	s.persistDirectory(ctx)

	snap := u.snapshot()
	s.current = &snap
	s.storage.Write(ctx, storage.SessionKey, snap)

	observers := append([]func(string){}, s.observers...)
	s.mu.Unlock()

	s.log.Info(ctx, "signed in", "user", u.ID)
	s.notify(u.ID, observers)
	return nil
}

// SignOut ends the active session. Calling it while signed out is a no-op
// apart from clearing storage.
func (s *Store) SignOut(ctx context.Context) {
	s.mu.Lock()
	wasSignedIn := s.current != nil
	s.current = nil
	s.storage.Remove(ctx, storage.SessionKey)
	observers := append([]func(string){}, s.observers...)
	s.mu.Unlock()

	if wasSignedIn {
		s.log.Info(ctx, "signed out")
		s.notify("", observers)
	}
}

// UpdateProfilePhoto replaces the signed-in user's photo. ref must be an
// image data URL (see EncodePhoto) or "" to remove the photo. It fails with
// ErrUnknownUser when the session's account is missing from the directory.
func (s *Store) UpdateProfilePhoto(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNoActiveSession
	}
	if err := checkPhoto(ref, s.maxPhotoBytes); err != nil {
		return err
	}

	u, ok := s.directory[s.current.Email]
	if !ok {
		return ErrUnknownUser
	}
	u.ProfilePhoto = ref
	s.directory[u.Email] = u
	s.persistDirectory(ctx)

	snap := *s.current
	snap.ProfilePhoto = ref
	s.current = &snap
	s.storage.Write(ctx, storage.SessionKey, snap)
	return nil
}

// EncodePhoto builds a photo reference accepted by UpdateProfilePhoto.
func (s *Store) EncodePhoto(data []byte) (string, error) {
	return EncodePhoto(data, s.maxPhotoBytes)
}

// allowAttempt spends one sign-in attempt for email. Callers hold s.mu.
func (s *Store) allowAttempt(email string) bool {
	if s.attemptBurst <= 0 {
		return true
	}
	now := s.now()
	l, ok := s.attempts[email]
	if !ok {
		s.pruneAttempts(now)
		l = rate.NewLimiter(s.attemptEvery, s.attemptBurst)
		s.attempts[email] = l
	}
	return l.AllowN(now, 1)
}

// pruneAttempts drops buckets that have refilled; a fresh limiter behaves
// the same. Callers hold s.mu.
func (s *Store) pruneAttempts(now time.Time) {
	for email, l := range s.attempts {
		if l.TokensAt(now) >= float64(s.attemptBurst) {
			delete(s.attempts, email)
		}
	}
}

func (s *Store) persistDirectory(ctx context.Context) {
	s.storage.Write(ctx, storage.DirectoryKey, s.directory)
}

func (s *Store) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
