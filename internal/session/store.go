// Package session holds the signed-in identity and bearer credential for the
// lifetime of the process and keeps them in durable local storage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/blogdesk/blogdesk-go/internal/crypto"
	"github.com/blogdesk/blogdesk-go/internal/metrics"
	"github.com/blogdesk/blogdesk-go/internal/model"
)

// Storage keys for the persisted session.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

const hydrateTimeout = 5 * time.Second

var ErrIncompleteSession = errors.New("identity id and credential are both required")

// Storage is the durable key/value backend of the store.
type Storage interface {
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)
	SetMany(ctx context.Context, values map[string]string) error
	DeleteMany(ctx context.Context, keys ...string) error
}

// Session pairs an Identity with its Credential. The zero value is logged out.
type Session struct {
	Identity   model.Identity
	Credential string
}

// Authenticated reports whether both halves of the session are present.
func (s Session) Authenticated() bool {
	return s.Credential != "" && !s.Identity.IsZero()
}

// Listener is called synchronously with the new session after every change.
type Listener func(Session)

// Store is the single source of truth for who is signed in.
type Store struct {
	storage Storage
	sealer  *crypto.Sealer
	logger  *slog.Logger
	metrics metrics.Recorder

	// writeMu serializes Hydrate, Login and Logout including their storage I/O.
	writeMu sync.Mutex

	mu      sync.RWMutex
	current Session

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int
}

// NewStore creates an empty, logged-out Store.
func NewStore(storage Storage, sealer *crypto.Sealer, logger *slog.Logger, rec metrics.Recorder) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	return &Store{
		storage:   storage,
		sealer:    sealer,
		logger:    logger,
		metrics:   rec,
		listeners: make(map[int]Listener),
	}
}

// Hydrate loads the persisted session. If either half is missing or cannot be
// read, decrypted or parsed, both are discarded and the store stays logged out.
// It never fails.
func (s *Store) Hydrate(ctx context.Context) Session {
	s.writeMu.Lock()
	ctx, cancel := context.WithTimeout(ctx, hydrateTimeout)
	defer cancel()

	loaded, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("discarding persisted session", "error", err)
		if derr := s.storage.DeleteMany(ctx, KeyToken, KeyUser); derr != nil {
			s.logger.Warn("failed to clear persisted session", "error", derr)
		}
		loaded = Session{}
	}

	s.set(loaded)
	s.writeMu.Unlock()

	s.metrics.RecordSessionChange("hydrate")
	s.notify(loaded)
	return loaded
}

func (s *Store) load(ctx context.Context) (Session, error) {
	values, err := s.storage.GetMany(ctx, KeyToken, KeyUser)
	if err != nil {
		return Session{}, fmt.Errorf("reading session: %w", err)
	}

	token, hasToken := values[KeyToken]
	rawUser, hasUser := values[KeyUser]
	if !hasToken && !hasUser {
		return Session{}, nil
	}
	if !hasToken || !hasUser {
		return Session{}, errors.New("persisted session is incomplete")
	}

	credential, err := s.sealer.Open(token)
	if err != nil {
		return Session{}, fmt.Errorf("opening credential: %w", err)
	}

	var ident model.Identity
	if err := json.Unmarshal([]byte(rawUser), &ident); err != nil {
		return Session{}, fmt.Errorf("parsing identity: %w", err)
	}

	loaded := Session{Identity: ident, Credential: credential}
	if !loaded.Authenticated() {
		return Session{}, ErrIncompleteSession
	}
	return loaded, nil
}

// Login replaces the current session with identity and credential and
// persists both. On a storage error the previous session is kept.
func (s *Store) Login(ctx context.Context, identity model.Identity, credential string) error {
	next := Session{Identity: identity, Credential: credential}
	if !next.Authenticated() {
		return ErrIncompleteSession
	}

	sealed, err := s.sealer.Seal(credential)
	if err != nil {
		return fmt.Errorf("sealing credential: %w", err)
	}
	rawUser, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encoding identity: %w", err)
	}

	s.writeMu.Lock()
	if err := s.storage.SetMany(ctx, map[string]string{
		KeyToken: sealed,
		KeyUser:  string(rawUser),
	}); err != nil {
		s.writeMu.Unlock()
		return fmt.Errorf("persisting session: %w", err)
	}
	s.set(next)
	s.writeMu.Unlock()

	s.logger.Info("session started", "user_id", identity.ID)
	s.metrics.RecordSessionChange("login")
	s.notify(next)
	return nil
}

// Logout clears the session in memory and removes it from storage. Memory is
// cleared even when storage fails; the storage error is returned.
func (s *Store) Logout(ctx context.Context) error {
	s.writeMu.Lock()
	prev := s.Current()
	s.set(Session{})
	err := s.storage.DeleteMany(ctx, KeyToken, KeyUser)
	s.writeMu.Unlock()

	if err != nil {
		s.logger.Error("failed to remove persisted session", "error", err)
		err = fmt.Errorf("removing session: %w", err)
	}

	s.logger.Info("session ended", "user_id", prev.Identity.ID)
	s.metrics.RecordSessionChange("logout")
	s.notify(Session{})
	return err
}

// Current returns a snapshot of the session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Credential returns the bearer credential, or "" when logged out.
func (s *Store) Credential() string {
	return s.Current().Credential
}

// Identity returns the signed-in identity and whether there is one.
func (s *Store) Identity() (model.Identity, bool) {
	cur := s.Current()
	return cur.Identity, cur.Authenticated()
}

// Subscribe registers l for change notifications and returns a function that
// removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *Store) set(next Session) {
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
}

func (s *Store) notify(current Session) {
	s.listenersMu.Lock()
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.listenersMu.Unlock()

	for _, l := range ls {
		l(current)
	}
}
