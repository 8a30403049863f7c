package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/model"
)

// Persisted entry names
const (
	KeyUser  = "currentUser"
	KeyToken = "authToken"
)

// ErrNoSession is returned by operations that need an authenticated session
var ErrNoSession = errors.New("not logged in")

// Storage is a durable key/value store that can write several keys atomically
type Storage interface {
	Load(ctx context.Context, keys ...string) (map[string]string, error)
	StoreAll(ctx context.Context, entries map[string]string) error
	DeleteAll(ctx context.Context, keys ...string) error
}

// Store owns the authenticated identity. The in-memory copy only changes
// after the matching write to Storage has succeeded.
type Store struct {
	storage Storage
	log     *logger.Logger

	mu      sync.RWMutex
	current *model.Session
}

// NewStore creates a session store over storage
func NewStore(storage Storage, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{storage: storage, log: log.Named("session")}
}

// Restore reads the persisted session. Absent, empty or malformed entries
// yield nil; read failures are logged and also yield nil.
func (s *Store) Restore(ctx context.Context) *model.Session {
	entries, err := s.storage.Load(ctx, KeyUser, KeyToken)
	if err != nil {
		s.log.Warn("failed to read persisted session", logger.F("error", err))
		return nil
	}

	sess, err := decode(entries[KeyUser], entries[KeyToken])
	if err != nil {
		s.log.Info("ignoring persisted session", logger.F("reason", err))
		return nil
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	copied := *sess
	return &copied
}

// Reload re-reads the persisted session and replaces the in-memory copy,
// which becomes nil when nothing valid is stored. On a read failure the
// in-memory session is left alone.
func (s *Store) Reload(ctx context.Context) (*model.Session, error) {
	entries, err := s.storage.Load(ctx, KeyUser, KeyToken)
	if err != nil {
		return s.Current(), fmt.Errorf("failed to read persisted session: %w", err)
	}

	sess, err := decode(entries[KeyUser], entries[KeyToken])
	if err != nil {
		sess = nil
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	if sess == nil {
		return nil, nil
	}
	copied := *sess
	return &copied, nil
}

func decode(rawUser, token string) (*model.Session, error) {
	if strings.TrimSpace(rawUser) == "" || strings.TrimSpace(token) == "" {
		return nil, ErrNoSession
	}

	var u model.User
	if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
		return nil, fmt.Errorf("malformed user record: %w", err)
	}
	if u.ID == "" {
		return nil, errors.New("user record has no id")
	}

	return &model.Session{
		UserID:    u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Token:     token,
	}, nil
}

// Save persists identity and token together
func (s *Store) Save(ctx context.Context, sess model.Session) error {
	if !sess.Valid() {
		return errors.New("session needs a user id and a token")
	}

	rawUser, err := json.Marshal(sess.User())
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	if err := s.storage.StoreAll(ctx, map[string]string{
		KeyUser:  string(rawUser),
		KeyToken: sess.Token,
	}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()

	s.log.Info("session saved", logger.F("user_id", sess.UserID))
	return nil
}

// Clear removes both entries. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.storage.DeleteAll(ctx, KeyUser, KeyToken); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	s.log.Info("session cleared")
	return nil
}

// Current returns a copy of the in-memory session, or nil
func (s *Store) Current() *model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

// Token returns the current bearer token, or ""
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Require returns the current session or ErrNoSession
func (s *Store) Require() (model.Session, error) {
	sess := s.Current()
	if sess == nil {
		return model.Session{}, ErrNoSession
	}
	return *sess, nil
}
