// Package session holds the authenticated principal and its bearer credential
// for one client, restoring them from a Persister at startup.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/hms-gateway/internal/models"
)

var ErrNotInitialized = errors.New("session: not initialized")

// Session is a point-in-time copy of the store's state.
type Session struct {
	User  *models.User
	Token string
}

// Authenticated is true when a credential is held.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

type Store struct {
	persister Persister
	log       *zap.Logger

	once  sync.Once
	ready chan struct{}

	mu    sync.RWMutex
	user  *models.User
	token string
}

func New(p Persister, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		persister: p,
		log:       log,
		ready:     make(chan struct{}),
	}
}

// Init restores persisted state. Only the first call does any work. Corrupt or
// half-written state is discarded and erased. A persister that cannot be read
// at all leaves the store signed out and the stored state untouched. Init never
// fails because of either.
func (s *Store) Init(ctx context.Context) {
	s.once.Do(func() {
		defer close(s.ready)

		rec, err := s.persister.Load(ctx)
		if errors.Is(err, ErrCorrupt) {
			s.log.Warn("discarding persisted session", zap.Error(err))
			s.erase(ctx)
			return
		}
		if err != nil {
			// the stored state may be fine; leave it for the next start
			s.log.Warn("persisted session unavailable, starting signed out", zap.Error(err))
			return
		}
		if rec.Empty() {
			return
		}

		user, err := decode(rec)
		if err != nil {
			s.log.Warn("discarding persisted session", zap.Error(err))
			s.erase(ctx)
			return
		}

		s.mu.Lock()
		s.user = user
		s.token = rec.Token
		s.mu.Unlock()

		s.log.Info("session restored",
			zap.String("user_id", user.ID),
			zap.String("role", string(user.Role)),
		)
	})
}

func decode(rec Record) (*models.User, error) {
	if rec.Token == "" || rec.User == "" {
		return nil, fmt.Errorf("%w: only one of token and user present", ErrCorrupt)
	}
	var u models.User
	if err := json.Unmarshal([]byte(rec.User), &u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if u.ID == "" || !u.Role.Valid() {
		return nil, fmt.Errorf("%w: incomplete user", ErrCorrupt)
	}
	return &u, nil
}

func (s *Store) erase(ctx context.Context) {
	if err := s.persister.Clear(ctx); err != nil {
		s.log.Error("failed to erase persisted session", zap.Error(err))
	}
}

// Ready is closed once Init has finished.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

func (s *Store) Initialized() bool {
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

// Wait blocks until Init has finished or ctx is done.
func (s *Store) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) Current() (Session, error) {
	if !s.Initialized() {
		return Session{}, ErrNotInitialized
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Session{Token: s.token}
	if s.user != nil {
		u := *s.user
		out.User = &u
	}
	return out, nil
}

func (s *Store) Token() (string, error) {
	cur, err := s.Current()
	return cur.Token, err
}

func (s *Store) IsAuthenticated() (bool, error) {
	cur, err := s.Current()
	return cur.Authenticated(), err
}

// Login records a successful login or signup. The email is not part of the
// auth response and stays empty. State only changes once both slots are
// persisted.
func (s *Store) Login(ctx context.Context, resp models.AuthResponse) error {
	if !s.Initialized() {
		return ErrNotInitialized
	}
	if resp.Token == "" || resp.ID == "" || !resp.Role.Valid() {
		return fmt.Errorf("session: incomplete auth response")
	}

	user := models.User{
		ID:   resp.ID,
		Name: resp.Name,
		Role: resp.Role,
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persister.Save(ctx, Record{Token: resp.Token, User: string(raw)}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.user = &user
	s.token = resp.Token

	s.log.Info("logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return nil
}

// Logout drops the in-memory session first, so a persistence failure never
// leaves the caller authenticated.
func (s *Store) Logout(ctx context.Context) error {
	if !s.Initialized() {
		return ErrNotInitialized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	had := s.token != ""
	s.user = nil
	s.token = ""

	if err := s.persister.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if had {
		s.log.Info("logged out")
	}
	return nil
}
