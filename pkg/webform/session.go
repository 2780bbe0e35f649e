package webform

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-personform/pkg/personform"
)

// Session owns one form. The embedded mutex serializes access to it.
type Session struct {
	sync.Mutex

	ID   string
	CSRF string
	Form *personform.Form

	lastSeen time.Time
}

type formFactory func(ctx context.Context) (*personform.Form, error)

// sessionStore keeps sessions in memory keyed by cookie value.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	newForm  formFactory
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func newSessionStore(factory formFactory, ttl time.Duration, now func() time.Time, logger *zap.Logger) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*Session),
		newForm:  factory,
		ttl:      ttl,
		now:      now,
		logger:   logger,
	}
}

// get returns the live session for id, refreshing its idle timer.
func (s *sessionStore) get(id string) (*Session, bool) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if id == "" {
		return nil, false
	}
	session, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	session.lastSeen = now
	return session, true
}

// create builds a session with a freshly loaded form.
func (s *sessionStore) create(ctx context.Context) (*Session, error) {
	form, err := s.newForm(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	session := &Session{
		ID:       uuid.NewString(),
		CSRF:     uuid.NewString(),
		Form:     form,
		lastSeen: now,
	}

	s.mu.Lock()
	s.pruneLocked(now)
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Debug("session created",
		zap.String("session", session.ID),
		zap.Bool("country_load_error", form.LoadError()),
	)
	return session, nil
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *sessionStore) pruneLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, session := range s.sessions {
		if now.Sub(session.lastSeen) > s.ttl {
			delete(s.sessions, id)
			s.logger.Debug("session expired", zap.String("session", id))
		}
	}
}
