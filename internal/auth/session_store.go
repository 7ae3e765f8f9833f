package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civicdesk/grievance-service/internal/domain"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore maps session ids to the user they were issued for.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	now      func() time.Time
}

// NewMemorySessionStore keeps sessions in process memory. Sessions are lost on restart.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{sessions: make(map[string]domain.Session), now: time.Now}
}

// Save stores session and drops every expired entry, so sessions abandoned without a
// logout do not accumulate.
func (s *memorySessionStore) Save(_ context.Context, session *domain.Session) error {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.sessions {
		if existing.Expired(now) {
			delete(s.sessions, id)
		}
	}
	s.sessions[session.ID] = *session
	return nil
}

// Len reports the number of stored sessions, expired ones included.
func (s *memorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *memorySessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Expired(s.now()) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *memorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

const redisSessionPrefix = "session:"

type redisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore stores sessions as JSON values with a TTL matching their expiry.
func NewRedisSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{client: client}
}

func (s *redisSessionStore) Save(ctx context.Context, session *domain.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	ttl := time.Until(session.ExpiresAt)
	if session.ExpiresAt.IsZero() {
		ttl = 0
	} else if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, redisSessionPrefix+session.ID, payload, ttl).Err()
}

func (s *redisSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	payload, err := s.client.Get(ctx, redisSessionPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, redisSessionPrefix+id).Err()
}
