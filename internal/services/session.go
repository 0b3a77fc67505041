package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/draft"
	"github.com/google/uuid"
)

// Session is one open draft-editing session. Mutations are serialized by mu;
// saving marks a save in flight and is checked without taking mu.
type Session struct {
	ID string

	mu       sync.Mutex
	editor   *draft.Editor
	lastUsed time.Time

	saving atomic.Bool
}

// update runs fn under the session lock
func (s *Session) update(fn func(e *draft.Editor)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.editor)
	s.lastUsed = time.Now()
}

func (s *Session) snapshot() draft.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Draft()
}

// SessionStore keeps open sessions in memory. Sessions share no state.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

func (s *SessionStore) Create(d draft.Draft) *Session {
	session := &Session{
		ID:       uuid.NewString(),
		editor:   draft.NewEditor(d),
		lastUsed: time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return session
}

func (s *SessionStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrDraftNotFound
	}
	return session, nil
}

// Delete drops a session. It reports whether the session existed.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than maxIdle that have no save in
// flight, and returns how many were dropped.
func (s *SessionStore) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	for id, session := range s.sessions {
		session.mu.Lock()
		idle := session.lastUsed.Before(cutoff)
		session.mu.Unlock()
		if idle && !session.saving.Load() {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

// RunJanitor sweeps idle sessions every interval until ctx is done.
func (s *SessionStore) RunJanitor(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(maxIdle)
		}
	}
}
