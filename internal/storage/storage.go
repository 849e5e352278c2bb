package storage

import (
	"sort"
	"sync"

	"github.com/lehigh-university-libraries/scorediff/internal/models"
)

// SessionStore keeps diff sessions in memory.
type SessionStore struct {
	sessions map[string]*models.DiffSession
	mu       sync.RWMutex
}

// New creates an empty SessionStore.
func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*models.DiffSession),
	}
}

func (s *SessionStore) Get(sessionID string) (*models.DiffSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

func (s *SessionStore) Set(sessionID string, session *models.DiffSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = session
}

// List returns every session, oldest first.
func (s *SessionStore) List() []*models.DiffSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.DiffSession, 0, len(s.sessions))
	for _, v := range s.sessions {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Delete removes a session and reports whether it existed.
func (s *SessionStore) Delete(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	return exists
}
