package store

import (
	"context"
	"sync"

	"github.com/scoorly/scoorly-backend/internal/model"
)

// MemoryStore is an in-memory SessionStore for tests and embedded use.
// Sessions are deep-copied on both read and write so callers can never
// mutate a stored value through a retained pointer.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
	results  map[string]*model.Session
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*model.Session),
		results:  make(map[string]*model.Session),
	}
}

func (s *MemoryStore) GetSession(_ context.Context, clientID string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.sessions[clientID]), nil
}

func (s *MemoryStore) SetSession(_ context.Context, clientID string, sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[clientID] = copySession(sess)
	return nil
}

func (s *MemoryStore) ClearSession(_ context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, clientID)
	return nil
}

func (s *MemoryStore) GetResults(_ context.Context, clientID string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.results[clientID]), nil
}

func (s *MemoryStore) SetResults(_ context.Context, clientID string, sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[clientID] = copySession(sess)
	return nil
}

func copySession(sess *model.Session) *model.Session {
	if sess == nil {
		return nil
	}
	cp := *sess
	cp.Answers = make([]model.Answer, len(sess.Answers))
	copy(cp.Answers, sess.Answers)
	if sess.EndTime != nil {
		t := *sess.EndTime
		cp.EndTime = &t
	}
	if sess.FinalScore != nil {
		v := *sess.FinalScore
		cp.FinalScore = &v
	}
	if sess.TimeSpent != nil {
		v := *sess.TimeSpent
		cp.TimeSpent = &v
	}
	if sess.TotalQuestions != nil {
		v := *sess.TotalQuestions
		cp.TotalQuestions = &v
	}
	return &cp
}
