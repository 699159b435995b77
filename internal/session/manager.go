package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/katakuxiko/agentchat/internal/metrics"
	"github.com/katakuxiko/agentchat/internal/pdf"
)

var ErrNotFound = errors.New("session: not found")

// Session owns one conversation and the document it is grounded on.
// Hold Lock for the whole of an interaction so inputs are handled one at a
// time.
type Session struct {
	ID         string
	CreatedAt  time.Time
	Transcript *Transcript

	sync.Mutex
	docMu sync.RWMutex
	doc   *pdf.Document
}

func (s *Session) Document() *pdf.Document {
	s.docMu.RLock()
	defer s.docMu.RUnlock()
	return s.doc
}

func (s *Session) SetDocument(doc *pdf.Document) {
	s.docMu.Lock()
	s.doc = doc
	s.docMu.Unlock()
}

// Manager holds live sessions in memory.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

func (m *Manager) Create(doc *pdf.Document) *Session {
	s := &Session{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Transcript: &Transcript{},
		doc:        doc,
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	metrics.ActiveSessions.Inc()
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete tears a session down; its transcript is dropped with it.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	metrics.ActiveSessions.Dec()
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
