package playground

import (
	"sync"
)

// SessionHeader identifies the caller's session on the HTTP API.
const SessionHeader = "X-Playground-Session"

const defaultSession = "default"

// Session holds the state of one playground user: collapsed sections and the
// last request/response pair.
type Session struct {
	mu        sync.Mutex
	collapsed map[string]bool
	last      *Result
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{collapsed: map[string]bool{}}
}

// Toggle flips the collapsed state of section and returns the new state.
func (s *Session) Toggle(section string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collapsed[section] = !s.collapsed[section]

	return s.collapsed[section]
}

// Collapsed reports whether section is collapsed.
func (s *Session) Collapsed(section string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collapsed[section]
}

// Record stores the latest dispatch result.
func (s *Session) Record(result Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = &result
}

// Last returns the latest dispatch result.
func (s *Session) Last() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil {
		return Result{}, false
	}

	return *s.last, true
}

// Sessions hands out sessions by id.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessions creates an empty session store.
func NewSessions() *Sessions {
	return &Sessions{sessions: map[string]*Session{}}
}

// Get returns the session for id, creating it on first use.
func (s *Sessions) Get(id string) *Session {
	if id == "" {
		id = defaultSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		session = NewSession()
		s.sessions[id] = session
	}

	return session
}
