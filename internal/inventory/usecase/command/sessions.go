package command

import (
	"sync"
	"time"
)

// defaultSessionIdle is how long an operator session keeps its history
// after its last command
const defaultSessionIdle = 2 * time.Hour

// Sessions maps operator session ids to their invokers. Sharing one invoker
// across sessions is deliberately not supported: each operator gets an
// isolated undo/redo history.
type Sessions struct {
	mu         sync.Mutex
	invokers   map[string]*sessionEntry
	maxHistory int
	idle       time.Duration
}

type sessionEntry struct {
	invoker  *Invoker
	lastUsed time.Time
}

// NewSessions creates a session registry whose invokers use the given
// history bound
func NewSessions(maxHistory int) *Sessions {
	return &Sessions{
		invokers:   make(map[string]*sessionEntry),
		maxHistory: maxHistory,
		idle:       defaultSessionIdle,
	}
}

// Get returns the invoker for a session, creating it on first use.
// Idle sessions are evicted opportunistically.
func (s *Sessions) Get(sessionID string) *Invoker {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, entry := range s.invokers {
		if id != sessionID && now.Sub(entry.lastUsed) > s.idle {
			delete(s.invokers, id)
		}
	}

	entry, ok := s.invokers[sessionID]
	if !ok {
		entry = &sessionEntry{invoker: NewInvoker(s.maxHistory)}
		s.invokers[sessionID] = entry
	}
	entry.lastUsed = now
	return entry.invoker
}

// Remove drops a session and its history
func (s *Sessions) Remove(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.invokers, sessionID)
}

// Len returns the number of live sessions
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.invokers)
}
