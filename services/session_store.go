package services

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Chatbot conversation states.
const (
	ChatStateChooseSalon   = "choose_salon"
	ChatStateChooseAction  = "choose_action"
	ChatStateChooseService = "choose_service"
	ChatStateConfirmJoin   = "confirm_join"
)

// ChatSession is one customer's in-flight chatbot conversation.
type ChatSession struct {
	State     string
	SalonID   uuid.UUID
	ServiceID *uuid.UUID
	UpdatedAt time.Time
}

// SessionStore keeps chatbot conversations between messages. Implementations
// own expiry; handlers stay stateless.
type SessionStore interface {
	Get(id string) (*ChatSession, bool)
	Put(id string, session *ChatSession)
	Delete(id string)
}

// MemorySessionStore is a TTL-bounded in-process store with an explicit
// background sweeper instead of an ambient timer.
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*ChatSession
	now      func() time.Time

	stop chan struct{}
	done chan struct{}
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		sessions: make(map[string]*ChatSession),
		now:      time.Now,
	}
}

func (m *MemorySessionStore) Get(id string) (*ChatSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if m.now().Sub(session.UpdatedAt) > m.ttl {
		delete(m.sessions, id)
		return nil, false
	}
	return session, true
}

func (m *MemorySessionStore) Put(id string, session *ChatSession) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session.UpdatedAt = m.now()
	m.sessions[id] = session
}

func (m *MemorySessionStore) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
}

// Sweep drops every expired session and returns how many were removed.
func (m *MemorySessionStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	cutoff := m.now().Add(-m.ttl)
	for id, session := range m.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until StopSweeper is called.
func (m *MemorySessionStore) StartSweeper(interval time.Duration) {
	if m.stop != nil {
		return
	}
	m.stop = make(chan struct{})
	m.done = make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		defer close(m.done)
		for {
			select {
			case <-ticker.C:
				if n := m.Sweep(); n > 0 {
					log.Printf("chatbot: swept %d expired sessions", n)
				}
			case <-m.stop:
				return
			}
		}
	}()
}

func (m *MemorySessionStore) StopSweeper() {
	if m.stop == nil {
		return
	}
	close(m.stop)
	<-m.done
	m.stop = nil
	m.done = nil
}
