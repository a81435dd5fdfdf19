package session

import (
	"errors"
	"sync"

	"github.com/KaramelBytes/showloom-cli/internal/logger"
	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("session not found")

// Store tracks live sessions for a server process.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	opts     Options
	log      *logger.Logger
}

// NewStore returns an empty store creating sessions with opts.
func NewStore(opts Options, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{sessions: map[uuid.UUID]*Session{}, opts: opts, log: log}
}

// Create starts a new session.
func (st *Store) Create() *Session {
	s := New(st.opts, st.log)
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get looks up a session by its string id.
func (st *Store) Get(id string) (*Session, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[uid]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete removes a session.
func (st *Store) Delete(id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[uid]; !ok {
		return ErrNotFound
	}
	delete(st.sessions, uid)
	return nil
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
