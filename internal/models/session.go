package models

import "time"

type Session struct {
	ID      int       `json:"sessionId"`
	ResetAt time.Time `json:"-"`
}

func (s Session) ResetAtMs() int64 {
	return s.ResetAt.UnixMilli()
}

// SessionStore tracks the active voting round and every round that came
// before it. Callers serialize access.
type SessionStore struct {
	current Session
	past    []Session
}

func NewSessionStore(now time.Time) *SessionStore {
	return &SessionStore{
		current: Session{ID: 1, ResetAt: now},
	}
}

func (s *SessionStore) Current() Session {
	return s.current
}

// Advance closes the active session and opens the next one. Ids are never
// reused.
func (s *SessionStore) Advance(now time.Time) Session {
	s.past = append(s.past, s.current)
	s.current = Session{ID: s.current.ID + 1, ResetAt: now}
	return s.current
}

func (s *SessionStore) Past() []Session {
	out := make([]Session, len(s.past))
	copy(out, s.past)
	return out
}
