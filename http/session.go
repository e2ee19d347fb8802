package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mark3labs/sendeth-frame/widget"
)

// SessionCookie names the cookie carrying a viewer's session id.
const SessionCookie = "sendeth_session"

type session struct {
	controller *widget.Controller
	lastSeen   time.Time
}

// SessionStore maps viewers to their own widget controller. Idle
// sessions are evicted after ttl.
type SessionStore struct {
	mu        sync.Mutex
	sessions  map[string]*session
	ttl       time.Duration
	lastSweep time.Time
	newCtrl   func(id string) (*widget.Controller, error)
	now       func() time.Time
}

// NewSessionStore creates a store that builds controllers with newCtrl.
func NewSessionStore(ttl time.Duration, newCtrl func(id string) (*widget.Controller, error)) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
		newCtrl:  newCtrl,
		now:      time.Now,
	}
}

// Controller returns the caller's controller, starting a session and
// setting the cookie when the request carries no live one.
func (s *SessionStore) Controller(w http.ResponseWriter, r *http.Request) (*widget.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	if c, err := r.Cookie(SessionCookie); err == nil {
		if sess, ok := s.sessions[c.Value]; ok {
			sess.lastSeen = now
			return sess.controller, nil
		}
	}

	id := uuid.NewString()
	ctrl, err := s.newCtrl(id)
	if err != nil {
		return nil, err
	}
	s.sessions[id] = &session{controller: ctrl, lastSeen: now}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	return ctrl, nil
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) sweepLocked(now time.Time) {
	if s.ttl <= 0 || now.Sub(s.lastSweep) < s.ttl/2 {
		return
	}
	s.lastSweep = now
	for id, sess := range s.sessions {
		// A controller mid-send keeps its session alive.
		if now.Sub(sess.lastSeen) > s.ttl && !sess.controller.State().Sending {
			delete(s.sessions, id)
		}
	}
}
