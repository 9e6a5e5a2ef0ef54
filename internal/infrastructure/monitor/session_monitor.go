package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"docgate/internal/domain"
)

const kratosCookieName = "ory_kratos_session"

// SessionMonitor turns the identity provider's pull-style session API into
// change notifications by polling it per subscriber. Subscribers get an
// initial not-yet-loaded event, then one event per observed transition
// (signed in, signed out, account switched). Implements domain.IdentityEvents.
type SessionMonitor struct {
	validator domain.SessionValidator
	interval  time.Duration
	logger    *slog.Logger
}

// NewSessionMonitor creates a monitor polling at the given interval.
func NewSessionMonitor(validator domain.SessionValidator, interval time.Duration, logger *slog.Logger) *SessionMonitor {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &SessionMonitor{validator: validator, interval: interval, logger: logger}
}

// Subscribe starts watching the session behind cookieValue (the raw cookie
// value, without the cookie name). Emitted identities carry cookieValue as
// their SessionID, the handle the rest of the system revokes by. Once the
// returned unsubscribe function returns, the callback has stopped firing;
// unsubscribe waits for a callback already in flight.
func (m *SessionMonitor) Subscribe(cookieValue string, fn func(domain.IdentityChange)) func() {
	sub := &subscriber{fn: fn, done: make(chan struct{})}
	go m.run(cookieValue, sub)
	return sub.stop
}

// subscriber serializes callback delivery and teardown behind one mutex, so
// stop cannot return while a callback is running.
type subscriber struct {
	fn   func(domain.IdentityChange)
	done chan struct{}

	mu      sync.Mutex
	stopped bool
}

func (s *subscriber) emit(change domain.IdentityChange) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.fn(change)
	return true
}

func (s *subscriber) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.done)
}

func (m *SessionMonitor) run(cookieValue string, sub *subscriber) {
	if !sub.emit(domain.IdentityChange{Loaded: false}) {
		return
	}

	var last *domain.Identity
	first := true

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		identity, err := m.resolve(cookieValue)
		switch {
		case err != nil:
			// Provider failure: neither signed in nor signed out, so no
			// transition is reported.
			m.logger.Warn("session poll failed", "error", err)
		case first || changed(last, identity):
			if !sub.emit(domain.IdentityChange{Loaded: true, Identity: identity}) {
				return
			}
			last = identity
			first = false
		}

		select {
		case <-sub.done:
			return
		case <-ticker.C:
		}
	}
}

func (m *SessionMonitor) resolve(cookieValue string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(context.Background(), m.interval)
	defer cancel()

	identity, err := m.validator.ValidateSession(ctx, kratosCookieName+"="+cookieValue)
	if err == nil {
		if identity != nil {
			// SessionRevoker.SignOut takes the cookie value, not the
			// provider's internal session ID.
			identity.SessionID = cookieValue
		}
		return identity, nil
	}
	if isSignedOut(err) {
		return nil, nil
	}
	return nil, err
}

func changed(a, b *domain.Identity) bool {
	if (a == nil) != (b == nil) {
		return true
	}
	if a == nil {
		return false
	}
	return a.UserID != b.UserID || a.Email != b.Email
}

func isSignedOut(err error) bool {
	return errors.Is(err, domain.ErrSessionNotFound) ||
		errors.Is(err, domain.ErrSessionExpired) ||
		errors.Is(err, domain.ErrSessionInactive) ||
		errors.Is(err, domain.ErrAuthFailed)
}
