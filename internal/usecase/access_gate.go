package usecase

import (
	"context"
	"log/slog"
	"sync"

	"docgate/internal/domain"
)

// UnauthorizedReason is the denial message surfaced on the login page when a
// signed-in identity fails the allowlist.
const UnauthorizedReason = "Unauthorized email domain. Only approved emails are allowed."

// AccessGate re-evaluates the authorization policy on every identity change.
// An identity that is signed in but not on the allowlist is signed out and
// routed back to login with a visible reason; a missing identity routes to
// login silently. The gate is not a one-shot check: switching accounts in
// another tab drives it again through the same transitions.
type AccessGate struct {
	rules   domain.AuthorizationRules
	revoker domain.SessionRevoker
	events  domain.IdentityEvents
	logger  *slog.Logger

	mu         sync.Mutex
	state      domain.AccessState
	closed     bool
	signingOut map[string]bool // session ID -> sign-out in flight
}

// NewAccessGate creates a new AccessGate.
func NewAccessGate(rules domain.AuthorizationRules, revoker domain.SessionRevoker, events domain.IdentityEvents, logger *slog.Logger) *AccessGate {
	return &AccessGate{
		rules:      rules,
		revoker:    revoker,
		events:     events,
		logger:     logger,
		state:      domain.AccessUnknown,
		signingOut: make(map[string]bool),
	}
}

// Evaluate applies one identity change and returns the resulting decision.
// The policy check itself is pure and local; only the sign-out of a denied
// identity touches the provider, and that runs at most once per session
// while a previous attempt is still in flight.
func (g *AccessGate) Evaluate(ctx context.Context, change domain.IdentityChange) domain.AccessDecision {
	g.mu.Lock()
	if g.closed {
		state := g.state
		g.mu.Unlock()
		return domain.AccessDecision{State: state}
	}

	if !change.Loaded {
		// Session still resolving: neither authorized nor unauthorized.
		g.state = domain.AccessUnknown
		g.mu.Unlock()
		return domain.AccessDecision{State: domain.AccessUnknown}
	}

	g.state = domain.AccessEvaluating

	if change.Identity == nil {
		// Never signed in. Expected default state, not a failure: route to
		// login without a denial message and without touching the provider.
		g.state = domain.AccessNotAuthenticated
		g.mu.Unlock()
		return domain.AccessDecision{State: domain.AccessNotAuthenticated}
	}

	if g.rules.IsAuthorized(change.Identity.Email) {
		g.state = domain.AccessAuthorized
		g.mu.Unlock()
		return domain.AccessDecision{State: domain.AccessAuthorized}
	}

	g.state = domain.AccessUnauthorized
	sessionID := change.Identity.SessionID
	inFlight := g.signingOut[sessionID]
	if !inFlight {
		g.signingOut[sessionID] = true
	}
	g.mu.Unlock()

	g.logger.WarnContext(ctx, "identity failed allowlist",
		"user_id", change.Identity.UserID,
		"email", domain.MaskEmail(change.Identity.Email))

	if !inFlight {
		g.signOut(ctx, sessionID)
	}

	return domain.AccessDecision{
		State:  domain.AccessUnauthorized,
		Reason: UnauthorizedReason,
	}
}

// Watch subscribes to identity changes for the session behind the given
// cookie value and emits a decision for each one until ctx is cancelled.
// The channel is closed on return.
func (g *AccessGate) Watch(ctx context.Context, cookieValue string) <-chan domain.AccessDecision {
	out := make(chan domain.AccessDecision, 1)

	changes := make(chan domain.IdentityChange, 1)
	unsubscribe := g.events.Subscribe(cookieValue, func(change domain.IdentityChange) {
		select {
		case changes <- change:
		case <-ctx.Done():
		}
	})

	go func() {
		defer close(out)
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case change := <-changes:
				decision := g.Evaluate(ctx, change)
				select {
				case out <- decision:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// State returns the gate's current state.
func (g *AccessGate) State() domain.AccessState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Close tears the gate down. Results of in-flight provider calls are
// discarded afterwards instead of mutating a destroyed gate.
func (g *AccessGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
}

func (g *AccessGate) signOut(ctx context.Context, sessionID string) {
	err := g.revoker.SignOut(ctx, sessionID)

	g.mu.Lock()
	delete(g.signingOut, sessionID)
	closed := g.closed
	g.mu.Unlock()

	if closed {
		return
	}
	if err != nil {
		g.logger.ErrorContext(ctx, "failed to sign out unauthorized identity",
			"session_prefix", sessionPrefix(sessionID), "error", err)
		return
	}
	g.logger.InfoContext(ctx, "unauthorized identity signed out",
		"session_prefix", sessionPrefix(sessionID))
}

// sessionPrefix truncates a session ID for log output.
func sessionPrefix(sessionID string) string {
	if len(sessionID) > 8 {
		return sessionID[:8]
	}
	return sessionID
}
