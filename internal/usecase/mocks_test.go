package usecase

import (
	"context"
	"sync"

	"docgate/internal/domain"
)

// mockValidator implements domain.SessionValidator for testing.
type mockValidator struct {
	identity *domain.Identity
	err      error
	called   bool
	calls    int
	cookie   string
}

func (m *mockValidator) ValidateSession(_ context.Context, cookie string) (*domain.Identity, error) {
	m.called = true
	m.calls++
	m.cookie = cookie
	if m.identity == nil {
		return nil, m.err
	}
	cp := *m.identity
	return &cp, m.err
}

// mockCache implements domain.SessionCache for testing.
type mockCache struct {
	entries map[string]domain.CachedSession
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]domain.CachedSession)}
}

func (m *mockCache) Get(sessionID string) (*domain.CachedSession, bool) {
	entry, found := m.entries[sessionID]
	if !found {
		return nil, false
	}
	return &entry, true
}

func (m *mockCache) Set(sessionID string, session domain.CachedSession) {
	m.entries[sessionID] = session
}

func (m *mockCache) Delete(sessionID string) {
	delete(m.entries, sessionID)
}

// mockRevoker implements domain.SessionRevoker for testing.
type mockRevoker struct {
	mu       sync.Mutex
	err      error
	calls    int
	sessions []string
	block    chan struct{} // when non-nil, SignOut waits until closed
}

func (m *mockRevoker) SignOut(_ context.Context, sessionID string) error {
	m.mu.Lock()
	m.calls++
	m.sessions = append(m.sessions, sessionID)
	block := m.block
	m.mu.Unlock()
	if block != nil {
		<-block
	}
	return m.err
}

func (m *mockRevoker) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockMinter implements domain.TokenMinter for testing.
type mockMinter struct {
	mu        sync.Mutex
	token     string
	err       error
	calls     int
	audiences []string
}

func (m *mockMinter) Mint(_ context.Context, _ *domain.Identity, audience string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.audiences = append(m.audiences, audience)
	return m.token, m.err
}

func (m *mockMinter) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockEvents implements domain.IdentityEvents for testing. Changes pushed
// via emit are delivered to every active subscriber.
type mockEvents struct {
	mu          sync.Mutex
	subscribers map[int]func(domain.IdentityChange)
	next        int
}

func newMockEvents() *mockEvents {
	return &mockEvents{subscribers: make(map[int]func(domain.IdentityChange))}
}

func (m *mockEvents) Subscribe(_ string, fn func(domain.IdentityChange)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.next
	m.next++
	m.subscribers[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subscribers, id)
	}
}

func (m *mockEvents) emit(change domain.IdentityChange) {
	m.mu.Lock()
	fns := make([]func(domain.IdentityChange), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(change)
	}
}

// mockProfileStore implements domain.ProfileStore for testing.
type mockProfileStore struct {
	profiles map[string]domain.Profile
	getErr   error
	saveErr  error
	saves    int
}

func newMockProfileStore() *mockProfileStore {
	return &mockProfileStore{profiles: make(map[string]domain.Profile)}
}

func (m *mockProfileStore) Get(_ context.Context, userID string) (domain.Profile, error) {
	if m.getErr != nil {
		return domain.Profile{}, m.getErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	return p, nil
}

func (m *mockProfileStore) Save(_ context.Context, profile domain.Profile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.profiles[profile.ID] = profile
	return nil
}

// mockRequestStore implements domain.AccessRequestStore for testing.
type mockRequestStore struct {
	mu       sync.Mutex
	err      error
	requests []domain.AccessRequest
}

func (m *mockRequestStore) Save(_ context.Context, req domain.AccessRequest) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	return nil
}

// mockNotifier implements domain.AccessNotifier for testing.
type mockNotifier struct {
	mu       sync.Mutex
	err      error
	notified chan domain.AccessRequest
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{notified: make(chan domain.AccessRequest, 1)}
}

func (m *mockNotifier) NotifyAccessRequest(_ context.Context, req domain.AccessRequest) error {
	m.mu.Lock()
	err := m.err
	m.mu.Unlock()
	if err != nil {
		return err
	}
	m.notified <- req
	return nil
}
