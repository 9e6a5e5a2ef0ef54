package handler

import (
	"context"
	"sync"

	"docgate/internal/domain"
)

// Hand-written port mocks shared by the handler tests.

type mockValidator struct {
	mu       sync.Mutex
	identity *domain.Identity
	err      error
	calls    int
}

func (m *mockValidator) ValidateSession(_ context.Context, _ string) (*domain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	cp := *m.identity
	return &cp, nil
}

type mockCache struct {
	mu      sync.Mutex
	entries map[string]domain.CachedSession
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]domain.CachedSession)}
}

func (m *mockCache) Get(sessionID string) (*domain.CachedSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[sessionID]
	if !ok {
		return nil, false
	}
	return &entry, true
}

func (m *mockCache) Set(sessionID string, session domain.CachedSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[sessionID] = session
}

func (m *mockCache) Delete(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	m.deleted = append(m.deleted, sessionID)
}

type mockRevoker struct {
	mu       sync.Mutex
	err      error
	sessions []string
}

func (m *mockRevoker) SignOut(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, sessionID)
	return m.err
}

func (m *mockRevoker) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

type mockMinter struct {
	mu    sync.Mutex
	token string
	err   error
	calls int
}

func (m *mockMinter) Mint(_ context.Context, _ *domain.Identity, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.token, m.err
}

func (m *mockMinter) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockEvents struct {
	mu           sync.Mutex
	fn           func(domain.IdentityChange)
	unsubscribed bool
}

func (m *mockEvents) Subscribe(_ string, fn func(domain.IdentityChange)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.unsubscribed = true
	}
}

func (m *mockEvents) emit(change domain.IdentityChange) bool {
	m.mu.Lock()
	fn := m.fn
	m.mu.Unlock()
	if fn == nil {
		return false
	}
	fn(change)
	return true
}

func (m *mockEvents) subscribed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fn != nil
}

type mockProfileStore struct {
	mu       sync.Mutex
	profiles map[string]domain.Profile
}

func newMockProfileStore() *mockProfileStore {
	return &mockProfileStore{profiles: make(map[string]domain.Profile)}
}

func (m *mockProfileStore) Get(_ context.Context, userID string) (domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[userID]
	if !ok {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	return profile, nil
}

func (m *mockProfileStore) Save(_ context.Context, profile domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.ID] = profile
	return nil
}

type mockRequestStore struct {
	mu       sync.Mutex
	requests []domain.AccessRequest
}

func (m *mockRequestStore) Save(_ context.Context, req domain.AccessRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	return nil
}

type mockNotifier struct {
	notified chan domain.AccessRequest
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{notified: make(chan domain.AccessRequest, 1)}
}

func (m *mockNotifier) NotifyAccessRequest(_ context.Context, req domain.AccessRequest) error {
	select {
	case m.notified <- req:
	default:
	}
	return nil
}
