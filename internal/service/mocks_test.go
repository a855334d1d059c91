package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/SiteForge/internal/domain"
	"github.com/Strob0t/SiteForge/internal/domain/operator"
	"github.com/Strob0t/SiteForge/internal/domain/tenant"
	"github.com/Strob0t/SiteForge/internal/port/cache"
	"github.com/Strob0t/SiteForge/internal/port/database"
	"github.com/Strob0t/SiteForge/internal/port/messagequeue"
	"github.com/Strob0t/SiteForge/internal/port/provision"
)

// Ensure the mocks implement their ports at compile time.
var (
	_ database.MasterStore  = (*mockStore)(nil)
	_ provision.Provisioner = (*mockProvisioner)(nil)
	_ cache.Cache           = (*mockCache)(nil)
	_ messagequeue.Queue    = (*mockQueue)(nil)
)

// mockStore is a minimal in-memory implementation of database.MasterStore.
type mockStore struct {
	mu      sync.Mutex
	tenants []tenant.Tenant
	keys    []operator.Key

	// Error hooks — set these to inject failures.
	getByIdentifierErr error
	insertErr          error
	activateErr        error
	deleteErr          error
	listActiveErr      error
	updateErr          error

	// insertHook runs inside InsertTenant while holding the lock, before
	// the row is added. Used to simulate concurrent races.
	insertHook func()
}

func (m *mockStore) GetTenantByIdentifier(_ context.Context, identifier string) (*tenant.Tenant, error) {
	if m.getByIdentifierErr != nil {
		return nil, m.getByIdentifierErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tenants {
		if m.tenants[i].Identifier == identifier && m.tenants[i].DeletedAt == nil {
			t := m.tenants[i]
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) InsertTenant(_ context.Context, req tenant.OnboardRequest, connString string) (*tenant.Tenant, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertHook != nil {
		m.insertHook()
	}
	for i := range m.tenants {
		if m.tenants[i].DeletedAt != nil {
			continue
		}
		if m.tenants[i].Identifier == req.Identifier || m.tenants[i].DatabaseName == req.DatabaseName {
			return nil, domain.ErrConflict
		}
	}
	t := tenant.Tenant{
		ID:               uuid.NewString(),
		Identifier:       req.Identifier,
		Name:             req.Name,
		DatabaseName:     req.DatabaseName,
		ConnectionString: connString,
		FeatureSettings:  []byte(req.FeatureSettings),
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	m.tenants = append(m.tenants, t)
	return &t, nil
}

func (m *mockStore) ActivateTenant(_ context.Context, id string) (*tenant.Tenant, error) {
	if m.activateErr != nil {
		return nil, m.activateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tenants {
		if m.tenants[i].ID == id {
			m.tenants[i].Active = true
			t := m.tenants[i]
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) DeactivateAndDeleteTenant(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tenants {
		if m.tenants[i].ID == id {
			m.tenants = append(m.tenants[:i], m.tenants[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) ListActiveTenants(_ context.Context) ([]tenant.Tenant, error) {
	if m.listActiveErr != nil {
		return nil, m.listActiveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tenant.Tenant
	for _, t := range m.tenants {
		if t.Active && t.DeletedAt == nil {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockStore) ListTenants(_ context.Context) ([]tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]tenant.Tenant(nil), m.tenants...), nil
}

func (m *mockStore) GetTenant(_ context.Context, id string) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tenants {
		if m.tenants[i].ID == id {
			t := m.tenants[i]
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) UpdateTenant(_ context.Context, id string, req tenant.UpdateRequest) (*tenant.Tenant, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tenants {
		if m.tenants[i].ID == id {
			if req.Name != "" {
				m.tenants[i].Name = req.Name
			}
			if req.FeatureSettings != "" {
				m.tenants[i].FeatureSettings = []byte(req.FeatureSettings)
			}
			if req.IsolationMetadata != "" {
				m.tenants[i].IsolationMetadata = []byte(req.IsolationMetadata)
			}
			t := m.tenants[i]
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) UpdateTenantConnection(_ context.Context, id, databaseName, connString string) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tenants {
		if m.tenants[i].ID == id {
			m.tenants[i].DatabaseName = databaseName
			m.tenants[i].ConnectionString = connString
			t := m.tenants[i]
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) SoftDeleteTenant(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tenants {
		if m.tenants[i].ID == id {
			now := time.Now()
			m.tenants[i].DeletedAt = &now
			m.tenants[i].Active = false
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) RestoreTenant(_ context.Context, id string) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tenants {
		if m.tenants[i].ID == id && m.tenants[i].DeletedAt != nil {
			m.tenants[i].DeletedAt = nil
			t := m.tenants[i]
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateOperatorKey(_ context.Context, name, secretHash string) (*operator.Key, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range m.keys {
		if k.Name == name {
			return nil, domain.ErrConflict
		}
	}
	key := operator.Key{ID: uuid.NewString(), Name: name, SecretHash: secretHash, CreatedAt: time.Now()}
	m.keys = append(m.keys, key)
	return &key, nil
}

func (m *mockStore) GetOperatorKeyByName(_ context.Context, name string) (*operator.Key, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.keys {
		if m.keys[i].Name == name {
			k := m.keys[i]
			return &k, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) TouchOperatorKey(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.keys {
		if m.keys[i].ID == id {
			now := time.Now()
			m.keys[i].LastUsedAt = &now
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) ListOperatorKeys(_ context.Context) ([]operator.Key, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]operator.Key(nil), m.keys...), nil
}

// mockProvisioner records which steps ran and can fail any of them.
type mockProvisioner struct {
	created  []string
	migrated []string
	seeded   []string

	createErr  error
	migrateErr error
	seedErr    error
}

func (p *mockProvisioner) CreateDatabase(_ context.Context, databaseName string) error {
	if p.createErr != nil {
		return p.createErr
	}
	p.created = append(p.created, databaseName)
	return nil
}

func (p *mockProvisioner) Migrate(_ context.Context, connString string) error {
	if p.migrateErr != nil {
		return p.migrateErr
	}
	p.migrated = append(p.migrated, connString)
	return nil
}

func (p *mockProvisioner) Seed(_ context.Context, connString string) error {
	if p.seedErr != nil {
		return p.seedErr
	}
	p.seeded = append(p.seeded, connString)
	return nil
}

// mockCache is an in-memory cache.Cache with error hooks.
type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte

	getErr    error
	setErr    error
	deleteErr error
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (c *mockCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mockCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *mockCache) Delete(_ context.Context, key string) error {
	if c.deleteErr != nil {
		return c.deleteErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mockCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// mockQueue records published messages.
type mockQueue struct {
	mu        sync.Mutex
	published map[string][][]byte
}

func newMockQueue() *mockQueue {
	return &mockQueue{published: make(map[string][][]byte)}
}

func (q *mockQueue) Publish(_ context.Context, subject string, data []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.published[subject] = append(q.published[subject], data)
	return nil
}

func (q *mockQueue) Subscribe(_ context.Context, _ string, _ messagequeue.Handler) (func(), error) {
	return func() {}, nil
}

func (q *mockQueue) Close() error { return nil }

func (q *mockQueue) count(subject string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.published[subject])
}
