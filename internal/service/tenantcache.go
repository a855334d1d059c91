package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/Strob0t/SiteForge/internal/domain/tenant"
	"github.com/Strob0t/SiteForge/internal/port/cache"
)

// Cache key prefixes. Feature keys and the partition index share the
// tenant ID so one invalidation sweeps everything a tenant ever cached.
const (
	tenantKeyPrefix    = "tenant:"
	featureKeyPrefix   = "tenant-feature:"
	partitionKeyPrefix = "tenant-partition:"
)

// tenantSnapshot is the cache-wire form of a tenant. It exists because the
// domain type hides the connection string from JSON output, but the cached
// snapshot must carry it for the request middleware.
type tenantSnapshot struct {
	ID                string          `json:"id"`
	Identifier        string          `json:"identifier"`
	Name              string          `json:"name"`
	DatabaseName      string          `json:"database_name"`
	ConnectionString  string          `json:"connection_string"`
	Active            bool            `json:"active"`
	FeatureSettings   json.RawMessage `json:"feature_settings,omitempty"`
	IsolationMetadata json.RawMessage `json:"isolation_metadata,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func toSnapshot(t *tenant.Tenant) tenantSnapshot {
	return tenantSnapshot{
		ID:                t.ID,
		Identifier:        t.Identifier,
		Name:              t.Name,
		DatabaseName:      t.DatabaseName,
		ConnectionString:  t.ConnectionString,
		Active:            t.Active,
		FeatureSettings:   t.FeatureSettings,
		IsolationMetadata: t.IsolationMetadata,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func (s tenantSnapshot) toTenant() *tenant.Tenant {
	return &tenant.Tenant{
		ID:                s.ID,
		Identifier:        s.Identifier,
		Name:              s.Name,
		DatabaseName:      s.DatabaseName,
		ConnectionString:  s.ConnectionString,
		Active:            s.Active,
		FeatureSettings:   s.FeatureSettings,
		IsolationMetadata: s.IsolationMetadata,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// TenantCache fronts the registry with tenant snapshots keyed by
// identifier. The backing cache is the tiered (L1 + L2) adapter.
type TenantCache struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewTenantCache creates a TenantCache with the given TTL applied on Set.
func NewTenantCache(c cache.Cache, ttl time.Duration) *TenantCache {
	return &TenantCache{cache: c, ttl: ttl}
}

// Get returns the cached snapshot for an identifier, or a miss.
func (c *TenantCache) Get(ctx context.Context, identifier string) (*tenant.Tenant, bool, error) {
	data, ok, err := c.cache.Get(ctx, tenantKeyPrefix+identifier)
	if err != nil || !ok {
		return nil, false, err
	}

	var snap tenantSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// Corrupt entry: treat as a miss so the caller refreshes it.
		return nil, false, nil
	}
	return snap.toTenant(), true, nil
}

// Set stores a tenant snapshot in both tiers.
func (c *TenantCache) Set(ctx context.Context, t *tenant.Tenant) error {
	data, err := json.Marshal(toSnapshot(t))
	if err != nil {
		return fmt.Errorf("marshal tenant snapshot: %w", err)
	}
	return c.cache.Set(ctx, tenantKeyPrefix+t.Identifier, data, c.ttl)
}

// Invalidate removes an identifier's snapshot from both tiers.
func (c *TenantCache) Invalidate(ctx context.Context, identifier string) error {
	return c.cache.Delete(ctx, tenantKeyPrefix+identifier)
}

// FeatureCache caches per-tenant feature values keyed by (tenantID, key).
// It maintains a partition index per tenant: the set of every cache key
// written for that tenant, stored under the same TTL and in the same tiers.
// InvalidateTenant walks that set, which substitutes for native tag-based
// eviction without requiring a cache technology that supports it.
type FeatureCache struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewFeatureCache creates a FeatureCache with the given TTL.
func NewFeatureCache(c cache.Cache, ttl time.Duration) *FeatureCache {
	return &FeatureCache{cache: c, ttl: ttl}
}

func featureKey(tenantID, key string) string {
	return featureKeyPrefix + tenantID + ":" + key
}

func partitionKey(tenantID string) string {
	return partitionKeyPrefix + tenantID
}

// Get returns the cached feature value, or a miss.
func (c *FeatureCache) Get(ctx context.Context, tenantID, key string) (string, bool, error) {
	data, ok, err := c.cache.Get(ctx, featureKey(tenantID, key))
	if err != nil || !ok {
		return "", false, err
	}
	return string(data), true, nil
}

// Set stores a feature value and records its key in the tenant's partition
// set. The partition read-modify-write may race with a concurrent Set for
// the same tenant; last write wins, and a lost member only means that key
// falls back to TTL expiry instead of bulk invalidation.
func (c *FeatureCache) Set(ctx context.Context, tenantID, key, value string) error {
	fk := featureKey(tenantID, key)
	if err := c.cache.Set(ctx, fk, []byte(value), c.ttl); err != nil {
		return err
	}
	return c.addToPartition(ctx, tenantID, fk)
}

func (c *FeatureCache) addToPartition(ctx context.Context, tenantID, member string) error {
	pk := partitionKey(tenantID)

	var members []string
	data, ok, err := c.cache.Get(ctx, pk)
	if err != nil {
		return err
	}
	if ok {
		if err := json.Unmarshal(data, &members); err != nil {
			members = nil
		}
	}
	if slices.Contains(members, member) {
		return nil
	}
	members = append(members, member)

	data, err = json.Marshal(members)
	if err != nil {
		return fmt.Errorf("marshal partition set: %w", err)
	}
	return c.cache.Set(ctx, pk, data, c.ttl)
}

// InvalidateTenant removes every cached key recorded in the tenant's
// partition set from both tiers, then removes the partition key itself.
func (c *FeatureCache) InvalidateTenant(ctx context.Context, tenantID string) error {
	pk := partitionKey(tenantID)

	data, ok, err := c.cache.Get(ctx, pk)
	if err != nil {
		return err
	}
	if ok {
		var members []string
		if err := json.Unmarshal(data, &members); err == nil {
			for _, member := range members {
				if err := c.cache.Delete(ctx, member); err != nil {
					return fmt.Errorf("invalidate tenant %s: delete %s: %w", tenantID, member, err)
				}
			}
		}
	}

	return c.cache.Delete(ctx, pk)
}
