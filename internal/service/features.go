package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Strob0t/SiteForge/internal/domain"
	"github.com/Strob0t/SiteForge/internal/port/database"
)

// Features answers per-tenant feature setting lookups. Values come from
// the tenant's feature settings document in the registry, cached per
// (tenant, key) through the FeatureCache so hot flags never touch the
// master database on the request path.
type Features struct {
	store  database.MasterStore
	cache  *FeatureCache
	logger *slog.Logger
}

// NewFeatures creates the feature lookup service.
func NewFeatures(store database.MasterStore, cache *FeatureCache, logger *slog.Logger) *Features {
	return &Features{store: store, cache: cache, logger: logger}
}

// Get returns the string form of one feature setting for a tenant. An
// unknown key returns domain.ErrNotFound.
func (f *Features) Get(ctx context.Context, tenantID, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: feature key is required", domain.ErrValidation)
	}

	if v, ok, err := f.cache.Get(ctx, tenantID, key); err != nil {
		f.logger.Warn("feature cache read failed", "tenant_id", tenantID, "key", key, "error", err)
	} else if ok {
		return v, nil
	}

	t, err := f.store.GetTenant(ctx, tenantID)
	if err != nil {
		return "", err
	}

	var settings map[string]json.RawMessage
	if len(t.FeatureSettings) > 0 {
		if err := json.Unmarshal(t.FeatureSettings, &settings); err != nil {
			return "", fmt.Errorf("decode feature settings for tenant %s: %w", tenantID, err)
		}
	}

	raw, ok := settings[key]
	if !ok {
		return "", fmt.Errorf("%w: feature %q", domain.ErrNotFound, key)
	}

	value := rawToString(raw)
	if err := f.cache.Set(ctx, tenantID, key, value); err != nil {
		f.logger.Warn("feature cache write failed", "tenant_id", tenantID, "key", key, "error", err)
	}
	return value, nil
}

// All returns the full feature settings document for a tenant, decoded to
// flat string values.
func (f *Features) All(ctx context.Context, tenantID string) (map[string]string, error) {
	t, err := f.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var settings map[string]json.RawMessage
	if len(t.FeatureSettings) > 0 {
		if err := json.Unmarshal(t.FeatureSettings, &settings); err != nil {
			return nil, fmt.Errorf("decode feature settings for tenant %s: %w", tenantID, err)
		}
	}

	out := make(map[string]string, len(settings))
	for k, raw := range settings {
		out[k] = rawToString(raw)
	}
	return out, nil
}

// rawToString renders one JSON value as a flat string: strings are
// unquoted, everything else keeps its JSON form.
func rawToString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
