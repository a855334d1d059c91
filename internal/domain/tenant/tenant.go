// Package tenant defines the tenant domain model for multi-tenancy.
// Each tenant owns an isolated database; the shared master database holds
// the registry of all tenants.
package tenant

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Strob0t/SiteForge/internal/domain"
)

// Tenant is the registry record for one isolated tenant.
type Tenant struct {
	ID                string          `json:"id"`
	Identifier        string          `json:"identifier"`
	Name              string          `json:"name"`
	DatabaseName      string          `json:"database_name"`
	ConnectionString  string          `json:"-"`
	Active            bool            `json:"active"`
	FeatureSettings   json.RawMessage `json:"feature_settings,omitempty"`
	IsolationMetadata json.RawMessage `json:"isolation_metadata,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         *time.Time      `json:"deleted_at,omitempty"`
}

// Deleted reports whether the tenant is soft-deleted.
func (t *Tenant) Deleted() bool { return t.DeletedAt != nil }

// identifierRegex matches the allowed shape for tenant identifiers and
// database names: 3-64 chars, lowercase alphanumeric with inner hyphens
// or underscores.
var identifierRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,62}[a-z0-9]$`)

// OnboardRequest holds the normalized input for tenant onboarding.
type OnboardRequest struct {
	Identifier        string `json:"identifier"`
	Name              string `json:"name"`
	DatabaseName      string `json:"database_name"`
	FeatureSettings   string `json:"feature_settings,omitempty"`
	IsolationMetadata string `json:"isolation_metadata,omitempty"`
}

// Normalize trims all fields, lowercases the lookup keys, and defaults the
// JSON documents to empty objects.
func (r *OnboardRequest) Normalize() {
	r.Identifier = strings.ToLower(strings.TrimSpace(r.Identifier))
	r.Name = strings.TrimSpace(r.Name)
	r.DatabaseName = strings.ToLower(strings.TrimSpace(r.DatabaseName))
	if strings.TrimSpace(r.FeatureSettings) == "" {
		r.FeatureSettings = "{}"
	}
	if strings.TrimSpace(r.IsolationMetadata) == "" {
		r.IsolationMetadata = "{}"
	}
}

// Validate checks the normalized request. It must be called after Normalize.
// All failures wrap domain.ErrValidation and occur before any side effect.
func (r *OnboardRequest) Validate() error {
	if !identifierRegex.MatchString(r.Identifier) {
		return fmt.Errorf("%w: invalid identifier %q: must be 3-64 lowercase alphanumeric characters, hyphens or underscores", domain.ErrValidation, r.Identifier)
	}
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !identifierRegex.MatchString(r.DatabaseName) {
		return fmt.Errorf("%w: invalid database name %q", domain.ErrValidation, r.DatabaseName)
	}
	if !json.Valid([]byte(r.FeatureSettings)) {
		return fmt.Errorf("%w: feature settings is not valid JSON", domain.ErrValidation)
	}
	if !json.Valid([]byte(r.IsolationMetadata)) {
		return fmt.Errorf("%w: isolation metadata is not valid JSON", domain.ErrValidation)
	}
	return nil
}

// OnboardResult reports the outcome of an onboarding call.
type OnboardResult struct {
	TenantID string `json:"tenant_id"`
	Existing bool   `json:"existing"`
	Active   bool   `json:"active"`
}

// UpdateRequest holds the fields that can be updated on a tenant.
// A database rename must go through ConnectionUpdate so the stored
// connection string is never stale.
type UpdateRequest struct {
	Name              string `json:"name,omitempty"`
	FeatureSettings   string `json:"feature_settings,omitempty"`
	IsolationMetadata string `json:"isolation_metadata,omitempty"`
}

// ConnectionUpdate rewrites a tenant's database name together with its
// derived connection string.
type ConnectionUpdate struct {
	DatabaseName string `json:"database_name"`
}
