// Package navigation defines the per-tenant navigation configuration.
package navigation

import "time"

// Config is the singleton navigation settings document of one tenant.
type Config struct {
	LogoURL      string    `json:"logo_url"`
	ShowSearch   bool      `json:"show_search"`
	StickyHeader bool      `json:"sticky_header"`
	FooterText   string    `json:"footer_text"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PutRequest replaces the tenant's navigation configuration.
type PutRequest struct {
	LogoURL      string `json:"logo_url"`
	ShowSearch   bool   `json:"show_search"`
	StickyHeader bool   `json:"sticky_header"`
	FooterText   string `json:"footer_text"`
}
