//go:build integration

package integration_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

// TestOnboardingLifecycle walks the full tenant lifecycle: onboard a fresh
// tenant, verify idempotent replay, then reach its isolated database through
// the content surface.
func TestOnboardingLifecycle(t *testing.T) {
	client := testServer.Client()
	const body = `{"identifier":"it-acme","name":"Acme Integration","database_name":"siteforge_it_acme"}`

	// Fresh onboarding
	req, err := adminRequest("POST", "/api/v1/admin/tenants", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("onboard: %v", err)
	}
	var first struct {
		TenantID string `json:"tenant_id"`
		Existing bool   `json:"existing"`
		Active   bool   `json:"active"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&first); err != nil {
		t.Fatalf("decode onboard response: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("onboard: expected 201, got %d", resp.StatusCode)
	}
	if first.Existing || !first.Active || first.TenantID == "" {
		t.Fatalf("onboard: unexpected result %+v", first)
	}

	// Replay is idempotent
	req, err = adminRequest("POST", "/api/v1/admin/tenants", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("onboard replay: %v", err)
	}
	var second struct {
		TenantID string `json:"tenant_id"`
		Existing bool   `json:"existing"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&second); err != nil {
		t.Fatalf("decode replay response: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("replay: expected 200, got %d", resp.StatusCode)
	}
	if !second.Existing || second.TenantID != first.TenantID {
		t.Fatalf("replay: expected existing tenant %s, got %+v", first.TenantID, second)
	}

	// The content surface now routes to the tenant's own database
	pageBody := `{"slug":"welcome","title":"Welcome","body":"<p>hello</p>","published":true}`
	req, err = tenantRequest("POST", "/api/v1/pages", "it-acme", strings.NewReader(pageBody))
	if err != nil {
		t.Fatal(err)
	}
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create page: expected 201, got %d", resp.StatusCode)
	}

	req, err = tenantRequest("GET", "/api/v1/pages/slug/welcome", "it-acme", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	var page struct {
		Slug  string `json:"slug"`
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || page.Slug != "welcome" {
		t.Fatalf("get page: got %d %+v", resp.StatusCode, page)
	}
}

func TestUnknownTenantRejected(t *testing.T) {
	req, err := tenantRequest("GET", "/api/v1/pages", "it-no-such-tenant", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := testServer.Client().Do(req)
	if err != nil {
		t.Fatalf("GET /api/v1/pages: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown tenant, got %d", resp.StatusCode)
	}
}

func TestAdminListIncludesOnboardedTenant(t *testing.T) {
	req, err := adminRequest("GET", "/api/v1/admin/tenants", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := testServer.Client().Do(req)
	if err != nil {
		t.Fatalf("list tenants: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var tenants []struct {
		Identifier string `json:"identifier"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tenants); err != nil {
		t.Fatalf("decode tenants: %v", err)
	}
	for _, tn := range tenants {
		if tn.Identifier == "it-acme" {
			return
		}
	}
	t.Fatal("onboarded tenant it-acme not in admin list")
}
