package http

import (
	"net/http"

	"github.com/Strob0t/SiteForge/internal/domain/tenant"
)

// ---------------------------------------------------------------------------
// Tenant administration (operator surface)
// ---------------------------------------------------------------------------

// OnboardTenant handles POST /api/v1/admin/tenants.
func (h *Handlers) OnboardTenant(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[tenant.OnboardRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	result, err := h.Onboarding.Onboard(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "onboarding failed")
		return
	}
	status := http.StatusCreated
	if result.Existing {
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}

func (h *Handlers) ListTenants() http.HandlerFunc {
	return handleList(h.Tenants.List)
}

func (h *Handlers) GetTenant() http.HandlerFunc {
	return handleGet(h.Tenants.Get, "tenant not found")
}

func (h *Handlers) UpdateTenant() http.HandlerFunc {
	return handleUpdate[tenant.UpdateRequest](maxRequestBodySize, h.Tenants.Update, "tenant not found")
}

func (h *Handlers) UpdateTenantConnection() http.HandlerFunc {
	return handleUpdate[tenant.ConnectionUpdate](maxRequestBodySize, h.Tenants.UpdateConnection, "tenant not found")
}

func (h *Handlers) DeleteTenant() http.HandlerFunc {
	return handleDelete(h.Tenants.SoftDelete, "tenant not found")
}

// RestoreTenant handles POST /api/v1/admin/tenants/{id}/restore. The
// restored tenant is still inactive; follow up with ActivateTenant to put
// it back in service.
func (h *Handlers) RestoreTenant(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tenants.Restore(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ActivateTenant handles POST /api/v1/admin/tenants/{id}/activate.
func (h *Handlers) ActivateTenant(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tenants.Activate(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// MigrateFleet handles POST /api/v1/admin/migrate. The sweep runs to
// completion before responding; partial failure still returns the report
// with a 207 so the caller can see which tenants need attention.
func (h *Handlers) MigrateFleet(w http.ResponseWriter, r *http.Request) {
	report, err := h.Migration.SweepTenants(r.Context())
	if err != nil && report == nil {
		writeInternalError(w, err)
		return
	}
	status := http.StatusOK
	if report.Failed > 0 {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, report)
}

// ---------------------------------------------------------------------------
// Operator API keys
// ---------------------------------------------------------------------------

type createKeyRequest struct {
	Name string `json:"name"`
}

type createKeyResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

// CreateOperatorKey handles POST /api/v1/admin/keys. The token in the
// response is shown exactly once.
func (h *Handlers) CreateOperatorKey(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[createKeyRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	key, token, err := h.Auth.CreateKey(r.Context(), req.Name, "")
	if err != nil {
		writeDomainError(w, err, "key creation failed")
		return
	}
	writeJSON(w, http.StatusCreated, createKeyResponse{ID: key.ID, Name: key.Name, Token: token})
}

func (h *Handlers) ListOperatorKeys() http.HandlerFunc {
	return handleList(h.Auth.ListKeys)
}
