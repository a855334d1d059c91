package http

import (
	"net/http"

	"github.com/Strob0t/SiteForge/internal/domain/contact"
	"github.com/Strob0t/SiteForge/internal/domain/menu"
	"github.com/Strob0t/SiteForge/internal/domain/navigation"
	"github.com/Strob0t/SiteForge/internal/domain/page"
	"github.com/Strob0t/SiteForge/internal/domain/product"
	"github.com/Strob0t/SiteForge/internal/domain/slider"
	"github.com/Strob0t/SiteForge/internal/domain/tenant"
	"github.com/Strob0t/SiteForge/internal/service"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Content    *service.Content
	Features   *service.Features
	Tenants    *service.Tenants
	Onboarding *service.Onboarding
	Migration  *service.Migration
	Auth       *service.Auth
}

// ---------------------------------------------------------------------------
// Pages
// ---------------------------------------------------------------------------

func (h *Handlers) ListPages() http.HandlerFunc {
	return handleList(h.Content.ListPages)
}

func (h *Handlers) GetPage() http.HandlerFunc {
	return handleGet(h.Content.GetPage, "page not found")
}

func (h *Handlers) GetPageBySlug() http.HandlerFunc {
	return handleGetByParam("slug", h.Content.GetPageBySlug, "page not found")
}

func (h *Handlers) CreatePage() http.HandlerFunc {
	return handleCreate[page.CreateRequest](maxRequestBodySize, h.Content.CreatePage)
}

func (h *Handlers) UpdatePage() http.HandlerFunc {
	return handleUpdate[page.UpdateRequest](maxRequestBodySize, h.Content.UpdatePage, "page not found")
}

func (h *Handlers) DeletePage() http.HandlerFunc {
	return handleDelete(h.Content.DeletePage, "page not found")
}

// ---------------------------------------------------------------------------
// Menus
// ---------------------------------------------------------------------------

func (h *Handlers) ListMenus() http.HandlerFunc {
	return handleList(h.Content.ListMenus)
}

func (h *Handlers) GetMenu() http.HandlerFunc {
	return handleGet(h.Content.GetMenu, "menu not found")
}

func (h *Handlers) CreateMenu() http.HandlerFunc {
	return handleCreate[menu.CreateRequest](maxRequestBodySize, h.Content.CreateMenu)
}

func (h *Handlers) UpdateMenu() http.HandlerFunc {
	return handleUpdate[menu.UpdateRequest](maxRequestBodySize, h.Content.UpdateMenu, "menu not found")
}

func (h *Handlers) DeleteMenu() http.HandlerFunc {
	return handleDelete(h.Content.DeleteMenu, "menu not found")
}

// ---------------------------------------------------------------------------
// Slides
// ---------------------------------------------------------------------------

func (h *Handlers) ListSlides() http.HandlerFunc {
	return handleList(h.Content.ListSlides)
}

func (h *Handlers) GetSlide() http.HandlerFunc {
	return handleGet(h.Content.GetSlide, "slide not found")
}

func (h *Handlers) CreateSlide() http.HandlerFunc {
	return handleCreate[slider.CreateRequest](maxRequestBodySize, h.Content.CreateSlide)
}

func (h *Handlers) UpdateSlide() http.HandlerFunc {
	return handleUpdate[slider.UpdateRequest](maxRequestBodySize, h.Content.UpdateSlide, "slide not found")
}

func (h *Handlers) DeleteSlide() http.HandlerFunc {
	return handleDelete(h.Content.DeleteSlide, "slide not found")
}

// ---------------------------------------------------------------------------
// Navigation config
// ---------------------------------------------------------------------------

func (h *Handlers) GetNavigation(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Content.GetNavigation(r.Context())
	if err != nil {
		writeDomainError(w, err, "navigation config not found")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *Handlers) PutNavigation(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[navigation.PutRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	cfg, err := h.Content.PutNavigation(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "navigation config not found")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// ---------------------------------------------------------------------------
// Contact messages
// ---------------------------------------------------------------------------

func (h *Handlers) ListMessages() http.HandlerFunc {
	return handleList(h.Content.ListMessages)
}

func (h *Handlers) CreateMessage() http.HandlerFunc {
	return handleCreate[contact.CreateRequest](maxRequestBodySize, h.Content.CreateMessage)
}

func (h *Handlers) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Content.MarkMessageRead(r.Context(), urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "message not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

func (h *Handlers) ListProducts() http.HandlerFunc {
	return handleList(h.Content.ListProducts)
}

func (h *Handlers) GetProduct() http.HandlerFunc {
	return handleGet(h.Content.GetProduct, "product not found")
}

func (h *Handlers) GetProductBySlug() http.HandlerFunc {
	return handleGetByParam("slug", h.Content.GetProductBySlug, "product not found")
}

func (h *Handlers) CreateProduct() http.HandlerFunc {
	return handleCreate[product.CreateRequest](maxRequestBodySize, h.Content.CreateProduct)
}

func (h *Handlers) UpdateProduct() http.HandlerFunc {
	return handleUpdate[product.UpdateRequest](maxRequestBodySize, h.Content.UpdateProduct, "product not found")
}

func (h *Handlers) DeleteProduct() http.HandlerFunc {
	return handleDelete(h.Content.DeleteProduct, "product not found")
}

// ---------------------------------------------------------------------------
// Features
// ---------------------------------------------------------------------------

// GetFeature handles GET /api/v1/features/{key} for the bound tenant.
func (h *Handlers) GetFeature(w http.ResponseWriter, r *http.Request) {
	session, err := tenant.FromContext(r.Context())
	if err != nil {
		writeDomainError(w, err, "tenant context required")
		return
	}
	key := urlParam(r, "key")
	value, err := h.Features.Get(r.Context(), session.TenantID, key)
	if err != nil {
		writeDomainError(w, err, "feature not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

// ListFeatures handles GET /api/v1/features for the bound tenant.
func (h *Handlers) ListFeatures(w http.ResponseWriter, r *http.Request) {
	session, err := tenant.FromContext(r.Context())
	if err != nil {
		writeDomainError(w, err, "tenant context required")
		return
	}
	features, err := h.Features.All(r.Context(), session.TenantID)
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, features)
}
