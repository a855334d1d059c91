package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Strob0t/SiteForge/internal/middleware"
)

// MountRoutes registers all API routes on the given chi router. The admin
// surface is guarded by operator API keys; the content surface requires a
// resolved tenant session bound by the tenant middleware.
func MountRoutes(r chi.Router, h *Handlers, resolver middleware.SessionResolver, verifier middleware.KeyVerifier, tenantHeader string) {
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.OperatorAuth(verifier))

		// Tenant lifecycle
		r.Post("/tenants", h.OnboardTenant)
		r.Get("/tenants", h.ListTenants())
		r.Get("/tenants/{id}", h.GetTenant())
		r.Put("/tenants/{id}", h.UpdateTenant())
		r.Put("/tenants/{id}/connection", h.UpdateTenantConnection())
		r.Delete("/tenants/{id}", h.DeleteTenant())
		r.Post("/tenants/{id}/restore", h.RestoreTenant)
		r.Post("/tenants/{id}/activate", h.ActivateTenant)

		// Fleet migration
		r.Post("/migrate", h.MigrateFleet)

		// Operator keys
		r.Post("/keys", h.CreateOperatorKey)
		r.Get("/keys", h.ListOperatorKeys())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Tenant(resolver, tenantHeader))

		// Version
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		// Pages
		r.Get("/pages", h.ListPages())
		r.Post("/pages", h.CreatePage())
		r.Get("/pages/{id}", h.GetPage())
		r.Put("/pages/{id}", h.UpdatePage())
		r.Delete("/pages/{id}", h.DeletePage())
		r.Get("/pages/slug/{slug}", h.GetPageBySlug())

		// Menus
		r.Get("/menus", h.ListMenus())
		r.Post("/menus", h.CreateMenu())
		r.Get("/menus/{id}", h.GetMenu())
		r.Put("/menus/{id}", h.UpdateMenu())
		r.Delete("/menus/{id}", h.DeleteMenu())

		// Slides
		r.Get("/slides", h.ListSlides())
		r.Post("/slides", h.CreateSlide())
		r.Get("/slides/{id}", h.GetSlide())
		r.Put("/slides/{id}", h.UpdateSlide())
		r.Delete("/slides/{id}", h.DeleteSlide())

		// Navigation config (singleton)
		r.Get("/navigation", h.GetNavigation)
		r.Put("/navigation", h.PutNavigation)

		// Contact messages
		r.Get("/messages", h.ListMessages())
		r.Post("/messages", h.CreateMessage())
		r.Post("/messages/{id}/read", h.MarkMessageRead)

		// Products
		r.Get("/products", h.ListProducts())
		r.Post("/products", h.CreateProduct())
		r.Get("/products/{id}", h.GetProduct())
		r.Put("/products/{id}", h.UpdateProduct())
		r.Delete("/products/{id}", h.DeleteProduct())
		r.Get("/products/slug/{slug}", h.GetProductBySlug())

		// Feature settings
		r.Get("/features", h.ListFeatures)
		r.Get("/features/{key}", h.GetFeature)
	})
}
