package database

import (
	"context"

	"github.com/Strob0t/SiteForge/internal/domain/contact"
	"github.com/Strob0t/SiteForge/internal/domain/menu"
	"github.com/Strob0t/SiteForge/internal/domain/navigation"
	"github.com/Strob0t/SiteForge/internal/domain/page"
	"github.com/Strob0t/SiteForge/internal/domain/product"
	"github.com/Strob0t/SiteForge/internal/domain/slider"
)

// ContentStore is the port interface for per-tenant content data.
// Implementations route every call to the database of the tenant bound to
// ctx (see tenant.FromContext); calling without a bound tenant fails with
// domain.ErrTenantContext.
type ContentStore interface {
	// Pages
	ListPages(ctx context.Context) ([]page.Page, error)
	GetPage(ctx context.Context, id string) (*page.Page, error)
	GetPageBySlug(ctx context.Context, slug string) (*page.Page, error)
	CreatePage(ctx context.Context, req page.CreateRequest) (*page.Page, error)
	UpdatePage(ctx context.Context, p *page.Page) error
	DeletePage(ctx context.Context, id string) error

	// Menus
	ListMenus(ctx context.Context) ([]menu.Menu, error)
	GetMenu(ctx context.Context, id string) (*menu.Menu, error)
	CreateMenu(ctx context.Context, req menu.CreateRequest) (*menu.Menu, error)
	UpdateMenu(ctx context.Context, m *menu.Menu) error
	DeleteMenu(ctx context.Context, id string) error

	// Sliders
	ListSlides(ctx context.Context) ([]slider.Slide, error)
	GetSlide(ctx context.Context, id string) (*slider.Slide, error)
	CreateSlide(ctx context.Context, req slider.CreateRequest) (*slider.Slide, error)
	UpdateSlide(ctx context.Context, s *slider.Slide) error
	DeleteSlide(ctx context.Context, id string) error

	// Navigation config (singleton per tenant)
	GetNavigation(ctx context.Context) (*navigation.Config, error)
	PutNavigation(ctx context.Context, req navigation.PutRequest) (*navigation.Config, error)

	// Contact messages
	ListMessages(ctx context.Context) ([]contact.Message, error)
	CreateMessage(ctx context.Context, req contact.CreateRequest) (*contact.Message, error)
	MarkMessageRead(ctx context.Context, id string) error

	// Products
	ListProducts(ctx context.Context) ([]product.Product, error)
	GetProduct(ctx context.Context, id string) (*product.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*product.Product, error)
	CreateProduct(ctx context.Context, req product.CreateRequest) (*product.Product, error)
	UpdateProduct(ctx context.Context, p *product.Product) error
	DeleteProduct(ctx context.Context, id string) error
}
