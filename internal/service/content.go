package service

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/Strob0t/SiteForge/internal/domain"
	"github.com/Strob0t/SiteForge/internal/domain/contact"
	"github.com/Strob0t/SiteForge/internal/domain/menu"
	"github.com/Strob0t/SiteForge/internal/domain/navigation"
	"github.com/Strob0t/SiteForge/internal/domain/page"
	"github.com/Strob0t/SiteForge/internal/domain/product"
	"github.com/Strob0t/SiteForge/internal/domain/slider"
	"github.com/Strob0t/SiteForge/internal/port/database"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func validateSlug(slug string) error {
	if !slugRegex.MatchString(slug) || len(slug) > 128 {
		return fmt.Errorf("%w: invalid slug %q: must be lowercase alphanumeric segments separated by hyphens", domain.ErrValidation, slug)
	}
	return nil
}

// Content serves the per-tenant content domains. Every method operates on
// the database of the tenant bound to ctx; the store resolves that binding.
type Content struct {
	store database.ContentStore
}

// NewContent creates the content service.
func NewContent(store database.ContentStore) *Content {
	return &Content{store: store}
}

// --- Pages ---

func (s *Content) ListPages(ctx context.Context) ([]page.Page, error) {
	return s.store.ListPages(ctx)
}

func (s *Content) GetPage(ctx context.Context, id string) (*page.Page, error) {
	return s.store.GetPage(ctx, id)
}

func (s *Content) GetPageBySlug(ctx context.Context, slug string) (*page.Page, error) {
	return s.store.GetPageBySlug(ctx, slug)
}

func (s *Content) CreatePage(ctx context.Context, req page.CreateRequest) (*page.Page, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if err := validateSlug(req.Slug); err != nil {
		return nil, err
	}
	return s.store.CreatePage(ctx, req)
}

func (s *Content) UpdatePage(ctx context.Context, id string, req page.UpdateRequest) (*page.Page, error) {
	p, err := s.store.GetPage(ctx, id)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(req.Title); v != "" {
		p.Title = v
	}
	if req.Body != nil {
		p.Body = *req.Body
	}
	if req.Published != nil {
		p.Published = *req.Published
	}
	if err := s.store.UpdatePage(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Content) DeletePage(ctx context.Context, id string) error {
	return s.store.DeletePage(ctx, id)
}

// --- Menus ---

func (s *Content) ListMenus(ctx context.Context) ([]menu.Menu, error) {
	return s.store.ListMenus(ctx)
}

func (s *Content) GetMenu(ctx context.Context, id string) (*menu.Menu, error) {
	return s.store.GetMenu(ctx, id)
}

func (s *Content) CreateMenu(ctx context.Context, req menu.CreateRequest) (*menu.Menu, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, fmt.Errorf("%w: menu name is required", domain.ErrValidation)
	}
	if err := validateMenuItems(req.Items); err != nil {
		return nil, err
	}
	return s.store.CreateMenu(ctx, req)
}

func (s *Content) UpdateMenu(ctx context.Context, id string, req menu.UpdateRequest) (*menu.Menu, error) {
	m, err := s.store.GetMenu(ctx, id)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(req.Name); v != "" {
		m.Name = v
	}
	if req.Items != nil {
		if err := validateMenuItems(*req.Items); err != nil {
			return nil, err
		}
		m.Items = *req.Items
	}
	if err := s.store.UpdateMenu(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Content) DeleteMenu(ctx context.Context, id string) error {
	return s.store.DeleteMenu(ctx, id)
}

func validateMenuItems(items []menu.Item) error {
	for i, item := range items {
		if strings.TrimSpace(item.Label) == "" {
			return fmt.Errorf("%w: menu item %d: label is required", domain.ErrValidation, i)
		}
		if strings.TrimSpace(item.URL) == "" {
			return fmt.Errorf("%w: menu item %d: url is required", domain.ErrValidation, i)
		}
	}
	return nil
}

// --- Slides ---

func (s *Content) ListSlides(ctx context.Context) ([]slider.Slide, error) {
	return s.store.ListSlides(ctx)
}

func (s *Content) GetSlide(ctx context.Context, id string) (*slider.Slide, error) {
	return s.store.GetSlide(ctx, id)
}

func (s *Content) CreateSlide(ctx context.Context, req slider.CreateRequest) (*slider.Slide, error) {
	if strings.TrimSpace(req.ImageURL) == "" {
		return nil, fmt.Errorf("%w: image url is required", domain.ErrValidation)
	}
	return s.store.CreateSlide(ctx, req)
}

func (s *Content) UpdateSlide(ctx context.Context, id string, req slider.UpdateRequest) (*slider.Slide, error) {
	sl, err := s.store.GetSlide(ctx, id)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(req.ImageURL); v != "" {
		sl.ImageURL = v
	}
	if req.Caption != nil {
		sl.Caption = *req.Caption
	}
	if req.LinkURL != nil {
		sl.LinkURL = *req.LinkURL
	}
	if req.SortOrder != nil {
		sl.SortOrder = *req.SortOrder
	}
	if req.Active != nil {
		sl.Active = *req.Active
	}
	if err := s.store.UpdateSlide(ctx, sl); err != nil {
		return nil, err
	}
	return sl, nil
}

func (s *Content) DeleteSlide(ctx context.Context, id string) error {
	return s.store.DeleteSlide(ctx, id)
}

// --- Navigation ---

func (s *Content) GetNavigation(ctx context.Context) (*navigation.Config, error) {
	return s.store.GetNavigation(ctx)
}

func (s *Content) PutNavigation(ctx context.Context, req navigation.PutRequest) (*navigation.Config, error) {
	return s.store.PutNavigation(ctx, req)
}

// --- Contact messages ---

func (s *Content) ListMessages(ctx context.Context) ([]contact.Message, error) {
	return s.store.ListMessages(ctx)
}

func (s *Content) CreateMessage(ctx context.Context, req contact.CreateRequest) (*contact.Message, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Body = strings.TrimSpace(req.Body)
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	if req.Body == "" {
		return nil, fmt.Errorf("%w: message body is required", domain.ErrValidation)
	}
	return s.store.CreateMessage(ctx, req)
}

func (s *Content) MarkMessageRead(ctx context.Context, id string) error {
	return s.store.MarkMessageRead(ctx, id)
}

// --- Products ---

func (s *Content) ListProducts(ctx context.Context) ([]product.Product, error) {
	return s.store.ListProducts(ctx)
}

func (s *Content) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *Content) GetProductBySlug(ctx context.Context, slug string) (*product.Product, error) {
	return s.store.GetProductBySlug(ctx, slug)
}

func (s *Content) CreateProduct(ctx context.Context, req product.CreateRequest) (*product.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if err := validateSlug(req.Slug); err != nil {
		return nil, err
	}
	if err := validateMoney(req.PriceCents, req.Currency, req.Stock); err != nil {
		return nil, err
	}
	return s.store.CreateProduct(ctx, req)
}

func (s *Content) UpdateProduct(ctx context.Context, id string, req product.UpdateRequest) (*product.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(req.Name); v != "" {
		p.Name = v
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.PriceCents != nil {
		p.PriceCents = *req.PriceCents
	}
	if v := strings.ToUpper(strings.TrimSpace(req.Currency)); v != "" {
		p.Currency = v
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Published != nil {
		p.Published = *req.Published
	}
	if err := validateMoney(p.PriceCents, p.Currency, p.Stock); err != nil {
		return nil, err
	}
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Content) DeleteProduct(ctx context.Context, id string) error {
	return s.store.DeleteProduct(ctx, id)
}

func validateMoney(priceCents int64, currency string, stock int) error {
	if priceCents < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if len(currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", domain.ErrValidation)
	}
	if stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", domain.ErrValidation)
	}
	return nil
}
