package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Strob0t/SiteForge/internal/domain"
	"github.com/Strob0t/SiteForge/internal/domain/navigation"
)

// The navigation config is a singleton row per tenant database, keyed by a
// constant id enforced with a CHECK constraint in the schema.

func (s *TenantStore) GetNavigation(ctx context.Context) (*navigation.Config, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var c navigation.Config
	err = pool.QueryRow(ctx,
		`SELECT logo_url, show_search, sticky_header, footer_text, updated_at
		 FROM navigation_config WHERE id = 1`).
		Scan(&c.LogoURL, &c.ShowSearch, &c.StickyHeader, &c.FooterText, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get navigation: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get navigation: %w", err)
	}
	return &c, nil
}

func (s *TenantStore) PutNavigation(ctx context.Context, req navigation.PutRequest) (*navigation.Config, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var c navigation.Config
	err = pool.QueryRow(ctx,
		`INSERT INTO navigation_config (id, logo_url, show_search, sticky_header, footer_text)
		 VALUES (1, $1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET
		   logo_url = EXCLUDED.logo_url,
		   show_search = EXCLUDED.show_search,
		   sticky_header = EXCLUDED.sticky_header,
		   footer_text = EXCLUDED.footer_text,
		   updated_at = now()
		 RETURNING logo_url, show_search, sticky_header, footer_text, updated_at`,
		req.LogoURL, req.ShowSearch, req.StickyHeader, req.FooterText).
		Scan(&c.LogoURL, &c.ShowSearch, &c.StickyHeader, &c.FooterText, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("put navigation: %w", err)
	}
	return &c, nil
}
