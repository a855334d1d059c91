package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Strob0t/SiteForge/internal/domain"
	"github.com/Strob0t/SiteForge/internal/domain/page"
)

const pageColumns = `id, title, slug, body, published, created_at, updated_at`

func scanPage(row rowScanner) (page.Page, error) {
	var p page.Page
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *TenantStore) ListPages(ctx context.Context) ([]page.Page, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx,
		`SELECT `+pageColumns+` FROM pages ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var pages []page.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

func (s *TenantStore) GetPage(ctx context.Context, id string) (*page.Page, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	p, err := scanPage(pool.QueryRow(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get page %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get page %s: %w", id, err)
	}
	return &p, nil
}

func (s *TenantStore) GetPageBySlug(ctx context.Context, slug string) (*page.Page, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	p, err := scanPage(pool.QueryRow(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get page %s: %w", slug, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get page %s: %w", slug, err)
	}
	return &p, nil
}

func (s *TenantStore) CreatePage(ctx context.Context, req page.CreateRequest) (*page.Page, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	p, err := scanPage(pool.QueryRow(ctx,
		`INSERT INTO pages (title, slug, body, published) VALUES ($1, $2, $3, $4)
		 RETURNING `+pageColumns,
		req.Title, req.Slug, req.Body, req.Published))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create page %s: %w", req.Slug, domain.ErrConflict)
		}
		return nil, fmt.Errorf("create page %s: %w", req.Slug, err)
	}
	return &p, nil
}

func (s *TenantStore) UpdatePage(ctx context.Context, p *page.Page) error {
	pool, err := s.conn(ctx)
	if err != nil {
		return err
	}

	tag, err := pool.Exec(ctx,
		`UPDATE pages SET title = $2, body = $3, published = $4, updated_at = now()
		 WHERE id = $1`,
		p.ID, p.Title, p.Body, p.Published)
	if err != nil {
		return fmt.Errorf("update page %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update page %s: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

func (s *TenantStore) DeletePage(ctx context.Context, id string) error {
	pool, err := s.conn(ctx)
	if err != nil {
		return err
	}

	tag, err := pool.Exec(ctx, `DELETE FROM pages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete page %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete page %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
