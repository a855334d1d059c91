package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Strob0t/SiteForge/internal/domain"
	"github.com/Strob0t/SiteForge/internal/domain/product"
)

const productColumns = `id, name, slug, description, price_cents, currency, stock, published, created_at, updated_at`

func scanProduct(row rowScanner) (product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.PriceCents,
		&p.Currency, &p.Stock, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *TenantStore) ListProducts(ctx context.Context) ([]product.Product, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *TenantStore) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	p, err := scanProduct(pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get product %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return &p, nil
}

func (s *TenantStore) GetProductBySlug(ctx context.Context, slug string) (*product.Product, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	p, err := scanProduct(pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get product %s: %w", slug, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get product %s: %w", slug, err)
	}
	return &p, nil
}

func (s *TenantStore) CreateProduct(ctx context.Context, req product.CreateRequest) (*product.Product, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	p, err := scanProduct(pool.QueryRow(ctx,
		`INSERT INTO products (name, slug, description, price_cents, currency, stock, published)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+productColumns,
		req.Name, req.Slug, req.Description, req.PriceCents, req.Currency, req.Stock, req.Published))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create product %s: %w", req.Slug, domain.ErrConflict)
		}
		return nil, fmt.Errorf("create product %s: %w", req.Slug, err)
	}
	return &p, nil
}

func (s *TenantStore) UpdateProduct(ctx context.Context, p *product.Product) error {
	pool, err := s.conn(ctx)
	if err != nil {
		return err
	}

	tag, err := pool.Exec(ctx,
		`UPDATE products SET name = $2, description = $3, price_cents = $4,
		   currency = $5, stock = $6, published = $7, updated_at = now()
		 WHERE id = $1`,
		p.ID, p.Name, p.Description, p.PriceCents, p.Currency, p.Stock, p.Published)
	if err != nil {
		return fmt.Errorf("update product %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update product %s: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

func (s *TenantStore) DeleteProduct(ctx context.Context, id string) error {
	pool, err := s.conn(ctx)
	if err != nil {
		return err
	}

	tag, err := pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete product %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
