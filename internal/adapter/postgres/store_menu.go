package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Strob0t/SiteForge/internal/domain"
	"github.com/Strob0t/SiteForge/internal/domain/menu"
)

func (s *TenantStore) ListMenus(ctx context.Context) ([]menu.Menu, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx,
		`SELECT id, name, created_at, updated_at FROM menus ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	defer rows.Close()

	var menus []menu.Menu
	for rows.Next() {
		var m menu.Menu
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan menu: %w", err)
		}
		menus = append(menus, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range menus {
		items, err := s.listMenuItems(ctx, pool, menus[i].ID)
		if err != nil {
			return nil, err
		}
		menus[i].Items = items
	}
	return menus, nil
}

func (s *TenantStore) GetMenu(ctx context.Context, id string) (*menu.Menu, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var m menu.Menu
	err = pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM menus WHERE id = $1`, id).
		Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get menu %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get menu %s: %w", id, err)
	}

	m.Items, err = s.listMenuItems(ctx, pool, id)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *TenantStore) listMenuItems(ctx context.Context, q pgxQuerier, menuID string) ([]menu.Item, error) {
	rows, err := q.Query(ctx,
		`SELECT id, label, url, sort_order FROM menu_items
		 WHERE menu_id = $1 ORDER BY sort_order ASC`, menuID)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var items []menu.Item
	for rows.Next() {
		var it menu.Item
		if err := rows.Scan(&it.ID, &it.Label, &it.URL, &it.SortOrder); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CreateMenu inserts the menu and its items in one transaction.
func (s *TenantStore) CreateMenu(ctx context.Context, req menu.CreateRequest) (*menu.Menu, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("create menu: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var m menu.Menu
	err = tx.QueryRow(ctx,
		`INSERT INTO menus (name) VALUES ($1)
		 RETURNING id, name, created_at, updated_at`, req.Name).
		Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create menu %s: %w", req.Name, domain.ErrConflict)
		}
		return nil, fmt.Errorf("create menu %s: %w", req.Name, err)
	}

	for _, it := range req.Items {
		var created menu.Item
		err = tx.QueryRow(ctx,
			`INSERT INTO menu_items (menu_id, label, url, sort_order) VALUES ($1, $2, $3, $4)
			 RETURNING id, label, url, sort_order`,
			m.ID, it.Label, it.URL, it.SortOrder).
			Scan(&created.ID, &created.Label, &created.URL, &created.SortOrder)
		if err != nil {
			return nil, fmt.Errorf("create menu item: %w", err)
		}
		m.Items = append(m.Items, created)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("create menu: commit: %w", err)
	}
	return &m, nil
}

// UpdateMenu rewrites the menu name and replaces its full item list.
func (s *TenantStore) UpdateMenu(ctx context.Context, m *menu.Menu) error {
	pool, err := s.conn(ctx)
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("update menu: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE menus SET name = $2, updated_at = now() WHERE id = $1`, m.ID, m.Name)
	if err != nil {
		return fmt.Errorf("update menu %s: %w", m.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update menu %s: %w", m.ID, domain.ErrNotFound)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM menu_items WHERE menu_id = $1`, m.ID); err != nil {
		return fmt.Errorf("update menu %s: clear items: %w", m.ID, err)
	}
	for _, it := range m.Items {
		_, err := tx.Exec(ctx,
			`INSERT INTO menu_items (menu_id, label, url, sort_order) VALUES ($1, $2, $3, $4)`,
			m.ID, it.Label, it.URL, it.SortOrder)
		if err != nil {
			return fmt.Errorf("update menu %s: insert item: %w", m.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("update menu: commit: %w", err)
	}
	return nil
}

func (s *TenantStore) DeleteMenu(ctx context.Context, id string) error {
	pool, err := s.conn(ctx)
	if err != nil {
		return err
	}

	tag, err := pool.Exec(ctx, `DELETE FROM menus WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete menu %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete menu %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
