package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Strob0t/SiteForge/internal/domain"
	"github.com/Strob0t/SiteForge/internal/domain/slider"
)

const slideColumns = `id, image_url, caption, link_url, sort_order, active, created_at, updated_at`

func scanSlide(row rowScanner) (slider.Slide, error) {
	var sl slider.Slide
	err := row.Scan(&sl.ID, &sl.ImageURL, &sl.Caption, &sl.LinkURL, &sl.SortOrder,
		&sl.Active, &sl.CreatedAt, &sl.UpdatedAt)
	return sl, err
}

func (s *TenantStore) ListSlides(ctx context.Context) ([]slider.Slide, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx,
		`SELECT `+slideColumns+` FROM slides ORDER BY sort_order ASC`)
	if err != nil {
		return nil, fmt.Errorf("list slides: %w", err)
	}
	defer rows.Close()

	var slides []slider.Slide
	for rows.Next() {
		sl, err := scanSlide(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slide: %w", err)
		}
		slides = append(slides, sl)
	}
	return slides, rows.Err()
}

func (s *TenantStore) GetSlide(ctx context.Context, id string) (*slider.Slide, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	sl, err := scanSlide(pool.QueryRow(ctx,
		`SELECT `+slideColumns+` FROM slides WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get slide %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get slide %s: %w", id, err)
	}
	return &sl, nil
}

func (s *TenantStore) CreateSlide(ctx context.Context, req slider.CreateRequest) (*slider.Slide, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	sl, err := scanSlide(pool.QueryRow(ctx,
		`INSERT INTO slides (image_url, caption, link_url, sort_order, active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+slideColumns,
		req.ImageURL, req.Caption, req.LinkURL, req.SortOrder, req.Active))
	if err != nil {
		return nil, fmt.Errorf("create slide: %w", err)
	}
	return &sl, nil
}

func (s *TenantStore) UpdateSlide(ctx context.Context, sl *slider.Slide) error {
	pool, err := s.conn(ctx)
	if err != nil {
		return err
	}

	tag, err := pool.Exec(ctx,
		`UPDATE slides SET image_url = $2, caption = $3, link_url = $4,
		   sort_order = $5, active = $6, updated_at = now()
		 WHERE id = $1`,
		sl.ID, sl.ImageURL, sl.Caption, sl.LinkURL, sl.SortOrder, sl.Active)
	if err != nil {
		return fmt.Errorf("update slide %s: %w", sl.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update slide %s: %w", sl.ID, domain.ErrNotFound)
	}
	return nil
}

func (s *TenantStore) DeleteSlide(ctx context.Context, id string) error {
	pool, err := s.conn(ctx)
	if err != nil {
		return err
	}

	tag, err := pool.Exec(ctx, `DELETE FROM slides WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete slide %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete slide %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
