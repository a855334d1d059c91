package postgres

import (
	"context"
	"fmt"

	"github.com/Strob0t/SiteForge/internal/domain"
	"github.com/Strob0t/SiteForge/internal/domain/contact"
)

func (s *TenantStore) ListMessages(ctx context.Context) ([]contact.Message, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx,
		`SELECT id, name, email, subject, body, read, created_at
		 FROM contact_messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []contact.Message
	for rows.Next() {
		var m contact.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *TenantStore) CreateMessage(ctx context.Context, req contact.CreateRequest) (*contact.Message, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var m contact.Message
	err = pool.QueryRow(ctx,
		`INSERT INTO contact_messages (name, email, subject, body)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, email, subject, body, read, created_at`,
		req.Name, req.Email, req.Subject, req.Body).
		Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Read, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return &m, nil
}

func (s *TenantStore) MarkMessageRead(ctx context.Context, id string) error {
	pool, err := s.conn(ctx)
	if err != nil {
		return err
	}

	tag, err := pool.Exec(ctx,
		`UPDATE contact_messages SET read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark message read %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("mark message read %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
