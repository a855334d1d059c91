package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Strob0t/SiteForge/internal/domain"
	"github.com/Strob0t/SiteForge/internal/domain/operator"
)

func scanOperatorKey(row rowScanner) (operator.Key, error) {
	var k operator.Key
	err := row.Scan(&k.ID, &k.Name, &k.SecretHash, &k.CreatedAt, &k.LastUsedAt)
	return k, err
}

func (s *Store) CreateOperatorKey(ctx context.Context, name, secretHash string) (*operator.Key, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO operator_keys (name, secret_hash) VALUES ($1, $2)
		 RETURNING id, name, secret_hash, created_at, last_used_at`,
		name, secretHash)

	k, err := scanOperatorKey(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create operator key %s: %w", name, domain.ErrConflict)
		}
		return nil, fmt.Errorf("create operator key %s: %w", name, err)
	}
	return &k, nil
}

func (s *Store) GetOperatorKeyByName(ctx context.Context, name string) (*operator.Key, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, secret_hash, created_at, last_used_at
		 FROM operator_keys WHERE name = $1`, name)

	k, err := scanOperatorKey(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get operator key %s: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get operator key %s: %w", name, err)
	}
	return &k, nil
}

func (s *Store) TouchOperatorKey(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE operator_keys SET last_used_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch operator key %s: %w", id, err)
	}
	return nil
}

func (s *Store) ListOperatorKeys(ctx context.Context) ([]operator.Key, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, secret_hash, created_at, last_used_at
		 FROM operator_keys ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list operator keys: %w", err)
	}
	defer rows.Close()

	var keys []operator.Key
	for rows.Next() {
		k, err := scanOperatorKey(rows)
		if err != nil {
			return nil, fmt.Errorf("scan operator key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
