// Package product defines the catalog product domain model.
package product

import "time"

// Product is one catalog item stored in a tenant's own database.
// Prices are integer cents to avoid floating point money.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Currency    string    `json:"currency"`
	Stock       int       `json:"stock"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateRequest holds the fields required to create a product.
type CreateRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Currency    string `json:"currency"`
	Stock       int    `json:"stock"`
	Published   bool   `json:"published"`
}

// UpdateRequest holds the fields that can be updated on a product.
type UpdateRequest struct {
	Name        string  `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	PriceCents  *int64  `json:"price_cents,omitempty"`
	Currency    string  `json:"currency,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
	Published   *bool   `json:"published,omitempty"`
}
