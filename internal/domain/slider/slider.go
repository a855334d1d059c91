// Package slider defines the homepage slider domain model.
package slider

import "time"

// Slide is one homepage slider entry, ordered by SortOrder ascending.
type Slide struct {
	ID        string    `json:"id"`
	ImageURL  string    `json:"image_url"`
	Caption   string    `json:"caption"`
	LinkURL   string    `json:"link_url,omitempty"`
	SortOrder int       `json:"sort_order"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRequest holds the fields required to create a slide.
type CreateRequest struct {
	ImageURL  string `json:"image_url"`
	Caption   string `json:"caption"`
	LinkURL   string `json:"link_url,omitempty"`
	SortOrder int    `json:"sort_order"`
	Active    bool   `json:"active"`
}

// UpdateRequest holds the fields that can be updated on a slide.
type UpdateRequest struct {
	ImageURL  string  `json:"image_url,omitempty"`
	Caption   *string `json:"caption,omitempty"`
	LinkURL   *string `json:"link_url,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}
