// Package menu defines the navigation menu domain model.
package menu

import "time"

// Menu is a named navigation menu with ordered items.
type Menu struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is one entry of a menu, ordered by SortOrder ascending.
type Item struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	URL       string `json:"url"`
	SortOrder int    `json:"sort_order"`
}

// CreateRequest holds the fields required to create a menu.
type CreateRequest struct {
	Name  string `json:"name"`
	Items []Item `json:"items,omitempty"`
}

// UpdateRequest replaces a menu's name and/or full item list.
type UpdateRequest struct {
	Name  string  `json:"name,omitempty"`
	Items *[]Item `json:"items,omitempty"`
}
