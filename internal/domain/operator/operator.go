// Package operator defines platform-operator API keys used to guard the
// tenant administration surface. Operators are not tenant users; they live
// in the master database.
package operator

import "time"

// Key is one named operator API key. Secret holds the bcrypt hash of the
// key secret; the plaintext is shown once at creation and never stored.
type Key struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	SecretHash string     `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}
