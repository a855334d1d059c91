package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Strob0t/SiteForge/internal/domain"
	"github.com/Strob0t/SiteForge/internal/domain/operator"
	"github.com/Strob0t/SiteForge/internal/port/database"
)

// ErrInvalidAPIKey is returned for any key that does not verify. The cause
// (unknown name, bad secret, malformed token) is deliberately not exposed.
var ErrInvalidAPIKey = errors.New("invalid API key")

var keyNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,62}[a-z0-9]$`)

// Auth issues and verifies operator API keys. A presented key has the form
// "name.secret": the name selects the stored bcrypt hash, the secret is
// compared against it. Embedding the name avoids comparing a presented
// secret against every stored hash.
type Auth struct {
	store      database.MasterStore
	bcryptCost int
	logger     *slog.Logger
}

// NewAuth creates the operator key service.
func NewAuth(store database.MasterStore, bcryptCost int, logger *slog.Logger) *Auth {
	return &Auth{store: store, bcryptCost: bcryptCost, logger: logger}
}

// CreateKey mints a new operator key and returns the record together with
// the full plaintext token. The token is not recoverable afterwards. An
// empty secret means one is generated.
func (a *Auth) CreateKey(ctx context.Context, name, secret string) (*operator.Key, string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !keyNameRegex.MatchString(name) {
		return nil, "", fmt.Errorf("%w: invalid key name %q: must be 3-64 lowercase alphanumeric characters, hyphens or underscores", domain.ErrValidation, name)
	}

	if secret == "" {
		var err error
		secret, err = randomSecret()
		if err != nil {
			return nil, "", fmt.Errorf("generate key secret: %w", err)
		}
	} else if len(secret) < 16 {
		return nil, "", fmt.Errorf("%w: secret must be at least 16 characters", domain.ErrValidation)
	} else if strings.Contains(secret, ".") {
		return nil, "", fmt.Errorf("%w: secret must not contain '.'", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), a.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash key secret: %w", err)
	}

	key, err := a.store.CreateOperatorKey(ctx, name, string(hash))
	if err != nil {
		return nil, "", err
	}
	return key, name + "." + secret, nil
}

// Verify checks a presented "name.secret" token and returns the matching
// key record. Last-use is recorded best effort.
func (a *Auth) Verify(ctx context.Context, token string) (*operator.Key, error) {
	name, secret, ok := strings.Cut(token, ".")
	if !ok || name == "" || secret == "" {
		return nil, ErrInvalidAPIKey
	}

	key, err := a.store.GetOperatorKeyByName(ctx, strings.ToLower(name))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrInvalidAPIKey
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(key.SecretHash), []byte(secret)) != nil {
		return nil, ErrInvalidAPIKey
	}

	if err := a.store.TouchOperatorKey(ctx, key.ID); err != nil {
		a.logger.Warn("operator key last-use update failed", "key", key.Name, "error", err)
	}
	return key, nil
}

// ListKeys returns all operator keys without their hashes exposed.
func (a *Auth) ListKeys(ctx context.Context) ([]operator.Key, error) {
	return a.store.ListOperatorKeys(ctx)
}

func randomSecret() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
