package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/Strob0t/SiteForge/internal/domain"
)

func TestCreateKeyAndVerify(t *testing.T) {
	store := &mockStore{}
	auth := NewAuth(store, bcrypt.MinCost, testLogger())
	ctx := context.Background()

	key, token, err := auth.CreateKey(ctx, "deploy-bot", "")
	if err != nil {
		t.Fatalf("CreateKey: %v", err)
	}
	if !strings.HasPrefix(token, "deploy-bot.") {
		t.Errorf("token should embed the key name: %s", token)
	}
	if key.SecretHash == "" || strings.Contains(token, key.SecretHash) {
		t.Error("token must carry the plaintext secret, not the hash")
	}

	verified, err := auth.Verify(ctx, token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if verified.ID != key.ID {
		t.Errorf("verified wrong key: %s", verified.ID)
	}
	if verified.LastUsedAt == nil {
		// Touch happens through the store; re-read to observe it.
		stored, _ := store.GetOperatorKeyByName(ctx, "deploy-bot")
		if stored.LastUsedAt == nil {
			t.Error("last-use timestamp not recorded")
		}
	}
}

func TestCreateKeyWithProvidedSecret(t *testing.T) {
	auth := NewAuth(&mockStore{}, bcrypt.MinCost, testLogger())
	ctx := context.Background()

	_, token, err := auth.CreateKey(ctx, "cikey", "a-long-enough-secret")
	if err != nil {
		t.Fatalf("CreateKey: %v", err)
	}
	if token != "cikey.a-long-enough-secret" {
		t.Errorf("unexpected token: %s", token)
	}

	if _, err := auth.Verify(ctx, token); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestCreateKeyValidation(t *testing.T) {
	auth := NewAuth(&mockStore{}, bcrypt.MinCost, testLogger())
	ctx := context.Background()

	tests := []struct {
		name    string
		keyName string
		secret  string
	}{
		{"empty name", "", ""},
		{"name with dot", "a.b", ""},
		{"short secret", "cikey", "short"},
		{"secret with dot", "cikey", "contains.a.dot!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := auth.CreateKey(ctx, tt.keyName, tt.secret); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	store := &mockStore{}
	auth := NewAuth(store, bcrypt.MinCost, testLogger())
	ctx := context.Background()

	_, token, err := auth.CreateKey(ctx, "deploy-bot", "")
	if err != nil {
		t.Fatalf("CreateKey: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"no separator", "deploybot"},
		{"unknown name", "ghost.whatever-secret"},
		{"wrong secret", "deploy-bot.wrong-secret"},
		{"name only", "deploy-bot."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := auth.Verify(ctx, tt.token); !errors.Is(err, ErrInvalidAPIKey) {
				t.Errorf("expected ErrInvalidAPIKey, got %v", err)
			}
		})
	}

	// The real token still works afterwards.
	if _, err := auth.Verify(ctx, token); err != nil {
		t.Errorf("valid token rejected: %v", err)
	}
}

func TestCreateKeyDuplicateName(t *testing.T) {
	auth := NewAuth(&mockStore{}, bcrypt.MinCost, testLogger())
	ctx := context.Background()

	if _, _, err := auth.CreateKey(ctx, "deploy-bot", ""); err != nil {
		t.Fatalf("CreateKey: %v", err)
	}
	if _, _, err := auth.CreateKey(ctx, "deploy-bot", ""); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}
