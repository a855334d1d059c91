package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Strob0t/SiteForge/internal/domain"
)

func TestFeaturesGetFromDocument(t *testing.T) {
	store := &mockStore{}
	seedActiveTenant(store)
	store.tenants[0].FeatureSettings = []byte(`{"checkout":"on","max_products":100,"beta":true}`)
	cache := newMockCache()
	f := NewFeatures(store, NewFeatureCache(cache, time.Minute), testLogger())
	ctx := context.Background()

	tests := []struct {
		key  string
		want string
	}{
		{"checkout", "on"},
		{"max_products", "100"},
		{"beta", "true"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := f.Get(ctx, "t-1", tt.key)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got != tt.want {
				t.Errorf("Get(%s) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestFeaturesGetCachesValue(t *testing.T) {
	store := &mockStore{}
	seedActiveTenant(store)
	store.tenants[0].FeatureSettings = []byte(`{"checkout":"on"}`)
	cache := newMockCache()
	f := NewFeatures(store, NewFeatureCache(cache, time.Minute), testLogger())
	ctx := context.Background()

	if _, err := f.Get(ctx, "t-1", "checkout"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	// Flip the document; the cached value must still be served.
	store.tenants[0].FeatureSettings = []byte(`{"checkout":"off"}`)
	got, err := f.Get(ctx, "t-1", "checkout")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "on" {
		t.Errorf("expected cached value, got %q", got)
	}
}

func TestFeaturesUnknownKey(t *testing.T) {
	store := &mockStore{}
	seedActiveTenant(store)
	f := NewFeatures(store, NewFeatureCache(newMockCache(), time.Minute), testLogger())

	_, err := f.Get(context.Background(), "t-1", "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFeaturesEmptyKey(t *testing.T) {
	f := NewFeatures(&mockStore{}, NewFeatureCache(newMockCache(), time.Minute), testLogger())

	_, err := f.Get(context.Background(), "t-1", "")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestFeaturesAll(t *testing.T) {
	store := &mockStore{}
	seedActiveTenant(store)
	store.tenants[0].FeatureSettings = []byte(`{"checkout":"on","beta":false}`)
	f := NewFeatures(store, NewFeatureCache(newMockCache(), time.Minute), testLogger())

	all, err := f.All(context.Background(), "t-1")
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 || all["checkout"] != "on" || all["beta"] != "false" {
		t.Errorf("unexpected document: %v", all)
	}
}
