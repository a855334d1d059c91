package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "siteforge.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %s", cfg.Server.Port)
	}
	if cfg.Server.TenantHeader != "X-Tenant-Id" {
		t.Errorf("default tenant header = %s", cfg.Server.TenantHeader)
	}
	if cfg.Migrate.BatchSize != 25 || cfg.Migrate.MaxParallelTenants != 4 {
		t.Errorf("default migrate settings = %+v", cfg.Migrate)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
migrate:
  batch_size: 10
cache:
  l1_ttl: 45s
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %s", cfg.Server.Port)
	}
	if cfg.Migrate.BatchSize != 10 {
		t.Errorf("batch size = %d", cfg.Migrate.BatchSize)
	}
	if cfg.Cache.L1TTL != 45*time.Second {
		t.Errorf("l1 ttl = %s", cfg.Cache.L1TTL)
	}
	// Untouched values keep their defaults.
	if cfg.Migrate.MaxParallelTenants != 4 {
		t.Errorf("max parallel = %d", cfg.Migrate.MaxParallelTenants)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
`)
	t.Setenv("SITEFORGE_PORT", "7070")
	t.Setenv("SITEFORGE_MIGRATE_BATCH_SIZE", "50")
	t.Setenv("SITEFORGE_CACHE_L2_TTL", "10m")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("env should win over yaml: port = %s", cfg.Server.Port)
	}
	if cfg.Migrate.BatchSize != 50 {
		t.Errorf("batch size = %d", cfg.Migrate.BatchSize)
	}
	if cfg.Cache.L2TTL != 10*time.Minute {
		t.Errorf("l2 ttl = %s", cfg.Cache.L2TTL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"ttl below floor", "cache:\n  l1_ttl: 1s\n", "l1_ttl"},
		{"zero batch size", "migrate:\n  batch_size: 0\n", "batch_size"},
		{"zero parallelism", "migrate:\n  max_parallel_tenants: 0\n", "max_parallel"},
		{"template without placeholder", "postgres:\n  tenant_dsn_template: postgres://localhost/fixed\n", "{database}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, tt.yaml))
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	if _, err := LoadFrom(writeConfig(t, "server: [")); err == nil {
		t.Fatal("expected a parse error")
	}
}
