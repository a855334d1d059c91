package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "siteforge.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "SITEFORGE_PORT")
	setString(&cfg.Server.CORSOrigin, "SITEFORGE_CORS_ORIGIN")
	setString(&cfg.Server.TenantHeader, "SITEFORGE_TENANT_HEADER")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setString(&cfg.Postgres.TenantDSNTemplate, "SITEFORGE_TENANT_DSN_TEMPLATE")
	setInt32(&cfg.Postgres.MaxConns, "SITEFORGE_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "SITEFORGE_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "SITEFORGE_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "SITEFORGE_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "SITEFORGE_PG_HEALTH_CHECK")
	setInt32(&cfg.Postgres.TenantMaxConns, "SITEFORGE_PG_TENANT_MAX_CONNS")
	setString(&cfg.NATS.URL, "NATS_URL")
	setInt64(&cfg.Cache.L1MaxSizeMB, "SITEFORGE_CACHE_L1_SIZE_MB")
	setDuration(&cfg.Cache.L1TTL, "SITEFORGE_CACHE_L1_TTL")
	setString(&cfg.Cache.L2Bucket, "SITEFORGE_CACHE_L2_BUCKET")
	setDuration(&cfg.Cache.L2TTL, "SITEFORGE_CACHE_L2_TTL")
	setInt(&cfg.Migrate.BatchSize, "SITEFORGE_MIGRATE_BATCH_SIZE")
	setInt(&cfg.Migrate.MaxParallelTenants, "SITEFORGE_MIGRATE_MAX_PARALLEL")
	setString(&cfg.Logging.Level, "SITEFORGE_LOG_LEVEL")
	setString(&cfg.Logging.Service, "SITEFORGE_LOG_SERVICE")
	setString(&cfg.Telemetry.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setInt(&cfg.Breaker.MaxFailures, "SITEFORGE_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "SITEFORGE_BREAKER_TIMEOUT")
	setFloat64(&cfg.Rate.RequestsPerSecond, "SITEFORGE_RATE_RPS")
	setInt(&cfg.Rate.Burst, "SITEFORGE_RATE_BURST")
	setInt(&cfg.Auth.BcryptCost, "SITEFORGE_BCRYPT_COST")
}

// validate checks that required fields are set and enforces floors.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Server.TenantHeader == "" {
		return errors.New("server.tenant_header is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if !strings.Contains(cfg.Postgres.TenantDSNTemplate, "{database}") {
		return errors.New("postgres.tenant_dsn_template must contain a {database} placeholder")
	}
	if cfg.NATS.URL == "" {
		return errors.New("nats.url is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.Cache.L1TTL < minCacheTTL {
		return fmt.Errorf("cache.l1_ttl must be >= %s", minCacheTTL)
	}
	if cfg.Cache.L2TTL < minCacheTTL {
		return fmt.Errorf("cache.l2_ttl must be >= %s", minCacheTTL)
	}
	if cfg.Migrate.BatchSize < 1 {
		return errors.New("migrate.batch_size must be >= 1")
	}
	if cfg.Migrate.MaxParallelTenants < 1 {
		return errors.New("migrate.max_parallel_tenants must be >= 1")
	}
	if cfg.Rate.Burst < 1 {
		return errors.New("rate.burst must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
