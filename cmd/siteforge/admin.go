package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"syscall"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/Strob0t/SiteForge/internal/adapter/postgres"
	"github.com/Strob0t/SiteForge/internal/config"
	"github.com/Strob0t/SiteForge/internal/domain/tenant"
	"github.com/Strob0t/SiteForge/internal/logger"
	"github.com/Strob0t/SiteForge/internal/service"
)

// runAdmin dispatches admin subcommands (create-key, onboard, migrate,
// list-tenants).
func runAdmin(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" {
		printAdminHelp()
		return nil
	}

	switch args[0] {
	case "create-key":
		return runAdminCreateKey(args[1:])
	case "onboard":
		return runAdminOnboard(args[1:])
	case "migrate":
		return runAdminMigrate(args[1:])
	case "list-tenants":
		return runAdminListTenants(args[1:])
	default:
		printAdminHelp()
		return fmt.Errorf("unknown admin command: %s", args[0])
	}
}

func printAdminHelp() {
	fmt.Fprintf(os.Stderr, `Usage: siteforge admin <command> [options]

Commands:
  create-key     Create an operator API key
  onboard        Onboard a new tenant
  migrate        Run the fleet migration sweep
  list-tenants   List all tenants
  help           Show this help message

Examples:
  siteforge admin create-key --name deploy-bot
  siteforge admin create-key --name deploy-bot --prompt-secret
  siteforge admin onboard --identifier acme --name "Acme Corp" --database tenant_acme
  siteforge admin migrate
  siteforge admin list-tenants
`)
}

type adminDeps struct {
	cfg     config.Config
	store   *postgres.Store
	cleanup func()
}

func loadAdminDeps() (*adminDeps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &adminDeps{
		cfg:     *cfg,
		store:   postgres.NewStore(pool),
		cleanup: func() { pool.Close() },
	}, nil
}

func runAdminCreateKey(args []string) error {
	fs := flag.NewFlagSet("create-key", flag.ContinueOnError)
	name := fs.String("name", "", "key name (required)")
	promptSecret := fs.Bool("prompt-secret", false, "prompt for a secret instead of generating one")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	var secret string
	if *promptSecret {
		var err error
		secret, err = promptHidden("Secret: ")
		if err != nil {
			return fmt.Errorf("read secret: %w", err)
		}
		confirm, err := promptHidden("Confirm secret: ")
		if err != nil {
			return fmt.Errorf("read secret: %w", err)
		}
		if secret != confirm {
			return fmt.Errorf("secrets do not match")
		}
	}

	deps, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer deps.cleanup()

	auth := service.NewAuth(deps.store, deps.cfg.Auth.BcryptCost, logger.New(deps.cfg.Logging))

	ctx := context.Background()
	key, token, err := auth.CreateKey(ctx, *name, secret)
	if err != nil {
		return fmt.Errorf("create key: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Created key %q (%s)\n", key.Name, key.ID)
	fmt.Fprintf(os.Stderr, "Token (shown once): %s\n", token)
	return nil
}

func runAdminOnboard(args []string) error {
	fs := flag.NewFlagSet("onboard", flag.ContinueOnError)
	identifier := fs.String("identifier", "", "tenant identifier (required)")
	name := fs.String("name", "", "tenant display name (required)")
	database := fs.String("database", "", "tenant database name (required)")
	features := fs.String("features", "", "feature settings JSON document")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *identifier == "" {
		return fmt.Errorf("--identifier is required")
	}
	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	if *database == "" {
		return fmt.Errorf("--database is required")
	}

	deps, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer deps.cleanup()

	log := logger.New(deps.cfg.Logging)

	connStr, err := tenant.NewConnStringBuilder(deps.cfg.Postgres.TenantDSNTemplate)
	if err != nil {
		return fmt.Errorf("tenant dsn template: %w", err)
	}

	provisioner := postgres.NewProvisioner(deps.cfg.Postgres.DSN)
	cache := service.NewTenantCache(noopCache{}, 0)
	onboarding := service.NewOnboarding(deps.store, provisioner, connStr, cache, nil, nil, log)

	ctx := context.Background()
	result, err := onboarding.Onboard(ctx, tenant.OnboardRequest{
		Identifier:      *identifier,
		Name:            *name,
		DatabaseName:    *database,
		FeatureSettings: *features,
	})
	if err != nil {
		return fmt.Errorf("onboard: %w", err)
	}

	if result.Existing {
		fmt.Fprintf(os.Stderr, "Tenant %q already exists (%s, active=%t)\n", *identifier, result.TenantID, result.Active)
	} else {
		fmt.Fprintf(os.Stderr, "Tenant %q onboarded (%s)\n", *identifier, result.TenantID)
	}
	return nil
}

func runAdminMigrate(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	masterOnly := fs.Bool("master-only", false, "apply master migrations and skip the tenant sweep")
	if err := fs.Parse(args); err != nil {
		return err
	}

	deps, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer deps.cleanup()

	log := logger.New(deps.cfg.Logging)
	migrator := postgres.NewMigrator(deps.cfg.Postgres.DSN)
	migration := service.NewMigration(deps.store, migrator,
		deps.cfg.Migrate.BatchSize, deps.cfg.Migrate.MaxParallelTenants, nil, log)

	ctx := context.Background()
	if err := migration.MigrateMaster(ctx); err != nil {
		return fmt.Errorf("master migrations: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Master migrations applied")

	if *masterOnly {
		return nil
	}

	report, err := migration.SweepTenants(ctx)
	if report != nil {
		fmt.Fprintf(os.Stderr, "Sweep: %d/%d tenants migrated in %d batches (%s)\n",
			report.Migrated, report.Total, report.Batches, report.Duration)
	}
	return err
}

func runAdminListTenants(args []string) error {
	fs := flag.NewFlagSet("list-tenants", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	deps, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer deps.cleanup()

	ctx := context.Background()
	tenants, err := deps.store.ListTenants(ctx)
	if err != nil {
		return fmt.Errorf("list tenants: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tIDENTIFIER\tNAME\tDATABASE\tACTIVE\tDELETED")
	for _, t := range tenants {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%t\n",
			t.ID, t.Identifier, t.Name, t.DatabaseName, t.Active, t.Deleted())
	}
	return w.Flush()
}

// promptHidden reads a line from the terminal without echoing it.
func promptHidden(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// noopCache satisfies the cache port for one-shot CLI runs where a cache
// would never be read back.
type noopCache struct{}

func (noopCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (noopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (noopCache) Delete(context.Context, string) error                     { return nil }
