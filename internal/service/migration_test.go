package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Strob0t/SiteForge/internal/domain/tenant"
)

var _ MigrationRunner = (*mockRunner)(nil)

// mockRunner counts concurrent tenant migrations and can fail chosen
// connection strings.
type mockRunner struct {
	mu       sync.Mutex
	ran      []string
	failFor  map[string]error
	inFlight atomic.Int64
	peak     atomic.Int64

	masterErr error
}

func (r *mockRunner) MigrateMaster(_ context.Context) error {
	return r.masterErr
}

func (r *mockRunner) MigrateTenant(_ context.Context, connString string) error {
	cur := r.inFlight.Add(1)
	for {
		peak := r.peak.Load()
		if cur <= peak || r.peak.CompareAndSwap(peak, cur) {
			break
		}
	}
	defer r.inFlight.Add(-1)

	r.mu.Lock()
	r.ran = append(r.ran, connString)
	err := r.failFor[connString]
	r.mu.Unlock()
	return err
}

func seedFleet(store *mockStore, n int) {
	for i := range n {
		store.tenants = append(store.tenants, tenant.Tenant{
			ID:               fmt.Sprintf("t-%d", i),
			Identifier:       fmt.Sprintf("tenant%d", i),
			ConnectionString: fmt.Sprintf("conn-%d", i),
			Active:           true,
		})
	}
}

func TestSweepTenantsMigratesWholeFleet(t *testing.T) {
	store := &mockStore{}
	seedFleet(store, 60)
	runner := &mockRunner{}
	m := NewMigration(store, runner, 25, 4, nil, testLogger())

	report, err := m.SweepTenants(context.Background())
	if err != nil {
		t.Fatalf("SweepTenants: %v", err)
	}

	if report.Total != 60 || report.Migrated != 60 || report.Failed != 0 {
		t.Errorf("report = %+v", report)
	}
	if report.Batches != 3 {
		t.Errorf("60 tenants with batch size 25 should take 3 batches, got %d", report.Batches)
	}
	if len(runner.ran) != 60 {
		t.Errorf("runner saw %d migrations", len(runner.ran))
	}
	if peak := runner.peak.Load(); peak > 4 {
		t.Errorf("concurrency cap exceeded: peak %d", peak)
	}
}

func TestSweepTenantsSkipsInactive(t *testing.T) {
	store := &mockStore{}
	seedFleet(store, 3)
	store.tenants[1].Active = false
	runner := &mockRunner{}
	m := NewMigration(store, runner, 25, 4, nil, testLogger())

	report, err := m.SweepTenants(context.Background())
	if err != nil {
		t.Fatalf("SweepTenants: %v", err)
	}
	if report.Total != 2 {
		t.Errorf("inactive tenants must not be swept, total = %d", report.Total)
	}
}

func TestSweepTenantsContinuesPastFailures(t *testing.T) {
	store := &mockStore{}
	seedFleet(store, 10)
	runner := &mockRunner{failFor: map[string]error{
		"conn-2": errors.New("timeout"),
		"conn-7": errors.New("syntax error"),
	}}
	m := NewMigration(store, runner, 4, 2, nil, testLogger())

	report, err := m.SweepTenants(context.Background())
	if err == nil {
		t.Fatal("expected a joined error")
	}
	if report.Migrated != 8 || report.Failed != 2 {
		t.Errorf("report = %+v", report)
	}
	// Every tenant was still attempted.
	if len(runner.ran) != 10 {
		t.Errorf("runner saw %d migrations, want 10", len(runner.ran))
	}
	for _, id := range []string{"tenant2", "tenant7"} {
		if !strings.Contains(err.Error(), id) {
			t.Errorf("error should name %s: %v", id, err)
		}
	}
}

func TestSweepTenantsEmptyFleet(t *testing.T) {
	m := NewMigration(&mockStore{}, &mockRunner{}, 25, 4, nil, testLogger())

	report, err := m.SweepTenants(context.Background())
	if err != nil {
		t.Fatalf("SweepTenants: %v", err)
	}
	if report.Total != 0 || report.Batches != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestSweepTenantsListFailure(t *testing.T) {
	store := &mockStore{listActiveErr: errors.New("registry down")}
	m := NewMigration(store, &mockRunner{}, 25, 4, nil, testLogger())

	if _, err := m.SweepTenants(context.Background()); err == nil {
		t.Fatal("expected an error when the registry is unreachable")
	}
}

func TestBatchTenants(t *testing.T) {
	tests := []struct {
		name  string
		total int
		size  int
		want  []int
	}{
		{"even split", 50, 25, []int{25, 25}},
		{"remainder", 60, 25, []int{25, 25, 10}},
		{"single partial batch", 10, 25, []int{10}},
		{"empty", 0, 25, nil},
		{"size one", 3, 1, []int{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenants := make([]tenant.Tenant, tt.total)
			batches := batchTenants(tenants, tt.size)
			if len(batches) != len(tt.want) {
				t.Fatalf("got %d batches, want %d", len(batches), len(tt.want))
			}
			for i, b := range batches {
				if len(b) != tt.want[i] {
					t.Errorf("batch %d has %d tenants, want %d", i, len(b), tt.want[i])
				}
			}
		})
	}
}
