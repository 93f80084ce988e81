//go:build integration

// Package containers manages shared testcontainers for integration suites.
// A single postgres container is started lazily and reused across suites;
// Ryuk reaps it when the test process exits.
package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Schema is applied once when the shared container starts. Kept in one place
// so integration suites and the real migrations cannot drift silently.
const Schema = `
CREATE TABLE IF NOT EXISTS document_source (
    id UUID PRIMARY KEY,
    document_control_no TEXT NOT NULL,
    route_no TEXT NOT NULL,
    document_type TEXT NOT NULL,
    source_type TEXT NOT NULL,
    internal_originating_office TEXT NOT NULL DEFAULT '',
    internal_originating_employee TEXT NOT NULL DEFAULT '',
    external_originating_office TEXT NOT NULL DEFAULT '',
    external_originating_employee TEXT NOT NULL DEFAULT '',
    subject TEXT NOT NULL,
    remarks TEXT NOT NULL,
    no_of_pages INT NOT NULL DEFAULT 0,
    attached_document_filename TEXT NOT NULL DEFAULT '',
    attachment_list TEXT NOT NULL DEFAULT '',
    reference_document_control_no_1 TEXT NOT NULL DEFAULT '',
    reference_document_control_no_2 TEXT NOT NULL DEFAULT '',
    reference_document_control_no_3 TEXT NOT NULL DEFAULT '',
    reference_document_control_no_4 TEXT NOT NULL DEFAULT '',
    reference_document_control_no_5 TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS document_destination (
    id UUID PRIMARY KEY,
    document_source_id UUID NOT NULL REFERENCES document_source(id) ON DELETE CASCADE,
    sequence_no INT NOT NULL CHECK (sequence_no > 0),
    destination_office TEXT NOT NULL,
    employee_action_officer TEXT NOT NULL DEFAULT '',
    action_required TEXT NOT NULL,
    required_days INT,
    released_at TIMESTAMPTZ,
    required_at TIMESTAMPTZ,
    received_at TIMESTAMPTZ,
    acted_upon_at TIMESTAMPTZ,
    remarks TEXT NOT NULL DEFAULT '',
    action_taken TEXT NOT NULL DEFAULT '',
    remarks_on_action_taken TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    CONSTRAINT document_destination_sequence_uniq UNIQUE (document_source_id, sequence_no)
);

CREATE TABLE IF NOT EXISTS document_action_required_days (
    id UUID PRIMARY KEY,
    document_type TEXT NOT NULL,
    action_required TEXT NOT NULL,
    required_days INT NOT NULL,
    CONSTRAINT document_action_required_days_uniq UNIQUE (document_type, action_required)
);
`

// PostgresContainer wraps the shared postgres instance and its sql.DB handle.
type PostgresContainer struct {
	Container testcontainers.Container
	DB        *sql.DB
	URL       string
}

// TruncateTables truncates the given tables, cascading to dependents.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	stmt := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", "))
	_, err := p.DB.ExecContext(ctx, stmt)
	return err
}

// Manager hands out the shared container, starting it on first use.
type Manager struct {
	mu       sync.Mutex
	postgres *PostgresContainer
}

var manager = &Manager{}

// GetManager returns the process-wide container manager.
func GetManager() *Manager { return manager }

// GetPostgres returns the shared postgres container, starting it if needed.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postgres != nil {
		return m.postgres
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("doctrack_test"),
		tcpostgres.WithUsername("doctrack"),
		tcpostgres.WithPassword("doctrack"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("open postgres: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("ping postgres: %v", err)
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("apply schema: %v", err)
	}

	m.postgres = &PostgresContainer{Container: container, DB: db, URL: url}
	return m.postgres
}
