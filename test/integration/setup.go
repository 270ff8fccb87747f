package integration

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema applies the same schema as migrations/schema.sql.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			image           TEXT NOT NULL DEFAULT '',
			price           DOUBLE PRECISION NOT NULL,
			category        TEXT NOT NULL,
			is_out_of_stock BOOLEAN NOT NULL DEFAULT FALSE,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS orders (
			id              UUID PRIMARY KEY,
			order_id        TEXT NOT NULL UNIQUE,
			first_name      TEXT NOT NULL DEFAULT '',
			last_name       TEXT NOT NULL DEFAULT '',
			email           TEXT NOT NULL DEFAULT '',
			phone           TEXT NOT NULL DEFAULT '',
			address         TEXT NOT NULL DEFAULT '',
			city            TEXT NOT NULL DEFAULT '',
			note            TEXT NOT NULL DEFAULT '',
			cart_items      JSONB NOT NULL,
			total           DOUBLE PRECISION NOT NULL DEFAULT 0,
			shipping_charge DOUBLE PRECISION NOT NULL DEFAULT 0,
			payment_method  TEXT NOT NULL DEFAULT '',
			payment_details TEXT NOT NULL DEFAULT '',
			date            TEXT NOT NULL,
			created_at      TIMESTAMPTZ,
			status          TEXT NOT NULL DEFAULT 'Pending'
				CHECK (status IN ('Pending', 'Confirmed', 'Shipped', 'Delivered', 'Cancelled'))
		);
	`

	if _, err := pool.Exec(context.Background(), schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}
