package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"gift-exchange/internal/config"
	"gift-exchange/internal/database"
	"gift-exchange/internal/model"
	"gift-exchange/internal/roster"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	stateTable = "shared_state"
	stateKey   = "family"
	testAPIKey = "test-api-key"
	rosterPath = "../../data/roster.yaml"
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

	// Create PostgreSQL container
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

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	// Create connection pool
	dbConfig := config.DatabaseConfig{
		Host:            "localhost",
		Port:            5432,
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()
	pool, err := database.NewPool(ctx, dbConfig, logger)
	if err != nil {
		// Try with connection string directly
		poolConfig, parseErr := pgxpool.ParseConfig(connStr)
		if parseErr != nil {
			t.Fatalf("failed to parse connection string: %v", parseErr)
		}
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			t.Fatalf("failed to create connection pool: %v", err)
		}
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.CreateSchema(ctx, pool, stateTable); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

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

// LoadFamilyRoster reads the bundled roster with mirrored exclusions.
func LoadFamilyRoster(t *testing.T) *model.Roster {
	t.Helper()

	logger := zerolog.Nop()
	raw, err := roster.NewFileLoader(logger).Load(context.Background(), rosterPath)
	if err != nil {
		t.Fatalf("failed to load roster: %v", err)
	}
	normalized, err := roster.Normalize(raw, roster.PolicyMirror, logger)
	if err != nil {
		t.Fatalf("failed to normalise roster: %v", err)
	}
	return normalized
}

// SeedAssignments stores a raw assignments blob, bypassing validation.
func SeedAssignments(t *testing.T, pool *pgxpool.Pool, assignments map[string]string) {
	t.Helper()

	ctx := context.Background()
	state := model.DefaultState()
	for giver, recipient := range assignments {
		state.Assignments[giver] = recipient
	}

	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("failed to encode state: %v", err)
	}

	_, err = pool.Exec(ctx,
		fmt.Sprintf("INSERT INTO %s (key, data) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data",
			pgx.Identifier{stateTable}.Sanitize()),
		stateKey, data,
	)
	if err != nil {
		t.Fatalf("failed to seed state: %v", err)
	}
}

// CleanupDB removes every stored state row.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", pgx.Identifier{stateTable}.Sanitize()))
	if err != nil {
		t.Logf("failed to clean table %s: %v", stateTable, err)
	}
}
