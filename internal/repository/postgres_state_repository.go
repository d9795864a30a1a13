package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gift-exchange/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// postgresStateRepository keeps the state as a JSONB document in a single row.
type postgresStateRepository struct {
	pool   *pgxpool.Pool
	table  string
	key    string
	logger zerolog.Logger
}

// NewPostgresStateRepository creates a PostgreSQL-backed state repository.
// The table must already exist; see database.CreateSchema.
func NewPostgresStateRepository(pool *pgxpool.Pool, table, key string, logger zerolog.Logger) StateRepository {
	return &postgresStateRepository{
		pool:  pool,
		table: pgx.Identifier{table}.Sanitize(),
		key:   key,
		logger: logger.With().
			Str("repository", "postgres-state").
			Str("key", key).
			Logger(),
	}
}

// Load retrieves the state row.
func (r *postgresStateRepository) Load(ctx context.Context) (*model.State, error) {
	query := fmt.Sprintf(`
		SELECT data, updated_at
		FROM %s
		WHERE key = $1
	`, r.table)

	var (
		data  []byte
		state model.State
	)
	err := r.pool.QueryRow(ctx, query, r.key).Scan(&data, &state.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Msg("no state stored yet, using defaults")
			return model.DefaultState(), nil
		}
		r.logger.Error().Err(err).Msg("failed to query state")
		return nil, fmt.Errorf("failed to query state: %w", err)
	}

	updatedAt := state.UpdatedAt
	if err := json.Unmarshal(data, &state); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode stored state")
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	state.UpdatedAt = updatedAt

	return state.Normalize(), nil
}

// Save upserts the state row.
func (r *postgresStateRepository) Save(ctx context.Context, state *model.State) (*model.State, error) {
	saved := state.Clone()

	data, err := json.Marshal(saved)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (key, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`, r.table)

	if err := r.pool.QueryRow(ctx, query, r.key, data).Scan(&saved.UpdatedAt); err != nil {
		r.logger.Error().Err(err).Msg("failed to save state")
		return nil, fmt.Errorf("failed to save state: %w", err)
	}

	r.logger.Debug().
		Int("assignments", len(saved.Assignments)).
		Int("messages", len(saved.Messages)).
		Msg("state saved")

	return saved, nil
}
