package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gift-exchange/internal/model"

	backend "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// redisStateRepository keeps the state as a JSON string under one key.
type redisStateRepository struct {
	client *backend.Client
	prefix string
	key    string
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// RedisOption configures the redis repository.
type RedisOption func(*redisStateRepository)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(r *redisStateRepository) {
		r.prefix = prefix
	}
}

// WithTTL sets an expiration on the stored state. Zero keeps it forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *redisStateRepository) {
		r.ttl = ttl
	}
}

// NewRedisStateRepository creates a redis-backed state repository from an
// existing client.
func NewRedisStateRepository(client *backend.Client, key string, logger zerolog.Logger, opts ...RedisOption) StateRepository {
	r := &redisStateRepository{
		client: client,
		prefix: "gift-exchange:state:",
		key:    key,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.logger = logger.With().
		Str("repository", "redis-state").
		Str("key", r.redisKey()).
		Logger()

	return r
}

func (r *redisStateRepository) redisKey() string {
	return r.prefix + r.key
}

// Load reads and decodes the state key.
func (r *redisStateRepository) Load(ctx context.Context) (*model.State, error) {
	val, err := r.client.Get(ctx, r.redisKey()).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			r.logger.Debug().Msg("no state stored yet, using defaults")
			return model.DefaultState(), nil
		}
		r.logger.Error().Err(err).Msg("failed to get state from redis")
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var state model.State
	if err := json.Unmarshal(val, &state); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode stored state")
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}

	return state.Normalize(), nil
}

// Save overwrites the state key.
func (r *redisStateRepository) Save(ctx context.Context, state *model.State) (*model.State, error) {
	saved := state.Clone()
	saved.UpdatedAt = r.now().UTC()

	data, err := json.Marshal(saved)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := r.client.Set(ctx, r.redisKey(), data, r.ttl).Err(); err != nil {
		r.logger.Error().Err(err).Msg("failed to save state to redis")
		return nil, fmt.Errorf("failed to save to redis: %w", err)
	}

	return saved, nil
}
