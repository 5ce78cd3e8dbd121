package snapshotcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fastprodman/finrecon/internal/config"
	"github.com/fastprodman/finrecon/internal/services/recon"
)

var _ Cache = (*Redis)(nil)

// Redis shares last good snapshots between service replicas.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects and pings the server. A zero TTL keeps entries until
// they are overwritten.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            cfg.Addr,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        10,
		MinIdleConns:    2,
		PoolTimeout:     4 * time.Second,
		ConnMaxIdleTime: 5 * time.Minute,
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := client.Ping(pingCtx).Err()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Redis{client: client, ttl: cfg.TTL}, nil
}

func Key(key string) string {
	return "recon:snapshot:v1:" + key
}

func (r *Redis) Get(ctx context.Context, key string) (recon.Snapshot, error) {
	data, err := r.client.Get(ctx, Key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return recon.Snapshot{}, ErrNotFound
		}

		return recon.Snapshot{}, fmt.Errorf("redis get: %w", err)
	}

	var snap recon.Snapshot

	err = json.Unmarshal(data, &snap)
	if err != nil {
		return recon.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}

	return snap, nil
}

func (r *Redis) Put(ctx context.Context, key string, snap recon.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	err = r.client.Set(ctx, Key(key), data, r.ttl).Err()
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
