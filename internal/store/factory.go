package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NewStoreParams struct {
	Backend     string
	Key         string
	RedisClient *redis.Client
	DBPool      *pgxpool.Pool
	DiskRoot    string
}

func New(ctx context.Context, params NewStoreParams) (Store, error) {
	switch params.Backend {
	case "redis":
		if params.RedisClient == nil {
			return nil, errors.New("redis store: redis client not set")
		}
		return NewRedisStore(params.RedisClient, params.Key), nil
	case "postgres":
		if params.DBPool == nil {
			return nil, errors.New("postgres store: db pool not set")
		}
		s := NewPsqlStore(params.DBPool, params.Key)
		if err := s.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case "disk":
		return NewDiskStore(params.DiskRoot, params.Key)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q", params.Backend)
	}
}
