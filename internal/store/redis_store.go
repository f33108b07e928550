package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/mapty/internal/telemetry/tracing"
	"github.com/2beens/mapty/internal/workout"
)

var _ Store = (*RedisStore)(nil)

type RedisStore struct {
	key         string
	redisClient redis.Cmdable
}

func NewRedisStore(redisClient redis.Cmdable, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{
		key:         key,
		redisClient: redisClient,
	}
}

func (s *RedisStore) Save(ctx context.Context, records []workout.Record) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.redis.save")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.Int("workouts.count", len(records)))

	data, err := encode(records)
	if err != nil {
		return err
	}

	if err := s.redisClient.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set [%s]: %w", s.key, err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (_ []workout.Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.redis.load")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	data, err := s.redisClient.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []workout.Record{}, nil
		}
		return nil, fmt.Errorf("redis get [%s]: %w", s.key, err)
	}

	return decode(data)
}

func (s *RedisStore) Clear(ctx context.Context) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.redis.clear")
	defer span.End()

	if err := s.redisClient.Del(ctx, s.key).Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("redis del [%s]: %w", s.key, err)
	}
	return nil
}
