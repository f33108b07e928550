package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/mapty/internal/telemetry/tracing"
	"github.com/2beens/mapty/internal/workout"
)

var _ Store = (*PsqlStore)(nil)

// pgxConn is satisfied by *pgxpool.Pool (and by pgx.Conn in tests).
type pgxConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PsqlStore keeps the collection as a single JSONB value in the kv_store table:
//
//	CREATE TABLE IF NOT EXISTS kv_store (
//		key        TEXT PRIMARY KEY,
//		value      JSONB NOT NULL,
//		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PsqlStore struct {
	key string
	db  pgxConn
}

func NewPsqlStore(db pgxConn, key string) *PsqlStore {
	if key == "" {
		key = DefaultKey
	}
	return &PsqlStore{
		key: key,
		db:  db,
	}
}

func (s *PsqlStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(
		ctx,
		`CREATE TABLE IF NOT EXISTS kv_store (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	)
	if err != nil {
		return fmt.Errorf("create kv_store table: %w", err)
	}
	return nil
}

func (s *PsqlStore) Save(ctx context.Context, records []workout.Record) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.psql.save")
	defer span.End()

	data, err := encode(records)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(
		ctx,
		`INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now();`,
		s.key, data,
	); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("upsert [%s]: %w", s.key, err)
	}

	return nil
}

func (s *PsqlStore) Load(ctx context.Context) ([]workout.Record, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.psql.load")
	defer span.End()

	var data []byte
	err := s.db.QueryRow(
		ctx,
		`SELECT value FROM kv_store WHERE key = $1;`,
		s.key,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []workout.Record{}, nil
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("select [%s]: %w", s.key, err)
	}

	return decode(data)
}

func (s *PsqlStore) Clear(ctx context.Context) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.psql.clear")
	defer span.End()

	if _, err := s.db.Exec(ctx, `DELETE FROM kv_store WHERE key = $1;`, s.key); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("delete [%s]: %w", s.key, err)
	}
	return nil
}
