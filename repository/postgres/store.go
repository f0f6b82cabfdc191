package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/tasklists/repository"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type store struct {
	pool *pgxpool.Pool
	q    querier
	inTx bool
}

// NewStore returns a Postgres-backed repository.Store.
func NewStore(pool *pgxpool.Pool) repository.Store {
	return &store{pool: pool, q: pool}
}

func (s *store) Lists() repository.ListRepository     { return &listRepository{q: s.q} }
func (s *store) Tasks() repository.TaskRepository     { return &taskRepository{q: s.q} }
func (s *store) Clients() repository.ClientRepository { return &clientRepository{q: s.q} }

func (s *store) Atomic(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(ctx, &store{pool: s.pool, q: tx, inTx: true})
	})
}

func (s *store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close is a no-op; the pool is owned by the caller that created it.
func (s *store) Close() error {
	return nil
}
