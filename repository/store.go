package repository

import "context"

// Store groups the repositories backed by one persistence engine.
type Store interface {
	Lists() ListRepository
	Tasks() TaskRepository
	Clients() ClientRepository

	// Atomic runs fn as a single unit of work. Repositories reached through the
	// Store passed to fn share the unit; lists read with ListRepository.Lock stay
	// locked until fn returns. A non-nil error from fn rolls the unit back.
	Atomic(ctx context.Context, fn func(ctx context.Context, tx Store) error) error

	Ping(ctx context.Context) error
	Close() error
}
