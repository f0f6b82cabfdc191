// Package memory is a process-local Store adapter. Every operation, and every
// Atomic unit as a whole, runs under one mutex, so Lock needs no extra work.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/fastygo/tasklists/domain"
	"github.com/fastygo/tasklists/repository"
)

var ErrClosed = errors.New("memory store closed")

type tables struct {
	lists   map[string]domain.List
	tasks   map[string]domain.Task
	clients map[string]domain.Client
}

func (t *tables) clone() *tables {
	return &tables{
		lists:   maps.Clone(t.lists),
		tasks:   maps.Clone(t.tasks),
		clients: maps.Clone(t.clients),
	}
}

type shared struct {
	mu     sync.Mutex
	data   *tables
	fault  error
	closed bool
}

// Store keeps records in maps. The zero value is not usable; call New.
type Store struct {
	shared *shared
	tx     *tables
}

func New() *Store {
	return &Store{shared: &shared{data: &tables{
		lists:   make(map[string]domain.List),
		tasks:   make(map[string]domain.Task),
		clients: make(map[string]domain.Client),
	}}}
}

// Fail makes every subsequent operation return err until Fail(nil) is called.
func (s *Store) Fail(err error) {
	s.shared.mu.Lock()
	s.shared.fault = err
	s.shared.mu.Unlock()
}

func (s *Store) Lists() repository.ListRepository     { return listRepo{s} }
func (s *Store) Tasks() repository.TaskRepository     { return taskRepo{s} }
func (s *Store) Clients() repository.ClientRepository { return clientRepo{s} }

func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.tx != nil {
		return fn(ctx, s)
	}
	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()
	if err := s.shared.err(); err != nil {
		return err
	}

	working := s.shared.data.clone()
	if err := fn(ctx, &Store{shared: s.shared, tx: working}); err != nil {
		return err
	}
	s.shared.data = working
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()
	return s.shared.err()
}

func (s *Store) Close() error {
	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()
	s.shared.closed = true
	return nil
}

func (sh *shared) err() error {
	if sh.closed {
		return ErrClosed
	}
	return sh.fault
}

// with runs fn against the transaction tables, or under the store mutex when
// called outside Atomic.
func (s *Store) with(fn func(t *tables) error) error {
	if s.tx != nil {
		if err := s.shared.err(); err != nil {
			return err
		}
		return fn(s.tx)
	}
	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()
	if err := s.shared.err(); err != nil {
		return err
	}
	return fn(s.shared.data)
}

var _ repository.Store = (*Store)(nil)
