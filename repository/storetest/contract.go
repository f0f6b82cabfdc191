// Package storetest holds the behaviour every repository.Store adapter must share.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tasklists/domain"
	"github.com/fastygo/tasklists/repository"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) repository.Store

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// Run exercises the store contract against the adapter built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("ListRoundTrip", func(t *testing.T) { listRoundTrip(t, newStore(t)) })
	t.Run("ListPagination", func(t *testing.T) { listPagination(t, newStore(t)) })
	t.Run("TaskQueries", func(t *testing.T) { taskQueries(t, newStore(t)) })
	t.Run("AtomicRollback", func(t *testing.T) { atomicRollback(t, newStore(t)) })
	t.Run("Clients", func(t *testing.T) { clients(t, newStore(t)) })
	t.Run("GuardedLifecycle", func(t *testing.T) { guardedLifecycle(t, newStore(t)) })
}

func newList(id, owner string, offset time.Duration) *domain.List {
	return &domain.List{
		ID:        id,
		OwnerID:   owner,
		Title:     "list " + id,
		Status:    domain.ListActive,
		CreatedAt: base.Add(offset),
		UpdatedAt: base.Add(offset),
	}
}

func newTask(id, listID string, status domain.TaskStatus, offset time.Duration) *domain.Task {
	return &domain.Task{
		ID:        id,
		ListID:    listID,
		Title:     "task " + id,
		Status:    status,
		CreatedAt: base.Add(offset),
		UpdatedAt: base.Add(offset),
	}
}

func listRoundTrip(t *testing.T, store repository.Store) {
	ctx := context.Background()
	desc := "weekly shop"
	list := newList("l1", "alice", 0)
	list.Description = &desc
	require.NoError(t, store.Lists().Create(ctx, list))

	got, err := store.Lists().GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.OwnerID)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
	assert.True(t, got.CreatedAt.Equal(list.CreatedAt))

	got.MarkDeleted(base.Add(time.Minute))
	require.NoError(t, store.Lists().Update(ctx, got))

	deleted, err := store.Lists().GetByID(ctx, "l1")
	require.NoError(t, err, "soft-deleted lists stay readable by id")
	assert.Equal(t, domain.ListDeleted, deleted.Status)

	_, err = store.Lists().GetByID(ctx, "missing")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	err = store.Lists().Update(ctx, newList("missing", "alice", 0))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func listPagination(t *testing.T, store repository.Store) {
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		require.NoError(t, store.Lists().Create(ctx, newList(fmt.Sprintf("l%d", i), "alice", time.Duration(6-i)*time.Second)))
	}
	require.NoError(t, store.Lists().Create(ctx, newList("other", "bob", 0)))

	gone := newList("gone", "alice", 0)
	gone.Status = domain.ListDeleted
	require.NoError(t, store.Lists().Create(ctx, gone))

	var seen []string
	for offset := 0; offset < 9; offset += 3 {
		page, err := store.Lists().List(ctx, repository.ListFilter{OwnerID: "alice", Limit: 3, Offset: offset})
		require.NoError(t, err)
		for _, l := range page {
			seen = append(seen, l.ID)
		}
	}
	assert.Equal(t, []string{"l6", "l5", "l4", "l3", "l2", "l1", "l0"}, seen, "oldest first, no gaps or duplicates")

	empty, err := store.Lists().List(ctx, repository.ListFilter{OwnerID: "carol", Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func taskQueries(t *testing.T, store repository.Store) {
	ctx := context.Background()
	require.NoError(t, store.Lists().Create(ctx, newList("l1", "alice", 0)))
	require.NoError(t, store.Lists().Create(ctx, newList("l2", "alice", 0)))

	prio := domain.PriorityHigh
	due := domain.NewDate(base)
	first := newTask("t1", "l1", domain.TaskNew, 0)
	first.Priority = &prio
	first.DueDate = &due
	require.NoError(t, store.Tasks().Create(ctx, first))
	require.NoError(t, store.Tasks().Create(ctx, newTask("t2", "l1", domain.TaskCompleted, time.Second)))
	require.NoError(t, store.Tasks().Create(ctx, newTask("t3", "l1", domain.TaskDeleted, 2*time.Second)))
	require.NoError(t, store.Tasks().Create(ctx, newTask("t4", "l2", domain.TaskInProgress, 0)))

	got, err := store.Tasks().GetByID(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got.Priority)
	assert.Equal(t, domain.PriorityHigh, *got.Priority)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, due.String(), got.DueDate.String())

	tasks, err := store.Tasks().List(ctx, repository.TaskFilter{ListID: "l1", Limit: 10})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "t1", tasks[0].ID)
	assert.Equal(t, "t2", tasks[1].ID)

	busy, err := store.Tasks().Exists(ctx, repository.TaskFilter{ListID: "l1", Statuses: domain.BlocksListDeferral})
	require.NoError(t, err)
	assert.False(t, busy)

	active, err := store.Tasks().Exists(ctx, repository.TaskFilter{ListID: "l1", Statuses: domain.BlocksListDeletion})
	require.NoError(t, err)
	assert.True(t, active)

	busy, err = store.Tasks().Exists(ctx, repository.TaskFilter{ListID: "l2", Statuses: domain.BlocksListDeferral})
	require.NoError(t, err)
	assert.True(t, busy)

	_, err = store.Tasks().GetByID(ctx, "missing")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func atomicRollback(t *testing.T, store repository.Store) {
	ctx := context.Background()
	require.NoError(t, store.Lists().Create(ctx, newList("l1", "alice", 0)))

	boom := errors.New("boom")
	err := store.Atomic(ctx, func(ctx context.Context, tx repository.Store) error {
		list, err := tx.Lists().Lock(ctx, "l1")
		if err != nil {
			return err
		}
		list.Title = "renamed"
		if err := tx.Lists().Update(ctx, list); err != nil {
			return err
		}
		if err := tx.Tasks().Create(ctx, newTask("t1", "l1", domain.TaskNew, 0)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := store.Lists().GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "list l1", list.Title)
	_, err = store.Tasks().GetByID(ctx, "t1")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	err = store.Atomic(ctx, func(ctx context.Context, tx repository.Store) error {
		return tx.Tasks().Create(ctx, newTask("t2", "l1", domain.TaskNew, 0))
	})
	require.NoError(t, err)
	_, err = store.Tasks().GetByID(ctx, "t2")
	assert.NoError(t, err)
}

func clients(t *testing.T, store repository.Store) {
	ctx := context.Background()
	client := &domain.Client{ID: "cli", Name: "CLI", SecretHash: "hash", RegisteredBy: "alice", CreatedAt: base}
	require.NoError(t, store.Clients().Create(ctx, client))

	got, err := store.Clients().GetByID(ctx, "cli")
	require.NoError(t, err)
	assert.Equal(t, "hash", got.SecretHash)
	assert.Equal(t, "alice", got.RegisteredBy)

	err = store.Clients().Create(ctx, client)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))

	_, err = store.Clients().GetByID(ctx, "nope")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}
