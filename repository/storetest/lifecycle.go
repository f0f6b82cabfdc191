package storetest

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tasklists/domain"
	"github.com/fastygo/tasklists/repository"
	"github.com/fastygo/tasklists/usecase/list"
	"github.com/fastygo/tasklists/usecase/task"
)

const (
	lifecycleWorkers = 8
	lifecycleTasks   = 5
	lifecycleToggles = 40
	maxAttempts      = 10000
)

// guardedLifecycle races the list defer/delete guards against task creation
// and status changes on one list and checks, from consistent snapshots taken
// throughout, that no guard was bypassed.
func guardedLifecycle(t *testing.T, store repository.Store) {
	ctx := context.Background()
	const owner = "alice"
	lists := list.New(store, nil)
	tasks := task.New(store, nil)

	created, err := lists.Create(ctx, owner, list.CreateInput{Title: "contended"})
	require.NoError(t, err)
	listID := created.ID

	var (
		watcher    sync.WaitGroup
		done       = make(chan struct{})
		snapshots  atomic.Int64
		violations atomic.Int64
	)

	check := func() {
		err := store.Atomic(ctx, func(ctx context.Context, tx repository.Store) error {
			l, err := tx.Lists().GetByID(ctx, listID)
			if err != nil {
				return err
			}
			visible, err := tx.Tasks().List(ctx, repository.TaskFilter{ListID: listID})
			if err != nil {
				return err
			}
			for _, tk := range visible {
				if brokenGuard(l.Status, tk.Status) {
					violations.Add(1)
					t.Errorf("list %s holds task %s in %s", l.Status, tk.ID, tk.Status)
				}
			}
			return nil
		})
		assert.NoError(t, err)
		snapshots.Add(1)
	}

	watcher.Add(1)
	go func() {
		defer watcher.Done()
		for {
			select {
			case <-done:
				return
			default:
				check()
				runtime.Gosched()
			}
		}
	}()

	var work sync.WaitGroup
	for range lifecycleWorkers {
		work.Add(1)
		go func() {
			defer work.Done()
			for range lifecycleTasks {
				var tk *domain.Task
				if !retry(t, func() (err error) {
					tk, err = tasks.Create(ctx, owner, listID, task.CreateInput{Title: "job"})
					return err
				}) {
					return
				}
				for _, next := range []domain.TaskStatus{domain.TaskInProgress, domain.TaskCompleted} {
					if !retry(t, func() error {
						_, err := tasks.Update(ctx, owner, listID, tk.ID, domain.TaskPatch{Status: &next})
						return err
					}) {
						return
					}
				}
			}
		}()
	}

	work.Add(1)
	go func() {
		defer work.Done()
		deferred, active := domain.ListDeferred, domain.ListActive
		for range lifecycleToggles {
			for _, status := range []*domain.ListStatus{&deferred, &active} {
				_, err := lists.Update(ctx, owner, listID, domain.ListPatch{Status: status})
				if domain.IsDomainError(err, domain.ErrCodeNotFound) {
					return
				}
				if err != nil && !domain.IsDomainError(err, domain.ErrCodeConflict) {
					t.Errorf("toggle list: %v", err)
					return
				}
			}
			err := lists.Delete(ctx, owner, listID)
			if err == nil {
				return
			}
			if !domain.IsDomainError(err, domain.ErrCodeConflict) {
				t.Errorf("delete list: %v", err)
				return
			}
		}
	}()

	work.Wait()
	close(done)
	watcher.Wait()

	check()
	assert.Positive(t, snapshots.Load())
	assert.Zero(t, violations.Load())

	// Every worker drove its tasks to Completed or stopped once the list was
	// gone, so nothing blocks deletion any more.
	require.NoError(t, lists.Delete(ctx, owner, listID))
	final, err := store.Lists().GetByID(ctx, listID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListDeleted, final.Status)
}

// brokenGuard reports whether a visible task in status ts contradicts list status ls.
func brokenGuard(ls domain.ListStatus, ts domain.TaskStatus) bool {
	var blocking []domain.TaskStatus
	switch ls {
	case domain.ListDeferred:
		blocking = domain.BlocksListDeferral
	case domain.ListDeleted:
		blocking = domain.BlocksListDeletion
	}
	for _, s := range blocking {
		if s == ts {
			return true
		}
	}
	return false
}

// retry runs op until it succeeds, retrying while the list is Deferred. It
// returns false once the list is gone or on any other error.
func retry(t *testing.T, op func() error) bool {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := op()
		switch {
		case err == nil:
			return true
		case domain.IsDomainError(err, domain.ErrCodeNotFound):
			return false
		case domain.IsDomainError(err, domain.ErrCodeConflict):
			runtime.Gosched()
		default:
			t.Errorf("unexpected error: %v", err)
			return false
		}
	}
	t.Errorf("gave up after %d attempts", maxAttempts)
	return false
}
