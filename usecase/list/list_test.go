package list

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tasklists/domain"
	"github.com/fastygo/tasklists/repository/memory"
)

type fixture struct {
	store *memory.Store
	uc    *UseCase
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: memory.New(),
		now:   time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	seq := 0
	f.uc = New(f.store, nil,
		WithClock(func() time.Time { return f.now }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("list-%02d", seq)
		}),
	)
	return f
}

func (f *fixture) create(t *testing.T, subject, title string) *domain.List {
	t.Helper()
	list, err := f.uc.Create(context.Background(), subject, CreateInput{Title: title})
	require.NoError(t, err)
	return list
}

func (f *fixture) addTask(t *testing.T, listID string, status domain.TaskStatus) {
	t.Helper()
	id := fmt.Sprintf("%s-task-%s", listID, status)
	require.NoError(t, f.store.Tasks().Create(context.Background(), &domain.Task{
		ID: id, ListID: listID, Title: id, Status: status, CreatedAt: f.now, UpdatedAt: f.now,
	}))
}

func status(s domain.ListStatus) *domain.ListStatus { return &s }

func TestCreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := f.create(t, "alice", "Groceries")
	assert.Equal(t, "list-01", list.ID)
	assert.Equal(t, domain.ListActive, list.Status)
	assert.Equal(t, "alice", list.OwnerID)
	assert.Equal(t, f.now, list.CreatedAt)
	assert.Equal(t, f.now, list.UpdatedAt)

	got, err := f.uc.Get(ctx, "alice", list.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Title)

	_, err = f.uc.Get(ctx, "bob", list.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
}

func TestListPagesOwnVisibleLists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		f.create(t, "alice", fmt.Sprintf("a%d", i))
		f.now = f.now.Add(time.Second)
	}
	f.create(t, "bob", "b")
	require.NoError(t, f.uc.Delete(ctx, "alice", "list-02"))

	page, err := domain.NewPage(1, 3)
	require.NoError(t, err)
	first, err := f.uc.List(ctx, "alice", page)
	require.NoError(t, err)

	page.Number = 2
	second, err := f.uc.List(ctx, "alice", page)
	require.NoError(t, err)

	var ids []string
	for _, l := range append(first, second...) {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"list-01", "list-03", "list-04", "list-05"}, ids)

	page.Number = 3
	third, err := f.uc.List(ctx, "alice", page)
	require.NoError(t, err)
	assert.Empty(t, third)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := f.create(t, "alice", "Groceries")
	f.now = f.now.Add(time.Minute)

	title := "Weekly groceries"
	updated, err := f.uc.Update(ctx, "alice", list.ID, domain.ListPatch{Title: &title, Status: status(domain.ListDeferred)})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, domain.ListDeferred, updated.Status)
	assert.Equal(t, f.now, updated.UpdatedAt)

	updated, err = f.uc.Update(ctx, "alice", list.ID, domain.ListPatch{Status: status(domain.ListActive)})
	require.NoError(t, err)
	assert.Equal(t, domain.ListActive, updated.Status)

	_, err = f.uc.Update(ctx, "bob", list.ID, domain.ListPatch{Title: &title})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))

	_, err = f.uc.Update(ctx, "alice", "missing", domain.ListPatch{Title: &title})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestUpdateRefusesDeleteAndUnknownStatus(t *testing.T) {
	f := newFixture(t)
	list := f.create(t, "alice", "Groceries")

	_, err := f.uc.Update(context.Background(), "alice", list.ID, domain.ListPatch{Status: status(domain.ListDeleted)})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalidTransition))

	_, err = f.uc.Update(context.Background(), "alice", list.ID, domain.ListPatch{Status: status("Archived")})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))
}

func TestDeferBlockedByInProgressTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := f.create(t, "alice", "Groceries")
	f.addTask(t, list.ID, domain.TaskInProgress)

	title := "renamed"
	_, err := f.uc.Update(ctx, "alice", list.ID, domain.ListPatch{Title: &title, Status: status(domain.ListDeferred)})
	assert.ErrorIs(t, err, domain.ErrDeferWithInProgress)

	got, err := f.uc.Get(ctx, "alice", list.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListActive, got.Status)
	assert.Equal(t, "Groceries", got.Title, "no field of a rejected patch is applied")
}

func TestDeferAllowedWithNewTasks(t *testing.T) {
	f := newFixture(t)
	list := f.create(t, "alice", "Groceries")
	f.addTask(t, list.ID, domain.TaskNew)
	f.addTask(t, list.ID, domain.TaskCompleted)

	updated, err := f.uc.Update(context.Background(), "alice", list.ID, domain.ListPatch{Status: status(domain.ListDeferred)})
	require.NoError(t, err)
	assert.Equal(t, domain.ListDeferred, updated.Status)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := f.create(t, "alice", "Groceries")
	f.addTask(t, list.ID, domain.TaskCompleted)
	f.addTask(t, list.ID, domain.TaskDeferred)

	require.NoError(t, f.uc.Delete(ctx, "alice", list.ID))
	require.NoError(t, f.uc.Delete(ctx, "alice", list.ID), "deleting twice succeeds")

	_, err := f.uc.Get(ctx, "alice", list.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	stored, err := f.store.Lists().GetByID(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListDeleted, stored.Status, "soft delete keeps the record")

	err = f.uc.Delete(ctx, "bob", list.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
}

func TestDeleteBlockedByActiveTasks(t *testing.T) {
	for _, s := range domain.BlocksListDeletion {
		t.Run(string(s), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			list := f.create(t, "alice", "Groceries")
			f.addTask(t, list.ID, s)

			err := f.uc.Delete(ctx, "alice", list.ID)
			assert.ErrorIs(t, err, domain.ErrDeleteWithActive)

			got, err := f.uc.Get(ctx, "alice", list.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.ListActive, got.Status)
		})
	}
}

func TestStoreUnavailable(t *testing.T) {
	f := newFixture(t)
	list := f.create(t, "alice", "Groceries")
	f.store.Fail(assert.AnError)

	_, err := f.uc.Create(context.Background(), "alice", CreateInput{Title: "x"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeStoreUnavailable))

	err = f.uc.Delete(context.Background(), "alice", list.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeStoreUnavailable))
}
