package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage(t *testing.T) {
	page, err := NewPage(3, 25)
	require.NoError(t, err)
	assert.Equal(t, 50, page.Offset())

	assert.Equal(t, Page{Number: 1, Limit: DefaultPageLimit}, DefaultPage())
	assert.Equal(t, 0, DefaultPage().Offset())

	_, err = NewPage(0, 101)
	require.Error(t, err)
	assert.True(t, IsDomainError(err, ErrCodeValidation))

	var dErr *Error
	require.ErrorAs(t, err, &dErr)
	require.Len(t, dErr.Fields, 2)
	assert.Equal(t, "page", dErr.Fields[0].Field)
	assert.Equal(t, "limit", dErr.Fields[1].Field)

	_, err = NewPage(1, 0)
	assert.True(t, IsDomainError(err, ErrCodeValidation))
	_, err = NewPage(1, MaxPageLimit)
	assert.NoError(t, err)

	_, err = NewPage(math.MaxInt, 2)
	require.ErrorAs(t, err, &dErr)
	require.Len(t, dErr.Fields, 1)
	assert.Equal(t, "page", dErr.Fields[0].Field)

	last, err := NewPage(math.MaxInt/MaxPageLimit+1, MaxPageLimit)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, last.Offset(), 0)
	_, err = NewPage(math.MaxInt/MaxPageLimit+2, MaxPageLimit)
	assert.True(t, IsDomainError(err, ErrCodeValidation))
}

func TestTaskApplyKeepsListID(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	task := Task{ID: "t1", ListID: "l1", Title: "old", Status: TaskNew, CreatedAt: created, UpdatedAt: created}

	title := "new"
	status := TaskInProgress
	prio := PriorityHigh
	due := NewDate(time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC))
	later := created.Add(time.Hour)

	task.Apply(TaskPatch{Title: &title, Status: &status, Priority: &prio, DueDate: &due}, later)

	assert.Equal(t, "l1", task.ListID)
	assert.Equal(t, "new", task.Title)
	assert.Equal(t, TaskInProgress, task.Status)
	require.NotNil(t, task.Priority)
	assert.Equal(t, PriorityHigh, *task.Priority)
	assert.Equal(t, "2024-03-04", task.DueDate.String())
	assert.Nil(t, task.Description)
	assert.Equal(t, created, task.CreatedAt)
	assert.Equal(t, later, task.UpdatedAt)

	prio = PriorityLow
	assert.Equal(t, PriorityHigh, *task.Priority, "patch values are copied")
}

func TestListApplyAndDelete(t *testing.T) {
	now := time.Now().UTC()
	list := List{ID: "l1", OwnerID: "alice", Title: "Groceries", Status: ListActive}
	assert.True(t, list.Visible())
	assert.True(t, list.OwnedBy("alice"))
	assert.False(t, list.OwnedBy("bob"))

	desc := "weekly"
	status := ListDeferred
	list.Apply(ListPatch{Description: &desc, Status: &status}, now)
	assert.Equal(t, "Groceries", list.Title)
	assert.Equal(t, "weekly", *list.Description)
	assert.Equal(t, ListDeferred, list.Status)

	list.MarkDeleted(now)
	assert.False(t, list.Visible())

	var missing *List
	assert.False(t, missing.Visible())
}

func TestStatusValidity(t *testing.T) {
	assert.True(t, ListDeferred.Valid())
	assert.False(t, ListStatus("Archived").Valid())
	assert.True(t, TaskInProgress.Valid())
	assert.False(t, TaskStatus("in progress").Valid())
	assert.True(t, PriorityMedium.Valid())
	assert.False(t, TaskPriority("Urgent").Valid())
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Due *Date `json:"due"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2025-12-31"}`), &payload))
	require.NotNil(t, payload.Due)
	assert.Equal(t, time.December, payload.Due.Month())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2025-12-31"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"due":"31/12/2025"}`), &payload))
}

func TestStoreError(t *testing.T) {
	assert.NoError(t, StoreError(nil))
	assert.Same(t, ErrListNotFound, StoreError(ErrListNotFound))

	err := StoreError(assert.AnError)
	assert.True(t, IsDomainError(err, ErrCodeStoreUnavailable))
	assert.ErrorIs(t, err, assert.AnError)
}
