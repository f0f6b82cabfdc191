package repository

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fastygo/tasklists/domain"
)

func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, Window(items, 0, 2))
	assert.Equal(t, []int{3, 4}, Window(items, 2, 2))
	assert.Equal(t, []int{5}, Window(items, 4, 2))
	assert.Equal(t, []int{}, Window(items, 6, 2))
	assert.Equal(t, []int{}, Window[int](nil, 0, 10))
	assert.Equal(t, items, Window(items, 0, 0))
	assert.Equal(t, []int{}, Window(items, -4, 2), "negative offsets never index the slice")
	assert.Equal(t, []int{5}, Window(items, 4, math.MaxInt))
}

func TestTaskFilterMatch(t *testing.T) {
	task := &domain.Task{ListID: "l1", Status: domain.TaskInProgress}

	assert.True(t, TaskFilter{ListID: "l1"}.Match(task))
	assert.False(t, TaskFilter{ListID: "l2"}.Match(task))
	assert.True(t, TaskFilter{ListID: "l1", Statuses: domain.BlocksListDeferral}.Match(task))

	task.Status = domain.TaskCompleted
	assert.False(t, TaskFilter{ListID: "l1", Statuses: domain.BlocksListDeletion}.Match(task))

	task.Status = domain.TaskDeleted
	assert.False(t, TaskFilter{ListID: "l1"}.Match(task), "deleted tasks are never visible")
	assert.False(t, TaskFilter{ListID: "l1", Statuses: []domain.TaskStatus{domain.TaskDeleted}}.Match(task))
}

func TestListFilterMatch(t *testing.T) {
	list := &domain.List{OwnerID: "alice", Status: domain.ListDeferred}
	assert.True(t, ListFilter{OwnerID: "alice"}.Match(list))
	assert.False(t, ListFilter{OwnerID: "bob"}.Match(list))

	list.Status = domain.ListDeleted
	assert.False(t, ListFilter{OwnerID: "alice"}.Match(list))
}

func TestSortTasksIsStable(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []domain.Task{
		{ID: "c", CreatedAt: at},
		{ID: "a", CreatedAt: at.Add(time.Second)},
		{ID: "b", CreatedAt: at},
	}
	SortTasks(tasks)
	assert.Equal(t, "b", tasks[0].ID)
	assert.Equal(t, "c", tasks[1].ID)
	assert.Equal(t, "a", tasks[2].ID)
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, []string{"New", "In-Progress"}, StatusStrings(domain.BlocksListDeletion))
}
