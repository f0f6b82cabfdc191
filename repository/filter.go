package repository

import (
	"sort"

	"github.com/fastygo/tasklists/domain"
)

// Match applies the filter predicate to a task; shared by the adapters that
// filter in process.
func (f TaskFilter) Match(t *domain.Task) bool {
	if !t.BelongsTo(f.ListID) {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if t.Status == s {
			return true
		}
	}
	return false
}

func (f ListFilter) Match(l *domain.List) bool {
	return l.Visible() && l.OwnerID == f.OwnerID
}

// Window slices an ordered result set by offset and limit. A negative offset
// yields an empty window.
func Window[T any](items []T, offset, limit int) []T {
	if offset < 0 || offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return items[offset:end]
}

// StatusStrings converts statuses for adapters that bind them as text.
func StatusStrings(statuses []domain.TaskStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// SortLists orders lists by creation time, then id, so pagination windows are stable.
func SortLists(lists []domain.List) {
	sort.Slice(lists, func(i, j int) bool {
		if !lists[i].CreatedAt.Equal(lists[j].CreatedAt) {
			return lists[i].CreatedAt.Before(lists[j].CreatedAt)
		}
		return lists[i].ID < lists[j].ID
	})
}

// SortTasks orders tasks by creation time, then id.
func SortTasks(tasks []domain.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
}
