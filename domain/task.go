package domain

import "time"

// TaskStatus enumerates the lifecycle states of a Task.
type TaskStatus string

const (
	TaskNew        TaskStatus = "New"
	TaskInProgress TaskStatus = "In-Progress"
	TaskCompleted  TaskStatus = "Completed"
	TaskDeferred   TaskStatus = "Deferred"
	TaskDeleted    TaskStatus = "Deleted"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskNew, TaskInProgress, TaskCompleted, TaskDeferred, TaskDeleted:
		return true
	}
	return false
}

// Statuses that keep a list from being deferred or deleted.
var (
	BlocksListDeferral = []TaskStatus{TaskInProgress}
	BlocksListDeletion = []TaskStatus{TaskNew, TaskInProgress}
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a unit of work inside a List.
type Task struct {
	ID          string        `json:"id"`
	ListID      string        `json:"list_id"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Status      TaskStatus    `json:"status"`
	Priority    *TaskPriority `json:"priority"`
	DueDate     *Date         `json:"due_date"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Visible reports whether the task takes part in reads and listings.
func (t *Task) Visible() bool {
	return t != nil && t.Status != TaskDeleted
}

// BelongsTo reports whether the task is a visible member of the given list.
func (t *Task) BelongsTo(listID string) bool {
	return t.Visible() && t.ListID == listID
}

// TaskPatch carries the fields of a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	DueDate     *Date
}

// Apply copies the set fields of p onto t and stamps UpdatedAt. ListID is never touched.
func (t *Task) Apply(p TaskPatch, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		desc := *p.Description
		t.Description = &desc
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		prio := *p.Priority
		t.Priority = &prio
	}
	if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	t.UpdatedAt = now
}

// MarkDeleted soft-deletes the task.
func (t *Task) MarkDeleted(now time.Time) {
	t.Status = TaskDeleted
	t.UpdatedAt = now
}
