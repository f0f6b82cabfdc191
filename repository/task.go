package repository

import (
	"context"

	"github.com/fastygo/tasklists/domain"
)

// TaskFilter selects visible tasks of one list. Deleted tasks never match.
// An empty Statuses slice matches every visible status.
type TaskFilter struct {
	ListID   string
	Statuses []domain.TaskStatus
	Limit    int
	Offset   int
}

type TaskRepository interface {
	// GetByID returns the task regardless of status or domain.ErrTaskNotFound.
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Exists(ctx context.Context, filter TaskFilter) (bool, error)
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
}
