package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fastygo/tasklists/domain"
	"github.com/fastygo/tasklists/repository"
)

const taskColumns = `id, list_id, title, description, status, priority, due_date, created_at, updated_at`

type taskRepository struct {
	q querier
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.q.QueryRow(ctx, query, id))
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	if filter.Offset < 0 {
		return []domain.Task{}, nil
	}
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE list_id = $1
	  AND status <> $2
	  AND (cardinality($3::text[]) = 0 OR status = ANY($3))
	ORDER BY created_at ASC, id ASC
	LIMIT $4 OFFSET $5
	`
	rows, err := r.q.Query(ctx, query,
		filter.ListID,
		domain.TaskDeleted,
		repository.StatusStrings(filter.Statuses),
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Exists(ctx context.Context, filter repository.TaskFilter) (bool, error) {
	const query = `
	SELECT EXISTS (
		SELECT 1 FROM tasks
		WHERE list_id = $1
		  AND status <> $2
		  AND (cardinality($3::text[]) = 0 OR status = ANY($3))
	)
	`
	var exists bool
	err := r.q.QueryRow(ctx, query,
		filter.ListID,
		domain.TaskDeleted,
		repository.StatusStrings(filter.Statuses),
	).Scan(&exists)
	return exists, err
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO tasks (id, list_id, title, description, status, priority, due_date, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.q.Exec(ctx, query,
		task.ID,
		task.ListID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		dueDate(task.DueDate),
		task.CreatedAt,
		task.UpdatedAt,
	)
	return err
}

// Update never writes list_id; a task stays in the list it was created in.
func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		status = $4,
		priority = $5,
		due_date = $6,
		updated_at = $7
	WHERE id = $1
	`
	tag, err := r.q.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		dueDate(task.DueDate),
		task.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	var (
		priority *string
		due      *time.Time
	)

	if err := row.Scan(
		&task.ID,
		&task.ListID,
		&task.Title,
		&task.Description,
		&task.Status,
		&priority,
		&due,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	if priority != nil {
		p := domain.TaskPriority(*priority)
		task.Priority = &p
	}
	if due != nil {
		d := domain.NewDate(*due)
		task.DueDate = &d
	}
	return &task, nil
}
