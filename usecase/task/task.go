package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/tasklists/domain"
	"github.com/fastygo/tasklists/repository"
	"github.com/fastygo/tasklists/usecase"
	"github.com/fastygo/tasklists/usecase/access"
)

// UseCase applies task mutations inside the list that owns them. Every
// operation resolves the parent list first; writes lock it for their duration
// so they cannot interleave with the list's defer/delete guards.
type UseCase struct {
	store  repository.Store
	logger *zap.Logger
	now    usecase.Clock
	newID  usecase.IDGenerator
}

type Option func(*UseCase)

func WithClock(clock usecase.Clock) Option {
	return func(uc *UseCase) { uc.now = clock }
}

func WithIDGenerator(gen usecase.IDGenerator) Option {
	return func(uc *UseCase) { uc.newID = gen }
}

func New(store repository.Store, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &UseCase{
		store:  store,
		logger: logger,
		now:    usecase.SystemClock,
		newID:  usecase.NewID,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type CreateInput struct {
	Title       string
	Description *string
	Priority    *domain.TaskPriority
	DueDate     *domain.Date
}

func (uc *UseCase) Create(ctx context.Context, subject, listID string, in CreateInput) (*domain.Task, error) {
	var created *domain.Task
	err := uc.store.Atomic(ctx, func(ctx context.Context, tx repository.Store) error {
		list, err := access.Resolve(ctx, tx.Lists(), listID, subject, access.Write)
		if err != nil {
			return err
		}
		if list.Status == domain.ListDeferred {
			return domain.ErrCreateOnDeferredList
		}

		now := uc.now()
		task := &domain.Task{
			ID:          uc.newID(),
			ListID:      list.ID,
			Title:       in.Title,
			Description: in.Description,
			Status:      domain.TaskNew,
			Priority:    in.Priority,
			DueDate:     in.DueDate,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Tasks().Create(ctx, task); err != nil {
			return domain.StoreError(err)
		}
		created = task
		return nil
	})
	if err != nil {
		uc.logFailure("create task", listID, "", err)
		return nil, domain.StoreError(err)
	}
	return created, nil
}

// List returns one page of the list's visible tasks.
func (uc *UseCase) List(ctx context.Context, subject, listID string, page domain.Page) ([]domain.Task, error) {
	list, err := access.Resolve(ctx, uc.store.Lists(), listID, subject, access.Read)
	if err != nil {
		return nil, err
	}
	tasks, err := uc.store.Tasks().List(ctx, repository.TaskFilter{
		ListID: list.ID,
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, domain.StoreError(err)
	}
	return tasks, nil
}

func (uc *UseCase) Get(ctx context.Context, subject, listID, taskID string) (*domain.Task, error) {
	list, err := access.Resolve(ctx, uc.store.Lists(), listID, subject, access.Read)
	if err != nil {
		return nil, err
	}
	task, err := uc.store.Tasks().GetByID(ctx, taskID)
	if err != nil {
		return nil, domain.StoreError(err)
	}
	if !task.BelongsTo(list.ID) {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

// Update applies a partial patch. It is refused while the parent list is
// Deferred, and a patch can never move a task back to New.
func (uc *UseCase) Update(ctx context.Context, subject, listID, taskID string, patch domain.TaskPatch) (*domain.Task, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, domain.Validation(domain.FieldError{Field: "status", Message: "unknown task status"})
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, domain.Validation(domain.FieldError{Field: "priority", Message: "unknown task priority"})
	}

	var updated *domain.Task
	err := uc.store.Atomic(ctx, func(ctx context.Context, tx repository.Store) error {
		list, err := access.Resolve(ctx, tx.Lists(), listID, subject, access.Write)
		if err != nil {
			return err
		}
		if list.Status == domain.ListDeferred {
			return domain.ErrUpdateOnDeferredList
		}

		if patch.Status != nil {
			switch *patch.Status {
			case domain.TaskNew:
				return domain.ErrRevertToNew
			case domain.TaskDeleted:
				return domain.ErrDeleteViaUpdate
			}
		}

		task, err := tx.Tasks().GetByID(ctx, taskID)
		if err != nil {
			return domain.StoreError(err)
		}
		if !task.BelongsTo(list.ID) {
			return domain.ErrTaskNotFound
		}

		task.Apply(patch, uc.now())
		if err := tx.Tasks().Update(ctx, task); err != nil {
			return domain.StoreError(err)
		}
		updated = task
		return nil
	})
	if err != nil {
		uc.logFailure("update task", listID, taskID, err)
		return nil, domain.StoreError(err)
	}
	return updated, nil
}

// Delete soft-deletes the task; repeating it is a no-op. Deferred lists do not
// block deletion.
func (uc *UseCase) Delete(ctx context.Context, subject, listID, taskID string) error {
	err := uc.store.Atomic(ctx, func(ctx context.Context, tx repository.Store) error {
		list, err := access.Resolve(ctx, tx.Lists(), listID, subject, access.Write)
		if err != nil {
			return err
		}

		task, err := tx.Tasks().GetByID(ctx, taskID)
		if err != nil {
			return domain.StoreError(err)
		}
		if task.ListID != list.ID {
			return domain.ErrTaskNotFound
		}
		if task.Status == domain.TaskDeleted {
			return nil
		}

		task.MarkDeleted(uc.now())
		return domain.StoreError(tx.Tasks().Update(ctx, task))
	})
	if err != nil {
		uc.logFailure("delete task", listID, taskID, err)
		return domain.StoreError(err)
	}
	return nil
}

func (uc *UseCase) logFailure(op, listID, taskID string, err error) {
	fields := []zap.Field{zap.String("list_id", listID), zap.Error(err)}
	if taskID != "" {
		fields = append(fields, zap.String("task_id", taskID))
	}
	if domain.IsDomainError(err, domain.ErrCodeStoreUnavailable) {
		uc.logger.Error(op+" failed", fields...)
		return
	}
	uc.logger.Debug(op+" rejected", fields...)
}
