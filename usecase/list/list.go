package list

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/tasklists/domain"
	"github.com/fastygo/tasklists/repository"
	"github.com/fastygo/tasklists/usecase"
	"github.com/fastygo/tasklists/usecase/access"
)

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
}

func (uc *UseCase) Create(ctx context.Context, subject string, in CreateInput) (*domain.List, error) {
	now := uc.now()
	list := &domain.List{
		ID:          uc.newID(),
		OwnerID:     subject,
		Title:       in.Title,
		Description: in.Description,
		Status:      domain.ListActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.store.Lists().Create(ctx, list); err != nil {
		uc.logger.Error("create list failed", zap.String("subject", subject), zap.Error(err))
		return nil, domain.StoreError(err)
	}
	return list, nil
}

// List returns one page of the subject's visible lists.
func (uc *UseCase) List(ctx context.Context, subject string, page domain.Page) ([]domain.List, error) {
	lists, err := uc.store.Lists().List(ctx, repository.ListFilter{
		OwnerID: subject,
		Limit:   page.Limit,
		Offset:  page.Offset(),
	})
	if err != nil {
		return nil, domain.StoreError(err)
	}
	return lists, nil
}

func (uc *UseCase) Get(ctx context.Context, subject, id string) (*domain.List, error) {
	return access.Resolve(ctx, uc.store.Lists(), id, subject, access.Read)
}

// Update applies a partial patch. Moving to Deferred is refused while any
// task of the list is In-Progress; moving to Deleted goes through Delete.
func (uc *UseCase) Update(ctx context.Context, subject, id string, patch domain.ListPatch) (*domain.List, error) {
	if patch.Status != nil {
		if *patch.Status == domain.ListDeleted {
			return nil, domain.ErrDeleteViaUpdate
		}
		if !patch.Status.Valid() {
			return nil, domain.Validation(domain.FieldError{Field: "status", Message: "unknown list status"})
		}
	}

	var updated *domain.List
	err := uc.store.Atomic(ctx, func(ctx context.Context, tx repository.Store) error {
		list, err := access.Resolve(ctx, tx.Lists(), id, subject, access.Write)
		if err != nil {
			return err
		}

		if patch.Status != nil && *patch.Status == domain.ListDeferred {
			busy, err := tx.Tasks().Exists(ctx, repository.TaskFilter{
				ListID:   list.ID,
				Statuses: domain.BlocksListDeferral,
			})
			if err != nil {
				return domain.StoreError(err)
			}
			if busy {
				return domain.ErrDeferWithInProgress
			}
		}

		list.Apply(patch, uc.now())
		if err := tx.Lists().Update(ctx, list); err != nil {
			return domain.StoreError(err)
		}
		updated = list
		return nil
	})
	if err != nil {
		uc.logFailure("update list", id, err)
		return nil, domain.StoreError(err)
	}
	return updated, nil
}

// Delete soft-deletes the list. Deleting an already deleted list succeeds
// without side effects; a list with New or In-Progress tasks is kept.
func (uc *UseCase) Delete(ctx context.Context, subject, id string) error {
	err := uc.store.Atomic(ctx, func(ctx context.Context, tx repository.Store) error {
		list, err := access.Resolve(ctx, tx.Lists(), id, subject, access.Delete)
		if err != nil {
			return err
		}
		if list.Status == domain.ListDeleted {
			return nil
		}

		active, err := tx.Tasks().Exists(ctx, repository.TaskFilter{
			ListID:   list.ID,
			Statuses: domain.BlocksListDeletion,
		})
		if err != nil {
			return domain.StoreError(err)
		}
		if active {
			return domain.ErrDeleteWithActive
		}

		list.MarkDeleted(uc.now())
		return domain.StoreError(tx.Lists().Update(ctx, list))
	})
	if err != nil {
		uc.logFailure("delete list", id, err)
		return domain.StoreError(err)
	}
	return nil
}

func (uc *UseCase) logFailure(op, id string, err error) {
	if domain.IsDomainError(err, domain.ErrCodeStoreUnavailable) {
		uc.logger.Error(op+" failed", zap.String("list_id", id), zap.Error(err))
		return
	}
	uc.logger.Debug(op+" rejected", zap.String("list_id", id), zap.Error(err))
}
