package repository

import (
	"context"

	"github.com/fastygo/tasklists/domain"
)

// ListFilter selects visible lists. Deleted lists never match.
type ListFilter struct {
	OwnerID string
	Limit   int
	Offset  int
}

type ListRepository interface {
	// GetByID returns the list regardless of status or domain.ErrListNotFound.
	GetByID(ctx context.Context, id string) (*domain.List, error)
	// Lock is GetByID that additionally holds the record for the surrounding Atomic unit.
	Lock(ctx context.Context, id string) (*domain.List, error)
	List(ctx context.Context, filter ListFilter) ([]domain.List, error)
	Create(ctx context.Context, list *domain.List) error
	Update(ctx context.Context, list *domain.List) error
}
