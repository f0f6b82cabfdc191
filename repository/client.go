package repository

import (
	"context"

	"github.com/fastygo/tasklists/domain"
)

type ClientRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	// Create fails with domain.ErrClientExists when the id is taken.
	Create(ctx context.Context, client *domain.Client) error
}
