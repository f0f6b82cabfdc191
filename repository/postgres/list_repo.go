package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fastygo/tasklists/domain"
	"github.com/fastygo/tasklists/repository"
)

const listColumns = `id, user_id, title, description, status, created_at, updated_at`

type listRepository struct {
	q querier
}

func (r *listRepository) GetByID(ctx context.Context, id string) (*domain.List, error) {
	const query = `SELECT ` + listColumns + ` FROM lists WHERE id = $1`
	return scanList(r.q.QueryRow(ctx, query, id))
}

// Lock takes a row lock that lasts until the surrounding transaction ends.
func (r *listRepository) Lock(ctx context.Context, id string) (*domain.List, error) {
	const query = `SELECT ` + listColumns + ` FROM lists WHERE id = $1 FOR UPDATE`
	return scanList(r.q.QueryRow(ctx, query, id))
}

func (r *listRepository) List(ctx context.Context, filter repository.ListFilter) ([]domain.List, error) {
	if filter.Offset < 0 {
		return []domain.List{}, nil
	}
	const query = `
	SELECT ` + listColumns + `
	FROM lists
	WHERE user_id = $1
	  AND status <> $2
	ORDER BY created_at ASC, id ASC
	LIMIT $3 OFFSET $4
	`
	rows, err := r.q.Query(ctx, query, filter.OwnerID, domain.ListDeleted, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []domain.List{}
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, *list)
	}
	return lists, rows.Err()
}

func (r *listRepository) Create(ctx context.Context, list *domain.List) error {
	if list == nil || list.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO lists (id, user_id, title, description, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.Exec(ctx, query,
		list.ID,
		list.OwnerID,
		list.Title,
		list.Description,
		list.Status,
		list.CreatedAt,
		list.UpdatedAt,
	)
	return err
}

func (r *listRepository) Update(ctx context.Context, list *domain.List) error {
	if list == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE lists
	SET title = $2,
		description = $3,
		status = $4,
		updated_at = $5
	WHERE id = $1
	`
	tag, err := r.q.Exec(ctx, query,
		list.ID,
		list.Title,
		list.Description,
		list.Status,
		list.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListNotFound
	}
	return nil
}

func scanList(row pgx.Row) (*domain.List, error) {
	var list domain.List
	if err := row.Scan(
		&list.ID,
		&list.OwnerID,
		&list.Title,
		&list.Description,
		&list.Status,
		&list.CreatedAt,
		&list.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrListNotFound
		}
		return nil, err
	}
	return &list, nil
}
