package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fastygo/tasklists/domain"
)

const uniqueViolation = "23505"

type clientRepository struct {
	q querier
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	const query = `
	SELECT client_id, name, secret_hash, registered_by, created_at
	FROM clients
	WHERE client_id = $1
	`
	var client domain.Client
	if err := r.q.QueryRow(ctx, query, id).Scan(
		&client.ID,
		&client.Name,
		&client.SecretHash,
		&client.RegisteredBy,
		&client.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	if client == nil || client.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO clients (client_id, name, secret_hash, registered_by, created_at)
	VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))
	RETURNING created_at
	`
	if err := r.q.QueryRow(ctx, query,
		client.ID,
		client.Name,
		client.SecretHash,
		client.RegisteredBy,
		nullTime(client.CreatedAt),
	).Scan(&client.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrClientExists
		}
		return err
	}
	return nil
}
