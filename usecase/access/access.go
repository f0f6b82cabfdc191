// Package access resolves a list on behalf of a subject. Existence is checked
// before ownership, so a missing or soft-deleted list is NOT_FOUND for everyone
// and a foreign one is FORBIDDEN.
package access

import (
	"context"

	"github.com/fastygo/tasklists/domain"
	"github.com/fastygo/tasklists/repository"
)

type Mode int

const (
	// Read returns visible lists without locking.
	Read Mode = iota
	// Write returns visible lists and locks the record for the enclosing unit of work.
	Write
	// Delete is Write that also returns soft-deleted lists, for idempotent deletion.
	Delete
)

func Resolve(ctx context.Context, lists repository.ListRepository, listID, subject string, mode Mode) (*domain.List, error) {
	var (
		list *domain.List
		err  error
	)
	if mode == Read {
		list, err = lists.GetByID(ctx, listID)
	} else {
		list, err = lists.Lock(ctx, listID)
	}
	if err != nil {
		return nil, domain.StoreError(err)
	}

	if mode != Delete && !list.Visible() {
		return nil, domain.ErrListNotFound
	}
	if !list.OwnedBy(subject) {
		return nil, domain.ErrForbidden
	}
	return list, nil
}
