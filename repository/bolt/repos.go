package bolt

import (
	"context"
	"encoding/json"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/tasklists/domain"
	"github.com/fastygo/tasklists/repository"
)

type listRepo struct{ s *Store }

func (r listRepo) GetByID(ctx context.Context, id string) (*domain.List, error) {
	var list domain.List
	err := r.s.view(func(tx *bbolt.Tx) error {
		ok, err := get(tx, bucketLists, id, &list)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrListNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Lock relies on the exclusive writer held by Atomic.
func (r listRepo) Lock(ctx context.Context, id string) (*domain.List, error) {
	return r.GetByID(ctx, id)
}

func (r listRepo) List(ctx context.Context, filter repository.ListFilter) ([]domain.List, error) {
	var lists []domain.List
	err := r.s.view(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketLists).ForEach(func(_, v []byte) error {
			var l domain.List
			if err := json.Unmarshal(v, &l); err != nil {
				return err
			}
			if filter.Match(&l) {
				lists = append(lists, l)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	repository.SortLists(lists)
	return repository.Window(lists, filter.Offset, filter.Limit), nil
}

func (r listRepo) Create(ctx context.Context, list *domain.List) error {
	if list == nil || list.ID == "" {
		return domain.ErrInvalidPayload
	}
	return r.s.update(func(tx *bbolt.Tx) error {
		return put(tx, bucketLists, list.ID, list)
	})
}

func (r listRepo) Update(ctx context.Context, list *domain.List) error {
	if list == nil {
		return domain.ErrInvalidPayload
	}
	return r.s.update(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketLists).Get([]byte(list.ID)) == nil {
			return domain.ErrListNotFound
		}
		return put(tx, bucketLists, list.ID, list)
	})
}

type taskRepo struct{ s *Store }

func (r taskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	err := r.s.view(func(tx *bbolt.Tx) error {
		ok, err := get(tx, bucketTasks, id, &task)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrTaskNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r taskRepo) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.s.view(func(tx *bbolt.Tx) error {
		return r.scan(tx, filter, func(t domain.Task) bool {
			tasks = append(tasks, t)
			return true
		})
	})
	if err != nil {
		return nil, err
	}
	repository.SortTasks(tasks)
	return repository.Window(tasks, filter.Offset, filter.Limit), nil
}

func (r taskRepo) Exists(ctx context.Context, filter repository.TaskFilter) (bool, error) {
	found := false
	err := r.s.view(func(tx *bbolt.Tx) error {
		return r.scan(tx, filter, func(domain.Task) bool {
			found = true
			return false
		})
	})
	return found, err
}

// scan walks the tasks bucket and yields matches until yield returns false.
func (r taskRepo) scan(tx *bbolt.Tx, filter repository.TaskFilter, yield func(domain.Task) bool) error {
	c := tx.Bucket(bucketTasks).Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var t domain.Task
		if err := json.Unmarshal(v, &t); err != nil {
			return err
		}
		if filter.Match(&t) && !yield(t) {
			return nil
		}
	}
	return nil
}

func (r taskRepo) Create(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidPayload
	}
	return r.s.update(func(tx *bbolt.Tx) error {
		return put(tx, bucketTasks, task.ID, task)
	})
}

func (r taskRepo) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	return r.s.update(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketTasks).Get([]byte(task.ID)) == nil {
			return domain.ErrTaskNotFound
		}
		return put(tx, bucketTasks, task.ID, task)
	})
}

// clientRecord keeps the secret hash, which domain.Client hides from JSON.
type clientRecord struct {
	ID           string    `json:"client_id"`
	Name         string    `json:"name"`
	SecretHash   string    `json:"secret_hash"`
	RegisteredBy string    `json:"registered_by"`
	CreatedAt    time.Time `json:"created_at"`
}

type clientRepo struct{ s *Store }

func (r clientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	var rec clientRecord
	err := r.s.view(func(tx *bbolt.Tx) error {
		ok, err := get(tx, bucketClients, id, &rec)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrClientNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &domain.Client{
		ID:           rec.ID,
		Name:         rec.Name,
		SecretHash:   rec.SecretHash,
		RegisteredBy: rec.RegisteredBy,
		CreatedAt:    rec.CreatedAt,
	}, nil
}

func (r clientRepo) Create(ctx context.Context, client *domain.Client) error {
	if client == nil || client.ID == "" {
		return domain.ErrInvalidPayload
	}
	return r.s.update(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketClients).Get([]byte(client.ID)) != nil {
			return domain.ErrClientExists
		}
		return put(tx, bucketClients, client.ID, clientRecord{
			ID:           client.ID,
			Name:         client.Name,
			SecretHash:   client.SecretHash,
			RegisteredBy: client.RegisteredBy,
			CreatedAt:    client.CreatedAt,
		})
	})
}
