package memory

import (
	"context"

	"github.com/fastygo/tasklists/domain"
	"github.com/fastygo/tasklists/repository"
)

type listRepo struct{ s *Store }

func (r listRepo) GetByID(ctx context.Context, id string) (*domain.List, error) {
	var out *domain.List
	err := r.s.with(func(t *tables) error {
		l, ok := t.lists[id]
		if !ok {
			return domain.ErrListNotFound
		}
		out = &l
		return nil
	})
	return out, err
}

func (r listRepo) Lock(ctx context.Context, id string) (*domain.List, error) {
	return r.GetByID(ctx, id)
}

func (r listRepo) List(ctx context.Context, filter repository.ListFilter) ([]domain.List, error) {
	var out []domain.List
	err := r.s.with(func(t *tables) error {
		for _, l := range t.lists {
			if filter.Match(&l) {
				out = append(out, l)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	repository.SortLists(out)
	return repository.Window(out, filter.Offset, filter.Limit), nil
}

func (r listRepo) Create(ctx context.Context, list *domain.List) error {
	if list == nil || list.ID == "" {
		return domain.ErrInvalidPayload
	}
	return r.s.with(func(t *tables) error {
		t.lists[list.ID] = *list
		return nil
	})
}

func (r listRepo) Update(ctx context.Context, list *domain.List) error {
	if list == nil {
		return domain.ErrInvalidPayload
	}
	return r.s.with(func(t *tables) error {
		if _, ok := t.lists[list.ID]; !ok {
			return domain.ErrListNotFound
		}
		t.lists[list.ID] = *list
		return nil
	})
}

type taskRepo struct{ s *Store }

func (r taskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var out *domain.Task
	err := r.s.with(func(t *tables) error {
		task, ok := t.tasks[id]
		if !ok {
			return domain.ErrTaskNotFound
		}
		out = &task
		return nil
	})
	return out, err
}

func (r taskRepo) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	err := r.s.with(func(t *tables) error {
		for _, task := range t.tasks {
			if filter.Match(&task) {
				out = append(out, task)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	repository.SortTasks(out)
	return repository.Window(out, filter.Offset, filter.Limit), nil
}

func (r taskRepo) Exists(ctx context.Context, filter repository.TaskFilter) (bool, error) {
	found := false
	err := r.s.with(func(t *tables) error {
		for _, task := range t.tasks {
			if filter.Match(&task) {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r taskRepo) Create(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidPayload
	}
	return r.s.with(func(t *tables) error {
		t.tasks[task.ID] = *task
		return nil
	})
}

func (r taskRepo) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	return r.s.with(func(t *tables) error {
		if _, ok := t.tasks[task.ID]; !ok {
			return domain.ErrTaskNotFound
		}
		t.tasks[task.ID] = *task
		return nil
	})
}

type clientRepo struct{ s *Store }

func (r clientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	var out *domain.Client
	err := r.s.with(func(t *tables) error {
		c, ok := t.clients[id]
		if !ok {
			return domain.ErrClientNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r clientRepo) Create(ctx context.Context, client *domain.Client) error {
	if client == nil || client.ID == "" {
		return domain.ErrInvalidPayload
	}
	return r.s.with(func(t *tables) error {
		if _, ok := t.clients[client.ID]; ok {
			return domain.ErrClientExists
		}
		t.clients[client.ID] = *client
		return nil
	})
}
