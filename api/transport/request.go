package transport

import "github.com/fastygo/tasklists/domain"

type ListCreateRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// ListUpdateRequest is a partial patch; absent or null fields are left untouched.
type ListUpdateRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Status      *domain.ListStatus `json:"status"`
}

func (r ListUpdateRequest) Patch() domain.ListPatch {
	return domain.ListPatch{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
	}
}

type TaskCreateRequest struct {
	Title       string               `json:"title"`
	Description *string              `json:"description"`
	Priority    *domain.TaskPriority `json:"priority"`
	DueDate     *domain.Date         `json:"due_date"`
}

// TaskUpdateRequest is a partial patch; absent or null fields are left untouched.
type TaskUpdateRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *domain.TaskStatus   `json:"status"`
	Priority    *domain.TaskPriority `json:"priority"`
	DueDate     *domain.Date         `json:"due_date"`
}

func (r TaskUpdateRequest) Patch() domain.TaskPatch {
	return domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		DueDate:     r.DueDate,
	}
}

type TokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type ClientRegisterRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Name         string `json:"name"`
}
