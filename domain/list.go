package domain

import "time"

// ListStatus enumerates the lifecycle states of a List.
type ListStatus string

const (
	ListActive   ListStatus = "Active"
	ListDeferred ListStatus = "Deferred"
	ListDeleted  ListStatus = "Deleted"
)

func (s ListStatus) Valid() bool {
	switch s {
	case ListActive, ListDeferred, ListDeleted:
		return true
	}
	return false
}

// List is a named collection of tasks owned by a single subject.
type List struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      ListStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Visible reports whether the list takes part in reads and listings.
func (l *List) Visible() bool {
	return l != nil && l.Status != ListDeleted
}

func (l *List) OwnedBy(subject string) bool {
	return l != nil && l.OwnerID == subject
}

// ListPatch carries the fields of a partial update. Nil fields are left untouched.
type ListPatch struct {
	Title       *string
	Description *string
	Status      *ListStatus
}

// Apply copies the set fields of p onto l and stamps UpdatedAt.
func (l *List) Apply(p ListPatch, now time.Time) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Description != nil {
		desc := *p.Description
		l.Description = &desc
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	l.UpdatedAt = now
}

// MarkDeleted soft-deletes the list.
func (l *List) MarkDeleted(now time.Time) {
	l.Status = ListDeleted
	l.UpdatedAt = now
}
