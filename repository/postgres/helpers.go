package postgres

import (
	"time"

	"github.com/fastygo/tasklists/domain"
)

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func dueDate(d *domain.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.Time
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > domain.MaxPageLimit {
		return domain.MaxPageLimit
	}
	return limit
}
