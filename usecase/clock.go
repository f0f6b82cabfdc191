package usecase

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies timestamps for created_at/updated_at stamping.
type Clock func() time.Time

// SystemClock returns UTC wall time truncated to the precision Postgres keeps,
// so a record reads back exactly as it was written.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// IDGenerator produces record identifiers.
type IDGenerator func() string

func NewID() string {
	return uuid.NewString()
}
