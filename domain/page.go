package domain

import (
	"math"
	"strconv"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Page is a validated pagination window.
type Page struct {
	Number int
	Limit  int
}

// NewPage validates page >= 1 and 1 <= limit <= MaxPageLimit. A page whose
// offset does not fit in an int is rejected as well.
func NewPage(number, limit int) (Page, error) {
	var fields []FieldError
	validLimit := limit >= 1 && limit <= MaxPageLimit
	switch {
	case number < 1:
		fields = append(fields, FieldError{Field: "page", Message: "must be greater than or equal to 1"})
	case validLimit && number-1 > math.MaxInt/limit:
		fields = append(fields, FieldError{Field: "page", Message: "is out of range"})
	}
	if !validLimit {
		fields = append(fields, FieldError{
			Field:   "limit",
			Message: "must be between 1 and " + strconv.Itoa(MaxPageLimit),
		})
	}
	if len(fields) > 0 {
		return Page{}, Validation(fields...)
	}
	return Page{Number: number, Limit: limit}, nil
}

func DefaultPage() Page {
	return Page{Number: 1, Limit: DefaultPageLimit}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}
