package club

import (
	"errors"
	"fmt"
)

var (
	ErrMemberNotFound           = errors.New("member not found")
	ErrMemberExists             = errors.New("member already exists")
	ErrMatchNotFound            = errors.New("match not found")
	ErrSeasonNotFound           = errors.New("season not found")
	ErrConflictingMemberFilters = errors.New("only one of memberId, memberIds or memberName may be specified at a time")
	ErrInvalidPointsType        = errors.New("invalid points type")
)

// ValidationError reports input the store refuses to persist.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
