package domain

import "fmt"

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// StaleEntityError is returned when an update matched no row.
// The row either never existed or was deleted concurrently.
type StaleEntityError struct {
	Resource string
	ID       int64
}

func (e StaleEntityError) Error() string {
	return fmt.Sprintf("%s %d is stale or missing: update affected no rows", e.Resource, e.ID)
}

func (e StaleEntityError) Is(target error) bool {
	_, ok := target.(StaleEntityError)
	if ok {
		return true
	}
	_, ok = target.(*StaleEntityError)
	return ok
}

var ErrStaleEntity = StaleEntityError{}

// ValidationError is a malformed request detected before storage is touched.
// Key is a short machine readable reason such as "idnull".
type ValidationError struct {
	Resource string
	Key      string
	Message  string
}

func (e ValidationError) Error() string {
	return e.Message
}

func (e ValidationError) Is(target error) bool {
	_, ok := target.(ValidationError)
	if ok {
		return true
	}
	_, ok = target.(*ValidationError)
	return ok
}

var ErrValidation = ValidationError{}
