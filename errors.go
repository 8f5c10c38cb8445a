package authzkit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for authzkit operations. Each maps to a stable wire code
// via Error.Code, so transport layers can surface machine-readable strings
// without leaking store internals.
var (
	// ErrInvalidUser is returned when a user reference does not resolve.
	ErrInvalidUser = errors.New("authzkit: invalid user")

	// ErrInvalidPermission is returned when a permission reference does not
	// resolve during a permission check.
	ErrInvalidPermission = errors.New("authzkit: invalid permission")

	// ErrNotFound is returned when an entity reference does not resolve.
	ErrNotFound = errors.New("authzkit: not found")

	// ErrNameExist is returned when creating an entity with a name that is
	// already taken.
	ErrNameExist = errors.New("authzkit: name exists")

	// ErrHaveNotExist is returned when a relationship mutation references
	// target ids that do not resolve. The Error wrapper carries the missing
	// ids in input order.
	ErrHaveNotExist = errors.New("authzkit: targets do not exist")

	// ErrUnknownSortBy is returned when a listing requests a sort key
	// outside the allow-list.
	ErrUnknownSortBy = errors.New("authzkit: unknown sort key")

	// ErrNoSuchPage is returned when a listing requests a page outside the
	// computed bounds.
	ErrNoSuchPage = errors.New("authzkit: no such page")

	// ErrNoUserID is returned when a user ID is expected in context but
	// absent.
	ErrNoUserID = errors.New("authzkit: no user ID in context")

	// ErrDatabaseError is returned when a store operation fails for reasons
	// unrelated to the request itself.
	ErrDatabaseError = errors.New("authzkit: database error")
)

// Error wraps a sentinel error with request context.
type Error struct {
	Err     error    // Underlying sentinel error
	Message string   // Additional context
	ID      string   // Entity id involved (if applicable)
	Name    string   // Entity name involved (if applicable)
	Missing []string // Unresolved target ids, input order (have-not-exist)
	SortBy  string   // Rejected sort key (unknown-sort-by)
	Page    int      // Rejected page number (no-such-page)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// Code returns the stable machine-readable string for this error. Store
// failures collapse to a generic code so internal detail never crosses the
// boundary.
func (e *Error) Code() string {
	switch {
	case errors.Is(e.Err, ErrInvalidUser):
		return "invalid-user"
	case errors.Is(e.Err, ErrInvalidPermission):
		return "invalid-permission"
	case errors.Is(e.Err, ErrNotFound):
		return "not-found"
	case errors.Is(e.Err, ErrNameExist):
		return "name-exist"
	case errors.Is(e.Err, ErrHaveNotExist):
		return "have-not-exist"
	case errors.Is(e.Err, ErrUnknownSortBy):
		return "unknown-sort-by:" + e.SortBy
	case errors.Is(e.Err, ErrNoSuchPage):
		return "no-such-page:" + strconv.Itoa(e.Page)
	default:
		return "internal-error"
	}
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithID adds the entity id to the error.
func (e *Error) WithID(id string) *Error {
	e.ID = id
	return e
}

// WithName adds the entity name to the error.
func (e *Error) WithName(name string) *Error {
	e.Name = name
	return e
}

// WithMissing attaches the unresolved target ids, preserving input order.
func (e *Error) WithMissing(ids []string) *Error {
	e.Missing = ids
	if e.Message == "" {
		e.Message = strings.Join(ids, ", ")
	}
	return e
}

// WithSortBy records the rejected sort key.
func (e *Error) WithSortBy(sortBy string) *Error {
	e.SortBy = sortBy
	return e
}

// WithPage records the rejected page number.
func (e *Error) WithPage(page int) *Error {
	e.Page = page
	return e
}

// ErrorCode extracts the wire code from any error. Errors that are not
// authzkit errors report "internal-error".
func ErrorCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return "internal-error"
}

// MissingIDs extracts the unresolved target ids from a have-not-exist
// error. Returns nil for any other error.
func MissingIDs(err error) []string {
	var e *Error
	if errors.As(err, &e) && errors.Is(e.Err, ErrHaveNotExist) {
		return e.Missing
	}
	return nil
}

// IsNotFound checks if an error is an unresolved entity reference.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidUser checks if an error is an unresolved user reference.
func IsInvalidUser(err error) bool {
	return errors.Is(err, ErrInvalidUser)
}

// IsInvalidPermission checks if an error is an unresolved permission
// reference.
func IsInvalidPermission(err error) bool {
	return errors.Is(err, ErrInvalidPermission)
}

// IsNameExist checks if an error is a duplicate-name rejection.
func IsNameExist(err error) bool {
	return errors.Is(err, ErrNameExist)
}

// IsHaveNotExist checks if an error is a relationship mutation rejected for
// unresolved targets.
func IsHaveNotExist(err error) bool {
	return errors.Is(err, ErrHaveNotExist)
}
