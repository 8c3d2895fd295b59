package domain

import "errors"

// Domain errors returned by services and repository implementations.

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrTaskNotFound indicates the specified task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskTypeNotFound indicates the specified task type does not exist.
	ErrTaskTypeNotFound = errors.New("task type not found")

	// ErrWorkerNotFound indicates the specified worker does not exist.
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrPositionNotFound indicates the specified position does not exist.
	ErrPositionNotFound = errors.New("position not found")

	// ErrInvalidID indicates the provided ID format is invalid.
	ErrInvalidID = errors.New("invalid ID format")

	// ErrDuplicate indicates a unique constraint (name, username, email) was violated.
	ErrDuplicate = errors.New("already exists")
)

// Permission errors.
var (
	// ErrUnauthenticated is returned when an anonymous actor attempts a write.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden is returned when an authenticated actor lacks permission on a task.
	ErrForbidden = errors.New("permission denied")

	// ErrUnauthorized indicates an invalid, expired, or unknown API key.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidAPIKeyFormat indicates the API key does not follow the expected layout.
	ErrInvalidAPIKeyFormat = errors.New("invalid API key format")
)

// Validation errors.
var (
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name is too long")
	ErrDescriptionTooLong  = errors.New("description must be 512 characters or less")
	ErrDeadlineRequired    = errors.New("deadline is required")
	ErrTaskTypeRequired    = errors.New("task type is required")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
	ErrEmptyUpdateMask     = errors.New("update mask cannot be empty")
	ErrUnknownField        = errors.New("unknown field in update mask")
	ErrUsernameRequired    = errors.New("username is required")
	ErrUsernameTooLong     = errors.New("username is too long")
	ErrInvalidEmail        = errors.New("a valid email is required")
	ErrPersonNameRequired  = errors.New("first and last name are required")
	ErrInvalidReference    = errors.New("referenced record does not exist")
)
