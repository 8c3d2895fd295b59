package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Field length limits shared by validation and the schema.
const (
	MaxTaskNameLength    = 163
	MaxDescriptionLength = 512
	MaxLabelNameLength   = 63
	MaxSearchLength      = 255
	MaxUsernameLength    = 150
	MaxPersonNameLength  = 30
)

// TaskName is a validated task name value object (1-163 characters).
type TaskName struct {
	value string
}

// NewTaskName creates a new TaskName, validating the input.
func NewTaskName(s string) (TaskName, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return TaskName{}, ErrNameRequired
	}

	if utf8.RuneCountInString(s) > MaxTaskNameLength {
		return TaskName{}, ErrNameTooLong
	}

	return TaskName{value: s}, nil
}

// String returns the name value.
func (n TaskName) String() string {
	return n.value
}

// NewDescription normalizes an optional description.
// Blank input clears the description.
func NewDescription(s *string) (*string, error) {
	if s == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}
	return &trimmed, nil
}

// NewLabelName validates a position or task type name (1-63 characters).
func NewLabelName(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrNameRequired
	}
	if utf8.RuneCountInString(s) > MaxLabelNameLength {
		return "", ErrNameTooLong
	}
	return s, nil
}

// NewTaskStatus validates and creates a TaskStatus. Machine values match exactly.
func NewTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(strings.TrimSpace(s))

	switch status {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTaskStatus, s)
	}
}

// NewTaskPriority validates and creates a TaskPriority. Machine values match exactly.
// Empty input yields the default (medium).
func NewTaskPriority(s string) (TaskPriority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TaskPriorityMedium, nil
	}

	priority := TaskPriority(s)

	switch priority {
	case TaskPriorityUrgent, TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow:
		return priority, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTaskPriority, s)
	}
}

// ParseID parses a positive integer identifier.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}
