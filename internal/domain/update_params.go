package domain

import (
	"fmt"
	"time"
)

// Update mask field names for UpdateTaskParams.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldDeadline    = "deadline"
	FieldPriority    = "priority"
	FieldTaskType    = "task_type_id"
	FieldAssignees   = "assignee_ids"
)

// Valid fields for UpdateTaskParams. Status is changed through the status toggle only.
var updateTaskValidFields = map[string]struct{}{
	FieldName:        {},
	FieldDescription: {},
	FieldDeadline:    {},
	FieldPriority:    {},
	FieldTaskType:    {},
	FieldAssignees:   {},
}

// UpdateTaskParams contains parameters for editing a task with field mask support.
type UpdateTaskParams struct {
	TaskID int64

	// UpdateMask specifies which fields to update.
	// Only fields in this list will be modified.
	UpdateMask []string

	// Field values (only applied if field is in UpdateMask)
	Name        *string
	Description *string // nil clears the description
	Deadline    *time.Time
	Priority    *TaskPriority
	TaskTypeID  *int64
	AssigneeIDs []int64 // Replaces the whole assignee set; empty clears it
}

// Has reports whether the field is in the update mask.
func (p UpdateTaskParams) Has(field string) bool {
	for _, f := range p.UpdateMask {
		if f == field {
			return true
		}
	}
	return false
}

// Validate checks that UpdateMask contains only known fields and that
// required fields have non-nil values when included in the mask.
func (p UpdateTaskParams) Validate() error {
	if len(p.UpdateMask) == 0 {
		return ErrEmptyUpdateMask
	}

	for _, field := range p.UpdateMask {
		if _, ok := updateTaskValidFields[field]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}

	if p.Has(FieldName) && p.Name == nil {
		return ErrNameRequired
	}
	if p.Has(FieldDeadline) && p.Deadline == nil {
		return ErrDeadlineRequired
	}
	if p.Has(FieldPriority) && p.Priority == nil {
		return fmt.Errorf("%w: priority cannot be cleared", ErrInvalidTaskPriority)
	}
	if p.Has(FieldTaskType) && (p.TaskTypeID == nil || *p.TaskTypeID <= 0) {
		return ErrTaskTypeRequired
	}

	return nil
}
