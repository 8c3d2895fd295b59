package domain

// TaskStatus represents the current state of a task.
// Value object - immutable string enum. Any status may follow any other.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
)

// TaskPriority represents the priority level of a task.
// Value object - immutable string enum.
type TaskPriority string

const (
	TaskPriorityUrgent TaskPriority = "urgent"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityLow    TaskPriority = "low"
)

// TaskStatuses returns every status in board order.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone}
}

// ActiveStatuses returns the statuses of tasks that still need work.
func ActiveStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusReview}
}

// TaskPriorities returns every priority from most to least pressing.
func TaskPriorities() []TaskPriority {
	return []TaskPriority{TaskPriorityUrgent, TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow}
}

// Display returns the human label for the status.
func (s TaskStatus) Display() string {
	switch s {
	case TaskStatusTodo:
		return "To Do"
	case TaskStatusInProgress:
		return "In Progress"
	case TaskStatusReview:
		return "Review"
	case TaskStatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// Display returns the human label for the priority.
func (p TaskPriority) Display() string {
	switch p {
	case TaskPriorityUrgent:
		return "Urgent"
	case TaskPriorityHigh:
		return "High"
	case TaskPriorityMedium:
		return "Medium"
	case TaskPriorityLow:
		return "Low"
	default:
		return string(p)
	}
}

// StatsBasis selects which timestamp places a completed task into a weekly window.
type StatsBasis string

const (
	// StatsBasisCreated buckets completed tasks by creation time.
	StatsBasisCreated StatsBasis = "created"
	// StatsBasisCompleted buckets completed tasks by the moment they were marked done.
	StatsBasisCompleted StatsBasis = "completed"
)
