package task

import "github.com/rezkam/taskdesk/internal/domain"

// GroupByStatus partitions tasks into board columns, keeping input order within
// each column. Tasks with an unrecognized status land in the todo column so that
// nothing is dropped.
func GroupByStatus(tasks []domain.Task) domain.Board {
	var b domain.Board
	for _, t := range tasks {
		switch t.Status {
		case domain.TaskStatusInProgress:
			b.InProgress = append(b.InProgress, t)
		case domain.TaskStatusReview:
			b.Review = append(b.Review, t)
		case domain.TaskStatusDone:
			b.Done = append(b.Done, t)
		default:
			b.Todo = append(b.Todo, t)
		}
	}
	return b
}
