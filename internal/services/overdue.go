package services

import (
	"context"
	"log"
	"time"

	"github.com/yukikurage/task-category-api/internal/models"
)

// OverdueReporter logs incomplete tasks whose due date has passed.
type OverdueReporter struct {
	tasks *TaskService
	now   func() time.Time
}

func NewOverdueReporter(tasks *TaskService) *OverdueReporter {
	return &OverdueReporter{
		tasks: tasks,
		now:   time.Now,
	}
}

// Report lists the overdue tasks and logs them.
func (r *OverdueReporter) Report(ctx context.Context) ([]models.Task, error) {
	completed := false
	now := r.now()

	tasks, err := r.tasks.ListTasks(ctx, ListTasksInput{
		Completed: &completed,
		DueDateTo: &now,
	})
	if err != nil {
		return nil, err
	}

	for _, task := range tasks {
		log.Printf("overdue: task %d %q (category %d) was due %s", task.ID, task.Title, task.CategoryID, task.DueDate.Format(time.RFC3339))
	}
	log.Printf("overdue report: %d incomplete task(s) past due", len(tasks))

	return tasks, nil
}
