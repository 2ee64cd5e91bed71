package usecase

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/spooldev/spool/internal/domain"
)

// ImportTasksInput contains a YAML document describing tasks to create.
type ImportTasksInput struct {
	Data []byte // YAML document (required)
}

// ImportTasksOutput lists the created task IDs in document order.
type ImportTasksOutput struct {
	TaskIDs []string
}

// importDoc is the YAML shape accepted by import.
type importDoc struct {
	Tasks []importTask `yaml:"tasks"`
}

type importTask struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Priority    string   `yaml:"priority"`
	Assignee    string   `yaml:"assignee"`
	Stream      string   `yaml:"stream"`
	Tags        []string `yaml:"tags"`
}

// ImportTasks is the use case for bulk-creating tasks from a YAML file.
// Each task becomes an ordinary create event; import is sugar, not a
// separate ingestion path.
type ImportTasks struct {
	newTask *NewTask
}

// NewImportTasks creates a new ImportTasks use case.
func NewImportTasks(newTask *NewTask) *ImportTasks {
	return &ImportTasks{newTask: newTask}
}

// Execute parses the document and creates every listed task. The whole
// document is validated before the first event is written so a bad
// entry does not leave a partial import behind.
func (uc *ImportTasks) Execute(ctx context.Context, in ImportTasksInput) (*ImportTasksOutput, error) {
	var doc importDoc
	if err := yaml.Unmarshal(in.Data, &doc); err != nil {
		return nil, fmt.Errorf("parse import file: %w", err)
	}
	if len(doc.Tasks) == 0 {
		return nil, fmt.Errorf("import file contains no tasks")
	}

	for i, task := range doc.Tasks {
		if task.Title == "" {
			return nil, fmt.Errorf("task %d: %w", i+1, domain.ErrEmptyTitle)
		}
		if task.Priority != "" && !domain.Priority(task.Priority).IsValid() {
			return nil, fmt.Errorf("task %d: %w", i+1, domain.ErrInvalidPriority)
		}
	}

	out := &ImportTasksOutput{}
	for _, task := range doc.Tasks {
		created, err := uc.newTask.Execute(ctx, NewTaskInput{
			Title:       task.Title,
			Description: task.Description,
			Priority:    task.Priority,
			Assignee:    task.Assignee,
			Stream:      task.Stream,
			Tags:        task.Tags,
		})
		if err != nil {
			return nil, fmt.Errorf("create %q: %w", task.Title, err)
		}
		out.TaskIDs = append(out.TaskIDs, created.TaskID)
	}
	return out, nil
}
