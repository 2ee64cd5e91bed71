package usecase

import (
	"context"

	"github.com/spooldev/spool/internal/domain"
)

// CommentTaskInput contains the parameters for commenting on a task.
type CommentTaskInput struct {
	TaskID string // Task ID or unique prefix (required)
	Body   string // Comment text (required)
	Ref    string // External reference, e.g. a commit SHA (optional)
}

// CommentTaskOutput contains the result of adding a comment.
type CommentTaskOutput struct {
	TaskID string
}

// CommentTask is the use case for appending a comment to a task.
type CommentTask struct {
	writer eventWriter
}

// NewCommentTask creates a new CommentTask use case.
func NewCommentTask(log domain.EventLog, state domain.StateStore, identity domain.Identity, clock domain.Clock, logger domain.Logger) *CommentTask {
	return &CommentTask{writer: newEventWriter(log, state, identity, clock, logger)}
}

// Execute appends a comment event.
func (uc *CommentTask) Execute(_ context.Context, in CommentTaskInput) (*CommentTaskOutput, error) {
	if in.Body == "" {
		return nil, domain.ErrEmptyComment
	}

	task, err := uc.writer.loadTask(in.TaskID)
	if err != nil {
		return nil, err
	}

	_, err = uc.writer.append(task, domain.Operation{
		Type: domain.OpComment,
		Body: in.Body,
		Ref:  in.Ref,
	})
	if err != nil {
		return nil, err
	}
	return &CommentTaskOutput{TaskID: task.ID}, nil
}
