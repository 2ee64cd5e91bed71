package browser

import "github.com/spooldev/spool/internal/domain"

// Msg is the interface for all task browser messages.
// All message types implement this sealed interface.
//
//sumtype:decl
type Msg interface {
	sealed()
}

// MsgTasksLoaded is sent when the task list has been materialized.
type MsgTasksLoaded struct {
	Err   error
	Tasks []*domain.Task
}

func (MsgTasksLoaded) sealed() {}
