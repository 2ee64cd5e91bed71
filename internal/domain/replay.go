package domain

import (
	"fmt"
	"slices"
	"time"
)

// ReplayResult carries the materialized output of one replay pass.
type ReplayResult struct {
	State       *State
	Index       *Index
	Diagnostics []Diagnostic
}

// Replay folds events into the canonical task state. The input may come
// from any number of files in any physical order; correctness depends
// only on each event's embedded ordering key. Events are grouped per
// task, sorted by (seq, timestamp, event_id) and folded through a pure
// transition function. Operations on tasks that were never created are
// reported as orphan diagnostics and skipped. Unknown operation types
// are skipped without touching known fields.
func Replay(events []SourcedEvent) *ReplayResult {
	byTask := make(map[string][]SourcedEvent)
	var diags []Diagnostic
	for _, ev := range events {
		if ev.Event.TaskID == "" {
			diags = append(diags, Diagnostic{
				Category: DiagSchema,
				Severity: SeverityWarning,
				File:     ev.File,
				Line:     ev.Line,
				Message:  "event without task_id skipped",
			})
			continue
		}
		byTask[ev.Event.TaskID] = append(byTask[ev.Event.TaskID], ev)
	}

	state := NewState()
	index := NewIndex()

	// Iterate tasks in ID order so diagnostics come out deterministic.
	ids := make([]string, 0, len(byTask))
	for id := range byTask {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		group := byTask[id]
		slices.SortStableFunc(group, CompareSourcedEvents)

		task, taskDiags := foldTask(id, group)
		diags = append(diags, taskDiags...)
		if task == nil {
			continue
		}
		state.Tasks[id] = task
		index.Tasks[id] = indexEntry(task, group)
	}

	return &ReplayResult{State: state, Index: index, Diagnostics: diags}
}

// foldTask runs the transition function over one task's sorted events.
// Returns nil if the group contains no create event.
func foldTask(id string, group []SourcedEvent) (*Task, []Diagnostic) {
	var task *Task
	var diags []Diagnostic

	for _, ev := range group {
		e := ev.Event
		op := e.Op

		if !op.Type.IsKnown() {
			// Forward compatibility: the event stays in the log (and in
			// history output) but known fields are untouched. The seq is
			// still consumed so later writers do not reuse it.
			if task != nil && e.Seq > task.LastSeq {
				task.LastSeq = e.Seq
			}
			continue
		}

		if op.Type == OpCreate {
			if task != nil {
				// Identity is immutable once created; a second create
				// (merged from a duplicate branch) is ignored here and
				// reported by the validator.
				continue
			}
			task = newTaskFromCreate(id, e)
			continue
		}

		if task == nil {
			diags = append(diags, Diagnostic{
				Category: DiagOrphan,
				Severity: SeverityWarning,
				File:     ev.File,
				Line:     ev.Line,
				TaskID:   id,
				Message:  fmt.Sprintf("%s event for task %s with no prior create", op.Type, id),
			})
			continue
		}

		applyOp(task, e)
	}

	return task, diags
}

// newTaskFromCreate seeds a task from its create event.
func newTaskFromCreate(id string, e Event) *Task {
	op := e.Op
	ts := e.Timestamp.UTC()
	return &Task{
		ID:            id,
		Title:         op.Title,
		Description:   op.Description,
		Priority:      op.Priority,
		Status:        StatusOpen,
		Assignee:      op.Assignee,
		Stream:        op.Stream,
		Tags:          normalizeTags(op.Tags),
		Links:         Links{Parent: op.Parent},
		CreatedAt:     ts,
		CreatedBy:     e.Author,
		CreatedBranch: e.Branch,
		UpdatedAt:     ts,
		LastSeq:       e.Seq,
	}
}

// applyOp mutates only the fields the operation names. It never rejects:
// replay must stay total so one surprising event cannot make the task
// set unreadable. Write-time validation lives in the apply use case.
func applyOp(task *Task, e Event) {
	op := e.Op
	ts := e.Timestamp.UTC()

	switch op.Type {
	case OpUpdateField:
		applyFieldUpdates(task, op.Fields)
	case OpAssign:
		task.Assignee = op.Assignee
	case OpUnassign:
		task.Assignee = ""
	case OpComment:
		task.Comments = append(task.Comments, Comment{
			Timestamp: ts,
			Author:    e.Author,
			Body:      op.Body,
			Ref:       op.Ref,
		})
	case OpLink:
		applyLink(task, op.Rel, op.Target)
	case OpUnlink:
		applyUnlink(task, op.Rel, op.Target)
	case OpSetStream:
		task.Stream = op.Stream
	case OpComplete:
		task.Status = StatusComplete
		completed := ts
		task.CompletedAt = &completed
		task.Resolution = op.Resolution
		if task.Resolution == "" {
			task.Resolution = ResolutionDone
		}
	case OpReopen:
		task.Status = StatusOpen
		task.CompletedAt = nil
		task.Resolution = ""
	case OpArchive:
		task.Archived = op.Ref
	}

	task.UpdatedAt = ts
	if e.Seq > task.LastSeq {
		task.LastSeq = e.Seq
	}
}

func applyFieldUpdates(task *Task, fields map[string]any) {
	for name, value := range fields {
		switch name {
		case "title":
			if s, ok := value.(string); ok {
				task.Title = s
			}
		case "description":
			if s, ok := value.(string); ok {
				task.Description = s
			}
		case "priority":
			if s, ok := value.(string); ok {
				task.Priority = Priority(s)
			}
		case "tags":
			if tags, ok := toStringSlice(value); ok {
				task.Tags = normalizeTags(tags)
			}
		}
	}
}

func applyLink(task *Task, rel LinkRel, target string) {
	switch rel {
	case RelBlocks:
		task.Links.Blocks = addSorted(task.Links.Blocks, target)
	case RelBlockedBy:
		task.Links.BlockedBy = addSorted(task.Links.BlockedBy, target)
	case RelParent:
		task.Links.Parent = target
	}
}

func applyUnlink(task *Task, rel LinkRel, target string) {
	switch rel {
	case RelBlocks:
		task.Links.Blocks = removeSorted(task.Links.Blocks, target)
	case RelBlockedBy:
		task.Links.BlockedBy = removeSorted(task.Links.BlockedBy, target)
	case RelParent:
		if task.Links.Parent == target {
			task.Links.Parent = ""
		}
	}
}

// normalizeTags sorts and deduplicates so tag sets replay the same
// regardless of input order.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := slices.Clone(tags)
	slices.Sort(out)
	return slices.Compact(out)
}

// toStringSlice converts a decoded JSON array to []string.
func toStringSlice(v any) ([]string, bool) {
	switch vv := v.(type) {
	case []string:
		return vv, true
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// indexEntry derives the listing record for a task, including which log
// files its events live in.
func indexEntry(task *Task, group []SourcedEvent) IndexEntry {
	files := make([]string, 0, 2)
	for _, ev := range group {
		if ev.File != "" && !slices.Contains(files, ev.File) {
			files = append(files, ev.File)
		}
	}
	slices.Sort(files)

	entry := IndexEntry{
		Title:    task.Title,
		Status:   task.Status,
		Priority: task.Priority,
		Assignee: task.Assignee,
		Stream:   task.Stream,
		Created:  task.CreatedAt.Format(time.DateOnly),
		Updated:  task.UpdatedAt.Format(time.DateOnly),
		Archived: task.Archived,
		Files:    files,
	}
	if task.CompletedAt != nil {
		entry.Completed = task.CompletedAt.Format(time.DateOnly)
	}
	return entry
}
