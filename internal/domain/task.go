package domain

import (
	"slices"
	"strings"
	"time"
)

// Status is the lifecycle state of a task.
type Status string

// Task statuses.
const (
	StatusOpen     Status = "open"
	StatusComplete Status = "complete"
)

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	return s == StatusOpen || s == StatusComplete
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusOpen:
		return "Open"
	case StatusComplete:
		return "Complete"
	default:
		return string(s)
	}
}

// Resolution records why a task was completed. It is set only while the
// task is complete and cleared again by reopen.
type Resolution string

// Resolutions.
const (
	ResolutionDone      Resolution = "done"
	ResolutionWontfix   Resolution = "wontfix"
	ResolutionDuplicate Resolution = "duplicate"
	ResolutionObsolete  Resolution = "obsolete"
)

// IsValid returns true if the resolution is a known value.
func (r Resolution) IsValid() bool {
	switch r {
	case ResolutionDone, ResolutionWontfix, ResolutionDuplicate, ResolutionObsolete:
		return true
	default:
		return false
	}
}

// Priority is the urgency band of a task, p0 (highest) through p3.
type Priority string

// Priorities.
const (
	PriorityP0 Priority = "p0"
	PriorityP1 Priority = "p1"
	PriorityP2 Priority = "p2"
	PriorityP3 Priority = "p3"
)

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityP0, PriorityP1, PriorityP2, PriorityP3:
		return true
	default:
		return false
	}
}

// Comment is a note attached to a task during replay.
// Fields are ordered to minimize memory padding.
type Comment struct {
	Timestamp time.Time `json:"timestamp"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	Ref       string    `json:"ref,omitempty"`
}

// Links holds the relationships of a task to other tasks. Blocks and
// BlockedBy are kept sorted so replay output is deterministic.
type Links struct {
	Blocks    []string `json:"blocks,omitempty"`
	BlockedBy []string `json:"blocked_by,omitempty"`
	Parent    string   `json:"parent,omitempty"`
}

// addSorted inserts v into the sorted set s if absent.
func addSorted(s []string, v string) []string {
	i, found := slices.BinarySearch(s, v)
	if found {
		return s
	}
	return slices.Insert(s, i, v)
}

// removeSorted deletes v from the sorted set s if present.
func removeSorted(s []string, v string) []string {
	i, found := slices.BinarySearch(s, v)
	if !found {
		return s
	}
	return slices.Delete(s, i, i+1)
}

// Task is the materialized view of one task. It is never persisted as a
// source of truth; it exists only as replay output and inside the
// disposable caches.
// Fields are ordered to minimize memory padding.
type Task struct {
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Priority      Priority   `json:"priority,omitempty"`
	Status        Status     `json:"status"`
	Resolution    Resolution `json:"resolution,omitempty"`
	Assignee      string     `json:"assignee,omitempty"`
	Stream        string     `json:"stream,omitempty"`
	CreatedBy     string     `json:"created_by,omitempty"`
	CreatedBranch string     `json:"created_branch,omitempty"`
	Archived      string     `json:"archived,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Comments      []Comment  `json:"comments,omitempty"`
	Links         Links      `json:"links"`
	LastSeq       int        `json:"last_seq"`
}

// IsArchived returns true if the task's history has been moved to an
// archive partition.
func (t *Task) IsArchived() bool {
	return t.Archived != ""
}

// HasTag returns true if the task carries the given tag.
func (t *Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// State is the full materialized mapping of task ID to task. Disposable;
// deleting it costs only recomputation.
type State struct {
	Tasks map[string]*Task `json:"tasks"`
}

// NewState returns an empty state.
func NewState() *State {
	return &State{Tasks: make(map[string]*Task)}
}

// Get returns the task with the given ID, or nil.
func (s *State) Get(id string) *Task {
	return s.Tasks[id]
}

// Sorted returns all tasks ordered by creation time, then ID.
func (s *State) Sorted() []*Task {
	tasks := make([]*Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		tasks = append(tasks, t)
	}
	slices.SortFunc(tasks, func(a, b *Task) int {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if a.CreatedAt.Before(b.CreatedAt) {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
	return tasks
}

// IndexEntry is the lightweight listing record kept per task in the
// index cache.
// Fields are ordered to minimize memory padding.
type IndexEntry struct {
	Title     string   `json:"title"`
	Status    Status   `json:"status"`
	Priority  Priority `json:"priority,omitempty"`
	Assignee  string   `json:"assignee,omitempty"`
	Stream    string   `json:"stream,omitempty"`
	Created   string   `json:"created"`
	Updated   string   `json:"updated"`
	Completed string   `json:"completed,omitempty"`
	Archived  string   `json:"archived,omitempty"`
	Files     []string `json:"files,omitempty"`
}

// Index maps task IDs to listing entries. Like State it is derived and
// disposable.
type Index struct {
	Tasks map[string]IndexEntry `json:"tasks"`
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{Tasks: make(map[string]IndexEntry)}
}
