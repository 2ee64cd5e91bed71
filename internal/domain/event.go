package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the event schema version this build writes and fully
// understands. Events with other versions still replay; the validator
// flags them.
const SchemaVersion = 1

// OpType names an event operation. Unknown values are preserved in the
// log and in history output but ignored by replay.
type OpType string

const (
	OpCreate      OpType = "create"
	OpUpdateField OpType = "update_field"
	OpAssign      OpType = "assign"
	OpUnassign    OpType = "unassign"
	OpComment     OpType = "comment"
	OpLink        OpType = "link"
	OpUnlink      OpType = "unlink"
	OpSetStream   OpType = "set_stream"
	OpComplete    OpType = "complete"
	OpReopen      OpType = "reopen"
	OpArchive     OpType = "archive"
)

// IsKnown reports whether this build understands the operation.
func (t OpType) IsKnown() bool {
	switch t {
	case OpCreate, OpUpdateField, OpAssign, OpUnassign, OpComment,
		OpLink, OpUnlink, OpSetStream, OpComplete, OpReopen, OpArchive:
		return true
	}
	return false
}

// LinkRel names the relationship a link or unlink operation edits.
type LinkRel string

const (
	RelBlocks    LinkRel = "blocks"
	RelBlockedBy LinkRel = "blocked_by"
	RelParent    LinkRel = "parent"
)

func (r LinkRel) IsValid() bool {
	switch r {
	case RelBlocks, RelBlockedBy, RelParent:
		return true
	}
	return false
}

// UpdatableFields lists the field names an update_field operation may
// carry. Anything else is rejected at write time and ignored on replay.
var UpdatableFields = []string{"title", "description", "priority", "tags"}

// Operation is the payload of an event. Fields are a union across all
// operation types; each type reads only its own and everything is
// omitted from the line when zero.
type Operation struct {
	Type        OpType         `json:"type"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Priority    Priority       `json:"priority,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Assignee    string         `json:"assignee,omitempty"`
	Stream      string         `json:"stream,omitempty"`
	Parent      string         `json:"parent,omitempty"`
	Fields      map[string]any `json:"fields,omitempty"`
	Body        string         `json:"body,omitempty"`
	Ref         string         `json:"ref,omitempty"`
	Rel         LinkRel        `json:"rel,omitempty"`
	Target      string         `json:"target,omitempty"`
	Resolution  Resolution     `json:"resolution,omitempty"`
}

// Event is one immutable log record. Its ordering key is
// (seq, timestamp, event_id); physical line position carries no meaning.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	ID        string    `json:"event_id"`
	TaskID    string    `json:"task_id"`
	Author    string    `json:"author"`
	Branch    string    `json:"branch,omitempty"`
	Op        Operation `json:"op"`
	Seq       int       `json:"seq"`
	V         int       `json:"v"`
}

// NewEventID returns a time-ordered unique event ID. UUIDv7 keeps the
// lexicographic tie-break roughly chronological.
func NewEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Encode renders the event as a single JSON line, without the trailing
// newline.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// CheckFields returns the names of required fields that are missing or
// zero. An empty result means the event is structurally sound.
func (e Event) CheckFields() []string {
	var missing []string
	if e.ID == "" {
		missing = append(missing, "event_id")
	}
	if e.TaskID == "" {
		missing = append(missing, "task_id")
	}
	if e.Seq <= 0 {
		missing = append(missing, "seq")
	}
	if e.Timestamp.IsZero() {
		missing = append(missing, "timestamp")
	}
	if e.Author == "" {
		missing = append(missing, "author")
	}
	if e.Op.Type == "" {
		missing = append(missing, "op.type")
	}
	return missing
}

// CompareEvents orders two events of the same task by their canonical
// key. Seq dominates: wall clocks across branches are not trusted, and
// the event ID settles exact ties deterministically.
func CompareEvents(a, b Event) int {
	if a.Seq != b.Seq {
		if a.Seq < b.Seq {
			return -1
		}
		return 1
	}
	at, bt := a.Timestamp.UTC(), b.Timestamp.UTC()
	if !at.Equal(bt) {
		if at.Before(bt) {
			return -1
		}
		return 1
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

// SourcedEvent pairs a decoded event with its provenance. Raw holds the
// verbatim line so unknown fields survive archival byte for byte.
type SourcedEvent struct {
	Event Event
	File  string
	Raw   []byte
	Line  int
}

// CompareSourcedEvents orders sourced events by their embedded key.
func CompareSourcedEvents(a, b SourcedEvent) int {
	return CompareEvents(a.Event, b.Event)
}
