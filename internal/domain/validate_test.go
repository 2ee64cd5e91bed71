package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var auditBase = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func auditEvent(file string, line int, e Event) SourcedEvent {
	if e.V == 0 {
		e.V = SchemaVersion
	}
	if e.Author == "" {
		e.Author = "alice"
	}
	return SourcedEvent{Event: e, File: file, Line: line}
}

func createdTask(id string) []SourcedEvent {
	return []SourcedEvent{
		auditEvent("a.jsonl", 1, Event{
			ID: id, TaskID: id, Seq: 1, Timestamp: auditBase,
			Op: Operation{Type: OpCreate, Title: "task " + id},
		}),
	}
}

func findByCategory(diags []Diagnostic, cat DiagCategory) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Category == cat {
			out = append(out, d)
		}
	}
	return out
}

func TestAuditCleanLog(t *testing.T) {
	events := createdTask("t1")
	events = append(events, auditEvent("a.jsonl", 2, Event{
		ID: "e2", TaskID: "t1", Seq: 2, Timestamp: auditBase.Add(time.Hour),
		Op: Operation{Type: OpComplete, Resolution: ResolutionDone},
	}))

	diags := Audit(events, nil)
	assert.Empty(t, diags)
}

func TestAuditCarriesParseDiagnostics(t *testing.T) {
	parse := []Diagnostic{{
		Category: DiagParse,
		Severity: SeverityError,
		File:     "a.jsonl",
		Line:     3,
		Message:  "invalid JSON",
	}}

	diags := Audit(createdTask("t1"), parse)
	require.Len(t, diags, 1)
	assert.Equal(t, DiagParse, diags[0].Category)
	assert.True(t, HasErrors(diags))
}

func TestAuditMissingFields(t *testing.T) {
	events := []SourcedEvent{{
		Event: Event{V: SchemaVersion, TaskID: "t1", Op: Operation{Type: OpCreate, Title: "x"}},
		File:  "a.jsonl",
		Line:  1,
	}}

	diags := Audit(events, nil)
	schema := findByCategory(diags, DiagSchema)
	require.Len(t, schema, 1)
	assert.Equal(t, SeverityError, schema[0].Severity)
	assert.Contains(t, schema[0].Message, "event_id")
	assert.Contains(t, schema[0].Message, "seq")
}

func TestAuditUnknownSchemaVersion(t *testing.T) {
	events := createdTask("t1")
	events[0].Event.V = 7

	diags := Audit(events, nil)
	version := findByCategory(diags, DiagVersion)
	require.Len(t, version, 1)
	assert.Equal(t, SeverityWarning, version[0].Severity)
	assert.False(t, HasErrors(diags))
}

func TestAuditDuplicateEventID(t *testing.T) {
	events := createdTask("t1")
	events = append(events, auditEvent("b.jsonl", 4, Event{
		ID: "t1", TaskID: "t1", Seq: 2, Timestamp: auditBase.Add(time.Hour),
		Op: Operation{Type: OpComment, Body: "copied line"},
	}))

	diags := Audit(events, nil)
	dup := findByCategory(diags, DiagDuplicateID)
	require.Len(t, dup, 1)
	assert.Equal(t, SeverityError, dup[0].Severity)
	assert.Equal(t, "b.jsonl", dup[0].File)
	assert.Equal(t, 4, dup[0].Line)
	assert.Contains(t, dup[0].Message, "a.jsonl:1")
}

func TestAuditDuplicateSeq(t *testing.T) {
	events := createdTask("t1")
	events = append(events,
		auditEvent("a.jsonl", 2, Event{
			ID: "e2", TaskID: "t1", Seq: 2, Timestamp: auditBase.Add(time.Hour),
			Op: Operation{Type: OpAssign, Assignee: "bob"},
		}),
		auditEvent("b.jsonl", 1, Event{
			ID: "e3", TaskID: "t1", Seq: 2, Timestamp: auditBase.Add(2 * time.Hour),
			Op: Operation{Type: OpAssign, Assignee: "carol"},
		}),
	)

	diags := Audit(events, nil)
	dup := findByCategory(diags, DiagDuplicateSeq)
	require.Len(t, dup, 1)
	assert.Equal(t, SeverityError, dup[0].Severity)
	assert.Equal(t, "t1", dup[0].TaskID)
}

func TestAuditSeqGapIsLegal(t *testing.T) {
	// Archival can split a history so active files only hold later seqs.
	events := createdTask("t1")
	events = append(events, auditEvent("a.jsonl", 2, Event{
		ID: "e9", TaskID: "t1", Seq: 9, Timestamp: auditBase.Add(time.Hour),
		Op: Operation{Type: OpComment, Body: "much later"},
	}))

	diags := Audit(events, nil)
	assert.Empty(t, findByCategory(diags, DiagDuplicateSeq))
}

func TestAuditOrphan(t *testing.T) {
	events := []SourcedEvent{auditEvent("a.jsonl", 5, Event{
		ID: "e1", TaskID: "ghost", Seq: 1, Timestamp: auditBase,
		Op: Operation{Type: OpComment, Body: "nobody home"},
	})}

	diags := Audit(events, nil)
	orphans := findByCategory(diags, DiagOrphan)
	require.NotEmpty(t, orphans)
	assert.Equal(t, SeverityWarning, orphans[0].Severity)
	assert.Equal(t, 5, orphans[0].Line)
}

func TestAuditDuplicateCreate(t *testing.T) {
	events := createdTask("t1")
	events = append(events, auditEvent("b.jsonl", 1, Event{
		ID: "e2", TaskID: "t1", Seq: 2, Timestamp: auditBase.Add(time.Hour),
		Op: Operation{Type: OpCreate, Title: "again"},
	}))

	diags := Audit(events, nil)
	dup := findByCategory(diags, DiagDuplicateCreate)
	require.Len(t, dup, 1)
	assert.Equal(t, SeverityWarning, dup[0].Severity)
}

func TestAuditConflictingCompletions(t *testing.T) {
	// Two branches both completed from the same base with different
	// resolutions. Exactly one conflict diagnostic, advisory only.
	events := createdTask("t1")
	events = append(events,
		auditEvent("branch-a.jsonl", 1, Event{
			ID: "a2", TaskID: "t1", Seq: 2, Timestamp: auditBase.Add(time.Hour),
			Op: Operation{Type: OpComplete, Resolution: ResolutionDone},
		}),
		auditEvent("branch-b.jsonl", 1, Event{
			ID: "b2", TaskID: "t1", Seq: 2, Timestamp: auditBase.Add(2 * time.Hour),
			Op: Operation{Type: OpComplete, Resolution: ResolutionWontfix},
		}),
	)

	diags := Audit(events, nil)
	conflicts := findByCategory(diags, DiagConflict)
	require.Len(t, conflicts, 1)
	assert.Equal(t, SeverityAdvisory, conflicts[0].Severity)
	assert.Contains(t, conflicts[0].Message, "wontfix")

	// The duplicate seq remains a structural error in its own right.
	assert.Len(t, findByCategory(diags, DiagDuplicateSeq), 1)
}

func TestAuditSameResolutionIsNotAConflict(t *testing.T) {
	events := createdTask("t1")
	events = append(events,
		auditEvent("branch-a.jsonl", 1, Event{
			ID: "a2", TaskID: "t1", Seq: 2, Timestamp: auditBase.Add(time.Hour),
			Op: Operation{Type: OpComplete},
		}),
		auditEvent("branch-b.jsonl", 1, Event{
			ID: "b2", TaskID: "t1", Seq: 3, Timestamp: auditBase.Add(2 * time.Hour),
			Op: Operation{Type: OpComplete, Resolution: ResolutionDone},
		}),
	)

	diags := Audit(events, nil)
	assert.Empty(t, findByCategory(diags, DiagConflict))
}

func TestAuditReopenedCompletionIsNotAConflict(t *testing.T) {
	events := createdTask("t1")
	events = append(events,
		auditEvent("a.jsonl", 2, Event{
			ID: "e2", TaskID: "t1", Seq: 2, Timestamp: auditBase.Add(time.Hour),
			Op: Operation{Type: OpComplete, Resolution: ResolutionDone},
		}),
		auditEvent("a.jsonl", 3, Event{
			ID: "e3", TaskID: "t1", Seq: 3, Timestamp: auditBase.Add(2 * time.Hour),
			Op: Operation{Type: OpReopen},
		}),
		auditEvent("a.jsonl", 4, Event{
			ID: "e4", TaskID: "t1", Seq: 4, Timestamp: auditBase.Add(3 * time.Hour),
			Op: Operation{Type: OpComplete, Resolution: ResolutionWontfix},
		}),
	)

	diags := Audit(events, nil)
	assert.Empty(t, findByCategory(diags, DiagConflict))
}

func TestAuditAsymmetricLink(t *testing.T) {
	events := append(createdTask("t1"), createdTask("t2")...)
	events = append(events, auditEvent("a.jsonl", 3, Event{
		ID: "e3", TaskID: "t1", Seq: 2, Timestamp: auditBase.Add(time.Hour),
		Op: Operation{Type: OpLink, Rel: RelBlocks, Target: "t2"},
	}))

	diags := Audit(events, nil)
	asym := findByCategory(diags, DiagAsymmetricLink)
	require.Len(t, asym, 1)
	assert.Equal(t, SeverityWarning, asym[0].Severity)
	assert.Equal(t, "t1", asym[0].TaskID)
}

func TestAuditSymmetricLinkIsClean(t *testing.T) {
	events := append(createdTask("t1"), createdTask("t2")...)
	events = append(events,
		auditEvent("a.jsonl", 3, Event{
			ID: "e3", TaskID: "t1", Seq: 2, Timestamp: auditBase.Add(time.Hour),
			Op: Operation{Type: OpLink, Rel: RelBlocks, Target: "t2"},
		}),
		auditEvent("a.jsonl", 4, Event{
			ID: "e4", TaskID: "t2", Seq: 2, Timestamp: auditBase.Add(time.Hour),
			Op: Operation{Type: OpLink, Rel: RelBlockedBy, Target: "t1"},
		}),
	)

	diags := Audit(events, nil)
	assert.Empty(t, findByCategory(diags, DiagAsymmetricLink))
}

func TestAuditDanglingLink(t *testing.T) {
	events := createdTask("t1")
	events = append(events, auditEvent("a.jsonl", 2, Event{
		ID: "e2", TaskID: "t1", Seq: 2, Timestamp: auditBase.Add(time.Hour),
		Op: Operation{Type: OpLink, Rel: RelParent, Target: "nope"},
	}))

	diags := Audit(events, nil)
	dangling := findByCategory(diags, DiagDanglingLink)
	require.Len(t, dangling, 1)
	assert.Contains(t, dangling[0].Message, "nope")
}

func TestCountBySeverity(t *testing.T) {
	diags := []Diagnostic{
		{Severity: SeverityError},
		{Severity: SeverityError},
		{Severity: SeverityWarning},
		{Severity: SeverityAdvisory},
	}
	errs, warns, advs := CountBySeverity(diags)
	assert.Equal(t, 2, errs)
	assert.Equal(t, 1, warns)
	assert.Equal(t, 1, advs)
}
