package domain

import (
	"fmt"
	"slices"
)

// Audit checks raw log contents for structural and referential
// integrity. It works from the scanned events and parse diagnostics
// alone, never from a cache. Structural problems (malformed lines,
// missing fields, reused identifiers) are errors; referential oddities
// (orphans, asymmetric or dangling links) are warnings; divergent
// concurrent completions are conflicts, advisory by design because the
// replay tie-break already produced a usable state.
func Audit(events []SourcedEvent, parseDiags []Diagnostic) []Diagnostic {
	diags := slices.Clone(parseDiags)

	diags = append(diags, auditFields(events)...)
	diags = append(diags, auditDuplicateIDs(events)...)
	diags = append(diags, auditTaskTimelines(events)...)
	diags = append(diags, auditReferences(events)...)

	return diags
}

// HasErrors returns true if any diagnostic is a structural error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// auditFields checks every event for required fields and a known schema
// version.
func auditFields(events []SourcedEvent) []Diagnostic {
	var diags []Diagnostic
	for _, ev := range events {
		if missing := ev.Event.CheckFields(); len(missing) > 0 {
			diags = append(diags, Diagnostic{
				Category: DiagSchema,
				Severity: SeverityError,
				File:     ev.File,
				Line:     ev.Line,
				TaskID:   ev.Event.TaskID,
				Message:  fmt.Sprintf("missing required fields: %v", missing),
			})
		}
		if ev.Event.V != SchemaVersion {
			diags = append(diags, Diagnostic{
				Category: DiagVersion,
				Severity: SeverityWarning,
				File:     ev.File,
				Line:     ev.Line,
				TaskID:   ev.Event.TaskID,
				Message:  fmt.Sprintf("unknown schema version %d", ev.Event.V),
			})
		}
	}
	return diags
}

// auditDuplicateIDs flags event IDs that appear more than once across
// all files. Event IDs are never reused, so a duplicate means a copied
// line (for example a double-applied patch).
func auditDuplicateIDs(events []SourcedEvent) []Diagnostic {
	var diags []Diagnostic
	seen := make(map[string]SourcedEvent, len(events))
	for _, ev := range events {
		id := ev.Event.ID
		if id == "" {
			continue
		}
		if first, ok := seen[id]; ok {
			diags = append(diags, Diagnostic{
				Category: DiagDuplicateID,
				Severity: SeverityError,
				File:     ev.File,
				Line:     ev.Line,
				TaskID:   ev.Event.TaskID,
				Message:  fmt.Sprintf("event_id %s already used at %s:%d", id, first.File, first.Line),
			})
			continue
		}
		seen[id] = ev
	}
	return diags
}

// auditTaskTimelines walks each task's events in canonical order and
// checks seq usage, create placement and completion conflicts.
func auditTaskTimelines(events []SourcedEvent) []Diagnostic {
	byTask := make(map[string][]SourcedEvent)
	for _, ev := range events {
		if ev.Event.TaskID == "" {
			continue
		}
		byTask[ev.Event.TaskID] = append(byTask[ev.Event.TaskID], ev)
	}

	ids := make([]string, 0, len(byTask))
	for id := range byTask {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var diags []Diagnostic
	for _, id := range ids {
		group := byTask[id]
		slices.SortStableFunc(group, CompareSourcedEvents)
		diags = append(diags, auditTimeline(id, group)...)
	}
	return diags
}

func auditTimeline(taskID string, group []SourcedEvent) []Diagnostic {
	var diags []Diagnostic

	created := false
	status := StatusOpen
	var resolution Resolution
	seqAt := make(map[int]SourcedEvent, len(group))

	for _, ev := range group {
		e := ev.Event

		// Gaps in seq are legal (archival splits a history across
		// files); a repeated value is not.
		if e.Seq > 0 {
			if first, ok := seqAt[e.Seq]; ok {
				diags = append(diags, Diagnostic{
					Category: DiagDuplicateSeq,
					Severity: SeverityError,
					File:     ev.File,
					Line:     ev.Line,
					TaskID:   taskID,
					Message:  fmt.Sprintf("seq %d already used at %s:%d", e.Seq, first.File, first.Line),
				})
			} else {
				seqAt[e.Seq] = ev
			}
		}

		switch e.Op.Type {
		case OpCreate:
			if created {
				diags = append(diags, Diagnostic{
					Category: DiagDuplicateCreate,
					Severity: SeverityWarning,
					File:     ev.File,
					Line:     ev.Line,
					TaskID:   taskID,
					Message:  fmt.Sprintf("duplicate create for task %s", taskID),
				})
				continue
			}
			created = true
		case OpComplete:
			if !created {
				diags = append(diags, orphanDiag(taskID, ev))
				continue
			}
			incoming := e.Op.Resolution
			if incoming == "" {
				incoming = ResolutionDone
			}
			if status == StatusComplete && incoming != resolution {
				diags = append(diags, Diagnostic{
					Category: DiagConflict,
					Severity: SeverityAdvisory,
					File:     ev.File,
					Line:     ev.Line,
					TaskID:   taskID,
					Message: fmt.Sprintf(
						"concurrent completions with different resolutions (%s, then %s); %s wins by ordering key",
						resolution, incoming, incoming),
				})
			}
			status = StatusComplete
			resolution = incoming
		case OpReopen:
			if !created {
				diags = append(diags, orphanDiag(taskID, ev))
				continue
			}
			status = StatusOpen
			resolution = ""
		default:
			if !created {
				diags = append(diags, orphanDiag(taskID, ev))
			}
		}
	}

	return diags
}

func orphanDiag(taskID string, ev SourcedEvent) Diagnostic {
	return Diagnostic{
		Category: DiagOrphan,
		Severity: SeverityWarning,
		File:     ev.File,
		Line:     ev.Line,
		TaskID:   taskID,
		Message:  fmt.Sprintf("%s event for task %s before create", ev.Event.Op.Type, taskID),
	}
}

// auditReferences materializes the state and checks link symmetry and
// link target existence. Replay tolerates asymmetry and reflects it
// as-is; only the audit reports it.
func auditReferences(events []SourcedEvent) []Diagnostic {
	state := Replay(events).State

	ids := make([]string, 0, len(state.Tasks))
	for id := range state.Tasks {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var diags []Diagnostic
	for _, id := range ids {
		task := state.Tasks[id]

		for _, target := range task.Links.Blocks {
			other := state.Get(target)
			if other == nil {
				diags = append(diags, danglingDiag(id, "blocks", target))
				continue
			}
			if !slices.Contains(other.Links.BlockedBy, id) {
				diags = append(diags, Diagnostic{
					Category: DiagAsymmetricLink,
					Severity: SeverityWarning,
					TaskID:   id,
					Message:  fmt.Sprintf("task %s blocks %s but %s is not blocked_by %s", id, target, target, id),
				})
			}
		}

		for _, target := range task.Links.BlockedBy {
			other := state.Get(target)
			if other == nil {
				diags = append(diags, danglingDiag(id, "blocked_by", target))
				continue
			}
			if !slices.Contains(other.Links.Blocks, id) {
				diags = append(diags, Diagnostic{
					Category: DiagAsymmetricLink,
					Severity: SeverityWarning,
					TaskID:   id,
					Message:  fmt.Sprintf("task %s blocked_by %s but %s does not block %s", id, target, target, id),
				})
			}
		}

		if p := task.Links.Parent; p != "" && state.Get(p) == nil {
			diags = append(diags, danglingDiag(id, "parent", p))
		}
	}
	return diags
}

func danglingDiag(taskID, rel, target string) Diagnostic {
	return Diagnostic{
		Category: DiagDanglingLink,
		Severity: SeverityWarning,
		TaskID:   taskID,
		Message:  fmt.Sprintf("task %s references non-existent %s target %s", taskID, rel, target),
	}
}
