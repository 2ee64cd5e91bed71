package domain

import "fmt"

// DiagCategory classifies a diagnostic produced by replay or validation.
type DiagCategory string

// Diagnostic categories.
const (
	DiagParse           DiagCategory = "parse"            // malformed line
	DiagSchema          DiagCategory = "schema"           // missing required fields
	DiagVersion         DiagCategory = "version"          // unknown schema version
	DiagDuplicateID     DiagCategory = "duplicate_id"     // event_id reused
	DiagDuplicateSeq    DiagCategory = "duplicate_seq"    // seq reused within a task
	DiagDuplicateCreate DiagCategory = "duplicate_create" // second create for a task
	DiagOrphan          DiagCategory = "orphan"           // operation with no prior create
	DiagAsymmetricLink  DiagCategory = "asymmetric_link"  // blocks without blocked_by
	DiagDanglingLink    DiagCategory = "dangling_link"    // link target does not exist
	DiagConflict        DiagCategory = "conflict"         // divergent concurrent edits
)

// Severity ranks a diagnostic for exit-code purposes. Errors fail
// validation; warnings fail only in strict mode; advisories never fail
// because the deterministic tie-break already produced a usable state.
type Severity string

// Severities.
const (
	SeverityError    Severity = "error"
	SeverityWarning  Severity = "warning"
	SeverityAdvisory Severity = "advisory"
)

// Diagnostic is one finding with file and line attribution. Line is zero
// when the finding is not tied to a single line (referential checks).
// Fields are ordered to minimize memory padding.
type Diagnostic struct {
	Category DiagCategory `json:"category"`
	Severity Severity     `json:"severity"`
	File     string       `json:"file,omitempty"`
	TaskID   string       `json:"task_id,omitempty"`
	Message  string       `json:"message"`
	Line     int          `json:"line,omitempty"`
}

// String renders the diagnostic in file:line: message form.
func (d Diagnostic) String() string {
	switch {
	case d.File != "" && d.Line > 0:
		return fmt.Sprintf("%s:%d: [%s] %s", d.File, d.Line, d.Category, d.Message)
	case d.File != "":
		return fmt.Sprintf("%s: [%s] %s", d.File, d.Category, d.Message)
	default:
		return fmt.Sprintf("[%s] %s", d.Category, d.Message)
	}
}

// CountBySeverity tallies diagnostics per severity.
func CountBySeverity(diags []Diagnostic) (errors, warnings, advisories int) {
	for _, d := range diags {
		switch d.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		case SeverityAdvisory:
			advisories++
		}
	}
	return errors, warnings, advisories
}
