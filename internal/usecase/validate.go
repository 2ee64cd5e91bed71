package usecase

import (
	"context"
	"fmt"

	"github.com/spooldev/spool/internal/domain"
)

// ValidateInput contains the parameters for a log audit.
type ValidateInput struct {
	Strict bool // Treat warnings as failures
}

// ValidateOutput contains the audit result.
// Fields are ordered to minimize memory padding.
type ValidateOutput struct {
	Diagnostics []domain.Diagnostic
	Errors      int
	Warnings    int
	Advisories  int
	Failed      bool
}

// Validate is the use case for auditing the raw log files.
type Validate struct {
	log    domain.EventLog
	logger domain.Logger
}

// NewValidate creates a new Validate use case.
func NewValidate(log domain.EventLog, logger domain.Logger) *Validate {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Validate{log: log, logger: logger}
}

// Execute scans every partition and audits the raw events. Structural
// errors always fail; warnings fail only in strict mode; advisories
// (merge conflicts) never fail.
func (uc *Validate) Execute(_ context.Context, in ValidateInput) (*ValidateOutput, error) {
	scan, err := uc.log.ScanAll()
	if err != nil {
		return nil, fmt.Errorf("scan logs: %w", err)
	}

	diags := domain.Audit(scan.Events, scan.Diagnostics)
	errors, warnings, advisories := domain.CountBySeverity(diags)

	out := &ValidateOutput{
		Diagnostics: diags,
		Errors:      errors,
		Warnings:    warnings,
		Advisories:  advisories,
	}
	out.Failed = out.Errors > 0 || (in.Strict && out.Warnings > 0)

	uc.logger.Info("validate", fmt.Sprintf("%d errors, %d warnings, %d advisories",
		out.Errors, out.Warnings, out.Advisories))
	return out, nil
}
