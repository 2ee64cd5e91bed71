package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spooldev/spool/internal/domain"
)

// archiveAuthor stamps archiver-generated events so they are never
// mistaken for a person's edit.
const archiveAuthor = "@spool"

// ArchiveTasksInput contains the parameters for archiving old tasks.
type ArchiveTasksInput struct {
	// Days is the minimum completion age; tasks completed less than this
	// many days ago stay active. Zero means the configured default.
	Days int

	// DryRun reports what would move without touching any file.
	DryRun bool
}

// ArchiveTasksOutput describes what was (or would be) archived.
type ArchiveTasksOutput struct {
	// TaskIDs lists archived tasks in deterministic order.
	TaskIDs []string

	// Months lists the touched archive partitions, sorted.
	Months []string

	DryRun bool
}

// ArchiveTasks is the use case for moving long-completed task histories
// into monthly archive partitions.
// Fields are ordered to minimize memory padding.
type ArchiveTasks struct {
	log      domain.EventLog
	archiver domain.Archiver
	identity domain.Identity
	clock    domain.Clock
	logger   domain.Logger
	days     int
}

// NewArchiveTasks creates a new ArchiveTasks use case. defaultDays is
// the configured completion age used when the input leaves Days zero.
func NewArchiveTasks(log domain.EventLog, archiver domain.Archiver, identity domain.Identity, clock domain.Clock, logger domain.Logger, defaultDays int) *ArchiveTasks {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &ArchiveTasks{
		log:      log,
		archiver: archiver,
		identity: identity,
		clock:    clock,
		logger:   logger,
		days:     defaultDays,
	}
}

// Execute selects tasks that are complete, finished before the cutoff
// and not yet archived, groups them by completion month and moves each
// group. State is replayed from the active files directly; the cache is
// left to self-heal on the next read.
func (uc *ArchiveTasks) Execute(_ context.Context, in ArchiveTasksInput) (*ArchiveTasksOutput, error) {
	days := in.Days
	if days <= 0 {
		days = uc.days
	}
	cutoff := uc.clock.Now().UTC().AddDate(0, 0, -days)

	scan, err := uc.log.ScanActive()
	if err != nil {
		return nil, fmt.Errorf("scan active logs: %w", err)
	}
	result := domain.Replay(scan.Events)

	var moves []domain.TaskMove
	monthSet := make(map[string]struct{})
	for _, task := range result.State.Sorted() {
		if task.Status != domain.StatusComplete || task.IsArchived() {
			continue
		}
		if task.CompletedAt == nil || !task.CompletedAt.Before(cutoff) {
			continue
		}
		month := task.CompletedAt.UTC().Format("2006-01")
		monthSet[month] = struct{}{}
		moves = append(moves, domain.TaskMove{
			Stamp:  uc.archiveStamp(task, month),
			TaskID: task.ID,
			Month:  month,
		})
	}

	out := &ArchiveTasksOutput{DryRun: in.DryRun}
	for _, m := range moves {
		out.TaskIDs = append(out.TaskIDs, m.TaskID)
	}
	for month := range monthSet {
		out.Months = append(out.Months, month)
	}
	slices.Sort(out.Months)

	if in.DryRun || len(moves) == 0 {
		return out, nil
	}

	if err := uc.archiver.MoveToArchive(moves); err != nil {
		return nil, fmt.Errorf("move to archive: %w", err)
	}

	uc.logger.Info("archive", fmt.Sprintf("moved %d tasks into %s",
		len(moves), strings.Join(out.Months, ", ")))
	return out, nil
}

// archiveStamp builds the archive event closing a moved history.
func (uc *ArchiveTasks) archiveStamp(task *domain.Task, month string) domain.Event {
	return domain.Event{
		Timestamp: uc.clock.Now().UTC(),
		ID:        domain.NewEventID(),
		TaskID:    task.ID,
		Author:    archiveAuthor,
		Branch:    uc.identity.Branch(),
		Op:        domain.Operation{Type: domain.OpArchive, Ref: month},
		Seq:       task.LastSeq + 1,
		V:         domain.SchemaVersion,
	}
}
