// Package app provides the dependency injection container for the
// application.
package app

import (
	"github.com/spooldev/spool/internal/domain"
	"github.com/spooldev/spool/internal/infra/cache"
	"github.com/spooldev/spool/internal/infra/config"
	"github.com/spooldev/spool/internal/infra/eventlog"
	"github.com/spooldev/spool/internal/infra/gitid"
	"github.com/spooldev/spool/internal/infra/logging"
	"github.com/spooldev/spool/internal/infra/state"
	"github.com/spooldev/spool/internal/usecase"
)

// Paths holds the resolved application paths.
type Paths struct {
	WorkDir string // Directory the command was invoked from
	Root    string // Path to the .spool directory
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for
// use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Log      domain.EventLog
	Archiver domain.Archiver
	State    domain.StateStore
	Identity domain.Identity
	Clock    domain.Clock
	Logger   domain.Logger

	// Configuration
	AppConfig *domain.Config
	Paths     Paths
}

// New creates a Container by locating the store from the given
// directory. Returns domain.ErrNotInitialized when no store exists.
func New(dir string) (*Container, error) {
	root, err := eventlog.FindRoot(dir)
	if err != nil {
		return nil, err
	}

	loader := config.NewLoader(root)
	appConfig, err := loader.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.New(root, logging.ParseLevel(appConfig.LogLevel))
	log := eventlog.New(root)
	stateStore := state.New(log, cache.New(root), logger)

	return &Container{
		Log:       log,
		Archiver:  log,
		State:     stateStore,
		Identity:  gitid.New(dir, appConfig.Author),
		Clock:     domain.RealClock{},
		Logger:    logger,
		AppConfig: appConfig,
		Paths:     Paths{WorkDir: dir, Root: root},
	}, nil
}

// NewWithDeps creates a Container with custom dependencies for testing.
func NewWithDeps(paths Paths, log domain.EventLog, archiver domain.Archiver, stateStore domain.StateStore, identity domain.Identity, clock domain.Clock, logger domain.Logger, appConfig *domain.Config) *Container {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	if appConfig == nil {
		appConfig = domain.NewDefaultConfig()
	}
	return &Container{
		Log:       log,
		Archiver:  archiver,
		State:     stateStore,
		Identity:  identity,
		Clock:     clock,
		Logger:    logger,
		AppConfig: appConfig,
		Paths:     paths,
	}
}

// UseCase factory methods

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c.Log, c.State, c.Identity, c.Clock, c.Logger)
}

// UpdateTaskUseCase returns a new UpdateTask use case.
func (c *Container) UpdateTaskUseCase() *usecase.UpdateTask {
	return usecase.NewUpdateTask(c.Log, c.State, c.Identity, c.Clock, c.Logger)
}

// AssignTaskUseCase returns a new AssignTask use case.
func (c *Container) AssignTaskUseCase() *usecase.AssignTask {
	return usecase.NewAssignTask(c.Log, c.State, c.Identity, c.Clock, c.Logger)
}

// CommentTaskUseCase returns a new CommentTask use case.
func (c *Container) CommentTaskUseCase() *usecase.CommentTask {
	return usecase.NewCommentTask(c.Log, c.State, c.Identity, c.Clock, c.Logger)
}

// LinkTaskUseCase returns a new LinkTask use case.
func (c *Container) LinkTaskUseCase() *usecase.LinkTask {
	return usecase.NewLinkTask(c.Log, c.State, c.Identity, c.Clock, c.Logger)
}

// SetStreamUseCase returns a new SetStream use case.
func (c *Container) SetStreamUseCase() *usecase.SetStream {
	return usecase.NewSetStream(c.Log, c.State, c.Identity, c.Clock, c.Logger)
}

// CompleteTaskUseCase returns a new CompleteTask use case.
func (c *Container) CompleteTaskUseCase() *usecase.CompleteTask {
	return usecase.NewCompleteTask(c.Log, c.State, c.Identity, c.Clock, c.Logger)
}

// ReopenTaskUseCase returns a new ReopenTask use case.
func (c *Container) ReopenTaskUseCase() *usecase.ReopenTask {
	return usecase.NewReopenTask(c.Log, c.State, c.Identity, c.Clock, c.Logger)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.State, c.Logger)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.State)
}

// ShowHistoryUseCase returns a new ShowHistory use case.
func (c *Container) ShowHistoryUseCase() *usecase.ShowHistory {
	return usecase.NewShowHistory(c.Log, c.State)
}

// RebuildUseCase returns a new Rebuild use case.
func (c *Container) RebuildUseCase() *usecase.Rebuild {
	return usecase.NewRebuild(c.State, c.Logger)
}

// ArchiveTasksUseCase returns a new ArchiveTasks use case.
func (c *Container) ArchiveTasksUseCase() *usecase.ArchiveTasks {
	return usecase.NewArchiveTasks(c.Log, c.Archiver, c.Identity, c.Clock, c.Logger, c.AppConfig.Archive.Days)
}

// ValidateUseCase returns a new Validate use case.
func (c *Container) ValidateUseCase() *usecase.Validate {
	return usecase.NewValidate(c.Log, c.Logger)
}

// ImportTasksUseCase returns a new ImportTasks use case.
func (c *Container) ImportTasksUseCase() *usecase.ImportTasks {
	return usecase.NewImportTasks(c.NewTaskUseCase())
}
