// Package gitid resolves the acting author and branch from the
// enclosing git repository. Events are written alongside code, so the
// git identity is the natural attribution; a config author override
// wins, and everything degrades to fixed fallbacks outside a repo.
package gitid

import (
	"fmt"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"

	"github.com/spooldev/spool/internal/domain"
)

const (
	fallbackAuthor = "unknown"
	fallbackBranch = "main"
)

// Identity implements domain.Identity backed by go-git.
type Identity struct {
	repo     *git.Repository
	override string
}

// New opens the repository containing dir, walking up to find .git the
// way the git CLI does. A nil repo (not inside a git checkout) is not
// an error; lookups fall back.
func New(dir, authorOverride string) *Identity {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		repo = nil
	}
	return &Identity{repo: repo, override: authorOverride}
}

// NewWithRepo wires an already-open repository, for tests.
func NewWithRepo(repo *git.Repository, authorOverride string) *Identity {
	return &Identity{repo: repo, override: authorOverride}
}

// Author returns the configured author override if set, otherwise
// "Name <email>" from the merged git config.
func (i *Identity) Author() string {
	if i.override != "" {
		return i.override
	}
	if i.repo == nil {
		return fallbackAuthor
	}
	cfg, err := i.repo.ConfigScoped(gitconfig.SystemScope)
	if err != nil || cfg.User.Name == "" {
		return fallbackAuthor
	}
	if cfg.User.Email == "" {
		return cfg.User.Name
	}
	return fmt.Sprintf("%s <%s>", cfg.User.Name, cfg.User.Email)
}

// Branch returns the short name of HEAD. Detached HEAD and unborn
// branches both report the fallback.
func (i *Identity) Branch() string {
	if i.repo == nil {
		return fallbackBranch
	}
	head, err := i.repo.Head()
	if err != nil || !head.Name().IsBranch() {
		return fallbackBranch
	}
	return head.Name().Short()
}

var _ domain.Identity = (*Identity)(nil)
