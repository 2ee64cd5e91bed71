package main

import (
	"errors"
	"os"
	"testing"

	"github.com/spooldev/spool/internal/domain"
)

// setArgs replaces os.Args for the duration of the test.
func setArgs(t *testing.T, args ...string) {
	t.Helper()
	original := os.Args
	t.Cleanup(func() { os.Args = original })
	os.Args = args
}

func TestRunWithoutStore_Version(t *testing.T) {
	t.Chdir(t.TempDir())
	setArgs(t, "spool", "--version")

	if err := run(); err != nil {
		t.Fatalf("expected --version to work without a store, got %v", err)
	}
}

func TestRunWithoutStore_StoreCommandFails(t *testing.T) {
	t.Chdir(t.TempDir())
	setArgs(t, "spool", "list")

	err := run()
	if !errors.Is(err, domain.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestRunInitThenList(t *testing.T) {
	t.Chdir(t.TempDir())

	setArgs(t, "spool", "init")
	if err := run(); err != nil {
		t.Fatalf("init: %v", err)
	}

	setArgs(t, "spool", "list")
	if err := run(); err != nil {
		t.Fatalf("list after init: %v", err)
	}
}
