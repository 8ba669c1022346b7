package pkgmanager

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
)

// Runner executes a command in dir and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner spawns real processes with an argument list; no shell is
// involved, so package names are never interpolated into a command line.
type ExecRunner struct {
	// Stdout and Stderr can be set for testing; defaults to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// Run resolves name on PATH, runs it in dir, and converts a failed start or
// a non-zero exit into *CommandError.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	bin, err := exec.LookPath(name)
	if err != nil {
		return &CommandError{Name: name, Args: args, ExitCode: -1, Err: err}
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir

	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &CommandError{Name: name, Args: args, ExitCode: exitErr.ExitCode(), Err: err}
		}
		return &CommandError{Name: name, Args: args, ExitCode: -1, Err: err}
	}
	return nil
}

// Manager runs commands for one detected package manager in one directory.
type Manager struct {
	id     Identity
	dir    string
	runner Runner
}

// NewManager binds id to dir. A nil runner uses ExecRunner.
func NewManager(id Identity, dir string, runner Runner) *Manager {
	if runner == nil {
		runner = &ExecRunner{}
	}
	return &Manager{id: id, dir: dir, runner: runner}
}

// Identity returns the package manager this Manager drives.
func (m *Manager) Identity() Identity {
	return m.id
}

// Init creates a package.json non-interactively.
func (m *Manager) Init(ctx context.Context) error {
	return m.runner.Run(ctx, m.dir, m.id.Name.String(), m.id.Name.InitArgs()...)
}

// AddDev installs pkgs as dev dependencies in one invocation. An empty
// list runs nothing.
func (m *Manager) AddDev(ctx context.Context, pkgs []string) error {
	if len(pkgs) == 0 {
		return nil
	}
	return m.runner.Run(ctx, m.dir, m.id.Name.String(), m.id.Name.AddDevArgs(pkgs)...)
}
