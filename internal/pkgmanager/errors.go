package pkgmanager

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUndetectable is returned when no signal identifies a package manager.
var ErrUndetectable = errors.New("cannot detect package manager")

// UnrecognizedError reports a detection signal naming an unsupported manager.
type UnrecognizedError struct {
	Source Source
	Raw    string
}

func (e *UnrecognizedError) Error() string {
	return fmt.Sprintf("unrecognized package manager %q (from %s): supported are %s", e.Raw, e.Source, supportedList())
}

// CommandError reports a package manager command that failed to run or
// exited with a non-zero status.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	cmdline := strings.TrimSpace(e.Name + " " + strings.Join(e.Args, " "))
	if e.ExitCode > 0 {
		return fmt.Sprintf("%q exited with status %d", cmdline, e.ExitCode)
	}
	return fmt.Sprintf("running %q: %v", cmdline, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func supportedList() string {
	names := make([]string, len(Supported))
	for i, n := range Supported {
		names[i] = n.String()
	}
	return strings.Join(names, ", ")
}
