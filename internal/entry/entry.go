// Package entry picks the source file tsup builds from, scaffolding a
// placeholder when the project has none.
package entry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Candidates are checked in priority order; the first that exists wins.
var Candidates = []string{
	"./src/index.ts",
	"./src/index.js",
	"./index.ts",
	"./index.js",
}

// Default is the entry point scaffolded when no candidate exists.
const Default = "./src/index.ts"

// Placeholder is the content written to Default.
const Placeholder = "console.log('Hello, world!')\n"

// Result describes the resolved entry point.
type Result struct {
	// Path is relative to the working directory, in "./" form.
	Path string
	// Created is true when the placeholder was written.
	Created bool
}

// Resolve returns the first existing candidate in dir. When none exists it
// creates the src directory and writes Placeholder at Default. A stat error
// other than "not exist" is returned rather than treated as absence.
func Resolve(dir string) (Result, error) {
	for _, candidate := range Candidates {
		ok, err := exists(filepath.Join(dir, filepath.FromSlash(candidate)))
		if err != nil {
			return Result{}, err
		}
		if ok {
			return Result{Path: candidate}, nil
		}
	}

	target := filepath.Join(dir, filepath.FromSlash(Default))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Result{}, fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
	}
	if err := os.WriteFile(target, []byte(Placeholder), 0o644); err != nil {
		return Result{}, fmt.Errorf("writing %s: %w", target, err)
	}
	return Result{Path: Default, Created: true}, nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking %s: %w", path, err)
}
