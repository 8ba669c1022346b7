package manifest

import (
	"context"
	"fmt"
)

// Initializer creates a package.json in the working directory.
type Initializer interface {
	Init(ctx context.Context) error
}

// Ensure guarantees dir contains a package.json, running init when it does
// not. It reports whether the file was created.
func Ensure(ctx context.Context, dir string, initer Initializer) (bool, error) {
	exists, err := Exists(dir)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if err := initer.Init(ctx); err != nil {
		return false, fmt.Errorf("initializing %s: %w", FileName, err)
	}

	exists, err = Exists(dir)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, fmt.Errorf("initializing %s: command succeeded but %s was not created", FileName, Path(dir))
	}
	return true, nil
}
