package pkgmanager

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// UserAgentEnv is the variable npm, yarn and pnpm set for lifecycle scripts
// and `create`/`dlx` invocations.
const UserAgentEnv = "npm_config_user_agent"

// lockfiles maps lockfile names to their manager, checked in order.
var lockfiles = []struct {
	file string
	name Name
}{
	{"pnpm-lock.yaml", PNPM},
	{"yarn.lock", Yarn},
	{"package-lock.json", NPM},
}

// DetectInput carries every signal Detect consults. Callers read the
// environment once and pass values explicitly.
type DetectInput struct {
	// Override is an explicitly requested manager name; wins when set.
	Override string
	// UserAgent is the value of npm_config_user_agent.
	UserAgent string
	// Dir is searched for lockfiles when neither Override nor UserAgent is set.
	Dir string
}

// Detect determines the package manager for a run.
//
// Precedence is Override, then UserAgent, then lockfiles in Dir. An
// unsupported name yields *UnrecognizedError; no signal at all yields
// ErrUndetectable.
func Detect(in DetectInput) (Identity, error) {
	if raw := strings.TrimSpace(in.Override); raw != "" {
		name, ok := ParseName(raw)
		if !ok {
			return Identity{}, &UnrecognizedError{Source: SourceOverride, Raw: raw}
		}
		return Identity{Name: name, Source: SourceOverride}, nil
	}

	if ua := strings.TrimSpace(in.UserAgent); ua != "" {
		return ParseUserAgent(ua)
	}

	if in.Dir != "" {
		return detectLockfile(in.Dir)
	}

	return Identity{}, ErrUndetectable
}

// ParseUserAgent extracts the manager from a user agent such as
// "pnpm/8.6.0 npm/? node/v18.16.0 darwin arm64". The name is everything
// before the first '/'. An unparseable version leaves Version nil.
func ParseUserAgent(ua string) (Identity, error) {
	product, _, _ := strings.Cut(strings.TrimSpace(ua), " ")
	rawName, rawVersion, _ := strings.Cut(product, "/")

	name, ok := ParseName(rawName)
	if !ok {
		return Identity{}, &UnrecognizedError{Source: SourceUserAgent, Raw: rawName}
	}

	id := Identity{Name: name, Source: SourceUserAgent}
	if v, err := semver.NewVersion(strings.TrimPrefix(rawVersion, "v")); err == nil {
		id.Version = v
	}
	return id, nil
}

func detectLockfile(dir string) (Identity, error) {
	for _, lf := range lockfiles {
		_, err := os.Stat(filepath.Join(dir, lf.file))
		if err == nil {
			return Identity{Name: lf.name, Source: SourceLockfile}, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return Identity{}, fmt.Errorf("checking %s: %w", lf.file, err)
		}
	}
	return Identity{}, ErrUndetectable
}
