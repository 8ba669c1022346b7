package pkgmanager

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Name identifies a supported package manager.
type Name string

// Supported package manager identifiers.
const (
	NPM  Name = "npm"
	Yarn Name = "yarn"
	PNPM Name = "pnpm"
)

// Supported lists every recognized package manager.
var Supported = []Name{NPM, Yarn, PNPM}

func (n Name) String() string {
	return string(n)
}

// ParseName matches s against the supported package managers.
func ParseName(s string) (Name, bool) {
	candidate := Name(strings.ToLower(strings.TrimSpace(s)))
	for _, n := range Supported {
		if n == candidate {
			return n, true
		}
	}
	return "", false
}

// Source records where an Identity was detected from.
type Source string

// Detection sources, in precedence order.
const (
	SourceOverride  Source = "override"
	SourceUserAgent Source = "user-agent"
	SourceLockfile  Source = "lockfile"
)

// Identity is the package manager selected for a run.
type Identity struct {
	Name Name
	// Version is parsed from the user agent; nil when unknown.
	Version *semver.Version
	Source  Source
}

func (id Identity) String() string {
	if id.Version == nil {
		return id.Name.String()
	}
	return id.Name.String() + "@" + id.Version.String()
}

// InitArgs returns the non-interactive manifest initialization arguments.
// pnpm init takes no -y flag.
func (n Name) InitArgs() []string {
	switch n {
	case PNPM:
		return []string{"init"}
	default:
		return []string{"init", "-y"}
	}
}

// AddDevArgs returns the arguments that add pkgs as dev dependencies in a
// single invocation.
func (n Name) AddDevArgs(pkgs []string) []string {
	var args []string
	switch n {
	case NPM:
		args = []string{"install", "-D"}
	default:
		args = []string{"add", "-D"}
	}
	return append(args, pkgs...)
}
