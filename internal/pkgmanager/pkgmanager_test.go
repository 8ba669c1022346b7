package pkgmanager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		in   string
		want Name
		ok   bool
	}{
		{"npm", NPM, true},
		{"yarn", Yarn, true},
		{"pnpm", PNPM, true},
		{" PNPM ", PNPM, true},
		{"bun", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseName(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestInitArgs(t *testing.T) {
	assert.Equal(t, []string{"init", "-y"}, NPM.InitArgs())
	assert.Equal(t, []string{"init", "-y"}, Yarn.InitArgs())
	assert.Equal(t, []string{"init"}, PNPM.InitArgs())
}

func TestAddDevArgs(t *testing.T) {
	pkgs := []string{"tsup", "tslib"}
	assert.Equal(t, []string{"install", "-D", "tsup", "tslib"}, NPM.AddDevArgs(pkgs))
	assert.Equal(t, []string{"add", "-D", "tsup", "tslib"}, Yarn.AddDevArgs(pkgs))
	assert.Equal(t, []string{"add", "-D", "tsup", "tslib"}, PNPM.AddDevArgs(pkgs))
}

func TestParseUserAgent(t *testing.T) {
	t.Run("pnpm with version", func(t *testing.T) {
		id, err := ParseUserAgent("pnpm/8.6.0 npm/? node/v18.16.0 darwin arm64")
		require.NoError(t, err)
		assert.Equal(t, PNPM, id.Name)
		assert.Equal(t, SourceUserAgent, id.Source)
		require.NotNil(t, id.Version)
		assert.Equal(t, "8.6.0", id.Version.String())
		assert.Equal(t, "pnpm@8.6.0", id.String())
	})

	t.Run("yarn berry", func(t *testing.T) {
		id, err := ParseUserAgent("yarn/4.0.2 npm/? node/v20.10.0 linux x64")
		require.NoError(t, err)
		assert.Equal(t, Yarn, id.Name)
	})

	t.Run("unparseable version", func(t *testing.T) {
		id, err := ParseUserAgent("npm/? node/v20.10.0")
		require.NoError(t, err)
		assert.Equal(t, NPM, id.Name)
		assert.Nil(t, id.Version)
		assert.Equal(t, "npm", id.String())
	})

	t.Run("no slash", func(t *testing.T) {
		id, err := ParseUserAgent("npm")
		require.NoError(t, err)
		assert.Equal(t, NPM, id.Name)
	})

	t.Run("unrecognized", func(t *testing.T) {
		_, err := ParseUserAgent("bun/1.0.0 npm/? node/v20.0.0")
		var unrec *UnrecognizedError
		require.ErrorAs(t, err, &unrec)
		assert.Equal(t, "bun", unrec.Raw)
		assert.Equal(t, SourceUserAgent, unrec.Source)
	})
}

func TestDetect(t *testing.T) {
	t.Run("override wins over user agent", func(t *testing.T) {
		id, err := Detect(DetectInput{Override: "yarn", UserAgent: "pnpm/8.0.0"})
		require.NoError(t, err)
		assert.Equal(t, Yarn, id.Name)
		assert.Equal(t, SourceOverride, id.Source)
	})

	t.Run("unrecognized override", func(t *testing.T) {
		_, err := Detect(DetectInput{Override: "deno", UserAgent: "pnpm/8.0.0"})
		var unrec *UnrecognizedError
		require.ErrorAs(t, err, &unrec)
		assert.Equal(t, SourceOverride, unrec.Source)
	})

	t.Run("user agent wins over lockfile", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "yarn.lock")
		id, err := Detect(DetectInput{UserAgent: "npm/10.2.3 node/v20.0.0", Dir: dir})
		require.NoError(t, err)
		assert.Equal(t, NPM, id.Name)
	})

	t.Run("lockfile fallback", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "yarn.lock")
		writeFile(t, dir, "package-lock.json")
		id, err := Detect(DetectInput{Dir: dir})
		require.NoError(t, err)
		assert.Equal(t, Yarn, id.Name)
		assert.Equal(t, SourceLockfile, id.Source)
	})

	t.Run("pnpm lockfile first", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "package-lock.json")
		writeFile(t, dir, "pnpm-lock.yaml")
		id, err := Detect(DetectInput{Dir: dir})
		require.NoError(t, err)
		assert.Equal(t, PNPM, id.Name)
	})

	t.Run("nothing to detect", func(t *testing.T) {
		_, err := Detect(DetectInput{Dir: t.TempDir()})
		require.ErrorIs(t, err, ErrUndetectable)

		_, err = Detect(DetectInput{})
		require.ErrorIs(t, err, ErrUndetectable)
	})
}

type recordedCall struct {
	dir  string
	name string
	args []string
}

type fakeRunner struct {
	calls []recordedCall
	err   error
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) error {
	f.calls = append(f.calls, recordedCall{dir: dir, name: name, args: args})
	return f.err
}

func TestManager(t *testing.T) {
	for _, name := range Supported {
		t.Run(name.String(), func(t *testing.T) {
			r := &fakeRunner{}
			m := NewManager(Identity{Name: name}, "/work", r)

			require.NoError(t, m.Init(context.Background()))
			require.NoError(t, m.AddDev(context.Background(), []string{"typescript", "tsup"}))
			require.NoError(t, m.AddDev(context.Background(), nil))

			require.Len(t, r.calls, 2)
			assert.Equal(t, recordedCall{"/work", name.String(), name.InitArgs()}, r.calls[0])
			assert.Equal(t, recordedCall{"/work", name.String(), name.AddDevArgs([]string{"typescript", "tsup"})}, r.calls[1])
		})
	}
}

func TestManagerPropagatesErrors(t *testing.T) {
	want := &CommandError{Name: "npm", Args: []string{"init", "-y"}, ExitCode: 1, Err: errors.New("exit status 1")}
	m := NewManager(Identity{Name: NPM}, t.TempDir(), &fakeRunner{err: want})

	err := m.Init(context.Background())
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 1, cmdErr.ExitCode)
	assert.Equal(t, `"npm init -y" exited with status 1`, err.Error())
}

func TestExecRunnerMissingBinary(t *testing.T) {
	r := &ExecRunner{}
	err := r.Run(context.Background(), t.TempDir(), "definitely-not-a-package-manager-xyz")
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, -1, cmdErr.ExitCode)
}

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
}
