package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ecruz165/tsup-init/internal/branding"
	"github.com/ecruz165/tsup-init/internal/pkgmanager"
	"github.com/ecruz165/tsup-init/internal/scaffold"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Setting keys. Flags, env vars (TSUP_INIT_<KEY>) and the options file all
// use these names.
const (
	KeyDir            = "dir"
	KeyPackageManager = "package-manager"
	KeyYes            = "yes"
	KeyFormat         = "format"
	KeyDTS            = "dts"
	KeySplitting      = "splitting"
	KeyLogLevel       = "log-level"
	KeyUserAgent      = "user-agent"
)

// SupportedFormats are the tsup output formats accepted for --format.
var SupportedFormats = []string{"cjs", "esm", "iife"}

// Config is everything a run needs, resolved once at startup.
type Config struct {
	// Dir is the absolute working directory the run operates on.
	Dir            string
	UserAgent      string
	PackageManager string
	Yes            bool
	Formats        []string
	DTS            bool
	// Splitting is nil unless set by a flag, env var or the options file.
	Splitting *bool
	LogLevel  string
	// OptionsFile is the options file that was applied, if any.
	OptionsFile string
}

// RegisterFlags adds the run flags to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(KeyDir, "", "Project directory (defaults to the current directory)")
	flags.String(KeyPackageManager, "", "Package manager to use: npm, yarn or pnpm (detected when empty)")
	flags.BoolP(KeyYes, "y", false, "Overwrite an existing "+scaffold.ConfigFileName+" without asking")
	flags.StringSlice(KeyFormat, scaffold.DefaultFormats, "Output formats written to "+scaffold.ConfigFileName)
	flags.Bool(KeyDTS, true, "Emit type declarations")
	flags.Bool(KeySplitting, false, "Write the splitting option (only when given)")
	flags.String(KeyLogLevel, "info", "Log level: debug, info, warn or error")
}

// NewViper returns a Viper bound to flags and the environment.
func NewViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv(KeyUserAgent, pkgmanager.UserAgentEnv); err != nil {
		return nil, fmt.Errorf("binding %s: %w", pkgmanager.UserAgentEnv, err)
	}

	v.SetDefault(KeyFormat, scaffold.DefaultFormats)
	v.SetDefault(KeyDTS, true)
	v.SetDefault(KeyLogLevel, "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}
	return v, nil
}

// Load resolves a Config from v. An empty dir setting falls back to cwd.
// The options file in the resolved directory is validated and merged below
// flags and env vars.
func Load(v *viper.Viper, cwd string) (*Config, error) {
	dir := v.GetString(KeyDir)
	if dir == "" {
		dir = cwd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving directory %q: %w", dir, err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("checking directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	optionsPath, err := mergeOptionsFile(v, dir)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Dir:            dir,
		UserAgent:      v.GetString(KeyUserAgent),
		PackageManager: v.GetString(KeyPackageManager),
		Yes:            v.GetBool(KeyYes),
		Formats:        normalizeFormats(v.GetStringSlice(KeyFormat)),
		DTS:            v.GetBool(KeyDTS),
		LogLevel:       v.GetString(KeyLogLevel),
		OptionsFile:    optionsPath,
	}
	if v.IsSet(KeySplitting) {
		splitting := v.GetBool(KeySplitting)
		cfg.Splitting = &splitting
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that flags and env vars can set freely.
func (c *Config) Validate() error {
	if len(c.Formats) == 0 {
		return errors.New("at least one output format must be specified via --format")
	}
	for _, f := range c.Formats {
		if !slices.Contains(SupportedFormats, f) {
			return fmt.Errorf("unsupported format %q: supported formats are %s", f, strings.Join(SupportedFormats, ", "))
		}
	}
	return nil
}

// BuildOptions returns the tsup options to emit.
func (c *Config) BuildOptions() scaffold.Options {
	return scaffold.Options{
		Formats:   c.Formats,
		DTS:       c.DTS,
		Splitting: c.Splitting,
	}
}

// mergeOptionsFile validates dir/.tsup-init.yaml and merges it into v.
// It returns the file path, or "" when the file does not exist.
func mergeOptionsFile(v *viper.Viper, dir string) (string, error) {
	path := filepath.Join(dir, branding.OptionsFile())
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	result, err := Validate(data)
	if err != nil {
		return "", fmt.Errorf("validating %s: %w", path, err)
	}
	if !result.Valid {
		return "", &InvalidOptionsError{Path: path, Issues: result.Issues}
	}

	v.SetConfigType("yaml")
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("loading %s: %w", path, err)
	}
	return path, nil
}

// normalizeFormats splits comma-joined entries (as env vars produce) and
// drops blanks.
func normalizeFormats(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
