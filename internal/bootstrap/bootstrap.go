package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/ecruz165/tsup-init/internal/config"
	"github.com/ecruz165/tsup-init/internal/entry"
	"github.com/ecruz165/tsup-init/internal/logger"
	"github.com/ecruz165/tsup-init/internal/manifest"
	"github.com/ecruz165/tsup-init/internal/pkgmanager"
	"github.com/ecruz165/tsup-init/internal/prompt"
	"github.com/ecruz165/tsup-init/internal/scaffold"
)

// RequiredDependencies are installed as dev dependencies unless already
// declared in any dependency mapping. Order is the install order.
var RequiredDependencies = []string{"typescript", "tsup", "tslib"}

// BuildScript is the value written to scripts.build.
const BuildScript = "tsup"

// Summary reports what a run did.
type Summary struct {
	PackageManager  pkgmanager.Identity
	ManifestCreated bool
	// Installed lists the dependencies passed to the install command.
	Installed []string
	Entry     entry.Result
	Config    *scaffold.Result
}

// Bootstrapper wires the pipeline stages to one Config.
type Bootstrapper struct {
	cfg     *config.Config
	runner  pkgmanager.Runner
	confirm prompt.Confirmer
}

// New creates a Bootstrapper. A nil runner spawns real processes; when
// cfg.Yes is set, confirm is never consulted.
func New(cfg *config.Config, runner pkgmanager.Runner, confirm prompt.Confirmer) *Bootstrapper {
	if runner == nil {
		runner = &pkgmanager.ExecRunner{}
	}
	if cfg.Yes || confirm == nil {
		confirm = prompt.Always(cfg.Yes)
	}
	return &Bootstrapper{cfg: cfg, runner: runner, confirm: confirm}
}

// Run executes every stage in order.
func (b *Bootstrapper) Run(ctx context.Context) (*Summary, error) {
	logger.Infof(ctx, "Current working directory: %s", b.cfg.Dir)
	if b.cfg.OptionsFile != "" {
		logger.Debugf(ctx, "Loaded options from %s", b.cfg.OptionsFile)
	}

	id, err := pkgmanager.Detect(pkgmanager.DetectInput{
		Override:  b.cfg.PackageManager,
		UserAgent: b.cfg.UserAgent,
		Dir:       b.cfg.Dir,
	})
	if err != nil {
		return nil, err
	}
	logger.Infof(ctx, "Using package manager: %s", id)
	logger.Debugf(ctx, "Package manager detected from %s", id.Source)

	summary := &Summary{PackageManager: id}
	pm := pkgmanager.NewManager(id, b.cfg.Dir, b.runner)

	summary.ManifestCreated, err = manifest.Ensure(ctx, b.cfg.Dir, pm)
	if err != nil {
		return nil, err
	}
	if summary.ManifestCreated {
		logger.Infof(ctx, "Created %s", manifest.FileName)
	}

	summary.Installed, err = b.installDependencies(ctx, pm)
	if err != nil {
		return nil, err
	}

	if err := b.patchBuildScript(ctx); err != nil {
		return nil, err
	}

	summary.Entry, err = entry.Resolve(b.cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolving entry point: %w", err)
	}
	if summary.Entry.Created {
		logger.Infof(ctx, "Created %s", strings.TrimPrefix(summary.Entry.Path, "./"))
	}
	logger.Infof(ctx, "Entry point: %s", summary.Entry.Path)

	data := scaffold.NewConfigData(summary.Entry.Path, b.cfg.BuildOptions())
	summary.Config, err = scaffold.WriteConfig(b.cfg.Dir, data, b.confirm)
	if err != nil {
		return nil, err
	}
	if summary.Config.Overwritten {
		logger.Infof(ctx, "Overwrote %s", scaffold.ConfigFileName)
	} else {
		logger.Infof(ctx, "Created %s", scaffold.ConfigFileName)
	}

	return summary, nil
}

// installDependencies installs the missing subset of RequiredDependencies in
// one command. Nothing is logged or run when all are declared.
func (b *Bootstrapper) installDependencies(ctx context.Context, pm *pkgmanager.Manager) ([]string, error) {
	m, err := manifest.Read(manifest.Path(b.cfg.Dir))
	if err != nil {
		return nil, err
	}

	missing := m.MissingDependencies(RequiredDependencies)
	if len(missing) == 0 {
		return nil, nil
	}

	logger.Infof(ctx, "Missing dependencies: %s", strings.Join(missing, ", "))
	if err := pm.AddDev(ctx, missing); err != nil {
		return nil, fmt.Errorf("installing %s: %w", strings.Join(missing, ", "), err)
	}
	return missing, nil
}

// patchBuildScript re-reads package.json, since the install may have
// rewritten it, and sets scripts.build.
func (b *Bootstrapper) patchBuildScript(ctx context.Context) error {
	m, err := manifest.Read(manifest.Path(b.cfg.Dir))
	if err != nil {
		return err
	}
	if err := m.SetScript("build", BuildScript); err != nil {
		return err
	}
	if err := m.Write(); err != nil {
		return err
	}
	logger.Infof(ctx, "Added build script to %s", manifest.FileName)
	return nil
}
