package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/ecruz165/tsup-init/internal/bootstrap"
	"github.com/ecruz165/tsup-init/internal/branding"
	"github.com/ecruz165/tsup-init/internal/config"
	"github.com/ecruz165/tsup-init/internal/logger"
	"github.com/ecruz165/tsup-init/internal/pkgmanager"
	"github.com/ecruz165/tsup-init/internal/prompt"
	"github.com/ecruz165/tsup-init/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// stdin is where the overwrite prompt reads answers.
var stdin = os.Stdin

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   branding.CLIName(),
		Short: branding.Description(),
		Long: branding.DisplayName() + ` prepares the current package for building with tsup.

It detects the package manager that invoked it (npm, yarn or pnpm), creates
package.json if needed, installs typescript, tsup and tslib as dev
dependencies when they are missing, sets scripts.build to "tsup", finds or
creates the entry point, and writes tsup.config.ts.

Run it through your package manager, e.g. "pnpm dlx ` + branding.CLIName() + `",
or pass --package-manager explicitly.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runBootstrap,
	}

	config.RegisterFlags(rootCmd.Flags())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper(cmd.Flags())
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(v, cwd)
	if err != nil {
		return err
	}

	level, ok := logger.ParseLogLevel(cfg.LogLevel)
	if !ok {
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	logger.SetLevel(level)

	runner := &pkgmanager.ExecRunner{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
	confirm := prompt.ForTerminal(stdin, cmd.ErrOrStderr())

	_, err = bootstrap.New(cfg, runner, confirm).Run(cmd.Context())
	if errors.Is(err, scaffold.ErrOverwriteDeclined) && !cfg.Yes {
		return fmt.Errorf("%w (rerun with --yes to overwrite)", err)
	}
	return err
}

// Execute runs the root command with build info injected via ldflags.
// Errors are logged before being returned.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		logger.Error(ctx, err)
	}
	return err
}
