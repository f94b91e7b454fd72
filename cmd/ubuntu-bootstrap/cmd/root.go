package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/ubuntu-bootstrap/internal/config"
	"github.com/oshokin/ubuntu-bootstrap/internal/logger"
	"github.com/oshokin/ubuntu-bootstrap/internal/service/setup"
	"github.com/oshokin/ubuntu-bootstrap/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// extraUsers are additional usernames granted docker access.
	extraUsers []string
	// skipReboot disables the scheduled reboot at the end of the run.
	skipReboot bool
	// logLevel sets the minimum level for console output.
	logLevel string

	// rootCmd represents the base command running the provisioning pipeline.
	rootCmd = &cobra.Command{
		Use:   "ubuntu-bootstrap",
		Short: "Provision a fresh Ubuntu host for container workloads.",
		Long: `One-time provisioning of a fresh Ubuntu/Debian server, run once as root.

Updates and upgrades all system packages, installs Docker Engine from the
vendor repository, configures unattended security upgrades, grants the
invoking sudo user (plus any configured extras) docker group access, writes
a run report and schedules a reboot one minute out (cancel with shutdown -c).

Settings are optional: without a settings file the built-in defaults apply.
The pipeline is fail-fast and aborts on the first unexpected error.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			options := &setup.Options{
				ConfigPath: configPath,
				ExtraUsers: extraUsers,
				SkipReboot: skipReboot,
			}

			return setup.Run(ctx, options)
		},
	}
)

// Execute runs the ubuntu-bootstrap CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)
	attachInitConfigCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	// Config and user flags are persistent so init-config sees them too.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringSliceVarP(&extraUsers, "extra-user", "u", nil, "additional username granted docker access (repeatable)")
	rootCmd.Flags().BoolVar(&skipReboot, "skip-reboot", false, "do not schedule the final reboot")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "log level (debug, info, warn, error)")
}
