package setup

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/ubuntu-bootstrap/internal/config"
	"github.com/oshokin/ubuntu-bootstrap/internal/logger"
	"github.com/oshokin/ubuntu-bootstrap/internal/osinfo"
	repository "github.com/oshokin/ubuntu-bootstrap/internal/repository/report"
	"github.com/oshokin/ubuntu-bootstrap/internal/runner"
	"github.com/oshokin/ubuntu-bootstrap/internal/service/common"
)

// Options controls a provisioning run.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ExtraUsers are additional usernames from the command line,
	// merged with the ones from the settings file.
	ExtraUsers []string
	// SkipReboot disables the scheduled reboot at the end of the run.
	SkipReboot bool
}

// errPackageManagerBusy indicates another process holds the package database.
var errPackageManagerBusy = errors.New("another package manager is running")

// Run executes the full provisioning pipeline and is the public entry point
// for the CLI. Preflight checks (privileges, dpkg lock) happen before any
// host state is touched.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "ubuntu-bootstrap")

	if err := common.EnsureRoot(); err != nil {
		logger.Error(ctx, err.Error())

		return err
	}

	if name, busy := common.FindBusyPackageManager(ctx); busy {
		return fmt.Errorf("%w: %s (wait for it to finish and retry)", errPackageManagerBusy, name)
	}

	// Load configuration; a missing settings file means defaults.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	cfg.ExtraUsers = append(cfg.ExtraUsers, opts.ExtraUsers...)
	cfg.SkipReboot = opts.SkipReboot

	if err = config.Validate(cfg); err != nil {
		return err
	}

	// Identify who started the run for the report and the group grant.
	invoker, err := common.DetectInvoker()
	if err != nil {
		return fmt.Errorf("detect invoker: %w", err)
	}

	// Refuse non-apt distributions before mutating anything.
	release, err := osinfo.Read("")
	if err != nil {
		return err
	}

	if err = release.EnsureAptBased(); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Starting provisioning",
		"host", invoker.Hostname,
		"distribution", release.PrettyName,
		"sudo_user", invoker.SudoUser,
	)

	svc := newService(cfg, runner.New(), release, invoker,
		repository.NewFileRepository(cfg.ReportFile))

	return svc.run(ctx)
}
