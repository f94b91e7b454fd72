package autopatch

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/ubuntu-bootstrap/internal/logger"
	"github.com/oshokin/ubuntu-bootstrap/internal/runner"
)

const (
	// DefaultConfDir is where apt reads its configuration snippets.
	DefaultConfDir = "/etc/apt/apt.conf.d"

	// PeriodicFilename enables the periodic update/upgrade machinery.
	PeriodicFilename = "20auto-upgrades"

	// PolicyFilename holds origins, blacklist, cleanup and reboot policy.
	PolicyFilename = "50unattended-upgrades"

	// agentPackage is the unattended-upgrade agent installed by this stage.
	agentPackage = "unattended-upgrades"

	// confFilePermissions keeps the snippets world-readable for apt.
	confFilePermissions os.FileMode = 0o644
)

var (
	// periodicConfig is the literal contents of PeriodicFilename.
	//
	//go:embed files/20auto-upgrades
	periodicConfig []byte

	// policyConfig is the literal contents of PolicyFilename.
	//
	//go:embed files/50unattended-upgrades
	policyConfig []byte

	// aptEnv keeps every apt invocation non-interactive.
	//
	//nolint:gochecknoglobals // Static environment shared by all apt calls.
	aptEnv = []string{"DEBIAN_FRONTEND=noninteractive"}
)

// Service installs and configures the unattended-upgrade agent so security
// patches are applied automatically after provisioning.
type Service struct {
	// runner executes apt and systemctl commands.
	runner runner.Runner
	// confDir is the apt configuration snippet directory, overridable in tests.
	confDir string
}

// Option customizes the service, mainly for tests.
type Option func(*Service)

// WithConfDir overrides the apt configuration snippet directory.
func WithConfDir(dir string) Option {
	return func(s *Service) {
		s.confDir = dir
	}
}

// NewService creates the configurator backed by the provided runner.
func NewService(r runner.Runner, opts ...Option) *Service {
	s := &Service{
		runner:  r,
		confDir: DefaultConfDir,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run installs the agent, writes both policy files in full, enables and
// restarts the agent service, then performs an informational dry-run check.
func (s *Service) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "auto-patching")

	logger.Infof(ctx, "Installing %s", agentPackage)

	if _, err := s.runner.Run(ctx, runner.Options{
		Name: "apt-get",
		Args: []string{"install", "-y", agentPackage},
		Env:  aptEnv,
	}); err != nil {
		return fmt.Errorf("install %s: %w", agentPackage, err)
	}

	if err := s.writePolicyFiles(ctx); err != nil {
		return err
	}

	for _, args := range [][]string{
		{"enable", agentPackage},
		{"restart", agentPackage},
	} {
		if _, err := s.runner.Run(ctx, runner.Options{
			Name: "systemctl",
			Args: args,
		}); err != nil {
			return fmt.Errorf("systemctl %s %s: %w", args[0], agentPackage, err)
		}
	}

	s.dryRunCheck(ctx)

	logger.Info(ctx, "Automatic security patching is configured")

	return nil
}

// writePolicyFiles overwrites both apt configuration snippets in full.
// There are no merge semantics: the files are owned by this tool.
func (s *Service) writePolicyFiles(ctx context.Context) error {
	files := map[string][]byte{
		PeriodicFilename: periodicConfig,
		PolicyFilename:   policyConfig,
	}

	for name, contents := range files {
		path := filepath.Join(s.confDir, name)
		if err := os.WriteFile(path, contents, confFilePermissions); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}

		logger.InfoKV(ctx, "Wrote apt policy file", "path", path)
	}

	return nil
}

// dryRunCheck asks the agent to simulate an upgrade run. The output is
// informational only; a failing check does not abort provisioning.
func (s *Service) dryRunCheck(ctx context.Context) {
	logger.Info(ctx, "Verifying unattended-upgrade configuration (dry run)")

	result, err := s.runner.Run(ctx, runner.Options{
		Name: "unattended-upgrade",
		Args: []string{"--dry-run", "--debug"},
	})
	if err != nil {
		logger.Warnf(ctx, "Dry-run check reported a problem: %v", err)

		return
	}

	if result.Output != "" {
		logger.Debugf(ctx, "Dry-run output:\n%s", result.Output)
	}
}
