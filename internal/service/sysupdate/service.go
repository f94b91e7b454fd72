package sysupdate

import (
	"context"
	"fmt"

	"github.com/oshokin/ubuntu-bootstrap/internal/logger"
	"github.com/oshokin/ubuntu-bootstrap/internal/runner"
)

// Service refreshes the package index, upgrades installed packages and
// cleans up afterwards. Every step is fatal on failure.
type Service struct {
	// runner executes the apt commands.
	runner runner.Runner
}

// aptEnv keeps every apt invocation non-interactive.
//
//nolint:gochecknoglobals // Static environment shared by all apt calls.
var aptEnv = []string{"DEBIAN_FRONTEND=noninteractive"}

// NewService creates the package updater backed by the provided runner.
func NewService(r runner.Runner) *Service {
	return &Service{
		runner: r,
	}
}

// Run refreshes the index, upgrades all packages preferring existing
// configuration files on conflicts, then removes unused packages and caches.
// Safe to run repeatedly: apt treats up-to-date packages as a no-op.
func (s *Service) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "package-update")

	steps := []struct {
		description string
		args        []string
	}{
		{"Refreshing package index", []string{"update"}},
		{"Upgrading installed packages", []string{
			"upgrade", "-y",
			"-o", "Dpkg::Options::=--force-confdef",
			"-o", "Dpkg::Options::=--force-confold",
		}},
		{"Removing unused packages", []string{"autoremove", "--purge", "-y"}},
		{"Cleaning package cache", []string{"autoclean"}},
	}

	for _, step := range steps {
		logger.Info(ctx, step.description)

		if _, err := s.runner.Run(ctx, runner.Options{
			Name: "apt-get",
			Args: step.args,
			Env:  aptEnv,
		}); err != nil {
			return fmt.Errorf("apt-get %s: %w", step.args[0], err)
		}
	}

	logger.Info(ctx, "System packages are up to date")

	return nil
}
