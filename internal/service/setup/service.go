package setup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oshokin/ubuntu-bootstrap/internal/config"
	domain "github.com/oshokin/ubuntu-bootstrap/internal/domain/provision"
	"github.com/oshokin/ubuntu-bootstrap/internal/logger"
	"github.com/oshokin/ubuntu-bootstrap/internal/osinfo"
	repository "github.com/oshokin/ubuntu-bootstrap/internal/repository/report"
	"github.com/oshokin/ubuntu-bootstrap/internal/runner"
	"github.com/oshokin/ubuntu-bootstrap/internal/service/access"
	"github.com/oshokin/ubuntu-bootstrap/internal/service/autopatch"
	"github.com/oshokin/ubuntu-bootstrap/internal/service/dockerengine"
	"github.com/oshokin/ubuntu-bootstrap/internal/service/power"
	"github.com/oshokin/ubuntu-bootstrap/internal/service/sysupdate"
)

// stage is one step of the provisioning pipeline. A returned detail with a
// nil error marks the stage as completed with a tolerated warning.
type stage struct {
	// name identifies the stage in logs and the run report.
	name string
	// run executes the stage.
	run func(ctx context.Context) (detail string, err error)
}

// service wires the pipeline stages together and owns the run report.
// It is unexported to keep the CLI decoupled from the implementation.
type service struct {
	// cfg is the validated run configuration.
	cfg *config.Config
	// runner executes host commands for the reboot scheduling.
	runner runner.Runner
	// invoker identifies who started the run.
	invoker *domain.Invoker
	// repo persists the run report.
	repo repository.Repository
	// stages are executed sequentially, fail-fast.
	stages []stage
}

// newService builds the default pipeline from the concrete stage services.
func newService(
	cfg *config.Config,
	r runner.Runner,
	release *osinfo.Release,
	invoker *domain.Invoker,
	repo repository.Repository,
) *service {
	s := &service{
		cfg:     cfg,
		runner:  r,
		invoker: invoker,
		repo:    repo,
	}

	var (
		updater    = sysupdate.NewService(r)
		engine     = dockerengine.NewService(r, release)
		patcher    = autopatch.NewService(r)
		reconciler = access.NewService(r)
	)

	s.stages = []stage{
		{name: "package-update", run: simpleStage(updater.Run)},
		{name: "docker-engine", run: simpleStage(engine.Run)},
		{name: "auto-patching", run: simpleStage(patcher.Run)},
		{name: "access", run: func(ctx context.Context) (string, error) {
			result, err := reconciler.Run(ctx, invoker, cfg.ExtraUsers)
			if err != nil {
				return "", err
			}

			if len(result.Skipped) > 0 {
				return "skipped unknown users: " + strings.Join(result.Skipped, ", "), nil
			}

			return "", nil
		}},
	}

	return s
}

// simpleStage adapts a plain stage entry point to the pipeline signature.
func simpleStage(run func(ctx context.Context) error) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		return "", run(ctx)
	}
}

// run executes the pipeline, persists the report and schedules the reboot.
// The first stage failure aborts the rest; later stages are recorded as
// skipped so the report still lists the whole pipeline.
func (s *service) run(ctx context.Context) error {
	report := &domain.Report{
		StartedAt: time.Now(),
		Invoker:   s.invoker.Clone(),
	}

	var failed error

	for _, st := range s.stages {
		if failed != nil {
			report.Stages = append(report.Stages, domain.StageResult{
				Name:   st.name,
				Status: domain.StatusSkipped,
			})

			continue
		}

		logger.Infof(ctx, "=== Stage: %s ===", st.name)

		started := time.Now()
		detail, err := st.run(ctx)
		result := domain.StageResult{
			Name:     st.name,
			Detail:   detail,
			Duration: time.Since(started).Round(time.Millisecond),
		}

		switch {
		case err != nil:
			result.Status = domain.StatusFailed
			result.Detail = err.Error()
			failed = fmt.Errorf("stage %s: %w", st.name, err)

			logger.ErrorKV(ctx, "Stage failed", "stage", st.name, "error", err)
		case detail != "":
			result.Status = domain.StatusWarning
		default:
			result.Status = domain.StatusOK
		}

		report.Stages = append(report.Stages, result)
	}

	if failed == nil && !s.cfg.SkipReboot {
		rebootAt, err := power.ScheduleReboot(ctx, s.runner, s.cfg.RebootDelayMinutes)
		if err != nil {
			failed = err
		} else {
			report.RebootAt = rebootAt
		}
	}

	report.FinishedAt = time.Now()

	// The report is informational; failing to write it must not mask
	// the actual run outcome.
	if err := s.repo.Save(ctx, report); err != nil {
		logger.Warnf(ctx, "Unable to persist run report: %v", err)
	}

	s.printSummary(ctx, report)

	return failed
}

// printSummary renders the final block the operator sees.
func (s *service) printSummary(ctx context.Context, report *domain.Report) {
	logger.Info(ctx, "==================================================")
	logger.Info(ctx, "Provisioning summary")

	for _, result := range report.Stages {
		line := fmt.Sprintf("  %-16s %s", result.Name, result.Status)
		if result.Detail != "" {
			line += " (" + result.Detail + ")"
		}

		logger.Info(ctx, line)
	}

	switch {
	case !report.Succeeded():
		logger.Error(ctx, "Provisioning failed, see the stage errors above")
	case s.cfg.SkipReboot:
		logger.Warn(ctx, "Reboot skipped; reboot manually to finish provisioning")
	default:
		logger.Infof(ctx, "Reboot scheduled at %s (in %d minute(s)), cancel with: shutdown -c",
			report.RebootAt.Format("15:04"), s.cfg.RebootDelayMinutes)
	}

	logger.Info(ctx, "==================================================")
}
