package provision

import "time"

// StageStatus is the outcome of a single pipeline stage.
type StageStatus string

const (
	// StatusOK marks a stage that completed successfully.
	StatusOK StageStatus = "ok"
	// StatusWarning marks a stage that completed with tolerated issues.
	StatusWarning StageStatus = "warning"
	// StatusFailed marks the stage that aborted the run.
	StatusFailed StageStatus = "failed"
	// StatusSkipped marks a stage that never ran because an earlier one failed.
	StatusSkipped StageStatus = "skipped"
)

// Invoker identifies who started the provisioning run.
type Invoker struct {
	// Hostname is the machine being provisioned.
	Hostname string `yaml:"hostname"`
	// Username is the effective user running the process (root).
	Username string `yaml:"username"`
	// SudoUser is the account that escalated via sudo, when known.
	SudoUser string `yaml:"sudo_user,omitempty"`
}

// Clone returns a copy of the invoker.
func (i *Invoker) Clone() *Invoker {
	if i == nil {
		return nil
	}

	cloned := *i

	return &cloned
}

// StageResult records the outcome of one pipeline stage.
type StageResult struct {
	// Name identifies the stage.
	Name string `yaml:"name"`
	// Status is the stage outcome.
	Status StageStatus `yaml:"status"`
	// Detail carries warnings or the failure reason, if any.
	Detail string `yaml:"detail,omitempty"`
	// Duration is how long the stage took.
	Duration time.Duration `yaml:"duration"`
}

// Report captures everything a single provisioning run did.
type Report struct {
	// StartedAt is when the run began.
	StartedAt time.Time `yaml:"started_at"`
	// FinishedAt is when the run ended, successfully or not.
	FinishedAt time.Time `yaml:"finished_at"`
	// Invoker identifies who started the run.
	Invoker *Invoker `yaml:"invoker"`
	// Stages lists per-stage outcomes in execution order.
	Stages []StageResult `yaml:"stages"`
	// RebootAt is the scheduled reboot time; zero when the reboot was skipped.
	RebootAt time.Time `yaml:"reboot_at,omitempty"`
}

// Clone returns a copy of the report to avoid leaking internal references.
func (r *Report) Clone() *Report {
	stages := make([]StageResult, len(r.Stages))
	copy(stages, r.Stages)

	return &Report{
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Invoker:    r.Invoker.Clone(),
		Stages:     stages,
		RebootAt:   r.RebootAt,
	}
}

// Succeeded reports whether every executed stage completed without failing.
func (r *Report) Succeeded() bool {
	for _, stage := range r.Stages {
		if stage.Status == StatusFailed {
			return false
		}
	}

	return true
}
