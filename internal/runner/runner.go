package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/oshokin/ubuntu-bootstrap/internal/logger"
)

// Runner executes external commands on the host.
// Services depend on this interface so tests can record invocations
// instead of mutating the machine.
type Runner interface {
	Run(ctx context.Context, opts Options) (*Result, error)
}

// Options describes a single command invocation.
type Options struct {
	// Name is the command name, resolved via PATH.
	Name string
	// Args is the command arguments.
	Args []string
	// Env is extra environment entries in KEY=VALUE form,
	// appended to the inherited environment.
	Env []string
	// Timeout bounds the command execution. Zero means no timeout.
	Timeout time.Duration
}

// Result represents the outcome of running a command.
type Result struct {
	// Output is the trimmed combined stdout and stderr of the command.
	Output string
	// ExitCode is the process exit code; zero on success.
	ExitCode int
}

// ErrCommandFailed wraps non-zero exits so callers can tolerate them explicitly.
var ErrCommandFailed = errors.New("command failed")

// ExecRunner is the Runner backed by os/exec.
type ExecRunner struct{}

// New returns a Runner executing commands on the local host.
func New() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command, blocking until it exits.
// The combined output is returned in both success and failure cases
// so callers can surface it to the operator.
func (r *ExecRunner) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	logger.Debugf(ctx, "Running command: %s", opts.String())

	cmd := exec.CommandContext(ctx, opts.Name, opts.Args...)
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	output, err := cmd.CombinedOutput()
	result := &Result{
		Output: strings.TrimSpace(string(output)),
	}

	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()

		return result, fmt.Errorf("%w: %s: exit code %d: %s",
			ErrCommandFailed, opts.String(), result.ExitCode, result.Output)
	}

	return result, fmt.Errorf("start %s: %w", opts.String(), err)
}

// String renders the invocation for logs and error messages.
func (o Options) String() string {
	if len(o.Args) == 0 {
		return o.Name
	}

	return o.Name + " " + strings.Join(o.Args, " ")
}
