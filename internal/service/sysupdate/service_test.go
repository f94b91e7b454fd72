package sysupdate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/ubuntu-bootstrap/internal/runner"
)

// fakeRunner records invocations and fails commands listed in failures.
type fakeRunner struct {
	calls    []runner.Options
	failures map[string]error
}

func (f *fakeRunner) Run(_ context.Context, opts runner.Options) (*runner.Result, error) {
	f.calls = append(f.calls, opts)

	if err, ok := f.failures[opts.String()]; ok {
		return &runner.Result{ExitCode: 100}, err
	}

	return &runner.Result{}, nil
}

// TestRun_CommandSequence verifies the exact apt-get invocations and their order.
func TestRun_CommandSequence(t *testing.T) {
	t.Parallel()

	fake := new(fakeRunner)
	require.NoError(t, NewService(fake).Run(context.Background()))

	var commands []string
	for _, call := range fake.calls {
		require.Equal(t, "apt-get", call.Name)
		require.Contains(t, call.Env, "DEBIAN_FRONTEND=noninteractive")
		commands = append(commands, call.String())
	}

	require.Equal(t, []string{
		"apt-get update",
		"apt-get upgrade -y -o Dpkg::Options::=--force-confdef -o Dpkg::Options::=--force-confold",
		"apt-get autoremove --purge -y",
		"apt-get autoclean",
	}, commands)
}

// TestRun_FailFast ensures the first failing step aborts the stage.
func TestRun_FailFast(t *testing.T) {
	t.Parallel()

	aptErr := errors.New("could not get lock")
	fake := &fakeRunner{
		failures: map[string]error{
			"apt-get update": aptErr,
		},
	}

	err := NewService(fake).Run(context.Background())
	require.ErrorIs(t, err, aptErr)
	require.Len(t, fake.calls, 1)
}
