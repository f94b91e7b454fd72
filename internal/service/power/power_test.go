package power

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/ubuntu-bootstrap/internal/runner"
)

// fakeRunner records invocations and optionally fails them.
type fakeRunner struct {
	calls []runner.Options
	err   error
}

func (f *fakeRunner) Run(_ context.Context, opts runner.Options) (*runner.Result, error) {
	f.calls = append(f.calls, opts)
	if f.err != nil {
		return &runner.Result{ExitCode: 1}, f.err
	}

	return &runner.Result{}, nil
}

// TestScheduleReboot verifies the shutdown invocation and the returned time.
func TestScheduleReboot(t *testing.T) {
	t.Parallel()

	fake := new(fakeRunner)

	before := time.Now()
	at, err := ScheduleReboot(context.Background(), fake, 1)
	require.NoError(t, err)

	require.Len(t, fake.calls, 1)
	require.Equal(t, "shutdown", fake.calls[0].Name)
	require.Equal(t, "-r", fake.calls[0].Args[0])
	require.Equal(t, "+1", fake.calls[0].Args[1])

	require.WithinDuration(t, before.Add(time.Minute), at, 5*time.Second)
}

// TestScheduleReboot_Error propagates shutdown failures.
func TestScheduleReboot_Error(t *testing.T) {
	t.Parallel()

	shutdownErr := errors.New("no permission")
	fake := &fakeRunner{err: shutdownErr}

	_, err := ScheduleReboot(context.Background(), fake, 1)
	require.ErrorIs(t, err, shutdownErr)
}

// TestCancelReboot verifies the cancel invocation.
func TestCancelReboot(t *testing.T) {
	t.Parallel()

	fake := new(fakeRunner)
	require.NoError(t, CancelReboot(context.Background(), fake))
	require.Len(t, fake.calls, 1)
	require.Equal(t, []string{"-c"}, fake.calls[0].Args)
}
