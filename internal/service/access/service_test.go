package access

import (
	"context"
	"errors"
	"os/user"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/ubuntu-bootstrap/internal/domain/provision"
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
		return &runner.Result{ExitCode: 1}, err
	}

	return &runner.Result{}, nil
}

func (f *fakeRunner) commands() []string {
	result := make([]string, 0, len(f.calls))
	for _, call := range f.calls {
		result = append(result, call.String())
	}

	return result
}

// knownUsers builds a lookup function resolving only the provided names.
func knownUsers(names ...string) func(string) (*user.User, error) {
	known := make(map[string]struct{}, len(names))
	for _, name := range names {
		known[name] = struct{}{}
	}

	return func(username string) (*user.User, error) {
		if _, ok := known[username]; ok {
			return &user.User{Username: username}, nil
		}

		return nil, user.UnknownUserError(username)
	}
}

// TestRun_GrantsInvokerAndExtras checks grants, ordering and the service restart.
func TestRun_GrantsInvokerAndExtras(t *testing.T) {
	t.Parallel()

	fake := new(fakeRunner)
	svc := NewService(fake, WithUserLookup(knownUsers("o.shokin", "deploy")))

	invoker := &domain.Invoker{Hostname: "build-host", Username: "root", SudoUser: "o.shokin"}

	result, err := svc.Run(context.Background(), invoker, []string{"deploy"})
	require.NoError(t, err)
	require.Equal(t, []string{"o.shokin", "deploy"}, result.Granted)
	require.Empty(t, result.Skipped)

	require.Equal(t, []string{
		"usermod -aG docker o.shokin",
		"usermod -aG docker deploy",
		"systemctl restart docker",
	}, fake.commands())
}

// TestRun_UnknownUserSkipped ensures unknown names warn and are skipped, not fatal.
func TestRun_UnknownUserSkipped(t *testing.T) {
	t.Parallel()

	fake := new(fakeRunner)
	svc := NewService(fake, WithUserLookup(knownUsers("o.shokin")))

	invoker := &domain.Invoker{SudoUser: "o.shokin"}

	result, err := svc.Run(context.Background(), invoker, []string{"ghost"})
	require.NoError(t, err)
	require.Equal(t, []string{"o.shokin"}, result.Granted)
	require.Equal(t, []string{"ghost"}, result.Skipped)
	require.NotContains(t, fake.commands(), "usermod -aG docker ghost")
}

// TestRun_DeduplicatesUsers ensures a user listed twice is only granted once.
func TestRun_DeduplicatesUsers(t *testing.T) {
	t.Parallel()

	fake := new(fakeRunner)
	svc := NewService(fake, WithUserLookup(knownUsers("deploy")))

	invoker := &domain.Invoker{SudoUser: "deploy"}

	result, err := svc.Run(context.Background(), invoker, []string{"deploy"})
	require.NoError(t, err)
	require.Equal(t, []string{"deploy"}, result.Granted)
}

// TestRun_NoSudoUser still restarts the service when there is nobody to grant.
func TestRun_NoSudoUser(t *testing.T) {
	t.Parallel()

	fake := new(fakeRunner)
	svc := NewService(fake, WithUserLookup(knownUsers()))

	result, err := svc.Run(context.Background(), &domain.Invoker{Username: "root"}, nil)
	require.NoError(t, err)
	require.Empty(t, result.Granted)
	require.Equal(t, []string{"systemctl restart docker"}, fake.commands())
}

// TestRun_UsermodFailureIsFatal ensures a failing grant for an existing user aborts.
func TestRun_UsermodFailureIsFatal(t *testing.T) {
	t.Parallel()

	usermodErr := errors.New("group docker does not exist")
	fake := &fakeRunner{
		failures: map[string]error{
			"usermod -aG docker deploy": usermodErr,
		},
	}
	svc := NewService(fake, WithUserLookup(knownUsers("deploy")))

	_, err := svc.Run(context.Background(), &domain.Invoker{SudoUser: "deploy"}, nil)
	require.ErrorIs(t, err, usermodErr)
	require.NotContains(t, fake.commands(), "systemctl restart docker")
}
