package access

import (
	"context"
	"fmt"
	"os/user"

	domain "github.com/oshokin/ubuntu-bootstrap/internal/domain/provision"
	"github.com/oshokin/ubuntu-bootstrap/internal/logger"
	"github.com/oshokin/ubuntu-bootstrap/internal/runner"
)

// GroupName is the OS group granting non-root control of the container runtime.
const GroupName = "docker"

// Result lists what the reconciler actually did.
type Result struct {
	// Granted are usernames added to the access group.
	Granted []string
	// Skipped are configured usernames that do not exist on this host.
	Skipped []string
}

// Service grants container-runtime access to the invoking user and the
// configured extras, then restarts the affected service.
type Service struct {
	// runner executes usermod and systemctl.
	runner runner.Runner
	// lookupUser resolves a username, overridable in tests.
	lookupUser func(username string) (*user.User, error)
}

// Option customizes the service, mainly for tests.
type Option func(*Service)

// WithUserLookup overrides how usernames are resolved.
func WithUserLookup(lookup func(username string) (*user.User, error)) Option {
	return func(s *Service) {
		s.lookupUser = lookup
	}
}

// NewService creates the reconciler backed by the provided runner.
func NewService(r runner.Runner, opts ...Option) *Service {
	s := &Service{
		runner:     r,
		lookupUser: user.Lookup,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run adds the invoking sudo user plus the extra usernames to the docker
// group and restarts the docker service. Membership is additive (usermod -aG),
// so repeated runs are harmless. Unknown usernames are skipped with a warning;
// a failing usermod for an existing user is fatal.
func (s *Service) Run(ctx context.Context, invoker *domain.Invoker, extraUsers []string) (*Result, error) {
	ctx = logger.WithName(ctx, "access")

	result := new(Result)

	for _, username := range candidates(invoker, extraUsers) {
		if _, err := s.lookupUser(username); err != nil {
			logger.Warnf(ctx, "User %q does not exist, skipping group grant", username)
			result.Skipped = append(result.Skipped, username)

			continue
		}

		if _, err := s.runner.Run(ctx, runner.Options{
			Name: "usermod",
			Args: []string{"-aG", GroupName, username},
		}); err != nil {
			return result, fmt.Errorf("add %s to %s group: %w", username, GroupName, err)
		}

		logger.Infof(ctx, "Added %s to the %s group", username, GroupName)
		result.Granted = append(result.Granted, username)
	}

	if len(result.Granted) == 0 {
		logger.Warn(ctx, "No users were granted docker access; root can still use the runtime")
	}

	if _, err := s.runner.Run(ctx, runner.Options{
		Name: "systemctl",
		Args: []string{"restart", "docker"},
	}); err != nil {
		return result, fmt.Errorf("restart docker service: %w", err)
	}

	return result, nil
}

// candidates returns the deduplicated grant list: the sudo user first,
// then the configured extras in their original order.
func candidates(invoker *domain.Invoker, extraUsers []string) []string {
	seen := make(map[string]struct{}, len(extraUsers)+1)
	result := make([]string, 0, len(extraUsers)+1)

	appendUser := func(username string) {
		if username == "" {
			return
		}

		if _, ok := seen[username]; ok {
			return
		}

		seen[username] = struct{}{}
		result = append(result, username)
	}

	if invoker != nil {
		appendUser(invoker.SudoUser)
	}

	for _, username := range extraUsers {
		appendUser(username)
	}

	return result
}
