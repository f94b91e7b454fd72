//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"errors"
	"fmt"
	"os"
	"os/user"

	domain "github.com/oshokin/ubuntu-bootstrap/internal/domain/provision"
)

// ErrNotRoot indicates the process lacks superuser privileges.
var ErrNotRoot = errors.New("this program must be run as root (use sudo)")

// EnsureRoot verifies the effective user is the superuser.
// Nothing on the host is touched before this check passes.
func EnsureRoot() error {
	if os.Geteuid() != 0 {
		return ErrNotRoot
	}

	return nil
}

// DetectInvoker gathers host and user information for the run report.
// SUDO_USER identifies the account that escalated privileges; it is empty
// when the process was started from a root shell directly.
func DetectInvoker() (*domain.Invoker, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	return &domain.Invoker{
		Hostname: hostname,
		Username: currentUser.Username,
		SudoUser: os.Getenv("SUDO_USER"),
	}, nil
}
