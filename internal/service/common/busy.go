package common

import (
	"context"
	"os"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/ubuntu-bootstrap/internal/logger"
)

// packageManagerProcesses are executable names that hold the dpkg lock.
// The kernel truncates /proc comm names to 15 characters, hence the
// shortened unattended-upgrade entry.
//
//nolint:gochecknoglobals // Static lookup table.
var packageManagerProcesses = map[string]struct{}{
	"apt":             {},
	"apt-get":         {},
	"aptitude":        {},
	"dpkg":            {},
	"unattended-upgr": {},
}

// IsPackageManagerProcess reports whether the executable name belongs
// to a process that competes for the package database.
func IsPackageManagerProcess(executable string) bool {
	_, ok := packageManagerProcesses[executable]

	return ok
}

// FindBusyPackageManager scans running processes and returns the name of a
// package-manager process holding the dpkg lock, if any. Scan failures are
// logged and treated as "not busy": the subsequent apt calls will surface
// a proper lock error anyway.
func FindBusyPackageManager(ctx context.Context) (string, bool) {
	processList, err := ps.Processes()
	if err != nil {
		logger.Warnf(ctx, "Unable to scan processes: %v", err)

		return "", false
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if IsPackageManagerProcess(process.Executable()) {
			return process.Executable(), true
		}
	}

	return "", false
}
