package common

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDetectInvoker ensures the host and user identity are resolved.
func TestDetectInvoker(t *testing.T) {
	invoker, err := DetectInvoker()
	require.NoError(t, err)
	require.NotEmpty(t, invoker.Hostname)
	require.NotEmpty(t, invoker.Username)
	require.Equal(t, os.Getenv("SUDO_USER"), invoker.SudoUser)
}

// TestEnsureRoot matches the outcome against the actual effective UID.
func TestEnsureRoot(t *testing.T) {
	t.Parallel()

	err := EnsureRoot()
	if os.Geteuid() == 0 {
		require.NoError(t, err)
	} else {
		require.ErrorIs(t, err, ErrNotRoot)
	}
}

// TestIsPackageManagerProcess checks the lock-holder name table.
func TestIsPackageManagerProcess(t *testing.T) {
	t.Parallel()

	require.True(t, IsPackageManagerProcess("apt-get"))
	require.True(t, IsPackageManagerProcess("dpkg"))
	require.True(t, IsPackageManagerProcess("unattended-upgr"))
	require.False(t, IsPackageManagerProcess("bash"))
	require.False(t, IsPackageManagerProcess(""))
}

// TestFindBusyPackageManager must not fail even when the scan finds nothing.
func TestFindBusyPackageManager(t *testing.T) {
	t.Parallel()

	name, busy := FindBusyPackageManager(context.Background())
	if !busy {
		require.Empty(t, name)
	} else {
		require.True(t, IsPackageManagerProcess(name))
	}
}
