package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks defaults and username validation.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Defaults are filled in.
	cfg := new(Config)

	err := Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultRebootDelayMinutes, cfg.RebootDelayMinutes)
	require.Equal(t, DefaultReportFilename, cfg.ReportFile)

	// Negative delay.
	cfg = &Config{
		RebootDelayMinutes: -1,
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Bad username.
	cfg = &Config{
		ExtraUsers: []string{"deploy user"},
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Blank entries are dropped, valid ones kept.
	cfg = &Config{
		ExtraUsers: []string{" ", "deploy", ""},
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"deploy"}, cfg.ExtraUsers)
}

// TestLoad_MissingFile ensures a missing settings file yields defaults, not an error.
func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		ExtraUsers:         []string{"deploy", "ci"},
		RebootDelayMinutes: 5,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.ExtraUsers, loaded.ExtraUsers)
	require.Equal(t, cfg.RebootDelayMinutes, loaded.RebootDelayMinutes)
	require.Equal(t, DefaultReportFilename, loaded.ReportFile)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}
