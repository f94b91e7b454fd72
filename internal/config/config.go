package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the operator-supplied settings for a provisioning run.
type Config struct {
	// ExtraUsers are additional usernames granted docker group access
	// besides the invoking sudo user. Unknown names are skipped with a warning.
	ExtraUsers []string `yaml:"extra_users"`
	// RebootDelayMinutes is how long after completion the reboot is scheduled.
	RebootDelayMinutes int `yaml:"reboot_delay_minutes"`
	// ReportFile is the path where the run report is persisted.
	ReportFile string `yaml:"report_file"`
	// SkipReboot disables the scheduled reboot at the end of the run.
	// It is also settable from the command line and is not persisted to YAML.
	SkipReboot bool `yaml:"-"`
}

const (
	// DefaultConfigFilename is the default filename for provisioning settings.
	DefaultConfigFilename = "ubuntu-bootstrap-settings.yaml"

	// DefaultReportFilename is the default filename for the run report YAML.
	DefaultReportFilename = "ubuntu-bootstrap-report.yaml"

	// DefaultRebootDelayMinutes is the default delay before the scheduled reboot.
	DefaultRebootDelayMinutes = 1

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNegativeRebootDelay is returned when the reboot delay is below zero.
	errNegativeRebootDelay = errors.New("reboot delay must not be negative")
	// errBadUsername is returned when an extra username contains forbidden characters.
	errBadUsername = errors.New("invalid username")
)

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		RebootDelayMinutes: DefaultRebootDelayMinutes,
		ReportFile:         DefaultReportFilename,
	}
}

// Load reads configuration from the provided path and validates essential fields.
// A missing file is not an error: the run then uses defaults,
// mirroring the edit-in-place settings of the original shell workflow.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.RebootDelayMinutes < 0 {
		return fmt.Errorf("%w: %d", errNegativeRebootDelay, cfg.RebootDelayMinutes)
	}

	// Set default reboot delay if not specified.
	if cfg.RebootDelayMinutes == 0 {
		cfg.RebootDelayMinutes = DefaultRebootDelayMinutes
	}

	// Set default report file if not specified.
	if cfg.ReportFile == "" {
		cfg.ReportFile = DefaultReportFilename
	}

	cleaned := make([]string, 0, len(cfg.ExtraUsers))

	for _, name := range cfg.ExtraUsers {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		if strings.ContainsAny(name, " \t:,") {
			return fmt.Errorf("%w: %q", errBadUsername, name)
		}

		cleaned = append(cleaned, name)
	}

	cfg.ExtraUsers = cleaned

	return nil
}
