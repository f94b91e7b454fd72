package osinfo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Release describes the distribution the tool is running on,
// read from the standard os-release file.
type Release struct {
	// ID is the lowercase distribution identifier (e.g. "ubuntu", "debian").
	ID string
	// IDLike lists related distributions (e.g. "debian" for Ubuntu).
	IDLike string
	// Codename is the release codename used in apt repository definitions.
	Codename string
	// PrettyName is the human-readable distribution name.
	PrettyName string
}

// DefaultPath is the canonical location of the os-release file.
const DefaultPath = "/etc/os-release"

var (
	// ErrNoCodename is returned when the release file lacks VERSION_CODENAME.
	ErrNoCodename = errors.New("os-release has no version codename")
	// ErrNotAptBased is returned when the distribution is not apt-managed.
	ErrNotAptBased = errors.New("distribution is not apt based")
)

// Read loads and parses the os-release file at the provided path.
// An empty path means DefaultPath.
func Read(path string) (*Release, error) {
	if path == "" {
		path = DefaultPath
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read os-release: %w", err)
	}

	return Parse(string(contents)), nil
}

// Parse extracts the fields of interest from os-release contents.
// Unknown keys are ignored; values may be quoted or bare.
func Parse(contents string) *Release {
	release := new(Release)

	for _, line := range strings.Split(contents, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		value = strings.Trim(value, `"'`)

		switch key {
		case "ID":
			release.ID = strings.ToLower(value)
		case "ID_LIKE":
			release.IDLike = strings.ToLower(value)
		case "VERSION_CODENAME":
			release.Codename = value
		case "PRETTY_NAME":
			release.PrettyName = value
		}
	}

	return release
}

// EnsureAptBased verifies the release can be provisioned with apt
// and that the codename needed for repository definitions is present.
func (r *Release) EnsureAptBased() error {
	if !r.IsAptBased() {
		return fmt.Errorf("%w: %s", ErrNotAptBased, r.ID)
	}

	if r.Codename == "" {
		return ErrNoCodename
	}

	return nil
}

// IsAptBased reports whether the distribution uses the apt package manager.
func (r *Release) IsAptBased() bool {
	for _, id := range append([]string{r.ID}, strings.Fields(r.IDLike)...) {
		if id == "ubuntu" || id == "debian" {
			return true
		}
	}

	return false
}
