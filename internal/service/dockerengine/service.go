package dockerengine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/ubuntu-bootstrap/internal/logger"
	"github.com/oshokin/ubuntu-bootstrap/internal/osinfo"
	"github.com/oshokin/ubuntu-bootstrap/internal/runner"
)

const (
	// DefaultAptDir is the apt configuration root on the host.
	DefaultAptDir = "/etc/apt"

	// DefaultDownloadURL is the vendor package repository root.
	DefaultDownloadURL = "https://download.docker.com/linux"

	// keyringFilename is where the vendor signing key is stored under keyrings/.
	keyringFilename = "docker.asc"

	// sourcesFilename is the repository definition under sources.list.d/.
	sourcesFilename = "docker.list"

	// keyringDirPermissions matches `install -m 0755 -d /etc/apt/keyrings`.
	keyringDirPermissions os.FileMode = 0o755

	// aptFilePermissions keeps the key and repo definition world-readable for apt.
	aptFilePermissions os.FileMode = 0o644
)

var (
	// legacyPackages conflict with the vendor packages and are removed first.
	// Removal is best-effort: most of them are simply absent on a fresh host.
	//
	//nolint:gochecknoglobals // Static package list.
	legacyPackages = []string{
		"docker.io", "docker-doc", "docker-compose", "docker-compose-v2",
		"podman-docker", "containerd", "runc",
	}

	// enginePackages are the vendor packages making up the container runtime.
	//
	//nolint:gochecknoglobals // Static package list.
	enginePackages = []string{
		"docker-ce", "docker-ce-cli", "containerd.io",
		"docker-buildx-plugin", "docker-compose-plugin",
	}

	// aptEnv keeps every apt invocation non-interactive.
	//
	//nolint:gochecknoglobals // Static environment shared by all apt calls.
	aptEnv = []string{"DEBIAN_FRONTEND=noninteractive"}

	// errUnexpectedStatus is returned when the signing key download fails.
	errUnexpectedStatus = errors.New("unexpected http status")
)

// Service installs the Docker Engine from the vendor apt repository
// and enables its systemd service.
type Service struct {
	// runner executes apt, dpkg and systemctl commands.
	runner runner.Runner
	// release identifies the distribution for the repository definition.
	release *osinfo.Release
	// httpClient downloads the vendor signing key.
	httpClient *http.Client
	// aptDir is the apt configuration root, overridable in tests.
	aptDir string
	// downloadURL is the vendor repository root, overridable in tests.
	downloadURL string
}

// Option customizes the service, mainly for tests.
type Option func(*Service)

// WithHTTPClient overrides the HTTP client used for the key download.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.httpClient = client
	}
}

// WithAptDir overrides the apt configuration root.
func WithAptDir(dir string) Option {
	return func(s *Service) {
		s.aptDir = dir
	}
}

// WithDownloadURL overrides the vendor repository root.
func WithDownloadURL(url string) Option {
	return func(s *Service) {
		s.downloadURL = url
	}
}

// NewService creates the installer backed by the provided runner and release info.
func NewService(r runner.Runner, release *osinfo.Release, opts ...Option) *Service {
	s := &Service{
		runner:      r,
		release:     release,
		httpClient:  http.DefaultClient,
		aptDir:      DefaultAptDir,
		downloadURL: DefaultDownloadURL,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run removes conflicting legacy packages, registers the vendor repository
// with its signing key, installs the engine packages and enables the service.
// Repository files are overwritten in full, so repeated runs cannot
// accumulate duplicate entries.
func (s *Service) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "docker-engine")

	s.removeLegacyPackages(ctx)

	if err := s.registerRepository(ctx); err != nil {
		return err
	}

	logger.Infof(ctx, "Installing packages: %s", strings.Join(enginePackages, " "))

	installArgs := append([]string{"install", "-y"}, enginePackages...)
	if _, err := s.runner.Run(ctx, runner.Options{
		Name: "apt-get",
		Args: installArgs,
		Env:  aptEnv,
	}); err != nil {
		return fmt.Errorf("apt-get install: %w", err)
	}

	logger.Info(ctx, "Enabling and starting the docker service")

	if _, err := s.runner.Run(ctx, runner.Options{
		Name: "systemctl",
		Args: []string{"enable", "--now", "docker"},
	}); err != nil {
		return fmt.Errorf("enable docker service: %w", err)
	}

	logger.Info(ctx, "Docker Engine is installed and running")

	return nil
}

// removeLegacyPackages removes distribution packages that conflict with the
// vendor ones. Failures are tolerated per package: on a fresh host most of
// these are not installed at all.
func (s *Service) removeLegacyPackages(ctx context.Context) {
	logger.Info(ctx, "Removing conflicting legacy packages")

	for _, pkg := range legacyPackages {
		if _, err := s.runner.Run(ctx, runner.Options{
			Name: "apt-get",
			Args: []string{"remove", "-y", pkg},
			Env:  aptEnv,
		}); err != nil {
			logger.Debugf(ctx, "Skipping legacy package %s: %v", pkg, err)
		}
	}
}

// registerRepository installs the vendor signing key, writes the repository
// definition and refreshes the package index.
func (s *Service) registerRepository(ctx context.Context) error {
	keyringDir := filepath.Join(s.aptDir, "keyrings")
	if err := os.MkdirAll(keyringDir, keyringDirPermissions); err != nil {
		return fmt.Errorf("create keyring directory: %w", err)
	}

	keyringFile := filepath.Join(keyringDir, keyringFilename)
	if err := s.downloadSigningKey(ctx, keyringFile); err != nil {
		return err
	}

	arch, err := s.dpkgArchitecture(ctx)
	if err != nil {
		return err
	}

	sourcesDir := filepath.Join(s.aptDir, "sources.list.d")
	if err = os.MkdirAll(sourcesDir, keyringDirPermissions); err != nil {
		return fmt.Errorf("create sources directory: %w", err)
	}

	repoLine := fmt.Sprintf("deb [arch=%s signed-by=%s] %s/%s %s stable\n",
		arch, keyringFile, s.downloadURL, s.release.ID, s.release.Codename)

	sourcesFile := filepath.Join(sourcesDir, sourcesFilename)
	if err = os.WriteFile(sourcesFile, []byte(repoLine), aptFilePermissions); err != nil {
		return fmt.Errorf("write repository definition: %w", err)
	}

	logger.InfoKV(ctx, "Registered vendor repository",
		"sources_file", sourcesFile, "architecture", arch, "codename", s.release.Codename)

	if _, err = s.runner.Run(ctx, runner.Options{
		Name: "apt-get",
		Args: []string{"update"},
		Env:  aptEnv,
	}); err != nil {
		return fmt.Errorf("apt-get update: %w", err)
	}

	return nil
}

// downloadSigningKey fetches the vendor GPG key over HTTPS and stores it
// world-readable for apt, overwriting any previous copy.
func (s *Service) downloadSigningKey(ctx context.Context, destination string) error {
	keyURL := fmt.Sprintf("%s/%s/gpg", s.downloadURL, s.release.ID)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, keyURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("build key request: %w", err)
	}

	response, err := s.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("download signing key: %w", err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s from %s", errUnexpectedStatus, response.Status, keyURL)
	}

	key, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("read signing key: %w", err)
	}

	if err = os.WriteFile(destination, key, aptFilePermissions); err != nil {
		return fmt.Errorf("write signing key: %w", err)
	}

	logger.InfoKV(ctx, "Installed vendor signing key", "path", destination)

	return nil
}

// dpkgArchitecture asks dpkg for the native package architecture.
func (s *Service) dpkgArchitecture(ctx context.Context) (string, error) {
	result, err := s.runner.Run(ctx, runner.Options{
		Name: "dpkg",
		Args: []string{"--print-architecture"},
	})
	if err != nil {
		return "", fmt.Errorf("detect architecture: %w", err)
	}

	return strings.TrimSpace(result.Output), nil
}
