package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/ubuntu-bootstrap/internal/config"
	domain "github.com/oshokin/ubuntu-bootstrap/internal/domain/provision"
)

// Repository defines persistence operations for the run report.
type Repository interface {
	Load(ctx context.Context) (*domain.Report, error)
	Save(ctx context.Context, report *domain.Report) error
}

// FileRepository persists the run report to a YAML file on disk.
// Each run overwrites the previous report in full.
type FileRepository struct {
	// path is the filesystem location of the YAML report file.
	path string
	// mu protects concurrent access to the report file.
	mu sync.Mutex
}

// ErrNotFound is returned when no report has been written yet.
var ErrNotFound = errors.New("report not found")

// NewFileRepository creates a repository that reads/writes YAML at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the report of the previous run from disk.
func (r *FileRepository) Load(_ context.Context) (*domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read report file: %w", err)
	}

	var report domain.Report
	if err = yaml.Unmarshal(contents, &report); err != nil {
		return nil, fmt.Errorf("decode report file: %w", err)
	}

	return &report, nil
}

// Save writes the report to disk, replacing any previous one.
func (r *FileRepository) Save(_ context.Context, report *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}

	return nil
}
