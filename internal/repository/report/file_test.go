package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/ubuntu-bootstrap/internal/domain/provision"
)

// TestFileRepository_NotFound verifies Load returns ErrNotFound for missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()
	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing.yaml"))
	r, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, r)
}

// TestFileRepository_SaveLoad_Roundtrip ensures Save followed by Load returns equal report.
func TestFileRepository_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "report.yaml")
	repo := NewFileRepository(file)

	ts := time.Now().UTC().Truncate(time.Second)
	want := &domain.Report{
		StartedAt:  ts,
		FinishedAt: ts.Add(2 * time.Minute),
		Invoker: &domain.Invoker{
			Hostname: "build-host",
			Username: "root",
			SudoUser: "o.shokin",
		},
		Stages: []domain.StageResult{
			{Name: "package-update", Status: domain.StatusOK, Duration: 40 * time.Second},
			{Name: "docker-engine", Status: domain.StatusWarning, Detail: "legacy package removal skipped"},
		},
		RebootAt: ts.Add(3 * time.Minute),
	}

	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want.Invoker, got.Invoker)
	require.Equal(t, want.Stages, got.Stages)
	require.Equal(t, want.StartedAt.Unix(), got.StartedAt.Unix())
	require.Equal(t, want.RebootAt.Unix(), got.RebootAt.Unix())

	_, err = os.Stat(file)
	require.NoError(t, err)
}

// TestFileRepository_Overwrite ensures a second Save fully replaces the previous report.
func TestFileRepository_Overwrite(t *testing.T) {
	t.Parallel()
	repo := NewFileRepository(filepath.Join(t.TempDir(), "report.yaml"))

	first := &domain.Report{
		Stages: []domain.StageResult{
			{Name: "package-update", Status: domain.StatusFailed, Detail: "apt-get update exited 100"},
		},
	}
	require.NoError(t, repo.Save(context.Background(), first))

	second := &domain.Report{
		Stages: []domain.StageResult{
			{Name: "package-update", Status: domain.StatusOK},
			{Name: "docker-engine", Status: domain.StatusOK},
		},
	}
	require.NoError(t, repo.Save(context.Background(), second))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Stages, 2)
	require.Equal(t, domain.StatusOK, got.Stages[0].Status)
}
