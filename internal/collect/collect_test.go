package collect

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/cloverrun/internal/runner"
	"github.com/san-kum/cloverrun/internal/workspace"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWorkspace(t *testing.T) *workspace.Handle {
	t.Helper()
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, workspace.CloverDirName), 0755))
	ws, err := workspace.New(base)
	require.NoError(t, err)
	require.NoError(t, ws.Init())
	return ws
}

// seedRun fakes a successful simulation's working directory state.
func seedRun(t *testing.T, ws *workspace.Handle) *runner.Result {
	t.Helper()
	snapshots := []string{
		filepath.Join(ws.CloverDir, "clover.0.vtk"),
		filepath.Join(ws.CloverDir, "clover.5.vtk"),
	}
	for _, p := range snapshots {
		require.NoError(t, os.WriteFile(p, []byte("snapshot"), 0644))
	}
	require.NoError(t, os.WriteFile(ws.LogPath(), []byte(" Calculation complete\n"), 0644))
	require.NoError(t, os.WriteFile(ws.VisitPath(), []byte("index"), 0644))
	require.NoError(t, os.WriteFile(ws.DeckPath(), []byte("*clover\n*endclover\n"), 0644))

	return &runner.Result{
		Status:     runner.Success,
		Log:        ws.LogPath(),
		VisitIndex: ws.VisitPath(),
		Snapshots:  snapshots,
	}
}

func TestCollectMovesArtifacts(t *testing.T) {
	ws := newTestWorkspace(t)
	res := seedRun(t, ws)
	dest := ws.IterationDir(1)

	c := New(ws, testLogger())
	require.NoError(t, c.Collect(res, dest))

	for _, name := range []string{"clover.0.vtk", "clover.5.vtk", workspace.LogFile, workspace.VisitFile, workspace.DeckFile} {
		assert.FileExists(t, filepath.Join(dest, name))
	}

	// Bulk outputs were moved, the deck was copied.
	drained, leftover, err := ws.Drained()
	require.NoError(t, err)
	assert.True(t, drained, "leftover artifacts: %v", leftover)
	assert.FileExists(t, ws.DeckPath(), "deck must stay in place for the next iteration")
}

func TestCollectRefusesFailedRun(t *testing.T) {
	ws := newTestWorkspace(t)
	c := New(ws, testLogger())
	err := c.Collect(&runner.Result{Status: runner.Failed}, ws.IterationDir(1))
	require.Error(t, err)
}

func TestCollectMissingArtifactFailsIteration(t *testing.T) {
	ws := newTestWorkspace(t)
	res := seedRun(t, ws)
	res.Snapshots = append(res.Snapshots, filepath.Join(ws.CloverDir, "clover.9.vtk"))

	c := New(ws, testLogger())
	err := c.Collect(res, ws.IterationDir(1))
	require.Error(t, err)
}

func TestCollectCreatesDestination(t *testing.T) {
	ws := newTestWorkspace(t)
	res := seedRun(t, ws)
	dest := ws.IterationDir(7)

	c := New(ws, testLogger())
	require.NoError(t, c.Collect(res, dest))
	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, "iteration_07", filepath.Base(dest))
}
