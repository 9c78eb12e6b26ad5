package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/cloverrun/internal/workspace"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWorkspace(t *testing.T) *workspace.Handle {
	t.Helper()
	base := t.TempDir()
	if err := os.Mkdir(filepath.Join(base, workspace.CloverDirName), 0755); err != nil {
		t.Fatal(err)
	}
	ws, err := workspace.New(base)
	if err != nil {
		t.Fatal(err)
	}
	return ws
}

// installFakeBinary writes a shell script as clover_leaf.
func installFakeBinary(t *testing.T, ws *workspace.Handle, script string) {
	t.Helper()
	if err := os.WriteFile(ws.BinaryPath(), []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatal(err)
	}
}

func TestClassifyRun(t *testing.T) {
	tests := []struct {
		name string
		log  string
		want Status
	}{
		{"marker present", "step 500\n Calculation complete\n Wall clock 12.4\n", Success},
		{"marker mid line", "xx Calculation complete xx", Success},
		{"marker absent", "step 499\n timestep collapsed\n", Failed},
		{"partial marker", "Calculation comp", Failed},
		{"empty log", "", Failed},
		{"wrong case", "calculation complete", Failed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyRun([]byte(tt.log)); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRunSuccess(t *testing.T) {
	ws := newTestWorkspace(t)
	installFakeBinary(t, ws, `
printf 'step 10\n Calculation complete\n' > clover.out
printf 'snapshot' > clover.0.vtk
printf 'snapshot' > clover.5.vtk
printf 'index' > clover.visit
`)

	e := NewExecutor(ws, testLogger())
	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Status != Success {
		t.Fatalf("expected success, got %v", res.Status)
	}
	if len(res.Snapshots) != 2 {
		t.Errorf("expected 2 snapshots, got %d", len(res.Snapshots))
	}
	if res.Log != ws.LogPath() {
		t.Errorf("expected log %s, got %s", ws.LogPath(), res.Log)
	}
	if res.VisitIndex != ws.VisitPath() {
		t.Errorf("expected visit index %s, got %s", ws.VisitPath(), res.VisitIndex)
	}
	if len(res.Artifacts()) != 4 {
		t.Errorf("expected 4 artifacts, got %d", len(res.Artifacts()))
	}
}

func TestRunFailedMarkerAbsent(t *testing.T) {
	ws := newTestWorkspace(t)
	installFakeBinary(t, ws, `
printf 'step 3\n timestep collapsed\n' > clover.out
printf 'partial' > clover.0.vtk
`)

	e := NewExecutor(ws, testLogger())
	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run errored: %v", err)
	}
	if res.Status != Failed {
		t.Fatalf("expected failed, got %v", res.Status)
	}
	if len(res.Artifacts()) != 0 {
		t.Error("failed result must carry no artifacts to collect")
	}

	// Diagnostic preservation: the files stay where the binary wrote them,
	// and re-inspection does not change anything.
	for _, name := range []string{workspace.LogFile, "clover.0.vtk"} {
		if _, err := os.Stat(filepath.Join(ws.CloverDir, name)); err != nil {
			t.Errorf("expected %s to remain in working directory", name)
		}
	}
	res2, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("re-run errored: %v", err)
	}
	if res2.Status != Failed {
		t.Error("re-inspection should still classify as failed")
	}
}

func TestRunFailedExitNonzeroNoLog(t *testing.T) {
	ws := newTestWorkspace(t)
	installFakeBinary(t, ws, "exit 1\n")

	e := NewExecutor(ws, testLogger())
	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run errored: %v", err)
	}
	if res.Status != Failed {
		t.Errorf("expected failed when no log was written, got %v", res.Status)
	}
}

func TestRunExitZeroWithoutMarkerIsFailed(t *testing.T) {
	ws := newTestWorkspace(t)
	installFakeBinary(t, ws, "printf 'aborted early\\n' > clover.out\nexit 0\n")

	e := NewExecutor(ws, testLogger())
	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run errored: %v", err)
	}
	if res.Status != Failed {
		t.Error("exit code 0 must not imply success without the marker")
	}
}

func TestRunCanceledContext(t *testing.T) {
	ws := newTestWorkspace(t)
	installFakeBinary(t, ws, "sleep 10\n")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	e := NewExecutor(ws, testLogger())
	_, err := e.Run(ctx)
	if err == nil {
		t.Fatal("expected error when the run is canceled")
	}
	// An operator interrupt must not be reported as a simulation failure.
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in the chain, got %v", err)
	}
}

func TestRunMissingBinary(t *testing.T) {
	ws := newTestWorkspace(t)
	e := NewExecutor(ws, testLogger())
	if _, err := e.Run(context.Background()); err == nil {
		t.Error("expected error when binary is missing")
	}
}

func TestEnsureBinaryPresent(t *testing.T) {
	ws := newTestWorkspace(t)
	installFakeBinary(t, ws, "exit 0\n")

	e := NewExecutor(ws, testLogger())
	if err := e.EnsureBinary(context.Background()); err != nil {
		t.Errorf("existing binary should not trigger a build: %v", err)
	}
}

func TestEnsureBinaryBuildFails(t *testing.T) {
	// No Makefile in the temp working directory, so make must fail.
	ws := newTestWorkspace(t)
	e := NewExecutor(ws, testLogger())
	if err := e.EnsureBinary(context.Background()); err == nil {
		t.Error("expected build failure without a Makefile")
	}
}
