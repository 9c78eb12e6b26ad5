// Package runner invokes the external clover_leaf binary and classifies
// the outcome of each run from its log file.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/san-kum/cloverrun/internal/workspace"
)

// Status is the outcome of one simulation run.
type Status int

const (
	Failed Status = iota
	Success
)

func (s Status) String() string {
	if s == Success {
		return "success"
	}
	return "failed"
}

// Result describes one executor invocation. On Failed the artifact fields
// are empty: nothing may be moved out of the working directory so the
// operator can inspect the failure in place.
type Result struct {
	Status     Status
	Log        string
	VisitIndex string
	Snapshots  []string
}

// Artifacts returns the output files to collect, in a stable order.
func (r *Result) Artifacts() []string {
	files := make([]string, 0, len(r.Snapshots)+2)
	files = append(files, r.Snapshots...)
	if r.VisitIndex != "" {
		files = append(files, r.VisitIndex)
	}
	if r.Log != "" {
		files = append(files, r.Log)
	}
	return files
}

// Executor runs clover_leaf synchronously in its working directory.
type Executor struct {
	ws     *workspace.Handle
	logger *slog.Logger
}

func NewExecutor(ws *workspace.Handle, logger *slog.Logger) *Executor {
	return &Executor{ws: ws, logger: logger}
}

// EnsureBinary builds clover_leaf if it is missing. A build failure is
// fatal to the whole run, not to a single iteration.
func (e *Executor) EnsureBinary(ctx context.Context) error {
	if _, err := os.Stat(e.ws.BinaryPath()); err == nil {
		return nil
	}
	e.logger.Info("clover_leaf missing, building", "dir", e.ws.CloverDir)
	for _, args := range [][]string{{"clean"}, {"COMPILER=GNU"}} {
		cmd := exec.CommandContext(ctx, "make", args...)
		cmd.Dir = e.ws.CloverDir
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("runner: make %s: %w\n%s", strings.Join(args, " "), err, out)
		}
	}
	if _, err := os.Stat(e.ws.BinaryPath()); err != nil {
		return fmt.Errorf("runner: build completed but %s is still missing", workspace.BinaryName)
	}
	return nil
}

// Run invokes the binary with no arguments and waits for it to exit, then
// classifies the run from the log file. The exit code alone never marks a
// run successful: the binary can exit 0 with a partial log.
func (e *Executor) Run(ctx context.Context) (*Result, error) {
	cmd := exec.CommandContext(ctx, e.ws.BinaryPath())
	cmd.Dir = e.ws.CloverDir
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	runErr := cmd.Run()
	if ctx.Err() != nil {
		// The binary was killed by cancellation, not by the simulation.
		return nil, fmt.Errorf("runner: %s interrupted: %w", workspace.BinaryName, ctx.Err())
	}
	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		// The process never ran (missing binary, canceled context).
		return nil, fmt.Errorf("runner: %s: %w", workspace.BinaryName, runErr)
	}
	if runErr != nil {
		e.logger.Debug("clover_leaf exited non-zero", "err", runErr)
	}

	logData, err := os.ReadFile(e.ws.LogPath())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("runner: reading %s: %w", workspace.LogFile, err)
	}
	if ClassifyRun(logData) != Success {
		return &Result{Status: Failed}, nil
	}

	snapshots, err := e.ws.Snapshots()
	if err != nil {
		return nil, err
	}
	res := &Result{
		Status:    Success,
		Log:       e.ws.LogPath(),
		Snapshots: snapshots,
	}
	if _, err := os.Stat(e.ws.VisitPath()); err == nil {
		res.VisitIndex = e.ws.VisitPath()
	}
	return res, nil
}
