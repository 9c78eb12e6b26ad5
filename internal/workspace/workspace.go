// Package workspace resolves the on-disk layout around the clover_leaf
// binary and owns the working-directory discipline: the binary's directory
// is a single-writer resource that must be drained of artifacts between
// iterations.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Fixed file names of the external binary contract.
const (
	CloverDirName = "CloverLeaf_Serial"
	BinaryName    = "clover_leaf"
	DeckFile      = "clover.in"
	LogFile       = "clover.out"
	VisitFile     = "clover.visit"
	SnapshotExt   = ".vtk"
)

const (
	outputSubdir  = "data_processing/new_data"
	archiveSubdir = "data_processing/archives"
)

// Handle locates the working directory and the output/archive roots for a
// run. All paths are absolute once constructed.
type Handle struct {
	BaseDir    string
	CloverDir  string
	OutputDir  string
	ArchiveDir string
}

// FindRoot walks up from start until it finds a directory containing
// CloverLeaf_Serial.
func FindRoot(start string) (string, error) {
	dir := start
	for {
		if info, err := os.Stat(filepath.Join(dir, CloverDirName)); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("workspace: no %s directory found above %s", CloverDirName, start)
		}
		dir = parent
	}
}

// New builds a Handle rooted at baseDir. An empty baseDir triggers root
// discovery from the current directory.
func New(baseDir string) (*Handle, error) {
	if baseDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		baseDir, err = FindRoot(cwd)
		if err != nil {
			return nil, err
		}
	}
	return &Handle{
		BaseDir:    baseDir,
		CloverDir:  filepath.Join(baseDir, CloverDirName),
		OutputDir:  filepath.Join(baseDir, filepath.FromSlash(outputSubdir)),
		ArchiveDir: filepath.Join(baseDir, filepath.FromSlash(archiveSubdir)),
	}, nil
}

// Init creates the output and archive roots.
func (h *Handle) Init() error {
	for _, dir := range []string{h.OutputDir, h.ArchiveDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handle) BinaryPath() string { return filepath.Join(h.CloverDir, BinaryName) }
func (h *Handle) DeckPath() string   { return filepath.Join(h.CloverDir, DeckFile) }
func (h *Handle) LogPath() string    { return filepath.Join(h.CloverDir, LogFile) }
func (h *Handle) VisitPath() string  { return filepath.Join(h.CloverDir, VisitFile) }

// IterationDir is the collection target for one iteration. The index is
// zero-padded so directory listings sort in run order.
func (h *Handle) IterationDir(index int) string {
	return filepath.Join(h.OutputDir, fmt.Sprintf("iteration_%02d", index))
}

// Snapshots lists the snapshot files currently in the working directory,
// sorted by name.
func (h *Handle) Snapshots() ([]string, error) {
	return filepath.Glob(filepath.Join(h.CloverDir, "*"+SnapshotExt))
}

// Artifacts lists every simulation output file currently in the working
// directory: snapshots, the visit index and the log.
func (h *Handle) Artifacts() ([]string, error) {
	files, err := h.Snapshots()
	if err != nil {
		return nil, err
	}
	for _, p := range []string{h.VisitPath(), h.LogPath()} {
		if _, err := os.Stat(p); err == nil {
			files = append(files, p)
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return files, nil
}

// Drained reports whether the working directory holds no artifact files,
// returning any leftovers found.
func (h *Handle) Drained() (bool, []string, error) {
	leftover, err := h.Artifacts()
	if err != nil {
		return false, nil, err
	}
	return len(leftover) == 0, leftover, nil
}

// CleanResidue deletes artifact files left in the working directory and
// returns how many were removed. The input deck and the binary are never
// touched.
func (h *Handle) CleanResidue() (int, error) {
	files, err := h.Artifacts()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
