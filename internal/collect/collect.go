// Package collect relocates a successful run's artifacts into an
// iteration-scoped directory, keeping the working directory clean for the
// next iteration.
package collect

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/san-kum/cloverrun/internal/runner"
	"github.com/san-kum/cloverrun/internal/workspace"
)

type Collector struct {
	ws     *workspace.Handle
	logger *slog.Logger
}

func New(ws *workspace.Handle, logger *slog.Logger) *Collector {
	return &Collector{ws: ws, logger: logger}
}

// Collect moves every artifact of res into destDir (created if absent) and
// copies the input deck alongside them for provenance. Bulk outputs are
// moved, not copied: the move is what drains the working directory. Any
// relocation failure fails the whole iteration.
func (c *Collector) Collect(res *runner.Result, destDir string) error {
	if res.Status != runner.Success {
		return fmt.Errorf("collect: refusing to collect a failed run")
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("collect: %w", err)
	}

	for _, src := range res.Artifacts() {
		dst := filepath.Join(destDir, filepath.Base(src))
		if err := moveFile(src, dst); err != nil {
			return fmt.Errorf("collect: %s: %w", filepath.Base(src), err)
		}
	}

	// The deck is copied, not moved: the binary reads it again next
	// iteration when the plan reuses a fixed configuration.
	deckDst := filepath.Join(destDir, workspace.DeckFile)
	if err := copyFile(c.ws.DeckPath(), deckDst); err != nil {
		return fmt.Errorf("collect: input deck: %w", err)
	}

	drained, leftover, err := c.ws.Drained()
	if err != nil {
		return fmt.Errorf("collect: drain check: %w", err)
	}
	if !drained {
		return fmt.Errorf("collect: working directory not drained, leftover: %v", leftover)
	}
	c.logger.Debug("artifacts collected", "dest", destDir, "files", len(res.Artifacts())+1)
	return nil
}

// moveFile renames src to dst, falling back to copy-and-delete when the
// two paths live on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	} else if _, statErr := os.Stat(src); statErr != nil {
		return statErr
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
