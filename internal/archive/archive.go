// Package archive packages an iteration's collected artifacts into a
// timestamped tar.gz bundle and performs defensive cleanup of the working
// directory afterwards.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/cloverrun/internal/workspace"
)

// DefaultPrefix is the archive file name prefix.
const DefaultPrefix = "clover_data"

type Archiver struct {
	ws     *workspace.Handle
	prefix string
	logger *slog.Logger
}

func New(ws *workspace.Handle, logger *slog.Logger) *Archiver {
	return &Archiver{ws: ws, prefix: DefaultPrefix, logger: logger}
}

// Name builds the archive file name. The second-resolution timestamp makes
// names unique across invocations on the same day; the zero-padded
// iteration index disambiguates iterations that finish within the same
// second, so it must always be present.
func Name(prefix string, ts time.Time, index int) string {
	return fmt.Sprintf("%s_%s_%02d.tar.gz", prefix, ts.Format("20060102_150405"), index)
}

// Archive bundles iterDir into the archive root and then cleans any
// artifact residue out of the working directory. On failure the collected
// iteration directory is left intact so raw artifacts stay recoverable.
func (a *Archiver) Archive(iterDir string, index int) (string, error) {
	dest := filepath.Join(a.ws.ArchiveDir, Name(a.prefix, time.Now(), index))
	if err := writeTarGz(dest, iterDir); err != nil {
		return "", fmt.Errorf("archive: %s: %w", filepath.Base(dest), err)
	}
	a.logger.Debug("archive created", "archive", filepath.Base(dest))

	// Residue here means a crashed or interrupted prior run left outputs
	// behind that the collector never saw.
	if n, err := a.ws.CleanResidue(); err != nil {
		return dest, fmt.Errorf("archive: residue cleanup: %w", err)
	} else if n > 0 {
		a.logger.Warn("removed leftover artifact files from working directory", "count", n)
	}
	return dest, nil
}

func writeTarGz(dest, dir string) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	base := filepath.Base(dir)
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		if rel == "." {
			hdr.Name = base + "/"
		} else {
			hdr.Name = filepath.ToSlash(filepath.Join(base, rel))
			if d.IsDir() {
				hdr.Name += "/"
			}
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(tw, src)
		return err
	})

	if walkErr == nil {
		walkErr = tw.Close()
	}
	if walkErr == nil {
		walkErr = gz.Close()
	}
	if walkErr == nil {
		walkErr = f.Close()
	}
	if walkErr != nil {
		f.Close()
		os.Remove(dest)
		return walkErr
	}
	return nil
}
