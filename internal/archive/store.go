// Package archive keeps one durable zip snapshot per mined repository.
package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"coverage-miner/internal/errs"
	"coverage-miner/internal/scanner"
	"coverage-miner/internal/utils"
	"coverage-miner/pkg/logger"
)

// zipEpoch is the earliest modification time a zip entry can represent.
const zipEpoch = 1980

//go:generate mockgen -destination=../../test/mocks/mock_archive.go -package=mocks coverage-miner/internal/archive Store

// Store saves checkouts as archives and restores them for rebuilds.
type Store interface {
	// Save archives srcDir as name. Entries are prefixed with "name/".
	Save(ctx context.Context, name, srcDir string) (string, error)
	// Extract restores archive name under destDir, i.e. into destDir/name.
	Extract(ctx context.Context, name, destDir string) error
}

// LocalStore keeps archives as <dir>/<name>.zip.
type LocalStore struct {
	dir     string
	scanner scanner.ScannerInterface
	logger  logger.Logger
}

func NewLocalStore(dir string, sc scanner.ScannerInterface, logger logger.Logger) *LocalStore {
	return &LocalStore{dir: dir, scanner: sc, logger: logger}
}

// Path returns where archive name lives.
func (s *LocalStore) Path(name string) string {
	return filepath.Join(s.dir, name+".zip")
}

// Has reports whether archive name exists locally.
func (s *LocalStore) Has(name string) bool {
	return utils.FileExists(s.Path(name))
}

// Save writes the archive atomically. Files or directories older than 1980 cannot be
// represented and fail with unzippable; nothing is left behind in that case. An unreadable
// entry fails the save rather than producing a partial archive.
func (s *LocalStore) Save(ctx context.Context, name, srcDir string) (string, error) {
	startTime := time.Now()
	var files []string
	err := s.scanner.WalkStrict(srcDir, func(relPath string, d fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Year() < zipEpoch {
			return errs.Newf(errs.CauseUnzippable, "%s was modified %s", relPath, info.ModTime().Format(time.DateOnly))
		}
		if d.Type().IsRegular() {
			files = append(files, relPath)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if err := utils.EnsureDir(s.dir); err != nil {
		return "", err
	}
	target := s.Path(name)
	tmp := target + ".tmp"
	if err := writeZip(tmp, name, srcDir, files); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to write archive %s: %w", name, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to publish archive %s: %w", name, err)
	}
	s.logger.Info("archived %d files of %s in %v", len(files), name, time.Since(startTime))
	return target, nil
}

func writeZip(zipPath, prefix, srcDir string, files []string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	zipWriter := zip.NewWriter(out)
	for _, rel := range files {
		if err := utils.AddFileToZip(zipWriter, rel, srcDir, path.Join(prefix, rel)); err != nil {
			zipWriter.Close()
			out.Close()
			return err
		}
	}
	if err := zipWriter.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Extract never modifies the archive.
func (s *LocalStore) Extract(ctx context.Context, name, destDir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.Has(name) {
		return fmt.Errorf("archive %s: %w", name, os.ErrNotExist)
	}
	if err := utils.ExtractZip(s.Path(name), destDir); err != nil {
		return fmt.Errorf("failed to extract archive %s: %w", name, err)
	}
	return nil
}
