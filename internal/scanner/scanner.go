// Package scanner walks repository checkouts while honoring ignore rules.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"coverage-miner/pkg/logger"

	gitignore "github.com/sabhiram/go-gitignore"
)

// defaultIgnore is always applied; VCS metadata never belongs to a mined snapshot.
var defaultIgnore = []string{".git/"}

// WalkFunc receives the slash-separated path relative to the walk root.
type WalkFunc func(relPath string, d fs.DirEntry) error

type ScannerInterface interface {
	Walk(root string, fn WalkFunc) error
	WalkStrict(root string, fn WalkFunc) error
	ListFiles(root string) ([]string, error)
	FindDir(root string, match func(dir string) bool) (string, bool, error)
}

type FileScanner struct {
	logger   logger.Logger
	patterns []string
}

// NewFileScanner creates a scanner that skips .git plus the given gitignore-style patterns.
func NewFileScanner(logger logger.Logger, patterns ...string) ScannerInterface {
	return &FileScanner{
		logger:   logger,
		patterns: patterns,
	}
}

func (s *FileScanner) loadIgnoreRules() *gitignore.GitIgnore {
	lines := make([]string, 0, len(defaultIgnore)+len(s.patterns))
	lines = append(lines, defaultIgnore...)
	lines = append(lines, s.patterns...)
	return gitignore.CompileIgnoreLines(lines...)
}

// Walk visits root in lexical pre-order. Ignored directories are pruned, ignored files are
// not reported. Unreadable entries are logged and skipped.
func (s *FileScanner) Walk(root string, fn WalkFunc) error {
	return s.walk(root, fn, false)
}

// WalkStrict is Walk, except that the first unreadable entry aborts the walk with its error.
func (s *FileScanner) WalkStrict(root string, fn WalkFunc) error {
	return s.walk(root, fn, true)
}

func (s *FileScanner) walk(root string, fn WalkFunc, strict bool) error {
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("failed to access %s: %w", root, err)
	}
	ignore := s.loadIgnoreRules()

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if strict {
				return fmt.Errorf("failed to access %s: %w", path, err)
			}
			s.logger.Warn("error accessing %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			if strict {
				return err
			}
			s.logger.Warn("failed to get relative path of %s: %v", path, err)
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if relPath != "." && ignore.MatchesPath(relPath+"/") {
				return filepath.SkipDir
			}
			return fn(relPath, d)
		}
		if ignore.MatchesPath(relPath) {
			return nil
		}
		return fn(relPath, d)
	})
}

// ListFiles returns every regular file under root that is not ignored.
func (s *FileScanner) ListFiles(root string) ([]string, error) {
	startTime := time.Now()
	var files []string
	err := s.Walk(root, func(relPath string, d fs.DirEntry) error {
		if d.Type().IsRegular() {
			files = append(files, relPath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}
	s.logger.Debug("listed %d files under %s in %v", len(files), root, time.Since(startTime))
	return files, nil
}

// FindDir returns the first directory, in pre-order, for which match holds. The returned
// path is relative to root, "." for root itself.
func (s *FileScanner) FindDir(root string, match func(dir string) bool) (string, bool, error) {
	var found string
	err := s.Walk(root, func(relPath string, d fs.DirEntry) error {
		if !d.IsDir() {
			return nil
		}
		if match(filepath.Join(root, filepath.FromSlash(relPath))) {
			found = relPath
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return found, found != "", nil
}
