// Package filesystem provides the local-disk corpus source. The corpus is
// read-only: the connector scans and watches, it never writes.
package filesystem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
	"github.com/custodia-labs/coursa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/coursa-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.CorpusSource = (*Source)(nil)

// excludedDirs are directory names never scanned or classified. These are
// tooling artifacts with no course content.
var excludedDirs = map[string]struct{}{
	".git": {}, "__pycache__": {}, "node_modules": {},
	".DS_Store": {}, ".ipynb_checkpoints": {},
	"venv": {}, ".venv": {}, "env": {}, ".env": {},
	".tox": {}, ".mypy_cache": {}, ".pytest_cache": {},
	"build": {}, "dist": {}, ".eggs": {},
}

// Source is a local filesystem corpus rooted at one directory.
type Source struct {
	root string
}

// New creates a corpus source for the given root directory.
func New(root string) (*Source, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve corpus root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat corpus root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: corpus root %s is not a directory", domain.ErrInvalidInput, abs)
	}
	return &Source{root: abs}, nil
}

// Root returns the absolute corpus root path.
func (s *Source) Root() string {
	return s.root
}

// Scan walks the corpus and returns every kept file and directory with
// fingerprints. Excluded and dot-prefixed names are pruned, files first by
// their own name and directories with their whole subtree.
func (s *Source) Scan(ctx context.Context) ([]domain.Entry, error) {
	var entries []domain.Entry

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if excluded(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		var fingerprint string
		if d.IsDir() {
			fingerprint, err = dirFingerprint(path)
		} else {
			fingerprint, err = fileFingerprint(d)
		}
		if err != nil {
			logger.Debug("fingerprint %s: %v", rel, err)
			return nil
		}

		kind := domain.KindFile
		if d.IsDir() {
			kind = domain.KindDirectory
		}
		entries = append(entries, domain.Entry{Path: rel, Kind: kind, Fingerprint: fingerprint})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.root, err)
	}

	return entries, nil
}

// Watch emits an event per observed corpus change. The watcher covers the
// root and every kept subdirectory, and follows directories created while
// watching. The channel closes when ctx is cancelled.
func (s *Source) Watch(ctx context.Context) (<-chan driven.CorpusEvent, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(s.root); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", s.root, err)
	}
	entries, err := s.Scan(ctx)
	if err != nil {
		watcher.Close()
		return nil, err
	}
	for _, e := range entries {
		if e.Kind != domain.KindDirectory {
			continue
		}
		if err := watcher.Add(filepath.Join(s.root, filepath.FromSlash(e.Path))); err != nil {
			logger.Debug("watch %s: %v", e.Path, err)
		}
	}

	out := make(chan driven.CorpusEvent)
	go func() {
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				rel, err := filepath.Rel(s.root, event.Name)
				if err != nil || hiddenOrExcluded(rel) {
					continue
				}
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if err := watcher.Add(event.Name); err != nil {
							logger.Debug("watch new directory %s: %v", rel, err)
						}
					}
				}
				select {
				case out <- driven.CorpusEvent{Path: filepath.ToSlash(rel), Op: opString(event)}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Debug("watcher error: %v", err)
			}
		}
	}()
	return out, nil
}

// Close releases resources.
func (s *Source) Close() error {
	return nil
}

func excluded(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, ok := excludedDirs[name]
	return ok
}

func hiddenOrExcluded(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if excluded(part) {
			return true
		}
	}
	return false
}

func opString(event fsnotify.Event) string {
	switch {
	case event.Has(fsnotify.Create):
		return "create"
	case event.Has(fsnotify.Write):
		return "write"
	case event.Has(fsnotify.Remove):
		return "remove"
	case event.Has(fsnotify.Rename):
		return "rename"
	default:
		return "chmod"
	}
}

// fileFingerprint signs a file by size and modification time. Reading file
// contents would make rescans as expensive as the corpus itself.
func fileFingerprint(d fs.DirEntry) (string, error) {
	info, err := d.Info()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("f:%d:%d", info.Size(), info.ModTime().UnixNano()), nil
}

// dirFingerprint signs a directory by its immediate kept child names and
// kinds. File content edits deliberately do not change it: only structural
// changes invalidate a folder decision.
func dirFingerprint(path string) (string, error) {
	children, err := os.ReadDir(path)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(children))
	for _, c := range children {
		if excluded(c.Name()) {
			continue
		}
		kind := "f"
		if c.IsDir() {
			kind = "d"
		}
		names = append(names, kind+":"+c.Name())
	}
	sort.Strings(names)

	sum := sha256.Sum256([]byte(strings.Join(names, "\n")))
	return "d:" + hex.EncodeToString(sum[:8]), nil
}
