// Package loader reads the Markdown corpus from disk.
package loader

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/careerpath/advisor/internal/fileid"
	"github.com/careerpath/advisor/internal/models"
	"go.uber.org/zap"
)

// Loader walks a corpus directory and returns its documents.
type Loader struct {
	dir        string
	extensions []string
	logger     *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets a logger for skipped-file warnings and per-file debug output.
func WithLogger(l *zap.Logger) Option {
	return func(ld *Loader) { ld.logger = l }
}

// New returns a loader for dir. Only files whose extension is in extensions
// (case-insensitive) are loaded; an empty list loads every regular file.
func New(dir string, extensions []string, opts ...Option) *Loader {
	ld := &Loader{
		dir:        dir,
		extensions: extensions,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Dir returns the corpus directory.
func (ld *Loader) Dir() string {
	return ld.dir
}

// Load walks the directory recursively and returns one Document per matching
// file, sorted by source path. A missing or unreadable root is an error;
// individual unreadable files are skipped with a warning. An empty directory
// yields an empty slice.
func (ld *Loader) Load(ctx context.Context) ([]*models.Document, error) {
	info, err := os.Stat(ld.dir)
	if err != nil {
		return nil, fmt.Errorf("stat corpus directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", ld.dir)
	}

	docs := make([]*models.Document, 0)
	err = filepath.WalkDir(ld.dir, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == ld.dir {
				return walkErr
			}
			ld.logger.Warn("skipping unreadable path", zap.String("path", path), zap.Error(walkErr))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if len(ld.extensions) > 0 && !extensionAllowed(filepath.Ext(path), ld.extensions) {
			return nil
		}
		// Resolve symlinks so only regular files are loaded.
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			ld.logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(readErr))
			return nil
		}
		source := filepath.ToSlash(path)
		docs = append(docs, &models.Document{
			ID:      fileid.DocID(source),
			Source:  source,
			Content: validUTF8(content),
		})
		ld.logger.Debug("loaded document", zap.String("source", source), zap.Int("bytes", len(content)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus directory: %w", err)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Source < docs[j].Source })
	return docs, nil
}

// validUTF8 returns content as a string with invalid sequences replaced by U+FFFD.
func validUTF8(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}
	return strings.ToValidUTF8(string(content), "\ufffd")
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	if extNorm == "" {
		return false
	}
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
