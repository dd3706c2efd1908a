// Package store reads and writes the .pth files of a site-packages
// directory. It is the only place in the program that touches disk for
// path-file content.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"pthman/internal/model"
)

// DefaultPattern matches the path files an interpreter actually consumes.
const DefaultPattern = "*.pth"

// Store performs the raw file I/O for path files. It holds no state
// beyond a logger; the on-disk directory is the snapshot.
type Store struct {
	log zerolog.Logger
}

// New returns a store logging through log.
func New(log zerolog.Logger) *Store {
	return &Store{log: log}
}

// Load enumerates pattern matches under siteDir and returns each file's
// raw lines. Content is not interpreted here. An empty pattern means
// DefaultPattern; a missing directory simply yields no files.
func (s *Store) Load(siteDir, pattern string) ([]model.RawFile, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	matches, err := filepath.Glob(filepath.Join(siteDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}

	files := make([]model.RawFile, 0, len(matches))
	for _, location := range matches {
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", location, err)
		}
		files = append(files, model.RawFile{
			Location: location,
			Lines:    splitLines(string(data)),
		})
	}
	s.log.Debug().Str("dir", siteDir).Int("files", len(files)).Msg("loaded path files")
	return files, nil
}

// Persist writes lines to location, one normalized path per line, UTF-8,
// overwriting whatever was there.
func (s *Store) Persist(location string, lines []string) error {
	normalized := make([]string, len(lines))
	for i, line := range lines {
		normalized[i] = model.Normalize(line)
	}
	content := strings.Join(normalized, "\n")
	if err := os.WriteFile(location, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", location, err)
	}
	s.log.Debug().Str("file", location).Int("entries", len(lines)).Msg("persisted path file")
	return nil
}

// Remove deletes the file at location. Removing a file that is already
// absent is not an error.
func (s *Store) Remove(location string) error {
	err := os.Remove(location)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", location, err)
	}
	if err == nil {
		s.log.Debug().Str("file", location).Msg("removed path file")
	}
	return nil
}

// splitLines splits file content into non-terminated lines the way the
// entries are edited: a single trailing newline does not produce a
// phantom empty entry, and an empty file has no lines at all.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
