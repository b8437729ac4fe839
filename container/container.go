// Package container provides an in-memory, path-addressed byte store that
// persists to a single archive file in either zip or gzip-JSON format.
package container

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Store is a path-addressed byte store materialized fully in memory.
// Paths are forward-slash separated and unique; directories are implicit
// prefixes, never stored. Safe for concurrent use.
type Store struct {
	path     string
	codec    Codec
	embedded bool
	logger   *slog.Logger

	mu      sync.RWMutex
	entries map[string][]byte
	loaded  bool
}

// Option configures a Store at creation time.
type Option func(*Store)

// WithCodec sets the codec used by Save. Load always sniffs the archive
// header, so this only affects the written format. Default is ZipCodec.
func WithCodec(c Codec) Option {
	return func(s *Store) { s.codec = c }
}

// WithEmbedded marks the store as belonging to a packaged executable.
// The classification is fixed for the store's lifetime and only surfaces
// through Stats.
func WithEmbedded(embedded bool) Option {
	return func(s *Store) { s.embedded = embedded }
}

// WithLogger sets the logger used for load warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a Store backed by the archive at path. The archive is not
// read until the first access; a missing or corrupt archive degrades to
// an empty store with a logged warning, never an error.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:    path,
		codec:   ZipCodec{},
		logger:  slog.Default(),
		entries: make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load populates the store from its backing archive. Idempotent: only the
// first call reads the archive. Absent or undecodable archives leave the
// store empty and loaded.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
}

func (s *Store) loadLocked() {
	if s.loaded {
		return
	}
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("container archive unreadable, starting empty",
				"path", s.path, "error", err)
		}
		return
	}

	codec, err := DetectCodec(data)
	if err != nil {
		s.logger.Warn("container archive corrupt, starting empty",
			"path", s.path, "error", err)
		return
	}

	entries, err := codec.Decode(data)
	if err != nil {
		s.logger.Warn("container archive corrupt, starting empty",
			"path", s.path, "codec", codec.Name(), "error", err)
		return
	}
	s.entries = entries
}

// Write upserts raw bytes under path.
func (s *Store) Write(path string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()

	buf := make([]byte, len(data))
	copy(buf, data)
	s.entries[normalize(path)] = buf
}

// WriteText stores text under path. The encoding argument is accepted for
// API symmetry; content is stored as UTF-8 bytes.
func (s *Store) WriteText(path, text string, _ string) {
	s.Write(path, []byte(text))
}

// WriteJSON marshals value and stores it under path.
func (s *Store) WriteJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	s.Write(path, data)
	return nil
}

// Read returns the bytes stored under path, or ErrNotFound.
func (s *Store) Read(path string) ([]byte, error) {
	s.mu.Lock()
	s.loadLocked()
	data, ok := s.entries[normalize(path)]
	s.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

// ReadText returns the entry decoded as a string.
func (s *Store) ReadText(path string) (string, error) {
	data, err := s.Read(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadJSON unmarshals the entry into out. Parse failures propagate as-is.
func (s *Store) ReadJSON(path string, out any) error {
	data, err := s.Read(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Exists reports whether path is present.
func (s *Store) Exists(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	_, ok := s.entries[normalize(path)]
	return ok
}

// List returns all stored paths, optionally filtered by a string prefix.
// Order is sorted for stable output.
func (s *Store) List(prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()

	paths := make([]string, 0, len(s.entries))
	for p := range s.entries {
		if prefix == "" || strings.HasPrefix(p, prefix) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

// Remove deletes the entry at path, reporting whether it existed.
func (s *Store) Remove(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()

	key := normalize(path)
	_, ok := s.entries[key]
	delete(s.entries, key)
	return ok
}

// Clear drops every entry in memory. The backing archive is untouched
// until Save.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	s.entries = make(map[string][]byte)
}

// AddFile reads a file from the host filesystem into the store. The
// target defaults to the source's base name.
func (s *Store) AddFile(sourcePath, targetPath string) error {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, sourcePath)
		}
		return fmt.Errorf("read %s: %w", sourcePath, err)
	}
	if targetPath == "" {
		targetPath = filepath.Base(sourcePath)
	}
	s.Write(targetPath, data)
	return nil
}

// AddDirectory walks sourceDir recursively and stores every regular file
// under targetPrefix with forward-slash relative paths.
func (s *Store) AddDirectory(sourceDir, targetPrefix string) error {
	info, err := os.Stat(sourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, sourceDir)
		}
		return fmt.Errorf("stat %s: %w", sourceDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", sourceDir)
	}

	return filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		target := filepath.ToSlash(rel)
		if targetPrefix != "" {
			target = strings.TrimSuffix(targetPrefix, "/") + "/" + target
		}
		s.Write(target, data)
		return nil
	})
}

// Extract writes one entry back to the host filesystem, creating parent
// directories as needed. The output defaults to the entry's base name in
// the working directory.
func (s *Store) Extract(path, outputPath string) error {
	data, err := s.Read(path)
	if err != nil {
		return err
	}
	if outputPath == "" {
		outputPath = filepath.Base(normalize(path))
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	return nil
}

// ExtractAll writes every entry under outputDir, preserving relative
// paths.
func (s *Store) ExtractAll(outputDir string) error {
	for _, path := range s.List("") {
		if err := s.Extract(path, filepath.Join(outputDir, filepath.FromSlash(path))); err != nil {
			return err
		}
	}
	return nil
}

// Save serializes the store to outputPath (default: the backing archive
// path) using the configured codec. The archive is written to a temp file
// and renamed into place so a crash cannot leave a truncated archive.
func (s *Store) Save(outputPath string) error {
	if outputPath == "" {
		outputPath = s.path
	}

	s.mu.Lock()
	s.loadLocked()
	snapshot := make(map[string][]byte, len(s.entries))
	for p, d := range s.entries {
		snapshot[p] = d
	}
	codec := s.codec
	s.mu.Unlock()

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".worm-*")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	tmpName := tmp.Name()

	if err := codec.Encode(snapshot, tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encode archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp archive: %w", err)
	}
	if err := os.Rename(tmpName, outputPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace archive: %w", err)
	}
	return nil
}

// Stats summarizes the current contents of the store.
type Stats struct {
	FileCount int    `json:"file_count"`
	TotalSize int64  `json:"total_size"`
	HumanSize string `json:"human_size"`
	Embedded  bool   `json:"embedded"`
}

// Stats returns entry count and byte totals for the store.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()

	var total int64
	for _, d := range s.entries {
		total += int64(len(d))
	}
	return Stats{
		FileCount: len(s.entries),
		TotalSize: total,
		HumanSize: humanSize(total),
		Embedded:  s.embedded,
	}
}

// Path returns the backing archive path.
func (s *Store) Path() string { return s.path }

func normalize(path string) string {
	return strings.TrimPrefix(filepath.ToSlash(path), "/")
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}
