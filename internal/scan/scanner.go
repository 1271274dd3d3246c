// Package scan extracts raw evidence from a project tree: marker files,
// parsed manifests, bounded source samples and glob counts. It never writes
// to the tree and never touches the network.
package scan

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"adaptive/internal/slogutil"
)

// DefaultSampleLimit bounds how many source files a detector inspects.
const DefaultSampleLimit = 10

const contentMemoSize = 256

// ErrAbsent is returned by the Load* manifest readers when the file does not exist.
var ErrAbsent = errors.New("manifest not present")

// IgnoredDirs are never descended into while sampling or counting.
var IgnoredDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"venv":         true,
	".venv":        true,
	"vendor":       true,
	"build":        true,
	"dist":         true,
	"__pycache__":  true,
	".next":        true,
	".dart_tool":   true,
	"Pods":         true,
	".nx":          true,
}

// ParseError reports a manifest that exists but cannot be decoded.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Scanner reads evidence relative to a single project root.
type Scanner struct {
	root        string
	sampleLimit int
	logger      *slog.Logger
	contents    *lru.Cache[string, []byte]
	warned      map[string]bool
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used to report malformed manifests.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSampleLimit caps source-file sampling.
func WithSampleLimit(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.sampleLimit = n
		}
	}
}

// New creates a Scanner for root.
func New(root string, opts ...Option) *Scanner {
	contents, _ := lru.New[string, []byte](contentMemoSize)
	s := &Scanner{
		root:        root,
		sampleLimit: DefaultSampleLimit,
		logger:      slogutil.NewDiscardLogger(),
		contents:    contents,
		warned:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the project root.
func (s *Scanner) Root() string { return s.root }

// SampleLimit returns the configured sampling cap.
func (s *Scanner) SampleLimit() int { return s.sampleLimit }

// Path joins rel (slash separated) onto the root.
func (s *Scanner) Path(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// Exists reports whether rel exists as a file or directory.
func (s *Scanner) Exists(rel string) bool {
	_, err := os.Stat(s.Path(rel))
	return err == nil
}

// IsDir reports whether rel is a directory.
func (s *Scanner) IsDir(rel string) bool {
	info, err := os.Stat(s.Path(rel))
	return err == nil && info.IsDir()
}

// IsFile reports whether rel is a regular file.
func (s *Scanner) IsFile(rel string) bool {
	info, err := os.Stat(s.Path(rel))
	return err == nil && info.Mode().IsRegular()
}

// FirstExisting returns the first of rels that exists.
func (s *Scanner) FirstExisting(rels ...string) (string, bool) {
	for _, rel := range rels {
		if s.Exists(rel) {
			return rel, true
		}
	}
	return "", false
}

// ReadFile returns the contents of rel. Results are memoised for the life of
// the Scanner; a missing file yields an error wrapping fs.ErrNotExist.
func (s *Scanner) ReadFile(rel string) ([]byte, error) {
	if data, ok := s.contents.Get(rel); ok {
		return data, nil
	}
	data, err := os.ReadFile(s.Path(rel))
	if err != nil {
		return nil, err
	}
	s.contents.Add(rel, data)
	return data, nil
}

// Contains reports whether rel exists and contains substr.
func (s *Scanner) Contains(rel, substr string) bool {
	data, err := s.ReadFile(rel)
	return err == nil && bytes.Contains(data, []byte(substr))
}

// SubDirs lists the immediate subdirectories of rel, sorted by name.
func (s *Scanner) SubDirs(rel string) []string {
	entries, err := os.ReadDir(s.Path(rel))
	if err != nil {
		return nil
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	return dirs
}

// warnMalformed logs a manifest that could not be decoded, once per file.
func (s *Scanner) warnMalformed(err error) {
	var perr *ParseError
	if errors.As(err, &perr) && !s.warned[perr.File] {
		s.warned[perr.File] = true
		s.logger.Warn("Ignoring malformed manifest", "file", perr.File, "error", perr.Err.Error())
	}
}

// load reads rel, mapping absence to ErrAbsent.
func (s *Scanner) load(rel string) ([]byte, error) {
	data, err := s.ReadFile(rel)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrAbsent
	}
	if err != nil {
		return nil, &ParseError{File: rel, Err: err}
	}
	return data, nil
}

// relSlash converts an absolute path under root to a slash-separated relative path.
func (s *Scanner) relSlash(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return strings.TrimPrefix(filepath.ToSlash(rel), "./")
}
