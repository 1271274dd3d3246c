package slogutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// RotatingFile is an append-only log sink. Once a write would push the file
// past maxSize it is shifted to <path>.1, older copies move up one slot and
// anything beyond keep copies is removed. maxSize 0 never rotates.
type RotatingFile struct {
	mu      sync.Mutex
	path    string
	maxSize int64
	keep    int
	f       *os.File
	written int64
}

// OpenRotatingFile opens (creating parents as needed) the log at path.
func OpenRotatingFile(path string, maxSize int64, keep int) (*RotatingFile, error) {
	r := &RotatingFile{path: path, maxSize: maxSize, keep: keep}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RotatingFile) open() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	r.f, r.written = f, info.Size()
	return nil
}

// Write appends p, rotating first when p would not fit. A failed rotation
// keeps writing to the current file.
func (r *RotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxSize > 0 && r.written > 0 && r.written+int64(len(p)) > r.maxSize {
		if err := r.shift(); err != nil && r.f == nil {
			return 0, err
		}
	}
	n, err := r.f.Write(p)
	r.written += int64(n)
	return n, err
}

// Close closes the current file.
func (r *RotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}

func (r *RotatingFile) shift() error {
	if err := r.f.Close(); err != nil {
		return err
	}
	r.f = nil

	_ = os.Remove(r.slot(r.keep))
	for i := r.keep - 1; i >= 1; i-- {
		_ = os.Rename(r.slot(i), r.slot(i+1))
	}
	if r.keep > 0 {
		_ = os.Rename(r.path, r.slot(1))
	} else {
		_ = os.Remove(r.path)
	}
	return r.open()
}

func (r *RotatingFile) slot(n int) string {
	return fmt.Sprintf("%s.%d", r.path, n)
}

var sizeUnits = []struct {
	suffix string
	bytes  float64
}{
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// ParseSize converts "512KB", "10MB", "1.5GB" or a bare byte count to bytes.
// Empty or malformed input yields 0.
func ParseSize(s string) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	mult := 1.0
	for _, u := range sizeUnits {
		if strings.HasSuffix(s, u.suffix) {
			s, mult = strings.TrimSpace(strings.TrimSuffix(s, u.suffix)), u.bytes
			break
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return int64(v * mult)
}

// NewFileLoggerWithRotation returns a logger appending to path. An empty or
// invalid maxSize disables rotation.
func NewFileLoggerWithRotation(path string, level slog.Level, maxSize string, keep int) (*slog.Logger, io.Closer, error) {
	rf, err := OpenRotatingFile(path, ParseSize(maxSize), keep)
	if err != nil {
		return nil, nil, err
	}
	return NewLogger(rf, level), rf, nil
}
