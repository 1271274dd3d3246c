package scan

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var errStopWalk = errors.New("stop walk")

// walkFiles visits regular files below the root in lexical order, skipping
// directories named in skip. visit returns false to stop the walk.
func (s *Scanner) walkFiles(skip map[string]bool, visit func(rel string) bool) {
	_ = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != s.root {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != s.root && skip[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !visit(s.relSlash(path)) {
			return errStopWalk
		}
		return nil
	})
}

// SampleFiles returns up to the sample limit of files whose extension is in
// exts (e.g. ".py"), in lexical path order.
func (s *Scanner) SampleFiles(exts ...string) []string {
	want := make(map[string]bool, len(exts))
	for _, e := range exts {
		want[strings.ToLower(e)] = true
	}

	var files []string
	s.walkFiles(IgnoredDirs, func(rel string) bool {
		if want[strings.ToLower(filepath.Ext(rel))] {
			files = append(files, rel)
		}
		return len(files) < s.sampleLimit
	})
	return files
}

// FirstContaining returns the first file in files whose contents include any
// of needles. Scanning stops at the first hit.
func (s *Scanner) FirstContaining(files []string, needles ...string) (string, bool) {
	for _, f := range files {
		data, err := s.ReadFile(f)
		if err != nil {
			continue
		}
		for _, n := range needles {
			if bytes.Contains(data, []byte(n)) {
				return f, true
			}
		}
	}
	return "", false
}

// CountOccurrences sums non-overlapping occurrences of needle across files.
func (s *Scanner) CountOccurrences(files []string, needle string) int {
	total := 0
	for _, f := range files {
		data, err := s.ReadFile(f)
		if err != nil {
			continue
		}
		total += bytes.Count(data, []byte(needle))
	}
	return total
}

// CountMatching counts distinct files matching any of the doublestar
// patterns (e.g. "**/*_test.go"). Patterns match slash-separated paths
// relative to the root; a leading "**/" also matches files at the root.
func (s *Scanner) CountMatching(patterns ...string) int {
	count := 0
	s.walkFiles(IgnoredDirs, func(rel string) bool {
		for _, p := range patterns {
			if ok, _ := doublestar.Match(p, rel); ok {
				count++
				break
			}
		}
		return true
	})
	return count
}

// FindFiles returns every file named name below the root, sorted. Only
// directories named in skipDirs are pruned; IgnoredDirs does not apply.
func (s *Scanner) FindFiles(name string, skipDirs ...string) []string {
	skip := make(map[string]bool, len(skipDirs))
	for _, d := range skipDirs {
		skip[d] = true
	}

	var found []string
	s.walkFiles(skip, func(rel string) bool {
		if filepath.Base(rel) == name {
			found = append(found, rel)
		}
		return true
	})
	sort.Strings(found)
	return found
}

// GlobDirs expands doublestar patterns against the root and returns matching
// directories as slash-separated relative paths, deduplicated and sorted.
// Patterns prefixed with "!" remove matches.
func (s *Scanner) GlobDirs(patterns []string) ([]string, error) {
	fsys := os.DirFS(s.root)
	include := make(map[string]bool)
	var exclude []string

	for _, raw := range patterns {
		p := cleanPattern(raw)
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, "!") {
			exclude = append(exclude, cleanPattern(p[1:]))
			continue
		}
		matches, err := doublestar.Glob(fsys, p)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if s.IsDir(m) {
				include[m] = true
			}
		}
	}

	var dirs []string
	for d := range include {
		excluded := false
		for _, ex := range exclude {
			if ok, _ := doublestar.Match(ex, d); ok {
				excluded = true
				break
			}
		}
		if !excluded {
			dirs = append(dirs, d)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// cleanPattern strips "./" prefixes and trailing slashes from a workspace glob.
func cleanPattern(p string) string {
	p = strings.TrimSpace(p)
	neg := strings.HasPrefix(p, "!")
	if neg {
		p = p[1:]
	}
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	p = strings.TrimRight(p, "/")
	if neg && p != "" {
		return "!" + p
	}
	return p
}
