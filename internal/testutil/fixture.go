// Package testutil provides fixture builders shared by package tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Tree describes files to create relative to a root. Keys ending in "/"
// create empty directories; every other key is written with its value.
type Tree map[string]string

// WriteTree materialises tree under root, failing the test on error.
func WriteTree(t *testing.T, root string, tree Tree) {
	t.Helper()

	for rel, content := range tree {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			if err := os.MkdirAll(path, 0o755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", rel, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create parent of %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", rel, err)
		}
	}
}

// NewProject creates <tempdir>/<name> populated with tree and returns its
// symlink-free absolute path.
func NewProject(t *testing.T, name string, tree Tree) string {
	t.Helper()

	base, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}
	root := filepath.Join(base, name)
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("Failed to create project root: %v", err)
	}
	WriteTree(t, root, tree)
	return root
}

// PackageJSON renders a package.json with name, version 1.0.0 and deps.
func PackageJSON(t *testing.T, name string, deps map[string]string) string {
	t.Helper()
	return JSON(t, map[string]interface{}{
		"name":         name,
		"version":      "1.0.0",
		"dependencies": deps,
	})
}

// JSON marshals v with two-space indentation.
func JSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal fixture JSON: %v", err)
	}
	return string(data)
}

// Touch moves the modification time of path forward by d.
func Touch(t *testing.T, path string, d time.Duration) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat %s: %v", path, err)
	}
	mtime := info.ModTime().Add(d)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("Failed to touch %s: %v", path, err)
	}
}
