package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"adaptive/internal/errors"
)

func TestDefaultCacheDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := DefaultCacheDir()
	if err != nil {
		t.Fatalf("DefaultCacheDir failed: %v", err)
	}
	want := filepath.Join(home, ".cache", CacheDirName)
	if dir != want {
		t.Errorf("DefaultCacheDir() = %s, want %s", dir, want)
	}
}

func TestCacheDir_Override(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := CacheDir("/custom/cache")
	if err != nil || dir != "/custom/cache" {
		t.Errorf("CacheDir(/custom/cache) = %s, %v", dir, err)
	}

	dir, err = CacheDir("~/alt")
	if err != nil || dir != filepath.Join(home, "alt") {
		t.Errorf("CacheDir(~/alt) = %s, %v", dir, err)
	}
}

func TestProjectPaths(t *testing.T) {
	root := "/work/app"

	if got := AgentsDir(root); got != filepath.Join(root, ".claude", "agents") {
		t.Errorf("AgentsDir() = %s", got)
	}

	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	if got := BackupDir(root, ts); got != filepath.Join(root, ".claude", "agents.backup.20260304-050607") {
		t.Errorf("BackupDir() = %s", got)
	}
}

func TestResolveRoot(t *testing.T) {
	dir := t.TempDir()

	resolved, err := ResolveRoot(dir)
	if err != nil {
		t.Fatalf("ResolveRoot failed: %v", err)
	}
	if !filepath.IsAbs(resolved) {
		t.Errorf("expected absolute path, got %s", resolved)
	}

	if _, err := ResolveRoot(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestProjectRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.go")
	if err := os.WriteFile(file, []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ProjectRoot(dir); err != nil {
		t.Fatalf("ProjectRoot(dir) failed: %v", err)
	}

	_, err := ProjectRoot(filepath.Join(dir, "missing"))
	if !errors.Is(err, errors.PathNotFound) {
		t.Errorf("missing path: expected PATH_NOT_FOUND, got %v", err)
	}

	_, err = ProjectRoot(file)
	if !errors.Is(err, errors.NotADirectory) {
		t.Errorf("file path: expected NOT_A_DIRECTORY, got %v", err)
	}
}

func TestTemplatesDir(t *testing.T) {
	dir, err := TemplatesDir("/explicit/templates")
	if err != nil || dir != "/explicit/templates" {
		t.Errorf("TemplatesDir(explicit) = %s, %v", dir, err)
	}

	wd := t.TempDir()
	if err := os.Mkdir(filepath.Join(wd, TemplatesDirName), 0755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(wd)

	dir, err = TemplatesDir("")
	if err != nil {
		t.Fatalf("TemplatesDir failed: %v", err)
	}
	if !strings.HasSuffix(dir, TemplatesDirName) {
		t.Errorf("TemplatesDir() = %s", dir)
	}
}

func TestCanonicalizePath(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "packages", "ui", "package.json")
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	canonical, err := CanonicalizePath(file, root)
	if err != nil {
		t.Fatalf("CanonicalizePath failed: %v", err)
	}
	if canonical != "packages/ui/package.json" {
		t.Errorf("CanonicalizePath() = %s", canonical)
	}
}
