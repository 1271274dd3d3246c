// Package paths centralises every filesystem location adaptive reads or writes.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"adaptive/internal/errors"
)

const (
	// CacheDirName is the directory under ~/.cache holding the detection cache
	CacheDirName = "adaptive-claude-agents"
	// CacheStoreFile maps fingerprint keys to cached detection results
	CacheStoreFile = "detection_cache.json"
	// CacheMetadataFile holds hit/miss counters
	CacheMetadataFile = "metadata.json"
	// CacheLockFile is the empty sentinel used for advisory locking
	CacheLockFile = ".lock"

	// ClaudeDir is the per-project agent runtime directory
	ClaudeDir = ".claude"
	// AgentsSubdir holds generated agent definitions
	AgentsSubdir = "agents"
	// PhaseConfigFile is the user-authored phase override
	PhaseConfigFile = "phase.yml"
	// GuideFile is the generated agent overview
	GuideFile = "SUBAGENT_GUIDE.md"

	// TemplatesDirName is the default template tree name
	TemplatesDirName = "templates"

	backupTimeLayout = "20060102-150405"
)

// ResolveRoot returns the absolute, symlink-free form of a project root.
// The path must exist.
func ResolveRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

// ProjectRoot resolves path like ResolveRoot and requires it to be a
// directory. Failures are *errors.AdaptiveError with PATH_NOT_FOUND or
// NOT_A_DIRECTORY.
func ProjectRoot(path string) (string, error) {
	root, err := ResolveRoot(path)
	if err != nil {
		return "", errors.New(
			errors.PathNotFound,
			fmt.Sprintf("Project path does not exist: %s", path),
			err,
			nil,
		)
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", errors.New(errors.PathNotFound, fmt.Sprintf("Cannot stat project path: %s", path), err, nil)
	}
	if !info.IsDir() {
		return "", errors.New(errors.NotADirectory, fmt.Sprintf("Project path is not a directory: %s", path), nil, nil)
	}
	return root, nil
}

// DefaultCacheDir returns ~/.cache/adaptive-claude-agents.
func DefaultCacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".cache", CacheDirName), nil
}

// CacheDir returns override when set, otherwise DefaultCacheDir. A leading
// "~/" in override is expanded.
func CacheDir(override string) (string, error) {
	if override == "" {
		return DefaultCacheDir()
	}
	return ExpandHome(override)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// AgentsDir returns <root>/.claude/agents.
func AgentsDir(root string) string {
	return filepath.Join(root, ClaudeDir, AgentsSubdir)
}

// BackupDir returns <root>/.claude/agents.backup.YYYYMMDD-HHMMSS for t.
func BackupDir(root string, t time.Time) string {
	return filepath.Join(root, ClaudeDir, AgentsSubdir+".backup."+t.Format(backupTimeLayout))
}

// TemplatesDir resolves the agent template tree. An explicit override wins;
// otherwise a templates directory next to the executable, then one in the
// working directory, is used.
func TemplatesDir(override string) (string, error) {
	if override != "" {
		return ExpandHome(override)
	}
	var candidates []string
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), TemplatesDirName))
	}
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, TemplatesDirName))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("no %s directory found (searched %s)", TemplatesDirName, strings.Join(candidates, ", "))
}

// CanonicalizePath converts an absolute path to a root-relative path with
// forward slashes, resolving symlinks where the path exists.
func CanonicalizePath(absolutePath string, root string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", err
		}
		resolved = absolutePath
	}

	rootResolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", err
		}
		rootResolved = root
	}

	rel, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
