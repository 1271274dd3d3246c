// Package vcs reads revision-history statistics by shelling out to git.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"adaptive/internal/slogutil"
)

// DefaultTimeout bounds each git invocation.
const DefaultTimeout = 5 * time.Second

// RecentWindow is the look-back period for "recent" commits.
const RecentWindow = 30 * 24 * time.Hour

// ErrNoRepository is returned when the root has no .git entry.
var ErrNoRepository = errors.New("not a git repository")

// ErrTimeout is returned when git exceeds its deadline.
var ErrTimeout = errors.New("git command timed out")

// History summarises a repository's commit history.
type History struct {
	Commits       int `json:"commits"`
	RecentCommits int `json:"recent_commits"`
	Tags          int `json:"tags"`
}

// Git runs read-only git queries against one repository root.
type Git struct {
	root    string
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewGit creates a Git runner. A zero timeout selects DefaultTimeout.
func NewGit(root string, timeout time.Duration, logger *slog.Logger) *Git {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Git{root: root, timeout: timeout, logger: logger, now: time.Now}
}

// HasRepository reports whether root contains a .git directory or file.
func (g *Git) HasRepository() bool {
	_, err := os.Stat(filepath.Join(g.root, ".git"))
	return err == nil
}

// History collects total commits, commits in the last 30 days and the tag
// count. Any failing query aborts the whole collection.
func (g *Git) History(ctx context.Context) (*History, error) {
	if !g.HasRepository() {
		return nil, ErrNoRepository
	}

	total, err := g.count(ctx, "rev-list", "--count", "HEAD")
	if err != nil {
		return nil, err
	}

	since := g.now().Add(-RecentWindow).Format("2006-01-02")
	recent, err := g.count(ctx, "rev-list", "--count", "--since="+since, "HEAD")
	if err != nil {
		return nil, err
	}

	tags, err := g.lines(ctx, "tag", "--list")
	if err != nil {
		return nil, err
	}

	return &History{Commits: total, RecentCommits: recent, Tags: len(tags)}, nil
}

func (g *Git) count(ctx context.Context, args ...string) (int, error) {
	out, err := g.run(ctx, args...)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("unexpected git output %q: %w", out, err)
	}
	return n, nil
}

func (g *Git) lines(ctx context.Context, args ...string) ([]string, error) {
	out, err := g.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	var result []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			result = append(result, line)
		}
	}
	return result, nil
}

// run executes git with the per-command timeout.
func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.root

	g.logger.Debug("Executing git command", "args", strings.Join(args, " "), "timeout", g.timeout)

	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("git %s: %w", args[0], ErrTimeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("git %s failed: %s", args[0], strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(output), nil
}
