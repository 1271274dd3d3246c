// Package monorepo identifies workspace tooling (pnpm, npm/Yarn, Lerna, Nx)
// and enumerates member packages.
//
// Managers are tried in a fixed priority order and the first whose marker
// file exists decides the outcome, even when its configuration turns out
// to be unusable.
package monorepo

import (
	"log/slog"
	"path/filepath"

	"adaptive/internal/scan"
	"adaptive/internal/signal"
	"adaptive/internal/slogutil"
)

// Manager names a workspace tool.
type Manager string

const (
	PNPM  Manager = "pnpm"
	NPM   Manager = "npm"
	Lerna Manager = "lerna"
	Nx    Manager = "nx"
)

// Workspace is one member package.
type Workspace struct {
	Name           string  `json:"name"`
	Path           string  `json:"path"`
	PackageManager Manager `json:"package_manager"`
}

// Result describes a project root's workspace layout. When IsMonorepo is
// false, WorkspaceManager is nil and Workspaces is empty.
type Result struct {
	IsMonorepo       bool        `json:"is_monorepo"`
	WorkspaceManager *Manager    `json:"workspace_manager"`
	Workspaces       []Workspace `json:"workspaces"`
	RootPath         string      `json:"root_path"`
}

func notMonorepo(root string) *Result {
	return &Result{Workspaces: []Workspace{}, RootPath: root}
}

func monorepo(root string, m Manager, workspaces []Workspace) *Result {
	if workspaces == nil {
		workspaces = []Workspace{}
	}
	return &Result{IsMonorepo: true, WorkspaceManager: &m, Workspaces: workspaces, RootPath: root}
}

// Resolver runs workspace detection.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a Resolver. A nil logger discards diagnostics.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Resolver{logger: logger}
}

// Detect resolves the layout at root. A root that does not exist is simply
// not a monorepo.
func (r *Resolver) Detect(root string) *Result {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return r.DetectScanner(scan.New(abs, scan.WithLogger(r.logger)))
}

// DetectScanner resolves the layout behind an existing scanner.
func (r *Resolver) DetectScanner(sc *scan.Scanner) *Result {
	r.logger.Debug("Checking for monorepo", "root", sc.Root())

	result, manager, ok := signal.FirstMatch(sc, r.managers(), nil)
	if !ok {
		r.logger.Debug("No monorepo configuration found", "root", sc.Root())
		return notMonorepo(sc.Root())
	}

	if result.IsMonorepo {
		r.logger.Info("Detected workspaces",
			"manager", manager,
			"count", len(result.Workspaces),
		)
	}
	return result
}

// Detect is a convenience wrapper that discards diagnostics.
func Detect(root string) *Result {
	return NewResolver(nil).Detect(root)
}
