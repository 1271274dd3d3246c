package monorepo

import (
	"encoding/json"
	"errors"
	"path"
	"path/filepath"
	"sort"

	"adaptive/internal/scan"
	"adaptive/internal/signal"
)

// managers returns the detection chain in priority order. A candidate
// abstains only when its marker is absent; once a marker exists its verdict
// is final.
func (r *Resolver) managers() []signal.Candidate[*scan.Scanner, *Result] {
	return []signal.Candidate[*scan.Scanner, *Result]{
		{Name: string(PNPM), Detect: r.detectPNPM},
		{Name: string(NPM), Detect: r.detectNPM},
		{Name: string(Lerna), Detect: r.detectLerna},
		{Name: string(Nx), Detect: r.detectNx},
	}
}

// Packages is nil when the key is absent and empty for "packages: []".
type pnpmWorkspace struct {
	Packages *[]string `yaml:"packages"`
}

func (r *Resolver) detectPNPM(sc *scan.Scanner) (*Result, bool) {
	const file = "pnpm-workspace.yaml"
	if !sc.IsFile(file) {
		return nil, false
	}

	var cfg pnpmWorkspace
	if err := sc.LoadYAML(file, &cfg); err != nil {
		r.logger.Error("Failed to parse workspace manifest", "file", file, "error", err.Error())
		return notMonorepo(sc.Root()), true
	}
	if cfg.Packages == nil {
		r.logger.Warn("Workspace manifest has no packages field", "file", file)
		return notMonorepo(sc.Root()), true
	}
	return monorepo(sc.Root(), PNPM, r.expand(sc, *cfg.Packages, PNPM)), true
}

func (r *Resolver) detectNPM(sc *scan.Scanner) (*Result, bool) {
	pkg := sc.PackageJSON()
	if pkg == nil || len(pkg.Workspaces) == 0 || string(pkg.Workspaces) == "null" {
		return nil, false
	}
	return monorepo(sc.Root(), NPM, r.expand(sc, r.npmPatterns(pkg.Workspaces), NPM)), true
}

// npmPatterns accepts ["a/*"] and {"packages": ["a/*"]}.
func (r *Resolver) npmPatterns(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Packages
	}
	r.logger.Warn("Unexpected workspaces config", "value", string(raw))
	return nil
}

type lernaConfig struct {
	Packages []string `json:"packages"`
}

func (r *Resolver) detectLerna(sc *scan.Scanner) (*Result, bool) {
	const file = "lerna.json"
	if !sc.IsFile(file) {
		return nil, false
	}

	var cfg lernaConfig
	if err := sc.LoadJSON(file, &cfg); err != nil {
		r.logger.Error("Failed to parse workspace manifest", "file", file, "error", err.Error())
		return notMonorepo(sc.Root()), true
	}
	patterns := cfg.Packages
	if len(patterns) == 0 {
		patterns = []string{"packages/*"}
	}
	return monorepo(sc.Root(), Lerna, r.expand(sc, patterns, Lerna)), true
}

type nxProject struct {
	Name string `json:"name"`
}

// detectNx unions projects listed in workspace.json with every
// project.json found below the root, outside the Nx cache and
// node_modules. The same project may be listed by both sources.
func (r *Resolver) detectNx(sc *scan.Scanner) (*Result, bool) {
	if !sc.IsFile("nx.json") {
		return nil, false
	}

	workspaces := r.nxWorkspaceJSON(sc)

	for _, rel := range sc.FindFiles("project.json", ".nx", "node_modules") {
		var p nxProject
		if err := sc.LoadJSON(rel, &p); err != nil {
			r.logger.Warn("Failed to parse project manifest", "file", rel, "error", err.Error())
			continue
		}
		dir := path.Dir(rel)
		name := p.Name
		if name == "" {
			name = filepath.Base(sc.Path(dir))
		}
		r.logger.Debug("Found workspace", "name", name, "path", dir, "manager", string(Nx))
		workspaces = append(workspaces, Workspace{Name: name, Path: sc.Path(dir), PackageManager: Nx})
	}

	return monorepo(sc.Root(), Nx, workspaces), true
}

func (r *Resolver) nxWorkspaceJSON(sc *scan.Scanner) []Workspace {
	var cfg struct {
		Projects map[string]interface{} `json:"projects"`
	}
	if err := sc.LoadJSON("workspace.json", &cfg); err != nil {
		if !errors.Is(err, scan.ErrAbsent) {
			r.logger.Warn("Failed to parse workspace.json", "error", err.Error())
		}
		return nil
	}

	names := make([]string, 0, len(cfg.Projects))
	for name := range cfg.Projects {
		names = append(names, name)
	}
	sort.Strings(names)

	var workspaces []Workspace
	for _, name := range names {
		var dir string
		switch v := cfg.Projects[name].(type) {
		case string:
			dir = v
		case map[string]interface{}:
			dir = name
			if root, ok := v["root"].(string); ok {
				dir = root
			}
		default:
			continue
		}
		if !sc.IsDir(dir) {
			continue
		}
		r.logger.Debug("Found workspace", "name", name, "path", dir, "manager", string(Nx))
		workspaces = append(workspaces, Workspace{Name: name, Path: sc.Path(dir), PackageManager: Nx})
	}
	return workspaces
}

// expand globs patterns and keeps directories holding a readable
// package.json. Malformed member manifests are logged and skipped.
func (r *Resolver) expand(sc *scan.Scanner, patterns []string, m Manager) []Workspace {
	dirs, err := sc.GlobDirs(patterns)
	if err != nil {
		r.logger.Warn("Invalid workspace pattern", "manager", string(m), "error", err.Error())
		return nil
	}

	var workspaces []Workspace
	for _, dir := range dirs {
		manifest := dir + "/package.json"
		if !sc.IsFile(manifest) {
			continue
		}
		pkg, err := sc.LoadPackageJSONAt(manifest)
		if err != nil {
			r.logger.Warn("Failed to parse workspace manifest", "file", manifest, "error", err.Error())
			continue
		}
		name := pkg.Name
		if name == "" {
			name = path.Base(dir)
		}
		r.logger.Debug("Found workspace", "name", name, "path", dir, "manager", string(m))
		workspaces = append(workspaces, Workspace{Name: name, Path: sc.Path(dir), PackageManager: m})
	}
	return workspaces
}
