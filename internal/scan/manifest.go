package scan

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	burnt "github.com/BurntSushi/toml"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

// PackageJSON is the subset of package.json read by detectors.
type PackageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Private         bool              `json:"private"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	// Workspaces is either a list of globs or {"packages": [...]}.
	Workspaces json.RawMessage `json:"workspaces"`
}

// AllDeps merges dependencies and devDependencies; runtime entries win.
func (p *PackageJSON) AllDeps() map[string]string {
	all := make(map[string]string, len(p.Dependencies)+len(p.DevDependencies))
	for k, v := range p.DevDependencies {
		all[k] = v
	}
	for k, v := range p.Dependencies {
		all[k] = v
	}
	return all
}

// HasDep reports whether name is a runtime or dev dependency.
func (p *PackageJSON) HasDep(name string) bool {
	if _, ok := p.Dependencies[name]; ok {
		return true
	}
	_, ok := p.DevDependencies[name]
	return ok
}

// LoadPackageJSONAt parses <rel>/package.json style paths.
func (s *Scanner) LoadPackageJSONAt(rel string) (*PackageJSON, error) {
	data, err := s.load(rel)
	if err != nil {
		return nil, err
	}
	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, &ParseError{File: rel, Err: err}
	}
	return &pkg, nil
}

// LoadPackageJSON parses the root package.json.
func (s *Scanner) LoadPackageJSON() (*PackageJSON, error) {
	return s.LoadPackageJSONAt("package.json")
}

// PackageJSON returns the root package.json, or nil when it is absent or
// malformed (malformed files are logged).
func (s *Scanner) PackageJSON() *PackageJSON {
	pkg, err := s.LoadPackageJSON()
	if err != nil {
		s.warnMalformed(err)
		return nil
	}
	return pkg
}

// Requirement is one parsed dependency line from a Python manifest.
type Requirement struct {
	// Name is lower-cased with extras stripped
	Name string
	// Spec is the version constraint, e.g. "==0.109.0" or ">=5.0"
	Spec string
}

// Pin returns the version after the first comparison operator, if any.
func (r Requirement) Pin() string {
	spec := strings.TrimLeft(r.Spec, "=<>!~ ")
	if i := strings.IndexAny(spec, ",; "); i >= 0 {
		spec = spec[:i]
	}
	return spec
}

// ParseRequirement parses a PEP 508-ish requirement string.
func ParseRequirement(line string) (Requirement, bool) {
	line = strings.TrimSpace(line)
	if i := strings.Index(line, "#"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	if line == "" || strings.HasPrefix(line, "-") {
		return Requirement{}, false
	}
	end := strings.IndexAny(line, "=<>!~[; (")
	if end < 0 {
		end = len(line)
	}
	name := strings.ToLower(strings.TrimSpace(line[:end]))
	if name == "" {
		return Requirement{}, false
	}
	rest := line[end:]
	if strings.HasPrefix(rest, "[") {
		if close := strings.Index(rest, "]"); close >= 0 {
			rest = rest[close+1:]
		}
	}
	if i := strings.Index(rest, ";"); i >= 0 {
		rest = rest[:i]
	}
	rest = strings.Trim(strings.TrimSpace(rest), "()")
	return Requirement{Name: name, Spec: strings.TrimSpace(rest)}, true
}

// Requirements parses requirements.txt.
func (s *Scanner) Requirements() []Requirement {
	data, err := s.load("requirements.txt")
	if err != nil {
		return nil
	}
	var reqs []Requirement
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if r, ok := ParseRequirement(sc.Text()); ok {
			reqs = append(reqs, r)
		}
	}
	return reqs
}

// Pyproject is the subset of pyproject.toml read by detectors.
type Pyproject struct {
	Project struct {
		Name         string   `toml:"name"`
		Version      string   `toml:"version"`
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Version         string                 `toml:"version"`
			Dependencies    map[string]interface{} `toml:"dependencies"`
			DevDependencies map[string]interface{} `toml:"dev-dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// LoadPyproject parses pyproject.toml.
func (s *Scanner) LoadPyproject() (*Pyproject, error) {
	data, err := s.load("pyproject.toml")
	if err != nil {
		return nil, err
	}
	var py Pyproject
	if err := toml.Unmarshal(data, &py); err != nil {
		return nil, &ParseError{File: "pyproject.toml", Err: err}
	}
	return &py, nil
}

// Pipfile is the subset of a Pipenv manifest read by detectors.
type Pipfile struct {
	Packages    map[string]interface{} `toml:"packages"`
	DevPackages map[string]interface{} `toml:"dev-packages"`
}

// LoadPipfile parses Pipfile.
func (s *Scanner) LoadPipfile() (*Pipfile, error) {
	data, err := s.load("Pipfile")
	if err != nil {
		return nil, err
	}
	var pf Pipfile
	if _, err := burnt.Decode(string(data), &pf); err != nil {
		return nil, &ParseError{File: "Pipfile", Err: err}
	}
	return &pf, nil
}

// HasPythonManifest reports whether any Python dependency manifest exists.
func (s *Scanner) HasPythonManifest() bool {
	_, ok := s.FirstExisting("requirements.txt", "pyproject.toml", "setup.py", "Pipfile")
	return ok
}

// PythonDeps merges requirements.txt, pyproject.toml (PEP 621 and Poetry)
// and Pipfile into name → requirement. Earlier sources win.
func (s *Scanner) PythonDeps() map[string]Requirement {
	deps := make(map[string]Requirement)
	add := func(r Requirement) {
		if r.Name == "python" {
			return
		}
		if _, ok := deps[r.Name]; !ok {
			deps[r.Name] = r
		}
	}

	for _, r := range s.Requirements() {
		add(r)
	}

	if py, err := s.LoadPyproject(); err == nil {
		for _, line := range py.Project.Dependencies {
			if r, ok := ParseRequirement(line); ok {
				add(r)
			}
		}
		for _, name := range sortedKeys(py.Tool.Poetry.Dependencies) {
			add(Requirement{Name: strings.ToLower(name), Spec: tableSpec(py.Tool.Poetry.Dependencies[name])})
		}
	} else {
		s.warnMalformed(err)
	}

	if pf, err := s.LoadPipfile(); err == nil {
		for _, table := range []map[string]interface{}{pf.Packages, pf.DevPackages} {
			for _, name := range sortedKeys(table) {
				add(Requirement{Name: strings.ToLower(name), Spec: tableSpec(table[name])})
			}
		}
	} else {
		s.warnMalformed(err)
	}

	return deps
}

// tableSpec turns a TOML dependency value ("^1.0" or {version = "^1.0"}) into a spec.
func tableSpec(v interface{}) string {
	switch val := v.(type) {
	case string:
		if val == "*" {
			return ""
		}
		return val
	case map[string]interface{}:
		if ver, ok := val["version"].(string); ok && ver != "*" {
			return ver
		}
	}
	return ""
}

// Pubspec is the subset of pubspec.yaml read by detectors.
type Pubspec struct {
	Name            string                 `yaml:"name"`
	Version         string                 `yaml:"version"`
	Environment     map[string]string      `yaml:"environment"`
	Dependencies    map[string]interface{} `yaml:"dependencies"`
	DevDependencies map[string]interface{} `yaml:"dev_dependencies"`
}

// HasDep reports whether name is a dependency or dev dependency.
func (p *Pubspec) HasDep(name string) bool {
	if _, ok := p.Dependencies[name]; ok {
		return true
	}
	_, ok := p.DevDependencies[name]
	return ok
}

// LoadPubspec parses pubspec.yaml.
func (s *Scanner) LoadPubspec() (*Pubspec, error) {
	data, err := s.load("pubspec.yaml")
	if err != nil {
		return nil, err
	}
	var ps Pubspec
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return nil, &ParseError{File: "pubspec.yaml", Err: err}
	}
	return &ps, nil
}

// GoModule is the subset of go.mod read by detectors.
type GoModule struct {
	Path     string
	Go       string
	Requires []string
}

// Uses reports whether module path, or a package below it, is required.
func (m *GoModule) Uses(path string) bool {
	for _, r := range m.Requires {
		if r == path || strings.HasPrefix(r, path+"/") {
			return true
		}
	}
	return false
}

// LoadGoMod parses go.mod leniently.
func (s *Scanner) LoadGoMod() (*GoModule, error) {
	data, err := s.load("go.mod")
	if err != nil {
		return nil, err
	}
	f, err := modfile.ParseLax("go.mod", data, nil)
	if err != nil {
		return nil, &ParseError{File: "go.mod", Err: err}
	}
	mod := &GoModule{}
	if f.Module != nil {
		mod.Path = f.Module.Mod.Path
	}
	if f.Go != nil {
		mod.Go = f.Go.Version
	}
	for _, r := range f.Require {
		mod.Requires = append(mod.Requires, r.Mod.Path)
	}
	return mod, nil
}

// Composer is the subset of composer.json read by detectors.
type Composer struct {
	Name       string            `json:"name"`
	Require    map[string]string `json:"require"`
	RequireDev map[string]string `json:"require-dev"`
}

// HasDep reports whether name appears in require or require-dev.
func (c *Composer) HasDep(name string) bool {
	if _, ok := c.Require[name]; ok {
		return true
	}
	_, ok := c.RequireDev[name]
	return ok
}

// LoadComposer parses composer.json.
func (s *Scanner) LoadComposer() (*Composer, error) {
	data, err := s.load("composer.json")
	if err != nil {
		return nil, err
	}
	var c Composer
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, &ParseError{File: "composer.json", Err: err}
	}
	return &c, nil
}

// LoadYAML decodes rel into out.
func (s *Scanner) LoadYAML(rel string, out interface{}) error {
	data, err := s.load(rel)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return &ParseError{File: rel, Err: err}
	}
	return nil
}

// LoadJSON decodes rel into out.
func (s *Scanner) LoadJSON(rel string, out interface{}) error {
	data, err := s.load(rel)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ParseError{File: rel, Err: err}
	}
	return nil
}

// Warn logs err when it is a ParseError. Callers use it for manifests they
// decode themselves.
func (s *Scanner) Warn(err error) {
	s.warnMalformed(err)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String is used in log lines.
func (r Requirement) String() string {
	return fmt.Sprintf("%s%s", r.Name, r.Spec)
}
