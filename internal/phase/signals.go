package phase

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"adaptive/internal/scan"
	"adaptive/internal/signal"
	"adaptive/internal/vcs"
)

// Signal names.
const (
	SignalUserConfig    = "user_config"
	SignalVersionNumber = "version_number"
	SignalGitHistory    = "git_history"
	SignalTestCoverage  = "test_coverage"
	SignalCICD          = "ci_cd"
	SignalDocumentation = "documentation"
	SignalCodeStructure = "code_structure"
)

// weights excluding user_config sum to 1.0.
var weights = map[string]float64{
	SignalUserConfig:    1.00,
	SignalVersionNumber: 0.30,
	SignalGitHistory:    0.20,
	SignalTestCoverage:  0.15,
	SignalCICD:          0.15,
	SignalDocumentation: 0.10,
	SignalCodeStructure: 0.10,
}

// Evidence is everything the phase signals read.
type Evidence struct {
	Scan *scan.Scanner
	// History is nil when git is unavailable or a query failed.
	History *vcs.History
	// HistoryErr is vcs.ErrNoRepository when the root has no .git entry.
	HistoryErr error
}

var fallback = signal.Vote[Phase]{
	Label:      Prototype,
	Confidence: 0.3,
	Evidence:   []string{"No indicators found - assuming early prototype"},
}

func newAggregator() *signal.Aggregator[*Evidence, Phase] {
	evaluate := []struct {
		name string
		fn   func(*Evidence) (signal.Vote[Phase], bool)
	}{
		{SignalVersionNumber, versionSignal},
		{SignalGitHistory, gitSignal},
		{SignalTestCoverage, testSignal},
		{SignalCICD, ciSignal},
		{SignalDocumentation, docsSignal},
		{SignalCodeStructure, structureSignal},
	}

	agg := &signal.Aggregator[*Evidence, Phase]{Labels: Phases, Fallback: fallback}
	for _, e := range evaluate {
		agg.Evaluators = append(agg.Evaluators, signal.Evaluator[*Evidence, Phase]{
			Name:     e.name,
			Weight:   weights[e.name],
			Evaluate: e.fn,
		})
	}
	return agg
}

func vote(p Phase, confidence float64, evidence ...string) (signal.Vote[Phase], bool) {
	return signal.Vote[Phase]{Label: p, Confidence: confidence, Evidence: evidence}, true
}

// --- version_number ---

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)`)

var firstRelease = semver.MustParse("1.0.0")

// zeroDigits reports whether a numeric component is zero, whatever its width.
func zeroDigits(s string) bool {
	return strings.TrimLeft(s, "0") == ""
}

func versionSignal(ev *Evidence) (signal.Vote[Phase], bool) {
	version, source, ok := projectVersion(ev.Scan)
	if !ok {
		return signal.Vote[Phase]{}, false
	}
	return ClassifyVersion(version, source)
}

// projectVersion reads the version from package.json (defaulting to 0.0.0)
// or, failing that, pyproject.toml.
func projectVersion(sc *scan.Scanner) (string, string, bool) {
	if pkg := sc.PackageJSON(); pkg != nil {
		if pkg.Version == "" {
			return "0.0.0", "package.json", true
		}
		return pkg.Version, "package.json", true
	}

	py, err := sc.LoadPyproject()
	if err != nil {
		sc.Warn(err)
		return "", "", false
	}
	if v := py.Project.Version; v != "" {
		return v, "pyproject.toml", true
	}
	if v := py.Tool.Poetry.Version; v != "" {
		return v, "pyproject.toml", true
	}
	return "", "", false
}

// ClassifyVersion maps a MAJOR.MINOR.PATCH prefix to a phase vote.
// Components semver cannot hold are compared as digit strings.
func ClassifyVersion(version, source string) (signal.Vote[Phase], bool) {
	m := versionPattern.FindStringSubmatch(version)
	if m == nil {
		return vote(Prototype, 0.5, fmt.Sprintf("Invalid version format in %s: %s", source, version))
	}
	zeroMajor, zeroMinor := zeroDigits(m[1]), zeroDigits(m[2])
	first := strings.TrimLeft(m[1], "0") == "1" && zeroMinor && zeroDigits(m[3])
	if v, err := semver.NewVersion(m[0]); err == nil {
		zeroMajor, zeroMinor = v.Major() == 0, v.Minor() == 0
		first = v.Equal(firstRelease)
	}

	switch {
	case zeroMajor && zeroMinor:
		return vote(Prototype, 0.9, fmt.Sprintf("Version %s (0.0.x) → early prototype", version))
	case zeroMajor:
		return vote(MVP, 0.8, fmt.Sprintf("Version %s (0.x.x) → %s", version, MVP))
	case first:
		return vote(Production, 0.9, fmt.Sprintf("Version %s (1.0.0) → production", version))
	default:
		return vote(Production, 0.95, fmt.Sprintf("Version %s (>=1.0.0) → production", version))
	}
}

// --- git_history ---

func gitSignal(ev *Evidence) (signal.Vote[Phase], bool) {
	if errors.Is(ev.HistoryErr, vcs.ErrNoRepository) {
		return vote(Prototype, 0.3, "No git repository - likely early prototype")
	}
	if ev.History == nil {
		return signal.Vote[Phase]{}, false
	}
	return ClassifyHistory(*ev.History)
}

// ClassifyHistory maps commit, tag and recent-activity counts to a vote.
func ClassifyHistory(h vcs.History) (signal.Vote[Phase], bool) {
	var evidence []string
	confidence := 0.7
	var p Phase

	switch {
	case h.Commits < 50:
		p = Prototype
		evidence = append(evidence, fmt.Sprintf("%d commits → early development", h.Commits))
	case h.Commits < 200:
		p = MVP
		evidence = append(evidence, fmt.Sprintf("%d commits → MVP stage", h.Commits))
	default:
		p = Production
		evidence = append(evidence, fmt.Sprintf("%d commits → mature project", h.Commits))
	}

	if h.Tags > 0 {
		evidence = append(evidence, fmt.Sprintf("%d release tags", h.Tags))
		if h.Tags >= 5 {
			p = Production
			confidence = 0.85
		}
	}

	if h.RecentCommits > 20 {
		evidence = append(evidence, fmt.Sprintf("%d commits in last 30 days → active development", h.RecentCommits))
	}

	return vote(p, confidence, evidence...)
}

// --- test_coverage ---

var testPatterns = []string{
	"**/*test*.py", "**/*spec*.py",
	"**/*test*.js", "**/*spec*.js", "**/*test*.ts", "**/*spec*.ts",
	"**/*Test*.swift", "**/*Spec*.swift",
	"**/*_test.go",
}

var testConfigs = []string{
	"pytest.ini", "vitest.config.js", "vitest.config.ts",
	"jest.config.js", "jest.config.ts", ".coveragerc",
	"coverage.xml", "htmlcov", ".coverage",
}

func testSignal(ev *Evidence) (signal.Vote[Phase], bool) {
	count := ev.Scan.CountMatching(testPatterns...)
	_, hasConfig := ev.Scan.FirstExisting(testConfigs...)
	return ClassifyTests(count, hasConfig)
}

// ClassifyTests maps the test file count and presence of test tooling
// configuration to a vote.
func ClassifyTests(count int, hasConfig bool) (signal.Vote[Phase], bool) {
	var p Phase
	var confidence float64
	var evidence []string

	switch {
	case count == 0:
		p, confidence = Prototype, 0.7
		evidence = append(evidence, "No test files found")
	case count < 10:
		p, confidence = MVP, 0.6
		evidence = append(evidence, fmt.Sprintf("%d test files → basic testing", count))
	default:
		p, confidence = Production, 0.75
		evidence = append(evidence, fmt.Sprintf("%d test files → comprehensive testing", count))
	}

	if hasConfig {
		evidence = append(evidence, "Test configuration present")
		if p == Prototype {
			p = MVP
		}
		confidence += 0.1
	}

	return vote(p, signal.Clamp(confidence), evidence...)
}

// --- ci_cd ---

var ciFiles = []string{
	".github/workflows",
	".gitlab-ci.yml",
	"circle.yml", ".circleci/config.yml",
	"Jenkinsfile",
	".travis.yml",
	"azure-pipelines.yml",
}

func ciSignal(ev *Evidence) (signal.Vote[Phase], bool) {
	var evidence []string
	for _, f := range ciFiles {
		if ev.Scan.Exists(f) {
			evidence = append(evidence, fmt.Sprintf("CI/CD config: %s", f))
		}
	}
	if len(evidence) > 0 {
		return vote(Production, 0.8, evidence...)
	}
	return vote(Prototype, 0.6, "No CI/CD configuration")
}

// --- documentation ---

var readmeFiles = []string{"README.md", "README.rst", "README.txt"}

var docFiles = []string{
	"CONTRIBUTING.md", "CHANGELOG.md", "LICENSE",
	"docs", "documentation", "API.md",
}

func docsSignal(ev *Evidence) (signal.Vote[Phase], bool) {
	_, hasReadme := ev.Scan.FirstExisting(readmeFiles...)
	count := 0
	for _, f := range docFiles {
		if ev.Scan.Exists(f) {
			count++
		}
	}

	switch {
	case !hasReadme:
		return vote(Prototype, 0.7, "No README found")
	case count == 0:
		return vote(MVP, 0.6, "README present, minimal docs")
	case count < 3:
		return vote(MVP, 0.7, fmt.Sprintf("README + %d doc files", count))
	default:
		return vote(Production, 0.8, fmt.Sprintf("Comprehensive documentation (%d files)", count))
	}
}

// --- code_structure ---

var structureMarkers = []struct {
	path string
	desc string
}{
	{"src", "Source directory"},
	{"lib", "Library directory"},
	{"app", "Application directory"},
	{"tests", "Test directory"},
	{"docs", "Documentation directory"},
	{".gitignore", "Git ignore file"},
	{"requirements.txt", "Python requirements"},
	{"package.json", "Node package config"},
	{"Dockerfile", "Docker configuration"},
	{"docker-compose.yml", "Docker Compose"},
}

func structureSignal(ev *Evidence) (signal.Vote[Phase], bool) {
	var found []string
	for _, m := range structureMarkers {
		if ev.Scan.Exists(m.path) {
			found = append(found, m.desc)
		}
	}

	var p Phase
	var confidence float64
	switch n := len(found); {
	case n < 2:
		p, confidence = Prototype, 0.6
	case n < 5:
		p, confidence = MVP, 0.7
	default:
		p, confidence = Production, 0.75
	}

	evidence := append([]string{fmt.Sprintf("%d/%d structure indicators", len(found), len(structureMarkers))}, found...)
	return vote(p, confidence, evidence...)
}
