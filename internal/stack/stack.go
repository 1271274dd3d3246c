// Package stack identifies a project's primary framework.
//
// Detectors run in a fixed priority order and the first whose confidence
// exceeds Floor wins; more specific frameworks (Next.js) are ordered before
// the frameworks they build on (React). Each detector scores itself with an
// additive, clamped signal.Accumulator using the increments in its weights
// table.
package stack

import (
	"log/slog"
	"strings"

	"github.com/Masterminds/semver/v3"

	"adaptive/internal/paths"
	"adaptive/internal/scan"
	"adaptive/internal/signal"
	"adaptive/internal/slogutil"
)

// Floor is the confidence a detector must strictly exceed to win.
const Floor = 0.5

// Result describes the detected framework.
type Result struct {
	Framework            string              `json:"framework"`
	Version              *string             `json:"version"`
	Language             string              `json:"language"`
	Confidence           float64             `json:"confidence"`
	Indicators           []string            `json:"indicators"`
	Tools                map[string][]string `json:"tools"`
	RecommendedSubagents []string            `json:"recommended_subagents"`
	ProjectStructure     map[string]bool     `json:"project_structure"`
	// OverrideSource is "cache" when the result was served from the
	// detection cache and "none" when it was computed.
	OverrideSource signal.OverrideSource `json:"override_source"`
}

// VersionOr returns the detected version or fallback when unknown.
func (r *Result) VersionOr(fallback string) string {
	if r.Version == nil || *r.Version == "" {
		return fallback
	}
	return *r.Version
}

func newResult(framework, language string, acc *signal.Accumulator) *Result {
	return &Result{
		Framework:            framework,
		Language:             language,
		Confidence:           acc.Confidence(),
		Indicators:           acc.Evidence(),
		Tools:                map[string][]string{},
		RecommendedSubagents: []string{},
		ProjectStructure:     map[string]bool{},
		OverrideSource:       signal.OverrideNone,
	}
}

// Detectors lists framework detectors in priority order.
var Detectors = []signal.Candidate[*scan.Scanner, *Result]{
	{Name: "nextjs", Detect: detectNextJS},
	{Name: "react", Detect: detectReact},
	{Name: "vue", Detect: detectVue},
	{Name: "fastapi", Detect: detectFastAPI},
	{Name: "django", Detect: detectDjango},
	{Name: "flask", Detect: detectFlask},
	{Name: "python-ml", Detect: detectPythonML},
	{Name: "go", Detect: detectGo},
	{Name: "flutter", Detect: detectFlutter},
	{Name: "ios-swift", Detect: detectIOSSwift},
	{Name: "vanilla-php-web", Detect: detectVanillaPHP},
}

// Detector runs the ordered detector list.
type Detector struct {
	logger      *slog.Logger
	sampleLimit int
}

// NewDetector creates a Detector. A nil logger discards diagnostics and a
// non-positive sampleLimit selects scan.DefaultSampleLimit.
func NewDetector(logger *slog.Logger, sampleLimit int) *Detector {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	if sampleLimit <= 0 {
		sampleLimit = scan.DefaultSampleLimit
	}
	return &Detector{logger: logger, sampleLimit: sampleLimit}
}

// Detect returns the winning framework for root, or nil when root does not
// exist, is not a directory, or no detector is confident enough.
func (d *Detector) Detect(root string) *Result {
	resolved, err := paths.ProjectRoot(root)
	if err != nil {
		d.logger.Debug("Skipping stack detection", "path", root, "error", err.Error())
		return nil
	}
	return d.DetectScanner(scan.New(resolved, scan.WithLogger(d.logger), scan.WithSampleLimit(d.sampleLimit)))
}

// DetectScanner runs detection over an existing scanner.
func (d *Detector) DetectScanner(sc *scan.Scanner) *Result {
	d.logger.Debug("Starting tech stack detection", "root", sc.Root())

	result, name, ok := signal.FirstMatch(sc, Detectors, func(r *Result) bool {
		return r.Confidence > Floor
	})
	if !ok {
		d.logger.Info("Could not confidently detect tech stack", "root", sc.Root())
		return nil
	}

	d.logger.Info("Detected tech stack",
		"detector", name,
		"framework", result.Framework,
		"confidence", result.Confidence,
	)
	return result
}

// Detect is a convenience wrapper using default settings.
func Detect(root string) *Result {
	return NewDetector(nil, 0).Detect(root)
}

// cleanVersion turns a dependency constraint ("^14.2.0", ">=3.2.0 <4.0.0",
// "==5.0.2") into its leading version. Constraints that do not start with a
// version ("latest", "14.x") are kept as written minus a leading ^ or ~.
// It returns nil for empty and wildcard constraints.
func cleanVersion(constraint string) *string {
	raw := strings.TrimSpace(constraint)
	s := strings.TrimLeft(raw, "^~=<>! ")
	if i := strings.IndexAny(s, " ,;<>|"); i >= 0 {
		s = s[:i]
	}
	if _, err := semver.NewVersion(s); err == nil {
		return &s
	}
	loose := strings.TrimLeft(raw, "^~")
	if loose == "" || loose == "*" {
		return nil
	}
	return &loose
}

// tsOrJS reports the language of a JavaScript-family project.
func tsOrJS(sc *scan.Scanner) string {
	if sc.Exists("tsconfig.json") {
		return "typescript"
	}
	return "javascript"
}
