// Package analyzer drives a full project analysis: workspace layout, phase,
// cached stack detection on the root and stack detection per workspace.
package analyzer

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"adaptive/internal/cache"
	"adaptive/internal/config"
	"adaptive/internal/monorepo"
	"adaptive/internal/paths"
	"adaptive/internal/phase"
	"adaptive/internal/signal"
	"adaptive/internal/slogutil"
	"adaptive/internal/stack"
)

// Report is the outcome of one analysis run.
type Report struct {
	RunID      string            `json:"run_id"`
	Root       string            `json:"root"`
	StartedAt  string            `json:"started_at"`
	DurationMs int64             `json:"duration_ms"`
	Stack      *stack.Result     `json:"stack"`
	Cached     bool              `json:"cached"`
	Phase      *phase.Result     `json:"phase"`
	Monorepo   *monorepo.Result  `json:"monorepo"`
	Workspaces []WorkspaceReport `json:"workspaces"`
}

// WorkspaceReport is the stack detected for one monorepo member. Stack is
// nil when no detector was confident.
type WorkspaceReport struct {
	Name  string        `json:"name"`
	Path  string        `json:"path"`
	Stack *stack.Result `json:"stack"`
}

// Analyzer wires the detectors together.
type Analyzer struct {
	logger     *slog.Logger
	stacks     *stack.Detector
	phases     *phase.Detector
	workspaces *monorepo.Resolver
	cache      *cache.Cache
	now        func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithCache puts c in front of root stack detection.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) { a.cache = c }
}

// New builds an Analyzer from cfg. A nil cfg selects defaults. No cache is
// attached unless WithCache is given.
func New(cfg *config.Config, opts ...Option) *Analyzer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	a := &Analyzer{
		logger: slogutil.NewDiscardLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.stacks = stack.NewDetector(a.logger, cfg.Detection.SampleFiles)
	a.phases = phase.NewDetector(phase.WithLogger(a.logger), phase.WithGitTimeout(cfg.GitTimeout()))
	a.workspaces = monorepo.NewResolver(a.logger)
	return a
}

// OpenCache opens the cache configured by cfg, or returns nil when caching
// is disabled.
func OpenCache(cfg *config.Config, logger *slog.Logger) (*cache.Cache, error) {
	if cfg == nil || !cfg.Cache.Enabled {
		return nil, nil
	}
	dir, err := paths.CacheDir(cfg.Cache.Dir)
	if err != nil {
		return nil, err
	}
	return cache.New(dir, cfg.CacheTTL(), cache.WithLogger(logger))
}

// Analyze inspects root. It fails only when root does not exist or is not a
// directory; every other problem degrades to an absent result.
func (a *Analyzer) Analyze(ctx context.Context, root string) (*Report, error) {
	resolved, err := paths.ProjectRoot(root)
	if err != nil {
		return nil, err
	}

	started := a.now()
	report := &Report{
		RunID:      uuid.New().String(),
		Root:       resolved,
		StartedAt:  started.UTC().Format(time.RFC3339),
		Workspaces: []WorkspaceReport{},
	}
	logger := a.logger.With("run_id", report.RunID)
	logger.Info("Analyzing project", "root", resolved)

	report.Monorepo = a.workspaces.Detect(resolved)

	report.Phase, err = a.phases.Detect(ctx, resolved)
	if err != nil {
		return nil, err
	}

	report.Stack, report.Cached = a.DetectStack(resolved)

	if report.Monorepo.IsMonorepo {
		for _, ws := range report.Monorepo.Workspaces {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			report.Workspaces = append(report.Workspaces, WorkspaceReport{
				Name:  ws.Name,
				Path:  ws.Path,
				Stack: a.stacks.Detect(ws.Path),
			})
		}
	}

	report.DurationMs = a.now().Sub(started).Milliseconds()
	logger.Info("Analysis complete",
		"phase", report.Phase.Phase,
		"framework", frameworkOf(report.Stack),
		"workspaces", len(report.Workspaces),
		"duration_ms", report.DurationMs,
	)
	return report, nil
}

// DetectStack runs stack detection on root through the cache when one is
// attached. The second return reports whether the result came from the
// cache. Results that fail the floor are never stored.
func (a *Analyzer) DetectStack(root string) (*stack.Result, bool) {
	if a.cache != nil {
		if result, ok := a.cache.Get(root); ok {
			hit := *result
			hit.OverrideSource = signal.OverrideCache
			return &hit, true
		}
	}

	result := a.stacks.Detect(root)
	if result != nil && a.cache != nil {
		if err := a.cache.Set(root, result); err != nil {
			a.logger.Warn("Failed to cache detection", "error", err.Error())
		}
	}
	return result, false
}

func frameworkOf(r *stack.Result) string {
	if r == nil {
		return ""
	}
	return r.Framework
}
