package phase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"adaptive/internal/paths"
	"adaptive/internal/scan"
	"adaptive/internal/signal"
	"adaptive/internal/slogutil"
	"adaptive/internal/vcs"
)

// Detector runs phase detection against project roots.
type Detector struct {
	logger     *slog.Logger
	gitTimeout time.Duration
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithGitTimeout bounds each git query made by the git_history signal.
func WithGitTimeout(timeout time.Duration) Option {
	return func(d *Detector) { d.gitTimeout = timeout }
}

// NewDetector creates a Detector.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		logger:     slogutil.NewDiscardLogger(),
		gitTimeout: vcs.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect classifies the project at root. The only error is a root that does
// not exist or is not a directory; every other failure makes the affected
// signal abstain.
func (d *Detector) Detect(ctx context.Context, root string) (*Result, error) {
	root, err := paths.ProjectRoot(root)
	if err != nil {
		return nil, err
	}
	return d.DetectScanner(ctx, scan.New(root, scan.WithLogger(d.logger))), nil
}

// DetectScanner classifies the project behind an existing scanner.
func (d *Detector) DetectScanner(ctx context.Context, sc *scan.Scanner) *Result {
	d.logger.Debug("Starting phase detection", "root", sc.Root())

	if user, ok := ReadOverride(sc, d.logger); ok && user.Confidence > overrideThreshold {
		d.logger.Info("User phase override", "phase", user.Label.String())
		return newResult(signal.Override(user))
	}

	ev := &Evidence{Scan: sc}
	ev.History, ev.HistoryErr = vcs.NewGit(sc.Root(), d.gitTimeout, d.logger).History(ctx)
	if ev.HistoryErr != nil && !errors.Is(ev.HistoryErr, vcs.ErrNoRepository) {
		d.logger.Warn("Git analysis failed", "error", ev.HistoryErr.Error())
	}

	verdict := newAggregator().Run(ev)
	if len(verdict.Signals) == 0 {
		d.logger.Warn("No phase signals detected, defaulting to prototype")
	}
	d.logger.Info("Detected phase",
		"phase", verdict.Label.String(),
		"confidence", verdict.Confidence,
		"signals", len(verdict.Signals),
	)
	return newResult(verdict)
}
