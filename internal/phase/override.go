package phase

import (
	"errors"
	"fmt"
	"log/slog"

	"adaptive/internal/paths"
	"adaptive/internal/scan"
	"adaptive/internal/signal"
)

// overrideThreshold is the confidence an override signal must exceed to
// short-circuit the weighted vote.
const overrideThreshold = 0.9

// overrideRel is .claude/phase.yml relative to the project root.
var overrideRel = paths.ClaudeDir + "/" + paths.PhaseConfigFile

type overrideFile struct {
	Phase string `yaml:"phase"`
}

// ReadOverride returns the user_config signal when .claude/phase.yml exists
// and names a known phase. Parse failures and unknown values are logged and
// treated as if the file were absent.
func ReadOverride(sc *scan.Scanner, logger *slog.Logger) (signal.Result[Phase], bool) {
	var f overrideFile
	if err := sc.LoadYAML(overrideRel, &f); err != nil {
		if !errors.Is(err, scan.ErrAbsent) {
			logger.Warn("Ignoring unreadable phase config", "file", overrideRel, "error", err.Error())
		}
		return signal.Result[Phase]{}, false
	}

	p, ok := Parse(f.Phase)
	if !ok {
		logger.Warn("Invalid phase in config", "file", overrideRel, "phase", string(p))
		return signal.Result[Phase]{}, false
	}

	return signal.Result[Phase]{
		Name:       SignalUserConfig,
		Label:      p,
		Confidence: 1.0,
		Weight:     weights[SignalUserConfig],
		Evidence:   []string{fmt.Sprintf("User-specified phase: %s", p)},
	}, true
}
