package main

import (
	"log/slog"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"adaptive/internal/config"
	"adaptive/internal/errors"
	"adaptive/internal/slogutil"
	"adaptive/internal/version"
)

var (
	verbosity  int
	quiet      bool
	configFile string
)

// env is the per-invocation state built before any subcommand runs.
var env struct {
	cfg     *config.Config
	logger  *slog.Logger
	factory *slogutil.LoggerFactory
}

var rootCmd = &cobra.Command{
	Use:   "adaptive",
	Short: "Detect a project's stack and phase, then generate matching agents",
	Long: heredoc.Doc(`
		adaptive inspects a source tree, works out its framework, language and
		tooling, estimates its development phase (prototype, mvp, production)
		and writes tailored agent definitions into .claude/agents.

		Detection results are cached in ~/.cache/adaptive-claude-agents and
		invalidated whenever a tracked manifest changes.
	`),
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupEnv,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if env.factory != nil {
			_ = env.factory.Close()
		}
	},
}

func init() {
	rootCmd.SetVersionTemplate("adaptive version {{.Version}}\n")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a config.json file")
}

func setupEnv(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return errors.New(errors.InvalidConfig, "Failed to load configuration", err, nil)
	}

	var cliLevel *slog.Level
	if verbosity > 0 || quiet {
		level := slogutil.LevelFromVerbosity(verbosity, quiet)
		cliLevel = &level
	}

	env.cfg = cfg
	env.factory = slogutil.NewLoggerFactory(cfg, cliLevel)
	env.logger = env.factory.Logger(os.Stderr)
	return nil
}
