package main

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"adaptive/internal/analyzer"
	"adaptive/internal/errors"
	"adaptive/internal/generate"
	"adaptive/internal/paths"
)

var (
	analyzeMode    string
	analyzeDryRun  bool
	analyzeNoCache bool
	analyzeFormat  string
	analyzeDetect  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a project and generate agents",
	Long: heredoc.Doc(`
		Detect the project's stack, phase and workspace layout, then write
		agent definitions into .claude/agents.

		Modes:
		  generate      write a fresh agent set (fails if agents exist)
		  update-only   refresh agents that already exist
		  merge         back up, keep existing agents, add missing ones
		  force         back up, then overwrite every recommended agent

		Examples:
		  adaptive analyze                    # current directory
		  adaptive analyze ./web --dry-run    # show the plan only
		  adaptive analyze --mode merge
		  adaptive analyze --detect-only --format json
	`),
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeMode, "mode", string(generate.ModeGenerate), "Update mode (generate, update-only, merge, force)")
	analyzeCmd.Flags().BoolVar(&analyzeDryRun, "dry-run", false, "Show what would be written without writing")
	analyzeCmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "Bypass the detection cache")
	analyzeCmd.Flags().BoolVar(&analyzeDetect, "detect-only", false, "Only run detection, do not generate agents")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(analyzeCmd)
}

// AnalyzeResponseCLI is the analyze command output.
type AnalyzeResponseCLI struct {
	Report *analyzer.Report `json:"report"`
	Plan   *generate.Plan   `json:"plan,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	mode, err := generate.ParseMode(analyzeMode)
	if err != nil {
		return err
	}
	root, err := projectArg(args)
	if err != nil {
		return err
	}

	c, err := openCache(analyzeNoCache)
	if err != nil {
		env.logger.Warn("Detection cache unavailable", "error", err.Error())
		c = nil
	}
	a := analyzer.New(env.cfg, analyzer.WithLogger(env.logger), analyzer.WithCache(c))

	ctx, cancel := newContext()
	defer cancel()

	report, err := a.Analyze(ctx, root)
	if err != nil {
		return err
	}
	resp := &AnalyzeResponseCLI{Report: report}

	if !analyzeDetect {
		templates, err := paths.TemplatesDir(env.cfg.Templates.Dir)
		if err != nil {
			return errors.New(errors.TemplatesNotFound, "Agent templates directory not found", err, nil)
		}
		gen := generate.NewGenerator(templates, generate.WithLogger(env.logger))
		resp.Plan, err = gen.Run(report.Root, report.Stack, report.Phase, mode, analyzeDryRun)
		if err != nil {
			return err
		}
	}

	out, err := FormatResponse(resp, OutputFormat(analyzeFormat))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
