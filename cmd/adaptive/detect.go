package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"adaptive/internal/analyzer"
	"adaptive/internal/errors"
	"adaptive/internal/monorepo"
	"adaptive/internal/paths"
	"adaptive/internal/phase"
)

var (
	detectFormat  string
	detectNoCache bool
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Run a single detector",
	Long:  "Run stack, phase or monorepo detection on its own and print the result",
}

var detectStackCmd = &cobra.Command{
	Use:   "stack [path]",
	Short: "Detect framework, language and tooling",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDetectStack,
}

var detectPhaseCmd = &cobra.Command{
	Use:   "phase [path]",
	Short: "Detect development phase",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDetectPhase,
}

var detectMonorepoCmd = &cobra.Command{
	Use:   "monorepo [path]",
	Short: "Detect workspace layout",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDetectMonorepo,
}

func init() {
	detectCmd.PersistentFlags().StringVar(&detectFormat, "format", "human", "Output format (json, human)")
	detectStackCmd.Flags().BoolVar(&detectNoCache, "no-cache", false, "Bypass the detection cache")

	detectCmd.AddCommand(detectStackCmd)
	detectCmd.AddCommand(detectPhaseCmd)
	detectCmd.AddCommand(detectMonorepoCmd)
	rootCmd.AddCommand(detectCmd)
}

func runDetectStack(cmd *cobra.Command, args []string) error {
	root, err := resolvedArg(args)
	if err != nil {
		return err
	}

	c, err := openCache(detectNoCache)
	if err != nil {
		env.logger.Warn("Detection cache unavailable", "error", err.Error())
		c = nil
	}
	result, _ := analyzer.New(env.cfg, analyzer.WithLogger(env.logger), analyzer.WithCache(c)).DetectStack(root)
	if result == nil {
		return errors.New(errors.StackUndetected, "Could not confidently detect tech stack", nil, nil)
	}
	return printResponse(cmd, result)
}

func runDetectPhase(cmd *cobra.Command, args []string) error {
	root, err := resolvedArg(args)
	if err != nil {
		return err
	}

	ctx, cancel := newContext()
	defer cancel()

	d := phase.NewDetector(phase.WithLogger(env.logger), phase.WithGitTimeout(env.cfg.GitTimeout()))
	result, err := d.Detect(ctx, root)
	if err != nil {
		return err
	}
	return printResponse(cmd, result)
}

func runDetectMonorepo(cmd *cobra.Command, args []string) error {
	root, err := resolvedArg(args)
	if err != nil {
		return err
	}
	return printResponse(cmd, monorepo.NewResolver(env.logger).Detect(root))
}

func resolvedArg(args []string) (string, error) {
	root, err := projectArg(args)
	if err != nil {
		return "", err
	}
	return paths.ProjectRoot(root)
}

func printResponse(cmd *cobra.Command, resp interface{}) error {
	out, err := FormatResponse(resp, OutputFormat(detectFormat))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
