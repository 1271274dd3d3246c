package main

import (
	"fmt"
	"sort"
	"strings"

	"adaptive/internal/analyzer"
	"adaptive/internal/generate"
	"adaptive/internal/monorepo"
	"adaptive/internal/output"
	"adaptive/internal/paths"
	"adaptive/internal/phase"
	"adaptive/internal/signal"
	"adaptive/internal/stack"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatJSON renders resp with sorted keys and rounded confidences.
func formatJSON(resp interface{}) (string, error) {
	data, err := output.DeterministicEncodeIndented(resp, "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatHuman(resp interface{}) (string, error) {
	var b strings.Builder
	switch v := resp.(type) {
	case *AnalyzeResponseCLI:
		writeReport(&b, v.Report)
		if v.Plan != nil {
			b.WriteString("\n")
			writePlan(&b, v.Plan)
		}
	case *stack.Result:
		writeStack(&b, v)
	case *phase.Result:
		writePhase(&b, v)
	case *monorepo.Result:
		writeMonorepo(&b, v)
	case *CacheStatsCLI:
		writeCacheStats(&b, v)
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func writeReport(b *strings.Builder, r *analyzer.Report) {
	fmt.Fprintf(b, "Project: %s\n", r.Root)
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if r.Stack != nil {
		writeStack(b, r.Stack)
		if r.Cached {
			b.WriteString("  (from cache)\n")
		}
	} else {
		b.WriteString("Stack: not detected\n")
	}
	b.WriteString("\n")
	writePhase(b, r.Phase)

	if r.Monorepo != nil && r.Monorepo.IsMonorepo {
		b.WriteString("\n")
		writeMonorepo(b, r.Monorepo)
		for _, ws := range r.Workspaces {
			if ws.Stack == nil {
				fmt.Fprintf(b, "  %s: not detected\n", ws.Name)
				continue
			}
			fmt.Fprintf(b, "  %s: %s (%s)\n", ws.Name, ws.Stack.Framework, output.Percent(ws.Stack.Confidence))
		}
	}
}

func writeStack(b *strings.Builder, s *stack.Result) {
	fmt.Fprintf(b, "Framework: %s %s\n", s.Framework, s.VersionOr(""))
	fmt.Fprintf(b, "Language: %s\n", s.Language)
	fmt.Fprintf(b, "Confidence: %s\n", output.Percent(s.Confidence))

	if len(s.Tools) > 0 {
		b.WriteString("Tools:\n")
		categories := make([]string, 0, len(s.Tools))
		for c := range s.Tools {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			fmt.Fprintf(b, "  %s: %s\n", c, strings.Join(s.Tools[c], ", "))
		}
	}
	if len(s.RecommendedSubagents) > 0 {
		fmt.Fprintf(b, "Recommended agents: %s\n", strings.Join(s.RecommendedSubagents, ", "))
	}
	if len(s.Indicators) > 0 {
		b.WriteString("Indicators:\n")
		for _, ind := range s.Indicators {
			fmt.Fprintf(b, "  - %s\n", ind)
		}
	}
}

func writePhase(b *strings.Builder, p *phase.Result) {
	if p == nil {
		return
	}
	fmt.Fprintf(b, "Phase: %s (rigor %d/10, confidence %s)\n", p.Phase, p.Rigor, output.Percent(p.Confidence))
	fmt.Fprintf(b, "  %s\n", p.Description)
	if p.OverrideSource == signal.OverrideUser {
		fmt.Fprintf(b, "  Source: %s\n", p.OverrideSource)
	}
	for _, ind := range p.Indicators {
		fmt.Fprintf(b, "  - %s\n", ind)
	}
}

func writeMonorepo(b *strings.Builder, m *monorepo.Result) {
	if !m.IsMonorepo {
		b.WriteString("Monorepo: no\n")
		return
	}
	fmt.Fprintf(b, "Monorepo: %s, %d workspace(s)\n", *m.WorkspaceManager, len(m.Workspaces))
	for _, ws := range m.Workspaces {
		path := ws.Path
		if rel, err := paths.CanonicalizePath(ws.Path, m.RootPath); err == nil {
			path = rel
		}
		fmt.Fprintf(b, "  - %s  %s\n", ws.Name, path)
	}
}

func writePlan(b *strings.Builder, p *generate.Plan) {
	title := "Agents"
	if p.DryRun {
		title = "Agents (dry run, nothing written)"
	}
	fmt.Fprintf(b, "%s, mode %s:\n", title, p.Mode)
	if p.BackupDir != "" {
		fmt.Fprintf(b, "  Backup: %s\n", p.BackupDir)
	}
	for _, a := range p.Agents {
		line := fmt.Sprintf("  %-8s %s", a.Action, a.Agent)
		if a.Reason != "" {
			line += "  (" + a.Reason + ")"
		}
		b.WriteString(line + "\n")
	}
	fmt.Fprintf(b, "  Guide: %s\n", p.Guide)
}

func writeCacheStats(b *strings.Builder, s *CacheStatsCLI) {
	fmt.Fprintf(b, "Cache: %s\n", s.Dir)
	fmt.Fprintf(b, "  Entries: %d (%d bytes)\n", s.Stats.CacheEntries, s.Stats.CacheFileSize)
	fmt.Fprintf(b, "  Requests: %d (hits %d, misses %d)\n", s.Stats.TotalRequests, s.Stats.Hits, s.Stats.Misses)
	fmt.Fprintf(b, "  Hit rate: %s\n", s.Stats.HitRate)
}
