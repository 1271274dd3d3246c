// Package generate materialises agent definition files for a detected stack.
//
// Templates live under <templates>/<framework>/<agent>.md and are copied into
// <project>/.claude/agents with {{FRAMEWORK}}, {{LANGUAGE}} and {{VERSION}}
// substituted. A SUBAGENT_GUIDE.md overview is written alongside them.
package generate

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/benbjohnson/clock"

	"adaptive/internal/errors"
	"adaptive/internal/paths"
	"adaptive/internal/phase"
	"adaptive/internal/slogutil"
	"adaptive/internal/stack"
)

// Mode selects how existing agent files are treated.
type Mode string

const (
	// ModeGenerate writes a fresh agent set and refuses to touch existing agents.
	ModeGenerate Mode = "generate"
	// ModeUpdateOnly rewrites agents that already exist and adds nothing.
	ModeUpdateOnly Mode = "update-only"
	// ModeMerge backs up, keeps existing agents and adds missing ones.
	ModeMerge Mode = "merge"
	// ModeForce backs up, then overwrites every recommended agent.
	ModeForce Mode = "force"
)

// Modes lists the accepted modes.
var Modes = []Mode{ModeGenerate, ModeUpdateOnly, ModeMerge, ModeForce}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q (want generate, update-only, merge or force)", s)
}

// Action is what happens to one agent file.
type Action string

const (
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionPreserve Action = "preserve"
	ActionSkip     Action = "skip"
)

// AgentPlan describes one recommended agent.
type AgentPlan struct {
	Agent    string `json:"agent"`
	Action   Action `json:"action"`
	Template string `json:"template,omitempty"`
	Output   string `json:"output"`
	Reason   string `json:"reason,omitempty"`
}

// Plan is the full set of changes for one project. When DryRun is set
// nothing described by it has been written.
type Plan struct {
	Mode      Mode        `json:"mode"`
	DryRun    bool        `json:"dry_run"`
	AgentsDir string      `json:"agents_dir"`
	BackupDir string      `json:"backup_dir,omitempty"`
	Guide     string      `json:"guide"`
	Agents    []AgentPlan `json:"agents"`
}

// Written counts agents that were (or would be) created or updated.
func (p *Plan) Written() int {
	n := 0
	for _, a := range p.Agents {
		if a.Action == ActionCreate || a.Action == ActionUpdate {
			n++
		}
	}
	return n
}

// Generator writes agent files from a template tree.
type Generator struct {
	templatesDir string
	logger       *slog.Logger
	clock        clock.Clock
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithClock sets the clock used for backup timestamps.
func WithClock(c clock.Clock) Option {
	return func(g *Generator) { g.clock = c }
}

// NewGenerator creates a Generator reading templates from templatesDir.
func NewGenerator(templatesDir string, opts ...Option) *Generator {
	g := &Generator{
		templatesDir: templatesDir,
		logger:       slogutil.NewDiscardLogger(),
		clock:        clock.New(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run plans and, unless dryRun is set, applies agent generation for root.
func (g *Generator) Run(root string, st *stack.Result, ph *phase.Result, mode Mode, dryRun bool) (*Plan, error) {
	if st == nil {
		return nil, errors.New(errors.StackUndetected, "Could not confidently detect the tech stack", nil, nil)
	}

	plan, err := g.plan(root, st, mode)
	if err != nil {
		return nil, err
	}
	plan.DryRun = dryRun
	if dryRun {
		g.logger.Info("Dry run, nothing written", "agents", plan.Written())
		return plan, nil
	}
	if err := g.apply(plan, st, ph); err != nil {
		return nil, err
	}
	return plan, nil
}

func (g *Generator) plan(root string, st *stack.Result, mode Mode) (*Plan, error) {
	agentsDir := paths.AgentsDir(root)
	existing, err := existingAgents(agentsDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", agentsDir, err)
	}

	switch {
	case mode == ModeGenerate && len(existing) > 0:
		return nil, errors.New(errors.AgentsExist,
			fmt.Sprintf("%d agent(s) already exist in %s", len(existing), agentsDir), nil, nil).
			WithDetails(sortedNames(existing))
	case mode == ModeUpdateOnly && len(existing) == 0:
		return nil, errors.New(errors.NoAgents,
			fmt.Sprintf("No existing agents found in %s", agentsDir), nil, nil)
	}

	frameworkDir := filepath.Join(g.templatesDir, st.Framework)
	if info, err := os.Stat(frameworkDir); err != nil || !info.IsDir() {
		return nil, errors.New(errors.TemplatesNotFound,
			fmt.Sprintf("Templates not available for %s", st.Framework), err, nil).
			WithDetails(map[string]string{"template_dir": frameworkDir})
	}

	plan := &Plan{
		Mode:      mode,
		AgentsDir: agentsDir,
		Guide:     filepath.Join(agentsDir, paths.GuideFile),
		Agents:    []AgentPlan{},
	}
	if (mode == ModeMerge || mode == ModeForce) && len(existing) > 0 {
		plan.BackupDir = paths.BackupDir(root, g.clock.Now())
	}

	for _, agent := range st.RecommendedSubagents {
		ap := AgentPlan{Agent: agent, Output: filepath.Join(agentsDir, agent+".md")}
		_, exists := existing[agent]

		switch {
		case filepath.Dir(ap.Output) != agentsDir:
			ap.Action, ap.Reason = ActionSkip, "invalid agent name"
			g.logger.Warn("Agent name escapes agents directory", "agent", agent)
		case mode == ModeUpdateOnly && !exists:
			ap.Action, ap.Reason = ActionSkip, "not present (update-only)"
		case mode == ModeMerge && exists:
			ap.Action, ap.Reason = ActionPreserve, "existing agent kept"
		default:
			tmpl, ok := lookupTemplate(frameworkDir, agent)
			switch {
			case !ok:
				ap.Action, ap.Reason = ActionSkip, "no template"
				g.logger.Warn("Template not found", "agent", agent, "framework", st.Framework)
			case exists:
				ap.Action, ap.Template = ActionUpdate, tmpl
			default:
				ap.Action, ap.Template = ActionCreate, tmpl
			}
		}
		plan.Agents = append(plan.Agents, ap)
	}

	if plan.Written() == 0 && mode != ModeMerge {
		return nil, errors.New(errors.TemplatesNotFound,
			fmt.Sprintf("No templates could be generated for %s", st.Framework), nil, nil).
			WithDetails(plan)
	}
	return plan, nil
}

func (g *Generator) apply(plan *Plan, st *stack.Result, ph *phase.Result) error {
	if plan.BackupDir != "" {
		if err := backup(plan.AgentsDir, plan.BackupDir); err != nil {
			// A failed backup does not block generation.
			g.logger.Warn("Failed to create backup", "dir", plan.BackupDir, "error", err.Error())
			plan.BackupDir = ""
		} else {
			g.logger.Info("Backup created", "dir", plan.BackupDir)
		}
	}

	if err := os.MkdirAll(plan.AgentsDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", plan.AgentsDir, err)
	}

	vars := substitutions(st)
	for _, ap := range plan.Agents {
		if ap.Action != ActionCreate && ap.Action != ActionUpdate {
			continue
		}
		if err := renderTemplate(ap.Template, ap.Output, vars); err != nil {
			return fmt.Errorf("writing agent %s: %w", ap.Agent, err)
		}
		g.logger.Info("Wrote agent", "agent", ap.Agent, "action", string(ap.Action))
	}

	if err := writeGuide(plan.Guide, st, ph); err != nil {
		return fmt.Errorf("writing %s: %w", paths.GuideFile, err)
	}
	g.logger.Info("Generated usage guide", "path", plan.Guide)
	return nil
}

// existingAgents returns the agent names (file stems) already present,
// excluding the guide.
func existingAgents(dir string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, err
	}
	agents := make(map[string]struct{})
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".md") || name == paths.GuideFile {
			continue
		}
		agents[strings.TrimSuffix(name, ".md")] = struct{}{}
	}
	return agents, nil
}
