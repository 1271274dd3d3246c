package generate

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/MakeNowJust/heredoc/v2"

	"adaptive/internal/phase"
	"adaptive/internal/stack"
	"adaptive/internal/version"
)

var guideTemplate = template.Must(template.New("guide").Parse(heredoc.Doc(`
	# Subagent Usage Guide for {{.FrameworkUpper}} Projects

	## AGGRESSIVE Mode (Default)

	**Installing adaptive agents means opting in to proactive subagent usage.**

	This guide was generated from your project:
	- Framework: **{{.Framework}}**{{if .Version}} {{.Version}}{{end}}
	- Confidence: **{{.Confidence}}**
	- Language: **{{.Language}}**
	{{if .Phase}}
	### Development Phase: **{{.PhaseUpper}}**

	- Review Rigor: **{{.Rigor}}/10**
	- Description: {{.PhaseDescription}}
	- Confidence: {{.PhaseConfidence}}

	- Prototype (3/10): light review, "Does it work?"
	- MVP (6/10): moderate review, "Is it secure?"
	- Production (10/10): strict review, "Is it perfect?"
	{{end}}
	---

	## Mandatory Subagent Usage Rules

	### ALWAYS Use Task Tool When:

	1. **3+ files need similar modifications**
	   - Subagent: ` + "`general-purpose`" + `
	2. **Searching entire codebase for patterns**
	   - Subagent: ` + "`Explore`" + ` (thoroughness: "very thorough")
	3. **E2E testing or automated verification**
	   - Subagent: ` + "`general-purpose`" + `
	4. **2+ independent tasks can run in parallel**
	   - Subagent: multiple ` + "`general-purpose`" + ` in a single message

	---

	## Framework-Specific Workflows

	{{.Workflow}}
	---

	## Your Agents

	{{range .Agents}}- **{{.Name}}**{{if .Description}} {{.Description}}{{end}}{{if .Keywords}}: {{.Keywords}}{{end}}
	{{else}}_No agents were recommended for this stack._
	{{end}}
	---

	## Cost vs Time Analysis

	| Task Type | Files | Direct Cost | Subagent Cost | Time Saved | Decision |
	|-----------|-------|-------------|---------------|------------|----------|
	| Single file edit | 1 | 5k tokens | 25k tokens | 0 min | Direct |
	| Similar pattern | 3-4 | 15k tokens | 35k tokens | 30 min | Subagent |
	| Large refactor | 5+ | 30k tokens | 50k tokens | 60 min | Subagent |
	| Codebase search | N/A | 40k tokens | 60k tokens | 90 min | Explore |

	**Rule of Thumb**: 20k token overhead is acceptable for 30+ minutes saved.

	---

	**Generated by**: adaptive {{.ToolVersion}}
	**Policy**: AGGRESSIVE
`)))

var workflows = map[string]string{
	"nextjs": heredoc.Doc(`
		### Next.js Development

		- 3+ components created or modified: ` + "`component-reviewer`" + `
		- API routes: ` + "`nextjs-tester`" + ` then ` + "`api-reviewer`" + `
		- Type errors across 5+ files: ` + "`type-checker`" + ` in parallel with code changes
	`),
	"fastapi": heredoc.Doc(`
		### FastAPI Development

		- 2+ CRUD endpoints: ` + "`api-developer`" + ` then ` + "`api-reviewer`" + `
		- Async code under test: ` + "`fastapi-tester`" + ` then ` + "`async-checker`" + `
	`),
	"go": heredoc.Doc(`
		### Go Development

		- Any goroutine or channel change: ` + "`concurrency-checker`" + ` (mandatory)
		- Refactoring 5+ files: ` + "`go-reviewer`" + `
	`),
	"flutter": heredoc.Doc(`
		### Flutter Development

		- 3+ widgets created or modified: ` + "`flutter-developer`" + `
		- State management (Provider, Riverpod, BLoC): ` + "`flutter-developer`" + `
	`),
}

var genericWorkflow = heredoc.Doc(`
	### %s Development

	- Modifying 3+ files with similar patterns: ` + "`general-purpose`" + `
	- Searching for usage patterns: ` + "`Explore`" + ` (thoroughness: "very thorough")
`)

var agentDescriptions = map[string]string{
	"nextjs-tester":         "(Testing specialist)",
	"component-reviewer":    "(Component best practices)",
	"type-checker":          "(TypeScript strict mode)",
	"app-router-specialist": "(App Router patterns)",
	"fastapi-tester":        "(pytest + TestClient)",
	"api-reviewer":          "(REST API best practices)",
	"async-checker":         "(async/await patterns)",
	"go-tester":             "(go test specialist)",
	"go-reviewer":           "(Go idioms)",
	"concurrency-checker":   "(Goroutines & channels)",
}

var keywordsBySuffix = []struct{ suffix, keywords string }{
	{"-tester", "`test`, `verify`, `validation`"},
	{"-reviewer", "`review`, `improve`, `validate`"},
	{"-checker", "`check`, `lint`, `validate`"},
	{"-developer", "`create`, `develop`, `implement`"},
}

type guideAgent struct {
	Name        string
	Description string
	Keywords    string
}

type guideData struct {
	Framework        string
	FrameworkUpper   string
	Version          string
	Confidence       string
	Language         string
	Phase            bool
	PhaseUpper       string
	Rigor            int
	PhaseDescription string
	PhaseConfidence  string
	Workflow         string
	Agents           []guideAgent
	ToolVersion      string
}

// RenderGuide returns the SUBAGENT_GUIDE.md content. ph may be nil.
func RenderGuide(st *stack.Result, ph *phase.Result) (string, error) {
	data := guideData{
		Framework:      st.Framework,
		FrameworkUpper: strings.ToUpper(st.Framework),
		Version:        st.VersionOr(""),
		Confidence:     fmt.Sprintf("%.0f%%", st.Confidence*100),
		Language:       st.Language,
		Workflow:       workflowFor(st.Framework),
		ToolVersion:    version.Version,
	}
	if ph != nil {
		data.Phase = true
		data.PhaseUpper = strings.ToUpper(ph.Phase.String())
		data.Rigor = ph.Rigor
		data.PhaseDescription = ph.Description
		data.PhaseConfidence = fmt.Sprintf("%.0f%%", ph.Confidence*100)
	}
	for _, name := range st.RecommendedSubagents {
		data.Agents = append(data.Agents, guideAgent{
			Name:        name,
			Description: agentDescriptions[name],
			Keywords:    keywordsFor(name),
		})
	}

	var buf bytes.Buffer
	if err := guideTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeGuide(path string, st *stack.Result, ph *phase.Result) error {
	content, err := RenderGuide(st, ph)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func workflowFor(framework string) string {
	if w, ok := workflows[framework]; ok {
		return w
	}
	title := framework
	if title != "" {
		title = strings.ToUpper(title[:1]) + title[1:]
	}
	return fmt.Sprintf(genericWorkflow, title)
}

func keywordsFor(agent string) string {
	for _, k := range keywordsBySuffix {
		if strings.HasSuffix(agent, k.suffix) {
			return k.keywords
		}
	}
	return ""
}
