package generate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptive/internal/errors"
	"adaptive/internal/paths"
	"adaptive/internal/phase"
	"adaptive/internal/stack"
	"adaptive/internal/testutil"
)

func goStack() *stack.Result {
	v := "1.21.5"
	return &stack.Result{
		Framework:            "go",
		Version:              &v,
		Language:             "go",
		Confidence:           0.9,
		Indicators:           []string{},
		Tools:                map[string][]string{},
		RecommendedSubagents: []string{"go-tester", "go-reviewer", "concurrency-checker"},
		ProjectStructure:     map[string]bool{},
	}
}

func mvpPhase() *phase.Result {
	return &phase.Result{
		Phase:       phase.MVP,
		Confidence:  0.46,
		Rigor:       phase.MVP.Rigor(),
		Description: phase.MVP.Description(),
	}
}

type fixture struct {
	root      string
	templates string
	gen       *Generator
	clock     *clock.Mock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	templates := t.TempDir()
	testutil.WriteTree(t, templates, testutil.Tree{
		"go/go-tester.md": "# {{FRAMEWORK}} tester ({{LANGUAGE}} {{VERSION}})\n",
		"go/reviewer.md":  "# reviewer for {{FRAMEWORK}}\n",
	})
	mock := clock.NewMock()
	mock.Set(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	return &fixture{
		root:      testutil.NewProject(t, "svc", testutil.Tree{"go.mod": "module svc\n\ngo 1.21.5\n"}),
		templates: templates,
		gen:       NewGenerator(templates, WithClock(mock)),
		clock:     mock,
	}
}

func (f *fixture) agent(name string) string {
	return filepath.Join(paths.AgentsDir(f.root), name+".md")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func actions(p *Plan) map[string]Action {
	out := map[string]Action{}
	for _, a := range p.Agents {
		out[a.Agent] = a.Action
	}
	return out
}

func TestGenerateFresh(t *testing.T) {
	f := newFixture(t)

	plan, err := f.gen.Run(f.root, goStack(), mvpPhase(), ModeGenerate, false)
	require.NoError(t, err)

	assert.Equal(t, map[string]Action{
		"go-tester":           ActionCreate,
		"go-reviewer":         ActionCreate,
		"concurrency-checker": ActionSkip,
	}, actions(plan))
	assert.Empty(t, plan.BackupDir)
	assert.Equal(t, 2, plan.Written())

	assert.Equal(t, "# go tester (go 1.21.5)\n", readFile(t, f.agent("go-tester")))
	assert.Equal(t, "# reviewer for go\n", readFile(t, f.agent("go-reviewer")))
	assert.NoFileExists(t, f.agent("concurrency-checker"))

	guide := readFile(t, plan.Guide)
	for _, want := range []string{
		"AGGRESSIVE Mode",
		"ALWAYS Use Task Tool When",
		"3+ files need similar modifications",
		"Cost vs Time",
		"Review Rigor: **6/10**",
		"**go-tester** (go test specialist)",
	} {
		assert.Contains(t, guide, want)
	}
}

func TestGenerateRefusesExistingAgents(t *testing.T) {
	f := newFixture(t)
	testutil.WriteTree(t, paths.AgentsDir(f.root), testutil.Tree{"custom.md": "mine\n"})

	_, err := f.gen.Run(f.root, goStack(), nil, ModeGenerate, false)
	assert.True(t, errors.Is(err, errors.AgentsExist))
}

func TestGuideAloneIsNotAnAgent(t *testing.T) {
	f := newFixture(t)
	testutil.WriteTree(t, paths.AgentsDir(f.root), testutil.Tree{paths.GuideFile: "old guide\n"})

	_, err := f.gen.Run(f.root, goStack(), nil, ModeGenerate, false)
	assert.NoError(t, err)
}

func TestUpdateOnly(t *testing.T) {
	f := newFixture(t)

	_, err := f.gen.Run(f.root, goStack(), nil, ModeUpdateOnly, false)
	require.True(t, errors.Is(err, errors.NoAgents))

	testutil.WriteTree(t, paths.AgentsDir(f.root), testutil.Tree{"go-tester.md": "stale\n"})
	plan, err := f.gen.Run(f.root, goStack(), nil, ModeUpdateOnly, false)
	require.NoError(t, err)

	assert.Equal(t, ActionUpdate, actions(plan)["go-tester"])
	assert.Equal(t, ActionSkip, actions(plan)["go-reviewer"])
	assert.Equal(t, "# go tester (go 1.21.5)\n", readFile(t, f.agent("go-tester")))
	assert.NoFileExists(t, f.agent("go-reviewer"))
	assert.Empty(t, plan.BackupDir)
}

func TestMergeKeepsCustomisations(t *testing.T) {
	f := newFixture(t)
	testutil.WriteTree(t, paths.AgentsDir(f.root), testutil.Tree{"go-tester.md": "customised\n"})

	plan, err := f.gen.Run(f.root, goStack(), nil, ModeMerge, false)
	require.NoError(t, err)

	wantBackup := filepath.Join(f.root, ".claude", "agents.backup.20260102-030405")
	assert.Equal(t, wantBackup, plan.BackupDir)
	assert.Equal(t, "customised\n", readFile(t, filepath.Join(wantBackup, "go-tester.md")))

	assert.Equal(t, ActionPreserve, actions(plan)["go-tester"])
	assert.Equal(t, ActionCreate, actions(plan)["go-reviewer"])
	assert.Equal(t, "customised\n", readFile(t, f.agent("go-tester")))
	assert.FileExists(t, f.agent("go-reviewer"))
}

func TestForceOverwrites(t *testing.T) {
	f := newFixture(t)
	testutil.WriteTree(t, paths.AgentsDir(f.root), testutil.Tree{"go-tester.md": "customised\n"})

	plan, err := f.gen.Run(f.root, goStack(), nil, ModeForce, false)
	require.NoError(t, err)

	assert.DirExists(t, plan.BackupDir)
	assert.Equal(t, ActionUpdate, actions(plan)["go-tester"])
	assert.Equal(t, "# go tester (go 1.21.5)\n", readFile(t, f.agent("go-tester")))
}

func TestDryRunWritesNothing(t *testing.T) {
	f := newFixture(t)
	testutil.WriteTree(t, paths.AgentsDir(f.root), testutil.Tree{"go-tester.md": "customised\n"})

	plan, err := f.gen.Run(f.root, goStack(), nil, ModeForce, true)
	require.NoError(t, err)

	assert.True(t, plan.DryRun)
	assert.NotEmpty(t, plan.BackupDir)
	assert.NoDirExists(t, plan.BackupDir)
	assert.NoFileExists(t, plan.Guide)
	assert.Equal(t, "customised\n", readFile(t, f.agent("go-tester")))
}

func TestMissingFrameworkTemplates(t *testing.T) {
	f := newFixture(t)
	st := goStack()
	st.Framework = "flutter"

	_, err := f.gen.Run(f.root, st, nil, ModeGenerate, false)
	assert.True(t, errors.Is(err, errors.TemplatesNotFound))
}

func TestNothingToGenerate(t *testing.T) {
	f := newFixture(t)
	st := goStack()
	st.RecommendedSubagents = []string{"concurrency-checker"}

	_, err := f.gen.Run(f.root, st, nil, ModeGenerate, false)
	assert.True(t, errors.Is(err, errors.TemplatesNotFound))
}

func TestUndetectedStack(t *testing.T) {
	f := newFixture(t)
	_, err := f.gen.Run(f.root, nil, nil, ModeGenerate, false)
	assert.True(t, errors.Is(err, errors.StackUndetected))
}

func TestUnknownVersionRendersLatest(t *testing.T) {
	f := newFixture(t)
	st := goStack()
	st.Version = nil

	_, err := f.gen.Run(f.root, st, nil, ModeGenerate, false)
	require.NoError(t, err)
	assert.Equal(t, "# go tester (go latest)\n", readFile(t, f.agent("go-tester")))
}

func TestRenderGuideGenericWorkflow(t *testing.T) {
	st := goStack()
	st.Framework = "django"
	st.RecommendedSubagents = nil

	guide, err := RenderGuide(st, nil)
	require.NoError(t, err)
	assert.Contains(t, guide, "### Django Development")
	assert.Contains(t, guide, "No agents were recommended")
	assert.NotContains(t, guide, "Review Rigor")
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		got, err := ParseMode(string(m))
		assert.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("replace")
	assert.Error(t, err)
}

func TestAgentNameOutsideAgentsDir(t *testing.T) {
	f := newFixture(t)
	st := goStack()
	st.RecommendedSubagents = []string{"go-tester", "../escape"}

	plan, err := f.gen.Run(f.root, st, nil, ModeGenerate, false)
	require.NoError(t, err)

	assert.Equal(t, ActionSkip, actions(plan)["../escape"])
	assert.NoFileExists(t, filepath.Join(f.root, ".claude", "escape.md"))
	assert.Equal(t, 1, plan.Written())
}
