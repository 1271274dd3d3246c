package generate

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/otiai10/copy"

	"adaptive/internal/stack"
)

// suffixFallbacks maps an agent name suffix to the generic template used
// when no agent-specific template exists.
var suffixFallbacks = []struct{ suffix, template string }{
	{"-tester", "tester.md"},
	{"-reviewer", "reviewer.md"},
	{"-developer", "developer.md"},
	{"-specialist", "specialist.md"},
}

func lookupTemplate(frameworkDir, agent string) (string, bool) {
	exact := filepath.Join(frameworkDir, agent+".md")
	if isFile(exact) {
		return exact, true
	}
	for _, f := range suffixFallbacks {
		if strings.HasSuffix(agent, f.suffix) {
			p := filepath.Join(frameworkDir, f.template)
			return p, isFile(p)
		}
	}
	return "", false
}

func substitutions(st *stack.Result) *strings.Replacer {
	return strings.NewReplacer(
		"{{FRAMEWORK}}", st.Framework,
		"{{LANGUAGE}}", st.Language,
		"{{VERSION}}", st.VersionOr("latest"),
	)
}

func renderTemplate(src, dst string, vars *strings.Replacer) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, []byte(vars.Replace(string(data))), 0o644)
}

func backup(agentsDir, backupDir string) error {
	return copy.Copy(agentsDir, backupDir, copy.Options{
		PreserveTimes: true,
	})
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
