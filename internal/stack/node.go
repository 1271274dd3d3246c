package stack

import (
	"adaptive/internal/scan"
	"adaptive/internal/signal"
)

var nextjsWeights = struct {
	Manifest, Dependency, Config, Router float64
}{0.1, 0.4, 0.3, 0.2}

func detectNextJS(sc *scan.Scanner) (*Result, bool) {
	if !sc.Exists("package.json") {
		return nil, false
	}
	acc := signal.NewAccumulator()
	acc.Add("package.json exists", nextjsWeights.Manifest)

	pkg := sc.PackageJSON()
	if pkg == nil {
		return nil, false
	}
	deps := pkg.AllDeps()
	raw, ok := deps["next"]
	if !ok {
		return nil, false
	}
	acc.Add("'next' dependency found", nextjsWeights.Dependency)

	if _, ok := sc.FirstExisting("next.config.js", "next.config.ts", "next.config.mjs"); ok {
		acc.Add("next.config.* exists", nextjsWeights.Config)
	}

	hasApp := sc.IsDir("app")
	hasPages := sc.IsDir("pages")
	switch {
	case hasApp:
		acc.Add("app/ directory (App Router)", nextjsWeights.Router)
	case hasPages:
		acc.Add("pages/ directory (Pages Router)", nextjsWeights.Router)
	}

	language := tsOrJS(sc)
	if language == "typescript" {
		acc.Note("TypeScript detected")
	}

	r := newResult("nextjs", language, acc)
	r.Version = cleanVersion(raw)
	r.Tools = collectTools(jsToolRules, pkg.HasDep)
	r.RecommendedSubagents = []string{"nextjs-tester", "component-reviewer"}
	if language == "typescript" {
		r.RecommendedSubagents = append(r.RecommendedSubagents, "type-checker")
	}
	if hasApp {
		r.RecommendedSubagents = append(r.RecommendedSubagents, "app-router-specialist")
	}
	r.ProjectStructure = map[string]bool{
		"app_router":   hasApp,
		"pages_router": hasPages,
		"typescript":   language == "typescript",
	}
	return r, true
}

var reactWeights = struct {
	Dependency, BuildTool float64
}{0.6, 0.2}

// detectReact matches React projects that are not Next.js.
func detectReact(sc *scan.Scanner) (*Result, bool) {
	pkg := sc.PackageJSON()
	if pkg == nil || !pkg.HasDep("react") || pkg.HasDep("next") {
		return nil, false
	}
	acc := signal.NewAccumulator()
	acc.Add("'react' dependency", reactWeights.Dependency)

	framework := "react"
	switch {
	case pkg.HasDep("vite"):
		framework = "vite-react"
		acc.Add("Vite build tool", reactWeights.BuildTool)
	case pkg.HasDep("react-scripts"):
		framework = "create-react-app"
		acc.Add("Create React App", reactWeights.BuildTool)
	}

	language := tsOrJS(sc)
	r := newResult(framework, language, acc)
	r.Version = cleanVersion(pkg.AllDeps()["react"])
	r.Tools = collectTools(jsToolRules, pkg.HasDep)
	r.RecommendedSubagents = []string{"react-tester", "component-reviewer"}
	r.ProjectStructure = map[string]bool{"typescript": language == "typescript"}
	return r, true
}

var vueWeights = struct {
	Dependency, BuildTool float64
}{0.7, 0.2}

func detectVue(sc *scan.Scanner) (*Result, bool) {
	pkg := sc.PackageJSON()
	if pkg == nil || !pkg.HasDep("vue") {
		return nil, false
	}
	acc := signal.NewAccumulator()
	acc.Add("'vue' dependency", vueWeights.Dependency)
	if pkg.HasDep("vite") {
		acc.Add("Vite build tool", vueWeights.BuildTool)
	}

	language := tsOrJS(sc)
	r := newResult("vue", language, acc)
	r.Version = cleanVersion(pkg.AllDeps()["vue"])
	r.Tools = collectTools(vueToolRules, pkg.HasDep)
	r.RecommendedSubagents = []string{"vue-tester", "component-reviewer"}
	r.ProjectStructure = map[string]bool{"typescript": language == "typescript"}
	return r, true
}
