package stack

import (
	"fmt"
	"path"

	"adaptive/internal/scan"
	"adaptive/internal/signal"
)

// pythonDeps returns the merged Python dependencies, or nil when the root
// has no Python manifest.
func pythonDeps(sc *scan.Scanner) map[string]scan.Requirement {
	if !sc.HasPythonManifest() {
		return nil
	}
	return sc.PythonDeps()
}

func hasIn(deps map[string]scan.Requirement) func(string) bool {
	return func(name string) bool {
		_, ok := deps[name]
		return ok
	}
}

func pinnedVersion(deps map[string]scan.Requirement, name string) *string {
	req, ok := deps[name]
	if !ok {
		return nil
	}
	return cleanVersion(req.Pin())
}

var fastapiWeights = struct {
	Dependency, Import float64
}{0.6, 0.3}

func detectFastAPI(sc *scan.Scanner) (*Result, bool) {
	deps := pythonDeps(sc)
	if deps == nil {
		return nil, false
	}
	acc := signal.NewAccumulator()
	if hasIn(deps)("fastapi") {
		acc.Add("'fastapi' dependency", fastapiWeights.Dependency)
	}

	files := sc.SampleFiles(".py")
	if f, ok := sc.FirstContaining(files, "from fastapi import", "import fastapi"); ok {
		acc.Add(fmt.Sprintf("FastAPI import in %s", path.Base(f)), fastapiWeights.Import)
	}
	if acc.Confidence() < 0.5 {
		return nil, false
	}
	if n := sc.CountOccurrences(files, "async def"); n > 0 {
		acc.Note(fmt.Sprintf("%d async handlers", n))
	}

	r := newResult("fastapi", "python", acc)
	r.Version = pinnedVersion(deps, "fastapi")
	r.Tools = collectTools(pythonToolRules, hasIn(deps))
	r.RecommendedSubagents = []string{"fastapi-tester", "api-reviewer", "async-checker"}
	return r, true
}

var djangoWeights = struct {
	ManagePy float64
}{0.8}

func detectDjango(sc *scan.Scanner) (*Result, bool) {
	if !sc.IsFile("manage.py") {
		return nil, false
	}
	acc := signal.NewAccumulator()
	acc.Add("manage.py exists", djangoWeights.ManagePy)

	deps := pythonDeps(sc)
	r := newResult("django", "python", acc)
	r.Version = pinnedVersion(deps, "django")
	r.Tools = collectTools(pythonToolRules, hasIn(deps))
	r.RecommendedSubagents = []string{"django-tester", "model-reviewer"}
	return r, true
}

var flaskWeights = struct {
	Dependency float64
}{0.7}

func detectFlask(sc *scan.Scanner) (*Result, bool) {
	deps := pythonDeps(sc)
	if !hasIn(deps)("flask") {
		return nil, false
	}
	acc := signal.NewAccumulator()
	acc.Add("'flask' dependency", flaskWeights.Dependency)

	r := newResult("flask", "python", acc)
	r.Version = pinnedVersion(deps, "flask")
	r.Tools = collectTools(pythonToolRules, hasIn(deps))
	r.RecommendedSubagents = []string{"flask-tester", "api-reviewer"}
	return r, true
}

var pythonMLWeights = struct {
	Framework, DataScience, Vision, FrameworkImport, VisionImport float64
}{0.4, 0.2, 0.2, 0.2, 0.1}

// detectPythonML matches machine-learning and computer-vision projects. An
// ML framework or CV library dependency is required.
func detectPythonML(sc *scan.Scanner) (*Result, bool) {
	deps := pythonDeps(sc)
	if deps == nil {
		return nil, false
	}
	tools := collectTools(mlToolRules, hasIn(deps))
	if len(tools["ml_framework"]) == 0 && len(tools["cv_library"]) == 0 {
		return nil, false
	}

	acc := signal.NewAccumulator()
	if fw := tools["ml_framework"]; len(fw) > 0 {
		acc.Add(fmt.Sprintf("ML framework (%s)", fw[0]), pythonMLWeights.Framework)
	}
	if ds := tools["data_science"]; len(ds) > 0 {
		acc.Add(fmt.Sprintf("Data science stack (%s)", ds[0]), pythonMLWeights.DataScience)
	}
	if cv := tools["cv_library"]; len(cv) > 0 {
		acc.Add(fmt.Sprintf("Computer vision library (%s)", cv[0]), pythonMLWeights.Vision)
	}

	files := sc.SampleFiles(".py")
	if f, ok := sc.FirstContaining(files, "import torch", "from torch", "import tensorflow", "from tensorflow", "import sklearn", "from sklearn"); ok {
		acc.Add(fmt.Sprintf("ML import in %s", path.Base(f)), pythonMLWeights.FrameworkImport)
	}
	if f, ok := sc.FirstContaining(files, "import cv2"); ok {
		acc.Add(fmt.Sprintf("OpenCV import in %s", path.Base(f)), pythonMLWeights.VisionImport)
	}

	r := newResult("python-ml", "python", acc)
	r.Tools = tools
	for category, names := range collectTools(pythonToolRules, hasIn(deps)) {
		r.Tools[category] = names
	}
	r.RecommendedSubagents = []string{"python-ml-tester", "ml-model-reviewer"}
	if len(tools["cv_library"]) > 0 {
		r.RecommendedSubagents = append(r.RecommendedSubagents, "cv-specialist")
	}
	r.ProjectStructure = map[string]bool{
		"notebooks": len(sc.SampleFiles(".ipynb")) > 0,
		"vision":    len(tools["cv_library"]) > 0,
	}
	return r, true
}
