package stack

import (
	"fmt"
	"path"
	"strings"

	"adaptive/internal/scan"
	"adaptive/internal/signal"
)

var goWeights = struct {
	Module, WebFramework float64
}{0.8, 0.1}

var goFrameworks = []struct {
	module    string
	framework string
	label     string
}{
	{"github.com/gin-gonic/gin", "go-gin", "Gin framework"},
	{"github.com/labstack/echo", "go-echo", "Echo framework"},
	{"github.com/gofiber/fiber", "go-fiber", "Fiber framework"},
}

func detectGo(sc *scan.Scanner) (*Result, bool) {
	if !sc.IsFile("go.mod") {
		return nil, false
	}
	acc := signal.NewAccumulator()
	acc.Add("go.mod exists", goWeights.Module)

	mod, err := sc.LoadGoMod()
	if err != nil {
		sc.Warn(err)
		r := newResult("go", "go", acc)
		r.RecommendedSubagents = goSubagents()
		return r, true
	}

	framework := "go"
	for _, fw := range goFrameworks {
		if mod.Uses(fw.module) {
			framework = fw.framework
			acc.Add(fw.label, goWeights.WebFramework)
			break
		}
	}

	r := newResult(framework, "go", acc)
	r.Version = cleanVersion(mod.Go)
	r.Tools = collectTools(goToolRules, mod.Uses)
	r.RecommendedSubagents = goSubagents()
	r.ProjectStructure = map[string]bool{
		"cmd_layout": sc.IsDir("cmd"),
		"internal":   sc.IsDir("internal"),
	}
	return r, true
}

func goSubagents() []string {
	return []string{"go-tester", "go-reviewer", "concurrency-checker"}
}

var flutterWeights = struct {
	Pubspec, SDK, Entry float64
}{0.8, 0.1, 0.1}

func detectFlutter(sc *scan.Scanner) (*Result, bool) {
	if !sc.IsFile("pubspec.yaml") {
		return nil, false
	}
	acc := signal.NewAccumulator()
	acc.Add("pubspec.yaml exists", flutterWeights.Pubspec)

	ps, err := sc.LoadPubspec()
	if err != nil {
		sc.Warn(err)
		ps = &scan.Pubspec{}
	}
	if ps.HasDep("flutter") {
		acc.Add("flutter SDK dependency", flutterWeights.SDK)
	}
	if sc.IsFile("lib/main.dart") {
		acc.Add("lib/main.dart entry point", flutterWeights.Entry)
	}

	r := newResult("flutter", "dart", acc)
	r.Version = cleanVersion(ps.Environment["sdk"])
	r.Tools = collectTools(flutterToolRules, ps.HasDep)
	r.RecommendedSubagents = []string{"flutter-tester", "widget-reviewer"}
	r.ProjectStructure = map[string]bool{
		"android": sc.IsDir("android"),
		"ios":     sc.IsDir("ios"),
		"web":     sc.IsDir("web"),
	}
	return r, true
}

var iosWeights = struct {
	XcodeProject, SwiftPackage, SwiftUI, UIKit, CocoaPods float64
}{0.4, 0.3, 0.3, 0.2, 0.1}

func detectIOSSwift(sc *scan.Scanner) (*Result, bool) {
	var xcodeproj string
	for _, dir := range sc.SubDirs(".") {
		if strings.HasSuffix(dir, ".xcodeproj") && sc.IsFile(dir+"/project.pbxproj") {
			xcodeproj = dir
			break
		}
	}
	hasPackage := sc.IsFile("Package.swift")
	if xcodeproj == "" && !hasPackage {
		return nil, false
	}

	acc := signal.NewAccumulator()
	tools := map[string][]string{}
	if xcodeproj != "" {
		acc.Add(fmt.Sprintf("Xcode project (%s)", xcodeproj), iosWeights.XcodeProject)
	}
	if hasPackage {
		acc.Add("Package.swift exists", iosWeights.SwiftPackage)
		addTool(tools, "dependency_manager", "spm")
	}

	files := sc.SampleFiles(".swift")
	swiftUI := false
	if f, ok := sc.FirstContaining(files, "import SwiftUI"); ok {
		swiftUI = true
		acc.Add(fmt.Sprintf("SwiftUI import in %s", path.Base(f)), iosWeights.SwiftUI)
		addTool(tools, "ui", "swiftui")
	} else if f, ok := sc.FirstContaining(files, "import UIKit"); ok {
		acc.Add(fmt.Sprintf("UIKit import in %s", path.Base(f)), iosWeights.UIKit)
		addTool(tools, "ui", "uikit")
	}
	if sc.IsFile("Podfile") {
		acc.Add("Podfile exists", iosWeights.CocoaPods)
		addTool(tools, "dependency_manager", "cocoapods")
	}

	r := newResult("ios-swift", "swift", acc)
	r.Tools = tools
	r.RecommendedSubagents = []string{"swift-developer", "ios-tester", "swift-reviewer"}
	if swiftUI {
		r.RecommendedSubagents = append(r.RecommendedSubagents, "swiftui-specialist")
	}
	r.ProjectStructure = map[string]bool{
		"xcode_project": xcodeproj != "",
		"swift_package": hasPackage,
		"swiftui":       swiftUI,
	}
	return r, true
}
