package stack

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptive/internal/testutil"
)

func TestDetect_Frameworks(t *testing.T) {
	tests := []struct {
		name          string
		project       func(*testing.T) string
		framework     string
		language      string
		minConfidence float64
		version       string
	}{
		{"nextjs", testutil.NextJSProject, "nextjs", "typescript", 0.95, "14.2.0"},
		{"react", testutil.ReactProject, "vite-react", "javascript", 0.75, "18.2.0"},
		{"vue", testutil.VueProject, "vue", "javascript", 0.70, "3.4.0"},
		{"fastapi", testutil.FastAPIProject, "fastapi", "python", 0.75, "0.109.0"},
		{"django", testutil.DjangoProject, "django", "python", 0.75, "5.0.2"},
		{"flask", testutil.FlaskProject, "flask", "python", 0.65, "3.0.0"},
		{"python-ml", testutil.PythonMLProject, "python-ml", "python", 0.85, ""},
		{"go", testutil.GoProject, "go-gin", "go", 0.80, "1.21.5"},
		{"flutter", testutil.FlutterProject, "flutter", "dart", 0.75, "3.2.0"},
		{"ios-swift", testutil.IOSSwiftProject, "ios-swift", "swift", 0.70, ""},
		{"vanilla-php-web", testutil.PHPProject, "vanilla-php-web", "php", 0.50, "8.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Detect(tt.project(t))
			require.NotNil(t, r, "%s should be detected", tt.name)

			assert.Equal(t, tt.framework, r.Framework)
			assert.Equal(t, tt.language, r.Language)
			assert.GreaterOrEqual(t, r.Confidence, tt.minConfidence)
			assert.Greater(t, r.Confidence, Floor)
			assert.LessOrEqual(t, r.Confidence, 1.0)
			assert.NotEmpty(t, r.RecommendedSubagents)
			assert.NotNil(t, r.Tools)
			assert.NotNil(t, r.ProjectStructure)

			if tt.version == "" {
				assert.Nil(t, r.Version)
			} else {
				require.NotNil(t, r.Version)
				assert.Equal(t, tt.version, *r.Version)
			}
		})
	}
}

func TestDetect_NextJSDetails(t *testing.T) {
	r := Detect(testutil.NextJSProject(t))
	require.NotNil(t, r)

	assert.Equal(t, 1.0, r.Confidence)
	assert.Equal(t, []string{
		"package.json exists: +0.1",
		"'next' dependency found: +0.4",
		"next.config.* exists: +0.3",
		"app/ directory (App Router): +0.2",
		"TypeScript detected",
	}, r.Indicators)
	assert.Equal(t, []string{"nextjs-tester", "component-reviewer", "type-checker", "app-router-specialist"}, r.RecommendedSubagents)
	assert.Equal(t, map[string]bool{"app_router": true, "pages_router": false, "typescript": true}, r.ProjectStructure)
}

func TestDetect_NextJSTools(t *testing.T) {
	root := testutil.NewProject(t, "next-tools", testutil.Tree{
		"package.json": testutil.JSON(t, map[string]interface{}{
			"name":            "x",
			"dependencies":    map[string]string{"next": "^14.1.0", "zustand": "4", "@reduxjs/toolkit": "2", "swr": "2"},
			"devDependencies": map[string]string{"vitest": "1", "@testing-library/react": "14", "tailwindcss": "3"},
		}),
		"pages/index.js": "export default () => null\n",
	})

	r := Detect(root)
	require.NotNil(t, r)
	assert.Equal(t, "nextjs", r.Framework)
	assert.Equal(t, "javascript", r.Language)
	assert.Equal(t, 0.7, r.Confidence)
	require.NotNil(t, r.Version)
	assert.Equal(t, "14.1.0", *r.Version)
	assert.Equal(t, map[string][]string{
		"testing": {"vitest", "testing-library"},
		"styling": {"tailwindcss"},
		"state":   {"zustand", "redux"},
		"api":     {"swr"},
	}, r.Tools)
	assert.Equal(t, []string{"nextjs-tester", "component-reviewer"}, r.RecommendedSubagents)
	assert.True(t, r.ProjectStructure["pages_router"])
}

func TestDetect_MixedMarkersPreferNextJS(t *testing.T) {
	root := testutil.NewProject(t, "mixed", testutil.Tree{
		"package.json":   testutil.PackageJSON(t, "mixed", map[string]string{"next": "14.0.0", "react": "18.2.0"}),
		"next.config.js": "module.exports = {}\n",
	})

	r := Detect(root)
	require.NotNil(t, r)
	assert.Equal(t, "nextjs", r.Framework)
	assert.InDelta(t, 0.8, r.Confidence, 1e-9)
}

func TestDetect_GoDetails(t *testing.T) {
	r := Detect(testutil.GoProject(t))
	require.NotNil(t, r)
	assert.InDelta(t, 0.9, r.Confidence, 1e-9)
	assert.Equal(t, []string{"go.mod exists: +0.8", "Gin framework: +0.1"}, r.Indicators)
	assert.Equal(t, []string{"gin"}, r.Tools["web_framework"])
	assert.Equal(t, []string{"go-tester", "go-reviewer", "concurrency-checker"}, r.RecommendedSubagents)
}

func TestDetect_FastAPIDetails(t *testing.T) {
	r := Detect(testutil.FastAPIProject(t))
	require.NotNil(t, r)
	assert.InDelta(t, 0.9, r.Confidence, 1e-9)
	assert.Contains(t, r.Indicators, "'fastapi' dependency: +0.6")
	assert.Contains(t, r.Indicators, "FastAPI import in main.py: +0.3")
	assert.Contains(t, r.Indicators, "1 async handlers")
	assert.Equal(t, []string{"uvicorn"}, r.Tools["server"])
	assert.Equal(t, []string{"pydantic"}, r.Tools["validation"])
}

func TestDetect_PythonMLTools(t *testing.T) {
	r := Detect(testutil.PythonMLProject(t))
	require.NotNil(t, r)
	assert.Equal(t, 1.0, r.Confidence)
	assert.Equal(t, []string{"pytorch"}, r.Tools["ml_framework"])
	assert.Equal(t, []string{"numpy", "pandas", "scikit-learn"}, r.Tools["data_science"])
	assert.Equal(t, []string{"opencv"}, r.Tools["cv_library"])
	assert.Contains(t, r.RecommendedSubagents, "ml-model-reviewer")
	assert.Contains(t, r.RecommendedSubagents, "cv-specialist")
}

func TestDetect_FlutterTools(t *testing.T) {
	r := Detect(testutil.FlutterProject(t))
	require.NotNil(t, r)
	assert.Equal(t, 1.0, r.Confidence)
	assert.Equal(t, []string{"provider"}, r.Tools["state"])
	assert.True(t, r.ProjectStructure["android"])
	assert.True(t, r.ProjectStructure["ios"])
	assert.False(t, r.ProjectStructure["web"])
}

func TestDetect_IOSSwiftDetails(t *testing.T) {
	r := Detect(testutil.IOSSwiftProject(t))
	require.NotNil(t, r)
	assert.InDelta(t, 0.7, r.Confidence, 1e-9)
	assert.Equal(t, []string{"swiftui"}, r.Tools["ui"])
	assert.Contains(t, r.RecommendedSubagents, "swift-developer")
	assert.Contains(t, r.RecommendedSubagents, "swiftui-specialist")
}

func TestDetect_VanillaPHPDisqualifiedByFramework(t *testing.T) {
	for _, dep := range []string{"laravel/framework", "symfony/http-kernel", "slim/slim"} {
		t.Run(dep, func(t *testing.T) {
			root := testutil.NewProject(t, "php-framework", testutil.Tree{
				"composer.json": testutil.JSON(t, map[string]interface{}{
					"name":    "test/app",
					"require": map[string]string{"php": ">=8.1", dep: "*"},
				}),
				"index.php": "<?php\n$uri = $_SERVER['REQUEST_URI'];\n",
				".htaccess": "RewriteEngine On\n",
			})

			_, ok := detectVanillaPHP(newScanner(root))
			assert.False(t, ok)
			assert.Nil(t, Detect(root))
		})
	}
}

func TestDetect_VanillaPHPWithoutComposerStaysBelowFloor(t *testing.T) {
	root := testutil.NewProject(t, "php-bare", testutil.Tree{
		"index.php": "<?php\n$uri = $_SERVER['REQUEST_URI'];\n",
		".htaccess": "RewriteEngine On\n",
	})

	r, ok := detectVanillaPHP(newScanner(root))
	require.True(t, ok)
	assert.Less(t, r.Confidence, 0.6)
	assert.Nil(t, Detect(root))
}

func TestDetect_FirstMatchRespectsFloor(t *testing.T) {
	// fastapi import alone scores 0.3 and abstains; flask then wins
	root := testutil.NewProject(t, "mixed-python", testutil.Tree{
		"requirements.txt": "flask==3.0.0\n",
		"app.py":           "import fastapi\n",
	})

	r := Detect(root)
	require.NotNil(t, r)
	assert.Equal(t, "flask", r.Framework)
}

func TestDetect_NoResult(t *testing.T) {
	t.Run("empty directory", func(t *testing.T) {
		assert.Nil(t, Detect(t.TempDir()))
	})
	t.Run("nonexistent path", func(t *testing.T) {
		assert.Nil(t, Detect(filepath.Join(t.TempDir(), "does-not-exist")))
	})
	t.Run("file path", func(t *testing.T) {
		root := testutil.NewProject(t, "file", testutil.Tree{"package.json": "{}"})
		assert.Nil(t, Detect(filepath.Join(root, "package.json")))
	})
	t.Run("malformed package.json", func(t *testing.T) {
		root := testutil.NewProject(t, "bad", testutil.Tree{"package.json": "{ not json"})
		assert.Nil(t, Detect(root))
	})
}

func TestCleanVersion(t *testing.T) {
	tests := map[string]string{
		"^14.2.0":        "14.2.0",
		"~1.2.3":         "1.2.3",
		"==5.0.2":        "5.0.2",
		">=3.2.0 <4.0.0": "3.2.0",
		">=0.100,<1.0":   "0.100",
		"1.21.5":         "1.21.5",
		"latest":         "latest",
		"14.x":           "14.x",
		"~14.x":          "14.x",
		"":               "",
		"*":              "",
	}
	for in, want := range tests {
		got := cleanVersion(in)
		if want == "" {
			assert.Nil(t, got, in)
			continue
		}
		require.NotNil(t, got, in)
		assert.Equal(t, want, *got, in)
	}
}

func TestResultVersionOr(t *testing.T) {
	v := "1.0.0"
	assert.Equal(t, "1.0.0", (&Result{Version: &v}).VersionOr("latest"))
	assert.Equal(t, "latest", (&Result{}).VersionOr("latest"))
}
