package stack

import (
	"strings"

	"adaptive/internal/scan"
	"adaptive/internal/signal"
)

var phpWeights = struct {
	Composer, Runtime, FrontController, PlainIndex, Rewrite float64
}{0.1, 0.1, 0.2, 0.1, 0.2}

// phpFrameworkPackages disqualify the vanilla detector. Entries ending in
// "/" match a whole vendor.
var phpFrameworkPackages = []string{
	"laravel/framework",
	"laravel/lumen-framework",
	"symfony/",
	"slim/slim",
	"cakephp/cakephp",
	"yiisoft/yii2",
	"codeigniter4/framework",
	"laminas/",
}

// detectVanillaPHP matches framework-free PHP web applications. Any known
// framework dependency, or a Laravel artisan script, disqualifies the
// project outright.
func detectVanillaPHP(sc *scan.Scanner) (*Result, bool) {
	hasComposer := sc.IsFile("composer.json")
	hasIndex := sc.IsFile("index.php")
	if !hasComposer && !hasIndex {
		return nil, false
	}
	if sc.IsFile("artisan") {
		return nil, false
	}

	acc := signal.NewAccumulator()
	composer := &scan.Composer{}
	if hasComposer {
		c, err := sc.LoadComposer()
		if err != nil {
			sc.Warn(err)
		} else {
			composer = c
		}
		if usesPHPFramework(composer) {
			return nil, false
		}
		acc.Add("composer.json exists", phpWeights.Composer)
		if _, ok := composer.Require["php"]; ok {
			acc.Add("PHP runtime requirement", phpWeights.Runtime)
		}
	}

	if hasIndex {
		if sc.Contains("index.php", "$_SERVER['REQUEST_URI']") || sc.Contains("index.php", `$_SERVER["REQUEST_URI"]`) {
			acc.Add("index.php front-controller routing", phpWeights.FrontController)
		} else {
			acc.Add("index.php exists", phpWeights.PlainIndex)
		}
	}
	rewrite := sc.Contains(".htaccess", "RewriteEngine")
	if rewrite {
		acc.Add(".htaccess rewrite rules", phpWeights.Rewrite)
	}

	r := newResult("vanilla-php-web", "php", acc)
	r.Version = cleanVersion(composer.Require["php"])
	r.Tools = collectTools(phpToolRules, composer.HasDep)
	r.RecommendedSubagents = []string{"php-developer", "playwright-tester", "php-reviewer"}
	r.ProjectStructure = map[string]bool{
		"front_controller": hasIndex,
		"url_rewriting":    rewrite,
		"public_dir":       sc.IsDir("public"),
	}
	return r, true
}

func usesPHPFramework(c *scan.Composer) bool {
	for _, deps := range []map[string]string{c.Require, c.RequireDev} {
		for name := range deps {
			for _, fw := range phpFrameworkPackages {
				if name == fw || (strings.HasSuffix(fw, "/") && strings.HasPrefix(name, fw)) {
					return true
				}
			}
		}
	}
	return false
}
