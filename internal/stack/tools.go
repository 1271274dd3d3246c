package stack

// toolRule maps dependency names to a tool within a category.
type toolRule struct {
	category string
	tool     string
	deps     []string
}

// collectTools applies rules in order. Categories with no match are omitted
// and each tool is listed once.
func collectTools(rules []toolRule, has func(string) bool) map[string][]string {
	tools := map[string][]string{}
	for _, r := range rules {
		for _, dep := range r.deps {
			if has(dep) {
				addTool(tools, r.category, r.tool)
				break
			}
		}
	}
	return tools
}

func addTool(tools map[string][]string, category, tool string) {
	for _, t := range tools[category] {
		if t == tool {
			return
		}
	}
	tools[category] = append(tools[category], tool)
}

var jsToolRules = []toolRule{
	{"testing", "vitest", []string{"vitest"}},
	{"testing", "jest", []string{"jest"}},
	{"testing", "testing-library", []string{"@testing-library/react"}},
	{"styling", "tailwindcss", []string{"tailwindcss"}},
	{"styling", "styled-components", []string{"styled-components"}},
	{"styling", "emotion", []string{"@emotion/react"}},
	{"state", "zustand", []string{"zustand"}},
	{"state", "redux", []string{"redux", "@reduxjs/toolkit"}},
	{"api", "axios", []string{"axios"}},
	{"api", "swr", []string{"swr"}},
	{"api", "react-query", []string{"@tanstack/react-query"}},
}

var vueToolRules = []toolRule{
	{"testing", "vitest", []string{"vitest"}},
	{"testing", "vue-test-utils", []string{"@vue/test-utils"}},
	{"state", "pinia", []string{"pinia"}},
	{"state", "vuex", []string{"vuex"}},
	{"routing", "vue-router", []string{"vue-router"}},
	{"styling", "tailwindcss", []string{"tailwindcss"}},
	{"api", "axios", []string{"axios"}},
}

var pythonToolRules = []toolRule{
	{"testing", "pytest", []string{"pytest"}},
	{"orm", "sqlalchemy", []string{"sqlalchemy"}},
	{"orm", "sqlmodel", []string{"sqlmodel"}},
	{"orm", "tortoise", []string{"tortoise-orm"}},
	{"validation", "pydantic", []string{"pydantic"}},
	{"server", "uvicorn", []string{"uvicorn"}},
	{"server", "gunicorn", []string{"gunicorn"}},
	{"api", "drf", []string{"djangorestframework"}},
	{"tasks", "celery", []string{"celery"}},
}

var mlToolRules = []toolRule{
	{"ml_framework", "pytorch", []string{"torch"}},
	{"ml_framework", "tensorflow", []string{"tensorflow"}},
	{"ml_framework", "keras", []string{"keras"}},
	{"ml_framework", "jax", []string{"jax"}},
	{"data_science", "numpy", []string{"numpy"}},
	{"data_science", "pandas", []string{"pandas"}},
	{"data_science", "scikit-learn", []string{"scikit-learn"}},
	{"cv_library", "opencv", []string{"opencv-python", "opencv-contrib-python", "opencv-python-headless"}},
	{"cv_library", "pillow", []string{"pillow"}},
	{"cv_library", "scikit-image", []string{"scikit-image"}},
}

var goToolRules = []toolRule{
	{"web_framework", "gin", []string{"github.com/gin-gonic/gin"}},
	{"web_framework", "echo", []string{"github.com/labstack/echo"}},
	{"web_framework", "fiber", []string{"github.com/gofiber/fiber"}},
	{"web_framework", "chi", []string{"github.com/go-chi/chi"}},
	{"orm", "gorm", []string{"gorm.io/gorm"}},
	{"orm", "ent", []string{"entgo.io/ent"}},
	{"orm", "sqlx", []string{"github.com/jmoiron/sqlx"}},
	{"testing", "testify", []string{"github.com/stretchr/testify"}},
}

var flutterToolRules = []toolRule{
	{"state", "provider", []string{"provider"}},
	{"state", "riverpod", []string{"flutter_riverpod", "riverpod"}},
	{"state", "bloc", []string{"flutter_bloc", "bloc"}},
	{"http", "dio", []string{"dio"}},
	{"http", "http", []string{"http"}},
	{"routing", "go_router", []string{"go_router"}},
	{"storage", "sqflite", []string{"sqflite"}},
	{"storage", "hive", []string{"hive"}},
	{"storage", "shared_preferences", []string{"shared_preferences"}},
}

var phpToolRules = []toolRule{
	{"testing", "phpunit", []string{"phpunit/phpunit"}},
	{"templating", "twig", []string{"twig/twig"}},
	{"database", "doctrine-dbal", []string{"doctrine/dbal"}},
}
