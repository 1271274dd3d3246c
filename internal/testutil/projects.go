package testutil

import "testing"

// NextJSProject is a TypeScript App Router project with next.config.js.
func NextJSProject(t *testing.T) string {
	t.Helper()
	return NewProject(t, "nextjs-demo", Tree{
		"package.json": PackageJSON(t, "test-nextjs", map[string]string{
			"next":      "14.2.0",
			"react":     "18.2.0",
			"react-dom": "18.2.0",
		}),
		"next.config.js": "module.exports = {}\n",
		"tsconfig.json":  `{"compilerOptions": {"target": "ES2020", "jsx": "preserve"}}`,
		"app/layout.tsx": "export default function RootLayout({ children }) { return <html><body>{children}</body></html> }\n",
		"app/page.tsx":   "export default function Home() { return <main>Hello</main> }\n",
	})
}

// ReactProject is a Vite React project.
func ReactProject(t *testing.T) string {
	t.Helper()
	return NewProject(t, "react-demo", Tree{
		"package.json": JSON(t, map[string]interface{}{
			"name":            "test-react",
			"version":         "1.0.0",
			"dependencies":    map[string]string{"react": "^18.2.0", "react-dom": "^18.2.0"},
			"devDependencies": map[string]string{"vite": "^5.0.0", "@vitejs/plugin-react": "^4.2.0"},
		}),
		"vite.config.js": "import { defineConfig } from 'vite'\nimport react from '@vitejs/plugin-react'\n\nexport default defineConfig({ plugins: [react()] })\n",
		"src/main.jsx":   "import React from 'react'\nimport ReactDOM from 'react-dom/client'\n",
	})
}

// VueProject is a Vite Vue 3 project.
func VueProject(t *testing.T) string {
	t.Helper()
	return NewProject(t, "vue-demo", Tree{
		"package.json": JSON(t, map[string]interface{}{
			"name":            "test-vue",
			"version":         "1.0.0",
			"dependencies":    map[string]string{"vue": "^3.4.0"},
			"devDependencies": map[string]string{"vite": "^5.0.0", "@vitejs/plugin-vue": "^5.0.0"},
		}),
		"vite.config.js": "import vue from '@vitejs/plugin-vue'\nexport default { plugins: [vue()] }\n",
		"src/App.vue":    "<template><div>Hello</div></template>\n",
	})
}

// FastAPIProject has requirements.txt, pyproject.toml and an async main.py.
func FastAPIProject(t *testing.T) string {
	t.Helper()
	return NewProject(t, "fastapi-demo", Tree{
		"main.py":          "from fastapi import FastAPI\n\napp = FastAPI()\n\n@app.get(\"/\")\nasync def root():\n    return {\"message\": \"Hello World\"}\n",
		"requirements.txt": "fastapi==0.109.0\nuvicorn[standard]==0.27.0\npydantic==2.5.0",
		"pyproject.toml":   "[project]\nname = \"test-fastapi\"\nversion = \"0.1.0\"\ndependencies = [\n    \"fastapi>=0.109.0\",\n]\n",
	})
}

// DjangoProject has manage.py and a settings module.
func DjangoProject(t *testing.T) string {
	t.Helper()
	return NewProject(t, "django-demo", Tree{
		"requirements.txt":   "Django==5.0.2\npsycopg2-binary==2.9.9",
		"manage.py":          "#!/usr/bin/env python\nimport os\nimport sys\n\nif __name__ == '__main__':\n    os.environ.setdefault('DJANGO_SETTINGS_MODULE', 'config.settings')\n",
		"config/__init__.py": "",
		"config/settings.py": "SECRET_KEY = 'test'\nDEBUG = True\nINSTALLED_APPS = ['django.contrib.contenttypes']\n",
	})
}

// FlaskProject has a pinned Flask requirement and app.py.
func FlaskProject(t *testing.T) string {
	t.Helper()
	return NewProject(t, "flask-demo", Tree{
		"requirements.txt": "Flask==3.0.0\npython-dotenv==1.0.0",
		"app.py":           "from flask import Flask\n\napp = Flask(__name__)\n\n@app.route('/')\ndef hello():\n    return {'message': 'Hello World'}\n",
	})
}

// PythonMLProject has ML and CV requirements plus training/detection scripts.
func PythonMLProject(t *testing.T) string {
	t.Helper()
	return NewProject(t, "python-ml-demo", Tree{
		"requirements.txt": "numpy==1.26.0\npandas==2.1.0\nscikit-learn==1.3.0\ntorch==2.1.0\nopencv-python==4.8.0",
		"train.py":         "import torch\nimport torch.nn as nn\nfrom sklearn.model_selection import train_test_split\n",
		"detect.py":        "import cv2\nimport numpy as np\n\ndef detect_objects(image_path):\n    return cv2.imread(image_path)\n",
	})
}

// GoProject is a gin service.
func GoProject(t *testing.T) string {
	t.Helper()
	return NewProject(t, "go-demo", Tree{
		"go.mod":  "module github.com/example/test-go\n\ngo 1.21.5\n\nrequire (\n\tgithub.com/gin-gonic/gin v1.9.1\n)\n",
		"main.go": "package main\n\nimport (\n\t\"github.com/gin-gonic/gin\"\n)\n\nfunc main() {\n\tr := gin.Default()\n\tr.Run()\n}\n",
	})
}

// FlutterProject has pubspec.yaml, lib/main.dart and platform directories.
func FlutterProject(t *testing.T) string {
	t.Helper()
	return NewProject(t, "flutter-demo", Tree{
		"pubspec.yaml":  "name: test_flutter\nversion: 1.0.0+1\n\nenvironment:\n  sdk: '>=3.2.0 <4.0.0'\n\ndependencies:\n  flutter:\n    sdk: flutter\n  provider: ^6.1.0\n",
		"lib/main.dart": "import 'package:flutter/material.dart';\n\nvoid main() => runApp(MyApp());\n",
		"android/":      "",
		"ios/":          "",
	})
}

// IOSSwiftProject has an Xcode project and a SwiftUI view.
func IOSSwiftProject(t *testing.T) string {
	t.Helper()
	return NewProject(t, "ios-swift-demo", Tree{
		"ios-swift-demo.xcodeproj/project.pbxproj": "// !$*UTF8*$!\n{\n    archiveVersion = 1;\n    objectVersion = 56;\n}\n",
		"Sources/ContentView.swift":                "import SwiftUI\n\nstruct ContentView: View {\n    var body: some View {\n        Text(\"Hello, World!\")\n    }\n}\n",
	})
}

// PHPProject is a framework-free PHP app with front-controller routing.
func PHPProject(t *testing.T) string {
	t.Helper()
	return NewProject(t, "php-demo", Tree{
		"composer.json": `{"name": "test/php-app", "type": "project", "require": {"php": ">=8.1"}}`,
		"index.php":     "<?php\n$uri = $_SERVER['REQUEST_URI'];\n$method = $_SERVER['REQUEST_METHOD'];\nheader('Content-Type: application/json');\necho json_encode(['uri' => $uri]);\n",
		".htaccess":     "RewriteEngine On\nRewriteCond %{REQUEST_FILENAME} !-f\nRewriteRule ^(.*)$ index.php [QSA,L]\n",
	})
}
