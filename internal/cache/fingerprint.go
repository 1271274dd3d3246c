package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// IndicatorFiles are the manifests and tool configs whose modification
// times make up the fingerprint.
var IndicatorFiles = []string{
	"package.json", "package-lock.json", "yarn.lock", "pnpm-lock.yaml",
	"requirements.txt", "pyproject.toml", "Pipfile", "setup.py",
	"go.mod", "go.sum",
	"pubspec.yaml", "pubspec.lock",
	"Podfile", "Podfile.lock",
	"composer.json", "composer.lock",
	"next.config.js", "next.config.ts", "next.config.mjs",
	"vite.config.js", "vite.config.ts",
}

// Key returns "<path hash>:<mtime hash>:<schema>" for root. With no
// indicator files present the mtime hash is derived from the current time,
// so such projects never hit.
func (c *Cache) Key(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return shortHash(abs) + ":" + c.mtimeHash(abs) + ":" + c.schema
}

func (c *Cache) mtimeHash(root string) string {
	var mtimes []int64
	for _, name := range IndicatorFiles {
		if info, err := os.Stat(filepath.Join(root, name)); err == nil {
			mtimes = append(mtimes, info.ModTime().Unix())
		}
	}
	if len(mtimes) == 0 {
		return shortHash(strconv.FormatInt(c.clock.Now().UnixNano(), 10))
	}

	sort.Slice(mtimes, func(i, j int) bool { return mtimes[i] < mtimes[j] })
	parts := make([]string, len(mtimes))
	for i, m := range mtimes {
		parts[i] = strconv.FormatInt(m, 10)
	}
	return shortHash(strings.Join(parts, ","))
}

func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}
