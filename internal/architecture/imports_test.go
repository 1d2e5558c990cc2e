package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// layerRule bans imports for every file under dir. Internal paths in banned
// are relative to the module path; anything else is matched as-is.
type layerRule struct {
	dir    string
	banned []string
}

var layerRules = []layerRule{
	{dir: "internal/domain/", banned: []string{
		"internal/data/", "internal/modules/", "internal/services", "internal/http/", "internal/platform/",
		"gorm.io/gorm", "github.com/gin-gonic/gin",
	}},
	{dir: "internal/platform/", banned: []string{
		"internal/domain", "internal/data/", "internal/modules/", "internal/services", "internal/http/", "internal/jobs", "internal/app",
	}},
	{dir: "internal/modules/", banned: []string{
		"internal/data/", "internal/services", "internal/http/", "internal/jobs", "internal/app",
		"gorm.io/gorm", "github.com/gin-gonic/gin",
	}},
	{dir: "internal/data/", banned: []string{
		"internal/services", "internal/http/", "internal/app", "github.com/gin-gonic/gin",
	}},
	{dir: "internal/services/", banned: []string{
		"internal/http/", "internal/app", "github.com/gin-gonic/gin",
	}},
	{dir: "internal/jobs/", banned: []string{
		"internal/http/", "internal/app",
	}},
}

func TestImportBoundaries(t *testing.T) {
	root, modulePath := moduleRoot(t)

	var violations []string
	walkGoFiles(t, filepath.Join(root, "internal"), func(path string, imports []string) {
		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)
		for _, rule := range layerRules {
			if !strings.HasPrefix(rel, rule.dir) {
				continue
			}
			for _, imp := range imports {
				if bad, ok := bannedBy(modulePath, rule, imp); ok {
					violations = append(violations, fmt.Sprintf("- %s imports %q (banned for %s: %q)", rel, imp, rule.dir, bad))
				}
			}
		}
	})
	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n%s", strings.Join(violations, "\n"))
	}
}

// The engine must stay runnable against the in-memory store, so nothing it
// imports may pull in a database driver.
func TestCourseworkEngineHasNoDriverImports(t *testing.T) {
	root, _ := moduleRoot(t)
	drivers := []string{"gorm.io/driver/", "github.com/jackc/pgx", "github.com/redis/go-redis"}

	walkGoFiles(t, filepath.Join(root, "internal", "modules", "coursework"), func(path string, imports []string) {
		for _, imp := range imports {
			for _, d := range drivers {
				if strings.HasPrefix(imp, d) {
					t.Errorf("%s imports driver %q", path, imp)
				}
			}
		}
	})
}

func bannedBy(modulePath string, rule layerRule, imp string) (string, bool) {
	for _, b := range rule.banned {
		full := b
		if strings.HasPrefix(b, "internal/") {
			full = modulePath + "/" + b
		}
		if strings.HasPrefix(imp, full) {
			return b, true
		}
	}
	return "", false
}

func walkGoFiles(t *testing.T, dir string, visit func(path string, imports []string)) {
	t.Helper()
	fset := token.NewFileSet()
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		imports := make([]string, 0, len(f.Imports))
		for _, is := range f.Imports {
			if imp, err := strconv.Unquote(is.Path.Value); err == nil {
				imports = append(imports, imp)
			}
		}
		visit(path, imports)
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", dir, err)
	}
}

func moduleRoot(t *testing.T) (root, modulePath string) {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("go.mod not found above working directory")
		}
		dir = parent
	}
	mp, err := readModulePath(filepath.Join(dir, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}
	return dir, mp
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if mp, ok := strings.CutPrefix(line, "module "); ok {
			if mp = strings.TrimSpace(mp); mp != "" {
				return mp, nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module path not found in %s", goModPath)
}
