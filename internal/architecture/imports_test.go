package architecture_test

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/mod/modfile"
)

// layerRule lists the internal packages a layer must never import.
type layerRule struct {
	dir    string
	forbid []string
}

var layerRules = []layerRule{
	{dir: "platform", forbid: []string{"modules", "http", "services", "data", "app", "observability", "realtime"}},
	{dir: "domain", forbid: []string{"modules", "data", "services", "http", "app"}},
	{dir: "modules", forbid: []string{"http", "services", "data", "app"}},
	{dir: "data", forbid: []string{"http", "services", "app"}},
	{dir: "http", forbid: []string{"data", "app"}},
	{dir: "realtime", forbid: []string{"http", "services", "data", "app"}},
	{dir: "observability", forbid: []string{"http", "services", "data", "app"}},
}

func TestImportBoundaries(t *testing.T) {
	root := moduleRoot(t)
	modulePath := modulePathOf(t, filepath.Join(root, "go.mod"))
	internalPrefix := modulePath + "/internal/"

	var violations []string
	fset := token.NewFileSet()
	err := filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") {
			return err
		}
		rel, err := filepath.Rel(filepath.Join(root, "internal"), path)
		if err != nil {
			return err
		}
		rule, ok := ruleFor(filepath.ToSlash(rel))
		if !ok {
			return nil
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil || !strings.HasPrefix(imp, internalPrefix) {
				continue
			}
			if bad := forbiddenTarget(rule, strings.TrimPrefix(imp, internalPrefix)); bad != "" {
				violations = append(violations, fmt.Sprintf("internal/%s imports %s (%s must not depend on %s)", rel, imp, rule.dir, bad))
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk internal/: %v", err)
	}
	if len(violations) > 0 {
		sort.Strings(violations)
		t.Fatalf("import boundary violations:\n- %s", strings.Join(violations, "\n- "))
	}
}

func TestRuleLookup(t *testing.T) {
	cases := []struct {
		rel    string
		layer  string
		target string
		bad    bool
	}{
		{rel: "platform/logger/logger.go", layer: "platform", target: "services", bad: true},
		{rel: "http/handlers/task.go", layer: "http", target: "services", bad: false},
		{rel: "http/handlers/task.go", layer: "http", target: "data/repos", bad: true},
		{rel: "data/aggregates/base.go", layer: "data", target: "domain/aggregates", bad: false},
		{rel: "services/task.go", layer: "", target: "data/repos", bad: false},
	}
	for _, tc := range cases {
		rule, ok := ruleFor(tc.rel)
		if tc.layer == "" {
			if ok {
				t.Fatalf("%s: want no rule got %s", tc.rel, rule.dir)
			}
			continue
		}
		if !ok || rule.dir != tc.layer {
			t.Fatalf("%s: want=%s got=%+v", tc.rel, tc.layer, rule)
		}
		if got := forbiddenTarget(rule, tc.target) != ""; got != tc.bad {
			t.Fatalf("%s -> %s: want bad=%v got=%v", tc.rel, tc.target, tc.bad, got)
		}
	}
}

func ruleFor(rel string) (layerRule, bool) {
	top, _, _ := strings.Cut(rel, "/")
	for _, r := range layerRules {
		if r.dir == top {
			return r, true
		}
	}
	return layerRule{}, false
}

// forbiddenTarget returns the forbidden package pkg falls under, if any.
func forbiddenTarget(rule layerRule, pkg string) string {
	for _, f := range rule.forbid {
		if pkg == f || strings.HasPrefix(pkg, f+"/") {
			return f
		}
	}
	return ""
}

func moduleRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("go.mod not found above test directory")
		}
		dir = parent
	}
}

func modulePathOf(t *testing.T, goMod string) string {
	t.Helper()
	raw, err := os.ReadFile(goMod)
	if err != nil {
		t.Fatalf("read go.mod: %v", err)
	}
	mp := modfile.ModulePath(raw)
	if mp == "" {
		t.Fatalf("module path not found in %s", goMod)
	}
	return mp
}
