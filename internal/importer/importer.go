// Package importer resolves `load "path"` statements at parse time,
// inlining the loaded module's statements in place. Cycle detection and
// the process-wide cache mirror CWBudde-go-dws/internal/interp/unit_loader.go's
// LoadUnit/trackLoadedUnit/IsUnitLoaded pattern, adapted from DWScript's
// compiled-unit model to WFL's simpler textual-inline semantics.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wflang/wfl/pkg/ast"
	"github.com/wflang/wfl/pkg/token"
)

// ParseFunc is the parse step run on each loaded file (declared as a
// function type here to avoid a parser -> importer -> parser import
// cycle: the caller supplies its own parse function).
type ParseFunc func(filename, source string) (*ast.Program, []ParseError)

type ParseError struct {
	Message string
	Pos     token.Position
}

// Importer resolves and caches loaded modules for a single run.
type Importer struct {
	mu      sync.Mutex
	cache   map[string]*ast.Program
	parse   ParseFunc
	baseDir string
}

func New(baseDir string, parse ParseFunc) *Importer {
	return &Importer{cache: make(map[string]*ast.Program), parse: parse, baseDir: baseDir}
}

// ResolveRoot inlines prog's own `load` statements without re-reading
// filename from disk: the caller (pkg/wfl.Parse) has already parsed
// filename's source itself, including sources like `-e` snippets that
// were never written to disk under that name.
func (imp *Importer) ResolveRoot(filename string, prog *ast.Program) (*ast.Program, error) {
	full := filename
	if !filepath.IsAbs(full) {
		full = filepath.Join(imp.baseDir, full)
	}
	full = filepath.Clean(full)
	return imp.inlineLoads(prog, []string{full}, filepath.Dir(full))
}

// Resolve reads, parses, and caches path (resolved relative to baseDir,
// then to the process working directory if no such file exists there),
// detecting import cycles via the stack of in-progress paths. A path
// already resolved during this run yields an empty program, so a file
// reached through several loads is inlined only once.
func (imp *Importer) Resolve(path string, stack []string) (*ast.Program, error) {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(imp.baseDir, full)
	}
	full = filepath.Clean(full)
	if !filepath.IsAbs(path) {
		if _, err := os.Stat(full); err != nil {
			if cwdPath, aerr := filepath.Abs(path); aerr == nil {
				if _, serr := os.Stat(cwdPath); serr == nil {
					full = cwdPath
				}
			}
		}
	}

	for _, s := range stack {
		if s == full {
			return nil, fmt.Errorf("import cycle detected: %s", strings.Join(append(stack, full), " -> "))
		}
	}

	imp.mu.Lock()
	if _, ok := imp.cache[full]; ok {
		imp.mu.Unlock()
		return &ast.Program{}, nil
	}
	imp.mu.Unlock()

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("cannot load %q: %w", path, err)
	}

	prog, perrs := imp.parse(full, string(data))
	if len(perrs) > 0 {
		return nil, fmt.Errorf("%d parse error(s) in %s", len(perrs), full)
	}

	nextStack := append(append([]string{}, stack...), full)
	resolved, err := imp.inlineLoads(prog, nextStack, filepath.Dir(full))
	if err != nil {
		return nil, err
	}

	imp.mu.Lock()
	imp.cache[full] = resolved
	imp.mu.Unlock()
	return resolved, nil
}

// inlineLoads walks prog's top-level statements, replacing each
// LoadStatement with the resolved module's statements in place.
func (imp *Importer) inlineLoads(prog *ast.Program, stack []string, dir string) (*ast.Program, error) {
	out := &ast.Program{}
	savedBase := imp.baseDir
	imp.baseDir = dir
	defer func() { imp.baseDir = savedBase }()

	for _, stmt := range prog.Statements {
		load, ok := stmt.(*ast.LoadStatement)
		if !ok {
			out.Statements = append(out.Statements, stmt)
			continue
		}
		loaded, err := imp.Resolve(load.Path, stack)
		if err != nil {
			return nil, err
		}
		out.Statements = append(out.Statements, loaded.Statements...)
	}
	return out, nil
}

// Loaded returns the canonical paths of every module resolved so far,
// in no particular order.
func (imp *Importer) Loaded() []string {
	imp.mu.Lock()
	defer imp.mu.Unlock()
	out := make([]string, 0, len(imp.cache))
	for k := range imp.cache {
		out = append(out, k)
	}
	return out
}
