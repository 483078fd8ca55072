// Package stdlib is WFL's native-function registry: every builtin
// action available to WFL programs, organized into modules. The
// Registry/Category/FunctionInfo shape is grounded on
// CWBudde-go-dws/internal/interp/builtins/registry.go, adapted from
// DWScript's math/string/date builtins to WFL's broader module set
// (spec.md §6's Core/Math/Text/List/Time/Filesystem/Crypto/JSON/Net/
// Subprocess/Database modules) and carrying this repo's third-party
// domain stack (see SPEC_FULL.md §11).
package stdlib

import (
	"sort"
	"sync"

	"github.com/wflang/wfl/internal/runtime"
	"github.com/wflang/wfl/internal/types"
)

// Category groups builtins for the `wfl builtins` CLI listing.
type Category string

const (
	CategoryCore       Category = "core"
	CategoryMath       Category = "math"
	CategoryRandom     Category = "random"
	CategoryText       Category = "text"
	CategoryList       Category = "list"
	CategoryTime       Category = "time"
	CategoryFilesystem Category = "filesystem"
	CategoryCrypto     Category = "crypto"
	CategoryJSON       Category = "json"
	CategoryNet        Category = "net"
	CategorySubprocess Category = "subprocess"
	CategoryDatabase   Category = "database"
)

type FunctionInfo struct {
	Name        string
	Function    runtime.NativeFunction
	Category    Category
	Description string
	MinArg      int
	MaxArg      int // -1 = variadic
}

// Registry is the single source of truth for both the interpreter's
// name->implementation lookup and internal/types' arity table — a
// function registered here is automatically arity-checked by the type
// checker, per spec.md §4.5.
type Registry struct {
	mu         sync.RWMutex
	functions  map[string]*FunctionInfo
	categories map[Category][]string
	methods    map[runtime.Kind]map[string]runtime.NativeFunction
	typeReg    *types.Registry

	maxHashInputBytes int
}

// defaultMaxHashInputBytes is spec.md §6.5's "configurable size limit
// (default 100 MB)" on wflhash/wflmac inputs.
const defaultMaxHashInputBytes = 100 * 1024 * 1024

func NewRegistry(typeReg *types.Registry) *Registry {
	return &Registry{
		functions:         make(map[string]*FunctionInfo),
		categories:        make(map[Category][]string),
		methods:           make(map[runtime.Kind]map[string]runtime.NativeFunction),
		typeReg:           typeReg,
		maxHashInputBytes: defaultMaxHashInputBytes,
	}
}

// SetMaxHashInputBytes overrides the Crypto module's input size limit
// (spec.md §6.5), e.g. from an embedder's own configuration.
func (r *Registry) SetMaxHashInputBytes(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maxHashInputBytes = n
}

func (r *Registry) maxHashInput() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.maxHashInputBytes
}

func (r *Registry) Register(info FunctionInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.functions[info.Name] = &info
	r.categories[info.Category] = append(r.categories[info.Category], info.Name)
	if r.typeReg != nil {
		r.typeReg.RegisterArity(types.ArityEntry{Name: info.Name, MinArg: info.MinArg, MaxArg: info.MaxArg})
	}
}

func (r *Registry) RegisterMethod(kind runtime.Kind, name string, fn runtime.NativeFunction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.methods[kind] == nil {
		r.methods[kind] = make(map[string]runtime.NativeFunction)
	}
	r.methods[kind][name] = fn
}

func (r *Registry) Lookup(name string) (runtime.NativeFunction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.functions[name]
	if !ok {
		return nil, false
	}
	return info.Function, true
}

func (r *Registry) LookupMethod(kind runtime.Kind, name string) (runtime.NativeFunction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.methods[kind]
	if !ok {
		return nil, false
	}
	fn, ok := m[name]
	return fn, ok
}

// SyncSafe reports whether name's category is made up of pure,
// in-memory computations that never block, so the interpreter's
// expression classifier (internal/interp's classify, spec.md §196) can
// treat a call to it as sync-eligible and skip the async runtime's
// goroutine spawn. This is deliberately an allow-list, not a deny-list:
// Time's "sleep seconds" and similar blocking calls must keep going
// through Runtime.Await so `wait for` still observes context
// cancellation, even though "time" sounds as harmless as "math".
func (r *Registry) SyncSafe(name string) bool {
	r.mu.RLock()
	info, ok := r.functions[name]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	switch info.Category {
	case CategoryCore, CategoryMath, CategoryRandom, CategoryText, CategoryList, CategoryJSON:
		return true
	default:
		return false
	}
}

// Names returns every registered builtin name in a category, sorted,
// for the `wfl builtins` CLI command.
func (r *Registry) Names(cat Category) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := append([]string{}, r.categories[cat]...)
	sort.Strings(names)
	return names
}

// BindEnv installs every registered top-level function as a binding in
// env, so WFL code calls them like any user-defined action.
func (r *Registry) BindEnv(env *runtime.Environment) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, info := range r.functions {
		env.Define(name, runtime.Value{Kind: runtime.KindNativeFunction, Native: info.Function})
	}
}

// NewStandardRegistry builds a Registry with every module from
// DESIGN.md's domain stack wired in.
func NewStandardRegistry(typeReg *types.Registry) *Registry {
	r := NewRegistry(typeReg)
	registerCore(r)
	registerMath(r)
	registerRandomModule(r)
	registerText(r)
	registerList(r)
	registerTimeModule(r)
	registerFilesystem(r)
	registerCrypto(r)
	registerJSON(r)
	registerNet(r)
	registerSubprocess(r)
	registerDatabase(r)
	return r
}
