package loader

import (
	"sort"
	"strings"

	"github.com/Colin-McGrath/generatepytest/internal/parser"
)

// Module is a parsed target module registered in a Runtime.
type Module struct {
	Name    string // filename without extension
	Dir     string // search-path entry the module was resolved from
	Path    string // source file
	Symbols *parser.FileSymbols
}

// Runtime holds the module search path and the cache of loaded modules for
// one generator run. Batch runs share a Runtime across files, so every load
// must be paired with Session.Close. A Runtime is not safe for concurrent use.
type Runtime struct {
	searchPath []string
	modules    map[string]*Module
}

// NewRuntime returns an empty runtime.
func NewRuntime() *Runtime {
	return &Runtime{
		searchPath: make([]string, 0),
		modules:    make(map[string]*Module),
	}
}

// SearchPath returns a copy of the current search path.
func (rt *Runtime) SearchPath() []string {
	out := make([]string, len(rt.searchPath))
	copy(out, rt.searchPath)
	return out
}

// Lookup returns the cached module registered under name.
func (rt *Runtime) Lookup(name string) (*Module, bool) {
	mod, ok := rt.modules[name]
	return mod, ok
}

// Modules returns the names of all cached modules, sorted.
func (rt *Runtime) Modules() []string {
	names := make([]string, 0, len(rt.modules))
	for name := range rt.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (rt *Runtime) appendPath(dir string) {
	rt.searchPath = append(rt.searchPath, dir)
}

// removePath drops the first occurrence of dir.
func (rt *Runtime) removePath(dir string) bool {
	for i, entry := range rt.searchPath {
		if entry == dir {
			rt.searchPath = append(rt.searchPath[:i], rt.searchPath[i+1:]...)
			return true
		}
	}
	return false
}

func (rt *Runtime) register(mod *Module) {
	rt.modules[mod.Name] = mod
}

// evict removes name and every entry qualified under it ("name.Class").
func (rt *Runtime) evict(name string) int {
	removed := 0
	prefix := name + "."
	for key := range rt.modules {
		if key == name || strings.HasPrefix(key, prefix) {
			delete(rt.modules, key)
			removed++
		}
	}
	return removed
}
