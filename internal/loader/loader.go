package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Colin-McGrath/generatepytest/internal/fileutil"
	"github.com/Colin-McGrath/generatepytest/internal/parser"
)

// PackageMarker is the file that makes a directory an importable package.
const PackageMarker = "__init__.py"

// ErrMissingPackageMarker is returned by an import attempt when the module
// directory has no package marker yet.
var ErrMissingPackageMarker = errors.New("package marker missing")

// ImportError is a load failure that creating a package marker cannot fix:
// a missing or unreadable file, or source that does not parse.
type ImportError struct {
	Module string
	Path   string
	Line   int // 1-based, set for syntax errors
	Err    error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s (%s): %v", e.Module, e.Path, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Options controls how a module is loaded.
type Options struct {
	// Registry resolves the parser for the target file.
	Registry *parser.Registry
	// CreateMarker writes an empty package marker when one is missing.
	// When false a missing marker is tolerated and nothing is written.
	CreateMarker bool
}

// Session owns one loaded module and the runtime mutations made to load it.
// Close reverts them.
type Session struct {
	Module        *Module
	Attempts      int  // import attempts, 2 when the marker had to be handled
	CreatedMarker bool // whether this load wrote the package marker

	rt     *Runtime
	dir    string
	name   string
	closed bool
}

// ModuleName derives the module name from a filename: everything before the
// first dot of its base name.
func ModuleName(filename string) string {
	base := filepath.Base(filename)
	if idx := strings.Index(base, "."); idx != -1 {
		return base[:idx]
	}
	return base
}

// Load makes dir/filename importable in rt and loads it. A missing package
// marker is handled once (created, or tolerated when opts.CreateMarker is
// false) and the import retried; any other failure is returned as is with the
// search path restored.
func Load(rt *Runtime, dir, filename string, opts Options) (*Session, error) {
	if opts.Registry == nil {
		return nil, errors.New("loader: no parser registry configured")
	}

	s := &Session{
		rt:   rt,
		dir:  dir,
		name: ModuleName(filename),
	}
	if existing, ok := rt.Lookup(s.name); ok {
		return nil, fmt.Errorf("module %s is already loaded from %s", s.name, existing.Path)
	}
	rt.appendPath(dir)

	mod, err := s.importModule(filename, opts.Registry, true)
	if errors.Is(err, ErrMissingPackageMarker) {
		requireMarker := false
		if opts.CreateMarker {
			if err := createMarker(dir); err != nil {
				rt.removePath(dir)
				return nil, err
			}
			s.CreatedMarker = true
			requireMarker = true
		}
		mod, err = s.importModule(filename, opts.Registry, requireMarker)
	}
	if err != nil {
		rt.removePath(dir)
		return nil, err
	}

	rt.register(mod)
	s.Module = mod
	return s, nil
}

func (s *Session) importModule(filename string, registry *parser.Registry, requireMarker bool) (*Module, error) {
	s.Attempts++
	path := filepath.Join(s.dir, filename)

	info, err := os.Stat(s.dir)
	if err != nil {
		return nil, &ImportError{Module: s.name, Path: path, Err: err}
	}
	if !info.IsDir() {
		return nil, &ImportError{Module: s.name, Path: path, Err: fmt.Errorf("%s is not a directory", s.dir)}
	}

	if requireMarker {
		if _, err := os.Stat(filepath.Join(s.dir, PackageMarker)); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%s: %w", s.dir, ErrMissingPackageMarker)
			}
			return nil, &ImportError{Module: s.name, Path: path, Err: err}
		}
	}

	symbols, err := registry.ParseFile(path)
	if err != nil {
		importErr := &ImportError{Module: s.name, Path: path, Err: err}
		var syntaxErr *parser.SyntaxError
		if errors.As(err, &syntaxErr) {
			importErr.Line = syntaxErr.Line
		}
		return nil, importErr
	}

	return &Module{
		Name:    s.name,
		Dir:     s.dir,
		Path:    path,
		Symbols: symbols,
	}, nil
}

func createMarker(dir string) error {
	path := filepath.Join(dir, PackageMarker)
	if err := fileutil.WriteIfMissing(path, nil, 0644); err != nil {
		return fmt.Errorf("failed to create package marker %s: %w", path, err)
	}
	return nil
}

// Close removes the module directory from the search path and evicts the
// module, plus anything registered under its qualified name, from the module
// cache. It is safe to call more than once.
func (s *Session) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	s.rt.removePath(s.dir)
	s.rt.evict(s.name)
	s.Module = nil
}
