package parser

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Colin-McGrath/generatepytest/internal/ignore"
	"github.com/bmatcuk/doublestar/v4"
)

// LanguageParser defines the interface each language must implement
type LanguageParser interface {
	// Language returns the language name (e.g., "python")
	Language() string

	// Extensions returns file extensions this parser handles
	Extensions() []string

	// Parse extracts declarations from source code. A source file that does
	// not parse cleanly yields a *SyntaxError.
	Parse(filename string, content []byte) (*FileSymbols, error)
}

// Registry holds all registered language parsers
type Registry struct {
	parsers   map[string]LanguageParser // language name -> parser
	extToLang map[string]string         // extension -> language name
}

// NewRegistry creates a new parser registry
func NewRegistry() *Registry {
	return &Registry{
		parsers:   make(map[string]LanguageParser),
		extToLang: make(map[string]string),
	}
}

// Register adds a language parser to the registry
func (r *Registry) Register(p LanguageParser) {
	lang := p.Language()
	r.parsers[lang] = p
	for _, ext := range p.Extensions() {
		r.extToLang[ext] = lang
	}
}

// GetParserForFile returns the appropriate parser for a file
func (r *Registry) GetParserForFile(filename string) (LanguageParser, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	lang, ok := r.extToLang[ext]
	if !ok {
		return nil, false
	}
	parser, ok := r.parsers[lang]
	return parser, ok
}

// SupportedExtensions returns all supported file extensions, sorted.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.extToLang))
	for ext := range r.extToLang {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ParseFile parses a single file and returns its declarations.
func (r *Registry) ParseFile(path string) (*FileSymbols, error) {
	parser, ok := r.GetParserForFile(path)
	if !ok {
		return nil, fmt.Errorf("unsupported file type %q (supported: %s)", filepath.Ext(path), strings.Join(r.SupportedExtensions(), ", "))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	symbols, err := parser.Parse(path, content)
	if err != nil {
		return nil, err
	}
	symbols.Path = path
	return symbols, nil
}

// Discover returns the supported source files under root matching pattern,
// relative to root and sorted. Ignored paths and files no parser handles are
// skipped.
func (r *Registry) Discover(root, pattern string, ignoreRules []string) ([]string, error) {
	pattern = filepath.ToSlash(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", doublestar.ErrBadPattern, pattern)
	}
	ignoreMatcher := ignore.NewMatcher(ignoreRules)
	files := make([]string, 0)

	err := fs.WalkDir(os.DirFS(root), ".", func(relPath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if relPath == "." {
			return nil
		}
		if d.IsDir() {
			if ignoreMatcher.ShouldIgnore(relPath, true) {
				return fs.SkipDir
			}
			return nil
		}
		if ignoreMatcher.ShouldIgnore(relPath, false) {
			return nil
		}
		if match, _ := doublestar.Match(pattern, relPath); !match {
			return nil
		}
		if _, ok := r.GetParserForFile(relPath); !ok {
			return nil
		}
		files = append(files, filepath.FromSlash(relPath))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}
