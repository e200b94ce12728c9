package parser

import "fmt"

// SymbolKind represents the type of declaration found in a source file
type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolMethod
	SymbolClass
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "func"
	case SymbolMethod:
		return "method"
	case SymbolClass:
		return "class"
	default:
		return "unknown"
	}
}

// Symbol represents a declaration discovered in a source file.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Owner    string // enclosing class for methods
	Callable bool   // false for class members that are not invocable (classmethod, property)
}

// Binding is what a module-level name refers to once the module has run.
// Index locates the binding symbol in FileSymbols.Symbols.
type Binding struct {
	Symbol
	Index int
}

// FileSymbols holds all declarations extracted from a single file.
// Symbols are kept in source order.
type FileSymbols struct {
	Path     string
	Language string
	Symbols  []Symbol
}

// Functions returns the top-level functions in source order.
func (f *FileSymbols) Functions() []Symbol {
	out := make([]Symbol, 0)
	for _, sym := range f.Symbols {
		if sym.Kind == SymbolFunction {
			out = append(out, sym)
		}
	}
	return out
}

// Classes returns the top-level classes in source order.
func (f *FileSymbols) Classes() []Symbol {
	out := make([]Symbol, 0)
	for _, sym := range f.Symbols {
		if sym.Kind == SymbolClass && sym.Owner == "" {
			out = append(out, sym)
		}
	}
	return out
}

// Namespace resolves the module-level names the way assignment does: a name
// keeps the position of its first binding and refers to its last one, so a
// redefined class or a class shadowing a function of the same name leaves a
// single binding.
func (f *FileSymbols) Namespace() []Binding {
	order := make([]string, 0)
	last := make(map[string]Binding)
	for i, sym := range f.Symbols {
		if sym.Owner != "" || sym.Kind == SymbolMethod {
			continue
		}
		if _, seen := last[sym.Name]; !seen {
			order = append(order, sym.Name)
		}
		last[sym.Name] = Binding{Symbol: sym, Index: i}
	}

	out := make([]Binding, 0, len(order))
	for _, name := range order {
		out = append(out, last[name])
	}
	return out
}

// Members returns the symbols declared in the body of the class recorded at
// Symbols[index]. Parsers append a class's members directly after it, so the
// body is the run of following symbols owned by that class.
func (f *FileSymbols) Members(index int) []Symbol {
	out := make([]Symbol, 0)
	if index < 0 || index >= len(f.Symbols) || f.Symbols[index].Kind != SymbolClass {
		return out
	}
	owner := f.Symbols[index].Name
	for _, sym := range f.Symbols[index+1:] {
		if sym.Owner != owner {
			break
		}
		out = append(out, sym)
	}
	return out
}

// SyntaxError describes the first malformed region reported by a parser.
type SyntaxError struct {
	Line   int
	Column int
	Text   string
}

func (e *SyntaxError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("syntax error at line %d", e.Line)
	}
	return fmt.Sprintf("syntax error at line %d near %q", e.Line, e.Text)
}

// ParseIssue captures non-fatal warnings/errors encountered while processing files.
type ParseIssue struct {
	File     string `json:"file"`
	Language string `json:"language,omitempty"`
	Severity string `json:"severity"` // warning | error
	Message  string `json:"message"`
}
