package languages

import (
	"errors"
	"testing"

	"github.com/Colin-McGrath/generatepytest/internal/parser"
)

func TestPythonParseCollectsFunctionsAndClassMembers(t *testing.T) {
	p := NewPythonParser()
	file, err := p.Parse("sample.py", []byte(`import os

def add(a, b):
    return a + b

async def fetch(url) -> bytes:
    return b""

class Box:
    size = 3

    def __init__(self):
        self.items = []

    def open(self):
        def helper():
            pass
        return helper

    @staticmethod
    def build():
        return Box()

    @classmethod
    def create(cls):
        return cls()

    @property
    def empty(self):
        return not self.items

    shake = lambda self: None

    class Lid:
        def close(self):
            pass
`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	functions := file.Functions()
	if len(functions) != 2 || functions[0].Name != "add" || functions[1].Name != "fetch" {
		t.Fatalf("expected functions add, fetch; got %#v", functions)
	}

	classes := file.Classes()
	if len(classes) != 1 || classes[0].Name != "Box" {
		t.Fatalf("expected only top-level class Box, got %#v", classes)
	}

	members := file.Members(classIndex(t, file, "Box"))
	want := []struct {
		name     string
		callable bool
	}{
		{"__init__", true},
		{"open", true},
		{"build", true},
		{"create", false},
		{"empty", false},
		{"shake", true},
		{"Lid", true},
	}
	if len(members) != len(want) {
		t.Fatalf("expected %d members, got %#v", len(want), members)
	}
	for i, w := range want {
		if members[i].Name != w.name || members[i].Callable != w.callable {
			t.Fatalf("member %d: expected %s callable=%v, got %s callable=%v", i, w.name, w.callable, members[i].Name, members[i].Callable)
		}
	}

	for _, sym := range file.Symbols {
		if sym.Name == "helper" || sym.Name == "close" {
			t.Fatalf("expected nested bodies to be skipped, found %s", sym.Name)
		}
	}
}

func TestPythonParseFindsGuardedModuleDefinitions(t *testing.T) {
	p := NewPythonParser()
	file, err := p.Parse("compat.py", []byte(`try:
    import ujson as json
except ImportError:
    def loads(raw):
        return raw

if True:
    square = lambda x: x * x
else:
    class Fallback:
        pass
`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	names := make([]string, 0)
	for _, sym := range file.Symbols {
		names = append(names, sym.Kind.String()+":"+sym.Name)
	}
	want := []string{"func:loads", "func:square", "class:Fallback"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestPythonParseSkipsMainGuard(t *testing.T) {
	p := NewPythonParser()
	file, err := p.Parse("tool.py", []byte(`def f():
    pass

if __name__ == '__main__':
    def main():
        pass
    main()
else:
    def imported():
        pass

if "__main__" == __name__:
    class Runner:
        pass
`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	got := symbolNames(file.Symbols)
	want := []string{"func:f", "func:imported"}
	if !equalStrings(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPythonParseFindsGuardedClassMembers(t *testing.T) {
	p := NewPythonParser()
	file, err := p.Parse("compat.py", []byte(`import sys

class A:
    if sys.version_info >= (3, 8):
        def g(self):
            pass
    else:
        @classmethod
        def g(cls):
            pass

    try:
        def t(self):
            pass
    except Exception:
        pass

    def h(self):
        pass

def after():
    pass
`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	members := file.Members(classIndex(t, file, "A"))
	got := symbolNames(members)
	want := []string{"method:g", "method:g", "method:t", "method:h"}
	if !equalStrings(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if !members[0].Callable || members[1].Callable {
		t.Fatalf("expected guarded callability to be kept per branch, got %#v", members)
	}
}

func TestPythonParseImplicitClassMethods(t *testing.T) {
	p := NewPythonParser()
	file, err := p.Parse("base.py", []byte(`class Base:
    def __init_subclass__(cls, **kwargs):
        pass

    def __class_getitem__(cls, item):
        return cls

    def __call__(self):
        pass
`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	for _, member := range file.Members(classIndex(t, file, "Base")) {
		want := member.Name == "__call__"
		if member.Callable != want {
			t.Fatalf("%s: expected callable=%v", member.Name, want)
		}
	}
}

func TestPythonParseReportsSyntaxError(t *testing.T) {
	p := NewPythonParser()
	_, err := p.Parse("broken.py", []byte(`def ok():
    return 1

def broken(:
    pass
`))
	if err == nil {
		t.Fatalf("expected syntax error")
	}

	var syntaxErr *parser.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected *parser.SyntaxError, got %T", err)
	}
	if syntaxErr.Line < 4 {
		t.Fatalf("expected error at or after line 4, got %d", syntaxErr.Line)
	}
}

func TestPythonParseNormalizesIdentifiers(t *testing.T) {
	p := NewPythonParser()
	file, err := p.Parse("wide.py", []byte("def \uff46\uff4f\uff4f():\n    pass\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	functions := file.Functions()
	if len(functions) != 1 || functions[0].Name != "foo" {
		t.Fatalf("expected fullwidth name to normalize to foo, got %+v", functions)
	}
}

func TestDefaultRegistryHandlesPythonExtensions(t *testing.T) {
	r := NewDefaultRegistry()
	for _, name := range []string{"a.py", "b.PY", "c.pyw"} {
		if _, ok := r.GetParserForFile(name); !ok {
			t.Fatalf("expected parser for %s", name)
		}
	}
	if _, ok := r.GetParserForFile("main.go"); ok {
		t.Fatalf("did not expect parser for main.go")
	}
}

func classIndex(t *testing.T, file *parser.FileSymbols, name string) int {
	t.Helper()
	for _, binding := range file.Namespace() {
		if binding.Name == name && binding.Kind == parser.SymbolClass {
			return binding.Index
		}
	}
	t.Fatalf("class %s not found in %#v", name, file.Symbols)
	return -1
}

func symbolNames(symbols []parser.Symbol) []string {
	names := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		names = append(names, sym.Kind.String()+":"+sym.Name)
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
