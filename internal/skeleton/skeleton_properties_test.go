package skeleton

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Colin-McGrath/generatepytest/internal/reflector"
	"pgregory.net/rapid"
)

func inventoryGenerator() *rapid.Generator[reflector.Inventory] {
	ident := rapid.StringMatching(`[A-Za-z_][A-Za-z0-9_]{0,12}`)
	return rapid.Custom(func(rt *rapid.T) reflector.Inventory {
		functions := rapid.SliceOfDistinct(ident, func(s string) string { return s }).Draw(rt, "functions")
		classNames := rapid.SliceOfDistinct(ident, func(s string) string { return s }).Draw(rt, "classes")

		classes := make([]reflector.Class, 0, len(classNames))
		for _, name := range classNames {
			methods := rapid.SliceOfDistinct(ident, func(s string) string { return s }).Draw(rt, "methods_"+name)
			classes = append(classes, reflector.Class{Name: name, Methods: methods})
		}
		return reflector.Inventory{
			Module:    rapid.StringMatching(`[a-z_][a-z0-9_]{0,12}`).Draw(rt, "module"),
			Functions: functions,
			Classes:   classes,
		}
	})
}

// TestRender_FailingAssertionCount_Property proves every function stub, fixture,
// fixture teardown and method stub carries exactly one failing assertion.
func TestRender_FailingAssertionCount_Property(t *testing.T) {
	emitter := NewEmitter(Options{})

	rapid.Check(t, func(rt *rapid.T) {
		inv := inventoryGenerator().Draw(rt, "inventory")

		out, err := emitter.Render(inv)
		if err != nil {
			rt.Fatalf("Render failed: %v", err)
		}

		want := len(inv.Functions) + 2*len(inv.Classes) + inv.MethodCount()
		if got := strings.Count(string(out), "assert 0\n"); got != want {
			rt.Fatalf("expected %d failing assertions, got %d", want, got)
		}
		if got := strings.Count(string(out), "assert 1\n"); got != 1 {
			rt.Fatalf("expected exactly one trivial stub, got %d", got)
		}
	})
}

// TestRender_StubNames_Property proves each discovered name maps to its
// deterministic stub name.
func TestRender_StubNames_Property(t *testing.T) {
	emitter := NewEmitter(Options{})

	rapid.Check(t, func(rt *rapid.T) {
		inv := inventoryGenerator().Draw(rt, "inventory")

		out, err := emitter.Render(inv)
		if err != nil {
			rt.Fatalf("Render failed: %v", err)
		}
		text := string(out)

		for _, fn := range inv.Functions {
			if !strings.Contains(text, "\ndef test_"+fn+"():\n") {
				rt.Fatalf("missing stub for function %s", fn)
			}
		}
		for _, cls := range inv.Classes {
			if !strings.Contains(text, "\ndef setup_"+cls.Name+"(request):\n") {
				rt.Fatalf("missing fixture for class %s", cls.Name)
			}
			for _, method := range cls.Methods {
				if !strings.Contains(text, "\ndef test_"+cls.Name+"_"+method+"(setup_"+cls.Name+"):\n") {
					rt.Fatalf("missing stub for %s.%s", cls.Name, method)
				}
			}
		}
	})
}

// TestRender_Deterministic_Property proves rendering is byte-identical across runs.
func TestRender_Deterministic_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		inv := inventoryGenerator().Draw(rt, "inventory")

		first, err := NewEmitter(Options{}).Render(inv)
		if err != nil {
			rt.Fatalf("Render failed: %v", err)
		}
		second, err := NewEmitter(Options{}).Render(inv)
		if err != nil {
			rt.Fatalf("second Render failed: %v", err)
		}
		if !bytes.Equal(first, second) {
			rt.Fatalf("expected identical output across runs")
		}
	})
}
