// Package reflector turns a loaded module into the inventory of names a test
// skeleton is generated from.
package reflector

import (
	"sort"

	"github.com/Colin-McGrath/generatepytest/internal/loader"
	"github.com/Colin-McGrath/generatepytest/internal/parser"
)

// Class maps a class name to its callable members in class-body order.
type Class struct {
	Name    string
	Methods []string
}

// Inventory lists the testable names of one module.
type Inventory struct {
	Module    string
	Functions []string // sorted by name
	Classes   []Class  // sorted by name
}

// Inspect enumerates the module's top-level functions and classes and, for
// each class, the members of its own body that are invocable. Special methods
// are kept; inherited members are not looked up.
func Inspect(mod *loader.Module) Inventory {
	inv := Inventory{
		Module:    mod.Name,
		Functions: make([]string, 0),
		Classes:   make([]Class, 0),
	}
	if mod.Symbols == nil {
		return inv
	}

	// Each module-level name refers to its last binding, so a redefined class
	// contributes only its final body and a class shadowing a function of the
	// same name leaves just the class.
	for _, binding := range mod.Symbols.Namespace() {
		switch binding.Kind {
		case parser.SymbolFunction:
			inv.Functions = append(inv.Functions, binding.Name)
		case parser.SymbolClass:
			inv.Classes = append(inv.Classes, Class{
				Name:    binding.Name,
				Methods: callableMembers(mod.Symbols.Members(binding.Index)),
			})
		}
	}
	sort.Strings(inv.Functions)
	sort.SliceStable(inv.Classes, func(i, j int) bool {
		return inv.Classes[i].Name < inv.Classes[j].Name
	})

	return inv
}

// callableMembers mirrors a class dictionary: a name keeps the position of its
// first binding while the last binding decides whether it is callable (a
// property setter rebinds the getter's name, for example).
func callableMembers(members []parser.Symbol) []string {
	order := make([]string, 0, len(members))
	callable := make(map[string]bool, len(members))
	for _, member := range members {
		if _, seen := callable[member.Name]; !seen {
			order = append(order, member.Name)
		}
		callable[member.Name] = member.Callable
	}

	methods := make([]string, 0, len(order))
	for _, name := range order {
		if callable[name] {
			methods = append(methods, name)
		}
	}
	return methods
}

// Empty reports whether the inventory has nothing to generate stubs for.
func (inv Inventory) Empty() bool {
	return len(inv.Functions) == 0 && len(inv.Classes) == 0
}

// MethodCount returns the number of class members across all classes.
func (inv Inventory) MethodCount() int {
	count := 0
	for _, cls := range inv.Classes {
		count += len(cls.Methods)
	}
	return count
}
