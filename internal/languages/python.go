package languages

import (
	"context"
	"strings"

	"github.com/Colin-McGrath/generatepytest/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"golang.org/x/text/unicode/norm"
)

// PythonParser implements parsing for Python source files
type PythonParser struct {
	parser *sitter.Parser
}

// NewPythonParser creates a new Python parser
func NewPythonParser() *PythonParser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &PythonParser{parser: p}
}

func (p *PythonParser) Language() string {
	return "python"
}

func (p *PythonParser) Extensions() []string {
	return []string{".py", ".pyw"}
}

// Parse collects module-level functions and classes plus the members bound in
// each class body, in source order.
func (p *PythonParser) Parse(filename string, content []byte) (*parser.FileSymbols, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, firstSyntaxError(root, content)
	}

	result := &parser.FileSymbols{
		Path:     filename,
		Language: "python",
		Symbols:  make([]parser.Symbol, 0),
	}
	p.walkBody(root, content, "", result)
	return result, nil
}

// walkBody collects the definitions bound in a module body (className empty)
// or a class body. Definitions nested in compound statements bind in the
// enclosing namespace and are collected too, except under an
// `if __name__ == "__main__":` guard, which does not run on import.
func (p *PythonParser) walkBody(node *sitter.Node, content []byte, className string, result *parser.FileSymbols) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "function_definition", "decorated_definition", "class_definition":
			def, decorators := unwrapDecorated(child, content)
			if def == nil {
				continue
			}
			if className != "" {
				if sym := extractMember(def, decorators, content, className); sym != nil {
					result.Symbols = append(result.Symbols, *sym)
				}
				continue
			}
			if def.Type() == "class_definition" {
				p.extractClass(def, content, result)
				continue
			}
			if sym := extractFunction(def, content); sym != nil {
				result.Symbols = append(result.Symbols, *sym)
			}

		case "expression_statement":
			if sym := extractLambda(child, content, className); sym != nil {
				result.Symbols = append(result.Symbols, *sym)
			}

		case "if_statement":
			if !isMainGuard(child, content) {
				p.walkBody(child, content, className, result)
				continue
			}
			// elif/else branches of a main guard do run on import.
			for j := 0; j < int(child.NamedChildCount()); j++ {
				alt := child.NamedChild(j)
				if alt.Type() == "elif_clause" || alt.Type() == "else_clause" {
					p.walkBody(alt, content, className, result)
				}
			}

		case "elif_clause", "else_clause",
			"try_statement", "except_clause", "except_group_clause", "finally_clause",
			"with_statement", "block":
			p.walkBody(child, content, className, result)
		}
	}
}

// extractClass records the class followed by the members of its body, so a
// class's members always directly follow it in FileSymbols.Symbols.
func (p *PythonParser) extractClass(node *sitter.Node, content []byte, result *parser.FileSymbols) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	className := identifier(nameNode, content)

	result.Symbols = append(result.Symbols, parser.Symbol{
		Name:     className,
		Kind:     parser.SymbolClass,
		Callable: true,
	})

	if bodyNode := node.ChildByFieldName("body"); bodyNode != nil {
		p.walkBody(bodyNode, content, className, result)
	}
}

func extractFunction(node *sitter.Node, content []byte) *parser.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	return &parser.Symbol{
		Name:     identifier(nameNode, content),
		Kind:     parser.SymbolFunction,
		Callable: true,
	}
}

// extractMember records a def or nested class of a class body. Nested classes
// are callable members; their bodies are not walked.
func extractMember(def *sitter.Node, decorators []string, content []byte, className string) *parser.Symbol {
	nameNode := def.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := identifier(nameNode, content)

	kind := parser.SymbolMethod
	callable := isCallableDescriptor(decorators)
	if def.Type() == "class_definition" {
		kind = parser.SymbolClass
	} else if implicitClassMethods[name] {
		callable = false
	}

	return &parser.Symbol{
		Name:     name,
		Kind:     kind,
		Owner:    className,
		Callable: callable,
	}
}

// implicitClassMethods are wrapped in classmethod by type.__new__ even
// without a decorator.
var implicitClassMethods = map[string]bool{
	"__init_subclass__": true,
	"__class_getitem__": true,
}

// extractLambda recognises `name = lambda ...: ...`, which binds a plain
// function object under name.
func extractLambda(stmt *sitter.Node, content []byte, className string) *parser.Symbol {
	if stmt.NamedChildCount() != 1 {
		return nil
	}
	assign := stmt.NamedChild(0)
	if assign.Type() != "assignment" {
		return nil
	}
	left := assign.ChildByFieldName("left")
	right := assign.ChildByFieldName("right")
	if left == nil || right == nil || left.Type() != "identifier" || right.Type() != "lambda" {
		return nil
	}

	kind := parser.SymbolFunction
	if className != "" {
		kind = parser.SymbolMethod
	}
	return &parser.Symbol{
		Name:     identifier(left, content),
		Kind:     kind,
		Owner:    className,
		Callable: true,
	}
}

// isMainGuard matches `if __name__ == "__main__":` in either operand order
// and quote style.
func isMainGuard(node *sitter.Node, content []byte) bool {
	cond := node.ChildByFieldName("condition")
	if cond == nil || cond.Type() != "comparison_operator" {
		return false
	}
	text := strings.Join(strings.Fields(cond.Content(content)), "")
	text = strings.ReplaceAll(text, "'", `"`)
	return text == `__name__=="__main__"` || text == `"__main__"==__name__`
}

// unwrapDecorated returns the definition wrapped by a decorated_definition
// together with the decorator expressions (without the leading "@").
func unwrapDecorated(node *sitter.Node, content []byte) (*sitter.Node, []string) {
	if node.Type() != "decorated_definition" {
		return node, nil
	}

	decorators := make([]string, 0)
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "decorator" {
			decorators = append(decorators, strings.TrimSpace(strings.TrimPrefix(child.Content(content), "@")))
		}
	}
	return node.ChildByFieldName("definition"), decorators
}

// isCallableDescriptor reports whether the object a decorator chain leaves in
// the class dictionary is invocable. classmethod and property objects are not;
// staticmethod objects and plain wrapped functions are.
func isCallableDescriptor(decorators []string) bool {
	if len(decorators) == 0 {
		return true
	}
	// The outermost decorator produces the stored object.
	outer := decorators[0]
	if idx := strings.Index(outer, "("); idx != -1 {
		outer = outer[:idx]
	}
	switch {
	case outer == "classmethod", outer == "property", outer == "functools.cached_property", outer == "cached_property":
		return false
	case strings.HasSuffix(outer, ".setter"), strings.HasSuffix(outer, ".getter"), strings.HasSuffix(outer, ".deleter"):
		return false
	}
	return true
}

// identifier returns the name Python binds for an identifier node. Python
// applies NFKC to identifiers while parsing, so "ﬁnd" defines "find".
func identifier(node *sitter.Node, content []byte) string {
	return norm.NFKC.String(node.Content(content))
}

func firstSyntaxError(node *sitter.Node, content []byte) *parser.SyntaxError {
	if found := findErrorNode(node); found != nil {
		text := strings.TrimSpace(found.Content(content))
		if idx := strings.Index(text, "\n"); idx != -1 {
			text = text[:idx]
		}
		if len(text) > 40 {
			text = text[:40]
		}
		return &parser.SyntaxError{
			Line:   int(found.StartPoint().Row) + 1,
			Column: int(found.StartPoint().Column) + 1,
			Text:   text,
		}
	}
	return &parser.SyntaxError{Line: int(node.StartPoint().Row) + 1}
}

func findErrorNode(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Type() == "ERROR" || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := findErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}
