// Package skeleton renders and writes pytest skeleton files.
package skeleton

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/Colin-McGrath/generatepytest/internal/fileutil"
	"github.com/Colin-McGrath/generatepytest/internal/reflector"
)

const (
	// DefaultAlias is the name the module under test is imported as.
	DefaultAlias = "totest"
	// DefaultIndent is one level of indentation in generated code.
	DefaultIndent = "\t"
	// TestFilePrefix is prepended to the target filename.
	TestFilePrefix = "test_"
)

// Options customises the rendered text. Zero values fall back to the defaults.
type Options struct {
	Alias  string
	Indent string
}

// Emitter renders inventories with a shared template registry.
type Emitter struct {
	templates *TemplateRegistry
	opts      Options
}

// NewEmitter returns an emitter using opts.
func NewEmitter(opts Options) *Emitter {
	if opts.Alias == "" {
		opts.Alias = DefaultAlias
	}
	if opts.Indent == "" {
		opts.Indent = DefaultIndent
	}
	return &Emitter{templates: NewTemplateRegistry(), opts: opts}
}

// Render produces the test file for inv: the header and trivial stub, one
// failing stub per function, then per class a fixture followed by one failing
// stub per method.
func (e *Emitter) Render(inv reflector.Inventory) ([]byte, error) {
	var buf bytes.Buffer

	if err := e.templates.writeHeader(&buf, headerData{
		Module: inv.Module,
		Alias:  e.opts.Alias,
		Indent: e.opts.Indent,
	}); err != nil {
		return nil, err
	}

	for _, fn := range inv.Functions {
		if err := e.templates.writeFunction(&buf, e.stub("", fn)); err != nil {
			return nil, err
		}
	}

	if err := e.templates.writeClassesBanner(&buf); err != nil {
		return nil, err
	}
	for _, cls := range inv.Classes {
		if err := e.templates.writeFixture(&buf, e.stub(cls.Name, "")); err != nil {
			return nil, err
		}
		for _, method := range cls.Methods {
			if err := e.templates.writeMethod(&buf, e.stub(cls.Name, method)); err != nil {
				return nil, err
			}
		}
	}

	return buf.Bytes(), nil
}

func (e *Emitter) stub(class, name string) stubData {
	return stubData{
		Alias:  e.opts.Alias,
		Indent: e.opts.Indent,
		Class:  class,
		Name:   name,
	}
}

// TestFileName returns the name of the generated file for filename.
func TestFileName(filename string) string {
	return TestFilePrefix + filepath.Base(filename)
}

// TestFilePath returns where the test file for dir/filename is written.
func TestFilePath(dir, filename string) string {
	return filepath.Join(dir, TestFileName(filename))
}

// Write replaces the test file for dir/filename with content. Prior edits in
// the file are not merged. It reports whether the bytes on disk changed.
func Write(dir, filename string, content []byte) (string, bool, error) {
	path := TestFilePath(dir, filename)
	changed, err := fileutil.WriteIfChangedTracked(path, content)
	if err != nil {
		return path, false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, changed, nil
}
