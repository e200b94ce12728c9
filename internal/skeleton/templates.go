package skeleton

import (
	"bytes"
	"fmt"
	"text/template"
)

const headerTemplate = `import pytest
import {{.Module}} as {{.Alias}}

# Call this function if your function is under 5 lines and has a 0%
# chance of breaking
def i_am_sure_theres_no_issue():
{{.Indent}}assert 1

#--------------------#
# TESTING FUNCTIONS #
#--------------------#
`

const functionTemplate = `def test_{{.Name}}():
{{.Indent}}#output = {{.Alias}}.{{.Name}}(*args_here*)
{{.Indent}}#expected = *expected_output_here*
{{.Indent}}#assert output == expected
{{.Indent}}assert 0

`

const classesBannerTemplate = `#------------------#
# TESTING CLASSES #
#------------------#
`

const fixtureTemplate = `""" TESTING {{.Class}} CLASS """
@pytest.fixture(scope="module")
def setup_{{.Class}}(request):
{{.Indent}}#test_class = {{.Alias}}.{{.Class}}(*args_here*)
{{.Indent}}#return test_class #allows modules being tested to use one central class
{{.Indent}}def teardown():
{{.Indent}}{{.Indent}}#place teardown stuff here
{{.Indent}}{{.Indent}}assert 0
{{.Indent}}request.addfinalizer(teardown)
{{.Indent}}assert 0

`

const methodTemplate = `def test_{{.Class}}_{{.Name}}(setup_{{.Class}}):
{{.Indent}}#output = setup_{{.Class}}.{{.Name}}(*args_here*)
{{.Indent}}#expected = *expected_output_here*
{{.Indent}}#assert output == expected
{{.Indent}}assert 0

`

// headerData feeds the file header.
type headerData struct {
	Module string
	Alias  string
	Indent string
}

// stubData feeds the function, fixture and method templates. Class is empty
// for top-level functions.
type stubData struct {
	Alias  string
	Indent string
	Class  string
	Name   string
}

// TemplateRegistry holds the parsed templates of a generated test file.
type TemplateRegistry struct {
	headerTmpl        *template.Template
	functionTmpl      *template.Template
	classesBannerTmpl *template.Template
	fixtureTmpl       *template.Template
	methodTmpl        *template.Template
}

// NewTemplateRegistry parses all templates. They are constants, so parsing
// cannot fail at runtime.
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		headerTmpl:        template.Must(template.New("header").Parse(headerTemplate)),
		functionTmpl:      template.Must(template.New("function").Parse(functionTemplate)),
		classesBannerTmpl: template.Must(template.New("classesBanner").Parse(classesBannerTemplate)),
		fixtureTmpl:       template.Must(template.New("fixture").Parse(fixtureTemplate)),
		methodTmpl:        template.Must(template.New("method").Parse(methodTemplate)),
	}
}

func (r *TemplateRegistry) writeHeader(buf *bytes.Buffer, data headerData) error {
	return execute(r.headerTmpl, buf, data)
}

func (r *TemplateRegistry) writeFunction(buf *bytes.Buffer, data stubData) error {
	return execute(r.functionTmpl, buf, data)
}

func (r *TemplateRegistry) writeClassesBanner(buf *bytes.Buffer) error {
	return execute(r.classesBannerTmpl, buf, nil)
}

func (r *TemplateRegistry) writeFixture(buf *bytes.Buffer, data stubData) error {
	return execute(r.fixtureTmpl, buf, data)
}

func (r *TemplateRegistry) writeMethod(buf *bytes.Buffer, data stubData) error {
	return execute(r.methodTmpl, buf, data)
}

func execute(tmpl *template.Template, buf *bytes.Buffer, data any) error {
	if err := tmpl.Execute(buf, data); err != nil {
		return fmt.Errorf("failed to execute %s template: %w", tmpl.Name(), err)
	}
	return nil
}
