package skeleton

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Colin-McGrath/generatepytest/internal/reflector"
	"github.com/onsi/gomega"
)

const sampleSkeleton = "import pytest\n" +
	"import sample as totest\n" +
	"\n" +
	"# Call this function if your function is under 5 lines and has a 0%\n" +
	"# chance of breaking\n" +
	"def i_am_sure_theres_no_issue():\n" +
	"\tassert 1\n" +
	"\n" +
	"#--------------------#\n" +
	"# TESTING FUNCTIONS #\n" +
	"#--------------------#\n" +
	"def test_add():\n" +
	"\t#output = totest.add(*args_here*)\n" +
	"\t#expected = *expected_output_here*\n" +
	"\t#assert output == expected\n" +
	"\tassert 0\n" +
	"\n" +
	"#------------------#\n" +
	"# TESTING CLASSES #\n" +
	"#------------------#\n" +
	"\"\"\" TESTING Box CLASS \"\"\"\n" +
	"@pytest.fixture(scope=\"module\")\n" +
	"def setup_Box(request):\n" +
	"\t#test_class = totest.Box(*args_here*)\n" +
	"\t#return test_class #allows modules being tested to use one central class\n" +
	"\tdef teardown():\n" +
	"\t\t#place teardown stuff here\n" +
	"\t\tassert 0\n" +
	"\trequest.addfinalizer(teardown)\n" +
	"\tassert 0\n" +
	"\n" +
	"def test_Box_open(setup_Box):\n" +
	"\t#output = setup_Box.open(*args_here*)\n" +
	"\t#expected = *expected_output_here*\n" +
	"\t#assert output == expected\n" +
	"\tassert 0\n" +
	"\n"

func TestRenderMatchesSampleSkeleton(t *testing.T) {
	inv := reflector.Inventory{
		Module:    "sample",
		Functions: []string{"add"},
		Classes:   []reflector.Class{{Name: "Box", Methods: []string{"open"}}},
	}

	out, err := NewEmitter(Options{}).Render(inv)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if string(out) != sampleSkeleton {
		t.Fatalf("unexpected skeleton:\n%s", out)
	}
}

func TestRenderFunctionsOnly(t *testing.T) {
	g := gomega.NewWithT(t)

	out, err := NewEmitter(Options{}).Render(reflector.Inventory{
		Module:    "maths",
		Functions: []string{"f1", "f2"},
	})
	g.Expect(err).NotTo(gomega.HaveOccurred())

	text := string(out)
	g.Expect(strings.Count(text, "def test_f1():\n")).To(gomega.Equal(1))
	g.Expect(strings.Count(text, "def test_f2():\n")).To(gomega.Equal(1))
	g.Expect(strings.Count(text, "def test_")).To(gomega.Equal(2))
	g.Expect(strings.Count(text, "\tassert 0\n")).To(gomega.Equal(2))
	g.Expect(strings.Count(text, "def i_am_sure_theres_no_issue():\n\tassert 1\n")).To(gomega.Equal(1))
	g.Expect(text).NotTo(gomega.ContainSubstring("@pytest.fixture"))
	g.Expect(text).NotTo(gomega.ContainSubstring("def setup_"))
	g.Expect(text).NotTo(gomega.ContainSubstring("CLASS \"\"\""))
}

func TestRenderClassOnly(t *testing.T) {
	g := gomega.NewWithT(t)

	out, err := NewEmitter(Options{}).Render(reflector.Inventory{
		Module:  "widgets",
		Classes: []reflector.Class{{Name: "C", Methods: []string{"m1", "m2"}}},
	})
	g.Expect(err).NotTo(gomega.HaveOccurred())

	text := string(out)
	g.Expect(strings.Count(text, "def setup_C(request):\n")).To(gomega.Equal(1))
	g.Expect(text).To(gomega.ContainSubstring("def test_C_m1(setup_C):\n"))
	g.Expect(text).To(gomega.ContainSubstring("def test_C_m2(setup_C):\n"))
	g.Expect(strings.Count(text, "def test_")).To(gomega.Equal(2))

	functionsSection := text[strings.Index(text, "# TESTING FUNCTIONS #"):strings.Index(text, "# TESTING CLASSES #")]
	g.Expect(functionsSection).NotTo(gomega.ContainSubstring("def "))
}

func TestRenderClassWithoutMethodsStillGetsFixture(t *testing.T) {
	out, err := NewEmitter(Options{}).Render(reflector.Inventory{
		Module:  "empty",
		Classes: []reflector.Class{{Name: "Marker"}},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.HasSuffix(string(out), "\trequest.addfinalizer(teardown)\n\tassert 0\n\n") {
		t.Fatalf("expected output to end with the fixture, got:\n%s", out)
	}
}

func TestRenderHonoursAliasAndIndent(t *testing.T) {
	out, err := NewEmitter(Options{Alias: "mod", Indent: "    "}).Render(reflector.Inventory{
		Module:    "sample",
		Functions: []string{"add"},
		Classes:   []reflector.Class{{Name: "Box", Methods: []string{"open"}}},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	text := string(out)
	for _, expected := range []string{
		"import sample as mod\n",
		"    #output = mod.add(*args_here*)\n",
		"    #test_class = mod.Box(*args_here*)\n",
		"        #place teardown stuff here\n",
	} {
		if !strings.Contains(text, expected) {
			t.Fatalf("expected output to contain %q, got:\n%s", expected, text)
		}
	}
	if strings.Contains(text, "\t") {
		t.Fatalf("expected no tabs with a space indent, got:\n%s", text)
	}
}

func TestWriteOverwritesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := TestFilePath(dir, "sample.py")
	if err := os.WriteFile(path, []byte("def test_manual():\n    assert 1\n"), 0644); err != nil {
		t.Fatalf("failed to seed test file: %v", err)
	}

	written, changed, err := Write(dir, "sample.py", []byte(sampleSkeleton))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if written != filepath.Join(dir, "test_sample.py") || !changed {
		t.Fatalf("expected test_sample.py to be rewritten, got %s changed=%v", written, changed)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read test file: %v", err)
	}
	if string(data) != sampleSkeleton {
		t.Fatalf("expected previous content to be replaced, got:\n%s", data)
	}

	_, changed, err = Write(dir, "sample.py", []byte(sampleSkeleton))
	if err != nil {
		t.Fatalf("second Write failed: %v", err)
	}
	if changed {
		t.Fatalf("expected identical content to leave the file unchanged")
	}
}

func TestWriteIntoMissingDirectoryFails(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	if _, _, err := Write(dir, "sample.py", []byte(sampleSkeleton)); err == nil {
		t.Fatalf("expected write into a missing directory to fail")
	}
}

func TestTestFileName(t *testing.T) {
	if got := TestFileName("pkg/sample.py"); got != "test_sample.py" {
		t.Fatalf("expected test_sample.py, got %q", got)
	}
}
