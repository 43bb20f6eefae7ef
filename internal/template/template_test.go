// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package template

import (
	"errors"
	"testing"

	"github.com/pdiddy/citelib/internal/bib"
	"github.com/pdiddy/citelib/internal/library"
	"github.com/pdiddy/citelib/pkg/types"
)

func testLibrary(t *testing.T) *library.Library {
	t.Helper()
	src := `@article{knuth1974,
  author = {Knuth, Donald E. and Moore, Ronald W.},
  title = {An analysis of alpha-beta pruning},
  journaltitle = {Artificial Intelligence},
  date = {1975},
}`
	entries, _, err := bib.Load(src, types.FormatBibLaTeX)
	if err != nil {
		t.Fatal(err)
	}
	return library.New(entries)
}

func TestRenderSimpleVariables(t *testing.T) {
	vars := map[string]any{"citekey": "knuth1974", "year": "1975"}

	out, err := Render("@{{citekey}} ({{ year }})", vars)
	if err != nil {
		t.Fatal(err)
	}
	if out != "@knuth1974 (1975)" {
		t.Errorf("Render = %q", out)
	}
}

func TestRenderUnknownVariable(t *testing.T) {
	out, err := Render("title: {{titel}}", map[string]any{"title": "T"})
	if err != nil {
		t.Fatal(err)
	}
	if out != "title: (Unknown template variable titel)" {
		t.Errorf("Render = %q", out)
	}
}

func TestRenderNoVariables(t *testing.T) {
	out, err := Render("static text", nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "static text" {
		t.Errorf("Render = %q", out)
	}
}

func TestRenderRangeOverAuthors(t *testing.T) {
	lib := testLibrary(t)
	vars, err := lib.TemplateVariables("knuth1974")
	if err != nil {
		t.Fatal(err)
	}

	tmpl := `{{range $i, $a := .entry.Authors}}{{if $i}}, {{end}}[[{{$a.Family}}, {{$a.Given}}]]{{end}}`
	out, err := Render(tmpl, vars)
	if err != nil {
		t.Fatal(err)
	}
	if out != "[[Knuth, Donald E.]], [[Moore, Ronald W.]]" {
		t.Errorf("Render = %q", out)
	}
}

func TestRenderMixedShorthandAndEngine(t *testing.T) {
	lib := testLibrary(t)
	vars, err := lib.TemplateVariables("knuth1974")
	if err != nil {
		t.Fatal(err)
	}

	tmpl := `{{citekey}}: {{if .DOI}}has doi{{else}}no doi{{end}}`
	out, err := Render(tmpl, vars)
	if err != nil {
		t.Fatal(err)
	}
	if out != "knuth1974: no doi" {
		t.Errorf("Render = %q", out)
	}
}

func TestFormatNamedTemplate(t *testing.T) {
	tm := New(testLibrary(t), map[string]string{
		"note-title": "@{{citekey}}",
	})

	out, err := tm.Format("knuth1974", "note-title")
	if err != nil {
		t.Fatal(err)
	}
	if out != "@knuth1974" {
		t.Errorf("Format = %q", out)
	}
}

func TestFormatUnknownTemplateName(t *testing.T) {
	tm := New(testLibrary(t), map[string]string{})
	if _, err := tm.Format("knuth1974", "nope"); err == nil {
		t.Fatal("expected error for unknown template name")
	}
}

func TestFormatUnknownCitekey(t *testing.T) {
	tm := New(testLibrary(t), map[string]string{"note-title": "@{{citekey}}"})
	_, err := tm.Format("ghost", "note-title")
	if !errors.Is(err, library.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDefaultTemplatesRender(t *testing.T) {
	tm := New(testLibrary(t), map[string]string{
		"note-content": types.DefaultTemplates().NoteContent,
	})
	out, err := tm.Format("knuth1974", "note-content")
	if err != nil {
		t.Fatal(err)
	}
	want := "---\ntitle: An analysis of alpha-beta pruning\nauthors: Donald E. Knuth, Ronald W. Moore\nyear: 1975\n---\n\n"
	if out != want {
		t.Errorf("Format = %q\nwant    %q", out, want)
	}
}
