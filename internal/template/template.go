// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package template renders the user-configured literature-note and
// citation templates against a library's per-citekey variable
// projection. Simple {{name}} references are substituted directly;
// anything more (iteration over entry.Authors, conditionals) is handed
// to text/template.
package template

import (
	"fmt"
	"regexp"
	"strings"
	texttemplate "text/template"

	"github.com/pdiddy/citelib/internal/library"
)

// simpleVarRe matches plain {{name}} references with no pipeline syntax.
var simpleVarRe = regexp.MustCompile(`{{\s*([A-Za-z_][A-Za-z0-9_]*)\s*}}`)

// Templater renders named templates against one library snapshot.
type Templater struct {
	lib       *library.Library
	templates map[string]string
}

// New builds a templater over lib with the given named template strings.
func New(lib *library.Library, templates map[string]string) *Templater {
	return &Templater{lib: lib, templates: templates}
}

// Format renders the named template for citekey. Unknown citekeys fail
// with library.ErrNotFound; unknown template names fail outright.
func (t *Templater) Format(citekey, name string) (string, error) {
	tmpl, ok := t.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q", name)
	}
	vars, err := t.lib.TemplateVariables(citekey)
	if err != nil {
		return "", err
	}
	return Render(tmpl, vars)
}

// Render substitutes variables into one template string. A {{name}}
// referencing no known variable renders as
// "(Unknown template variable name)" rather than failing, so a typo in
// a note template produces visible output instead of a broken note.
func Render(tmpl string, vars map[string]any) (string, error) {
	if !strings.Contains(tmpl, "{{") {
		return tmpl, nil
	}

	// Fast path: templates using only flat {{name}} references.
	if !needsEngine(tmpl) {
		out := simpleVarRe.ReplaceAllStringFunc(tmpl, func(m string) string {
			key := simpleVarRe.FindStringSubmatch(m)[1]
			v, ok := vars[key]
			if !ok {
				return fmt.Sprintf("(Unknown template variable %s)", key)
			}
			return fmt.Sprint(v)
		})
		return out, nil
	}

	parsed, err := texttemplate.New("citelib").Option("missingkey=zero").Parse(rewriteVars(tmpl))
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}
	var b strings.Builder
	if err := parsed.Execute(&b, vars); err != nil {
		return "", fmt.Errorf("rendering template: %w", err)
	}
	return b.String(), nil
}

// needsEngine reports whether the template uses text/template constructs
// beyond flat variable references.
func needsEngine(tmpl string) bool {
	stripped := simpleVarRe.ReplaceAllString(tmpl, "")
	return strings.Contains(stripped, "{{")
}

// templateKeywords must survive rewriteVars untouched.
var templateKeywords = map[string]bool{
	"if": true, "else": true, "end": true, "range": true,
	"with": true, "template": true, "block": true, "define": true, "nil": true,
}

// rewriteVars converts {{name}} shorthand into {{.name}} so both styles
// work inside full text/template input.
func rewriteVars(tmpl string) string {
	return simpleVarRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := simpleVarRe.FindStringSubmatch(m)[1]
		if templateKeywords[key] {
			return m
		}
		return "{{." + key + "}}"
	})
}
