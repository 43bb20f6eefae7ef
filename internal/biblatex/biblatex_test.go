// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package biblatex

import (
	"strings"
	"testing"
)

func TestParseBasicEntry(t *testing.T) {
	src := `@article{knuth1974,
  author = {Knuth, Donald E.},
  title = {Computer Programming as an Art},
  journaltitle = {Communications of the ACM},
  year = {1974},
  pages = {667--673},
}`
	res := Parse(src)
	if res.Fatal != nil {
		t.Fatalf("Fatal = %v, want nil", res.Fatal)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("Warnings = %v, want none", res.Warnings)
	}
	if len(res.Records) != 1 {
		t.Fatalf("len(Records) = %d, want 1", len(res.Records))
	}

	rec := res.Records[0]
	if rec.Key != "knuth1974" {
		t.Errorf("Key = %q, want %q", rec.Key, "knuth1974")
	}
	if rec.Type != "article" {
		t.Errorf("Type = %q, want %q", rec.Type, "article")
	}
	if got := rec.Fields["title"][0]; got != "Computer Programming as an Art" {
		t.Errorf("title = %q", got)
	}
	if got := rec.Fields["pages"][0]; got != "667–673" {
		t.Errorf("pages = %q, want en-dash form", got)
	}
	if len(rec.Creators["author"]) != 1 {
		t.Fatalf("len(author) = %d, want 1", len(rec.Creators["author"]))
	}
	a := rec.Creators["author"][0]
	if a.Family != "Knuth" || a.Given != "Donald E." {
		t.Errorf("author = %+v", a)
	}
}

func TestParseEntryTypeCaseInsensitive(t *testing.T) {
	res := Parse(`@ARTICLE{k, title = {T}}`)
	if len(res.Records) != 1 || res.Records[0].Type != "article" {
		t.Fatalf("Records = %+v, want one lowercase article", res.Records)
	}
}

func TestParseParenDelimitedEntry(t *testing.T) {
	res := Parse(`@book(adams1995, title = "Mostly Harmless")`)
	if len(res.Records) != 1 {
		t.Fatalf("len(Records) = %d, want 1", len(res.Records))
	}
	if got := res.Records[0].Fields["title"][0]; got != "Mostly Harmless" {
		t.Errorf("title = %q", got)
	}
}

func TestParseStringAbbreviationAndConcat(t *testing.T) {
	src := `@string{cacm = {Communications of the ACM}}
@article{a, journaltitle = cacm, note = "part " # "one"}`
	res := Parse(src)
	if len(res.Records) != 1 {
		t.Fatalf("len(Records) = %d, want 1; warnings %v", len(res.Records), res.Warnings)
	}
	rec := res.Records[0]
	if got := rec.Fields["journaltitle"][0]; got != "Communications of the ACM" {
		t.Errorf("journaltitle = %q", got)
	}
	if got := rec.Fields["note"][0]; got != "part one" {
		t.Errorf("note = %q, want %q", got, "part one")
	}
}

func TestParseSkipsCommentAndPreamble(t *testing.T) {
	src := `@comment{anything {nested} here}
@preamble{"\newcommand{\x}{y}"}
@misc{only, title = {The Only One}}`
	res := Parse(src)
	if len(res.Records) != 1 || res.Records[0].Key != "only" {
		t.Fatalf("Records = %+v, want only @misc{only}", res.Records)
	}
}

func TestParseRepeatedFieldKeepsAllValues(t *testing.T) {
	src := `@misc{m, note = {first}, note = {second}}`
	res := Parse(src)
	if len(res.Records) != 1 {
		t.Fatalf("len(Records) = %d, want 1", len(res.Records))
	}
	notes := res.Records[0].Fields["note"]
	if len(notes) != 2 || notes[0] != "first" || notes[1] != "second" {
		t.Errorf("note = %v, want [first second]", notes)
	}
}

func TestParseMalformedEntryRecovered(t *testing.T) {
	src := `@article{good1, title = {One}}
@article{bad1, title {missing equals sign}}
@article{good2, title = {Two}}`
	res := Parse(src)
	if res.Fatal != nil {
		t.Fatalf("Fatal = %v, want nil", res.Fatal)
	}
	if len(res.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2 (got %+v)", len(res.Records), res.Records)
	}
	if res.Records[0].Key != "good1" || res.Records[1].Key != "good2" {
		t.Errorf("keys = %q, %q", res.Records[0].Key, res.Records[1].Key)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want exactly one", res.Warnings)
	}
	if !strings.Contains(res.Warnings[0], "bad1") && !strings.Contains(res.Warnings[0], "offset") {
		t.Errorf("warning %q should locate the skipped entry", res.Warnings[0])
	}
}

func TestParseFatalKeepsEarlierRecords(t *testing.T) {
	src := `@article{good, title = {Fine}}
@article{broken, title = {never closed`
	res := Parse(src)
	if res.Fatal == nil {
		t.Fatal("Fatal = nil, want error for unrecoverable tail")
	}
	if len(res.Records) != 1 || res.Records[0].Key != "good" {
		t.Errorf("Records = %+v, want the one good entry preserved", res.Records)
	}
}

func TestParseStrayAtInProse(t *testing.T) {
	src := `This export was mailed to someone@example.com.
@misc{m, title = {T}}`
	res := Parse(src)
	if res.Fatal != nil {
		t.Fatalf("Fatal = %v", res.Fatal)
	}
	if len(res.Records) != 1 || res.Records[0].Key != "m" {
		t.Fatalf("Records = %+v", res.Records)
	}
}

func TestParseNestedBracesPreserved(t *testing.T) {
	src := `@article{a, title = {The {DNA} of {C}omputing}}`
	res := Parse(src)
	if got := res.Records[0].Fields["title"][0]; got != "The DNA of Computing" {
		t.Errorf("title = %q", got)
	}
}
