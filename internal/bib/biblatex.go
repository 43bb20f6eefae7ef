// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"strconv"
	"strings"

	"github.com/pdiddy/citelib/internal/biblatex"
	"github.com/pdiddy/citelib/pkg/types"
)

// fieldMapping maps one BibLaTeX field onto the entry model. Most fields
// are logically scalar despite BibLaTeX storing arrays, so assign
// receives only the first value; note is the exception and keeps all
// values (see the per-field loop below).
type fieldMapping struct {
	field  string
	assign func(e *Entry, v string)
}

// biblatexFieldMappings is applied in order, so when several source
// fields target the same entry attribute the last listed one present
// wins. The booktitle/journal/journaltitle precedence for containerTitle
// depends on this order; do not reorder entries.
var biblatexFieldMappings = []fieldMapping{
	{"abstract", func(e *Entry, v string) { e.Abstract = v }},
	{"booktitle", func(e *Entry, v string) { e.ContainerTitle = v }},
	{"journal", func(e *Entry, v string) { e.ContainerTitle = v }},
	{"journaltitle", func(e *Entry, v string) { e.ContainerTitle = v }},
	{"date", func(e *Entry, v string) { e.Issued = parseDateField(v) }},
	{"origdate", func(e *Entry, v string) { e.Original = parseDateField(v) }},
	{"doi", func(e *Entry, v string) { e.DOI = v }},
	{"eprint", func(e *Entry, v string) { e.Eprint = v }},
	{"eprinttype", func(e *Entry, v string) { e.Eprinttype = v }},
	{"primaryclass", func(e *Entry, v string) { e.PrimaryClass = v }},
	{"eventtitle", func(e *Entry, v string) { e.Event = v }},
	{"location", func(e *Entry, v string) { e.PublisherPlace = v }},
	{"pages", func(e *Entry, v string) { e.Page = v }},
	{"shortjournal", func(e *Entry, v string) { e.ContainerTitleShort = v }},
	{"title", func(e *Entry, v string) { e.Title = v }},
	{"shorttitle", func(e *Entry, v string) { e.TitleShort = v }},
	{"url", func(e *Entry, v string) { e.URL = v }},
	{"venue", func(e *Entry, v string) { e.EventPlace = v }},
	{"year", func(e *Entry, v string) { e.yearOverride, _ = strconv.Atoi(strings.TrimSpace(v)) }},
	{"publisher", func(e *Entry, v string) { e.Publisher = v }},
}

// entryFromBibLaTeX maps one parsed BibLaTeX record onto the unified
// entry model.
func entryFromBibLaTeX(rec biblatex.Record) *Entry {
	e := &Entry{
		ID:     rec.Key,
		Type:   rec.Type,
		Format: types.FormatBibLaTeX,
	}

	for _, m := range biblatexFieldMappings {
		vals := rec.Fields[m.field]
		if v, ok := firstNonEmpty(vals); ok {
			m.assign(e, v)
		}
	}

	// note keeps every occurrence, joined later with blank lines.
	e.notes = append(e.notes, rec.Fields["note"]...)

	// Attachment lists appear under both "file" and "files" in the
	// wild; gather both, splitting on the Zotero separator.
	for _, field := range []string{"file", "files"} {
		for _, v := range rec.Fields[field] {
			for _, f := range strings.Split(v, ";") {
				if f = strings.TrimSpace(f); f != "" {
					e.Files = append(e.Files, f)
				}
			}
		}
	}

	for _, n := range rec.Creators["author"] {
		e.Authors = append(e.Authors, Author{
			Given:   n.Given,
			Family:  n.Family,
			Prefix:  n.Prefix,
			Suffix:  n.Suffix,
			Literal: n.Literal,
		})
	}
	e.rawAuthors = rec.Fields["author"]

	// arXiv-style fallback: with no container title but an eprint
	// present, synthesize "type:id [class]" from whichever segments
	// exist.
	if e.ContainerTitle == "" && e.Eprint != "" {
		var b strings.Builder
		if e.Eprinttype != "" {
			b.WriteString(e.Eprinttype)
			b.WriteString(":")
		}
		b.WriteString(e.Eprint)
		if e.PrimaryClass != "" {
			b.WriteString(" [")
			b.WriteString(e.PrimaryClass)
			b.WriteString("]")
		}
		e.ContainerTitle = b.String()
	}

	return e
}

func firstNonEmpty(vals []string) (string, bool) {
	for _, v := range vals {
		if v != "" {
			return v, true
		}
	}
	return "", false
}
