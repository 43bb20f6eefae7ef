// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library holds the in-memory reference database: an ordered
// citekey-to-entry mapping built from a parsed export, plus the loading
// machinery around it. A Library is an immutable snapshot; reloads build
// a new one and swap it in whole.
package library

import (
	"errors"
	"fmt"

	"github.com/pdiddy/citelib/internal/bib"
)

// ErrNotFound reports a citekey lookup against a key the current
// library does not contain. This is a caller bug, not a data condition,
// and is never masked with a placeholder result.
var ErrNotFound = errors.New("citekey not found")

// Library is the canonical in-memory reference database. Keys are
// unique; constructing from entries with duplicate citekeys keeps the
// last one (a data-quality condition, not an error) in the position of
// the first.
type Library struct {
	keys    []string
	entries map[string]*bib.Entry
}

// New builds a library from entries in order.
func New(entries []*bib.Entry) *Library {
	l := &Library{entries: make(map[string]*bib.Entry, len(entries))}
	for _, e := range entries {
		if _, dup := l.entries[e.ID]; !dup {
			l.keys = append(l.keys, e.ID)
		}
		l.entries[e.ID] = e
	}
	return l
}

// Size returns the number of entries.
func (l *Library) Size() int {
	return len(l.keys)
}

// Keys returns the citekeys in load order. The returned slice is shared;
// callers must not modify it.
func (l *Library) Keys() []string {
	return l.keys
}

// Entry returns the entry for citekey, if present.
func (l *Library) Entry(citekey string) (*bib.Entry, bool) {
	e, ok := l.entries[citekey]
	return e, ok
}

// TemplateVariables returns the flat string projection of one entry for
// template rendering, plus the full entry under "entry" for templates
// needing structured access. Fails with ErrNotFound for an absent key:
// downstream consumers build file paths and content from this output,
// and a silent empty result would produce malformed files.
func (l *Library) TemplateVariables(citekey string) (map[string]any, error) {
	e, ok := l.entries[citekey]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, citekey)
	}
	return map[string]any{
		"citekey":             citekey,
		"abstract":            e.Abstract,
		"authorString":        e.AuthorString(),
		"containerTitle":      e.ContainerTitle,
		"containerTitleShort": e.ContainerTitleShort,
		"DOI":                 e.DOI,
		"eprint":              e.Eprint,
		"eprinttype":          e.Eprinttype,
		"eventPlace":          e.EventPlace,
		"note":                e.Note(),
		"page":                e.Page,
		"publisher":           e.Publisher,
		"publisherPlace":      e.PublisherPlace,
		"title":               e.Title,
		"titleShort":          e.TitleShort,
		"URL":                 e.URL,
		"year":                e.YearString(),
		"zoteroSelectURI":     e.ZoteroSelectURI(),
		"entry":               e,
	}, nil
}
