// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bib defines the unified bibliographic entry model and the
// adapters that normalize CSL-JSON and BibLaTeX records into it. An
// Entry is constructed once at library load time and never mutated.
package bib

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/citelib/internal/citeproc"
	"github.com/pdiddy/citelib/pkg/types"
)

// Author is one structured creator name. Literal is set for corporate
// names and takes precedence over the part fields when rendering.
type Author struct {
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Family  string `json:"family,omitempty" yaml:"family,omitempty"`
	Prefix  string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Suffix  string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// String renders the name as display text: the literal form verbatim,
// otherwise the non-empty parts of given, prefix, family, suffix joined
// with spaces.
func (a Author) String() string {
	if a.Literal != "" {
		return a.Literal
	}
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Given, a.Prefix, a.Family, a.Suffix} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Entry is the unified reference record. Both format adapters produce
// this struct; Format records which one did. All fields are fixed at
// construction.
type Entry struct {
	ID     string              `json:"id" yaml:"id"`
	Type   string              `json:"type" yaml:"type"`
	Format types.LibraryFormat `json:"format" yaml:"format"`

	Abstract            string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	DOI                 string `json:"doi,omitempty" yaml:"doi,omitempty"`
	URL                 string `json:"url,omitempty" yaml:"url,omitempty"`
	Page                string `json:"page,omitempty" yaml:"page,omitempty"`
	Title               string `json:"title,omitempty" yaml:"title,omitempty"`
	TitleShort          string `json:"title_short,omitempty" yaml:"title_short,omitempty"`
	ContainerTitle      string `json:"container_title,omitempty" yaml:"container_title,omitempty"`
	ContainerTitleShort string `json:"container_title_short,omitempty" yaml:"container_title_short,omitempty"`
	Publisher           string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	PublisherPlace      string `json:"publisher_place,omitempty" yaml:"publisher_place,omitempty"`
	EventPlace          string `json:"event_place,omitempty" yaml:"event_place,omitempty"`
	Event               string `json:"event,omitempty" yaml:"event,omitempty"`
	Eprint              string `json:"eprint,omitempty" yaml:"eprint,omitempty"`
	Eprinttype          string `json:"eprinttype,omitempty" yaml:"eprinttype,omitempty"`
	PrimaryClass        string `json:"primaryclass,omitempty" yaml:"primaryclass,omitempty"`

	// Authors is exclusively owned by the entry; callers must not
	// modify it.
	Authors []Author `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Issued is the normalized publication date in UTC, nil when
	// unknown. When only a year is known, month and day are January 1.
	Issued *time.Time `json:"issued,omitempty" yaml:"issued,omitempty"`

	// Original is the original publication date for reprints, nil when
	// absent.
	Original *time.Time `json:"original,omitempty" yaml:"original,omitempty"`

	// Files lists attachment paths from the export.
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`

	// rawAuthors preserves the unparsed author field values for the
	// authorString fallback when no structured names exist.
	rawAuthors []string

	// yearOverride holds an explicit year field, which wins over the
	// parsed date's year.
	yearOverride int

	// notes holds the raw note field values, one per occurrence.
	notes []string
}

// noteLinkRe matches lines consisting solely of a zotero:// URI.
var noteLinkRe = regexp.MustCompile(`(?m)^(zotero://\S+)$`)

// AuthorString renders the comma-joined author list, or the raw author
// text when the record had no structured names.
func (e *Entry) AuthorString() string {
	if len(e.Authors) > 0 {
		parts := make([]string, len(e.Authors))
		for i, a := range e.Authors {
			parts[i] = a.String()
		}
		return strings.Join(parts, ", ")
	}
	return strings.Join(e.rawAuthors, ", ")
}

// Year returns the publication year: an explicit year field if the
// record carried one, otherwise the issued date's year, otherwise 0.
func (e *Entry) Year() int {
	if e.yearOverride != 0 {
		return e.yearOverride
	}
	if e.Issued != nil {
		return e.Issued.UTC().Year()
	}
	return 0
}

// YearString returns Year as decimal text, or "" when unknown.
func (e *Entry) YearString() string {
	if y := e.Year(); y != 0 {
		return strconv.Itoa(y)
	}
	return ""
}

// ZoteroSelectURI returns the deep link that selects this reference in
// Zotero.
func (e *Entry) ZoteroSelectURI() string {
	return "zotero://select/items/@" + e.ID
}

// Note joins the raw note values with blank lines, rewriting lines that
// are bare zotero:// URIs into Markdown links.
func (e *Entry) Note() string {
	if len(e.notes) == 0 {
		return ""
	}
	joined := strings.Join(e.notes, "\n\n")
	return noteLinkRe.ReplaceAllString(joined, "[Link to note]($1)")
}

// CSLItem projects the entry into the field set the citation engine
// retrieves through its item callback.
func (e *Entry) CSLItem() citeproc.Item {
	it := citeproc.Item{
		ID:                  e.ID,
		Type:                e.Type,
		Title:               e.Title,
		TitleShort:          e.TitleShort,
		ContainerTitle:      e.ContainerTitle,
		ContainerTitleShort: e.ContainerTitleShort,
		Abstract:            e.Abstract,
		Page:                e.Page,
		Publisher:           e.Publisher,
		PublisherPlace:      e.PublisherPlace,
		EventPlace:          e.EventPlace,
		Event:               e.Event,
		DOI:                 e.DOI,
		URL:                 e.URL,
	}
	for _, a := range e.Authors {
		it.Author = append(it.Author, citeproc.Name{
			Family:  strings.TrimSpace(strings.Join(nonEmpty(a.Prefix, a.Family), " ")),
			Given:   a.Given,
			Literal: a.Literal,
		})
	}
	if len(e.Authors) == 0 && len(e.rawAuthors) > 0 {
		for _, raw := range e.rawAuthors {
			it.Author = append(it.Author, citeproc.Name{Literal: raw})
		}
	}
	if y := e.Year(); y != 0 {
		parts := []int{y}
		if e.Issued != nil && e.Issued.UTC().Year() == y {
			u := e.Issued.UTC()
			parts = []int{y, int(u.Month()), u.Day()}
		}
		it.Issued = &citeproc.Date{DateParts: [][]int{parts}}
	}
	if e.Original != nil {
		u := e.Original.UTC()
		it.OriginalDate = &citeproc.Date{DateParts: [][]int{{u.Year(), int(u.Month()), u.Day()}}}
	}
	return it
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
