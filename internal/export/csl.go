// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes a loaded library back out as CSL-YAML or
// CSL-JSON. The field names and structure follow the CSL-JSON schema so
// that output is consumable by Pandoc and reference managers.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citelib/internal/bib"
	"github.com/pdiddy/citelib/internal/library"
)

// CSLItem represents one bibliographic entry in CSL format.
type CSLItem struct {
	ID             string    `json:"id" yaml:"id"`
	Type           string    `json:"type" yaml:"type"`
	Title          string    `json:"title,omitempty" yaml:"title,omitempty"`
	TitleShort     string    `json:"title-short,omitempty" yaml:"title-short,omitempty"`
	ContainerTitle string    `json:"container-title,omitempty" yaml:"container-title,omitempty"`
	Author         []CSLName `json:"author,omitempty" yaml:"author,omitempty"`
	Abstract       string    `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Issued         *CSLDate  `json:"issued,omitempty" yaml:"issued,omitempty"`
	Page           string    `json:"page,omitempty" yaml:"page,omitempty"`
	Publisher      string    `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	PublisherPlace string    `json:"publisher-place,omitempty" yaml:"publisher-place,omitempty"`
	DOI            string    `json:"DOI,omitempty" yaml:"DOI,omitempty"`
	URL            string    `json:"URL,omitempty" yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `json:"family,omitempty" yaml:"family,omitempty"`
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `json:"date-parts" yaml:"date-parts"`
}

// FormatYAML writes the library as a CSL-YAML list to w.
func FormatYAML(lib *library.Library, w io.Writer) error {
	items := collect(lib)
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// FormatJSON writes the library as a CSL-JSON array to w.
func FormatJSON(lib *library.Library, w io.Writer) error {
	items := collect(lib)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func collect(lib *library.Library) []CSLItem {
	items := make([]CSLItem, 0, lib.Size())
	for _, key := range lib.Keys() {
		e, _ := lib.Entry(key)
		items = append(items, toCSLItem(e))
	}
	return items
}

// toCSLItem converts an entry to its CSL representation.
func toCSLItem(e *bib.Entry) CSLItem {
	item := CSLItem{
		ID:             e.ID,
		Type:           cslType(e),
		Title:          e.Title,
		TitleShort:     e.TitleShort,
		ContainerTitle: e.ContainerTitle,
		Abstract:       e.Abstract,
		Page:           e.Page,
		Publisher:      e.Publisher,
		PublisherPlace: e.PublisherPlace,
		DOI:            e.DOI,
		URL:            e.URL,
	}

	for _, a := range e.Authors {
		name := CSLName{Given: a.Given, Family: a.Family, Literal: a.Literal}
		if a.Prefix != "" {
			name.Family = a.Prefix + " " + a.Family
		}
		item.Author = append(item.Author, name)
	}

	if e.Issued != nil {
		u := e.Issued.UTC()
		item.Issued = &CSLDate{
			DateParts: [][]int{{u.Year(), int(u.Month()), u.Day()}},
		}
	} else if y := e.Year(); y != 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{y}}}
	}

	return item
}

// cslType maps BibLaTeX entry types onto CSL item types; CSL-sourced
// entries pass through unchanged.
func cslType(e *bib.Entry) string {
	switch e.Type {
	case "article", "periodical":
		return "article-journal"
	case "inproceedings", "conference":
		return "paper-conference"
	case "incollection", "inbook":
		return "chapter"
	case "phdthesis", "mastersthesis", "thesis":
		return "thesis"
	case "techreport", "report":
		return "report"
	case "unpublished", "online", "electronic":
		return "webpage"
	case "misc":
		return "document"
	case "":
		return "document"
	default:
		return e.Type
	}
}

// Write dispatches on format name ("yaml" or "json").
func Write(lib *library.Library, format string, w io.Writer) error {
	switch format {
	case "yaml", "yml":
		return FormatYAML(lib, w)
	case "json":
		return FormatJSON(lib, w)
	default:
		return fmt.Errorf("unknown export format %q (want yaml or json)", format)
	}
}
