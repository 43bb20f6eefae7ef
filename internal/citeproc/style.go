// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citeproc

import (
	_ "embed"
	"encoding/xml"
	"fmt"
)

// ChicagoAuthorDate is the bundled style document.
//
//go:embed styles/chicago-author-date.csl
var ChicagoAuthorDate []byte

// LocaleEnUS is the bundled en-US locale document. Requests for any
// other language resolve to this document as well.
//
//go:embed styles/locales-en-US.xml
var LocaleEnUS []byte

// Style holds the parameters the engine reads from a CSL style document.
// The rendering grammar itself (macros, groups) is fixed author-date
// logic; the document controls thresholds, delimiters, and sort keys.
type Style struct {
	Title                     string
	Class                     string
	CitationEtAlMin           int
	CitationEtAlUseFirst      int
	DisambiguateAddYearSuffix bool
	CitationPrefix            string
	CitationSuffix            string
	CitationDelimiter         string
	BibliographyEtAlMin       int
	BibliographyEtAlUseFirst  int
	BibliographySuffix        string
	HangingIndent             bool
	EntrySpacing              int
	SortKeys                  []SortKey
}

// SortKey is one bibliography sort criterion: either a macro name
// ("contributors") or a variable name ("issued", "title").
type SortKey struct {
	Macro    string
	Variable string
}

type styleXML struct {
	Class string `xml:"class,attr"`
	Info  struct {
		Title string `xml:"title"`
	} `xml:"info"`
	Citation struct {
		EtAlMin                   int    `xml:"et-al-min,attr"`
		EtAlUseFirst              int    `xml:"et-al-use-first,attr"`
		DisambiguateAddYearSuffix string `xml:"disambiguate-add-year-suffix,attr"`
		Layout                    struct {
			Prefix    string `xml:"prefix,attr"`
			Suffix    string `xml:"suffix,attr"`
			Delimiter string `xml:"delimiter,attr"`
		} `xml:"layout"`
	} `xml:"citation"`
	Bibliography struct {
		EtAlMin       int    `xml:"et-al-min,attr"`
		EtAlUseFirst  int    `xml:"et-al-use-first,attr"`
		HangingIndent string `xml:"hanging-indent,attr"`
		EntrySpacing  int    `xml:"entry-spacing,attr"`
		Sort          struct {
			Keys []struct {
				Macro    string `xml:"macro,attr"`
				Variable string `xml:"variable,attr"`
			} `xml:"key"`
		} `xml:"sort"`
		Layout struct {
			Suffix string `xml:"suffix,attr"`
		} `xml:"layout"`
	} `xml:"bibliography"`
}

// ParseStyle reads a CSL style document.
func ParseStyle(doc []byte) (Style, error) {
	var raw styleXML
	if err := xml.Unmarshal(doc, &raw); err != nil {
		return Style{}, fmt.Errorf("parsing style document: %w", err)
	}

	s := Style{
		Title:                     raw.Info.Title,
		Class:                     raw.Class,
		CitationEtAlMin:           raw.Citation.EtAlMin,
		CitationEtAlUseFirst:      raw.Citation.EtAlUseFirst,
		DisambiguateAddYearSuffix: raw.Citation.DisambiguateAddYearSuffix == "true",
		CitationPrefix:            raw.Citation.Layout.Prefix,
		CitationSuffix:            raw.Citation.Layout.Suffix,
		CitationDelimiter:         raw.Citation.Layout.Delimiter,
		BibliographyEtAlMin:       raw.Bibliography.EtAlMin,
		BibliographyEtAlUseFirst:  raw.Bibliography.EtAlUseFirst,
		BibliographySuffix:        raw.Bibliography.Layout.Suffix,
		HangingIndent:             raw.Bibliography.HangingIndent == "true",
		EntrySpacing:              raw.Bibliography.EntrySpacing,
	}
	for _, k := range raw.Bibliography.Sort.Keys {
		s.SortKeys = append(s.SortKeys, SortKey{Macro: k.Macro, Variable: k.Variable})
	}

	if s.CitationDelimiter == "" {
		s.CitationDelimiter = "; "
	}
	return s, nil
}
