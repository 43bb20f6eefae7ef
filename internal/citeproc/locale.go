// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citeproc

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Locale holds the language-specific terms the renderer consumes.
type Locale struct {
	Lang               string
	PunctuationInQuote bool
	terms              map[termKey]termValue
}

type termKey struct {
	name string
	form string
}

type termValue struct {
	value    string
	single   string
	multiple string
}

type localeXML struct {
	Lang         string `xml:"lang,attr"`
	StyleOptions struct {
		PunctuationInQuote string `xml:"punctuation-in-quote,attr"`
	} `xml:"style-options"`
	Terms []struct {
		Name     string `xml:"name,attr"`
		Form     string `xml:"form,attr"`
		Value    string `xml:",chardata"`
		Single   string `xml:"single"`
		Multiple string `xml:"multiple"`
	} `xml:"terms>term"`
}

// ParseLocale reads a CSL locale document.
func ParseLocale(doc []byte) (Locale, error) {
	var raw localeXML
	if err := xml.Unmarshal(doc, &raw); err != nil {
		return Locale{}, fmt.Errorf("parsing locale document: %w", err)
	}

	loc := Locale{
		Lang:               raw.Lang,
		PunctuationInQuote: raw.StyleOptions.PunctuationInQuote == "true",
		terms:              make(map[termKey]termValue, len(raw.Terms)),
	}
	for _, t := range raw.Terms {
		loc.terms[termKey{t.Name, t.Form}] = termValue{
			value:    strings.TrimSpace(t.Value),
			single:   strings.TrimSpace(t.Single),
			multiple: strings.TrimSpace(t.Multiple),
		}
	}
	return loc, nil
}

// Term returns the long form of a term, or "" when undefined.
func (l Locale) Term(name string) string {
	return l.lookup(name, "")
}

// TermShort returns the short form of a term, falling back to the long
// form when no short form is defined.
func (l Locale) TermShort(name string) string {
	if v := l.lookup(name, "short"); v != "" {
		return v
	}
	return l.lookup(name, "")
}

func (l Locale) lookup(name, form string) string {
	t, ok := l.terms[termKey{name, form}]
	if !ok {
		return ""
	}
	if t.single != "" {
		return t.single
	}
	return t.value
}
