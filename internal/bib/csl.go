// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"encoding/json"
	"fmt"

	"github.com/pdiddy/citelib/pkg/types"
)

// cslName mirrors a CSL-JSON name object.
type cslName struct {
	Given   string `json:"given"`
	Family  string `json:"family"`
	Literal string `json:"literal"`
}

// cslDate mirrors a CSL-JSON date: {"date-parts": [[year, month, day]]}
// with month and day optional and 1-indexed.
type cslDate struct {
	DateParts [][]int `json:"date-parts"`
}

// cslRecord mirrors one object of a CSL-JSON export array. Field names
// follow the CSL-JSON reference schema (hyphenated keys).
type cslRecord struct {
	ID                  string    `json:"id"`
	Type                string    `json:"type"`
	Abstract            string    `json:"abstract"`
	Author              []cslName `json:"author"`
	ContainerTitle      string    `json:"container-title"`
	ContainerTitleShort string    `json:"container-title-short"`
	DOI                 string    `json:"DOI"`
	URL                 string    `json:"URL"`
	Issued              *cslDate  `json:"issued"`
	OriginalDate        *cslDate  `json:"original-date"`
	Page                string    `json:"page"`
	Title               string    `json:"title"`
	TitleShort          string    `json:"title-short"`
	Publisher           string    `json:"publisher"`
	PublisherPlace      string    `json:"publisher-place"`
	EventPlace          string    `json:"event-place"`
	Event               string    `json:"event"`
	Note                string    `json:"note"`
}

// LoadCSL parses a CSL-JSON export (a JSON array of reference objects)
// into entries. A JSON parse failure is fatal and propagated; there is
// no per-record recovery for this format.
func LoadCSL(raw []byte) ([]*Entry, error) {
	var records []cslRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parsing CSL-JSON: %w", err)
	}

	entries := make([]*Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, entryFromCSL(r))
	}
	return entries, nil
}

// entryFromCSL maps one CSL-JSON record onto the unified entry model.
// The mapping is 1:1: hyphenated schema keys become the corresponding
// entry fields, and issued date-parts become a UTC date.
func entryFromCSL(r cslRecord) *Entry {
	e := &Entry{
		ID:                  r.ID,
		Type:                r.Type,
		Format:              types.FormatCSLJSON,
		Abstract:            r.Abstract,
		DOI:                 r.DOI,
		URL:                 r.URL,
		Page:                r.Page,
		Title:               r.Title,
		TitleShort:          r.TitleShort,
		ContainerTitle:      r.ContainerTitle,
		ContainerTitleShort: r.ContainerTitleShort,
		Publisher:           r.Publisher,
		PublisherPlace:      r.PublisherPlace,
		EventPlace:          r.EventPlace,
		Event:               r.Event,
	}
	for _, n := range r.Author {
		e.Authors = append(e.Authors, Author{
			Given:   n.Given,
			Family:  n.Family,
			Literal: n.Literal,
		})
	}
	if r.Issued != nil && len(r.Issued.DateParts) > 0 {
		e.Issued = dateFromParts(r.Issued.DateParts[0])
	}
	if r.OriginalDate != nil && len(r.OriginalDate.DateParts) > 0 {
		e.Original = dateFromParts(r.OriginalDate.DateParts[0])
	}
	if r.Note != "" {
		e.notes = []string{r.Note}
	}
	return e
}
