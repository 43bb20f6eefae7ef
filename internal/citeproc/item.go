// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citeproc renders author-date citation clusters and formatted
// bibliographies from CSL items, driven by an embedded citation style and
// locale document. It implements the subset of the Citation Style
// Language needed for the bundled Chicago author-date style; there is no
// general-purpose CSL processor in Go to delegate to.
package citeproc

import "fmt"

// Name is a CSL name: either given/family parts or a literal string for
// corporate names.
type Name struct {
	Family  string `json:"family,omitempty"`
	Given   string `json:"given,omitempty"`
	Literal string `json:"literal,omitempty"`
}

// Date is a CSL date expressed as date-parts: [[year, month, day]] with
// month and day optional.
type Date struct {
	DateParts [][]int `json:"date-parts,omitempty"`
}

// Year returns the year component, or 0 when absent.
func (d *Date) Year() int {
	if d == nil || len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return 0
	}
	return d.DateParts[0][0]
}

// sortKey returns a lexicographically ordered yyyy-mm-dd rendering.
func (d *Date) sortKey() string {
	parts := [3]int{}
	if d != nil && len(d.DateParts) > 0 {
		for i, v := range d.DateParts[0] {
			if i > 2 {
				break
			}
			parts[i] = v
		}
	}
	return fmt.Sprintf("%04d-%02d-%02d", parts[0], parts[1], parts[2])
}

// Item is the reference field set the engine retrieves through the item
// callback. Field names follow the CSL-JSON schema.
type Item struct {
	ID                  string `json:"id"`
	Type                string `json:"type"`
	Title               string `json:"title,omitempty"`
	TitleShort          string `json:"title-short,omitempty"`
	ContainerTitle      string `json:"container-title,omitempty"`
	ContainerTitleShort string `json:"container-title-short,omitempty"`
	Abstract            string `json:"abstract,omitempty"`
	Page                string `json:"page,omitempty"`
	Publisher           string `json:"publisher,omitempty"`
	PublisherPlace      string `json:"publisher-place,omitempty"`
	EventPlace          string `json:"event-place,omitempty"`
	Event               string `json:"event,omitempty"`
	DOI                 string `json:"DOI,omitempty"`
	URL                 string `json:"URL,omitempty"`
	Author              []Name `json:"author,omitempty"`
	Issued              *Date  `json:"issued,omitempty"`
	OriginalDate        *Date  `json:"original-date,omitempty"`
}
