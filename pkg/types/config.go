// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// LibraryFormat identifies the reference-manager export format.
type LibraryFormat string

const (
	FormatBibLaTeX LibraryFormat = "biblatex"
	FormatCSLJSON  LibraryFormat = "csl-json"
)

// HTTPConfig holds shared HTTP settings for remote export fetches.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citelib/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LibraryConfig holds settings for locating and parsing the reference
// library export.
type LibraryConfig struct {
	HTTPConfig `yaml:",inline"`

	// Path is the filesystem path or http(s) URL of the export file.
	Path string `json:"path" yaml:"path"`

	// Format selects the export format: biblatex or csl-json.
	Format LibraryFormat `json:"format" yaml:"format"`
}

// IndexConfig holds settings for the SQLite full-text index.
type IndexConfig struct {
	// Path is the SQLite database file (default "citelib.db").
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// TemplateConfig holds the user-configured literature-note templates.
// Variables use {{name}} syntax and draw from the library's per-citekey
// projection.
type TemplateConfig struct {
	// NoteTitle names the literature note (default "@{{citekey}}").
	NoteTitle string `json:"note_title" yaml:"note_title"`

	// NoteContent is the initial body of a literature note.
	NoteContent string `json:"note_content" yaml:"note_content"`

	// MarkdownCitation is the inline citation markup.
	MarkdownCitation string `json:"markdown_citation" yaml:"markdown_citation"`

	// AlternativeMarkdownCitation is the secondary citation markup.
	AlternativeMarkdownCitation string `json:"alternative_markdown_citation" yaml:"alternative_markdown_citation"`
}

// DefaultTemplates returns the template set used when the config file
// does not override them.
func DefaultTemplates() TemplateConfig {
	return TemplateConfig{
		NoteTitle:                   "@{{citekey}}",
		NoteContent:                 "---\ntitle: {{title}}\nauthors: {{authorString}}\nyear: {{year}}\n---\n\n",
		MarkdownCitation:            "[@{{citekey}}]",
		AlternativeMarkdownCitation: "@{{citekey}}",
	}
}
