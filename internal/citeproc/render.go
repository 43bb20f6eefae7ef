// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citeproc

import (
	"strconv"
	"strings"
)

// escapeHTML escapes the characters citeproc-style output escapes in
// field text: ampersand and angle brackets.
var htmlEscaper = strings.NewReplacer("&", "&#38;", "<", "&#60;", ">", "&#62;")

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// displayName renders one name in natural order ("Given Family").
func displayName(n Name) string {
	if n.Literal != "" {
		return n.Literal
	}
	if n.Given == "" {
		return n.Family
	}
	return n.Given + " " + n.Family
}

// invertedName renders one name in sort order ("Family, Given").
func invertedName(n Name) string {
	if n.Literal != "" {
		return n.Literal
	}
	if n.Given == "" {
		return n.Family
	}
	return n.Family + ", " + n.Given
}

// shortName renders one name for in-text use (family or literal only).
func shortName(n Name) string {
	if n.Literal != "" {
		return n.Literal
	}
	return n.Family
}

// citationNames renders the contributor list for an inline citation,
// applying the citation-level et-al threshold: at etAlMin or more names,
// only the first etAlUseFirst are shown followed by the et-al term.
func (e *Engine) citationNames(it Item) string {
	names := it.Author
	if len(names) == 0 {
		// Author substitute: short title, then title.
		if it.TitleShort != "" {
			return escapeHTML(it.TitleShort)
		}
		return escapeHTML(it.Title)
	}

	etAl := e.locale.TermShort("et-al")
	and := e.locale.Term("and")

	if e.style.CitationEtAlMin > 0 && len(names) >= e.style.CitationEtAlMin {
		use := e.style.CitationEtAlUseFirst
		if use < 1 {
			use = 1
		}
		shown := make([]string, 0, use)
		for _, n := range names[:use] {
			shown = append(shown, shortName(n))
		}
		return escapeHTML(strings.Join(shown, ", ") + " " + etAl)
	}

	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = shortName(n)
	}
	switch len(parts) {
	case 1:
		return escapeHTML(parts[0])
	case 2:
		return escapeHTML(parts[0] + " " + and + " " + parts[1])
	default:
		return escapeHTML(strings.Join(parts[:len(parts)-1], ", ") + ", " + and + " " + parts[len(parts)-1])
	}
}

// bibliographyNames renders the contributor list for a bibliography
// entry: first name inverted, the rest natural, with the and-term before
// the final name and a delimiter before it regardless of list length.
func (e *Engine) bibliographyNames(it Item) string {
	names := it.Author
	if len(names) == 0 {
		return ""
	}

	and := e.locale.Term("and")
	etAl := e.locale.TermShort("et-al")

	truncated := false
	if e.style.BibliographyEtAlMin > 0 && len(names) >= e.style.BibliographyEtAlMin {
		use := e.style.BibliographyEtAlUseFirst
		if use < 1 {
			use = 1
		}
		names = names[:use]
		truncated = true
	}

	parts := make([]string, len(names))
	for i, n := range names {
		if i == 0 {
			parts[i] = invertedName(n)
		} else {
			parts[i] = displayName(n)
		}
	}

	var joined string
	switch {
	case truncated:
		joined = strings.Join(parts, ", ") + ", " + etAl
	case len(parts) == 1:
		joined = parts[0]
	default:
		joined = strings.Join(parts[:len(parts)-1], ", ") + ", " + and + " " + parts[len(parts)-1]
	}
	return escapeHTML(joined)
}

// citationDate renders the date macro for in-text use. A differing
// original date renders bracketed before the issue year ("[1898] 1998").
func (e *Engine) citationDate(it Item, suffix string) string {
	year := it.Issued.Year()
	if year == 0 {
		return e.locale.TermShort("no date")
	}
	rendered := strconv.Itoa(year) + suffix
	if orig := it.OriginalDate.Year(); orig != 0 && orig != year {
		rendered = "[" + strconv.Itoa(orig) + "] " + rendered
	}
	return rendered
}

// bibliographyDate renders the date macro for bibliography entries. A
// differing original date renders parenthesized before the issue year
// ("(1898) 1998").
func (e *Engine) bibliographyDate(it Item, suffix string) string {
	year := it.Issued.Year()
	if year == 0 {
		return e.locale.TermShort("no date")
	}
	rendered := strconv.Itoa(year) + suffix
	if orig := it.OriginalDate.Year(); orig != 0 && orig != year {
		rendered = "(" + strconv.Itoa(orig) + ") " + rendered
	}
	return rendered
}

// bibliographyTitle renders the title macro: books italic, everything
// else quoted with terminal punctuation inside the close quote when the
// locale says so.
func (e *Engine) bibliographyTitle(it Item) string {
	if it.Title == "" {
		return ""
	}
	title := escapeHTML(it.Title)
	if it.ContainerTitle == "" && (it.Type == "book" || it.Type == "collection") {
		return "<i>" + title + "</i>"
	}

	open := e.locale.Term("open-quote")
	close := e.locale.Term("close-quote")
	if !strings.HasSuffix(title, ".") && !strings.HasSuffix(title, "?") && !strings.HasSuffix(title, "!") {
		title += "."
	}
	if !e.locale.PunctuationInQuote {
		return open + strings.TrimSuffix(title, ".") + close + "."
	}
	return open + title + close
}

// renderBibliographyEntry assembles one bibliography entry body (without
// the csl-entry wrapper).
func (e *Engine) renderBibliographyEntry(it Item, yearSuffix string) string {
	var b sentenceBuilder

	names := e.bibliographyNames(it)
	if names == "" {
		// Title substitutes for missing contributors; it then leads the
		// entry and is not repeated.
		b.add(e.bibliographyTitle(it))
		b.add(e.bibliographyDate(it, yearSuffix))
	} else {
		b.add(names)
		b.add(e.bibliographyDate(it, yearSuffix))
		b.add(e.bibliographyTitle(it))
	}

	if it.ContainerTitle != "" {
		container := "<i>" + escapeHTML(it.ContainerTitle) + "</i>"
		if it.Type == "article-journal" && it.Page != "" {
			container += ": " + escapeHTML(it.Page)
		}
		b.add(container)
	} else if it.Publisher != "" || it.PublisherPlace != "" {
		switch {
		case it.PublisherPlace != "" && it.Publisher != "":
			b.add(escapeHTML(it.PublisherPlace) + ": " + escapeHTML(it.Publisher))
		case it.Publisher != "":
			b.add(escapeHTML(it.Publisher))
		default:
			b.add(escapeHTML(it.PublisherPlace))
		}
	}

	switch {
	case it.DOI != "":
		b.add("https://doi.org/" + escapeHTML(it.DOI))
	case it.URL != "":
		b.add(escapeHTML(it.URL))
	}

	return b.terminate(e.style.BibliographySuffix)
}

// sentenceBuilder joins entry segments with ". ", suppressing the period
// after segments that already end in terminal punctuation (a close quote
// carrying its period, or an et-al abbreviation).
type sentenceBuilder struct {
	out strings.Builder
}

func (s *sentenceBuilder) add(part string) {
	if part == "" {
		return
	}
	if s.out.Len() > 0 {
		if endsTerminated(s.out.String()) {
			s.out.WriteString(" ")
		} else {
			s.out.WriteString(". ")
		}
	}
	s.out.WriteString(part)
}

// terminate appends the layout suffix (normally ".") unless the text
// already ends terminated.
func (s *sentenceBuilder) terminate(suffix string) string {
	text := s.out.String()
	if suffix == "" || endsTerminated(text) {
		return text
	}
	return text + suffix
}

func endsTerminated(text string) bool {
	return strings.HasSuffix(text, ".") ||
		strings.HasSuffix(text, ".”") ||
		strings.HasSuffix(text, "?") ||
		strings.HasSuffix(text, "!") ||
		strings.HasSuffix(text, "?”") ||
		strings.HasSuffix(text, "!”")
}

// sortKeyContributors builds the primary sort key: all names inverted,
// lowercased, falling back to the title when the item has no names.
func sortKeyContributors(it Item) string {
	if len(it.Author) == 0 {
		return strings.ToLower(it.Title)
	}
	parts := make([]string, len(it.Author))
	for i, n := range it.Author {
		parts[i] = strings.ToLower(invertedName(n))
	}
	return strings.Join(parts, "; ")
}
