// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citeproc

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ItemRetriever supplies the full field set for a reference on demand.
// The engine calls it synchronously during rendering; implementations
// bridge back into whatever holds the reference database.
type ItemRetriever interface {
	RetrieveItem(id string) (Item, error)
}

// LocaleRetriever resolves a language tag to a locale document.
type LocaleRetriever func(lang string) []byte

// Engine renders citation clusters and bibliographies according to one
// style and one locale document. Registering items with UpdateItems has
// an ordering side effect: year-suffix disambiguation considers only the
// registered set.
type Engine struct {
	style  Style
	locale Locale

	// registered holds the items cited so far, in bibliography sort
	// order, with their assigned disambiguation suffixes.
	registered []registeredItem
	suffixes   map[string]string
}

type registeredItem struct {
	item Item
	keys []string
}

// RenderOptions carries the style-level bibliography formatting options,
// mirroring the option block a CSL processor returns alongside the
// rendered entries.
type RenderOptions struct {
	EntrySpacing  int
	LineSpacing   int
	HangingIndent bool
	BibStart      string
	BibEnd        string
	EntryIDs      []string
}

// NewEngine builds an engine from a style document. The locale is
// resolved through locales, which may ignore the language argument; the
// bundled configuration always returns the embedded en-US document.
func NewEngine(styleDoc []byte, locales LocaleRetriever) (*Engine, error) {
	style, err := ParseStyle(styleDoc)
	if err != nil {
		return nil, err
	}
	locale, err := ParseLocale(locales("en-US"))
	if err != nil {
		return nil, err
	}
	return &Engine{
		style:    style,
		locale:   locale,
		suffixes: map[string]string{},
	}, nil
}

// Style returns the parsed style parameters.
func (e *Engine) Style() Style {
	return e.style
}

// MakeCitationCluster renders one inline citation cluster for the given
// ids, e.g. "(Alexandrescu and Kirchhoff 2006)". Items are fetched
// through src at call time.
func (e *Engine) MakeCitationCluster(src ItemRetriever, ids []string) (string, error) {
	if len(ids) == 0 {
		return "", fmt.Errorf("citation cluster requires at least one id")
	}
	cites := make([]string, 0, len(ids))
	for _, id := range ids {
		it, err := src.RetrieveItem(id)
		if err != nil {
			return "", fmt.Errorf("retrieving item %q: %w", id, err)
		}
		names := e.citationNames(it)
		date := e.citationDate(it, e.suffixes[id])
		if names == "" {
			cites = append(cites, date)
			continue
		}
		cites = append(cites, names+" "+date)
	}
	return e.style.CitationPrefix + strings.Join(cites, e.style.CitationDelimiter) + e.style.CitationSuffix, nil
}

// UpdateItems registers ids as the cited set, replacing any previous
// registration. The set is fetched, sorted by the style's bibliography
// sort keys, and scanned for ambiguous author-year collisions, which
// receive alphabetic year suffixes in sort order.
func (e *Engine) UpdateItems(src ItemRetriever, ids []string) error {
	e.registered = e.registered[:0]
	e.suffixes = map[string]string{}

	for _, id := range ids {
		it, err := src.RetrieveItem(id)
		if err != nil {
			return fmt.Errorf("retrieving item %q: %w", id, err)
		}
		e.registered = append(e.registered, registeredItem{
			item: it,
			keys: e.sortKeysFor(it),
		})
	}

	sort.SliceStable(e.registered, func(i, j int) bool {
		a, b := e.registered[i].keys, e.registered[j].keys
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})

	if e.style.DisambiguateAddYearSuffix {
		e.assignYearSuffixes()
	}
	return nil
}

// sortKeysFor evaluates the style's sort keys against one item.
func (e *Engine) sortKeysFor(it Item) []string {
	keys := make([]string, 0, len(e.style.SortKeys))
	for _, k := range e.style.SortKeys {
		switch {
		case k.Macro == "contributors":
			keys = append(keys, sortKeyContributors(it))
		case k.Variable == "issued":
			keys = append(keys, it.Issued.sortKey())
		case k.Variable == "title":
			keys = append(keys, strings.ToLower(it.Title))
		}
	}
	return keys
}

// assignYearSuffixes walks the registered set in sort order and appends
// "a", "b", ... to citations whose rendered author-year form collides.
func (e *Engine) assignYearSuffixes() {
	groups := map[string][]string{}
	order := []string{}
	for _, r := range e.registered {
		key := e.citationNames(r.item) + "\x00" + strconv.Itoa(r.item.Issued.Year())
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r.item.ID)
	}
	for _, key := range order {
		ids := groups[key]
		if len(ids) < 2 {
			continue
		}
		for i, id := range ids {
			e.suffixes[id] = string(rune('a' + i))
		}
	}
}

// MakeBibliography renders the registered set as HTML fragments, one
// per entry, wrapped in csl-entry divs and pre-sorted by the style's
// sort keys.
func (e *Engine) MakeBibliography() (RenderOptions, []string, error) {
	opts := RenderOptions{
		EntrySpacing:  e.style.EntrySpacing,
		LineSpacing:   1,
		HangingIndent: e.style.HangingIndent,
		BibStart:      "<div class=\"csl-bib-body\">\n",
		BibEnd:        "</div>",
	}

	entries := make([]string, 0, len(e.registered))
	for _, r := range e.registered {
		opts.EntryIDs = append(opts.EntryIDs, r.item.ID)
		body := e.renderBibliographyEntry(r.item, e.suffixes[r.item.ID])
		entries = append(entries, "  <div class=\"csl-entry\">"+body+"</div>\n")
	}
	return opts, entries, nil
}
