// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"fmt"

	"github.com/pdiddy/citelib/internal/biblatex"
	"github.com/pdiddy/citelib/pkg/types"
)

// Load parses a raw export in the given format. For BibLaTeX, malformed
// entries are reported in warnings and skipped, and a fatal parse error
// is returned alongside whatever entries were parsed before it; the
// entries slice is always usable. For CSL-JSON a parse failure is fatal
// and yields no entries.
func Load(raw string, format types.LibraryFormat) (entries []*Entry, warnings []string, err error) {
	switch format {
	case types.FormatCSLJSON:
		entries, err = LoadCSL([]byte(raw))
		return entries, nil, err
	case types.FormatBibLaTeX:
		res := biblatex.Parse(raw)
		entries = make([]*Entry, 0, len(res.Records))
		for _, rec := range res.Records {
			entries = append(entries, entryFromBibLaTeX(rec))
		}
		return entries, res.Warnings, res.Fatal
	default:
		return nil, nil, fmt.Errorf("unknown library format %q", format)
	}
}
