// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"strconv"
	"strings"
	"time"
)

// dateFromParts builds a UTC date from a [year, month?, day?] triple.
// Month and day default to the earliest valid value so the UTC year is
// always correct regardless of the reader's timezone.
func dateFromParts(parts []int) *time.Time {
	if len(parts) == 0 || parts[0] == 0 {
		return nil
	}
	year := parts[0]
	month := time.January
	day := 1
	if len(parts) > 1 && parts[1] >= 1 && parts[1] <= 12 {
		month = time.Month(parts[1])
	}
	if len(parts) > 2 && parts[2] >= 1 && parts[2] <= 31 {
		day = parts[2]
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

// parseDateField parses a BibLaTeX date value: an ISO-style
// year[-month[-day]] prefix, with ranges ("2006/2008") truncated to
// their start. Returns nil when no leading year is present.
func parseDateField(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		raw = raw[:i]
	}

	fields := strings.SplitN(raw, "-", 3)
	parts := make([]int, 0, 3)
	for _, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			break
		}
		parts = append(parts, v)
	}
	return dateFromParts(parts)
}
