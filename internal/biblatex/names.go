// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package biblatex

import "strings"

// ParseNames splits a raw creator field value on top-level " and " and
// parses each segment into a structured Name. A segment wrapped entirely
// in braces is treated as a literal (corporate) name.
func ParseNames(raw string) []Name {
	var names []Name
	for _, seg := range splitTopLevel(raw, " and ") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		names = append(names, parseName(seg))
	}
	return names
}

// splitTopLevel splits s on sep, ignoring occurrences inside braces.
func splitTopLevel(s, sep string) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 && strings.HasPrefix(s[i:], sep) {
				parts = append(parts, s[last:i])
				i += len(sep) - 1
				last = i + 1
			}
		}
	}
	return append(parts, s[last:])
}

// parseName handles the three BibLaTeX name syntaxes:
//
//	First von Last
//	von Last, First
//	von Last, Jr, First
//
// plus the fully braced literal form.
func parseName(seg string) Name {
	if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") && balancedOuter(seg) {
		return Name{Literal: DecodeLaTeX(seg[1 : len(seg)-1])}
	}

	commas := splitTopLevel(seg, ",")
	for i := range commas {
		commas[i] = strings.TrimSpace(commas[i])
	}

	switch len(commas) {
	case 1:
		// First von Last: the family name starts at the last token, or at
		// the first lowercase ("von") token if one exists.
		tokens := strings.Fields(seg)
		if len(tokens) == 1 {
			return Name{Family: DecodeLaTeX(tokens[0])}
		}
		vonStart, vonEnd := -1, -1
		for i, tok := range tokens[:len(tokens)-1] {
			if isLowerInitial(tok) {
				if vonStart < 0 {
					vonStart = i
				}
				vonEnd = i
			}
		}
		if vonStart < 0 {
			return Name{
				Given:  DecodeLaTeX(strings.Join(tokens[:len(tokens)-1], " ")),
				Family: DecodeLaTeX(tokens[len(tokens)-1]),
			}
		}
		return Name{
			Given:  DecodeLaTeX(strings.Join(tokens[:vonStart], " ")),
			Prefix: DecodeLaTeX(strings.Join(tokens[vonStart:vonEnd+1], " ")),
			Family: DecodeLaTeX(strings.Join(tokens[vonEnd+1:], " ")),
		}
	case 2:
		prefix, family := splitVon(commas[0])
		return Name{
			Given:  DecodeLaTeX(commas[1]),
			Prefix: prefix,
			Family: family,
		}
	default:
		prefix, family := splitVon(commas[0])
		return Name{
			Given:  DecodeLaTeX(strings.Join(commas[2:], ", ")),
			Prefix: prefix,
			Family: family,
			Suffix: DecodeLaTeX(commas[1]),
		}
	}
}

// splitVon separates leading lowercase particles from the family name.
func splitVon(s string) (prefix, family string) {
	tokens := strings.Fields(s)
	i := 0
	for i < len(tokens)-1 && isLowerInitial(tokens[i]) {
		i++
	}
	return DecodeLaTeX(strings.Join(tokens[:i], " ")), DecodeLaTeX(strings.Join(tokens[i:], " "))
}

func isLowerInitial(tok string) bool {
	for _, r := range tok {
		if r == '{' || r == '\\' {
			continue
		}
		return r >= 'a' && r <= 'z'
	}
	return false
}

// balancedOuter reports whether the outermost braces of s wrap the whole
// string, i.e. "{Acme Corp}" but not "{A}{B}".
func balancedOuter(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}
