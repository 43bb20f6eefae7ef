// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package biblatex parses BibLaTeX (.bib) source text into structured
// records. The parser is deliberately forgiving: a malformed entry is
// reported as a warning and skipped, and parsing resumes at the next
// entry, so one bad record never discards an otherwise valid library.
package biblatex

import (
	"fmt"
	"strings"
)

// Name is one structured creator name. Literal is set for corporate or
// otherwise unsplittable names ("{Acme Corp}") and takes precedence over
// the part fields.
type Name struct {
	Given   string
	Family  string
	Prefix  string
	Suffix  string
	Literal string
}

// Record is one parsed BibLaTeX entry. Field values are arrays because
// BibLaTeX permits field repetition; creator fields additionally appear
// in Creators, parsed into structured names.
type Record struct {
	Key      string
	Type     string
	Fields   map[string][]string
	Creators map[string][]Name
}

// creatorFields lists the role fields whose values are name lists.
var creatorFields = map[string]bool{
	"author":     true,
	"editor":     true,
	"translator": true,
	"bookauthor": true,
	"holder":     true,
}

// ParseResult carries everything a load produces: the successfully parsed
// records, one warning per skipped entry, and a fatal error when the
// parser could not resynchronize. Records is valid even when Fatal is set.
type ParseResult struct {
	Records  []Record
	Warnings []string
	Fatal    error
}

// Parse reads BibLaTeX source and returns all well-formed entries.
// @comment and @preamble blocks are ignored; @string abbreviations are
// collected and substituted into unquoted field values.
func Parse(src string) ParseResult {
	p := &parser{src: src, strings: map[string]string{}}
	return p.run()
}

type parser struct {
	src     string
	pos     int
	strings map[string]string
}

func (p *parser) run() ParseResult {
	var res ParseResult
	for {
		if !p.seek('@') {
			return res
		}
		start := p.pos
		p.pos++ // consume '@'
		kind := strings.ToLower(p.ident())

		switch kind {
		case "comment", "preamble":
			if err := p.skipBlock(); err != nil {
				res.Fatal = fmt.Errorf("at offset %d: %w", start, err)
				return res
			}
		case "string":
			if err := p.parseString(); err != nil {
				if !p.resync() {
					res.Fatal = fmt.Errorf("at offset %d: %w", start, err)
					return res
				}
				res.Warnings = append(res.Warnings, fmt.Sprintf("skipped @string at offset %d: %v", start, err))
			}
		case "":
			// Stray '@' in prose; keep scanning.
		default:
			rec, err := p.parseEntry(kind)
			if err != nil {
				if !p.resync() {
					res.Fatal = fmt.Errorf("entry at offset %d: %w", start, err)
					return res
				}
				res.Warnings = append(res.Warnings, fmt.Sprintf("skipped malformed @%s entry at offset %d: %v", kind, start, err))
				continue
			}
			res.Records = append(res.Records, rec)
		}
	}
}

// seek advances to the next occurrence of c, returning false at EOF.
func (p *parser) seek(c byte) bool {
	for p.pos < len(p.src) {
		if p.src[p.pos] == c {
			return true
		}
		p.pos++
	}
	return false
}

// resync skips forward to the start of the next entry so parsing can
// continue after a malformed one. Returns false when no further entry
// exists, which the caller treats as fatal.
func (p *parser) resync() bool {
	for p.pos < len(p.src) {
		if p.src[p.pos] == '@' {
			return true
		}
		p.pos++
	}
	return false
}

func (p *parser) skipWS() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

// ident reads an alphanumeric identifier (also allowing - _ : .).
func (p *parser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
			c == '-' || c == '_' || c == ':' || c == '.' || c == '+' || c == '/' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

// skipBlock consumes a balanced {...} or (...) group.
func (p *parser) skipBlock() error {
	p.skipWS()
	if p.pos >= len(p.src) {
		return fmt.Errorf("unexpected end of input")
	}
	open := p.src[p.pos]
	var close byte
	switch open {
	case '{':
		close = '}'
	case '(':
		close = ')'
	default:
		return fmt.Errorf("expected block after @comment/@preamble, found %q", open)
	}
	depth := 0
	for ; p.pos < len(p.src); p.pos++ {
		switch p.src[p.pos] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				p.pos++
				return nil
			}
		}
	}
	return fmt.Errorf("unterminated block")
}

// parseString handles @string{name = value}.
func (p *parser) parseString() error {
	p.skipWS()
	if p.pos >= len(p.src) || (p.src[p.pos] != '{' && p.src[p.pos] != '(') {
		return fmt.Errorf("expected '{' after @string")
	}
	close := byte('}')
	if p.src[p.pos] == '(' {
		close = ')'
	}
	p.pos++
	p.skipWS()
	name := strings.ToLower(p.ident())
	if name == "" {
		return fmt.Errorf("missing @string name")
	}
	p.skipWS()
	if p.pos >= len(p.src) || p.src[p.pos] != '=' {
		return fmt.Errorf("missing '=' in @string")
	}
	p.pos++
	val, err := p.value()
	if err != nil {
		return err
	}
	p.strings[name] = val
	p.skipWS()
	if p.pos < len(p.src) && p.src[p.pos] == close {
		p.pos++
	}
	return nil
}

// parseEntry reads one @type{key, field = value, ...} entry.
func (p *parser) parseEntry(kind string) (Record, error) {
	p.skipWS()
	if p.pos >= len(p.src) || (p.src[p.pos] != '{' && p.src[p.pos] != '(') {
		return Record{}, fmt.Errorf("expected '{' after entry type")
	}
	close := byte('}')
	if p.src[p.pos] == '(' {
		close = ')'
	}
	p.pos++
	p.skipWS()

	key := p.citekey()
	if key == "" {
		return Record{}, fmt.Errorf("missing citekey")
	}

	rec := Record{
		Key:      key,
		Type:     kind,
		Fields:   map[string][]string{},
		Creators: map[string][]Name{},
	}

	for {
		p.skipWS()
		if p.pos >= len(p.src) {
			return Record{}, fmt.Errorf("unterminated entry %q", key)
		}
		switch p.src[p.pos] {
		case close:
			p.pos++
			return rec, nil
		case ',':
			p.pos++
			continue
		}

		field := strings.ToLower(p.ident())
		if field == "" {
			return Record{}, fmt.Errorf("entry %q: expected field name, found %q", key, p.src[p.pos])
		}
		p.skipWS()
		if p.pos >= len(p.src) || p.src[p.pos] != '=' {
			return Record{}, fmt.Errorf("entry %q: missing '=' after field %q", key, field)
		}
		p.pos++
		raw, err := p.value()
		if err != nil {
			return Record{}, fmt.Errorf("entry %q, field %q: %w", key, field, err)
		}

		val := DecodeLaTeX(raw)
		rec.Fields[field] = append(rec.Fields[field], val)
		if creatorFields[field] {
			rec.Creators[field] = append(rec.Creators[field], ParseNames(raw)...)
		}
	}
}

// citekey reads the entry key, which permits more punctuation than a
// field identifier.
func (p *parser) citekey() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ',' || c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '}' || c == ')' {
			break
		}
		p.pos++
	}
	return strings.TrimSpace(p.src[start:p.pos])
}

// value reads one field value: a balanced {...} group, a "..." string,
// a bare number, or a @string abbreviation, possibly concatenated with #.
func (p *parser) value() (string, error) {
	var parts []string
	for {
		p.skipWS()
		if p.pos >= len(p.src) {
			return "", fmt.Errorf("unexpected end of input in value")
		}
		switch c := p.src[p.pos]; {
		case c == '{':
			v, err := p.bracedValue()
			if err != nil {
				return "", err
			}
			parts = append(parts, v)
		case c == '"':
			v, err := p.quotedValue()
			if err != nil {
				return "", err
			}
			parts = append(parts, v)
		case c >= '0' && c <= '9':
			parts = append(parts, p.ident())
		default:
			name := strings.ToLower(p.ident())
			if name == "" {
				return "", fmt.Errorf("expected value, found %q", c)
			}
			if v, ok := p.strings[name]; ok {
				parts = append(parts, v)
			} else {
				// Unknown abbreviation: keep the identifier itself.
				parts = append(parts, name)
			}
		}
		p.skipWS()
		if p.pos < len(p.src) && p.src[p.pos] == '#' {
			p.pos++
			continue
		}
		return strings.Join(parts, ""), nil
	}
}

// bracedValue consumes {...} and returns the inner text with the outer
// braces removed but inner grouping braces preserved.
func (p *parser) bracedValue() (string, error) {
	depth := 0
	start := p.pos + 1
	for ; p.pos < len(p.src); p.pos++ {
		switch p.src[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				v := p.src[start:p.pos]
				p.pos++
				return v, nil
			}
		}
	}
	return "", fmt.Errorf("unterminated braced value")
}

func (p *parser) quotedValue() (string, error) {
	p.pos++ // opening quote
	start := p.pos
	depth := 0
	for ; p.pos < len(p.src); p.pos++ {
		switch p.src[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			if depth == 0 {
				v := p.src[start:p.pos]
				p.pos++
				return v, nil
			}
		}
	}
	return "", fmt.Errorf("unterminated quoted value")
}
