// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package biblatex

import "strings"

// accentMap translates the common LaTeX accent commands into their
// precomposed Unicode forms. Keys are the accent command character plus
// the base letter (e.g. `'e` for \'e or \'{e}).
var accentMap = map[string]string{
	"`a": "à", "`e": "è", "`i": "ì", "`o": "ò", "`u": "ù",
	"'a": "á", "'e": "é", "'i": "í", "'o": "ó", "'u": "ú", "'y": "ý", "'c": "ć", "'n": "ń", "'s": "ś", "'z": "ź",
	"^a": "â", "^e": "ê", "^i": "î", "^o": "ô", "^u": "û",
	"\"a": "ä", "\"e": "ë", "\"i": "ï", "\"o": "ö", "\"u": "ü",
	"~a": "ã", "~n": "ñ", "~o": "õ",
	"ca": "ǎ", "cc": "ç", "ce": "ě", "cs": "š", "cz": "ž",
	"va": "ǎ", "vc": "č", "ve": "ě", "vs": "š", "vz": "ž",
	"`A": "À", "`E": "È", "`O": "Ò", "`U": "Ù",
	"'A": "Á", "'E": "É", "'I": "Í", "'O": "Ó", "'U": "Ú",
	"\"A": "Ä", "\"O": "Ö", "\"U": "Ü",
	"~N": "Ñ", "~O": "Õ",
	"cC": "Ç", "vS": "Š", "vZ": "Ž",
	"oa": "å", "oA": "Å",
}

// textCommands translates argument-less LaTeX text commands.
var textCommands = map[string]string{
	"\\&":             "&",
	"\\%":             "%",
	"\\$":             "$",
	"\\_":             "_",
	"\\#":             "#",
	"\\ss":            "ß",
	"\\ae":            "æ",
	"\\AE":            "Æ",
	"\\o":             "ø",
	"\\O":             "Ø",
	"\\textbackslash": "\\",
	"\\textendash":    "–",
	"\\textemdash":    "—",
	"\\ldots":         "…",
	"\\dots":          "…",
}

// DecodeLaTeX converts LaTeX markup in a field value to plain text:
// accent commands, special characters, dashes, non-breaking spaces, and
// grouping braces. It is intentionally partial; unknown commands keep
// their argument text.
func DecodeLaTeX(s string) string {
	if !strings.ContainsAny(s, "\\{}~-") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		c := s[i]
		switch c {
		case '\\':
			n, ok := decodeCommand(s[i:], &b)
			if ok {
				i += n
				continue
			}
			// Unknown command: drop the backslash, keep the name.
			i++
		case '{', '}':
			i++
		case '~':
			b.WriteByte(' ')
			i++
		case '-':
			if strings.HasPrefix(s[i:], "---") {
				b.WriteString("—")
				i += 3
			} else if strings.HasPrefix(s[i:], "--") {
				b.WriteString("–")
				i += 2
			} else {
				b.WriteByte('-')
				i++
			}
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// decodeCommand attempts to decode one backslash command at the start of
// s, writing the replacement to b and returning the number of input bytes
// consumed.
func decodeCommand(s string, b *strings.Builder) (int, bool) {
	// Accent commands: \'e, \'{e}, \"{u}, \c{c}, \v{s}, ...
	if len(s) >= 3 {
		acc := s[1]
		rest := s[2:]
		letter := byte(0)
		consumed := 0
		if rest[0] == '{' && len(rest) >= 3 && rest[2] == '}' {
			letter = rest[1]
			consumed = 5
		} else if isLetter(rest[0]) || acc == '`' || acc == '\'' || acc == '^' || acc == '"' || acc == '~' {
			letter = rest[0]
			consumed = 3
		}
		if letter != 0 {
			if rep, ok := accentMap[string(acc)+string(letter)]; ok {
				b.WriteString(rep)
				return consumed, true
			}
		}
	}

	// Text commands, longest match first.
	for name, rep := range textCommands {
		if strings.HasPrefix(s, name) {
			// Word-like commands must not swallow a following letter
			// (\o vs \omega is not our problem, but \oe is).
			end := len(name)
			if isLetter(name[len(name)-1]) && end < len(s) && isLetter(s[end]) {
				continue
			}
			b.WriteString(rep)
			return end, true
		}
	}
	return 0, false
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
