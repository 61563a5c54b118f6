package extract

import (
	"strconv"
	"strings"
)

// pageText recovers the text shown by a decoded page content stream. It
// collects string operands and emits them when a text-showing operator
// (Tj, TJ, ' or ") consumes them; operands of any other operator are
// discarded. Text-positioning operators become line breaks. Fonts with
// non-standard encodings yield whatever bytes the stream carries; invoices
// produced by mainstream generators are overwhelmingly WinAnsi/ASCII.
func pageText(content []byte) string {
	var out strings.Builder
	var pending []string
	var last byte = '\n'

	flush := func() {
		for _, s := range pending {
			if s != "" {
				out.WriteString(s)
				last = s[len(s)-1]
			}
		}
		pending = pending[:0]
	}

	newline := func() {
		if last != '\n' {
			out.WriteString("\n")
			last = '\n'
		}
	}

	i := 0
	n := len(content)
	for i < n {
		c := content[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0:
			i++
		case c == '%':
			for i < n && content[i] != '\n' && content[i] != '\r' {
				i++
			}
		case c == '(':
			s, next := literalString(content, i)
			pending = append(pending, s)
			i = next
		case c == '<':
			if i+1 < n && content[i+1] == '<' {
				i += 2
				continue
			}
			s, next := hexString(content, i)
			if printable(s) {
				pending = append(pending, s)
			}
			i = next
		case c == '[' || c == ']' || c == '{' || c == '}' || c == '>':
			i++
		case c == '/':
			i++
			for i < n && !delimiter(content[i]) {
				i++
			}
		default:
			start := i
			for i < n && !delimiter(content[i]) {
				i++
			}
			tok := string(content[start:i])
			switch tok {
			case "Tj", "TJ":
				flush()
			case "'", "\"":
				newline()
				flush()
			case "Td", "TD", "T*", "ET":
				newline()
				pending = pending[:0]
			default:
				if _, err := strconv.ParseFloat(tok, 64); err != nil {
					// A real operator: its string operands were not text.
					pending = pending[:0]
				}
			}
		}
	}
	return out.String()
}

// literalString parses a parenthesized PDF string starting at content[i]=='('
// and returns the decoded string plus the index past the closing paren.
// Unescaped parens nest per the PDF spec.
func literalString(content []byte, i int) (string, int) {
	var b strings.Builder
	depth := 0
	n := len(content)
	for ; i < n; i++ {
		c := content[i]
		switch c {
		case '(':
			depth++
			if depth > 1 {
				b.WriteByte(c)
			}
		case ')':
			depth--
			if depth == 0 {
				return b.String(), i + 1
			}
			b.WriteByte(c)
		case '\\':
			i++
			if i >= n {
				return b.String(), i
			}
			switch e := content[i]; e {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'b', 'f':
				// rarely meaningful in extracted text
			case '\n':
				// line continuation
			case '\r':
				if i+1 < n && content[i+1] == '\n' {
					i++
				}
			case '0', '1', '2', '3', '4', '5', '6', '7':
				v := int(e - '0')
				for k := 0; k < 2 && i+1 < n && content[i+1] >= '0' && content[i+1] <= '7'; k++ {
					i++
					v = v*8 + int(content[i]-'0')
				}
				b.WriteByte(byte(v))
			default:
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), i
}

// hexString parses a <...> hex string starting at content[i]=='<' and
// returns the decoded bytes plus the index past the closing bracket.
func hexString(content []byte, i int) (string, int) {
	var b strings.Builder
	var hi byte
	haveHi := false
	n := len(content)
	i++
	for ; i < n; i++ {
		c := content[i]
		if c == '>' {
			i++
			break
		}
		v, ok := hexVal(c)
		if !ok {
			continue
		}
		if haveHi {
			b.WriteByte(hi<<4 | v)
			haveHi = false
		} else {
			hi = v
			haveHi = true
		}
	}
	if haveHi {
		// odd digit count: final digit implies a trailing zero
		b.WriteByte(hi << 4)
	}
	return b.String(), i
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func delimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0, '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// printable reports whether s looks like renderable single-byte text rather
// than CID-encoded glyph indices.
func printable(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			continue
		}
		if r < 0x20 || r > 0xFE {
			return false
		}
	}
	return true
}
