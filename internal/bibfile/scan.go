// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibfile

import (
	"fmt"
	"strings"
)

// block is one @-block of a database as written in the source.
type block struct {
	kind string // lowercased block type: article, string, comment, ...
	text string // from '@' through the closing delimiter

	// comment is the last "%" line above the block, with only blank lines
	// between the two.
	comment string
}

// splitBlocks cuts src into @-blocks in source order. Outside blocks, a '%'
// starts a comment running to the end of the line and any other text is
// ignored, as BibTeX itself does.
func splitBlocks(src string) ([]block, error) {
	var (
		blocks  []block
		comment string
	)
	for i := 0; i < len(src); {
		switch c := src[i]; {
		case c == '%':
			line, rest, _ := strings.Cut(src[i+1:], "\n")
			comment = strings.TrimSpace(line)
			i = len(src) - len(rest)
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '@':
			kind, open, ok := blockOpen(src, i)
			if !ok {
				comment = ""
				i++
				continue
			}
			end, err := blockEnd(src, open)
			if err != nil {
				return nil, fmt.Errorf("parsing bibtex: @%s block at line %d: %w", kind, lineOf(src, i), err)
			}
			blocks = append(blocks, block{kind: kind, text: src[i:end], comment: comment})
			comment = ""
			i = end
		default:
			comment = ""
			i++
		}
	}
	return blocks, nil
}

// blockOpen reads "@type {" starting at src[at] and returns the lowercased
// type and the offset of the opening delimiter.
func blockOpen(src string, at int) (kind string, open int, ok bool) {
	i := at + 1
	for i < len(src) && isIdentByte(src[i]) {
		i++
	}
	kind = strings.ToLower(src[at+1 : i])
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	if kind == "" || i >= len(src) || (src[i] != '{' && src[i] != '(') {
		return "", 0, false
	}
	return kind, i, true
}

// blockEnd returns the offset just past the delimiter that closes the
// block opened at src[open].
func blockEnd(src string, open int) (int, error) {
	closer := byte('}')
	if src[open] == '(' {
		closer = ')'
	}
	depth := 0
	for i := open + 1; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			if depth == 0 && closer == '}' {
				return i + 1, nil
			}
			depth--
		case ')':
			if depth == 0 && closer == ')' {
				return i + 1, nil
			}
		}
	}
	return 0, fmt.Errorf("missing closing %q", closer)
}

// splitHeader returns the citation key of an entry block and the text of
// its fields.
func splitHeader(b block) (key, body string) {
	inner := blockInner(b.text)
	key, body, _ = strings.Cut(inner, ",")
	return strings.TrimSpace(key), body
}

// blockInner strips "@type{" and the closing delimiter.
func blockInner(text string) string {
	open := strings.IndexAny(text, "{(")
	return text[open+1 : len(text)-1]
}

// scanFields reads "name = value" pairs from body. Values keep their
// source text: the outer braces or quotes are removed, inner braces are
// kept, parts joined with '#' are concatenated, and bare words are
// replaced by their @string definition when one exists. Names are
// lowercased.
func scanFields(body string, macros map[string]string) map[string]string {
	fields := make(map[string]string)
	s := &fieldScanner{src: body}
	for {
		s.skip(" \t\r\n,")
		if s.done() {
			return fields
		}
		name, ok := s.name()
		if !ok {
			return fields
		}
		fields[name] = s.value(macros)
	}
}

type fieldScanner struct {
	src string
	pos int
}

func (s *fieldScanner) done() bool { return s.pos >= len(s.src) }

func (s *fieldScanner) skip(set string) {
	for !s.done() && strings.IndexByte(set, s.src[s.pos]) >= 0 {
		s.pos++
	}
}

// name reads a field name and the '=' after it.
func (s *fieldScanner) name() (string, bool) {
	eq := strings.IndexByte(s.src[s.pos:], '=')
	if eq < 0 {
		return "", false
	}
	name := strings.ToLower(strings.TrimSpace(s.src[s.pos : s.pos+eq]))
	s.pos += eq + 1
	return name, name != ""
}

func (s *fieldScanner) value(macros map[string]string) string {
	var parts []string
	for {
		s.skip(" \t\r\n")
		if s.done() {
			break
		}
		switch s.src[s.pos] {
		case '{':
			parts = append(parts, s.delimited('}'))
		case '"':
			parts = append(parts, s.delimited('"'))
		default:
			word := s.word()
			if v, ok := macros[strings.ToLower(word)]; ok {
				word = v
			}
			parts = append(parts, word)
		}
		s.skip(" \t\r\n")
		if s.done() || s.src[s.pos] != '#' {
			break
		}
		s.pos++
	}
	return strings.Join(parts, "")
}

// delimited reads from an opening '{' or '"' to its closer at brace depth
// zero and returns the text between them.
func (s *fieldScanner) delimited(closer byte) string {
	start := s.pos + 1
	depth := 0
	for i := start; i < len(s.src); i++ {
		c := s.src[i]
		switch {
		case c == closer && depth == 0:
			s.pos = i + 1
			return s.src[start:i]
		case c == '{':
			depth++
		case c == '}':
			depth--
		}
	}
	s.pos = len(s.src)
	return s.src[start:]
}

func (s *fieldScanner) word() string {
	start := s.pos
	for !s.done() && strings.IndexByte(" \t\r\n,#", s.src[s.pos]) < 0 {
		s.pos++
	}
	return s.src[start:s.pos]
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '-' || c == ':' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func lineOf(src string, at int) int {
	return strings.Count(src[:at], "\n") + 1
}
