// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibfile

import (
	"strings"
)

const (
	authorSeparator = " and "
	truncatedAuthor = "others"
)

// FormatOptions controls FormatEntry.
type FormatOptions struct {
	// Indent is the number of spaces before each field line.
	Indent int

	// MaxAuthors truncates longer author lists, appending "others".
	// Zero or negative keeps every author.
	MaxAuthors int

	// Exclude is accepted for compatibility with existing callers. It does
	// not remove any field from the output.
	Exclude []string
}

// DefaultFormatOptions returns the options used when none are configured.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{Indent: 2, MaxAuthors: 100}
}

// outputField is one line of the fixed output layout.
type outputField struct {
	name   string
	quoted bool
	value  func(Entry) string
}

// fieldOrder is the output layout. Title and journal are quoted so their
// capitalization survives bibliography styles.
var fieldOrder = []outputField{
	{"title", true, func(e Entry) string { return e.Title }},
	{"author", false, func(e Entry) string { return e.Author }},
	{"journal", true, func(e Entry) string { return e.Journal }},
	{"year", false, func(e Entry) string { return e.Year }},
	{"volume", false, func(e Entry) string { return e.Volume }},
	{"number", false, func(e Entry) string { return e.Number }},
	{"pages", false, func(e Entry) string { return e.Pages }},
	{"doi", false, func(e Entry) string { return e.DOI }},
}

// FormatEntry renders e in the normalized layout: publisher fixes applied,
// the title on one line, author initials spaced and the list truncated to
// opts.MaxAuthors, then the fields of fieldOrder that are present, one per
// line. A comment becomes a "% ..." line above the record.
func FormatEntry(e Entry, opts FormatOptions) string {
	e = ApplyPublisherFix(e)
	e.Title = joinLines(e.Title)
	e.Author = normalizeAuthors(e.Author, opts.MaxAuthors)

	lines := []string{"@" + e.Type + "{" + e.Key}
	for _, f := range fieldOrder {
		v := f.value(e)
		if v == "" {
			continue
		}
		lines = append(lines, fieldLine(f.name, v, f.quoted))
	}

	bib := strings.Join(lines, ",\n"+strings.Repeat(" ", max(opts.Indent, 0))) + ",\n}\n"
	if e.Comment != "" {
		bib = "% " + e.Comment + "\n" + bib
	}
	return bib
}

// fieldLine renders name={v}, or name="{v}" when quoted. A quoted value that
// already carries its own braces is wrapped as-is.
func fieldLine(name, v string, quoted bool) string {
	if !quoted {
		return name + "={" + v + "}"
	}
	if strings.HasPrefix(v, "{") && strings.HasSuffix(v, "}") {
		return name + `="` + v + `"`
	}
	return name + `="{` + v + `}"`
}

// joinLines collapses a multi-line value into one line.
func joinLines(s string) string {
	if s == "" {
		return s
	}
	var parts []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

// normalizeAuthors spaces out initials in every name and truncates the list.
func normalizeAuthors(field string, maxAuthors int) string {
	if field == "" {
		return field
	}
	authors := strings.Split(field, authorSeparator)
	for i, a := range authors {
		authors[i] = SpaceInitials(a)
	}
	if maxAuthors > 0 && len(authors) > maxAuthors {
		authors = append(authors[:maxAuthors:maxAuthors], truncatedAuthor)
	}
	return strings.Join(authors, authorSeparator)
}

// SpaceInitials inserts a space before any capital letter that directly
// follows another capital or a period, then collapses whitespace:
// "J.R.R. Tolkien" -> "J. R. R. Tolkien", "JR Smith" -> "J R Smith".
func SpaceInitials(name string) string {
	var b strings.Builder
	var prev rune
	for i, r := range name {
		if i > 0 && isUpper(r) && (isUpper(prev) || prev == '.') {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
