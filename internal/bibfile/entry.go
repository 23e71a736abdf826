// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibfile loads BibTeX databases and rewrites their entries in a
// fixed field order and quoting style.
package bibfile

import (
	"fmt"
	"io"
	"strings"

	"github.com/nickng/bibtex"
)

// Entry is one BibTeX record. Empty fields are treated as absent and are
// left out of formatted output.
type Entry struct {
	Type      string `json:"type" yaml:"type"`
	Key       string `json:"key" yaml:"key"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Author    string `json:"author,omitempty" yaml:"author,omitempty"`
	Journal   string `json:"journal,omitempty" yaml:"journal,omitempty"`
	Year      string `json:"year,omitempty" yaml:"year,omitempty"`
	Volume    string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Number    string `json:"number,omitempty" yaml:"number,omitempty"`
	Pages     string `json:"pages,omitempty" yaml:"pages,omitempty"`
	DOI       string `json:"doi,omitempty" yaml:"doi,omitempty"`
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`

	// arXiv records carry these instead of journal details.
	Eprint        string `json:"eprint,omitempty" yaml:"eprint,omitempty"`
	ArchivePrefix string `json:"archive_prefix,omitempty" yaml:"archive_prefix,omitempty"`
	PrimaryClass  string `json:"primary_class,omitempty" yaml:"primary_class,omitempty"`

	// Comment is written as a "% ..." line above the record.
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// ParseEntries reads every entry of a BibTeX database in source order.
// @comment and @preamble blocks are skipped and @string definitions are
// applied to the entries after them. A "%" line directly above an entry
// becomes its Comment unless the entry has a comment field.
//
// Each entry is checked by the bibtex parser on its own, so a construct the
// parser stops at cannot hide the entries that follow. Field values are
// taken from the source text, which keeps inner braces and resolves '#'
// concatenation.
func ParseEntries(r io.Reader) ([]Entry, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading bibtex: %w", err)
	}
	blocks, err := splitBlocks(string(src))
	if err != nil {
		return nil, err
	}

	var (
		entries []Entry
		defs    strings.Builder
		macros  = make(map[string]string)
	)
	for _, b := range blocks {
		switch b.kind {
		case "comment", "preamble":
			continue
		case "string":
			for name, v := range scanFields(blockInner(b.text), macros) {
				macros[name] = v
			}
			defs.WriteString(b.text)
			defs.WriteByte('\n')
			continue
		}
		e, err := parseBlock(defs.String(), b, macros)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// parseBlock builds the Entry for one entry block. The type, key, and any
// field the source scan missed come from the bibtex parser; when the parser
// cannot read the block they come from the block header instead.
func parseBlock(defs string, b block, macros map[string]string) (Entry, error) {
	key, body := splitHeader(b)
	e := Entry{Type: b.kind, Key: key, Comment: b.comment}

	db, err := bibtex.Parse(strings.NewReader(defs + b.text))
	if err != nil {
		return Entry{}, fmt.Errorf("parsing bibtex entry %q: %w", key, err)
	}

	raw := scanFields(body, macros)
	if len(db.Entries) == 1 {
		be := db.Entries[0]
		e.Type = strings.ToLower(be.Type)
		e.Key = be.CiteName
		for name, value := range be.Fields {
			name = strings.ToLower(name)
			if _, ok := raw[name]; !ok && value != nil {
				raw[name] = value.String()
			}
		}
	}
	for name, v := range raw {
		e.set(name, v)
	}
	return e, nil
}

func (e *Entry) set(name, v string) {
	switch name {
	case "title":
		e.Title = v
	case "author":
		e.Author = v
	case "journal":
		e.Journal = v
	case "year":
		e.Year = v
	case "volume":
		e.Volume = v
	case "number":
		e.Number = v
	case "pages":
		e.Pages = v
	case "doi":
		e.DOI = v
	case "publisher":
		e.Publisher = v
	case "eprint":
		e.Eprint = v
	case "archiveprefix":
		e.ArchivePrefix = v
	case "primaryclass":
		e.PrimaryClass = v
	case "comment", "_comment":
		e.Comment = v
	}
}
