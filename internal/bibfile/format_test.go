// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpaceInitials(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"dotted run", "J.R.R. Tolkien", "J. R. R. Tolkien"},
		{"already spaced", "J. R. R. Tolkien", "J. R. R. Tolkien"},
		{"bare capitals", "AB Person", "A B Person"},
		{"surname first", "Tolkien, J.R.R.", "Tolkien, J. R. R."},
		{"camel surname kept", "McDonald, Ronald", "McDonald, Ronald"},
		{"whitespace collapsed", "  Ada   Lovelace ", "Ada Lovelace"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SpaceInitials(tt.input))
		})
	}
}

func TestFormatEntryAuthors(t *testing.T) {
	tests := []struct {
		name       string
		author     string
		maxAuthors int
		want       string
	}{
		{"truncated to one", "J. R. R. Tolkien and Another AB Person", 1, "J. R. R. Tolkien and others"},
		{"within limit", "J.R.R. Tolkien and Another AB Person", 2, "J. R. R. Tolkien and Another A B Person"},
		{"no limit", "A One and B Two and C Three", 0, "A One and B Two and C Three"},
		{"truncated to two", "A One and B Two and C Three", 2, "A One and B Two and others"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Entry{Type: "article", Key: "k", Author: tt.author}
			got := FormatEntry(e, FormatOptions{Indent: 2, MaxAuthors: tt.maxAuthors})
			assert.Equal(t, "@article{k,\n  author={"+tt.want+"},\n}\n", got)
		})
	}
}

func TestFormatEntryTitleCollapsed(t *testing.T) {
	e := Entry{
		Type:  "article",
		Key:   "k",
		Title: "Can Quantum-Mechanical Description\n      of Physical Reality\n\tBe Considered Complete?",
	}
	got := FormatEntry(e, DefaultFormatOptions())
	assert.Equal(t, "@article{k,\n  title=\"{Can Quantum-Mechanical Description of Physical Reality Be Considered Complete?}\",\n}\n", got)
}

func TestFormatEntryFullLayout(t *testing.T) {
	e := Entry{
		Type:      "article",
		Key:       "Einstein_1935",
		Title:     "Can Quantum-Mechanical Description of Physical Reality Be Considered Complete?",
		Author:    "Einstein, A. and Podolsky, B. and Rosen, N.",
		Journal:   "Physical Review",
		Year:      "1935",
		Volume:    "47",
		Number:    "10",
		DOI:       "10.1103/physrev.47.777",
		Publisher: "American Physical Society (APS)",
	}
	want := "@article{Einstein_1935,\n" +
		"  title=\"{Can Quantum-Mechanical Description of Physical Reality Be Considered Complete?}\",\n" +
		"  author={Einstein, A. and Podolsky, B. and Rosen, N.},\n" +
		"  journal=\"{Physical Review}\",\n" +
		"  year={1935},\n" +
		"  volume={47},\n" +
		"  number={10},\n" +
		"  pages={777},\n" +
		"  doi={10.1103/physrev.47.777},\n" +
		"}\n"
	assert.Equal(t, want, FormatEntry(e, DefaultFormatOptions()))
}

func TestFormatEntryQuoting(t *testing.T) {
	e := Entry{Type: "article", Key: "k", Title: "{DNA} Repair", Journal: "{Nature}"}
	got := FormatEntry(e, DefaultFormatOptions())
	assert.Equal(t, "@article{k,\n  title=\"{{DNA} Repair}\",\n  journal=\"{Nature}\",\n}\n", got)
}

func TestFormatEntryIndentAndComment(t *testing.T) {
	e := Entry{Type: "book", Key: "k", Year: "2001", Comment: "checked against the printed copy"}
	got := FormatEntry(e, FormatOptions{Indent: 4})
	assert.Equal(t, "% checked against the printed copy\n@book{k,\n    year={2001},\n}\n", got)
}

func TestFormatEntryExcludeIsInert(t *testing.T) {
	e := Entry{Type: "article", Key: "k", Year: "2001", DOI: "10.1/x"}
	with := FormatEntry(e, FormatOptions{Indent: 2, Exclude: []string{"doi", "year"}})
	without := FormatEntry(e, FormatOptions{Indent: 2})
	assert.Equal(t, without, with)
	assert.Contains(t, with, "doi={10.1/x}")
}

func TestFormatEntryDoesNotMutateInput(t *testing.T) {
	e := Entry{Type: "article", Key: "k", Title: "A\n  B", Author: "J.R. Doe"}
	FormatEntry(e, DefaultFormatOptions())
	assert.Equal(t, "A\n  B", e.Title)
	assert.Equal(t, "J.R. Doe", e.Author)
}
