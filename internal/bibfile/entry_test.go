// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, src string) Entry {
	t.Helper()
	entries, err := ParseEntries(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	return entries[0]
}

func TestParseEntriesFieldValues(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field func(Entry) string
		want  string
	}{
		{
			name:  "quoted value keeps inner braces",
			src:   `@article{k1, title = "Quoted {Title}"}`,
			field: func(e Entry) string { return e.Title },
			want:  "Quoted {Title}",
		},
		{
			name:  "braced value keeps inner braces",
			src:   `@article{k1, title = {{Exact Title}}}`,
			field: func(e Entry) string { return e.Title },
			want:  "{Exact Title}",
		},
		{
			name:  "quoted concatenation",
			src:   `@article{k1, title = "A" # " B"}`,
			field: func(e Entry) string { return e.Title },
			want:  "A B",
		},
		{
			name:  "braced concatenation",
			src:   `@article{k1, title = {A} # {B}}`,
			field: func(e Entry) string { return e.Title },
			want:  "AB",
		},
		{
			name:  "bare number",
			src:   `@article{k1, year = 2020}`,
			field: func(e Entry) string { return e.Year },
			want:  "2020",
		},
		{
			name: "string macro",
			src: `@string{aps = "American Physical Society"}
@article{k1, publisher = aps # " (APS)"}`,
			field: func(e Entry) string { return e.Publisher },
			want:  "American Physical Society (APS)",
		},
		{
			name:  "mixed case field name",
			src:   `@Article{k1, DOI = {10.1103/physrev.47.777}}`,
			field: func(e Entry) string { return e.DOI },
			want:  "10.1103/physrev.47.777",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := parseOne(t, tt.src)
			assert.Equal(t, "k1", e.Key)
			assert.Equal(t, "article", e.Type)
			assert.Equal(t, tt.want, tt.field(e))
		})
	}
}

func TestParseEntriesPercentComments(t *testing.T) {
	t.Run("leading encoding line", func(t *testing.T) {
		entries, err := ParseEntries(strings.NewReader("% Encoding: UTF-8\n\n@article{a, title={A}}\n\n@article{b, title={B}}\n"))
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "a", entries[0].Key)
		assert.Equal(t, "Encoding: UTF-8", entries[0].Comment)
		assert.Equal(t, "b", entries[1].Key)
		assert.Empty(t, entries[1].Comment)
	})

	t.Run("comment between entries", func(t *testing.T) {
		entries, err := ParseEntries(strings.NewReader("@article{a, title={A}}\n% note\n@article{b, title={B}}\n@article{c, title={C}}"))
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, []string{"a", "b", "c"}, []string{entries[0].Key, entries[1].Key, entries[2].Key})
		assert.Equal(t, "note", entries[1].Comment)
		assert.Empty(t, entries[2].Comment)
	})

	t.Run("comment field wins over percent line", func(t *testing.T) {
		e := parseOne(t, "% above\n@article{k1, comment = {inside}}")
		assert.Equal(t, "inside", e.Comment)
	})

	t.Run("text between comment and entry detaches it", func(t *testing.T) {
		e := parseOne(t, "% above\nstray text\n@article{k1, title={T}}")
		assert.Empty(t, e.Comment)
	})
}

func TestParseEntriesSkipsNonEntryBlocks(t *testing.T) {
	src := `@preamble{"\newcommand{\noop}[1]{}"}
@comment{jabref-meta: databaseType:bibtex;}
Contact: someone@example.org
@article{k1, title={Kept}}
`
	e := parseOne(t, src)
	assert.Equal(t, "k1", e.Key)
	assert.Equal(t, "Kept", e.Title)
}

func TestParseEntriesUnterminated(t *testing.T) {
	_, err := ParseEntries(strings.NewReader("@article{a, title={A}}\n@article{b, title={B}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestScanFields(t *testing.T) {
	got := scanFields(` title = {A {B} C}, author = "X and Y",
		year = 1999,`, nil)
	assert.Equal(t, map[string]string{
		"title":  "A {B} C",
		"author": "X and Y",
		"year":   "1999",
	}, got)
}
