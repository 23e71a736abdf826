// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package doi

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"bare doi", "10.1234/abc.5", "10.1234/abc.5", true},
		{"embedded in prose", "see 10.1234/abc.5 for details", "10.1234/abc.5", true},
		{"doi.org url", "https://doi.org/10.1103/PhysRev.70.1", "10.1103/PhysRev.70.1", true},
		{"publisher url", "https://journals.aps.org/prl/abstract/10.1103/PhysRevLett.116.061102", "10.1103/PhysRevLett.116.061102", true},
		{"first of two", "10.1000/first and 10.2000/second", "10.1000/first", true},
		{"label prefix", "DOI:10.1038/nature14539", "10.1038/nature14539", true},
		{"missing suffix", "10.1234/", "", false},
		{"missing registrant digits", "10./abc", "", false},
		{"no doi", "https://example.com/paper", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Extract(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
