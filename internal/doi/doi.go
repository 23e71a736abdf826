// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package doi finds Digital Object Identifiers embedded in free text such as
// URLs and scraped page content.
package doi

import "regexp"

// Pattern matches a DOI anywhere in a string: the "10." directory prefix,
// a numeric registrant code, a slash, and a non-whitespace suffix
// (e.g. "10.1103/PhysRev.70.1").
var Pattern = regexp.MustCompile(`10\.\d+/\S+`)

// Extract returns the first DOI found in text.
func Extract(text string) (string, bool) {
	m := Pattern.FindString(text)
	if m == "" {
		return "", false
	}
	return m, true
}
