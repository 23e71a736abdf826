// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibfile

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// publisherFix is a corrective rule for records from one publisher whose
// DOI-derived BibTeX is known to be defective. Rules are empirical: each
// row pins the similarity threshold and substrings it was tuned with.
type publisherFix struct {
	name string

	// publisher is compared against the lowercased, blanked publisher field.
	publisher     string
	minSimilarity int

	// marker is an alternative literal match on the blanked publisher field.
	marker string

	// doiContains must appear in the DOI for the fix to apply.
	doiContains string

	apply func(Entry) Entry
}

// publisherFixes lists the known defects. APS records from doi.org lack
// pages; the article number is the last dot-separated part of the DOI
// (10.1103/physrev.70.1 -> 1).
var publisherFixes = []publisherFix{
	{
		name:          "aps-pages",
		publisher:     "american physical society",
		minSimilarity: 60,
		marker:        "APS",
		doiContains:   "physrev",
		apply:         pagesFromDOI,
	},
}

// ApplyPublisherFix returns e with the first matching publisher fix
// applied. Entries matching no fix are returned unchanged.
func ApplyPublisherFix(e Entry) Entry {
	for _, f := range publisherFixes {
		if f.matches(e) {
			return f.apply(e)
		}
	}
	return e
}

func (f publisherFix) matches(e Entry) bool {
	if e.Publisher == "" || e.DOI == "" {
		return false
	}
	blanked := blankNonAlnum(e.Publisher)
	if partialRatio(strings.ToLower(blanked), f.publisher) < f.minSimilarity &&
		!strings.Contains(blanked, f.marker) {
		return false
	}
	return strings.Contains(e.DOI, f.doiContains)
}

func pagesFromDOI(e Entry) Entry {
	parts := strings.Split(e.DOI, ".")
	e.Pages = parts[len(parts)-1]
	return e
}

// blankNonAlnum replaces every non-alphanumeric rune with a space.
func blankNonAlnum(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)
}

// partialRatio scores on a 0-100 scale how well the shorter string matches
// its best-aligned window of the longer one, using edit distance.
func partialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	s := string(short)
	best := 0
	for i := 0; i+len(short) <= len(long); i++ {
		d := levenshtein.ComputeDistance(s, string(long[i:i+len(short)]))
		score := (100*(len(short)-d) + len(short)/2) / len(short)
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}
