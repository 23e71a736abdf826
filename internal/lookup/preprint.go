// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// ErrMalformedPreprint reports an arXiv API response that lacks a field
// every record needs.
var ErrMalformedPreprint = errors.New("malformed arXiv metadata")

const archivePrefix = "arXiv"

// bibField is one name/value pair of a generated record.
type bibField struct {
	name  string
	value string
}

// accessionNumber returns the arXiv identifier from an abstract page URL
// (e.g. "https://arxiv.org/abs/2301.07041" -> "2301.07041").
func accessionNumber(rawURL string) string {
	const marker = "abs/"
	if i := strings.LastIndex(rawURL, marker); i >= 0 {
		return rawURL[i+len(marker):]
	}
	return rawURL
}

// PreprintRecord builds a @misc record for an arXiv URL from the arXiv
// metadata API. A transport failure or non-200 response returns an empty
// record and no error. A feed missing its entry, authors, title,
// publication date, or primary category returns ErrMalformedPreprint.
func (r *Request) PreprintRecord(ctx context.Context, indent int) (string, error) {
	acc := accessionNumber(r.url)
	body, err := r.get(ctx, arxivAPIBase+"?id_list="+acc, r.headers())
	if err != nil {
		r.log.Debug("arXiv API request failed", slog.String("id", acc), slog.String("err", err.Error()))
		return "", nil
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedPreprint, err)
	}
	if len(feed.Items) == 0 {
		return "", fmt.Errorf("%w: no entry for %s", ErrMalformedPreprint, acc)
	}

	key, fields, err := preprintFields(feed.Items[0], acc)
	if err != nil {
		return "", err
	}
	return renderMisc(key, fields, indent), nil
}

// preprintFields extracts the record key and fields from a feed entry.
func preprintFields(item *gofeed.Item, acc string) (string, []bibField, error) {
	var authors []string
	for _, p := range item.Authors {
		if p != nil && strings.TrimSpace(p.Name) != "" {
			authors = append(authors, strings.TrimSpace(p.Name))
		}
	}
	if len(authors) == 0 {
		return "", nil, fmt.Errorf("%w: no authors for %s", ErrMalformedPreprint, acc)
	}

	titleWords := strings.Fields(item.Title)
	if len(titleWords) == 0 {
		return "", nil, fmt.Errorf("%w: no title for %s", ErrMalformedPreprint, acc)
	}

	year, err := publishedYear(item.Published)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedPreprint, err)
	}

	primary := primaryCategory(item)
	if primary == "" {
		return "", nil, fmt.Errorf("%w: no primary category for %s", ErrMalformedPreprint, acc)
	}

	surname := strings.Fields(authors[0])
	key := strings.ToLower(surname[len(surname)-1]) + year + strings.ToLower(titleWords[0])

	fields := []bibField{
		{"title", item.Title},
		{"author", strings.Join(authors, " and ")},
		{"year", year},
		{"eprint", acc},
		{"archivePrefix", archivePrefix},
		{"primaryClass", primary},
	}
	return key, fields, nil
}

// publishedYear reads the year from the date part of an ISO-8601 timestamp
// such as "2023-01-17T18:58:21Z".
func publishedYear(published string) (string, error) {
	i := strings.Index(published, "T")
	if i < 0 {
		return "", fmt.Errorf("published timestamp %q has no time part", published)
	}
	t, err := time.Parse(time.DateOnly, published[:i])
	if err != nil {
		return "", fmt.Errorf("parsing published date: %w", err)
	}
	return fmt.Sprintf("%d", t.Year()), nil
}

// primaryCategory returns the term of the <arxiv:primary_category> element.
func primaryCategory(item *gofeed.Item) string {
	exts := item.Extensions["arxiv"]["primary_category"]
	if len(exts) == 0 {
		return ""
	}
	return exts[0].Attrs["term"]
}

// renderMisc serializes fields in order as a @misc record.
func renderMisc(key string, fields []bibField, indent int) string {
	pad := strings.Repeat(" ", max(indent, 0))
	var b strings.Builder
	fmt.Fprintf(&b, "@misc{%s,\n", key)
	for _, f := range fields {
		fmt.Fprintf(&b, "%s%s={%s},\n", pad, f.name, f.value)
	}
	b.WriteString("}")
	return b.String()
}
