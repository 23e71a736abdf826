// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/pdiddy/phefbiler/internal/doi"
)

// Elements scanned for a DOI on each page kind, in document order.
const (
	directSelector = "a, p, span"
	mirrorSelector = "#link"
)

// Strategy is one way of finding the DOI for a Request.
type Strategy struct {
	Name    string
	Resolve func(ctx context.Context) (string, bool)
}

// Strategies returns the resolution strategies in the order they are tried:
// the mirror page first, then the target page itself.
func (r *Request) Strategies() []Strategy {
	return []Strategy{
		{Name: "mirror", Resolve: func(ctx context.Context) (string, bool) { return r.ResolveIdentifier(ctx, true) }},
		{Name: "direct", Resolve: func(ctx context.Context) (string, bool) { return r.ResolveIdentifier(ctx, false) }},
	}
}

// ResolveIdentifier scrapes a page for a DOI. With useMirror the mirror
// page for the target URL is fetched and its link element is read;
// otherwise the target page is fetched and its anchors, paragraphs, and
// spans are scanned. It always fails for preprint requests.
func (r *Request) ResolveIdentifier(ctx context.Context, useMirror bool) (string, bool) {
	if r.preprint {
		return "", false
	}
	if useMirror {
		return r.scrape(ctx, r.mirrorBase+r.url, mirrorSelector, anchorText)
	}
	return r.scrape(ctx, r.url, directSelector, (*goquery.Selection).Text)
}

// anchorText reads the first anchor inside a mirror link element.
func anchorText(s *goquery.Selection) string {
	return s.Find("a").First().Text()
}

// scrape visits target and returns the first DOI found in the text of
// elements matching selector. colly reports non-2xx responses and transport
// errors from Visit without running response callbacks. The body is parsed
// as HTML whatever its Content-Type.
func (r *Request) scrape(ctx context.Context, target, selector string, text func(*goquery.Selection) string) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}

	base := r.client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c := colly.NewCollector(colly.UserAgent(r.header.Get("User-Agent")))
	c.WithTransport(ctxTransport{ctx: ctx, base: base})
	if r.client.Timeout > 0 {
		c.SetRequestTimeout(r.client.Timeout)
	}

	var found string
	c.OnResponse(func(resp *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
		if err != nil {
			r.log.Debug("page parse failed", slog.String("url", target), slog.String("err", err.Error()))
			return
		}
		// Find("*") walks the tree in document order; Filter keeps that order.
		doc.Find("*").Filter(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if id, ok := doi.Extract(text(s)); ok {
				found = id
				return false
			}
			return true
		})
	})

	if err := c.Visit(target); err != nil {
		r.log.Debug("page fetch failed", slog.String("url", target), slog.String("err", err.Error()))
		return "", false
	}
	return found, found != ""
}

// ctxTransport binds every request colly sends to the lookup's context.
type ctxTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t ctxTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}
