// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lookup turns the URL of a scholarly work into a BibTeX record.
//
// A Request first looks for a DOI: in the URL itself, then on a mirror page,
// then on the target page. The DOI is exchanged for BibTeX through doi.org
// content negotiation. arXiv URLs bypass DOI resolution and are answered from
// the arXiv metadata API instead.
//
// Network failures and non-200 responses degrade to "not found"; only a
// malformed arXiv feed is reported as an error.
package lookup

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/phefbiler/internal/doi"
	"github.com/pdiddy/phefbiler/internal/httputil"
	"github.com/pdiddy/phefbiler/pkg/types"
)

// Service endpoints. Declared as vars so tests can substitute httptest servers.
var (
	resolverBase = "https://dx.doi.org/"
	arxivAPIBase = "https://export.arxiv.org/api/query"
)

const (
	// trackingParam is the access-tracking query parameter some publishers
	// append to links; it and everything after it is dropped.
	trackingParam = "?casa_token="

	preprintHost = "arxiv.org"
	resolverHost = "doi.org"

	bibtexMediaType = "application/x-bibtex"
)

// Request is a single URL lookup. It is immutable once constructed: the
// resolution steps report what they find rather than storing it.
type Request struct {
	url      string
	doi      string
	preprint bool

	header     http.Header
	client     *http.Client
	mirrorBase string
	maxRetries int
	limiter    *rate.Limiter
	log        *slog.Logger
}

// Option configures a Request.
type Option func(*Request)

// WithHTTPClient sets the client used for API requests and page scraping.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *Request) {
		r.client = hc
	}
}

// WithUserAgent overrides the browser User-Agent sent with every request.
func WithUserAgent(ua string) Option {
	return func(r *Request) {
		if ua != "" {
			r.header.Set("User-Agent", ua)
		}
	}
}

// WithMirrorBase sets the prefix used to build the mirror page URL.
func WithMirrorBase(base string) Option {
	return func(r *Request) {
		r.mirrorBase = base
	}
}

// WithMaxRetries bounds the HTTP 429 backoff loop for API requests.
func WithMaxRetries(n int) Option {
	return func(r *Request) {
		r.maxRetries = n
	}
}

// WithAttemptDelay spaces out DOI resolution rounds. Zero disables pacing.
func WithAttemptDelay(d time.Duration) Option {
	return func(r *Request) {
		if d <= 0 {
			r.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		r.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithLogger routes diagnostic output to l.
func WithLogger(l *slog.Logger) Option {
	return func(r *Request) {
		r.log = l
	}
}

// ConfigOptions translates lookup settings into Request options.
func ConfigOptions(cfg types.LookupConfig) []Option {
	return []Option{
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		WithUserAgent(cfg.UserAgent),
		WithMirrorBase(cfg.MirrorBase),
		WithMaxRetries(cfg.MaxRetries),
		WithAttemptDelay(cfg.AttemptDelay),
	}
}

// NewRequest prepares a lookup for rawURL. The tracking query parameter is
// stripped, a DOI present in the URL is recorded, and arXiv URLs are marked
// as preprints, which disables DOI resolution for the request. Outside
// doi.org the recorded DOI ends at the URL's query or fragment.
func NewRequest(rawURL string, opts ...Option) *Request {
	r := &Request{
		url:        cleanURL(rawURL),
		header:     http.Header{},
		client:     http.DefaultClient,
		mirrorBase: types.DefaultConfig().Lookup.MirrorBase,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		log:        slog.Default(),
	}
	r.header.Set("User-Agent", types.DefaultUserAgent)

	if id, ok := doi.Extract(r.url); ok {
		if !isResolverURL(r.url) {
			id, _, _ = strings.Cut(id, "?")
			id, _, _ = strings.Cut(id, "#")
		}
		r.doi = id
	}
	r.preprint = strings.Contains(r.url, preprintHost)

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// URL returns the cleaned target URL.
func (r *Request) URL() string { return r.url }

// DOI returns the DOI found in the URL at construction, if any.
func (r *Request) DOI() string { return r.doi }

// Preprint reports whether the URL points at arXiv.
func (r *Request) Preprint() bool { return r.preprint }

func cleanURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if i := strings.Index(rawURL, trackingParam); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

func isResolverURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == resolverHost || strings.HasSuffix(host, "."+resolverHost)
}

// headers returns a copy of the fixed outbound headers plus extra pairs.
func (r *Request) headers(kv ...string) http.Header {
	h := r.header.Clone()
	for i := 0; i+1 < len(kv); i += 2 {
		h.Set(kv[i], kv[i+1])
	}
	return h
}

// get is the single network entry point for API requests.
func (r *Request) get(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	return httputil.Get(ctx, r.client, rawURL, header, r.maxRetries)
}
