// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"log/slog"
)

// IdentifierToRecord asks the doi.org resolver for the BibTeX form of id
// through content negotiation. It returns false for an empty id, a
// transport failure, or any status other than 200.
func (r *Request) IdentifierToRecord(ctx context.Context, id string) (string, bool) {
	if id == "" {
		return "", false
	}
	body, err := r.get(ctx, resolverBase+id, r.headers("Accept", bibtexMediaType))
	if err != nil {
		r.log.Debug("doi resolution failed", slog.String("doi", id), slog.String("err", err.Error()))
		return "", false
	}
	return string(body), true
}

// FetchRecord returns the BibTeX record for the request. Preprint
// requests are answered from the arXiv API. Otherwise, unless the URL
// already carried a DOI, up to maxAttempts rounds of Strategies are run
// until one yields a DOI, which is then exchanged for a record. The
// boolean is false when nothing was found, including when ctx ends first.
// The only error is ErrMalformedPreprint.
func (r *Request) FetchRecord(ctx context.Context, maxAttempts, indent int) (string, bool, error) {
	if r.preprint {
		rec, err := r.PreprintRecord(ctx, indent)
		if err != nil {
			return "", false, err
		}
		return rec, rec != "", nil
	}

	id := r.doi
	for attempt := 1; id == "" && attempt <= maxAttempts; attempt++ {
		if err := r.limiter.Wait(ctx); err != nil {
			r.log.Debug("lookup abandoned", slog.String("url", r.url), slog.String("err", err.Error()))
			return "", false, nil
		}
		for _, s := range r.Strategies() {
			if found, ok := s.Resolve(ctx); ok {
				r.log.Info("doi resolved",
					slog.String("doi", found),
					slog.String("strategy", s.Name),
					slog.Int("attempt", attempt))
				id = found
				break
			}
		}
	}
	if id == "" {
		r.log.Debug("no doi found", slog.String("url", r.url), slog.Int("attempts", maxAttempts))
	}

	rec, ok := r.IdentifierToRecord(ctx, id)
	return rec, ok, nil
}

// Get looks up rawURL in one call.
func Get(ctx context.Context, rawURL string, maxAttempts, indent int, opts ...Option) (string, bool, error) {
	return NewRequest(rawURL, opts...).FetchRecord(ctx, maxAttempts, indent)
}
