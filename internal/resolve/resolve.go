// Package resolve turns free-text player names into external identifiers
// using the source's name search.
package resolve

import (
	"context"
	"log/slog"
	"strings"

	scouterrors "github.com/flockwood/Offside-Tool/internal/errors"
	"github.com/flockwood/Offside-Tool/internal/transfermarkt"
)

// Searcher runs a name search against the source; satisfied by
// *transfermarkt.Client.
type Searcher interface {
	Search(ctx context.Context, query string) ([]transfermarkt.SearchHit, error)
}

// Resolver maps player names to external identifiers.
type Resolver struct {
	searcher      Searcher
	requireUnique bool
}

// Option is a functional option for configuring the Resolver.
type Option func(*Resolver)

// WithRequireUnique makes ambiguous exact matches an error instead of
// picking the first listed hit.
func WithRequireUnique() Option {
	return func(r *Resolver) {
		r.requireUnique = true
	}
}

// New creates a Resolver on top of the given searcher.
func New(searcher Searcher, opts ...Option) *Resolver {
	r := &Resolver{searcher: searcher}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds the external identifier for a player name.
//
// An exact full-name match (case-insensitive) always beats a partial one.
// With several exact matches the first listed wins, on the grounds that the
// source orders results by relevance; WithRequireUnique turns that case
// into an AmbiguousError instead. Zero hits is a NotFoundError.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	query := strings.TrimSpace(name)
	if query == "" {
		return "", scouterrors.NewNotFoundError(name)
	}

	hits, err := r.searcher.Search(ctx, query)
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return "", scouterrors.NewNotFoundError(query)
	}

	exact := exactMatches(query, hits)
	if len(exact) == 0 {
		slog.Debug("No exact name match, using first hit",
			"query", query, "hits", len(hits), "picked", hits[0].ExternalID)
		return hits[0].ExternalID, nil
	}
	if len(exact) > 1 && r.requireUnique {
		return "", scouterrors.NewAmbiguousError(query, len(exact))
	}
	if len(exact) > 1 {
		slog.Debug("Multiple exact matches, using first listed",
			"query", query, "matches", len(exact))
	}
	return exact[0].ExternalID, nil
}

// exactMatches filters hits whose name equals the query ignoring case and
// surrounding whitespace, preserving source order.
func exactMatches(query string, hits []transfermarkt.SearchHit) []transfermarkt.SearchHit {
	want := strings.ToLower(strings.TrimSpace(query))
	var out []transfermarkt.SearchHit
	for _, h := range hits {
		if strings.ToLower(strings.TrimSpace(h.Name)) == want {
			out = append(out, h)
		}
	}
	return out
}
