// Package transfermarkt fetches and parses player documents from a
// Transfermarkt-style source: name search and by-identifier profile pages.
//
// Parsing is split from retrieval: ParseSearch and ParseProfile are pure
// functions over raw HTML so they can be tested against fixtures, and the
// Client composes them with a Fetcher.
package transfermarkt

import (
	"context"
	"net/url"
	"strings"

	"github.com/flockwood/Offside-Tool/internal/fetch"
	"github.com/flockwood/Offside-Tool/internal/player"
)

const defaultBaseURL = "https://www.transfermarkt.com"

// SearchHit is one row of a name-search result: the external identifier
// plus a disambiguating snippet.
type SearchHit struct {
	ExternalID string
	Name       string
	Club       string
	Position   string
	BirthYear  int
}

// Getter retrieves a document; satisfied by *fetch.Fetcher.
type Getter interface {
	Get(ctx context.Context, url string) (*fetch.RawDocument, error)
}

// Client retrieves and parses documents from the source.
type Client struct {
	baseURL string
	fetcher Getter
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL for the source.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// NewClient creates a source client on top of the given fetcher.
func NewClient(fetcher Getter, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		fetcher: fetcher,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchURL builds the name-search URL for a query.
func (c *Client) SearchURL(query string) string {
	return c.baseURL + "/schnellsuche/ergebnis/schnellsuche?query=" + url.QueryEscape(query)
}

// ProfileURL builds the by-identifier profile URL.
func (c *Client) ProfileURL(externalID string) string {
	return c.baseURL + "/player/profil/spieler/" + url.PathEscape(externalID)
}

// Search runs a name search and parses the result rows.
// Zero hits is a valid empty slice, not an error.
func (c *Client) Search(ctx context.Context, query string) ([]SearchHit, error) {
	doc, err := c.fetcher.Get(ctx, c.SearchURL(query))
	if err != nil {
		return nil, err
	}
	return ParseSearch(doc.Body)
}

// Profile fetches a player profile page and extracts a candidate record.
func (c *Client) Profile(ctx context.Context, externalID string) (*player.Candidate, error) {
	doc, err := c.fetcher.Get(ctx, c.ProfileURL(externalID))
	if err != nil {
		return nil, err
	}
	cand, err := ParseProfile(doc.Body)
	if err != nil {
		return nil, err
	}
	cand.ExternalID = externalID
	return cand, nil
}
