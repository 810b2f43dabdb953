// Package tmdb implements the movie/TV catalog provider against The Movie
// Database v3 API. It backs candidate enrichment, reference resolution and
// the trending fallback pool.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avichal16/moodmatch-api/internal/adapter/observability"
	"github.com/avichal16/moodmatch-api/internal/config"
	"github.com/avichal16/moodmatch-api/internal/domain"
)

// Client is a TMDB v3 API client.
type Client struct {
	apiKey    string
	baseURL   string
	imageBase string
	hc        *http.Client
}

// NewClient constructs a TMDB client from configuration.
func NewClient(cfg config.Config) *Client {
	return &Client{
		apiKey:    cfg.TMDBAPIKey,
		baseURL:   cfg.TMDBBaseURL,
		imageBase: cfg.TMDBImageBaseURL,
		hc:        &http.Client{Timeout: cfg.ProviderTimeout + time.Second},
	}
}

type searchResult struct {
	Results []struct {
		ID         int64   `json:"id"`
		Title      string  `json:"title"`
		Name       string  `json:"name"`
		Overview   string  `json:"overview"`
		PosterPath string  `json:"poster_path"`
		MediaType  string  `json:"media_type"`
		GenreIDs   []int64 `json:"genre_ids"`
	} `json:"results"`
}

// Search looks up movie or TV titles. Book lookups belong to the books
// provider and are rejected here.
func (c *Client) Search(ctx context.Context, mediaType domain.MediaType, title string) ([]domain.CatalogMatch, error) {
	var path string
	switch mediaType {
	case domain.MediaMovie:
		path = "/search/movie"
	case domain.MediaTV:
		path = "/search/tv"
	default:
		return nil, fmt.Errorf("%w: tmdb does not index %q", domain.ErrInvalidArgument, mediaType)
	}

	var out searchResult
	q := url.Values{"query": {title}}
	if err := c.get(ctx, "search", path, q, &out); err != nil {
		return nil, err
	}
	matches := make([]domain.CatalogMatch, 0, len(out.Results))
	for _, r := range out.Results {
		name := r.Title
		if name == "" {
			name = r.Name
		}
		matches = append(matches, domain.CatalogMatch{
			ID:          strconv.FormatInt(r.ID, 10),
			Title:       name,
			Description: r.Overview,
			ImageURL:    c.posterURL(r.PosterPath),
		})
	}
	return matches, nil
}

type detailsResult struct {
	Title    string `json:"title"`
	Name     string `json:"name"`
	Overview string `json:"overview"`
	Genres   []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Keywords struct {
		// Movies return "keywords", TV returns "results".
		Keywords []struct {
			Name string `json:"name"`
		} `json:"keywords"`
		Results []struct {
			Name string `json:"name"`
		} `json:"results"`
	} `json:"keywords"`
}

// Reference resolves a reference id to its canonical title, synopsis,
// keyword list and genre list.
func (c *Client) Reference(ctx context.Context, id string, mediaType domain.MediaType) (domain.Reference, error) {
	var path string
	switch mediaType {
	case domain.MediaMovie:
		path = "/movie/" + url.PathEscape(id)
	case domain.MediaTV:
		path = "/tv/" + url.PathEscape(id)
	default:
		return domain.Reference{}, fmt.Errorf("%w: tmdb does not index %q", domain.ErrInvalidArgument, mediaType)
	}

	var out detailsResult
	q := url.Values{"append_to_response": {"keywords"}}
	if err := c.get(ctx, "details", path, q, &out); err != nil {
		return domain.Reference{}, err
	}

	ref := domain.Reference{Title: out.Title, Overview: out.Overview}
	if ref.Title == "" {
		ref.Title = out.Name
	}
	for _, g := range out.Genres {
		ref.Genres = append(ref.Genres, g.Name)
	}
	for _, k := range out.Keywords.Keywords {
		ref.Keywords = append(ref.Keywords, k.Name)
	}
	for _, k := range out.Keywords.Results {
		ref.Keywords = append(ref.Keywords, k.Name)
	}
	return ref, nil
}

// Ping probes API reachability for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	var out struct{}
	return c.get(ctx, "ping", "/configuration", nil, &out)
}

func (c *Client) posterURL(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBase + path
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("%w: TMDB_API_KEY missing", domain.ErrInvalidArgument)
	}
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", c.apiKey)

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	observability.ProviderRequestsTotal.WithLabelValues("tmdb", op).Inc()
	observability.ProviderRequestDuration.WithLabelValues("tmdb", op).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: tmdb %s", domain.ErrNotFound, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: tmdb %s status %d", domain.ErrUpstream, op, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: tmdb %s decode: %v", domain.ErrUpstream, op, err)
	}
	return nil
}
