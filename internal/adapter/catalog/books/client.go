// Package books implements the book catalog provider against the Google
// Books volumes API.
package books

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

// Client is a Google Books API client. The API key is optional; anonymous
// requests are rate-limited but functional.
type Client struct {
	apiKey  string
	baseURL string
	hc      *http.Client
}

// NewClient constructs a Google Books client from configuration.
func NewClient(cfg config.Config) *Client {
	return &Client{
		apiKey:  cfg.GoogleBooksAPIKey,
		baseURL: cfg.GoogleBooksURL,
		hc:      &http.Client{Timeout: cfg.ProviderTimeout + time.Second},
	}
}

type volume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Categories  []string `json:"categories"`
		ImageLinks  struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

// Search looks up book volumes by title.
func (c *Client) Search(ctx context.Context, mediaType domain.MediaType, title string) ([]domain.CatalogMatch, error) {
	if mediaType != domain.MediaBook {
		return nil, fmt.Errorf("%w: books provider does not index %q", domain.ErrInvalidArgument, mediaType)
	}
	q := url.Values{
		"q":          {"intitle:" + title},
		"maxResults": {strconv.Itoa(5)},
	}
	var out struct {
		Items []volume `json:"items"`
	}
	if err := c.get(ctx, "search", "/volumes", q, &out); err != nil {
		return nil, err
	}
	matches := make([]domain.CatalogMatch, 0, len(out.Items))
	for _, v := range out.Items {
		matches = append(matches, domain.CatalogMatch{
			ID:          v.ID,
			Title:       v.VolumeInfo.Title,
			Description: v.VolumeInfo.Description,
			ImageURL:    v.VolumeInfo.ImageLinks.Thumbnail,
		})
	}
	return matches, nil
}

// Reference resolves a volume id to reference metadata. Google Books has
// no keyword facet; categories serve as genres and keywords stay empty.
func (c *Client) Reference(ctx context.Context, id string, mediaType domain.MediaType) (domain.Reference, error) {
	if mediaType != domain.MediaBook {
		return domain.Reference{}, fmt.Errorf("%w: books provider does not index %q", domain.ErrInvalidArgument, mediaType)
	}
	var v volume
	if err := c.get(ctx, "volume", "/volumes/"+url.PathEscape(id), nil, &v); err != nil {
		return domain.Reference{}, err
	}
	return domain.Reference{
		Title:    v.VolumeInfo.Title,
		Overview: v.VolumeInfo.Description,
		Genres:   v.VolumeInfo.Categories,
	}, nil
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, out any) error {
	if q == nil {
		q = url.Values{}
	}
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	u := c.baseURL + path
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	observability.ProviderRequestsTotal.WithLabelValues("books", op).Inc()
	observability.ProviderRequestDuration.WithLabelValues("books", op).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: books %s", domain.ErrNotFound, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: books %s status %d", domain.ErrUpstream, op, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: books %s decode: %v", domain.ErrUpstream, op, err)
	}
	return nil
}
