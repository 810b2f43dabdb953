// Package spotify implements the playlist provider: client-credentials
// token exchange followed by a playlist search, with a random pick among
// the top results so repeated identical queries vary.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avichal16/moodmatch-api/internal/adapter/observability"
	"github.com/avichal16/moodmatch-api/internal/config"
	"github.com/avichal16/moodmatch-api/internal/domain"
)

// maxPicks bounds the random selection to the most relevant results.
const maxPicks = 5

// Client is a Spotify Web API client using the client-credentials flow.
// A fresh token is requested per call; the token endpoint is cheap and the
// service holds no cross-request state.
type Client struct {
	clientID     string
	clientSecret string
	tokenURL     string
	apiURL       string
	hc           *http.Client
}

// NewClient constructs a Spotify client from configuration.
func NewClient(cfg config.Config) *Client {
	return &Client{
		clientID:     cfg.SpotifyClientID,
		clientSecret: cfg.SpotifyClientSecret,
		tokenURL:     cfg.SpotifyTokenURL,
		apiURL:       cfg.SpotifyAPIURL,
		hc:           &http.Client{Timeout: cfg.ProviderTimeout + time.Second},
	}
}

// FindPlaylist searches playlists for the query and returns the URL of a
// random pick among the top results. ErrNotFound when nothing matches.
func (c *Client) FindPlaylist(ctx context.Context, query string) (string, error) {
	token, err := c.token(ctx)
	if err != nil {
		return "", fmt.Errorf("op=spotify.FindPlaylist: %w", err)
	}

	q := url.Values{
		"q":     {query},
		"type":  {"playlist"},
		"limit": {"10"},
	}
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.hc.Do(req)
	observability.ProviderRequestsTotal.WithLabelValues("spotify", "search").Inc()
	observability.ProviderRequestDuration.WithLabelValues("spotify", "search").Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: spotify search status %d", domain.ErrUpstream, resp.StatusCode)
	}

	var out struct {
		Playlists struct {
			Items []struct {
				ExternalURLs struct {
					Spotify string `json:"spotify"`
				} `json:"external_urls"`
			} `json:"items"`
		} `json:"playlists"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: spotify search decode: %v", domain.ErrUpstream, err)
	}

	urls := make([]string, 0, len(out.Playlists.Items))
	for _, it := range out.Playlists.Items {
		if it.ExternalURLs.Spotify != "" {
			urls = append(urls, it.ExternalURLs.Spotify)
		}
	}
	if len(urls) == 0 {
		return "", fmt.Errorf("%w: no playlist for query", domain.ErrNotFound)
	}
	n := len(urls)
	if n > maxPicks {
		n = maxPicks
	}
	return urls[rand.Intn(n)], nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return "", fmt.Errorf("%w: spotify credentials missing", domain.ErrInvalidArgument)
	}
	form := url.Values{"grant_type": {"client_credentials"}}
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.hc.Do(req)
	observability.ProviderRequestsTotal.WithLabelValues("spotify", "token").Inc()
	observability.ProviderRequestDuration.WithLabelValues("spotify", "token").Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: spotify token status %d", domain.ErrUpstream, resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: spotify token decode: %v", domain.ErrUpstream, err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("%w: empty spotify access token", domain.ErrUpstream)
	}
	return out.AccessToken, nil
}
