package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "github.com/avichal16/moodmatch-api/internal/adapter/httpserver"
	"github.com/avichal16/moodmatch-api/internal/config"
	"github.com/avichal16/moodmatch-api/internal/domain"
	"github.com/avichal16/moodmatch-api/internal/usecase"
)

type fakeAI struct{ embErr error }

func (f *fakeAI) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.embErr != nil {
		return nil, f.embErr
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (f *fakeAI) ChatJSON(context.Context, string, string, int) (string, error) {
	return "", errors.New("not used")
}

type fakeSource struct{ items []domain.CandidateItem }

func (f *fakeSource) Candidates(context.Context, string, string) ([]domain.CandidateItem, error) {
	return f.items, nil
}

func (f *fakeSource) Name() string { return "fake" }

type fakeCatalog struct{ matches []domain.CatalogMatch }

func (f *fakeCatalog) Search(context.Context, domain.MediaType, string) ([]domain.CatalogMatch, error) {
	return f.matches, nil
}

type fakePlaylist struct{ url string }

func (f *fakePlaylist) FindPlaylist(context.Context, string) (string, error) {
	if f.url == "" {
		return "", domain.ErrNotFound
	}
	return f.url, nil
}

func newTestServer(ai domain.AIClient, pool []domain.CandidateItem, playlistURL string) *httpserver.Server {
	catalogs := map[domain.MediaType]domain.CatalogProvider{
		domain.MediaMovie: &fakeCatalog{},
		domain.MediaBook: &fakeCatalog{matches: []domain.CatalogMatch{
			{ID: "abc", Title: "Dune", ImageURL: "https://img/dune.jpg"},
		}},
	}
	rec := usecase.NewRecommendService(ai, []domain.CandidateSource{&fakeSource{items: pool}},
		catalogs, nil, &fakePlaylist{url: playlistURL}, time.Second)
	search := usecase.NewSearchService(catalogs, time.Second)
	return httpserver.NewServer(config.Config{OpenAIAPIKey: "k"}, rec, search, nil)
}

func testPool() []domain.CandidateItem {
	return []domain.CandidateItem{
		{Title: "Movie One", MediaType: domain.MediaMovie, Tags: []string{"drama"}},
		{Title: "Dune", MediaType: domain.MediaBook},
	}
}

func TestRecommendationsMissingMood(t *testing.T) {
	t.Parallel()
	srv := newTestServer(&fakeAI{}, testPool(), "")
	rr := httptest.NewRecorder()
	srv.RecommendationsHandler()(rr, httptest.NewRequest(http.MethodGet, "/v1/recommendations", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Missing mood input"}`, rr.Body.String())
}

func TestRecommendationsHappyPath(t *testing.T) {
	t.Parallel()
	srv := newTestServer(&fakeAI{}, testPool(), "https://open.spotify.com/playlist/x")
	rr := httptest.NewRecorder()
	srv.RecommendationsHandler()(rr, httptest.NewRequest(http.MethodGet, "/v1/recommendations?mood=wistful&criteria=slow", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Movies []struct {
			Title  string   `json:"title"`
			Type   string   `json:"type"`
			Tags   []string `json:"tags"`
			Score  float64  `json:"score"`
			Reason string   `json:"reason"`
		} `json:"movies"`
		TV      []json.RawMessage `json:"tv"`
		Books   []json.RawMessage `json:"books"`
		Spotify *string           `json:"spotify"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Movies, 1)
	assert.Equal(t, "movie", body.Movies[0].Type)
	assert.NotEmpty(t, body.Movies[0].Reason)
	assert.NotNil(t, body.TV, "empty categories serialize as [], not null")
	assert.Len(t, body.Books, 1)
	require.NotNil(t, body.Spotify)
	assert.Equal(t, "https://open.spotify.com/playlist/x", *body.Spotify)
}

func TestRecommendationsSpotifyNull(t *testing.T) {
	t.Parallel()
	srv := newTestServer(&fakeAI{}, testPool(), "")
	rr := httptest.NewRecorder()
	srv.RecommendationsHandler()(rr, httptest.NewRequest(http.MethodGet, "/v1/recommendations?mood=wistful", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "null", string(body["spotify"]))
}

func TestRecommendationsMoodTextAlias(t *testing.T) {
	t.Parallel()
	srv := newTestServer(&fakeAI{}, testPool(), "")
	rr := httptest.NewRecorder()
	srv.RecommendationsHandler()(rr, httptest.NewRequest(http.MethodGet, "/v1/recommendations?moodText=wistful", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRecommendationsInvalidRefType(t *testing.T) {
	t.Parallel()
	srv := newTestServer(&fakeAI{}, testPool(), "")
	rr := httptest.NewRecorder()
	srv.RecommendationsHandler()(rr, httptest.NewRequest(http.MethodGet, "/v1/recommendations?mood=sad&refId=1&refType=podcast", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecommendationsPipelineFailure(t *testing.T) {
	t.Parallel()
	srv := newTestServer(&fakeAI{embErr: domain.ErrUpstream}, testPool(), "")
	rr := httptest.NewRecorder()
	srv.RecommendationsHandler()(rr, httptest.NewRequest(http.MethodGet, "/v1/recommendations?mood=sad", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "recommendation pipeline failed", body["error"])
	assert.NotEmpty(t, body["details"])
}

func TestRecommendationsQueryModeDelegatesToSearch(t *testing.T) {
	t.Parallel()
	srv := newTestServer(&fakeAI{}, testPool(), "")
	rr := httptest.NewRecorder()
	srv.RecommendationsHandler()(rr, httptest.NewRequest(http.MethodGet, "/v1/recommendations?query=dune", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var hits []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &hits))
	require.NotEmpty(t, hits)
	assert.Equal(t, "Dune", hits[0]["title"])
}

func TestSearchHandler(t *testing.T) {
	t.Parallel()
	srv := newTestServer(&fakeAI{}, testPool(), "")
	rr := httptest.NewRecorder()
	srv.SearchHandler()(rr, httptest.NewRequest(http.MethodGet, "/v1/search?query=dune", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	srv.SearchHandler()(rr, httptest.NewRequest(http.MethodGet, "/v1/search", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReadyz(t *testing.T) {
	t.Parallel()
	srv := httpserver.NewServer(config.Config{OpenAIAPIKey: "k"}, nil, nil,
		func(context.Context) error { return nil })
	rr := httptest.NewRecorder()
	srv.ReadyzHandler()(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	failing := httpserver.NewServer(config.Config{}, nil, nil,
		func(context.Context) error { return errors.New("tmdb unreachable") })
	rr = httptest.NewRecorder()
	failing.ReadyzHandler()(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
