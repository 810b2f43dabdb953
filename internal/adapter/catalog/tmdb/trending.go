package tmdb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/avichal16/moodmatch-api/internal/domain"
)

// tmdbGenres maps the stable TMDB genre ids returned by list endpoints to
// names, so fallback candidates still carry tags for overlap scoring.
var tmdbGenres = map[int64]string{
	28:    "action",
	12:    "adventure",
	16:    "animation",
	35:    "comedy",
	80:    "crime",
	99:    "documentary",
	18:    "drama",
	10751: "family",
	14:    "fantasy",
	36:    "history",
	27:    "horror",
	10402: "music",
	9648:  "mystery",
	10749: "romance",
	878:   "science fiction",
	53:    "thriller",
	10752: "war",
	37:    "western",
	10759: "action & adventure",
	10762: "kids",
	10763: "news",
	10764: "reality",
	10765: "sci-fi & fantasy",
	10766: "soap",
	10767: "talk",
	10768: "war & politics",
}

// TrendingSource is the fallback candidate source: when the LLM pool is
// empty or unusable, the weekly trending feed keeps the pipeline from
// operating on an empty pool.
type TrendingSource struct {
	Client *Client
}

// NewTrendingSource wraps a TMDB client as a CandidateSource.
func NewTrendingSource(c *Client) *TrendingSource { return &TrendingSource{Client: c} }

// Name identifies this source in logs.
func (s *TrendingSource) Name() string { return "tmdb-trending" }

// Candidates returns the weekly trending movies and TV series. The mood
// and criteria are ignored; scoring downstream still ranks the pool
// against the mood context.
func (s *TrendingSource) Candidates(ctx context.Context, _, _ string) ([]domain.CandidateItem, error) {
	var out searchResult
	if err := s.Client.get(ctx, "trending", "/trending/all/week", nil, &out); err != nil {
		return nil, fmt.Errorf("op=tmdb.Trending: %w", err)
	}
	items := make([]domain.CandidateItem, 0, len(out.Results))
	for _, r := range out.Results {
		mt, ok := domain.ParseMediaType(r.MediaType)
		if !ok {
			continue // trending mixes in people
		}
		title := r.Title
		if title == "" {
			title = r.Name
		}
		if title == "" {
			continue
		}
		var tags []string
		for _, id := range r.GenreIDs {
			if name, ok := tmdbGenres[id]; ok {
				tags = append(tags, name)
			}
		}
		items = append(items, domain.CandidateItem{
			Title:       title,
			MediaType:   mt,
			Description: r.Overview,
			Tags:        tags,
			ExternalID:  strconv.FormatInt(r.ID, 10),
			ImageURL:    s.Client.posterURL(r.PosterPath),
		})
	}
	return items, nil
}
