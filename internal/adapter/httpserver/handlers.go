package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/avichal16/moodmatch-api/internal/config"
	"github.com/avichal16/moodmatch-api/internal/domain"
	"github.com/avichal16/moodmatch-api/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg       config.Config
	Recommend *usecase.RecommendService
	Search    *usecase.SearchService
	TMDBCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers wired.
func NewServer(cfg config.Config, rec *usecase.RecommendService, search *usecase.SearchService, tmdbCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Recommend: rec, Search: search, TMDBCheck: tmdbCheck}
}

// scoredItemJSON is the wire shape of one recommendation.
type scoredItemJSON struct {
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Image       string   `json:"image,omitempty"`
	Score       float64  `json:"score"`
	Reason      string   `json:"reason"`
}

type recommendationsJSON struct {
	Movies  []scoredItemJSON `json:"movies"`
	TV      []scoredItemJSON `json:"tv"`
	Books   []scoredItemJSON `json:"books"`
	Spotify *string          `json:"spotify"`
}

// RecommendationsHandler serves the mood path and, for compatibility with
// the original single-endpoint contract, delegates to search mode when a
// query param is present without a mood.
func (s *Server) RecommendationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		mood := strings.TrimSpace(params.Get("mood"))
		if mood == "" {
			mood = strings.TrimSpace(params.Get("moodText"))
		}
		if mood == "" {
			if q := strings.TrimSpace(params.Get("query")); q != "" {
				s.serveSearch(w, r, q)
				return
			}
			// Input error: the pipeline is never entered and no external
			// calls are made.
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "Missing mood input"})
			return
		}

		q := usecase.Query{
			Mood:     mood,
			Criteria: strings.TrimSpace(params.Get("criteria")),
			RefID:    strings.TrimSpace(params.Get("refId")),
		}
		if q.RefID != "" {
			mt, ok := domain.ParseMediaType(params.Get("refType"))
			if !ok {
				writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid refType: expected movie, tv or book"})
				return
			}
			q.RefType = mt
		}

		rec, err := s.Recommend.Recommend(r.Context(), q)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, buildRecommendationsJSON(rec))
	}
}

// SearchHandler serves the dedicated search route.
func (s *Server) SearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("query"))
		if q == "" {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "Missing query input"})
			return
		}
		s.serveSearch(w, r, q)
	}
}

func (s *Server) serveSearch(w http.ResponseWriter, r *http.Request, query string) {
	hits, err := s.Search.Search(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}
	if hits == nil {
		hits = []usecase.SearchHit{}
	}
	writeJSON(w, http.StatusOK, hits)
}

// ReadyzHandler probes external provider reachability.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 2)
		if s.Cfg.OpenAIAPIKey != "" {
			checks = append(checks, check{Name: "llm", OK: true})
		} else {
			checks = append(checks, check{Name: "llm", OK: false, Details: "OPENAI_API_KEY missing"})
		}
		if s.TMDBCheck != nil {
			if err := s.TMDBCheck(ctx); err != nil {
				checks = append(checks, check{Name: "tmdb", OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "tmdb", OK: true})
			}
		}
		ok := true
		for _, c := range checks {
			if !c.OK {
				ok = false
				break
			}
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}

func buildRecommendationsJSON(rec usecase.Recommendations) recommendationsJSON {
	out := recommendationsJSON{
		Movies: toItemJSON(rec.Movies),
		TV:     toItemJSON(rec.TV),
		Books:  toItemJSON(rec.Books),
	}
	if rec.PlaylistURL != "" {
		out.Spotify = &rec.PlaylistURL
	}
	return out
}

func toItemJSON(items []domain.ScoredItem) []scoredItemJSON {
	out := make([]scoredItemJSON, 0, len(items))
	for _, it := range items {
		tags := it.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, scoredItemJSON{
			Title:       it.Title,
			Type:        string(it.MediaType),
			Description: it.Description,
			Tags:        tags,
			Image:       it.ImageURL,
			Score:       it.Score,
			Reason:      it.Reason,
		})
	}
	return out
}
