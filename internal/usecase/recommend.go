// Package usecase contains application business logic services.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/avichal16/moodmatch-api/internal/adapter/observability"
	"github.com/avichal16/moodmatch-api/internal/domain"
	"github.com/avichal16/moodmatch-api/internal/service/ranking"
)

// Query is the normalized intent parsed from an incoming request.
type Query struct {
	Mood     string
	Criteria string
	RefID    string
	RefType  domain.MediaType
}

// Recommendations is the assembled result of one pipeline run. The shape
// is stable: categories may be empty but are never absent, and the
// playlist URL is empty when no playlist was found.
type Recommendations struct {
	Movies      []domain.ScoredItem
	TV          []domain.ScoredItem
	Books       []domain.ScoredItem
	PlaylistURL string
}

// RecommendService orchestrates the request-scoped pipeline: reference
// resolution, candidate pool build, enrichment, hybrid scoring and
// finalization, plus the best-effort playlist lookup.
type RecommendService struct {
	AI        domain.AIClient
	Sources   []domain.CandidateSource // primary first, fallback after
	Catalogs  map[domain.MediaType]domain.CatalogProvider
	Resolvers map[domain.MediaType]domain.ReferenceResolver
	Playlist  domain.PlaylistProvider // nil when not configured
	Scorer    *ranking.Scorer
	// ProviderTimeout bounds each external call so one slow provider
	// degrades its branch instead of the whole request.
	ProviderTimeout time.Duration
}

// NewRecommendService wires a RecommendService.
func NewRecommendService(ai domain.AIClient, sources []domain.CandidateSource, catalogs map[domain.MediaType]domain.CatalogProvider, resolvers map[domain.MediaType]domain.ReferenceResolver, playlist domain.PlaylistProvider, timeout time.Duration) *RecommendService {
	return &RecommendService{
		AI:              ai,
		Sources:         sources,
		Catalogs:        catalogs,
		Resolvers:       resolvers,
		Playlist:        playlist,
		Scorer:          ranking.NewScorer(ai),
		ProviderTimeout: timeout,
	}
}

// Recommend runs the full pipeline for one request.
//
// Failure policy: missing mood is an input error; optional branches
// (reference, playlist, enrichment, single-category scoring) degrade
// locally and never surface; a mood-embedding failure kills all three
// categories at once and is therefore the one pipeline error that
// propagates.
func (s *RecommendService) Recommend(ctx context.Context, q Query) (Recommendations, error) {
	if strings.TrimSpace(q.Mood) == "" {
		return Recommendations{}, domain.NewUserError(domain.ErrInvalidArgument, "Missing mood input")
	}

	var (
		ref      domain.Reference
		pool     []domain.CandidateItem
		playlist string
	)

	// Reference, pool and playlist have no data dependency on each other;
	// fan out and degrade each branch independently.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if q.RefID == "" {
			return nil
		}
		resolver, ok := s.Resolvers[q.RefType]
		if !ok {
			slog.Warn("no resolver for reference type", slog.String("ref_type", string(q.RefType)))
			return nil
		}
		cctx, cancel := s.callContext(gctx)
		defer cancel()
		r, err := resolver.Reference(cctx, q.RefID, q.RefType)
		if err != nil {
			slog.Warn("reference resolution failed; proceeding without reference",
				slog.String("ref_id", q.RefID), slog.Any("error", err))
			return nil
		}
		ref = r
		return nil
	})
	g.Go(func() error {
		pool = s.fetchPool(gctx, q.Mood, q.Criteria)
		return nil
	})
	g.Go(func() error {
		playlist = s.findPlaylist(gctx, q)
		return nil
	})
	_ = g.Wait()

	mc := domain.MoodContext{
		MoodText:          q.Mood,
		Criteria:          q.Criteria,
		ReferenceTitle:    ref.Title,
		ReferenceOverview: ref.Overview,
		ReferenceKeywords: ref.Keywords,
		ReferenceGenres:   ref.Genres,
	}

	ectx, cancel := s.callContext(ctx)
	embs, err := s.AI.Embed(ectx, []string{mc.EmbeddingText()})
	cancel()
	if err != nil || len(embs) != 1 {
		if err == nil {
			err = fmt.Errorf("%w: %d embeddings for mood context", domain.ErrSchemaInvalid, len(embs))
		}
		return Recommendations{}, fmt.Errorf("op=usecase.Recommend mood embedding: %w", err)
	}
	moodEmb := embs[0]

	byType := splitByType(pool)
	rec := Recommendations{PlaylistURL: playlist}
	targets := map[domain.MediaType]*[]domain.ScoredItem{
		domain.MediaMovie: &rec.Movies,
		domain.MediaTV:    &rec.TV,
		domain.MediaBook:  &rec.Books,
	}

	// Categories are independent; score them concurrently. Each target
	// pointer is written by exactly one goroutine.
	cg := new(errgroup.Group)
	for mt, target := range targets {
		mt, target := mt, target
		cg.Go(func() error {
			*target = s.scoreCategory(ctx, mt, byType[mt], moodEmb, mc)
			return nil
		})
	}
	_ = cg.Wait()
	return rec, nil
}

// fetchPool tries each candidate source in order and returns the first
// usable pool. An exhausted source list yields an empty pool, never an
// error: the response shape stays stable.
func (s *RecommendService) fetchPool(ctx context.Context, mood, criteria string) []domain.CandidateItem {
	for i, src := range s.Sources {
		cctx, cancel := s.callContext(ctx)
		items, err := src.Candidates(cctx, mood, criteria)
		cancel()
		if err != nil {
			slog.Warn("candidate source failed", slog.String("source", src.Name()), slog.Any("error", err))
			continue
		}
		if len(items) == 0 {
			slog.Warn("candidate source returned empty pool", slog.String("source", src.Name()))
			continue
		}
		if i > 0 {
			observability.PoolFallbackTotal.Inc()
			slog.Info("fallback candidate source served the pool", slog.String("source", src.Name()), slog.Int("count", len(items)))
		}
		return items
	}
	slog.Error("all candidate sources exhausted; pool is empty")
	return nil
}

func (s *RecommendService) findPlaylist(ctx context.Context, q Query) string {
	if s.Playlist == nil {
		return ""
	}
	query := q.Mood
	if q.Criteria != "" {
		query += " " + q.Criteria
	}
	cctx, cancel := s.callContext(ctx)
	defer cancel()
	url, err := s.Playlist.FindPlaylist(cctx, query)
	if err != nil {
		slog.Info("playlist lookup failed; returning none", slog.Any("error", err))
		return ""
	}
	return url
}

// scoreCategory enriches, dedupes, scores and finalizes one category. A scoring
// failure (including embedding-count misalignment) empties this category
// only; siblings are unaffected.
func (s *RecommendService) scoreCategory(ctx context.Context, mt domain.MediaType, items []domain.CandidateItem, moodEmb []float32, mc domain.MoodContext) []domain.ScoredItem {
	if len(items) == 0 {
		return []domain.ScoredItem{}
	}
	enriched := dedupe(s.enrich(ctx, items))
	scored, err := s.Scorer.Score(ctx, moodEmb, enriched, mc.ReferenceKeywords, mc.ReferenceGenres)
	if err != nil {
		slog.Warn("category scoring failed; returning empty category",
			slog.String("category", string(mt)), slog.Any("error", err))
		scored = nil
	}
	observability.CategoryScoredItems.WithLabelValues(string(mt)).Observe(float64(len(scored)))
	return ranking.Finalize(scored)
}

func (s *RecommendService) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.ProviderTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.ProviderTimeout)
}

func splitByType(pool []domain.CandidateItem) map[domain.MediaType][]domain.CandidateItem {
	out := make(map[domain.MediaType][]domain.CandidateItem, 3)
	for _, it := range pool {
		out[it.MediaType] = append(out[it.MediaType], it)
	}
	return out
}
