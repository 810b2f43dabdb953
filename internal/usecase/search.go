package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/avichal16/moodmatch-api/internal/domain"
)

// searchPerCategory caps results per category in search mode.
const searchPerCategory = 5

// SearchHit is the lightweight record returned by the title-search mode.
type SearchHit struct {
	ID    string           `json:"id"`
	Title string           `json:"title"`
	Type  domain.MediaType `json:"type"`
	Image string           `json:"image"`
}

// SearchService implements the simple title-lookup mode across all
// catalogs.
type SearchService struct {
	Catalogs        map[domain.MediaType]domain.CatalogProvider
	ProviderTimeout time.Duration
}

// NewSearchService wires a SearchService.
func NewSearchService(catalogs map[domain.MediaType]domain.CatalogProvider, timeout time.Duration) *SearchService {
	return &SearchService{Catalogs: catalogs, ProviderTimeout: timeout}
}

// Search queries every catalog concurrently and returns up to five hits
// per category, movies first, then TV, then books. Per-catalog failures
// degrade to an empty slot.
func (s *SearchService) Search(ctx context.Context, query string) ([]SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.NewUserError(domain.ErrInvalidArgument, "Missing query input")
	}

	order := []domain.MediaType{domain.MediaMovie, domain.MediaTV, domain.MediaBook}
	buckets := make([][]SearchHit, len(order))

	g := new(errgroup.Group)
	for i, mt := range order {
		i, mt := i, mt
		catalog, ok := s.Catalogs[mt]
		if !ok {
			continue
		}
		g.Go(func() error {
			cctx := ctx
			if s.ProviderTimeout > 0 {
				var cancel context.CancelFunc
				cctx, cancel = context.WithTimeout(ctx, s.ProviderTimeout)
				defer cancel()
			}
			matches, err := catalog.Search(cctx, mt, query)
			if err != nil {
				slog.Warn("catalog search failed", slog.String("category", string(mt)), slog.Any("error", err))
				return nil
			}
			if len(matches) > searchPerCategory {
				matches = matches[:searchPerCategory]
			}
			hits := make([]SearchHit, 0, len(matches))
			for _, m := range matches {
				hits = append(hits, SearchHit{ID: m.ID, Title: m.Title, Type: mt, Image: m.ImageURL})
			}
			buckets[i] = hits
			return nil
		})
	}
	_ = g.Wait()

	out := make([]SearchHit, 0, searchPerCategory*len(order))
	for _, b := range buckets {
		out = append(out, b...)
	}
	return out, nil
}
