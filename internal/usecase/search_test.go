package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avichal16/moodmatch-api/internal/domain"
)

func manyMatches(prefix string, n int) []domain.CatalogMatch {
	out := make([]domain.CatalogMatch, n)
	for i := range out {
		out[i] = domain.CatalogMatch{ID: prefix, Title: prefix, ImageURL: "https://img/" + prefix}
	}
	return out
}

func TestSearchOrderedAndCapped(t *testing.T) {
	t.Parallel()
	catalogs := map[domain.MediaType]domain.CatalogProvider{
		domain.MediaMovie: &stubCatalog{matches: manyMatches("m", 7)},
		domain.MediaTV:    &stubCatalog{matches: manyMatches("t", 2)},
		domain.MediaBook:  &stubCatalog{matches: manyMatches("b", 1)},
	}
	svc := NewSearchService(catalogs, time.Second)

	hits, err := svc.Search(context.Background(), "dune")
	require.NoError(t, err)
	require.Len(t, hits, 5+2+1, "movies capped at five")
	assert.Equal(t, domain.MediaMovie, hits[0].Type)
	assert.Equal(t, domain.MediaTV, hits[5].Type)
	assert.Equal(t, domain.MediaBook, hits[7].Type)
	assert.Equal(t, "https://img/m", hits[0].Image)
}

func TestSearchCatalogFailureDegrades(t *testing.T) {
	t.Parallel()
	catalogs := map[domain.MediaType]domain.CatalogProvider{
		domain.MediaMovie: &stubCatalog{err: errors.New("tmdb down")},
		domain.MediaBook:  &stubCatalog{matches: manyMatches("b", 2)},
	}
	svc := NewSearchService(catalogs, time.Second)

	hits, err := svc.Search(context.Background(), "dune")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, domain.MediaBook, hits[0].Type)
}

func TestSearchEmptyQuery(t *testing.T) {
	t.Parallel()
	svc := NewSearchService(nil, time.Second)
	_, err := svc.Search(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
