package domain

import (
	"context"
	"errors"
	"strings"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrUpstream        = errors.New("upstream provider error")
	ErrSchemaInvalid   = errors.New("schema invalid")
	ErrInternal        = errors.New("internal error")
)

// MediaType enumerates the recommendable categories.
type MediaType string

const (
	MediaMovie MediaType = "movie"
	MediaTV    MediaType = "tv"
	MediaBook  MediaType = "book"
)

// ParseMediaType coerces free-form type strings (including common LLM
// spellings such as "TvSeries" or "Film") into a MediaType.
func ParseMediaType(s string) (MediaType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "film", "movies":
		return MediaMovie, true
	case "tv", "tvseries", "tv_series", "tv series", "series", "show":
		return MediaTV, true
	case "book", "books", "novel":
		return MediaBook, true
	}
	return "", false
}

// CandidateItem is one recommendable unit flowing through the pipeline.
// MediaType is immutable once assigned by the pool builder; enrichment may
// only set ExternalID, Description, ImageURL and normalize Title to the
// catalog's canonical form.
type CandidateItem struct {
	Title       string
	MediaType   MediaType
	Description string
	Tags        []string
	ExternalID  string
	ImageURL    string
}

// ScoredItem is a CandidateItem with its relevance score and a short
// human-readable reason. Created exactly once per candidate per request.
type ScoredItem struct {
	CandidateItem
	Score  float64
	Reason string
}

// MoodContext is the resolved query: built once per request, read-only
// afterward.
type MoodContext struct {
	MoodText          string
	Criteria          string
	ReferenceTitle    string
	ReferenceOverview string
	ReferenceKeywords []string
	ReferenceGenres   []string
}

// EmbeddingText returns the text embedded once per request as the basis
// for all similarity comparisons.
func (m MoodContext) EmbeddingText() string {
	parts := []string{m.MoodText}
	if m.Criteria != "" {
		parts = append(parts, m.Criteria)
	}
	if m.ReferenceTitle != "" {
		parts = append(parts, m.ReferenceTitle)
	}
	if m.ReferenceOverview != "" {
		parts = append(parts, m.ReferenceOverview)
	}
	return strings.Join(parts, " ")
}

// CatalogMatch is one search hit from a catalog provider.
type CatalogMatch struct {
	ID          string
	Title       string
	Description string
	ImageURL    string
}

// Reference is the resolved metadata for a reference title.
type Reference struct {
	Title    string
	Overview string
	Keywords []string
	Genres   []string
}

// AIClient (port) covers both LLM chat and text embeddings.
type AIClient interface {
	// Embed returns one embedding vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// ChatJSON returns the raw model output for a JSON-demanding prompt.
	ChatJSON(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

// CandidateSource (port) produces a raw candidate pool for a mood.
// Implementations: primary LLM source, fallback trending source.
type CandidateSource interface {
	Candidates(ctx context.Context, mood, criteria string) ([]CandidateItem, error)
	Name() string
}

// CatalogProvider (port) looks up catalog metadata by title.
type CatalogProvider interface {
	Search(ctx context.Context, mediaType MediaType, title string) ([]CatalogMatch, error)
}

// ReferenceResolver (port) fetches canonical metadata for a reference id.
type ReferenceResolver interface {
	Reference(ctx context.Context, id string, mediaType MediaType) (Reference, error)
}

// PlaylistProvider (port) returns zero or one playlist URL for a query.
// Implementations return ErrNotFound when nothing matches.
type PlaylistProvider interface {
	FindPlaylist(ctx context.Context, query string) (string, error)
}
