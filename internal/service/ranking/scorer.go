package ranking

import (
	"context"
	"fmt"
	"strings"

	"github.com/avichal16/moodmatch-api/internal/domain"
	"github.com/avichal16/moodmatch-api/pkg/textx"
)

// Fixed hybrid weights: semantic similarity dominates, lexical overlap is
// a secondary tie-break signal.
const (
	weightSimilarity = 0.5
	weightKeywords   = 0.3
	weightGenres     = 0.2
)

// Scorer assigns each candidate a relevance score against a mood context.
type Scorer struct {
	AI domain.AIClient
}

// NewScorer constructs a Scorer backed by the given embedding client.
func NewScorer(ai domain.AIClient) *Scorer { return &Scorer{AI: ai} }

// Score embeds all candidates in one batch call and computes the hybrid
// score per item. Empty input returns an empty slice without touching the
// provider. A mismatched embedding count fails the whole batch: silently
// misaligning items to embeddings is worse than an empty category.
func (s *Scorer) Score(ctx context.Context, moodEmbedding []float32, items []domain.CandidateItem, refKeywords, refGenres []string) ([]domain.ScoredItem, error) {
	if len(items) == 0 {
		return []domain.ScoredItem{}, nil
	}
	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = embeddingText(it)
	}
	embeddings, err := s.AI.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("op=ranking.Score: %w", err)
	}
	if len(embeddings) != len(items) {
		return nil, fmt.Errorf("%w: %d embeddings for %d items", domain.ErrSchemaInvalid, len(embeddings), len(items))
	}

	scored := make([]domain.ScoredItem, len(items))
	for i, it := range items {
		tagTokens := textx.Tokens(it.Tags)
		sim := CosineSimilarity(moodEmbedding, embeddings[i])
		kwMatched, kw := overlapScore(refKeywords, tagTokens)
		genreMatched, genre := overlapScore(refGenres, tagTokens)
		scored[i] = domain.ScoredItem{
			CandidateItem: it,
			Score:         weightSimilarity*sim + weightKeywords*kw + weightGenres*genre,
			Reason:        reason(sim, kwMatched, genreMatched),
		}
	}
	return scored, nil
}

// overlapScore returns how many reference terms appear in the tag token
// set and that count normalized by the reference set size. An empty
// reference set scores 0 regardless of tags.
func overlapScore(refTerms []string, tagTokens map[string]struct{}) (int, float64) {
	if len(refTerms) == 0 {
		return 0, 0
	}
	matched := 0
	for _, term := range refTerms {
		toks := textx.Tokens([]string{term})
		if len(toks) == 0 {
			continue
		}
		all := true
		for t := range toks {
			if _, ok := tagTokens[t]; !ok {
				all = false
				break
			}
		}
		if all {
			matched++
		}
	}
	return matched, float64(matched) / float64(len(refTerms))
}

func embeddingText(it domain.CandidateItem) string {
	return strings.TrimSpace(it.Title + " " + it.Description + " " + strings.Join(it.Tags, " "))
}

func reason(sim float64, kwMatched, genreMatched int) string {
	var b strings.Builder
	switch {
	case sim >= 0.5:
		b.WriteString("strong mood match")
	case sim >= 0.25:
		b.WriteString("good mood match")
	default:
		b.WriteString("loose mood match")
	}
	if kwMatched > 0 {
		fmt.Fprintf(&b, ", shares %d keyword(s) with your reference", kwMatched)
	}
	if genreMatched > 0 {
		fmt.Fprintf(&b, ", overlaps %d genre(s)", genreMatched)
	}
	return b.String()
}
