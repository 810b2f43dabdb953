package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/sync/errgroup"

	"github.com/avichal16/moodmatch-api/internal/domain"
	"github.com/avichal16/moodmatch-api/pkg/textx"
)

// enrich attaches catalog metadata (id, image, description) to each
// candidate by fuzzy title match. Items are processed concurrently and the
// result slice is index-stable: out[i] always corresponds to items[i].
// Any per-item failure passes the original item through unchanged.
func (s *RecommendService) enrich(ctx context.Context, items []domain.CandidateItem) []domain.CandidateItem {
	out := make([]domain.CandidateItem, len(items))
	copy(out, items)

	g := new(errgroup.Group)
	for i := range out {
		i := i
		g.Go(func() error {
			it := out[i]
			catalog, ok := s.Catalogs[it.MediaType]
			if !ok {
				return nil
			}
			cctx, cancel := s.callContext(ctx)
			defer cancel()
			matches, err := catalog.Search(cctx, it.MediaType, textx.NormalizeTitle(it.Title))
			if err != nil {
				slog.Debug("enrichment lookup failed; passing item through",
					slog.String("title", it.Title), slog.Any("error", err))
				return nil
			}
			if len(matches) == 0 {
				return nil
			}
			out[i] = applyMatch(it, bestMatch(it.Title, matches))
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// dedupe drops repeat candidates, keeping the first occurrence. Two items
// are duplicates when they share a catalog id or a normalized title. The
// LLM pool repeats popular works and enrichment can collapse two spellings
// onto the same catalog record.
func dedupe(items []domain.CandidateItem) []domain.CandidateItem {
	seenID := make(map[string]struct{}, len(items))
	seenTitle := make(map[string]struct{}, len(items))
	out := make([]domain.CandidateItem, 0, len(items))
	for _, it := range items {
		titleKey := strings.ToLower(textx.NormalizeTitle(it.Title))
		if _, ok := seenTitle[titleKey]; ok {
			continue
		}
		if it.ExternalID != "" {
			if _, ok := seenID[it.ExternalID]; ok {
				continue
			}
			seenID[it.ExternalID] = struct{}{}
		}
		seenTitle[titleKey] = struct{}{}
		out = append(out, it)
	}
	return out
}

// bestMatch picks the closest title among catalog results. LLM-generated
// titles drift in formatting, so raw top-of-list matching is not reliable
// enough; the closest string wins instead.
func bestMatch(title string, matches []domain.CatalogMatch) domain.CatalogMatch {
	best := matches[0]
	bestScore := titleSimilarity(title, best.Title)
	for _, m := range matches[1:] {
		if s := titleSimilarity(title, m.Title); s > bestScore {
			best, bestScore = m, s
		}
	}
	return best
}

// titleSimilarity is a normalized levenshtein ratio in [0,1].
func titleSimilarity(a, b string) float64 {
	a = strings.ToLower(textx.NormalizeTitle(a))
	b = strings.ToLower(textx.NormalizeTitle(b))
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// applyMatch merges catalog metadata into a candidate. MediaType never
// changes; the title is only normalized to the catalog's canonical form.
func applyMatch(it domain.CandidateItem, m domain.CatalogMatch) domain.CandidateItem {
	it.ExternalID = m.ID
	if m.Title != "" {
		it.Title = m.Title
	}
	if m.ImageURL != "" {
		it.ImageURL = m.ImageURL
	}
	if m.Description != "" {
		it.Description = m.Description
	}
	return it
}
