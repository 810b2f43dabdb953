package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/avichal16/moodmatch-api/internal/adapter/ai/tokencount"
	"github.com/avichal16/moodmatch-api/internal/domain"
	"github.com/avichal16/moodmatch-api/pkg/textx"
)

const systemPrompt = `You are a recommendation engine for movies, TV series and books.
Respond with a strict JSON array and nothing else. Each element must be an
object with exactly these keys:
  "title": string, the work's title
  "type": one of "movie", "tv", "book"
  "description": one or two sentences describing the work
  "tags": array of lowercase genre/keyword strings
Do not wrap the array in markdown. Do not add commentary.`

// LLMSource is the primary candidate source: it prompts the chat model for
// a strict JSON array of candidates and validates every record at the
// boundary. Malformed records are dropped; a fully unusable response is an
// error the pool composition turns into a fallback, never a request
// failure.
type LLMSource struct {
	AI          domain.AIClient
	Cleaner     *ResponseCleaner
	PoolSize    int
	MaxTokens   int
	TokenBudget int
}

// NewLLMSource constructs the primary candidate source.
func NewLLMSource(ai domain.AIClient, poolSize, maxTokens, tokenBudget int) *LLMSource {
	return &LLMSource{
		AI:          ai,
		Cleaner:     NewResponseCleaner(),
		PoolSize:    poolSize,
		MaxTokens:   maxTokens,
		TokenBudget: tokenBudget,
	}
}

// Name identifies this source in logs.
func (s *LLMSource) Name() string { return "llm" }

// rawCandidate is the untrusted wire shape demanded from the model.
type rawCandidate struct {
	Title       string   `json:"title" validate:"required"`
	Type        string   `json:"type" validate:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// Candidates asks the model for a candidate pool and parses it strictly.
func (s *LLMSource) Candidates(ctx context.Context, mood, criteria string) ([]domain.CandidateItem, error) {
	user := s.buildPrompt(mood, criteria)
	raw, err := s.AI.ChatJSON(ctx, systemPrompt, user, s.MaxTokens)
	if err != nil {
		return nil, fmt.Errorf("op=ai.Candidates: %w", err)
	}
	return s.parse(raw)
}

func (s *LLMSource) buildPrompt(mood, criteria string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d works (a mix of movies, TV series and books) matching this mood: %s",
		s.PoolSize, textx.SanitizeText(mood))
	if criteria != "" {
		fmt.Fprintf(&b, "\nStyle criteria: %s", textx.SanitizeText(criteria))
	}
	return tokencount.DefaultCounter.Truncate(b.String(), s.TokenBudget)
}

func (s *LLMSource) parse(raw string) ([]domain.CandidateItem, error) {
	cleaned := s.Cleaner.CleanArray(raw)
	var records []rawCandidate
	if err := json.Unmarshal([]byte(cleaned), &records); err != nil {
		return nil, fmt.Errorf("%w: candidate array parse: %v", domain.ErrSchemaInvalid, err)
	}
	items := make([]domain.CandidateItem, 0, len(records))
	for _, rec := range records {
		rec.Title = strings.TrimSpace(rec.Title)
		if err := getValidator().Struct(rec); err != nil {
			slog.Debug("dropping invalid candidate record", slog.Any("error", err))
			continue
		}
		mt, ok := domain.ParseMediaType(rec.Type)
		if !ok {
			slog.Debug("dropping candidate with unknown media type", slog.String("type", rec.Type), slog.String("title", rec.Title))
			continue
		}
		items = append(items, domain.CandidateItem{
			Title:       rec.Title,
			MediaType:   mt,
			Description: rec.Description,
			Tags:        rec.Tags,
		})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no usable candidates in response", domain.ErrSchemaInvalid)
	}
	return items, nil
}
