package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ResponseCleaner sanitizes LLM output before JSON parsing. Models wrap
// payloads in markdown fences, prepend prose, or emit trailing commas; the
// cleaner strips all of that and extracts the outermost JSON array.
type ResponseCleaner struct{}

// NewResponseCleaner creates a new response cleaner.
func NewResponseCleaner() *ResponseCleaner {
	return &ResponseCleaner{}
}

var trailingComma = regexp.MustCompile(`,(\s*[}\]])`)

// CleanArray returns the candidate JSON array embedded in the response,
// cleaned of common model artifacts. The result is not guaranteed to be
// valid JSON; the caller owns the final unmarshal.
func (rc *ResponseCleaner) CleanArray(response string) string {
	response = rc.removeMarkdownBlocks(response)
	response = rc.extractArray(response)
	response = trailingComma.ReplaceAllString(response, "$1")
	return strings.TrimSpace(response)
}

func (rc *ResponseCleaner) removeMarkdownBlocks(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

// extractArray returns the outermost bracket-balanced array, ignoring any
// surrounding prose.
func (rc *ResponseCleaner) extractArray(response string) string {
	start := strings.Index(response, "[")
	if start == -1 {
		return response
	}
	depth := 0
	for i := start; i < len(response); i++ {
		switch response[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return response[start : i+1]
			}
		}
	}
	return response[start:]
}

// ValidJSON reports whether s parses as JSON.
func ValidJSON(s string) bool {
	var v any
	return json.Unmarshal([]byte(s), &v) == nil
}
