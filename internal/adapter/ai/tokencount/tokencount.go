// Package tokencount provides token counting and truncation for LLM
// prompts using tiktoken-go, so prompt sizes stay inside a fixed budget
// regardless of how verbose the mood text or reference overview is.
package tokencount

import (
	"log/slog"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Counter provides thread-safe token counting against one encoding.
type Counter struct {
	once sync.Once
	enc  *tiktoken.Tiktoken
	err  error
}

// DefaultCounter is a process-wide counter for the cl100k_base encoding
// used by the chat and embeddings models this service targets.
var DefaultCounter = &Counter{}

func (c *Counter) encoding() *tiktoken.Tiktoken {
	c.once.Do(func() {
		c.enc, c.err = tiktoken.GetEncoding("cl100k_base")
		if c.err != nil {
			slog.Warn("tiktoken encoding unavailable; falling back to rune estimate", slog.Any("error", c.err))
		}
	})
	return c.enc
}

// Count returns the token count of text. When the encoding cannot be
// loaded it falls back to a conservative 1-token-per-4-runes estimate.
func (c *Counter) Count(text string) int {
	if enc := c.encoding(); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return (len([]rune(text)) + 3) / 4
}

// Truncate returns text cut down to at most maxTokens tokens. Text within
// budget is returned unchanged.
func (c *Counter) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	enc := c.encoding()
	if enc == nil {
		runes := []rune(text)
		if len(runes) <= maxTokens*4 {
			return text
		}
		return string(runes[:maxTokens*4])
	}
	toks := enc.Encode(text, nil, nil)
	if len(toks) <= maxTokens {
		return text
	}
	return enc.Decode(toks[:maxTokens])
}
