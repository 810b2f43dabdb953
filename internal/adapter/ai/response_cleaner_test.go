package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanArrayMarkdownFence(t *testing.T) {
	t.Parallel()
	rc := NewResponseCleaner()
	in := "```json\n[{\"title\":\"Dune\"}]\n```"
	out := rc.CleanArray(in)
	assert.Equal(t, `[{"title":"Dune"}]`, out)
	assert.True(t, ValidJSON(out))
}

func TestCleanArraySurroundingProse(t *testing.T) {
	t.Parallel()
	rc := NewResponseCleaner()
	in := `Here are some picks: [{"title":"Dune","tags":["sci-fi"]}] Hope you enjoy!`
	out := rc.CleanArray(in)
	assert.Equal(t, `[{"title":"Dune","tags":["sci-fi"]}]`, out)
	assert.True(t, ValidJSON(out))
}

func TestCleanArrayTrailingCommas(t *testing.T) {
	t.Parallel()
	rc := NewResponseCleaner()
	in := `[{"title":"Dune","tags":["a","b",],},]`
	out := rc.CleanArray(in)
	assert.True(t, ValidJSON(out), "cleaned: %s", out)
}

func TestCleanArrayNestedArrays(t *testing.T) {
	t.Parallel()
	rc := NewResponseCleaner()
	in := `noise [[1,2],[3,4]] trailing`
	assert.Equal(t, `[[1,2],[3,4]]`, rc.CleanArray(in))
}

func TestCleanArrayNoArray(t *testing.T) {
	t.Parallel()
	rc := NewResponseCleaner()
	out := rc.CleanArray("I cannot help with that.")
	assert.False(t, ValidJSON(out))
}

func TestCleanArrayUnbalanced(t *testing.T) {
	t.Parallel()
	rc := NewResponseCleaner()
	out := rc.CleanArray(`[{"title":"Dune"`)
	assert.False(t, ValidJSON(out))
}
