package textx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avichal16/moodmatch-api/pkg/textx"
)

func TestSanitizeText(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "hello world", textx.SanitizeText("  hello world \x00 "))
	assert.Equal(t, "line1\nline2", textx.SanitizeText("line1\nline2"))
	assert.Equal(t, "", textx.SanitizeText("\x01\x02\x03"))
}

func TestNormalizeTitle(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Inception", textx.NormalizeTitle("Inception (2010)"))
	assert.Equal(t, "The Office", textx.NormalizeTitle("The Office (US) (2005)"))
	assert.Equal(t, "Dune", textx.NormalizeTitle("Dune"))
	assert.Equal(t, "", textx.NormalizeTitle("(untitled)"))
}

func TestTokens(t *testing.T) {
	t.Parallel()
	got := textx.Tokens([]string{"Science Fiction", "space,opera"})
	assert.Equal(t, map[string]struct{}{
		"science": {}, "fiction": {}, "space": {}, "opera": {},
	}, got)

	assert.Empty(t, textx.Tokens(nil))
	assert.Empty(t, textx.Tokens([]string{"", " ,  "}))
}
