package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avichal16/moodmatch-api/internal/domain"
)

func TestParseMediaType(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want domain.MediaType
		ok   bool
	}{
		{"movie", domain.MediaMovie, true},
		{"Film", domain.MediaMovie, true},
		{"MOVIES", domain.MediaMovie, true},
		{"tv", domain.MediaTV, true},
		{"TvSeries", domain.MediaTV, true},
		{"tv series", domain.MediaTV, true},
		{"show", domain.MediaTV, true},
		{"book", domain.MediaBook, true},
		{"Novel", domain.MediaBook, true},
		{"  book  ", domain.MediaBook, true},
		{"podcast", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := domain.ParseMediaType(tc.in)
		require.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestMoodContextEmbeddingText(t *testing.T) {
	t.Parallel()
	mc := domain.MoodContext{MoodText: "cozy rainy day"}
	assert.Equal(t, "cozy rainy day", mc.EmbeddingText())

	mc.Criteria = "short series"
	mc.ReferenceTitle = "Amelie"
	mc.ReferenceOverview = "A shy waitress changes lives around her."
	assert.Equal(t, "cozy rainy day short series Amelie A shy waitress changes lives around her.", mc.EmbeddingText())
}

func TestMoodContextEmbeddingTextSkipsEmptyParts(t *testing.T) {
	t.Parallel()
	mc := domain.MoodContext{MoodText: "tense thriller", ReferenceOverview: "overview"}
	assert.Equal(t, "tense thriller overview", mc.EmbeddingText())
}
