package ranking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avichal16/moodmatch-api/internal/service/ranking"
)

func TestCosineSimilarity_Symmetric(t *testing.T) {
	t.Parallel()
	a := []float32{0.3, -0.2, 0.9}
	b := []float32{-0.1, 0.7, 0.4}
	assert.InDelta(t, ranking.CosineSimilarity(a, b), ranking.CosineSimilarity(b, a), 1e-12)
}

func TestCosineSimilarity_SelfIsOne(t *testing.T) {
	t.Parallel()
	a := []float32{1.5, 2.5, -3.0, 0.25}
	assert.InDelta(t, 1.0, ranking.CosineSimilarity(a, a), 1e-9)
}

func TestCosineSimilarity_Range(t *testing.T) {
	t.Parallel()
	vectors := [][]float32{
		{1, 0, 0},
		{-1, 0, 0},
		{0.5, 0.5, 0.5},
		{-0.2, 0.9, -0.4},
	}
	for _, a := range vectors {
		for _, b := range vectors {
			s := ranking.CosineSimilarity(a, b)
			assert.GreaterOrEqual(t, s, -1.0-1e-9)
			assert.LessOrEqual(t, s, 1.0+1e-9)
		}
	}
}

func TestCosineSimilarity_OppositeIsMinusOne(t *testing.T) {
	t.Parallel()
	a := []float32{2, -1, 0.5}
	b := []float32{-2, 1, -0.5}
	assert.InDelta(t, -1.0, ranking.CosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarity_ZeroVectorIsZero(t *testing.T) {
	t.Parallel()
	zero := []float32{0, 0, 0}
	a := []float32{1, 2, 3}
	assert.Zero(t, ranking.CosineSimilarity(zero, a))
	assert.Zero(t, ranking.CosineSimilarity(a, zero))
	assert.Zero(t, ranking.CosineSimilarity(zero, zero))
}

func TestCosineSimilarity_MismatchedLengthIsZero(t *testing.T) {
	t.Parallel()
	assert.Zero(t, ranking.CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	assert.Zero(t, ranking.CosineSimilarity(nil, nil))
}
