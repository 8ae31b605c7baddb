package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mindvault/internal/domain"
)

func item(id byte, vec []float64) domain.Item {
	var it domain.Item
	it.ID[0] = id
	it.Embedding = vec
	return it
}

func TestCosineIdentity(t *testing.T) {
	a := []float64{0.3, -1.2, 4.5, 0.01}
	assert.InDelta(t, 1.0, Cosine(a, a), 1e-12)
}

func TestCosineSymmetry(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{-4, 0.5, 2}
	assert.InDelta(t, Cosine(a, b), Cosine(b, a), 1e-12)
}

func TestCosineOrthogonal(t *testing.T) {
	assert.InDelta(t, 0, Cosine([]float64{1, 0}, []float64{0, 1}), 1e-12)
}

func TestCosineZeroNorm(t *testing.T) {
	zero := []float64{0, 0, 0}
	a := []float64{1, 2, 3}
	assert.Equal(t, 0.0, Cosine(zero, a))
	assert.Equal(t, 0.0, Cosine(a, zero))
	assert.Equal(t, 0.0, Cosine(zero, zero))
}

func TestCosineOpposite(t *testing.T) {
	a := []float64{1, 1}
	b := []float64{-1, -1}
	assert.InDelta(t, -1.0, Cosine(a, b), 1e-12)
}

func TestRankOrderingAndThreshold(t *testing.T) {
	candidates := []domain.Item{
		item(1, []float64{1, 0}),
		item(2, []float64{0, 1}),
		item(3, []float64{0.9, 0.1}),
	}
	results := Rank([]float64{1, 0}, candidates, DefaultThreshold, DefaultLimit)

	assert.Len(t, results, 2)
	assert.Equal(t, byte(1), results[0].ID[0])
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.Equal(t, byte(3), results[1].ID[0])
	assert.InDelta(t, 0.9938, results[1].Score, 1e-3)
}

func TestRankCapsResults(t *testing.T) {
	var candidates []domain.Item
	for i := 0; i < 15; i++ {
		// each vector leans toward the query a bit less than the previous one
		candidates = append(candidates, item(byte(i), []float64{1, float64(i) * 0.1}))
	}
	results := Rank([]float64{1, 0}, candidates, DefaultThreshold, DefaultLimit)

	assert.Len(t, results, 10)
	for i := 0; i < 10; i++ {
		assert.Equal(t, byte(i), results[i].ID[0], "highest scores first")
	}
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestRankThresholdIsExclusive(t *testing.T) {
	// score exactly at the threshold must be dropped
	results := Rank([]float64{1, 0}, []domain.Item{item(1, []float64{1, 0})}, 1.0, DefaultLimit)
	assert.Empty(t, results)

	for _, r := range Rank([]float64{1, 0.2}, []domain.Item{
		item(1, []float64{1, 0}),
		item(2, []float64{0.2, 1}),
	}, DefaultThreshold, DefaultLimit) {
		assert.Greater(t, r.Score, DefaultThreshold)
	}
}

func TestRankSkipsMissingEmbeddings(t *testing.T) {
	candidates := []domain.Item{
		item(1, nil),
		item(2, []float64{1, 0}),
		item(3, []float64{}),
	}
	results := Rank([]float64{1, 0}, candidates, DefaultThreshold, DefaultLimit)
	assert.Len(t, results, 1)
	assert.Equal(t, byte(2), results[0].ID[0])
}

func TestRankEmptyCandidates(t *testing.T) {
	assert.Empty(t, Rank([]float64{1, 0}, nil, DefaultThreshold, DefaultLimit))
}

func TestRankZeroQueryVector(t *testing.T) {
	candidates := []domain.Item{
		item(1, []float64{1, 0}),
		item(2, []float64{0, 1}),
	}
	results := Rank([]float64{0, 0}, candidates, DefaultThreshold, DefaultLimit)
	assert.Empty(t, results, "zero query degrades to no matches")
}

func TestRankStableTies(t *testing.T) {
	// identical vectors score identically; input order must be preserved
	candidates := []domain.Item{
		item(1, []float64{1, 1}),
		item(2, []float64{2, 2}),
		item(3, []float64{3, 3}),
	}
	results := Rank([]float64{1, 1}, candidates, DefaultThreshold, DefaultLimit)
	assert.Len(t, results, 3)
	assert.Equal(t, byte(1), results[0].ID[0])
	assert.Equal(t, byte(2), results[1].ID[0])
	assert.Equal(t, byte(3), results[2].ID[0])
}

func TestRankDeterministic(t *testing.T) {
	candidates := []domain.Item{
		item(1, []float64{0.8, 0.6}),
		item(2, []float64{0.6, 0.8}),
		item(3, []float64{1, 0.2}),
	}
	query := []float64{1, 0.1}
	first := Rank(query, candidates, DefaultThreshold, DefaultLimit)
	second := Rank(query, candidates, DefaultThreshold, DefaultLimit)
	assert.Equal(t, first, second)
}
