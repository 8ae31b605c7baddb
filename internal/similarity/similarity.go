// Package similarity implements the scoring and ranking policy for
// semantic search over stored item embeddings.
package similarity

import (
	"math"
	"sort"

	"mindvault/internal/domain"
)

// Defaults for the ranking policy. Both are tunable through config.
const (
	DefaultThreshold = 0.25
	DefaultLimit     = 10
)

// Cosine returns the cosine similarity of a and b. If either vector has
// zero norm the result is exactly 0; the ranking step must never see NaN.
// Vectors of unequal length are compared over the shorter prefix.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Rank scores every candidate with a present embedding against query,
// drops scores at or below threshold, sorts descending (ties keep the
// candidates' input order) and truncates to limit.
func Rank(query []float64, candidates []domain.Item, threshold float64, limit int) []domain.ScoredItem {
	if limit <= 0 {
		limit = DefaultLimit
	}
	scored := make([]domain.ScoredItem, 0, len(candidates))
	for _, item := range candidates {
		if len(item.Embedding) == 0 {
			continue
		}
		score := Cosine(query, item.Embedding)
		if score <= threshold {
			continue
		}
		scored = append(scored, domain.ScoredItem{Item: item, Score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
