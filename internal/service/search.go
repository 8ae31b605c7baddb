// Package service implements the application core behind the HTTP layer.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"mindvault/internal/domain"
	"mindvault/internal/embedding"
	"mindvault/internal/similarity"
)

// SearchService ranks a user's saved items against a query vector.
type SearchService struct {
	items     domain.ItemStore
	embedder  embedding.Embedder
	threshold float64
	limit     int
	log       *slog.Logger
}

// NewSearchService creates a search service with the given ranking knobs.
func NewSearchService(items domain.ItemStore, embedder embedding.Embedder, threshold float64, limit int, log *slog.Logger) *SearchService {
	if threshold == 0 {
		threshold = similarity.DefaultThreshold
	}
	if limit <= 0 {
		limit = similarity.DefaultLimit
	}
	return &SearchService{items: items, embedder: embedder, threshold: threshold, limit: limit, log: log}
}

// SearchVector ranks the caller's candidates against an already-embedded
// query vector.
func (s *SearchService) SearchVector(ctx context.Context, userID uuid.UUID, vector []float64) ([]domain.ScoredItem, error) {
	candidates, err := s.items.Candidates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	return similarity.Rank(vector, candidates, s.threshold, s.limit), nil
}

// SearchText embeds the query server-side and ranks with the result. An
// embedding failure degrades to a zero vector, which yields an empty
// result set instead of a failed request; the fallback is logged so it
// stays observable.
func (s *SearchService) SearchText(ctx context.Context, userID uuid.UUID, query string) ([]domain.ScoredItem, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.log.Warn("query embedding failed, falling back to zero vector",
			"user_id", userID.String(), "error", err)
		vector = embedding.ZeroVector()
	}
	return s.SearchVector(ctx, userID, vector)
}
