package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"mindvault/internal/domain"
	"mindvault/internal/embedding"
)

// ContentService creates, lists and deletes saved items.
type ContentService struct {
	items    domain.ItemStore
	embedder embedding.Embedder
	log      *slog.Logger
}

// NewContentService creates a content service.
func NewContentService(items domain.ItemStore, embedder embedding.Embedder, log *slog.Logger) *ContentService {
	return &ContentService{items: items, embedder: embedder, log: log}
}

// CreateInput carries the fields for a new item. Embedding is optional:
// clients that embed locally send it, otherwise the server embeds the
// title and description itself.
type CreateInput struct {
	Title       string
	Link        string
	Type        domain.ItemType
	Description string
	Embedding   []float64
}

// Create stores a new item. Creation is never blocked by embedding
// failure: when embedding fails the item is stored with a zero vector
// (unreachable by semantic search) and the fallback is logged.
func (s *ContentService) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (*domain.Item, error) {
	vector := in.Embedding
	if len(vector) == 0 {
		text := strings.TrimSpace(in.Title + " " + in.Description)
		v, err := s.embedder.Embed(ctx, text)
		if err != nil {
			s.log.Warn("item embedding failed, storing zero vector",
				"user_id", userID.String(), "title", in.Title, "error", err)
			v = embedding.ZeroVector()
		}
		vector = v
	}

	item := &domain.Item{
		UserID:      userID,
		Title:       in.Title,
		Link:        in.Link,
		Type:        in.Type,
		Description: in.Description,
		Embedding:   vector,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

// List returns all of the user's items, newest first.
func (s *ContentService) List(ctx context.Context, userID uuid.UUID) ([]domain.Item, error) {
	return s.items.ListByUser(ctx, userID)
}

// Delete removes one of the user's items.
func (s *ContentService) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.items.Delete(ctx, userID, itemID)
}
