package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"mindvault/internal/domain"
)

// ItemStore persists saved items. Embeddings are stored in a
// double precision[] column and only ever written at creation time.
type ItemStore struct {
	db *sqlx.DB
}

// NewItemStore creates a new item store.
func NewItemStore(db *sqlx.DB) *ItemStore {
	return &ItemStore{db: db}
}

type itemRow struct {
	ID          uuid.UUID       `db:"id"`
	UserID      uuid.UUID       `db:"user_id"`
	Title       string          `db:"title"`
	Link        string          `db:"link"`
	Type        string          `db:"type"`
	Description string          `db:"description"`
	Embedding   pq.Float64Array `db:"embedding"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (r itemRow) toDomain() domain.Item {
	return domain.Item{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Link:        r.Link,
		Type:        domain.ItemType(r.Type),
		Description: r.Description,
		Embedding:   []float64(r.Embedding),
		CreatedAt:   r.CreatedAt,
	}
}

// Create inserts a new item.
func (s *ItemStore) Create(ctx context.Context, item *domain.Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO items (id, user_id, title, link, type, description, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.db.ExecContext(ctx, query,
		item.ID, item.UserID, item.Title, item.Link, string(item.Type),
		item.Description, pq.Float64Array(item.Embedding), item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// ListByUser returns all of a user's items, newest first.
func (s *ItemStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Item, error) {
	var rows []itemRow
	query := `
		SELECT id, user_id, title, link, type, description, embedding, created_at
		FROM items
		WHERE user_id = $1
		ORDER BY created_at DESC`
	if err := s.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	items := make([]domain.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toDomain())
	}
	return items, nil
}

// Candidates returns the user's items that carry a stored embedding, in a
// stable order so repeated searches rank ties identically.
func (s *ItemStore) Candidates(ctx context.Context, userID uuid.UUID) ([]domain.Item, error) {
	var rows []itemRow
	query := `
		SELECT id, user_id, title, link, type, description, embedding, created_at
		FROM items
		WHERE user_id = $1 AND embedding IS NOT NULL AND cardinality(embedding) > 0
		ORDER BY created_at ASC, id ASC`
	if err := s.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	items := make([]domain.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toDomain())
	}
	return items, nil
}

// Delete removes an item if it belongs to the user.
func (s *ItemStore) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
