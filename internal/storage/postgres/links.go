package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"mindvault/internal/domain"
)

// LinkStore persists share links.
type LinkStore struct {
	db *sqlx.DB
}

// NewLinkStore creates a new share-link store.
func NewLinkStore(db *sqlx.DB) *LinkStore {
	return &LinkStore{db: db}
}

type linkRow struct {
	UserID    uuid.UUID `db:"user_id"`
	Hash      string    `db:"hash"`
	CreatedAt time.Time `db:"created_at"`
}

type brainRow struct {
	Username  string    `db:"username"`
	Hash      string    `db:"hash"`
	CreatedAt time.Time `db:"created_at"`
}

// Create inserts a share link for a user.
func (s *LinkStore) Create(ctx context.Context, l *domain.ShareLink) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO share_links (user_id, hash, created_at) VALUES ($1, $2, $3)`,
		l.UserID, l.Hash, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create share link: %w", err)
	}
	return nil
}

// ByUser returns the user's share link, if any.
func (s *LinkStore) ByUser(ctx context.Context, userID uuid.UUID) (*domain.ShareLink, error) {
	return s.one(ctx, `WHERE user_id = $1`, userID)
}

// ByHash resolves a public hash to its share link.
func (s *LinkStore) ByHash(ctx context.Context, hash string) (*domain.ShareLink, error) {
	return s.one(ctx, `WHERE hash = $1`, hash)
}

func (s *LinkStore) one(ctx context.Context, where string, arg interface{}) (*domain.ShareLink, error) {
	var row linkRow
	query := `SELECT user_id, hash, created_at FROM share_links ` + where
	if err := s.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get share link: %w", err)
	}
	return &domain.ShareLink{UserID: row.UserID, Hash: row.Hash, CreatedAt: row.CreatedAt}, nil
}

// Delete removes the user's share link.
func (s *LinkStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM share_links WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete share link: %w", err)
	}
	return nil
}

// ListAll returns every shared brain, newest first.
func (s *LinkStore) ListAll(ctx context.Context) ([]domain.SharedBrain, error) {
	var rows []brainRow
	query := `
		SELECT u.username, l.hash, l.created_at
		FROM share_links l
		JOIN users u ON u.id = l.user_id
		ORDER BY l.created_at DESC`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list shared brains: %w", err)
	}
	brains := make([]domain.SharedBrain, 0, len(rows))
	for _, r := range rows {
		brains = append(brains, domain.SharedBrain{Username: r.Username, Hash: r.Hash, CreatedAt: r.CreatedAt})
	}
	return brains, nil
}
