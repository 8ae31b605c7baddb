package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"mindvault/internal/domain"
)

const uniqueViolation = "23505"

// UserStore persists accounts.
type UserStore struct {
	db *sqlx.DB
}

// NewUserStore creates a new user store.
func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

type userRow struct {
	ID           uuid.UUID `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Verified     bool      `db:"verified"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Verified:     r.Verified,
		CreatedAt:    r.CreatedAt,
	}
}

// Create inserts a new user. Returns domain.ErrDuplicate when the
// username or email is taken.
func (s *UserStore) Create(ctx context.Context, u *domain.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO users (id, username, email, password_hash, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Verified, u.CreatedAt)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// ByID retrieves a user by id.
func (s *UserStore) ByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.one(ctx, `WHERE id = $1`, id)
}

// ByEmail retrieves a user by email.
func (s *UserStore) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.one(ctx, `WHERE email = $1`, email)
}

// ByUsername retrieves a user by username.
func (s *UserStore) ByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.one(ctx, `WHERE username = $1`, username)
}

func (s *UserStore) one(ctx context.Context, where string, arg interface{}) (*domain.User, error) {
	var row userRow
	query := `SELECT id, username, email, password_hash, verified, created_at FROM users ` + where
	if err := s.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return row.toDomain(), nil
}

// SetVerified marks a user's email as verified.
func (s *UserStore) SetVerified(ctx context.Context, id uuid.UUID) error {
	return s.update(ctx, `UPDATE users SET verified = TRUE WHERE id = $1`, id)
}

// SetPassword replaces a user's password hash.
func (s *UserStore) SetPassword(ctx context.Context, id uuid.UUID, hash string) error {
	return s.update(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, hash)
}

func (s *UserStore) update(ctx context.Context, query string, args ...interface{}) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
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
