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

// VerificationStore persists one-time codes, keyed by user and purpose.
type VerificationStore struct {
	db *sqlx.DB
}

// NewVerificationStore creates a new verification store.
func NewVerificationStore(db *sqlx.DB) *VerificationStore {
	return &VerificationStore{db: db}
}

type verificationRow struct {
	UserID    uuid.UUID `db:"user_id"`
	OTP       string    `db:"otp"`
	Purpose   string    `db:"purpose"`
	ExpiresAt time.Time `db:"expires_at"`
}

// Upsert replaces any pending code for the user and purpose.
func (s *VerificationStore) Upsert(ctx context.Context, v *domain.Verification) error {
	query := `
		INSERT INTO verifications (user_id, otp, purpose, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, purpose) DO UPDATE SET otp = $2, expires_at = $4`
	_, err := s.db.ExecContext(ctx, query, v.UserID, v.OTP, string(v.Purpose), v.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to upsert verification: %w", err)
	}
	return nil
}

// Find returns the pending, unexpired code matching the arguments.
func (s *VerificationStore) Find(ctx context.Context, userID uuid.UUID, otp string, purpose domain.VerificationPurpose) (*domain.Verification, error) {
	var row verificationRow
	query := `
		SELECT user_id, otp, purpose, expires_at
		FROM verifications
		WHERE user_id = $1 AND otp = $2 AND purpose = $3 AND expires_at > NOW()`
	if err := s.db.GetContext(ctx, &row, query, userID, otp, string(purpose)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find verification: %w", err)
	}
	return &domain.Verification{
		UserID:    row.UserID,
		OTP:       row.OTP,
		Purpose:   domain.VerificationPurpose(row.Purpose),
		ExpiresAt: row.ExpiresAt,
	}, nil
}

// Delete removes any pending code for the user and purpose.
func (s *VerificationStore) Delete(ctx context.Context, userID uuid.UUID, purpose domain.VerificationPurpose) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM verifications WHERE user_id = $1 AND purpose = $2`, userID, string(purpose)); err != nil {
		return fmt.Errorf("failed to delete verification: %w", err)
	}
	return nil
}
