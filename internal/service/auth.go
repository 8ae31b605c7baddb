package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"mindvault/internal/auth"
	"mindvault/internal/domain"
)

var (
	// ErrInvalidCredentials covers unknown users and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotVerified is returned when an unverified user signs in.
	ErrNotVerified = errors.New("email not verified")
	// ErrInvalidOTP is returned for missing, wrong or expired codes.
	ErrInvalidOTP = errors.New("invalid or expired OTP")
	// ErrAlreadyVerified is returned when verifying a verified account.
	ErrAlreadyVerified = errors.New("user already verified")
)

// AuthService implements signup, email verification, signin and the
// password flows.
type AuthService struct {
	users         domain.UserStore
	verifications domain.VerificationStore
	mailer        domain.Mailer
	tokens        *auth.TokenManager
	otpExpiry     time.Duration
	log           *slog.Logger
}

// NewAuthService creates an auth service.
func NewAuthService(users domain.UserStore, verifications domain.VerificationStore, mailer domain.Mailer, tokens *auth.TokenManager, otpExpiry time.Duration, log *slog.Logger) *AuthService {
	if otpExpiry == 0 {
		otpExpiry = 5 * time.Minute
	}
	return &AuthService{
		users:         users,
		verifications: verifications,
		mailer:        mailer,
		tokens:        tokens,
		otpExpiry:     otpExpiry,
		log:           log,
	}
}

// SignUp creates an unverified account and emails a signup code.
// Returns domain.ErrDuplicate if the email or username is taken.
func (s *AuthService) SignUp(ctx context.Context, username, email, password string) error {
	if _, err := s.users.ByEmail(ctx, email); err == nil {
		return domain.ErrDuplicate
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Verified:     false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}
	return s.issueOTP(ctx, user, domain.PurposeSignup)
}

// VerifySignup confirms a signup code and returns a session token.
func (s *AuthService) VerifySignup(ctx context.Context, email, otp string) (string, error) {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user.Verified {
		return "", ErrAlreadyVerified
	}
	if _, err := s.verifications.Find(ctx, user.ID, otp, domain.PurposeSignup); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrInvalidOTP
		}
		return "", err
	}
	if err := s.users.SetVerified(ctx, user.ID); err != nil {
		return "", err
	}
	if err := s.verifications.Delete(ctx, user.ID, domain.PurposeSignup); err != nil {
		return "", err
	}
	return s.tokens.Generate(user.ID)
}

// ResendSignupOTP issues a fresh signup code for an unverified user.
func (s *AuthService) ResendSignupOTP(ctx context.Context, email string) error {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.Verified {
		return domain.ErrNotFound
	}
	return s.issueOTP(ctx, user, domain.PurposeSignup)
}

// SignIn authenticates by email or username and returns a session token.
func (s *AuthService) SignIn(ctx context.Context, email, username, password string) (string, error) {
	var user *domain.User
	var err error
	if email != "" {
		user, err = s.users.ByEmail(ctx, email)
	} else {
		user, err = s.users.ByUsername(ctx, username)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !user.Verified {
		return "", ErrNotVerified
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Generate(user.ID)
}

// ForgotPassword issues a reset code when the email exists; unknown
// emails are ignored so the endpoint stays non-enumerating.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.issueOTP(ctx, user, domain.PurposeReset)
}

// VerifyReset confirms a reset code, sets the new password and returns
// a session token.
func (s *AuthService) VerifyReset(ctx context.Context, email, otp, newPassword string) (string, error) {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if _, err := s.verifications.Find(ctx, user.ID, otp, domain.PurposeReset); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrInvalidOTP
		}
		return "", err
	}
	if err := s.setPassword(ctx, user.ID, newPassword); err != nil {
		return "", err
	}
	if err := s.verifications.Delete(ctx, user.ID, domain.PurposeReset); err != nil {
		return "", err
	}
	return s.tokens.Generate(user.ID)
}

// ChangePassword verifies the current password before setting a new one
// and returns a fresh session token.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) (string, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return "", ErrInvalidCredentials
	}
	if err := s.setPassword(ctx, user.ID, next); err != nil {
		return "", err
	}
	return s.tokens.Generate(user.ID)
}

// Profile returns the user's account details.
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.users.ByID(ctx, userID)
}

func (s *AuthService) setPassword(ctx context.Context, userID uuid.UUID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.SetPassword(ctx, userID, string(hash))
}

func (s *AuthService) issueOTP(ctx context.Context, user *domain.User, purpose domain.VerificationPurpose) error {
	otp, err := generateOTP()
	if err != nil {
		return fmt.Errorf("generate OTP: %w", err)
	}
	v := &domain.Verification{
		UserID:    user.ID,
		OTP:       otp,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(s.otpExpiry),
	}
	if err := s.verifications.Upsert(ctx, v); err != nil {
		return err
	}
	if err := s.mailer.SendOTP(ctx, user.Email, otp, purpose); err != nil {
		return fmt.Errorf("send OTP email: %w", err)
	}
	s.log.Info("OTP issued", "user_id", user.ID.String(), "purpose", string(purpose))
	return nil
}

// generateOTP returns a 6-digit numeric code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
