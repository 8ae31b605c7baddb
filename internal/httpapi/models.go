package httpapi

import (
	"errors"
	"regexp"
	"unicode"

	"mindvault/internal/domain"
)

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
}

type otpRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type createContentRequest struct {
	Link        string    `json:"link" binding:"required"`
	Type        string    `json:"type" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Embedding   []float64 `json:"embedding"`
}

type deleteContentRequest struct {
	ContentID string `json:"contentId" binding:"required"`
}

type vectorSearchRequest struct {
	Vector []float64 `json:"vector"`
}

type tokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type searchResponse struct {
	Results []domain.ScoredItem `json:"results"`
}

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// validateSignup enforces the account rules the binding tags can't express.
func validateSignup(req signupRequest) error {
	if !usernameRe.MatchString(req.Username) {
		return errors.New("username can only contain letters, numbers, and underscores")
	}
	return validatePassword(req.Password)
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	switch {
	case !lower:
		return errors.New("password must contain at least one lowercase letter")
	case !upper:
		return errors.New("password must contain at least one uppercase letter")
	case !digit:
		return errors.New("password must contain at least one number")
	case !special:
		return errors.New("password must contain at least one special character")
	}
	return nil
}
