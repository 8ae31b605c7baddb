package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ItemType is the closed set of saveable content kinds.
type ItemType string

const (
	TypeYouTube   ItemType = "youtube"
	TypeTwitter   ItemType = "twitter"
	TypeInstagram ItemType = "instagram"
	TypeNote      ItemType = "note"
	TypeMusic     ItemType = "music"
	TypeLink      ItemType = "link"
)

// ValidType reports whether t is one of the known item types.
func ValidType(t ItemType) bool {
	switch t {
	case TypeYouTube, TypeTwitter, TypeInstagram, TypeNote, TypeMusic, TypeLink:
		return true
	}
	return false
}

// Item is a single saved piece of content owned by a user.
// Embedding is written once at creation time and only read afterwards;
// it may be empty if embedding generation failed.
type Item struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Type        ItemType  `json:"type"`
	Description string    `json:"description,omitempty"`
	Embedding   []float64 `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ScoredItem pairs an item with its similarity score for one search response.
type ScoredItem struct {
	Item
	Score float64 `json:"score"`
}

// User is a registered account.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Verified     bool
	CreatedAt    time.Time
}

// VerificationPurpose distinguishes signup confirmation from password reset.
type VerificationPurpose string

const (
	PurposeSignup VerificationPurpose = "signup"
	PurposeReset  VerificationPurpose = "reset"
)

// Verification is a pending one-time code for a user.
type Verification struct {
	UserID    uuid.UUID
	OTP       string
	Purpose   VerificationPurpose
	ExpiresAt time.Time
}

// ShareLink exposes a user's collection read-only under a short hash.
type ShareLink struct {
	UserID    uuid.UUID
	Hash      string
	CreatedAt time.Time
}

// SharedBrain is a public listing entry for a shared collection.
type SharedBrain struct {
	Username  string    `json:"username"`
	Hash      string    `json:"hash"`
	CreatedAt time.Time `json:"createdAt"`
}

// ItemStore persists saved items.
type ItemStore interface {
	Create(ctx context.Context, item *Item) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Item, error)
	// Candidates returns the user's items that carry a stored embedding.
	Candidates(ctx context.Context, userID uuid.UUID) ([]Item, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID) error
}

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	ByID(ctx context.Context, id uuid.UUID) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	ByUsername(ctx context.Context, username string) (*User, error)
	SetVerified(ctx context.Context, id uuid.UUID) error
	SetPassword(ctx context.Context, id uuid.UUID, hash string) error
}

// VerificationStore persists one-time codes.
type VerificationStore interface {
	Upsert(ctx context.Context, v *Verification) error
	Find(ctx context.Context, userID uuid.UUID, otp string, purpose VerificationPurpose) (*Verification, error)
	Delete(ctx context.Context, userID uuid.UUID, purpose VerificationPurpose) error
}

// LinkStore persists share links.
type LinkStore interface {
	Create(ctx context.Context, l *ShareLink) error
	ByUser(ctx context.Context, userID uuid.UUID) (*ShareLink, error)
	ByHash(ctx context.Context, hash string) (*ShareLink, error)
	Delete(ctx context.Context, userID uuid.UUID) error
	ListAll(ctx context.Context) ([]SharedBrain, error)
}

// Mailer delivers one-time codes.
type Mailer interface {
	SendOTP(ctx context.Context, email, otp string, purpose VerificationPurpose) error
}
