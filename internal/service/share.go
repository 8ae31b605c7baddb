package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"mindvault/internal/domain"
)

const shareHashLen = 10

// ShareService manages public read-only shares of a user's collection.
type ShareService struct {
	links domain.LinkStore
	users domain.UserStore
	items domain.ItemStore
}

// NewShareService creates a share service.
func NewShareService(links domain.LinkStore, users domain.UserStore, items domain.ItemStore) *ShareService {
	return &ShareService{links: links, users: users, items: items}
}

// Share returns the user's share link, creating one on first use.
func (s *ShareService) Share(ctx context.Context, userID uuid.UUID) (*domain.ShareLink, string, error) {
	link, err := s.links.ByUser(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		hash, err := randomHash(shareHashLen)
		if err != nil {
			return nil, "", err
		}
		link = &domain.ShareLink{UserID: userID, Hash: hash}
		if err := s.links.Create(ctx, link); err != nil {
			return nil, "", err
		}
	} else if err != nil {
		return nil, "", err
	}
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	return link, user.Username, nil
}

// MyLink returns the user's existing share link, or domain.ErrNotFound.
func (s *ShareService) MyLink(ctx context.Context, userID uuid.UUID) (*domain.ShareLink, string, error) {
	link, err := s.links.ByUser(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	return link, user.Username, nil
}

// Unshare removes the user's share link.
func (s *ShareService) Unshare(ctx context.Context, userID uuid.UUID) error {
	return s.links.Delete(ctx, userID)
}

// Resolve returns the shared collection behind a public hash.
func (s *ShareService) Resolve(ctx context.Context, hash string) (string, []domain.Item, error) {
	link, err := s.links.ByHash(ctx, hash)
	if err != nil {
		return "", nil, err
	}
	user, err := s.users.ByID(ctx, link.UserID)
	if err != nil {
		return "", nil, err
	}
	items, err := s.items.ListByUser(ctx, link.UserID)
	if err != nil {
		return "", nil, err
	}
	return user.Username, items, nil
}

// ListPublic returns every shared brain, newest first.
func (s *ShareService) ListPublic(ctx context.Context) ([]domain.SharedBrain, error) {
	return s.links.ListAll(ctx)
}

const hashAlphabet = "abcdefghijklmnopqrstuvwxyz1234567890"

func randomHash(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate share hash: %w", err)
	}
	for i := range buf {
		buf[i] = hashAlphabet[int(buf[i])%len(hashAlphabet)]
	}
	return string(buf), nil
}
