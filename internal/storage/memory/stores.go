package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"mindvault/internal/domain"
)

// UserStore keeps accounts in a map guarded by a mutex.
type UserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (s *UserStore) Create(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return domain.ErrDuplicate
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	clone := *u
	s.users[u.ID] = &clone
	return nil
}

func (s *UserStore) ByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.find(func(u *domain.User) bool { return u.Email == email })
}

func (s *UserStore) ByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.find(func(u *domain.User) bool { return u.Username == username })
}

func (s *UserStore) find(match func(*domain.User) bool) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *UserStore) SetVerified(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Verified = true
	return nil
}

func (s *UserStore) SetPassword(ctx context.Context, id uuid.UUID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

// VerificationStore keeps pending codes keyed by user and purpose.
type VerificationStore struct {
	mu    sync.Mutex
	codes map[string]*domain.Verification
}

func NewVerificationStore() *VerificationStore {
	return &VerificationStore{codes: make(map[string]*domain.Verification)}
}

func verificationKey(userID uuid.UUID, purpose domain.VerificationPurpose) string {
	return userID.String() + "/" + string(purpose)
}

func (s *VerificationStore) Upsert(ctx context.Context, v *domain.Verification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *v
	s.codes[verificationKey(v.UserID, v.Purpose)] = &clone
	return nil
}

func (s *VerificationStore) Find(ctx context.Context, userID uuid.UUID, otp string, purpose domain.VerificationPurpose) (*domain.Verification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.codes[verificationKey(userID, purpose)]
	if !ok || v.OTP != otp || time.Now().After(v.ExpiresAt) {
		return nil, domain.ErrNotFound
	}
	clone := *v
	return &clone, nil
}

func (s *VerificationStore) Delete(ctx context.Context, userID uuid.UUID, purpose domain.VerificationPurpose) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, verificationKey(userID, purpose))
	return nil
}

// LinkStore keeps share links in a map guarded by a mutex.
type LinkStore struct {
	mu    sync.Mutex
	links map[uuid.UUID]*domain.ShareLink
	users *UserStore
}

// NewLinkStore creates a link store. users is needed for the public
// listing, which joins usernames.
func NewLinkStore(users *UserStore) *LinkStore {
	return &LinkStore{links: make(map[uuid.UUID]*domain.ShareLink), users: users}
}

func (s *LinkStore) Create(ctx context.Context, l *domain.ShareLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	clone := *l
	s.links[l.UserID] = &clone
	return nil
}

func (s *LinkStore) ByUser(ctx context.Context, userID uuid.UUID) (*domain.ShareLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *l
	return &clone, nil
}

func (s *LinkStore) ByHash(ctx context.Context, hash string) (*domain.ShareLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.links {
		if l.Hash == hash {
			clone := *l
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *LinkStore) Delete(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.links, userID)
	return nil
}

func (s *LinkStore) ListAll(ctx context.Context) ([]domain.SharedBrain, error) {
	s.mu.Lock()
	links := make([]*domain.ShareLink, 0, len(s.links))
	for _, l := range s.links {
		links = append(links, l)
	}
	s.mu.Unlock()

	sort.Slice(links, func(i, j int) bool { return links[i].CreatedAt.After(links[j].CreatedAt) })
	brains := make([]domain.SharedBrain, 0, len(links))
	for _, l := range links {
		user, err := s.users.ByID(ctx, l.UserID)
		if err != nil {
			continue
		}
		brains = append(brains, domain.SharedBrain{Username: user.Username, Hash: l.Hash, CreatedAt: l.CreatedAt})
	}
	return brains, nil
}
