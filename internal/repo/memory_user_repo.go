package repo

import (
	"context"
	"sync"
	"time"

	dom "github.com/mgayathri3/SecureSignIn/internal/domain"
)

// MemoryUserRepo implements UserRepo with an in-process map. It is the
// backend when no Postgres DSN is configured, and the test double. One
// mutex serializes every operation, so the uniqueness check and the write
// are observed as a single step.
type MemoryUserRepo struct {
	mu     sync.RWMutex
	users  map[int64]dom.User
	nextID int64
}

// NewMemoryUserRepo returns an empty MemoryUserRepo.
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[int64]dom.User), nextID: 1}
}

// Create inserts a new user, enforcing username/email uniqueness.
func (r *MemoryUserRepo) Create(ctx context.Context, p CreateUserParams) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == p.Username {
			return dom.User{}, ErrUsernameExists
		}
		if u.Email == p.Email {
			return dom.User{}, ErrEmailExists
		}
	}

	u := dom.User{
		ID:           r.nextID,
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		Role:         p.Role,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		ProfileImage: p.ProfileImage,
		CreatedAt:    time.Now().UTC(),
	}
	r.users[u.ID] = u
	r.nextID++ // ids are never reused, even though accounts are never deleted here
	return u, nil
}

// GetByID returns the user by primary key.
func (r *MemoryUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return dom.User{}, ErrNotFound
	}
	return u, nil
}

// GetByUsername returns the user by username (case-sensitive).
func (r *MemoryUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return dom.User{}, ErrNotFound
}

// GetByEmail returns the user by email (case-sensitive).
func (r *MemoryUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return dom.User{}, ErrNotFound
}

// UpdateProfile applies non-nil fields of upd, re-checking uniqueness
// against every other account under the same lock.
func (r *MemoryUserRepo) UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return dom.User{}, ErrNotFound
	}

	for otherID, other := range r.users {
		if otherID == id {
			continue
		}
		if upd.Username != nil && other.Username == *upd.Username {
			return dom.User{}, ErrUsernameExists
		}
		if upd.Email != nil && other.Email == *upd.Email {
			return dom.User{}, ErrEmailExists
		}
	}

	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.ProfileImage != nil {
		img := *upd.ProfileImage
		u.ProfileImage = &img
	}
	r.users[id] = u
	return u, nil
}

// UpdateLastLogin stamps LastLoginAt. A missing account is a no-op.
func (r *MemoryUserRepo) UpdateLastLogin(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil
	}
	now := time.Now().UTC()
	u.LastLoginAt = &now
	r.users[id] = u
	return nil
}
