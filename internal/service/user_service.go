package service

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/mgayathri3/SecureSignIn/internal/auth"
	"github.com/mgayathri3/SecureSignIn/internal/cache"
	dom "github.com/mgayathri3/SecureSignIn/internal/domain"
	"github.com/mgayathri3/SecureSignIn/internal/repo"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrInvalidCredentials covers both unknown username and wrong password.
	// Callers must surface one uniform message for either case.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("invalid role")
)

// SignupParams is the full input for account creation. Password is plaintext
// here and nowhere below this layer.
type SignupParams struct {
	Username     string
	Email        string
	Password     string
	Role         dom.Role
	FirstName    string
	LastName     string
	ProfileImage *string
}

// UserService orchestrates credential verification, account creation and
// profile updates over a UserRepo. If c is nil, caching is disabled.
type UserService struct {
	repo   repo.UserRepo
	hasher *auth.PasswordHasher
	cache  *cache.UserCache
	sf     singleflight.Group
}

// NewUserService returns a new UserService.
func NewUserService(r repo.UserRepo, h *auth.PasswordHasher, c *cache.UserCache) *UserService {
	return &UserService{repo: r, hasher: h, cache: c}
}

// Login checks username and password and, on success, stamps the last login
// time and returns the user. Unknown username and wrong password both come
// back as ErrInvalidCredentials; only the internal log distinguishes them.
func (s *UserService) Login(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			log.Printf("login rejected: unknown username %q", username)
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		log.Printf("login rejected: wrong password for user id %d", u.ID)
		return dom.User{}, ErrInvalidCredentials
	}

	// Best effort: a failed stamp must not fail the login.
	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, u.ID); err != nil {
		log.Printf("last login stamp failed for user id %d: %v", u.ID, err)
	} else {
		u.LastLoginAt = &now
	}
	s.invalidate(ctx, u.ID)
	return u, nil
}

// Signup hashes the password and creates the account. Uniqueness violations
// surface as ErrUsernameTaken / ErrEmailTaken, distinct on purpose: the
// caller already knows the field it just submitted.
func (s *UserService) Signup(ctx context.Context, p SignupParams) (dom.User, error) {
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.TrimSpace(p.Email)
	if !p.Role.Valid() {
		return dom.User{}, ErrInvalidRole
	}
	hash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, repo.CreateUserParams{
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: hash,
		Role:         p.Role,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		ProfileImage: p.ProfileImage,
	})
	if err != nil {
		return dom.User{}, mapRepoErr(err)
	}
	return u, nil
}

// GetByID loads one account, through the cache when one is configured.
// Concurrent lookups for the same id collapse into a single repo read.
func (s *UserService) GetByID(ctx context.Context, id int64) (dom.User, error) {
	if s.cache == nil {
		return s.getByID(ctx, id)
	}
	v, err, _ := s.sf.Do("user:"+strconv.FormatInt(id, 10), func() (interface{}, error) {
		if u, ok, err := s.cache.Get(ctx, id); err == nil && ok {
			return u, nil
		}
		u, err := s.getByID(ctx, id)
		if err != nil {
			return dom.User{}, err
		}
		if err := s.cache.Set(ctx, u); err != nil {
			log.Printf("user cache set failed for id %d: %v", id, err)
		}
		return u, nil
	})
	if err != nil {
		return dom.User{}, err
	}
	return v.(dom.User), nil
}

func (s *UserService) getByID(ctx context.Context, id int64) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dom.User{}, mapRepoErr(err)
	}
	return u, nil
}

// UpdateProfile applies the non-nil fields of upd to the account. Username
// and email are first checked against every other account; the repo's own
// conflict detection still backs this up under races. Role cannot change
// here: ProfileUpdate has no role field.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, upd repo.ProfileUpdate) (dom.User, error) {
	if upd.Username != nil {
		trimmed := strings.TrimSpace(*upd.Username)
		upd.Username = &trimmed
		if other, err := s.repo.GetByUsername(ctx, trimmed); err == nil && other.ID != id {
			return dom.User{}, ErrUsernameTaken
		}
	}
	if upd.Email != nil {
		trimmed := strings.TrimSpace(*upd.Email)
		upd.Email = &trimmed
		if other, err := s.repo.GetByEmail(ctx, trimmed); err == nil && other.ID != id {
			return dom.User{}, ErrEmailTaken
		}
	}
	u, err := s.repo.UpdateProfile(ctx, id, upd)
	if err != nil {
		return dom.User{}, mapRepoErr(err)
	}
	s.invalidate(ctx, id)
	return u, nil
}

func (s *UserService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		log.Printf("user cache invalidate failed for id %d: %v", id, err)
	}
}

func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repo.ErrUsernameExists):
		return ErrUsernameTaken
	case errors.Is(err, repo.ErrEmailExists):
		return ErrEmailTaken
	default:
		return err
	}
}
