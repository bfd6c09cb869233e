package repo

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dom "github.com/mgayathri3/SecureSignIn/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(n int) CreateUserParams {
	return CreateUserParams{
		Username:     fmt.Sprintf("user%d", n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: "$2a$04$fakehash",
		Role:         dom.RoleStandard,
	}
}

func TestMemoryUserRepo_CreateAndGet(t *testing.T) {
	r := NewMemoryUserRepo()
	ctx := context.Background()

	u, err := r.Create(ctx, CreateUserParams{
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: "hash",
		Role:         dom.RoleStandard,
		FirstName:    "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.False(t, u.CreatedAt.IsZero())
	assert.Nil(t, u.LastLoginAt)

	byID, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Username, byID.Username)

	byName, err := r.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byEmail, err := r.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
}

func TestMemoryUserRepo_LookupsAreCaseSensitive(t *testing.T) {
	r := NewMemoryUserRepo()
	ctx := context.Background()

	_, err := r.Create(ctx, CreateUserParams{Username: "Alice", Email: "A@x.com", Role: dom.RoleStandard})
	require.NoError(t, err)

	_, err = r.GetByUsername(ctx, "alice")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.GetByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUserRepo_CreateConflicts(t *testing.T) {
	r := NewMemoryUserRepo()
	ctx := context.Background()

	_, err := r.Create(ctx, CreateUserParams{Username: "alice", Email: "a@x.com", Role: dom.RoleStandard})
	require.NoError(t, err)

	_, err = r.Create(ctx, CreateUserParams{Username: "alice", Email: "other@x.com", Role: dom.RoleStandard})
	assert.ErrorIs(t, err, ErrUsernameExists)

	_, err = r.Create(ctx, CreateUserParams{Username: "bob", Email: "a@x.com", Role: dom.RoleStandard})
	assert.ErrorIs(t, err, ErrEmailExists)

	// A failed create leaves the store untouched.
	_, err = r.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUserRepo_ConcurrentCreateSameUsername(t *testing.T) {
	r := NewMemoryUserRepo()
	ctx := context.Background()

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.Create(ctx, CreateUserParams{
				Username: "racer",
				Email:    fmt.Sprintf("racer%d@x.com", i),
				Role:     dom.RoleStandard,
			})
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, ErrUsernameExists)
		}
	}
	assert.Equal(t, 1, won, "exactly one racing signup succeeds")
}

func TestMemoryUserRepo_IDsNeverReused(t *testing.T) {
	r := NewMemoryUserRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		u, err := r.Create(ctx, newTestUser(i))
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), u.ID)
	}
}

func TestMemoryUserRepo_UpdateProfile(t *testing.T) {
	r := NewMemoryUserRepo()
	ctx := context.Background()

	alice, err := r.Create(ctx, CreateUserParams{Username: "alice", Email: "a@x.com", Role: dom.RolePrivileged})
	require.NoError(t, err)
	_, err = r.Create(ctx, CreateUserParams{Username: "bob", Email: "b@x.com", Role: dom.RoleStandard})
	require.NoError(t, err)

	newName := "alice2"
	first := "Alice"
	u, err := r.UpdateProfile(ctx, alice.ID, ProfileUpdate{Username: &newName, FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "alice2", u.Username)
	assert.Equal(t, "Alice", u.FirstName)
	assert.Equal(t, "a@x.com", u.Email, "untouched field keeps its value")
	assert.Equal(t, dom.RolePrivileged, u.Role)

	// Conflict with another account's email.
	taken := "b@x.com"
	_, err = r.UpdateProfile(ctx, alice.ID, ProfileUpdate{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailExists)

	// The failed update changed nothing.
	u, err = r.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)

	// Setting a field to its own current value is not a conflict.
	own := "alice2"
	_, err = r.UpdateProfile(ctx, alice.ID, ProfileUpdate{Username: &own})
	assert.NoError(t, err)
}

func TestMemoryUserRepo_UpdateProfileNotFound(t *testing.T) {
	r := NewMemoryUserRepo()
	name := "ghost"
	_, err := r.UpdateProfile(context.Background(), 404, ProfileUpdate{Username: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUserRepo_UpdateLastLogin(t *testing.T) {
	r := NewMemoryUserRepo()
	ctx := context.Background()

	u, err := r.Create(ctx, newTestUser(1))
	require.NoError(t, err)
	require.Nil(t, u.LastLoginAt)

	require.NoError(t, r.UpdateLastLogin(ctx, u.ID))
	u, err = r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotNil(t, u.LastLoginAt)

	// Best effort: stamping a missing account is a silent no-op.
	assert.NoError(t, r.UpdateLastLogin(ctx, 12345))
}
