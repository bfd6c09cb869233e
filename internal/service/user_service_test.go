package service

import (
	"context"
	"sync"
	"testing"

	"github.com/mgayathri3/SecureSignIn/internal/auth"
	dom "github.com/mgayathri3/SecureSignIn/internal/domain"
	"github.com/mgayathri3/SecureSignIn/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() (*UserService, *repo.MemoryUserRepo) {
	r := repo.NewMemoryUserRepo()
	return NewUserService(r, auth.NewPasswordHasher(bcrypt.MinCost), nil), r
}

func signupAlice(t *testing.T, s *UserService) dom.User {
	t.Helper()
	u, err := s.Signup(context.Background(), SignupParams{
		Username: "alice",
		Email:    "a@x.com",
		Password: "Abcd1234",
		Role:     dom.RoleStandard,
	})
	require.NoError(t, err)
	return u
}

func TestSignup(t *testing.T) {
	s, _ := newTestService()

	u := signupAlice(t, s)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, dom.RoleStandard, u.Role)
	assert.NotEqual(t, "Abcd1234", u.PasswordHash, "password stored hashed")
	assert.NotEmpty(t, u.PasswordHash)
}

func TestSignup_TakenFieldsAreDistinctErrors(t *testing.T) {
	s, _ := newTestService()
	signupAlice(t, s)

	_, err := s.Signup(context.Background(), SignupParams{
		Username: "alice", Email: "fresh@x.com", Password: "Abcd1234", Role: dom.RoleStandard,
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = s.Signup(context.Background(), SignupParams{
		Username: "fresh", Email: "a@x.com", Password: "Abcd1234", Role: dom.RoleStandard,
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignup_RejectsUnknownRole(t *testing.T) {
	s, _ := newTestService()

	_, err := s.Signup(context.Background(), SignupParams{
		Username: "eve", Email: "e@x.com", Password: "Abcd1234", Role: dom.Role("Admin"),
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestLogin(t *testing.T) {
	s, _ := newTestService()
	created := signupAlice(t, s)
	require.Nil(t, created.LastLoginAt)

	u, err := s.Login(context.Background(), "alice", "Abcd1234")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)
	assert.NotNil(t, u.LastLoginAt, "login stamps the last login time")
}

func TestLogin_UniformFailure(t *testing.T) {
	s, _ := newTestService()
	signupAlice(t, s)

	// Wrong password and unknown username are indistinguishable to the caller,
	// and repeated attempts always fail the same way.
	for i := 0; i < 3; i++ {
		_, err := s.Login(context.Background(), "alice", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err := s.Login(context.Background(), "nobody", "Abcd1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetByID(t *testing.T) {
	s, _ := newTestService()
	created := signupAlice(t, s)

	u, err := s.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = s.GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	s, _ := newTestService()
	alice := signupAlice(t, s)

	first, last := "Alice", "Smith"
	u, err := s.UpdateProfile(context.Background(), alice.ID, repo.ProfileUpdate{
		FirstName: &first,
		LastName:  &last,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.FirstName)
	assert.Equal(t, "Smith", u.LastName)
	assert.Equal(t, "alice", u.Username, "absent fields stay untouched")
	assert.Equal(t, dom.RoleStandard, u.Role)
}

func TestUpdateProfile_ConflictWithOtherAccount(t *testing.T) {
	s, _ := newTestService()
	alice := signupAlice(t, s)
	_, err := s.Signup(context.Background(), SignupParams{
		Username: "bob", Email: "b@x.com", Password: "Abcd1234", Role: dom.RoleStandard,
	})
	require.NoError(t, err)

	taken := "b@x.com"
	_, err = s.UpdateProfile(context.Background(), alice.ID, repo.ProfileUpdate{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// Alice's email is unchanged after the failed update.
	u, err := s.GetByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)

	name := "bob"
	_, err = s.UpdateProfile(context.Background(), alice.ID, repo.ProfileUpdate{Username: &name})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUpdateProfile_OwnValuesAreNotConflicts(t *testing.T) {
	s, _ := newTestService()
	alice := signupAlice(t, s)

	own := "alice"
	ownEmail := "a@x.com"
	u, err := s.UpdateProfile(context.Background(), alice.ID, repo.ProfileUpdate{
		Username: &own,
		Email:    &ownEmail,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
}

func TestUpdateProfile_NotFound(t *testing.T) {
	s, _ := newTestService()
	name := "ghost"
	_, err := s.UpdateProfile(context.Background(), 404, repo.ProfileUpdate{Username: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestConcurrentSignups_OneWinner(t *testing.T) {
	s, _ := newTestService()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Signup(context.Background(), SignupParams{
				Username: "racer",
				Email:    "racer@x.com",
				Password: "Abcd1234",
				Role:     dom.RoleStandard,
			})
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		}
	}
	assert.Equal(t, 1, won)
}
