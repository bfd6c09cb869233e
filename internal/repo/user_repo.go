package repo

import (
	"context"
	"errors"

	dom "github.com/mgayathri3/SecureSignIn/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors shared by all UserRepo implementations, so the service
// layer does not depend on driver-specific error types.
var (
	ErrNotFound       = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")
)

// CreateUserParams is the full set of fields for a new account.
// PasswordHash is already hashed; repos never see plaintext.
type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	Role         dom.Role
	FirstName    string
	LastName     string
	ProfileImage *string
}

// ProfileUpdate carries only the fields the caller wants to change.
// A nil field means "leave as is". Role is deliberately absent.
type ProfileUpdate struct {
	Username     *string
	Email        *string
	FirstName    *string
	LastName     *string
	ProfileImage *string
}

// UserRepo provides user persistence.
type UserRepo interface {
	Create(ctx context.Context, p CreateUserParams) (dom.User, error)
	GetByID(ctx context.Context, id int64) (dom.User, error)
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) (dom.User, error)
	UpdateLastLogin(ctx context.Context, id int64) error
}

// querier abstracts *pgxpool.Pool for tests (pgxmock implements it).
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PGUserRepo implements UserRepo with Postgres. Uniqueness of username and
// email is enforced by the named UNIQUE constraints in the users table, so
// the conflict check and the write are a single atomic statement.
type PGUserRepo struct {
	db querier
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db querier) *PGUserRepo {
	return &PGUserRepo{db: db}
}

const userColumns = `id, username, email, password_hash, role, first_name, last_name, profile_image, last_login_at, created_at`

func scanUser(row pgx.Row) (dom.User, error) {
	var u dom.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.FirstName, &u.LastName, &u.ProfileImage, &u.LastLoginAt, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.User{}, ErrNotFound
	}
	return u, err
}

// Create inserts a new user and returns it.
func (r *PGUserRepo) Create(ctx context.Context, p CreateUserParams) (dom.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, role, first_name, last_name, profile_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, query,
		p.Username, p.Email, p.PasswordHash, p.Role, p.FirstName, p.LastName, p.ProfileImage))
	if err != nil {
		return dom.User{}, mapUniqueViolation(err)
	}
	return u, nil
}

// GetByID returns the user by primary key.
func (r *PGUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByUsername returns the user by username (case-sensitive exact match).
func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

// GetByEmail returns the user by email (case-sensitive exact match).
func (r *PGUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// UpdateProfile applies only the non-nil fields of upd and returns the
// updated row. COALESCE keeps the update a single statement, so the unique
// constraints still cover the race between the caller's pre-check and the
// actual write.
func (r *PGUserRepo) UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) (dom.User, error) {
	query := `
		UPDATE users SET
			username      = COALESCE($2, username),
			email         = COALESCE($3, email),
			first_name    = COALESCE($4, first_name),
			last_name     = COALESCE($5, last_name),
			profile_image = COALESCE($6, profile_image)
		WHERE id = $1
		RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, query,
		id, upd.Username, upd.Email, upd.FirstName, upd.LastName, upd.ProfileImage))
	if err != nil {
		return dom.User{}, mapUniqueViolation(err)
	}
	return u, nil
}

// UpdateLastLogin stamps last_login_at with the current time. Best effort:
// updating an absent row is not an error.
func (r *PGUserRepo) UpdateLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = now() WHERE id = $1`, id)
	return err
}

// mapUniqueViolation translates a 23505 into the matching sentinel by
// constraint name. Any other error passes through unchanged.
func mapUniqueViolation(err error) error {
	var pge *pgconn.PgError
	if errors.As(err, &pge) && pge.Code == "23505" {
		switch pge.ConstraintName {
		case "users_username_key":
			return ErrUsernameExists
		case "users_email_key":
			return ErrEmailExists
		}
	}
	return err
}
