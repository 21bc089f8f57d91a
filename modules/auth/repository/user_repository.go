package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"meetly/core/database"
	"meetly/core/logger"
	"meetly/modules/auth/entity"
)

const userColumns = `id, name, email, username, password, image_url, timezone, created_at, updated_at`

// pgUniqueViolation is raised by the unique indexes on email and username.
const pgUniqueViolation = "23505"

// UserRepository persists registered hosts.
type UserRepository struct {
	DB database.Database
}

func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{DB: db}
}

// UserRepositoryInterface defines the repository contract.
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, user *entity.User) error
}

// IsUniqueViolation reports whether err is a unique index conflict, used
// to translate duplicate email or username into a client error.
func IsUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && string(pqErr.Code) == pgUniqueViolation
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (name, email, username, password, timezone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	var created entity.User
	err := r.DB.GetContext(ctx, &created, query,
		user.Name, user.Email, user.Username, user.Password, user.Timezone)
	if err != nil {
		logger.Error("UserRepository:Create", "email", user.Email, "error", err)
		return nil, err
	}
	return &created, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, arg)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("UserRepository:Get", "error", err)
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
	if err != nil {
		logger.Error("UserRepository:UsernameExists", "error", err)
		return false, err
	}
	return exists, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET name = $2, image_url = $3, timezone = $4, updated_at = NOW()
		WHERE id = $1
	`
	if err := r.DB.ExecContext(ctx, query, user.ID, user.Name, user.ImageURL, user.Timezone); err != nil {
		logger.Error("UserRepository:UpdateProfile", "user_id", user.ID, "error", err)
		return err
	}
	return nil
}
