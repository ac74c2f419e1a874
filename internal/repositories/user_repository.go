package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"messenger-service/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository abstracts account persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, username, email, phoneNumber, passwordHash string) (models.User, error)
	FindByID(ctx context.Context, userID int) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	SearchUsers(ctx context.Context, excludeID int, term string, page, limit int) ([]models.ContactView, int, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// CreateUser inserts a new account.
func (r *UserRepo) CreateUser(ctx context.Context, username, email, phoneNumber, passwordHash string) (models.User, error) {
	var user models.User
	err := r.db.QueryRowxContext(ctx, `INSERT INTO users (username, email, phone_number, password_hash)
        VALUES ($1, $2, $3, $4)
        RETURNING id, username, email, phone_number, password_hash, created_at`,
		username, email, phoneNumber, passwordHash).
		StructScan(&user)
	return user, err
}

// FindByID fetches a user by id.
func (r *UserRepo) FindByID(ctx context.Context, userID int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT id, username, email, phone_number, password_hash, created_at FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// FindByUsername fetches a user by username.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT id, username, email, phone_number, password_hash, created_at FROM users WHERE username=$1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// SearchUsers matches username, email or phone number against the term,
// excluding the caller, and returns a page plus total count.
func (r *UserRepo) SearchUsers(ctx context.Context, excludeID int, term string, page, limit int) ([]models.ContactView, int, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	pattern := "%" + term + "%"

	var users []models.ContactView
	err := r.db.SelectContext(ctx, &users, `SELECT id, username, email, phone_number FROM users
        WHERE id <> $1 AND (username ILIKE $2 OR email ILIKE $2 OR phone_number ILIKE $2)
        ORDER BY username ASC
        LIMIT $3 OFFSET $4`, excludeID, pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int
	err = r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users
        WHERE id <> $1 AND (username ILIKE $2 OR email ILIKE $2 OR phone_number ILIKE $2)`, excludeID, pattern)
	return users, total, err
}
