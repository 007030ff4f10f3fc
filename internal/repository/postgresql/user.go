package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/user"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func (r *userRepositoryImpl) getOne(ctx context.Context, where string, arg interface{}) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, email, password_hash, role, employee_id, created_at, updated_at
		FROM users
		WHERE ` + where

	var u user.User
	err := q.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.EmployeeID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "LOWER(email) = LOWER($1)", email)
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to generate user id: %w", err)
	}
	newUser.ID = id.String()

	err = q.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, role, employee_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, newUser.ID, newUser.Email, newUser.PasswordHash, newUser.Role, newUser.EmployeeID).Scan(&newUser.CreatedAt, &newUser.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "users_email_key") {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return newUser, nil
}

// UpdatePassword implements user.UserRepository.
func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, role *user.Role) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, email, password_hash, role, employee_id, created_at, updated_at
		FROM users
		WHERE $1::text IS NULL OR role = $1
		ORDER BY email
	`, role)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.EmployeeID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	err := q.QueryRow(ctx, `
		UPDATE users
		SET email = $2, role = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING password_hash, employee_id, created_at, updated_at
	`, u.ID, u.Email, u.Role).Scan(&u.PasswordHash, &u.EmployeeID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		if database.IsUniqueViolation(err, "users_email_key") {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

// Delete implements user.UserRepository. Refresh tokens go with the account.
func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
