package postgres

import (
	"context"
	"fmt"

	"github.com/fitai/fitai/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type usersStorage struct {
	pool *pgxpool.Pool
}

const userColumns = `id, email, password_hash, name, date_of_birth, weight_kg, height_cm, goal, activity_level, restrictions, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*storage.User, error) {
	var u storage.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.DateOfBirth,
		&u.WeightKg,
		&u.HeightCm,
		&u.Goal,
		&u.ActivityLevel,
		&u.Restrictions,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *usersStorage) CreateUser(ctx context.Context, user *storage.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Restrictions == nil {
		user.Restrictions = []string{}
	}

	query := `
		INSERT INTO users (id, email, password_hash, name, date_of_birth, weight_kg, height_cm, goal, activity_level, restrictions, created_at, updated_at)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING email, created_at, updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.DateOfBirth,
		user.WeightKg,
		user.HeightCm,
		user.Goal,
		user.ActivityLevel,
		user.Restrictions,
	).Scan(&user.Email, &user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return storage.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *usersStorage) GetUser(ctx context.Context, id uuid.UUID) (*storage.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *usersStorage) GetUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = lower(trim($1))`

	u, err := scanUser(s.pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *usersStorage) UpdateUser(ctx context.Context, user *storage.User) error {
	if user.Restrictions == nil {
		user.Restrictions = []string{}
	}

	query := `
		UPDATE users
		SET name = $2, date_of_birth = $3, weight_kg = $4, height_cm = $5,
		    goal = $6, activity_level = $7, restrictions = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.DateOfBirth,
		user.WeightKg,
		user.HeightCm,
		user.Goal,
		user.ActivityLevel,
		user.Restrictions,
	).Scan(&user.UpdatedAt)
	if err != nil {
		return notFound(err)
	}
	return nil
}

func (s *usersStorage) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	result, err := s.pool.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, hash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
