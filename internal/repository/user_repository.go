package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/xcel/profile/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func (r *UserRepo) CreateTx(ctx context.Context, tx *sql.Tx, u *model.User) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1::uuid, $2, $3)`,
		u.ID, u.Email, u.PasswordHash)
	if isUniqueViolation(err) {
		return model.ErrEmailConflict
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return u, nil
}

// UpdateEmailTx changes the address the user signs in with.
func (r *UserRepo) UpdateEmailTx(ctx context.Context, tx *sql.Tx, id, email string) error {
	res, err := tx.ExecContext(ctx, `UPDATE users SET email = $2 WHERE id = $1::uuid`, id, email)
	if isUniqueViolation(err) {
		return model.ErrEmailConflict
	}
	if err != nil {
		return fmt.Errorf("failed to update user email: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrProfileNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
