package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xcel/profile/internal/model"
)

type ProfileRepo struct{ DB *sql.DB }

const profileColumns = `user_id, username, email, first_name, last_name, bio, profile_image, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*model.Profile, error) {
	p := &model.Profile{}
	err := row.Scan(&p.UserID, &p.Username, &p.Email, &p.FirstName, &p.LastName,
		&p.Bio, &p.ProfileImage, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateTx inserts the profile row for a freshly registered user.
func (r *ProfileRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Profile) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO profiles (user_id, username, email, first_name, last_name) VALUES ($1::uuid, $2, $3, $4, $5)`,
		p.UserID, p.Username, p.Email, p.FirstName, p.LastName)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepo) Get(ctx context.Context, id string) (*model.Profile, error) {
	p, err := scanProfile(r.DB.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1::uuid`, id))
	if err != nil && !errors.Is(err, model.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return p, err
}

// UpdateTx replaces the editable fields and returns the stored row.
func (r *ProfileRepo) UpdateTx(ctx context.Context, tx *sql.Tx, p *model.Profile) (*model.Profile, error) {
	updated, err := scanProfile(tx.QueryRowContext(ctx, `
		UPDATE profiles
		SET username = $2, email = $3, first_name = $4, last_name = $5, bio = $6, profile_image = $7, updated_at = NOW()
		WHERE user_id = $1::uuid
		RETURNING `+profileColumns,
		p.UserID, p.Username, p.Email, p.FirstName, p.LastName, p.Bio, p.ProfileImage))
	if err != nil && !errors.Is(err, model.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return updated, err
}
