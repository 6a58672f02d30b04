package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xcel/profile/internal/model"
	"github.com/xcel/profile/internal/observability"
	"github.com/xcel/profile/internal/outbox"
	"github.com/xcel/profile/internal/security"
)

type UserStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type ProfileCreator interface {
	CreateTx(ctx context.Context, tx *sql.Tx, p *model.Profile) error
}

type TokenIssuer interface {
	Issue(userID string) (string, *jwt.RegisteredClaims, error)
	Parse(token string) (*jwt.RegisteredClaims, error)
}

type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
}

type Registration struct {
	Username  string `json:"username" validate:"required,max=64"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

// AuthService issues and revokes the bearer tokens the profile view carries.
type AuthService struct {
	Users    UserStore
	Profiles ProfileCreator
	Outbox   OutboxWriter
	Tx       Transactor
	Tokens   TokenIssuer
	Revoked  Revoker
}

// Register creates the account and its profile atomically and announces
// the new user through the outbox.
func (a *AuthService) Register(ctx context.Context, reg Registration) (string, error) {
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	if err := checkStruct(reg); err != nil {
		return "", err
	}

	hash, err := security.HashPassword(reg.Password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	userID := uuid.NewString()
	err = a.Tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := a.Users.CreateTx(ctx, tx, &model.User{ID: userID, Email: reg.Email, PasswordHash: hash}); err != nil {
			return err
		}
		if err := a.Profiles.CreateTx(ctx, tx, &model.Profile{
			UserID:    userID,
			Username:  reg.Username,
			Email:     reg.Email,
			FirstName: reg.FirstName,
			LastName:  reg.LastName,
		}); err != nil {
			return err
		}

		payload, err := json.Marshal(map[string]string{"user_id": userID, "username": reg.Username})
		if err != nil {
			return fmt.Errorf("failed to marshal user registered event: %w", err)
		}
		return a.Outbox.InsertTx(ctx, tx, outbox.TopicUserRegistered, userID, payload)
	})
	if err != nil {
		return "", fmt.Errorf("registration failed: %w", err)
	}

	observability.GetLogger(ctx).Info("user_registered", zap.String("user_id", userID))
	return userID, nil
}

// Login checks the password and returns a fresh access token.
func (a *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := a.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}

	if err := security.ComparePassword(u.PasswordHash, password); err != nil {
		return "", model.ErrInvalidCredentials
	}

	token, _, err := a.Tokens.Issue(u.ID)
	if err != nil {
		return "", err
	}

	observability.GetLogger(ctx).Info("user_login_success", zap.String("user_id", u.ID))
	return token, nil
}

// Logout revokes the presented token until it would have expired anyway.
// Requests without a usable token have nothing to revoke and succeed.
func (a *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := a.Tokens.Parse(token)
	if errors.Is(err, model.ErrInvalidToken) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := a.Revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	observability.GetLogger(ctx).Info("user_logout", zap.String("user_id", claims.Subject))
	return nil
}
