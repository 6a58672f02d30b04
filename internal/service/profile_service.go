package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xcel/profile/internal/cache"
	"github.com/xcel/profile/internal/model"
	"github.com/xcel/profile/internal/observability"
	"github.com/xcel/profile/internal/outbox"
)

type ProfileStore interface {
	Get(ctx context.Context, id string) (*model.Profile, error)
	UpdateTx(ctx context.Context, tx *sql.Tx, p *model.Profile) (*model.Profile, error)
}

// ProfileCache holds profiles by user id. Fill only writes when the key is
// absent, so a read that raced a write cannot replace the newer copy.
type ProfileCache interface {
	Get(ctx context.Context, id string) (*model.Profile, error)
	Fill(ctx context.Context, p *model.Profile) error
	Set(ctx context.Context, p *model.Profile) error
	Delete(ctx context.Context, id string) error
}

// UserEmailUpdater keeps the sign-in address in step with the profile.
type UserEmailUpdater interface {
	UpdateEmailTx(ctx context.Context, tx *sql.Tx, id, email string) error
}

type OutboxWriter interface {
	InsertTx(ctx context.Context, tx *sql.Tx, topic, key string, payload []byte) error
}

type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

// ProfileUpdate is the full replacement body of PUT /api/profile.
type ProfileUpdate struct {
	Username     string `json:"username" validate:"required,max=64"`
	Email        string `json:"email" validate:"required,email,max=254"`
	FirstName    string `json:"firstName" validate:"max=100"`
	LastName     string `json:"lastName" validate:"max=100"`
	Bio          string `json:"bio" validate:"max=1000"`
	ProfileImage string `json:"profileImage" validate:"max=512"`
}

// ProfileService handles profile business logic.
type ProfileService struct {
	Repo   ProfileStore
	Users  UserEmailUpdater
	Cache  ProfileCache
	Outbox OutboxWriter
	Tx     Transactor
}

// Get returns a profile by user ID, checking cache first.
func (s *ProfileService) Get(ctx context.Context, id string) (*model.Profile, error) {
	log := observability.GetLogger(ctx)

	p, err := s.Cache.Get(ctx, id)
	switch {
	case err == nil:
		observability.ProfileCacheLookups.WithLabelValues("hit").Inc()
		return p, nil
	case cache.IsMiss(err):
		observability.ProfileCacheLookups.WithLabelValues("miss").Inc()
	default:
		observability.ProfileCacheLookups.WithLabelValues("error").Inc()
		log.Warn("profile cache read failed", zap.String("user_id", id), zap.Error(err))
	}

	p, err = s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if err := s.Cache.Fill(ctx, p); err != nil {
		log.Warn("profile cache write failed", zap.String("user_id", id), zap.Error(err))
	}
	return p, nil
}

// Update validates and stores the replacement, moves the sign-in email with
// it, records a profile.updated event in the same transaction, and then
// overwrites the cached copy.
func (s *ProfileService) Update(ctx context.Context, id string, u ProfileUpdate) (*model.Profile, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if err := checkStruct(u); err != nil {
		return nil, err
	}

	in := &model.Profile{
		UserID:       id,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
	}

	var out *model.Profile
	err := s.Tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		updated, err := s.Repo.UpdateTx(ctx, tx, in)
		if err != nil {
			return err
		}
		if err := s.Users.UpdateEmailTx(ctx, tx, id, in.Email); err != nil {
			return err
		}

		payload, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
		if err := s.Outbox.InsertTx(ctx, tx, outbox.TopicProfileUpdated, id, payload); err != nil {
			return fmt.Errorf("failed to save outbox event: %w", err)
		}

		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.Cache.Set(ctx, out); err != nil {
		log := observability.GetLogger(ctx)
		log.Warn("profile cache write failed", zap.String("user_id", id), zap.Error(err))
		if err := s.Cache.Delete(ctx, id); err != nil {
			log.Warn("profile cache invalidation failed", zap.String("user_id", id), zap.Error(err))
		}
	}
	return out, nil
}
