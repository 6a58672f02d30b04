package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xcel/profile/internal/model"
	"github.com/xcel/profile/internal/outbox"
	"github.com/xcel/profile/internal/security"
)

func newAuthService(t *testing.T) (*AuthService, *MockUsers, *MockProfileRepo, *MockOutbox, *MockRevoker, *security.Tokens) {
	t.Helper()
	users := new(MockUsers)
	profiles := new(MockProfileRepo)
	ob := new(MockOutbox)
	rev := new(MockRevoker)
	tokens := security.NewTokens("test-secret", "xcel-api", "xcel-clients", time.Hour)
	return &AuthService{
		Users:    users,
		Profiles: profiles,
		Outbox:   ob,
		Tx:       MockTransactor{},
		Tokens:   tokens,
		Revoked:  rev,
	}, users, profiles, ob, rev, tokens
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	svc, users, profiles, ob, _, _ := newAuthService(t)

	users.On("CreateTx", ctx, mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "ada@example.com" && security.ComparePassword(u.PasswordHash, "correct-horse") == nil
	})).Return(nil)
	profiles.On("CreateTx", ctx, mock.Anything, mock.MatchedBy(func(p *model.Profile) bool {
		return p.Username == "ada" && p.Email == "ada@example.com"
	})).Return(nil)
	ob.On("InsertTx", ctx, mock.Anything, outbox.TopicUserRegistered, mock.Anything, mock.Anything).Return(nil)

	id, err := svc.Register(ctx, Registration{
		Username: "ada",
		Email:    "  Ada@Example.com ",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	users.AssertExpectations(t)
	profiles.AssertExpectations(t)
	ob.AssertExpectations(t)
}

func TestAuthService_Register_EmailConflict(t *testing.T) {
	ctx := context.Background()
	svc, users, profiles, _, _, _ := newAuthService(t)

	users.On("CreateTx", ctx, mock.Anything, mock.Anything).Return(model.ErrEmailConflict)

	_, err := svc.Register(ctx, Registration{Username: "ada", Email: "ada@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, model.ErrEmailConflict)
	profiles.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	svc, users, _, _, _, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), Registration{Username: "ada", Email: "ada@example.com", Password: "short"})
	assert.ErrorIs(t, err, model.ErrInvalidUpdate)
	users.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc, users, _, _, _, tokens := newAuthService(t)

	hash, err := security.HashPassword("correct-horse")
	require.NoError(t, err)
	users.On("GetByEmail", ctx, "ada@example.com").Return(&model.User{ID: "u1", Email: "ada@example.com", PasswordHash: hash}, nil)

	t.Run("good password", func(t *testing.T) {
		tok, err := svc.Login(ctx, "ADA@example.com", "correct-horse")
		require.NoError(t, err)

		claims, err := tokens.Parse(tok)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.Subject)
	})

	t.Run("bad password", func(t *testing.T) {
		_, err := svc.Login(ctx, "ada@example.com", "wrong")
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, rev, tokens := newAuthService(t)

	tok, claims, err := tokens.Issue("u1")
	require.NoError(t, err)
	rev.On("Revoke", ctx, claims.ID, mock.MatchedBy(func(until time.Time) bool {
		return until.Equal(claims.ExpiresAt.Time)
	})).Return(nil)

	require.NoError(t, svc.Logout(ctx, tok))
	rev.AssertExpectations(t)
}

func TestAuthService_Logout_NothingToRevoke(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, rev, _ := newAuthService(t)

	assert.NoError(t, svc.Logout(ctx, ""))
	assert.NoError(t, svc.Logout(ctx, "not-a-token"))
	rev.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}
