package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xcel/profile/internal/model"
)

type MockProfileRepo struct{ mock.Mock }

func (m *MockProfileRepo) Get(ctx context.Context, id string) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepo) UpdateTx(ctx context.Context, tx *sql.Tx, p *model.Profile) (*model.Profile, error) {
	args := m.Called(ctx, tx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Profile) error {
	return m.Called(ctx, tx, p).Error(0)
}

type MockCache struct{ mock.Mock }

func (m *MockCache) Get(ctx context.Context, id string) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockCache) Fill(ctx context.Context, p *model.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockCache) Set(ctx context.Context, p *model.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockOutbox struct{ mock.Mock }

func (m *MockOutbox) InsertTx(ctx context.Context, tx *sql.Tx, topic, key string, payload []byte) error {
	return m.Called(ctx, tx, topic, key, payload).Error(0)
}

type MockUsers struct{ mock.Mock }

func (m *MockUsers) CreateTx(ctx context.Context, tx *sql.Tx, u *model.User) error {
	return m.Called(ctx, tx, u).Error(0)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsers) UpdateEmailTx(ctx context.Context, tx *sql.Tx, id, email string) error {
	return m.Called(ctx, tx, id, email).Error(0)
}

type MockRevoker struct{ mock.Mock }

func (m *MockRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	return m.Called(ctx, jti, until).Error(0)
}

// MockTransactor runs the unit of work without a real transaction.
type MockTransactor struct{}

func (MockTransactor) WithTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	return fn(ctx, nil)
}
