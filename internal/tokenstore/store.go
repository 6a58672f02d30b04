package tokenstore

import (
	"context"

	"github.com/xcel/profile/internal/profileview"
)

// Store is profileview.Storage that can also be written, which sign-in needs.
type Store interface {
	profileview.Storage
	SetItem(ctx context.Context, key, value string) error
}

var (
	_ Store = (*SQLite)(nil)
	_ Store = (*Memory)(nil)
)
