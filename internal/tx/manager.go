package tx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Manager runs units of work that must commit together, such as a profile
// write and the outbox row announcing it.
type Manager struct {
	DB *sql.DB
}

const maxAttempts = 5

var ErrRetryExhausted = errors.New("transaction retry exhausted")

func (m *Manager) WithTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		tx, err := m.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		if err := fn(ctx, tx); err != nil {
			_ = tx.Rollback()
			if Retryable(err) {
				continue
			}
			return err
		}

		if err := tx.Commit(); err != nil {
			if Retryable(err) {
				continue
			}
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	}

	return ErrRetryExhausted
}

// Retryable reports serialization failures and deadlocks.
func Retryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "40001", "40P01":
		return true
	}
	return false
}
