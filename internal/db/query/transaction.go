package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/FuturFusion/compute-manager/internal/logger"
)

// Transaction executes the given function within a database transaction,
// committing on success and rolling back on error.
func Transaction(ctx context.Context, db *sql.DB, f func(context.Context, *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Failed to begin transaction: %w", err)
	}

	err = f(ctx, tx)
	if err != nil {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			slog.Error("Failed to rollback transaction", logger.Err(rollbackErr))
		}

		return err
	}

	err = tx.Commit()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("Failed to commit transaction: %w", err)
	}

	return nil
}
