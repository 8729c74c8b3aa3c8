package database

import (
	"context"
	"errors"
	"fmt"
)

// WithTransaction executes fn within a transaction, committing on success or
// rolling back on error or panic. The Database passed to fn is bound to the
// transaction, so repositories built from it take part in it.
func WithTransaction(ctx context.Context, db Database, fn func(tx Database) error) (err error) {
	tx := db.Session(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if rbErr := tx.Rollback().Error; rbErr != nil {
			err = errors.Join(err, fmt.Errorf("rollback transaction: %w", rbErr))
		}
	}()

	if err := fn(Database{db: tx}); err != nil {
		return err
	}

	committed = true
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
