package services

import (
	"context"
	"fmt"

	"cinegenio/internal/database"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
)

// TransactionService wraps a function in a database transaction. The radar
// refreshers use it so readers never observe a half-replaced cache.
type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// Execute runs fn inside a transaction, committing on nil and rolling back
// on error or panic. A failed rollback after a panic crashes the process;
// at that point data integrity is no longer guaranteed.
func (ts *TransactionService) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) (err error) {
	log := ts.log.Function("Execute")

	tx := ts.db.SQLWithContext(ctx).Begin()
	if tx.Error != nil {
		return log.Err("failed to begin transaction", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			panicErr := log.Error("panic during transaction", "panic", r)

			if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
				log.Er("CRITICAL: failed to rollback after panic", rollbackErr, "panic", r)
				panic(fmt.Sprintf(
					"transaction rollback failed: %v (original panic: %v)", rollbackErr, r))
			}

			err = panicErr
		}
	}()

	if err = fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			return log.Error("transaction rollback failed",
				"rollbackError", rollbackErr, "originalError", err)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return log.Err("failed to commit transaction", err)
	}
	return nil
}
