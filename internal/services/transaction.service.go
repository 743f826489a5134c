package services

import (
	"context"

	"peoplefinder/internal/database"
	"peoplefinder/internal/logger"

	"gorm.io/gorm"
)

type txContextKey struct{}

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

// Execute runs fn inside a single transaction. The transaction rides the
// context, so repositories called from fn pick it up through GetTransaction
// and every write commits or rolls back as one unit.
func (s *TransactionService) Execute(ctx context.Context, fn func(txCtx context.Context) error) error {
	log := s.log.Function("Execute")

	return s.db.SQLWithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txContextKey{}, tx)
		if err := fn(txCtx); err != nil {
			log.Er("transaction rolled back", err)
			return err
		}
		return nil
	})
}

// GetTransaction returns the transaction carried by ctx, if any.
func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txContextKey{}).(*gorm.DB)
	return tx, ok
}
