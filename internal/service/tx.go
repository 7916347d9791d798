package service

import (
	"context"

	"inventario/internal/repository"

	"gorm.io/gorm"
)

// runTx executes fn inside a transaction when a Transactor is available,
// or calls fn(nil) directly when it is nil (unit test mode without atomicity).
func runTx(ctx context.Context, t repository.Transactor, fn func(tx *gorm.DB) error) error {
	if t == nil {
		return fn(nil)
	}
	return t.Transaction(ctx, fn)
}
