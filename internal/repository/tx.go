package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrStockInsuficiente is returned by AjustarStockTx when the delta would leave
// the product with negative stock. Nothing is written in that case.
var ErrStockInsuficiente = errors.New("stock insuficiente")

// Transactor opens the transactional boundary used by the ledger operations.
// Every *Tx repository method must receive the tx handed to fn; returning an
// error from fn rolls back every write made through it.
type Transactor interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTransactor struct{ db *gorm.DB }

func NewTransactor(db *gorm.DB) Transactor { return &gormTransactor{db: db} }

func (t *gormTransactor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}
