package repository

import (
	"context"

	"inventario/internal/dto"
	"inventario/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistorialFilter defines filters for listing journal entries.
type HistorialFilter struct {
	ProductoID *uuid.UUID
	Tipo       model.TipoMovimiento
	Page       int
	Limit      int
}

// HistorialRepository is append-only: entries are never updated or deleted
// through it. Deleting a product nulls producto_id at the database level.
type HistorialRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimientoHistorial) error
	List(ctx context.Context, filter HistorialFilter) ([]model.MovimientoHistorial, int64, error)
}

type historialRepo struct{ db *gorm.DB }

func NewHistorialRepository(db *gorm.DB) HistorialRepository {
	return &historialRepo{db: db}
}

func (r *historialRepo) CreateTx(tx *gorm.DB, m *model.MovimientoHistorial) error {
	return tx.Create(m).Error
}

func (r *historialRepo) List(ctx context.Context, filter HistorialFilter) ([]model.MovimientoHistorial, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoHistorial{})
	if filter.ProductoID != nil {
		q = q.Where("producto_id = ?", *filter.ProductoID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := dto.Pagina(filter.Page, filter.Limit, total)
	offset := (page - 1) * filter.Limit

	var movimientos []model.MovimientoHistorial
	err := q.Preload("Usuario").
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&movimientos).Error
	return movimientos, total, err
}
