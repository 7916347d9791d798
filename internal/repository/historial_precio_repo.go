package repository

import (
	"context"

	"inventario/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistorialPrecioRepository interface {
	CreateTx(tx *gorm.DB, h *model.HistorialPrecio) error
	ListByProducto(ctx context.Context, productoID uuid.UUID, page, limit int) ([]model.HistorialPrecio, int64, error)
}

type historialPrecioRepository struct{ db *gorm.DB }

func NewHistorialPrecioRepository(db *gorm.DB) HistorialPrecioRepository {
	return &historialPrecioRepository{db: db}
}

func (r *historialPrecioRepository) CreateTx(tx *gorm.DB, h *model.HistorialPrecio) error {
	return tx.Create(h).Error
}

// ListByProducto returns paginated price changes for one product, newest first.
func (r *historialPrecioRepository) ListByProducto(
	ctx context.Context,
	productoID uuid.UUID,
	page, limit int,
) ([]model.HistorialPrecio, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.HistorialPrecio{}).
		Where("producto_id = ?", productoID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.HistorialPrecio
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("producto_id = ?", productoID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}
