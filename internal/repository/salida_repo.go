package repository

import (
	"context"

	"inventario/internal/dto"
	"inventario/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SalidaFilter struct {
	ProductoID *uuid.UUID
	Page       int
	Limit      int
}

type SalidaRepository interface {
	CreateTx(tx *gorm.DB, s *model.SalidaProducto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SalidaProducto, error)
	List(ctx context.Context, filter SalidaFilter) ([]model.SalidaProducto, int64, error)
	// CountByProductoTx backs the delete guard: a product with withdrawals is protected.
	CountByProductoTx(tx *gorm.DB, productoID uuid.UUID) (int64, error)
}

type salidaRepo struct{ db *gorm.DB }

func NewSalidaRepository(db *gorm.DB) SalidaRepository { return &salidaRepo{db: db} }

func (r *salidaRepo) CreateTx(tx *gorm.DB, s *model.SalidaProducto) error {
	return tx.Omit("Producto", "Usuario").Create(s).Error
}

func (r *salidaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SalidaProducto, error) {
	var s model.SalidaProducto
	err := r.db.WithContext(ctx).
		Preload("Producto").
		Preload("Usuario").
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *salidaRepo) List(ctx context.Context, filter SalidaFilter) ([]model.SalidaProducto, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.SalidaProducto{})
	if filter.ProductoID != nil {
		q = q.Where("producto_id = ?", *filter.ProductoID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := dto.Pagina(filter.Page, filter.Limit, total)
	offset := (page - 1) * filter.Limit

	var salidas []model.SalidaProducto
	err := q.Preload("Producto").Preload("Usuario").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&salidas).Error
	return salidas, total, err
}

func (r *salidaRepo) CountByProductoTx(tx *gorm.DB, productoID uuid.UUID) (int64, error) {
	var total int64
	err := tx.Model(&model.SalidaProducto{}).Where("producto_id = ?", productoID).Count(&total).Error
	return total, err
}
