package repository

import (
	"context"

	"inventario/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProveedorRepository interface {
	Create(ctx context.Context, p *model.Proveedor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error)
	List(ctx context.Context) ([]model.Proveedor, error)
	Update(ctx context.Context, p *model.Proveedor) error
	Count(ctx context.Context) (int64, error)

	CreateTx(tx *gorm.DB, p *model.Proveedor) error
	// FindByNombreTx matches the name exactly; the first match by creation wins.
	FindByNombreTx(tx *gorm.DB, nombre string) (*model.Proveedor, error)
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
}

type proveedorRepo struct{ db *gorm.DB }

func NewProveedorRepository(db *gorm.DB) ProveedorRepository { return &proveedorRepo{db: db} }

func (r *proveedorRepo) Create(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proveedorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error) {
	var p model.Proveedor
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *proveedorRepo) List(ctx context.Context) ([]model.Proveedor, error) {
	var proveedores []model.Proveedor
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&proveedores).Error
	return proveedores, err
}

func (r *proveedorRepo) Update(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *proveedorRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Proveedor{}).Count(&total).Error
	return total, err
}

func (r *proveedorRepo) CreateTx(tx *gorm.DB, p *model.Proveedor) error {
	return tx.Create(p).Error
}

func (r *proveedorRepo) FindByNombreTx(tx *gorm.DB, nombre string) (*model.Proveedor, error) {
	var p model.Proveedor
	err := tx.Where("nombre = ?", nombre).Order("created_at ASC").First(&p).Error
	return &p, err
}

func (r *proveedorRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Proveedor{}, "id = ?", id).Error
}
