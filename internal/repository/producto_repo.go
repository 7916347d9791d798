package repository

import (
	"context"
	"strings"

	"inventario/internal/dto"
	"inventario/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type ProductoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	Count(ctx context.Context) (int64, error)
	CountBajoStock(ctx context.Context, umbral int) (int64, error)
	Recientes(ctx context.Context, n int) ([]model.Producto, error)

	// Used inside transactions; callers must pass the tx instance
	CreateTx(tx *gorm.DB, p *model.Producto) error
	UpdateTx(tx *gorm.DB, p *model.Producto) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	// FindByIDForUpdateTx and FindByCodigoForUpdateTx take a row lock that is
	// held until the surrounding transaction ends.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
	FindByCodigoForUpdateTx(tx *gorm.DB, codigo string) (*model.Producto, error)

	// AjustarStockTx adds delta to stock; ErrStockInsuficiente when the result would be negative.
	AjustarStockTx(tx *gorm.DB, id uuid.UUID, delta int) error

	// ClearProveedorTx detaches every product from a supplier that is being deleted.
	ClearProveedorTx(tx *gorm.DB, proveedorID uuid.UUID) error
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Preload("Proveedor").First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&p).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})

	// Activo filter: "true" = activos, "false" = inactivos, anything else = todos
	switch filter.Activo {
	case "true":
		q = q.Where("activo = true")
	case "false":
		q = q.Where("activo = false")
	}

	if filter.Categoria != "" && !strings.EqualFold(filter.Categoria, "todos") {
		q = q.Where("categoria = ?", strings.ToUpper(filter.Categoria))
	}
	if filter.Busqueda != "" {
		q = q.Where("nombre ILIKE ?", patronContiene(filter.Busqueda))
	}
	if filter.ConStock {
		q = q.Where("stock > 0")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := dto.Pagina(filter.Page, filter.Limit, total)
	offset := (page - 1) * filter.Limit
	err := q.Preload("Proveedor").Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).Count(&total).Error
	return total, err
}

func (r *productoRepo) CountBajoStock(ctx context.Context, umbral int) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).Where("stock < ?", umbral).Count(&total).Error
	return total, err
}

func (r *productoRepo) Recientes(ctx context.Context, n int) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(n).Find(&productos).Error
	return productos, err
}

func (r *productoRepo) CreateTx(tx *gorm.DB, p *model.Producto) error {
	return tx.Create(p).Error
}

func (r *productoRepo) UpdateTx(tx *gorm.DB, p *model.Producto) error {
	// Omit associations so a preloaded Proveedor is never upserted by accident.
	return tx.Omit(clause.Associations).Save(p).Error
}

func (r *productoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Producto{}, "id = ?", id).Error
}

func (r *productoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) FindByCodigoForUpdateTx(tx *gorm.DB, codigo string) (*model.Producto, error) {
	var p model.Producto
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("codigo = ?", codigo).First(&p).Error
	return &p, err
}

func (r *productoRepo) AjustarStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	res := tx.Model(&model.Producto{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockInsuficiente
	}
	return nil
}

func (r *productoRepo) ClearProveedorTx(tx *gorm.DB, proveedorID uuid.UUID) error {
	return tx.Model(&model.Producto{}).Where("proveedor_id = ?", proveedorID).
		Update("proveedor_id", nil).Error
}

var escapeLike = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// patronContiene builds a substring ILIKE pattern matching busqueda literally.
// Postgres uses backslash as the default LIKE escape.
func patronContiene(busqueda string) string {
	return "%" + escapeLike.Replace(busqueda) + "%"
}
