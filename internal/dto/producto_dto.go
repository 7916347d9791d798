package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearProductoRequest carries the raw (pre-markup) price in PrecioCosto.
type CrearProductoRequest struct {
	Codigo      string          `json:"codigo"       validate:"required,max=50"`
	Nombre      string          `json:"nombre"       validate:"required,max=100"`
	Descripcion string          `json:"descripcion"  validate:"max=500"`
	PrecioCosto decimal.Decimal `json:"precio_costo" validate:"min=0"`
	Stock       int             `json:"stock"        validate:"min=0"`
	Categoria   string          `json:"categoria"    validate:"required,oneof=COMPUTADORAS LAPTOPS UPS PERIFERICOS"`
	ProveedorID *string         `json:"proveedor_id" validate:"omitempty,uuid"`
}

type CrearLoteRequest struct {
	Productos []CrearProductoRequest `json:"productos" validate:"required,min=1,max=50,dive"`
}

// ActualizarProductoRequest only touches the fields that are present.
// An empty ProveedorID clears the supplier.
type ActualizarProductoRequest struct {
	Nombre      *string          `json:"nombre"       validate:"omitempty,min=1,max=100"`
	Descripcion *string          `json:"descripcion"  validate:"omitempty,max=500"`
	PrecioCosto *decimal.Decimal `json:"precio_costo"`
	Stock       *int             `json:"stock"        validate:"omitempty,min=0"`
	Categoria   *string          `json:"categoria"    validate:"omitempty,oneof=COMPUTADORAS LAPTOPS UPS PERIFERICOS"`
	ProveedorID *string          `json:"proveedor_id" validate:"omitempty,uuid"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

// ProductoFilter: Categoria "todos" (or empty) disables the category filter.
type ProductoFilter struct {
	Categoria string `form:"categoria"`
	Busqueda  string `form:"busqueda"`
	ConStock  bool   `form:"con_stock"`
	Activo    string `form:"activo"` // "true" | "false" | "all" (default)
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=10"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID              string          `json:"id"`
	Codigo          string          `json:"codigo"`
	Nombre          string          `json:"nombre"`
	Descripcion     string          `json:"descripcion"`
	PrecioCosto     decimal.Decimal `json:"precio_costo"`
	Precio          decimal.Decimal `json:"precio"`
	Stock           int             `json:"stock"`
	Categoria       string          `json:"categoria"`
	Activo          bool            `json:"activo"`
	ProveedorID     *string         `json:"proveedor_id"`
	ProveedorNombre *string         `json:"proveedor_nombre,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

type LoteItemError struct {
	Indice int    `json:"indice"`
	Codigo string `json:"codigo"`
	Motivo string `json:"motivo"`
}

type LoteResponse struct {
	Creados []ProductoResponse `json:"creados"`
	Errores []LoteItemError    `json:"errores"`
}

// ResumenResponse feeds the dashboard.
type ResumenResponse struct {
	TotalProductos     int64              `json:"total_productos"`
	TotalProveedores   int64              `json:"total_proveedores"`
	ProductosBajoStock int64              `json:"productos_bajo_stock"`
	ProductosRecientes []ProductoResponse `json:"productos_recientes"`
}

// ConsultaPreciosResponse is returned by the public price check endpoint (no auth required).
type ConsultaPreciosResponse struct {
	Codigo          string          `json:"codigo"`
	Nombre          string          `json:"nombre"`
	Precio          decimal.Decimal `json:"precio"`
	StockDisponible int             `json:"stock_disponible"`
	Categoria       string          `json:"categoria"`
}
