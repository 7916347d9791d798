package dto

import "github.com/shopspring/decimal"

// HistorialFilter: Tipo empty or "todos" lists every movement kind.
type HistorialFilter struct {
	Tipo       string `form:"tipo"`
	ProductoID string `form:"producto_id"`
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
}

type MovimientoResponse struct {
	ID             string  `json:"id"`
	ProductoID     *string `json:"producto_id"`
	NombreProducto string  `json:"nombre_producto"`
	CodigoProducto string  `json:"codigo_producto"`
	Tipo           string  `json:"tipo"`
	TipoEtiqueta   string  `json:"tipo_etiqueta"`
	Usuario        string  `json:"usuario"`
	Detalles       string  `json:"detalles"`
	CreatedAt      string  `json:"created_at"`
}

type HistorialListResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// HistorialPrecioItem is one row in the price-history list.
type HistorialPrecioItem struct {
	ID            string          `json:"id"`
	ProductoID    *string         `json:"producto_id"`
	CostoAntes    decimal.Decimal `json:"costo_antes"`
	CostoDespues  decimal.Decimal `json:"costo_despues"`
	PrecioAntes   decimal.Decimal `json:"precio_antes"`
	PrecioDespues decimal.Decimal `json:"precio_despues"`
	Motivo        string          `json:"motivo"`
	CreatedAt     string          `json:"created_at"`
}

// HistorialPrecioListResponse is returned by GET /v1/productos/:id/historial-precios.
type HistorialPrecioListResponse struct {
	Data  []HistorialPrecioItem `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
