package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarSalidaRequest struct {
	ProductoID  string `json:"producto_id" validate:"required,uuid"`
	Cantidad    int    `json:"cantidad"    validate:"required,min=1"`
	Motivo      string `json:"motivo"      validate:"required,oneof=VENTA GARANTIA DEVOLUCION DONACION OTRO"`
	Descripcion string `json:"descripcion" validate:"max=1000"`
}

type SalidaFilter struct {
	ProductoID string `form:"producto_id"`
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=10"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SalidaResponse struct {
	ID             string `json:"id"`
	ProductoID     string `json:"producto_id"`
	ProductoNombre string `json:"producto_nombre"`
	ProductoCodigo string `json:"producto_codigo"`
	Cantidad       int    `json:"cantidad"`
	Motivo         string `json:"motivo"`
	MotivoEtiqueta string `json:"motivo_etiqueta"`
	Descripcion    string `json:"descripcion"`
	StockRestante  *int   `json:"stock_restante,omitempty"`
	Usuario        string `json:"usuario"`
	CreatedAt      string `json:"created_at"`
}

type SalidaListResponse struct {
	Data  []SalidaResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// ComprobanteSalida is everything the receipt PDF needs; the renderer never
// reads from the database.
type ComprobanteSalida struct {
	SalidaID       string
	ProductoNombre string
	ProductoCodigo string
	Cantidad       int
	Motivo         string
	Descripcion    string
	Fecha          string
	Usuario        string
}
