package model

import (
	"time"

	"github.com/google/uuid"
)

// MovimientoHistorial is an immutable audit record of a catalog change.
// ProductoID is cleared when the product is deleted; the snapshot columns keep
// the product identity readable afterwards. Rows are never updated or deleted.
type MovimientoHistorial struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID     *uuid.UUID     `gorm:"type:uuid;index"`
	NombreProducto string         `gorm:"size:100"`
	CodigoProducto string         `gorm:"size:50"`
	UsuarioID      *uuid.UUID     `gorm:"type:uuid"`
	Tipo           TipoMovimiento `gorm:"type:varchar(20);not null;index"`
	Detalles       string         `gorm:"type:text"`
	CreatedAt      time.Time      `gorm:"index"`

	Producto *Producto `gorm:"foreignKey:ProductoID;constraint:OnDelete:SET NULL"`
	Usuario  *Usuario  `gorm:"foreignKey:UsuarioID;constraint:OnDelete:SET NULL"`
}

// TableName overrides GORM's default pluralization (movimiento_historials → historial_movimientos).
func (MovimientoHistorial) TableName() string { return "historial_movimientos" }
