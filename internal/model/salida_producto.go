package model

import (
	"time"

	"github.com/google/uuid"
)

// SalidaProducto records a stock withdrawal. The product reference is protected:
// a product with withdrawals cannot be deleted.
type SalidaProducto struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID  uuid.UUID    `gorm:"type:uuid;not null;index"`
	Cantidad    int          `gorm:"not null"`
	Motivo      MotivoSalida `gorm:"type:varchar(20);not null"`
	Descripcion string       `gorm:"type:text"`
	UsuarioID   *uuid.UUID   `gorm:"type:uuid;index"`
	CreatedAt   time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID;constraint:OnDelete:RESTRICT"`
	Usuario  *Usuario  `gorm:"foreignKey:UsuarioID;constraint:OnDelete:SET NULL"`
}

// TableName overrides GORM's default pluralization (salida_productos → salidas_producto).
func (SalidaProducto) TableName() string { return "salidas_producto" }
