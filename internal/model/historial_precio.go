package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistorialPrecio registra cada cambio de precio de un producto.
// Los registros son inmutables; nunca se eliminan ni modifican.
type HistorialPrecio struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    *uuid.UUID      `gorm:"type:uuid;index"`
	CostoAntes    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostoDespues  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioAntes   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioDespues decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Motivo        string          `gorm:"not null;default:'manual'"` // manual | importacion
	UsuarioID     *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID;constraint:OnDelete:SET NULL"`
}
