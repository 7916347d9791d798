package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a catalog item identified by its business code.
// Codigo never changes after creation; Stock is kept >= 0 by both the service
// layer and the chk_productos_stock constraint.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo      string    `gorm:"uniqueIndex;size:50;not null"`
	Nombre      string    `gorm:"index;size:100;not null"`
	Descripcion string    `gorm:"type:text"`
	// PrecioCosto is the raw price as entered or imported; Precio is PrecioCosto with markup.
	PrecioCosto decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Stock       int             `gorm:"not null;default:0"`
	Categoria   Categoria       `gorm:"type:varchar(20);index;not null"`
	Activo      bool            `gorm:"not null;default:true"`
	ProveedorID *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID;constraint:OnDelete:SET NULL"`
}
