package model

import (
	"time"

	"github.com/google/uuid"
)

// Proveedor represents a supplier. Products reference it weakly: deleting a
// supplier clears Producto.ProveedorID instead of cascading.
type Proveedor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;size:100;not null"`
	Contacto  string    `gorm:"size:100"`
	Direccion string    `gorm:"size:200;not null"`
	Telefono  string    `gorm:"size:20;not null"`
	Email     string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Proveedor) TableName() string { return "proveedores" }
