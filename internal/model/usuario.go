package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario stores system users. The authenticated user is recorded as the actor
// of withdrawals and journal entries.
// Rol: "operador" | "administrador"
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	Activo       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
