package repository

import (
	"context"

	"inventario/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByUsername(ctx context.Context, username string) (*model.Usuario, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// FindByUsername accepts the username or the email (case-insensitive); inactive users never match.
func (r *usuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).
		Where("(username = ? OR LOWER(email) = LOWER(?)) AND activo = true", username, username).
		First(&u).Error
	return &u, err
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}
