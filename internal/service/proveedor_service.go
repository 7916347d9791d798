package service

import (
	"context"
	"strings"

	"inventario/internal/dto"
	"inventario/internal/model"
	"inventario/internal/repository"

	"github.com/google/uuid"
	"github.com/ttacon/libphonenumber"
	"gorm.io/gorm"
)

// RegionTelefono is assumed for supplier phone numbers given without a +country prefix.
const RegionTelefono = "AR"

type ProveedorService interface {
	Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context) ([]dto.ProveedorResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	// Eliminar clears the supplier from its products; products are never deleted with it.
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type proveedorService struct {
	tx           repository.Transactor
	repo         repository.ProveedorRepository
	productoRepo repository.ProductoRepository
}

func NewProveedorService(tx repository.Transactor, repo repository.ProveedorRepository, productoRepo repository.ProductoRepository) ProveedorService {
	return &proveedorService{tx: tx, repo: repo, productoRepo: productoRepo}
}

func (s *proveedorService) Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	p := &model.Proveedor{}
	if err := aplicarProveedor(p, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, traducirError(err)
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducirError(err)
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Listar(ctx context.Context) ([]dto.ProveedorResponse, error) {
	proveedores, err := s.repo.List(ctx)
	if err != nil {
		return nil, traducirError(err)
	}
	resp := make([]dto.ProveedorResponse, len(proveedores))
	for i := range proveedores {
		resp[i] = *proveedorToResponse(&proveedores[i])
	}
	return resp, nil
}

func (s *proveedorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducirError(err)
	}
	if err := aplicarProveedor(p, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, traducirError(err)
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return traducirError(err)
	}
	err := runTx(ctx, s.tx, func(tx *gorm.DB) error {
		if err := s.productoRepo.ClearProveedorTx(tx, id); err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, id)
	})
	return traducirError(err)
}

func aplicarProveedor(p *model.Proveedor, req dto.CrearProveedorRequest) error {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return &ValidacionError{Campo: "nombre", Motivo: "es obligatorio"}
	}
	telefono, err := NormalizarTelefono(req.Telefono)
	if err != nil {
		return err
	}
	p.Nombre = nombre
	p.Contacto = strings.TrimSpace(req.Contacto)
	p.Direccion = strings.TrimSpace(req.Direccion)
	p.Telefono = telefono
	p.Email = strings.TrimSpace(req.Email)
	return nil
}

// NormalizarTelefono returns the number in E.164 form. Blank stays blank.
func NormalizarTelefono(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	num, err := libphonenumber.Parse(raw, RegionTelefono)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return "", &ValidacionError{Campo: "telefono", Motivo: "no es un número válido"}
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}

func proveedorToResponse(p *model.Proveedor) *dto.ProveedorResponse {
	return &dto.ProveedorResponse{
		ID:        p.ID.String(),
		Nombre:    p.Nombre,
		Contacto:  p.Contacto,
		Direccion: p.Direccion,
		Telefono:  p.Telefono,
		Email:     p.Email,
	}
}
