package service

import (
	"context"
	"strings"

	"inventario/internal/dto"
	"inventario/internal/model"
	"inventario/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistorialService is the read side of the movement journal. Writes happen
// only through registrarMovimiento inside the caller's transaction.
type HistorialService interface {
	Listar(ctx context.Context, filter dto.HistorialFilter) (*dto.HistorialListResponse, error)
}

type historialService struct {
	repo repository.HistorialRepository
}

func NewHistorialService(repo repository.HistorialRepository) HistorialService {
	return &historialService{repo: repo}
}

func (s *historialService) Listar(ctx context.Context, filter dto.HistorialFilter) (*dto.HistorialListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	f := repository.HistorialFilter{Page: filter.Page, Limit: filter.Limit}
	if tipo := strings.ToUpper(strings.TrimSpace(filter.Tipo)); tipo != "" && tipo != "TODOS" {
		f.Tipo = model.TipoMovimiento(tipo)
		if !f.Tipo.Valido() {
			return nil, &ValidacionError{Campo: "tipo", Motivo: "tipo de movimiento desconocido"}
		}
	}
	if filter.ProductoID != "" {
		id, err := uuid.Parse(filter.ProductoID)
		if err != nil {
			return nil, &ValidacionError{Campo: "producto_id", Motivo: "no es un UUID válido"}
		}
		f.ProductoID = &id
	}

	movimientos, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, traducirError(err)
	}
	data := make([]dto.MovimientoResponse, 0, len(movimientos))
	for i := range movimientos {
		data = append(data, movimientoToResponse(&movimientos[i]))
	}
	return &dto.HistorialListResponse{
		Data:  data,
		Total: total,
		Page:  dto.Pagina(filter.Page, filter.Limit, total),
		Limit: filter.Limit,
	}, nil
}

// registrarMovimiento appends a journal entry with the product identity
// snapshotted from p. Pass conReferencia=false when p is about to be deleted.
func registrarMovimiento(
	tx *gorm.DB,
	repo repository.HistorialRepository,
	p *model.Producto,
	tipo model.TipoMovimiento,
	actor *uuid.UUID,
	detalles string,
	conReferencia bool,
) error {
	m := &model.MovimientoHistorial{
		NombreProducto: p.Nombre,
		CodigoProducto: p.Codigo,
		UsuarioID:      actor,
		Tipo:           tipo,
		Detalles:       detalles,
	}
	if conReferencia {
		id := p.ID
		m.ProductoID = &id
	}
	return repo.CreateTx(tx, m)
}

func movimientoToResponse(m *model.MovimientoHistorial) dto.MovimientoResponse {
	resp := dto.MovimientoResponse{
		ID:             m.ID.String(),
		NombreProducto: m.NombreProducto,
		CodigoProducto: m.CodigoProducto,
		Tipo:           string(m.Tipo),
		TipoEtiqueta:   m.Tipo.Etiqueta(),
		Usuario:        nombreActor(m.Usuario),
		Detalles:       m.Detalles,
		CreatedAt:      m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if m.ProductoID != nil {
		s := m.ProductoID.String()
		resp.ProductoID = &s
	}
	return resp
}

// nombreActor returns "Sistema" for operations without an authenticated user.
func nombreActor(u *model.Usuario) string {
	if u == nil {
		return "Sistema"
	}
	return u.Nombre
}
