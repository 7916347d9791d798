package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inventario/internal/dto"
	"inventario/internal/model"
	"inventario/internal/repository"
	"inventario/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type SalidaService interface {
	RegistrarSalida(ctx context.Context, actor *uuid.UUID, req dto.RegistrarSalidaRequest) (*dto.SalidaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.SalidaResponse, error)
	Listar(ctx context.Context, filter dto.SalidaFilter) (*dto.SalidaListResponse, error)
	Comprobante(ctx context.Context, id uuid.UUID) (*dto.ComprobanteSalida, error)
}

type salidaService struct {
	tx            repository.Transactor
	productoRepo  repository.ProductoRepository
	salidaRepo    repository.SalidaRepository
	historialRepo repository.HistorialRepository
	cache         CachePrecios
	cola          ColaTrabajos
}

func NewSalidaService(
	tx repository.Transactor,
	productoRepo repository.ProductoRepository,
	salidaRepo repository.SalidaRepository,
	historialRepo repository.HistorialRepository,
	cache CachePrecios,
	cola ColaTrabajos,
) SalidaService {
	return &salidaService{
		tx:            tx,
		productoRepo:  productoRepo,
		salidaRepo:    salidaRepo,
		historialRepo: historialRepo,
		cache:         cache,
		cola:          cola,
	}
}

// ── RegistrarSalida ───────────────────────────────────────────────────────────
//   1. Validate request and load product (NotFound / InsufficientStock early)
//   2. BEGIN TX: lock product row, re-check stock, decrement,
//      append SALIDA journal entry, persist the withdrawal
//   3. COMMIT
//   4. Invalidate price cache, enqueue receipt and low-stock jobs (best effort)

func (s *salidaService) RegistrarSalida(ctx context.Context, actor *uuid.UUID, req dto.RegistrarSalidaRequest) (*dto.SalidaResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, &ValidacionError{Campo: "producto_id", Motivo: "no es un UUID válido"}
	}
	if req.Cantidad < 1 {
		return nil, &ValidacionError{Campo: "cantidad", Motivo: "debe ser al menos 1"}
	}
	motivo := model.MotivoSalida(strings.ToUpper(req.Motivo))
	if !motivo.Valido() {
		return nil, &ValidacionError{Campo: "motivo", Motivo: "motivo desconocido"}
	}

	p, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, traducirError(err)
	}
	if req.Cantidad > p.Stock {
		return nil, &StockInsuficienteError{Disponible: p.Stock}
	}

	var (
		salida   model.SalidaProducto
		producto *model.Producto
	)
	txErr := runTx(ctx, s.tx, func(tx *gorm.DB) error {
		locked, err := s.productoRepo.FindByIDForUpdateTx(tx, productoID)
		if err != nil {
			return err
		}
		// Stock may have moved since the pre-flight read.
		if req.Cantidad > locked.Stock {
			return &StockInsuficienteError{Disponible: locked.Stock}
		}
		if err := s.productoRepo.AjustarStockTx(tx, productoID, -req.Cantidad); err != nil {
			if errors.Is(err, repository.ErrStockInsuficiente) {
				return &StockInsuficienteError{Disponible: locked.Stock}
			}
			return err
		}
		locked.Stock -= req.Cantidad

		detalles := fmt.Sprintf("Salida de %d unidades. Motivo: %s", req.Cantidad, motivo.Etiqueta())
		if d := strings.TrimSpace(req.Descripcion); d != "" {
			detalles += ". " + d
		}
		if err := registrarMovimiento(tx, s.historialRepo, locked, model.TipoSalida, actor, detalles, true); err != nil {
			return err
		}

		salida = model.SalidaProducto{
			ProductoID:  productoID,
			Cantidad:    req.Cantidad,
			Motivo:      motivo,
			Descripcion: strings.TrimSpace(req.Descripcion),
			UsuarioID:   actor,
		}
		if err := s.salidaRepo.CreateTx(tx, &salida); err != nil {
			return err
		}
		producto = locked
		return nil
	})
	if txErr != nil {
		return nil, traducirError(txErr)
	}

	s.despuesDeSalida(ctx, producto, &salida)

	salida.Producto = producto
	resp := salidaToResponse(&salida)
	restante := producto.Stock
	resp.StockRestante = &restante
	return resp, nil
}

// despuesDeSalida runs the post-commit side effects. Failures are logged and
// never undo the committed withdrawal.
func (s *salidaService) despuesDeSalida(ctx context.Context, p *model.Producto, salida *model.SalidaProducto) {
	if s.cache != nil {
		if err := s.cache.Invalidar(ctx, p.Codigo); err != nil {
			log.Warn().Err(err).Str("codigo", p.Codigo).Msg("salida: price cache invalidation failed")
		}
	}
	if s.cola == nil {
		return
	}
	if err := s.cola.EnqueueComprobante(ctx, salida.ID); err != nil {
		log.Warn().Err(err).Str("salida_id", salida.ID.String()).Msg("salida: enqueue comprobante failed")
	}
	if p.Stock < UmbralBajoStock {
		alerta := worker.AlertaStockPayload{
			ProductoID: p.ID.String(),
			Codigo:     p.Codigo,
			Nombre:     p.Nombre,
			Stock:      p.Stock,
		}
		if err := s.cola.EnqueueAlertaStock(ctx, alerta); err != nil {
			log.Warn().Err(err).Str("codigo", p.Codigo).Msg("salida: enqueue alerta_stock failed")
		}
	}
}

func (s *salidaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.SalidaResponse, error) {
	salida, err := s.salidaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, traducirError(err)
	}
	return salidaToResponse(salida), nil
}

func (s *salidaService) Listar(ctx context.Context, filter dto.SalidaFilter) (*dto.SalidaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}
	f := repository.SalidaFilter{Page: filter.Page, Limit: filter.Limit}
	if filter.ProductoID != "" {
		id, err := uuid.Parse(filter.ProductoID)
		if err != nil {
			return nil, &ValidacionError{Campo: "producto_id", Motivo: "no es un UUID válido"}
		}
		f.ProductoID = &id
	}

	salidas, total, err := s.salidaRepo.List(ctx, f)
	if err != nil {
		return nil, traducirError(err)
	}
	data := make([]dto.SalidaResponse, 0, len(salidas))
	for i := range salidas {
		data = append(data, *salidaToResponse(&salidas[i]))
	}
	return &dto.SalidaListResponse{
		Data:  data,
		Total: total,
		Page:  dto.Pagina(filter.Page, filter.Limit, total),
		Limit: filter.Limit,
	}, nil
}

// Comprobante gathers the receipt fields; the PDF renderer receives only this.
func (s *salidaService) Comprobante(ctx context.Context, id uuid.UUID) (*dto.ComprobanteSalida, error) {
	salida, err := s.salidaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, traducirError(err)
	}
	c := &dto.ComprobanteSalida{
		SalidaID:    salida.ID.String(),
		Cantidad:    salida.Cantidad,
		Motivo:      salida.Motivo.Etiqueta(),
		Descripcion: salida.Descripcion,
		Fecha:       salida.CreatedAt.Format("02/01/2006 15:04"),
		Usuario:     nombreActor(salida.Usuario),
	}
	if salida.Producto != nil {
		c.ProductoNombre = salida.Producto.Nombre
		c.ProductoCodigo = salida.Producto.Codigo
	}
	return c, nil
}

func salidaToResponse(s *model.SalidaProducto) *dto.SalidaResponse {
	resp := &dto.SalidaResponse{
		ID:             s.ID.String(),
		ProductoID:     s.ProductoID.String(),
		Cantidad:       s.Cantidad,
		Motivo:         string(s.Motivo),
		MotivoEtiqueta: s.Motivo.Etiqueta(),
		Descripcion:    s.Descripcion,
		Usuario:        nombreActor(s.Usuario),
		CreatedAt:      s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if s.Producto != nil {
		resp.ProductoNombre = s.Producto.Nombre
		resp.ProductoCodigo = s.Producto.Codigo
	}
	return resp
}
