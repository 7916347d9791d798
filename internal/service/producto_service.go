package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inventario/internal/dto"
	"inventario/internal/model"
	"inventario/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// UmbralBajoStock: products with stock strictly below it count as low stock.
	UmbralBajoStock  = 5
	MaxLote          = 50
	recientesResumen = 5
)

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, actor *uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	CrearLote(ctx context.Context, actor *uuid.UUID, req dto.CrearLoteRequest) (*dto.LoteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, actor *uuid.UUID, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, actor *uuid.UUID, id uuid.UUID) error
	Desactivar(ctx context.Context, actor *uuid.UUID, id uuid.UUID) error
	Reactivar(ctx context.Context, actor *uuid.UUID, id uuid.UUID) error
	Resumen(ctx context.Context) (*dto.ResumenResponse, error)
	ConsultarPrecio(ctx context.Context, codigo string) (*dto.ConsultaPreciosResponse, error)
}

type productoService struct {
	tx                  repository.Transactor
	repo                repository.ProductoRepository
	proveedorRepo       repository.ProveedorRepository
	salidaRepo          repository.SalidaRepository
	historialRepo       repository.HistorialRepository
	historialPrecioRepo repository.HistorialPrecioRepository
	cache               CachePrecios
}

func NewProductoService(
	tx repository.Transactor,
	repo repository.ProductoRepository,
	proveedorRepo repository.ProveedorRepository,
	salidaRepo repository.SalidaRepository,
	historialRepo repository.HistorialRepository,
	historialPrecioRepo repository.HistorialPrecioRepository,
	cache CachePrecios,
) ProductoService {
	return &productoService{
		tx:                  tx,
		repo:                repo,
		proveedorRepo:       proveedorRepo,
		salidaRepo:          salidaRepo,
		historialRepo:       historialRepo,
		historialPrecioRepo: historialPrecioRepo,
		cache:               cache,
	}
}

func (s *productoService) Crear(ctx context.Context, actor *uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	codigo := strings.TrimSpace(req.Codigo)
	nombre := strings.TrimSpace(req.Nombre)
	if codigo == "" {
		return nil, &ValidacionError{Campo: "codigo", Motivo: "es obligatorio"}
	}
	if nombre == "" {
		return nil, &ValidacionError{Campo: "nombre", Motivo: "es obligatorio"}
	}
	if req.Stock < 0 {
		return nil, &ValidacionError{Campo: "stock", Motivo: "no puede ser negativo"}
	}
	if req.PrecioCosto.IsNegative() {
		return nil, &ValidacionError{Campo: "precio_costo", Motivo: "no puede ser negativo"}
	}
	categoria := model.Categoria(strings.ToUpper(req.Categoria))
	if !categoria.Valida() {
		return nil, &ValidacionError{Campo: "categoria", Motivo: "categoría desconocida"}
	}
	proveedorID, err := s.resolverProveedor(ctx, req.ProveedorID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByCodigo(ctx, codigo); err == nil {
		return nil, ErrCodigoDuplicado
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, traducirError(err)
	}

	p := &model.Producto{
		Codigo:      codigo,
		Nombre:      nombre,
		Descripcion: strings.TrimSpace(req.Descripcion),
		PrecioCosto: req.PrecioCosto,
		Precio:      AplicarMarkup(req.PrecioCosto),
		Stock:       req.Stock,
		Categoria:   categoria,
		Activo:      true,
		ProveedorID: proveedorID,
	}
	err = runTx(ctx, s.tx, func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, p); err != nil {
			if esDuplicado(err) {
				return ErrCodigoDuplicado
			}
			return err
		}
		detalles := fmt.Sprintf("Producto creado con stock inicial %d", p.Stock)
		return registrarMovimiento(tx, s.historialRepo, p, model.TipoCreacion, actor, detalles, true)
	})
	if err != nil {
		return nil, traducirError(err)
	}
	log.Info().Str("codigo", p.Codigo).Msg("producto creado")
	return productoToResponse(p), nil
}

// CrearLote creates each product as its own unit of work; one failure does
// not roll back the others.
func (s *productoService) CrearLote(ctx context.Context, actor *uuid.UUID, req dto.CrearLoteRequest) (*dto.LoteResponse, error) {
	if len(req.Productos) == 0 || len(req.Productos) > MaxLote {
		return nil, &ValidacionError{Campo: "productos", Motivo: fmt.Sprintf("se admiten entre 1 y %d productos", MaxLote)}
	}
	resp := &dto.LoteResponse{
		Creados: make([]dto.ProductoResponse, 0, len(req.Productos)),
		Errores: []dto.LoteItemError{},
	}
	for i, item := range req.Productos {
		creado, err := s.Crear(ctx, actor, item)
		if err != nil {
			resp.Errores = append(resp.Errores, dto.LoteItemError{Indice: i, Codigo: item.Codigo, Motivo: err.Error()})
			continue
		}
		resp.Creados = append(resp.Creados, *creado)
	}
	return resp, nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducirError(err)
	}
	return productoToResponse(p), nil
}

// Listar pages by 10 by default; an out-of-range page is clamped to the last one.
func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, traducirError(err)
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{
		Data:       data,
		Total:      total,
		Page:       dto.Pagina(filter.Page, filter.Limit, total),
		Limit:      filter.Limit,
		TotalPages: dto.TotalPaginas(filter.Limit, total),
	}, nil
}

// Actualizar applies the present fields. Markup is recomputed only when a
// new cost price is submitted.
func (s *productoService) Actualizar(ctx context.Context, actor *uuid.UUID, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	if req.Stock != nil && *req.Stock < 0 {
		return nil, &ValidacionError{Campo: "stock", Motivo: "no puede ser negativo"}
	}
	if req.PrecioCosto != nil && req.PrecioCosto.IsNegative() {
		return nil, &ValidacionError{Campo: "precio_costo", Motivo: "no puede ser negativo"}
	}
	if req.Nombre != nil && strings.TrimSpace(*req.Nombre) == "" {
		return nil, &ValidacionError{Campo: "nombre", Motivo: "es obligatorio"}
	}
	var categoria model.Categoria
	if req.Categoria != nil {
		categoria = model.Categoria(strings.ToUpper(*req.Categoria))
		if !categoria.Valida() {
			return nil, &ValidacionError{Campo: "categoria", Motivo: "categoría desconocida"}
		}
	}
	var proveedorID *uuid.UUID
	if req.ProveedorID != nil {
		var err error
		if proveedorID, err = s.resolverProveedor(ctx, req.ProveedorID); err != nil {
			return nil, err
		}
	}

	var p *model.Producto
	err := runTx(ctx, s.tx, func(tx *gorm.DB) error {
		var err error
		p, err = s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return err
		}

		var cambios []string
		if req.Nombre != nil && strings.TrimSpace(*req.Nombre) != p.Nombre {
			p.Nombre = strings.TrimSpace(*req.Nombre)
			cambios = append(cambios, "nombre")
		}
		if req.Descripcion != nil && strings.TrimSpace(*req.Descripcion) != p.Descripcion {
			p.Descripcion = strings.TrimSpace(*req.Descripcion)
			cambios = append(cambios, "descripción")
		}
		if req.Categoria != nil && categoria != p.Categoria {
			cambios = append(cambios, fmt.Sprintf("categoría: %s → %s", p.Categoria, categoria))
			p.Categoria = categoria
		}
		if req.ProveedorID != nil && !mismoProveedor(p.ProveedorID, proveedorID) {
			p.ProveedorID = proveedorID
			cambios = append(cambios, "proveedor")
		}
		if req.Stock != nil && *req.Stock != p.Stock {
			cambios = append(cambios, fmt.Sprintf("stock: %d → %d", p.Stock, *req.Stock))
			p.Stock = *req.Stock
		}
		if req.PrecioCosto != nil {
			cambio, err := registrarCambioPrecio(tx, s.historialPrecioRepo, p, *req.PrecioCosto, "manual", actor)
			if err != nil {
				return err
			}
			if cambio != "" {
				cambios = append(cambios, cambio)
			}
		}

		p.Proveedor = nil
		if err := s.repo.UpdateTx(tx, p); err != nil {
			return err
		}
		detalles := "Sin cambios"
		if len(cambios) > 0 {
			detalles = "Campos modificados: " + strings.Join(cambios, ", ")
		}
		return registrarMovimiento(tx, s.historialRepo, p, model.TipoEdicion, actor, detalles, true)
	})
	if err != nil {
		return nil, traducirError(err)
	}
	s.invalidarPrecio(ctx, p.Codigo)
	return productoToResponse(p), nil
}

// registrarCambioPrecio sets a new cost price on an existing product,
// recomputes the final price and records the change in the price history.
// Returns a summary, or "" when nothing changed.
func registrarCambioPrecio(
	tx *gorm.DB,
	repo repository.HistorialPrecioRepository,
	p *model.Producto,
	costo decimal.Decimal,
	motivo string,
	actor *uuid.UUID,
) (string, error) {
	nuevo := AplicarMarkup(costo)
	if costo.Equal(p.PrecioCosto) && nuevo.Equal(p.Precio) {
		return "", nil
	}
	productoID := p.ID
	h := &model.HistorialPrecio{
		ProductoID:    &productoID,
		CostoAntes:    p.PrecioCosto,
		CostoDespues:  costo,
		PrecioAntes:   p.Precio,
		PrecioDespues: nuevo,
		Motivo:        motivo,
		UsuarioID:     actor,
	}
	resumen := fmt.Sprintf("precio: %s → %s", p.Precio.StringFixed(2), nuevo.StringFixed(2))
	p.PrecioCosto = costo
	p.Precio = nuevo
	return resumen, repo.CreateTx(tx, h)
}

// Eliminar is rejected while withdrawals reference the product. The ELIMINACION
// entry keeps the snapshot but not the product reference.
func (s *productoService) Eliminar(ctx context.Context, actor *uuid.UUID, id uuid.UUID) error {
	var codigo string
	err := runTx(ctx, s.tx, func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return err
		}
		salidas, err := s.salidaRepo.CountByProductoTx(tx, id)
		if err != nil {
			return err
		}
		if salidas > 0 {
			return ErrReferenciaProtegida
		}
		codigo = p.Codigo
		detalles := fmt.Sprintf("Producto eliminado. Stock al eliminar: %d", p.Stock)
		if err := registrarMovimiento(tx, s.historialRepo, p, model.TipoEliminacion, actor, detalles, false); err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, id)
	})
	if err != nil {
		return traducirError(err)
	}
	s.invalidarPrecio(ctx, codigo)
	log.Info().Str("codigo", codigo).Msg("producto eliminado")
	return nil
}

func (s *productoService) Desactivar(ctx context.Context, actor *uuid.UUID, id uuid.UUID) error {
	return s.cambiarActivo(ctx, actor, id, false)
}

func (s *productoService) Reactivar(ctx context.Context, actor *uuid.UUID, id uuid.UUID) error {
	return s.cambiarActivo(ctx, actor, id, true)
}

func (s *productoService) cambiarActivo(ctx context.Context, actor *uuid.UUID, id uuid.UUID, activo bool) error {
	var codigo string
	err := runTx(ctx, s.tx, func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return err
		}
		codigo = p.Codigo
		if p.Activo == activo {
			return nil
		}
		p.Activo = activo
		if err := s.repo.UpdateTx(tx, p); err != nil {
			return err
		}
		tipo, detalles := model.TipoDeshabilitacion, "Producto deshabilitado"
		if activo {
			tipo, detalles = model.TipoEdicion, "Producto reactivado"
		}
		return registrarMovimiento(tx, s.historialRepo, p, tipo, actor, detalles, true)
	})
	if err != nil {
		return traducirError(err)
	}
	s.invalidarPrecio(ctx, codigo)
	return nil
}

func (s *productoService) Resumen(ctx context.Context) (*dto.ResumenResponse, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, traducirError(err)
	}
	proveedores, err := s.proveedorRepo.Count(ctx)
	if err != nil {
		return nil, traducirError(err)
	}
	bajo, err := s.repo.CountBajoStock(ctx, UmbralBajoStock)
	if err != nil {
		return nil, traducirError(err)
	}
	recientes, err := s.repo.Recientes(ctx, recientesResumen)
	if err != nil {
		return nil, traducirError(err)
	}
	resp := &dto.ResumenResponse{
		TotalProductos:     total,
		TotalProveedores:   proveedores,
		ProductosBajoStock: bajo,
		ProductosRecientes: make([]dto.ProductoResponse, 0, len(recientes)),
	}
	for i := range recientes {
		resp.ProductosRecientes = append(resp.ProductosRecientes, *productoToResponse(&recientes[i]))
	}
	return resp, nil
}

// ConsultarPrecio serves the public lookup. Inactive products are not listed.
func (s *productoService) ConsultarPrecio(ctx context.Context, codigo string) (*dto.ConsultaPreciosResponse, error) {
	if s.cache != nil {
		if resp, ok := s.cache.Obtener(ctx, codigo); ok {
			return resp, nil
		}
	}
	p, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, traducirError(err)
	}
	if !p.Activo {
		return nil, ErrNoEncontrado
	}
	resp := &dto.ConsultaPreciosResponse{
		Codigo:          p.Codigo,
		Nombre:          p.Nombre,
		Precio:          p.Precio,
		StockDisponible: p.Stock,
		Categoria:       string(p.Categoria),
	}
	if s.cache != nil {
		s.cache.Guardar(ctx, resp)
	}
	return resp, nil
}

func (s *productoService) invalidarPrecio(ctx context.Context, codigo string) {
	if s.cache == nil || codigo == "" {
		return
	}
	if err := s.cache.Invalidar(ctx, codigo); err != nil {
		log.Warn().Err(err).Str("codigo", codigo).Msg("price cache invalidation failed")
	}
}

// resolverProveedor parses an optional supplier id and checks it exists.
// nil or "" means no supplier.
func (s *productoService) resolverProveedor(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, &ValidacionError{Campo: "proveedor_id", Motivo: "no es un UUID válido"}
	}
	if _, err := s.proveedorRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidacionError{Campo: "proveedor_id", Motivo: "el proveedor no existe"}
		}
		return nil, traducirError(err)
	}
	return &id, nil
}

func mismoProveedor(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:          p.ID.String(),
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		PrecioCosto: p.PrecioCosto,
		Precio:      p.Precio,
		Stock:       p.Stock,
		Categoria:   string(p.Categoria),
		Activo:      p.Activo,
		CreatedAt:   p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if p.ProveedorID != nil {
		id := p.ProveedorID.String()
		resp.ProveedorID = &id
	}
	if p.Proveedor != nil {
		nombre := p.Proveedor.Nombre
		resp.ProveedorNombre = &nombre
	}
	return resp
}
