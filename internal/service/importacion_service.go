package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"inventario/internal/dto"
	"inventario/internal/infra"
	"inventario/internal/model"
	"inventario/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Contact data for suppliers created implicitly by an import.
const (
	DireccionPendiente = "Pendiente"
	TelefonoPendiente  = "0000000000"
	EmailPendiente     = "pendiente@proveedor.local"
)

// Cerrojo serializes import runs. Implemented by infra.CerrojoImportacion.
type Cerrojo interface {
	// Adquirir returns the context the run must use; it is cancelled if the
	// lock is lost before liberar is called.
	Adquirir(ctx context.Context) (runCtx context.Context, liberar func(), err error)
}

type ImportacionService interface {
	// ImportarExcel reads an .xlsx stream and reconciles its rows.
	ImportarExcel(ctx context.Context, actor *uuid.UUID, r io.Reader) (*dto.ReporteImportacion, error)
	// ImportarCeldas parses raw data rows (element i is sheet row i+2) and reconciles them.
	ImportarCeldas(ctx context.Context, actor *uuid.UUID, celdas [][]string) (*dto.ReporteImportacion, error)
	// Reconciliar applies create-or-update-by-code to already parsed rows.
	Reconciliar(ctx context.Context, actor *uuid.UUID, filas []FilaCruda) (*dto.ReporteImportacion, error)
}

type importacionService struct {
	tx                  repository.Transactor
	productoRepo        repository.ProductoRepository
	proveedorRepo       repository.ProveedorRepository
	historialRepo       repository.HistorialRepository
	historialPrecioRepo repository.HistorialPrecioRepository
	cache               CachePrecios
	cerrojo             Cerrojo
}

func NewImportacionService(
	tx repository.Transactor,
	productoRepo repository.ProductoRepository,
	proveedorRepo repository.ProveedorRepository,
	historialRepo repository.HistorialRepository,
	historialPrecioRepo repository.HistorialPrecioRepository,
	cache CachePrecios,
	cerrojo Cerrojo,
) ImportacionService {
	return &importacionService{
		tx:                  tx,
		productoRepo:        productoRepo,
		proveedorRepo:       proveedorRepo,
		historialRepo:       historialRepo,
		historialPrecioRepo: historialPrecioRepo,
		cache:               cache,
		cerrojo:             cerrojo,
	}
}

func (s *importacionService) ImportarExcel(ctx context.Context, actor *uuid.UUID, r io.Reader) (*dto.ReporteImportacion, error) {
	celdas, err := infra.LeerFilasExcel(r)
	if err != nil {
		return nil, &ValidacionError{Campo: "archivo", Motivo: err.Error()}
	}
	return s.ImportarCeldas(ctx, actor, celdas)
}

func (s *importacionService) ImportarCeldas(ctx context.Context, actor *uuid.UUID, celdas [][]string) (*dto.ReporteImportacion, error) {
	var (
		filas   []FilaCruda
		errores []dto.ErrorFila
	)
	for i, row := range celdas {
		numero := i + 2
		if filaVacia(row) {
			continue
		}
		fila, err := ParsearFila(numero, row)
		if err != nil {
			errores = append(errores, errorFila(numero, err))
			continue
		}
		filas = append(filas, fila)
	}

	reporte, err := s.Reconciliar(ctx, actor, filas)
	if reporte == nil {
		return nil, err
	}
	reporte.Errores = append(reporte.Errores, errores...)
	sort.SliceStable(reporte.Errores, func(i, j int) bool {
		return reporte.Errores[i].Fila < reporte.Errores[j].Fila
	})
	return reporte, err
}

// Reconciliar processes each row in its own transaction; a failing row is
// reported and the batch continues. On cancellation it stops at the next row
// boundary and returns the partial report together with ctx.Err().
func (s *importacionService) Reconciliar(ctx context.Context, actor *uuid.UUID, filas []FilaCruda) (*dto.ReporteImportacion, error) {
	if s.cerrojo != nil {
		runCtx, liberar, err := s.cerrojo.Adquirir(ctx)
		if err != nil {
			if errors.Is(err, infra.ErrCerrojoOcupado) {
				return nil, ErrImportacionEnCurso
			}
			return nil, traducirError(err)
		}
		defer liberar()
		ctx = runCtx
	}

	reporte := &dto.ReporteImportacion{Errores: []dto.ErrorFila{}}
	// Suppliers resolved by committed rows, by exact name.
	proveedores := make(map[string]uuid.UUID)

	for _, fila := range filas {
		if ctx.Err() != nil {
			err := context.Cause(ctx)
			log.Warn().Err(err).Int("fila", fila.Numero).Msg("importacion: cancelled")
			return reporte, err
		}

		creado, codigo, err := s.reconciliarFila(ctx, actor, fila, proveedores)
		if err != nil {
			reporte.Errores = append(reporte.Errores, errorFila(fila.Numero, err))
			continue
		}
		if creado {
			reporte.Creados++
		} else {
			reporte.Actualizados++
			if s.cache != nil {
				if err := s.cache.Invalidar(ctx, codigo); err != nil {
					log.Warn().Err(err).Str("codigo", codigo).Msg("importacion: price cache invalidation failed")
				}
			}
		}
	}

	log.Info().
		Int("creados", reporte.Creados).
		Int("actualizados", reporte.Actualizados).
		Int("errores", len(reporte.Errores)).
		Msg("importacion: finished")
	return reporte, nil
}

func (s *importacionService) reconciliarFila(
	ctx context.Context,
	actor *uuid.UUID,
	fila FilaCruda,
	proveedores map[string]uuid.UUID,
) (creado bool, codigo string, err error) {
	fila, err = validarFila(fila)
	if err != nil {
		return false, "", err
	}
	var proveedorNuevo *uuid.UUID

	err = runTx(ctx, s.tx, func(tx *gorm.DB) error {
		proveedorNuevo = nil
		var proveedorID *uuid.UUID
		if fila.Proveedor != "" {
			id, nuevo, err := s.buscarOCrearProveedor(tx, fila.Proveedor, proveedores)
			if err != nil {
				return err
			}
			proveedorID = &id
			if nuevo {
				proveedorNuevo = &id
			}
		}

		existente, err := s.productoRepo.FindByCodigoForUpdateTx(tx, fila.Codigo)
		switch {
		case err == nil:
			creado = false
			return s.actualizarExistente(tx, actor, existente, fila, proveedorID)
		case errors.Is(err, gorm.ErrRecordNotFound):
			creado = true
			return s.crearNuevo(tx, actor, fila, proveedorID)
		default:
			return err
		}
	})
	if err != nil {
		return false, "", err
	}
	if proveedorNuevo != nil {
		proveedores[fila.Proveedor] = *proveedorNuevo
	}
	return creado, fila.Codigo, nil
}

// buscarOCrearProveedor matches the name exactly. A supplier created here only
// enters the run cache once its row commits.
func (s *importacionService) buscarOCrearProveedor(tx *gorm.DB, nombre string, cache map[string]uuid.UUID) (uuid.UUID, bool, error) {
	if id, ok := cache[nombre]; ok {
		return id, false, nil
	}
	p, err := s.proveedorRepo.FindByNombreTx(tx, nombre)
	if err == nil {
		cache[nombre] = p.ID
		return p.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, false, err
	}
	nuevo := &model.Proveedor{
		Nombre:    nombre,
		Direccion: DireccionPendiente,
		Telefono:  TelefonoPendiente,
		Email:     EmailPendiente,
	}
	if err := s.proveedorRepo.CreateTx(tx, nuevo); err != nil {
		return uuid.Nil, false, err
	}
	return nuevo.ID, true, nil
}

func (s *importacionService) crearNuevo(tx *gorm.DB, actor *uuid.UUID, fila FilaCruda, proveedorID *uuid.UUID) error {
	if fila.StockDelta < 0 {
		return &StockInsuficienteError{Disponible: 0}
	}
	costo := decimal.Zero
	if fila.Precio != nil {
		costo = *fila.Precio
	}
	p := &model.Producto{
		Codigo:      fila.Codigo,
		Nombre:      fila.Nombre,
		Descripcion: fila.Descripcion,
		PrecioCosto: costo,
		Precio:      AplicarMarkup(costo),
		Stock:       fila.StockDelta,
		Categoria:   fila.Categoria,
		Activo:      true,
		ProveedorID: proveedorID,
	}
	if err := s.productoRepo.CreateTx(tx, p); err != nil {
		if esDuplicado(err) {
			return ErrCodigoDuplicado
		}
		return err
	}
	detalles := fmt.Sprintf("Creado por importación. Stock inicial: %d", p.Stock)
	return registrarMovimiento(tx, s.historialRepo, p, model.TipoCreacion, actor, detalles, true)
}

// actualizarExistente adds the row's stock delta to the current stock; it
// never replaces it. The price only changes when the row carries one.
func (s *importacionService) actualizarExistente(tx *gorm.DB, actor *uuid.UUID, p *model.Producto, fila FilaCruda, proveedorID *uuid.UUID) error {
	nuevoStock := p.Stock + fila.StockDelta
	if nuevoStock < 0 {
		return &StockInsuficienteError{Disponible: p.Stock}
	}
	if nuevoStock > StockMaximo {
		return &ValidacionError{Fila: fila.Numero, Campo: "stock", Motivo: "excede el máximo admitido"}
	}

	p.Nombre = fila.Nombre
	p.Descripcion = fila.Descripcion
	p.Categoria = fila.Categoria
	p.ProveedorID = proveedorID
	p.Proveedor = nil
	if fila.Precio != nil {
		if _, err := registrarCambioPrecio(tx, s.historialPrecioRepo, p, *fila.Precio, "importacion", actor); err != nil {
			return err
		}
	}
	anterior := p.Stock
	p.Stock = nuevoStock

	if err := s.productoRepo.UpdateTx(tx, p); err != nil {
		return err
	}
	detalles := fmt.Sprintf("Actualizado por importación. Stock agregado: %d (anterior: %d, actual: %d)",
		fila.StockDelta, anterior, nuevoStock)
	return registrarMovimiento(tx, s.historialRepo, p, model.TipoEdicion, actor, detalles, true)
}

// validarFila enforces the ParsearFila row rules on any FilaCruda, since
// Reconciliar also accepts rows built by callers.
func validarFila(fila FilaCruda) (FilaCruda, error) {
	fila.Codigo = strings.TrimSpace(fila.Codigo)
	fila.Nombre = strings.TrimSpace(fila.Nombre)
	if fila.Codigo == "" {
		return fila, &ValidacionError{Fila: fila.Numero, Campo: "codigo", Motivo: "es obligatorio"}
	}
	if fila.Nombre == "" {
		return fila, &ValidacionError{Fila: fila.Numero, Campo: "nombre", Motivo: "es obligatorio"}
	}
	if fila.Precio != nil && fila.Precio.IsNegative() {
		return fila, &ValidacionError{Fila: fila.Numero, Campo: "precio", Motivo: "no puede ser negativo"}
	}
	if fila.StockDelta > StockMaximo || fila.StockDelta < -StockMaximo-1 {
		return fila, &ValidacionError{Fila: fila.Numero, Campo: "stock", Motivo: "excede el máximo admitido"}
	}
	if !fila.Categoria.Valida() {
		fila.Categoria = normalizarCategoria(string(fila.Categoria))
	}
	return fila, nil
}

func errorFila(numero int, err error) dto.ErrorFila {
	motivo := err.Error()
	var valErr *ValidacionError
	if errors.As(err, &valErr) {
		motivo = fmt.Sprintf("%s %s", valErr.Campo, valErr.Motivo)
	}
	return dto.ErrorFila{Fila: numero, Mensaje: fmt.Sprintf("Fila %d: %s", numero, motivo)}
}

func filaVacia(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
