package service_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"inventario/internal/dto"
	"inventario/internal/infra"
	"inventario/internal/model"
	"inventario/internal/repository"
	"inventario/internal/service"
	"inventario/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── In-memory store shared by every repository stub ──────────────────────────
//
// memStore behaves like a single database: the Transactor serialises
// transactions and restores a snapshot when fn fails, so partial writes are
// never visible after a rollback.

type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	productos   map[uuid.UUID]model.Producto
	proveedores map[uuid.UUID]model.Proveedor
	usuarios    map[uuid.UUID]model.Usuario
	salidas     []model.SalidaProducto
	movimientos []model.MovimientoHistorial
	precios     []model.HistorialPrecio

	reloj time.Time

	// fallarSalida makes the next SalidaRepository.CreateTx fail.
	fallarSalida error
}

func newMemStore() *memStore {
	return &memStore{
		productos:   make(map[uuid.UUID]model.Producto),
		proveedores: make(map[uuid.UUID]model.Proveedor),
		usuarios:    make(map[uuid.UUID]model.Usuario),
		reloj:       time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

// ahora hands out strictly increasing timestamps. Caller holds mu.
func (s *memStore) ahora() time.Time {
	s.reloj = s.reloj.Add(time.Second)
	return s.reloj
}

type snapshot struct {
	productos   map[uuid.UUID]model.Producto
	proveedores map[uuid.UUID]model.Proveedor
	salidas     []model.SalidaProducto
	movimientos []model.MovimientoHistorial
	precios     []model.HistorialPrecio
}

func (s *memStore) tomar() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		productos:   make(map[uuid.UUID]model.Producto, len(s.productos)),
		proveedores: make(map[uuid.UUID]model.Proveedor, len(s.proveedores)),
		salidas:     append([]model.SalidaProducto(nil), s.salidas...),
		movimientos: append([]model.MovimientoHistorial(nil), s.movimientos...),
		precios:     append([]model.HistorialPrecio(nil), s.precios...),
	}
	for k, v := range s.productos {
		snap.productos[k] = v
	}
	for k, v := range s.proveedores {
		snap.proveedores[k] = v
	}
	return snap
}

func (s *memStore) restaurar(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productos = snap.productos
	s.proveedores = snap.proveedores
	s.salidas = snap.salidas
	s.movimientos = snap.movimientos
	s.precios = snap.precios
}

func (s *memStore) Transaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	snap := s.tomar()
	if err := fn(nil); err != nil {
		s.restaurar(snap)
		return err
	}
	return nil
}

// ── Seed helpers ─────────────────────────────────────────────────────────────

func (s *memStore) sembrarProducto(p model.Producto) model.Producto {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Categoria == "" {
		p.Categoria = model.CategoriaComputadoras
	}
	p.CreatedAt = s.ahora()
	s.productos[p.ID] = p
	return p
}

func (s *memStore) sembrarProveedor(nombre string) model.Proveedor {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := model.Proveedor{ID: uuid.New(), Nombre: nombre, Direccion: "Calle 1", Telefono: "555", Email: "p@x.com", CreatedAt: s.ahora()}
	s.proveedores[p.ID] = p
	return p
}

func (s *memStore) producto(id uuid.UUID) (model.Producto, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.productos[id]
	return p, ok
}

func (s *memStore) productoPorCodigo(codigo string) (model.Producto, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.productos {
		if p.Codigo == codigo {
			return p, true
		}
	}
	return model.Producto{}, false
}

func (s *memStore) movimientosDe(tipo model.TipoMovimiento) []model.MovimientoHistorial {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.MovimientoHistorial
	for _, m := range s.movimientos {
		if m.Tipo == tipo {
			out = append(out, m)
		}
	}
	return out
}

func (s *memStore) cantidadSalidas() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.salidas)
}

// ── ProductoRepository ───────────────────────────────────────────────────────

type stubProductoRepo struct{ s *memStore }

func (r stubProductoRepo) conProveedor(p model.Producto) *model.Producto {
	if p.ProveedorID != nil {
		if prov, ok := r.s.proveedores[*p.ProveedorID]; ok {
			p.Proveedor = &prov
		}
	}
	return &p
}

func (r stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.conProveedor(p), nil
}

func (r stubProductoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Producto, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.productos {
		if p.Codigo == codigo {
			return r.conProveedor(p), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r stubProductoRepo) List(_ context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Producto
	for _, p := range r.s.productos {
		if filter.Activo == "true" && !p.Activo || filter.Activo == "false" && p.Activo {
			continue
		}
		if c := strings.ToUpper(filter.Categoria); c != "" && c != "TODOS" && string(p.Categoria) != c {
			continue
		}
		if filter.Busqueda != "" && !strings.Contains(strings.ToLower(p.Nombre), strings.ToLower(filter.Busqueda)) {
			continue
		}
		if filter.ConStock && p.Stock <= 0 {
			continue
		}
		out = append(out, *r.conProveedor(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	total := int64(len(out))
	page := dto.Pagina(filter.Page, filter.Limit, total)
	start := (page - 1) * filter.Limit
	if start > len(out) {
		start = len(out)
	}
	end := start + filter.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r stubProductoRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.productos)), nil
}

func (r stubProductoRepo) CountBajoStock(_ context.Context, umbral int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.productos {
		if p.Stock < umbral {
			n++
		}
	}
	return n, nil
}

func (r stubProductoRepo) Recientes(_ context.Context, n int) ([]model.Producto, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.Producto, 0, len(r.s.productos))
	for _, p := range r.s.productos {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (r stubProductoRepo) CreateTx(_ *gorm.DB, p *model.Producto) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existente := range r.s.productos {
		if existente.Codigo == p.Codigo {
			return gorm.ErrDuplicatedKey
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = r.s.ahora()
	p.UpdatedAt = p.CreatedAt
	guardado := *p
	guardado.Proveedor = nil
	r.s.productos[p.ID] = guardado
	return nil
}

func (r stubProductoRepo) UpdateTx(_ *gorm.DB, p *model.Producto) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.productos[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	guardado := *p
	guardado.Proveedor = nil
	r.s.productos[p.ID] = guardado
	return nil
}

func (r stubProductoRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, s := range r.s.salidas {
		if s.ProductoID == id {
			return gorm.ErrForeignKeyViolated
		}
	}
	delete(r.s.productos, id)
	for i := range r.s.movimientos {
		if m := r.s.movimientos[i].ProductoID; m != nil && *m == id {
			r.s.movimientos[i].ProductoID = nil
		}
	}
	for i := range r.s.precios {
		if h := r.s.precios[i].ProductoID; h != nil && *h == id {
			r.s.precios[i].ProductoID = nil
		}
	}
	return nil
}

func (r stubProductoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(context.Background(), id)
}

func (r stubProductoRepo) FindByCodigoForUpdateTx(_ *gorm.DB, codigo string) (*model.Producto, error) {
	return r.FindByCodigo(context.Background(), codigo)
}

func (r stubProductoRepo) AjustarStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.productos[id]
	if !ok || p.Stock+delta < 0 {
		return repository.ErrStockInsuficiente
	}
	p.Stock += delta
	r.s.productos[id] = p
	return nil
}

func (r stubProductoRepo) ClearProveedorTx(_ *gorm.DB, proveedorID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, p := range r.s.productos {
		if p.ProveedorID != nil && *p.ProveedorID == proveedorID {
			p.ProveedorID = nil
			r.s.productos[id] = p
		}
	}
	return nil
}

// ── ProveedorRepository ──────────────────────────────────────────────────────

type stubProveedorRepo struct{ s *memStore }

func (r stubProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	return r.CreateTx(nil, p)
}

func (r stubProveedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Proveedor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.proveedores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r stubProveedorRepo) List(_ context.Context) ([]model.Proveedor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.Proveedor, 0, len(r.s.proveedores))
	for _, p := range r.s.proveedores {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r stubProveedorRepo) Update(_ context.Context, p *model.Proveedor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.proveedores[p.ID] = *p
	return nil
}

func (r stubProveedorRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.proveedores)), nil
}

func (r stubProveedorRepo) CreateTx(_ *gorm.DB, p *model.Proveedor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = r.s.ahora()
	r.s.proveedores[p.ID] = *p
	return nil
}

func (r stubProveedorRepo) FindByNombreTx(_ *gorm.DB, nombre string) (*model.Proveedor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var mejor *model.Proveedor
	for _, p := range r.s.proveedores {
		if p.Nombre != nombre {
			continue
		}
		if mejor == nil || p.CreatedAt.Before(mejor.CreatedAt) {
			p := p
			mejor = &p
		}
	}
	if mejor == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return mejor, nil
}

func (r stubProveedorRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.proveedores, id)
	return nil
}

// ── SalidaRepository ─────────────────────────────────────────────────────────

type stubSalidaRepo struct{ s *memStore }

func (r stubSalidaRepo) CreateTx(_ *gorm.DB, salida *model.SalidaProducto) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fallarSalida; err != nil {
		r.s.fallarSalida = nil
		return err
	}
	salida.ID = uuid.New()
	salida.CreatedAt = r.s.ahora()
	r.s.salidas = append(r.s.salidas, *salida)
	return nil
}

func (r stubSalidaRepo) conRelaciones(salida model.SalidaProducto) model.SalidaProducto {
	if p, ok := r.s.productos[salida.ProductoID]; ok {
		salida.Producto = &p
	}
	if salida.UsuarioID != nil {
		if u, ok := r.s.usuarios[*salida.UsuarioID]; ok {
			salida.Usuario = &u
		}
	}
	return salida
}

func (r stubSalidaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SalidaProducto, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, salida := range r.s.salidas {
		if salida.ID == id {
			out := r.conRelaciones(salida)
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r stubSalidaRepo) List(_ context.Context, filter repository.SalidaFilter) ([]model.SalidaProducto, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.SalidaProducto
	for i := len(r.s.salidas) - 1; i >= 0; i-- {
		salida := r.s.salidas[i]
		if filter.ProductoID != nil && salida.ProductoID != *filter.ProductoID {
			continue
		}
		out = append(out, r.conRelaciones(salida))
	}
	return out, int64(len(out)), nil
}

func (r stubSalidaRepo) CountByProductoTx(_ *gorm.DB, productoID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, salida := range r.s.salidas {
		if salida.ProductoID == productoID {
			n++
		}
	}
	return n, nil
}

// ── HistorialRepository ──────────────────────────────────────────────────────

type stubHistorialRepo struct{ s *memStore }

func (r stubHistorialRepo) CreateTx(_ *gorm.DB, m *model.MovimientoHistorial) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.ID = uuid.New()
	m.CreatedAt = r.s.ahora()
	r.s.movimientos = append(r.s.movimientos, *m)
	return nil
}

func (r stubHistorialRepo) List(_ context.Context, filter repository.HistorialFilter) ([]model.MovimientoHistorial, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.MovimientoHistorial
	for i := len(r.s.movimientos) - 1; i >= 0; i-- {
		m := r.s.movimientos[i]
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		if filter.ProductoID != nil && (m.ProductoID == nil || *m.ProductoID != *filter.ProductoID) {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

// ── HistorialPrecioRepository ────────────────────────────────────────────────

type stubHistorialPrecioRepo struct{ s *memStore }

func (r stubHistorialPrecioRepo) CreateTx(_ *gorm.DB, h *model.HistorialPrecio) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h.ID = uuid.New()
	h.CreatedAt = r.s.ahora()
	r.s.precios = append(r.s.precios, *h)
	return nil
}

func (r stubHistorialPrecioRepo) ListByProducto(_ context.Context, productoID uuid.UUID, _, _ int) ([]model.HistorialPrecio, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.HistorialPrecio
	for i := len(r.s.precios) - 1; i >= 0; i-- {
		if h := r.s.precios[i]; h.ProductoID != nil && *h.ProductoID == productoID {
			out = append(out, h)
		}
	}
	return out, int64(len(out)), nil
}

// ── Side-effect fakes ────────────────────────────────────────────────────────

type fakeCache struct {
	mu          sync.Mutex
	datos       map[string]*dto.ConsultaPreciosResponse
	invalidados []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{datos: make(map[string]*dto.ConsultaPreciosResponse)}
}

func (c *fakeCache) Obtener(_ context.Context, codigo string) (*dto.ConsultaPreciosResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	resp, ok := c.datos[codigo]
	return resp, ok
}

func (c *fakeCache) Guardar(_ context.Context, resp *dto.ConsultaPreciosResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.datos[resp.Codigo] = resp
}

func (c *fakeCache) Invalidar(_ context.Context, codigo string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.datos, codigo)
	c.invalidados = append(c.invalidados, codigo)
	return nil
}

type fakeCola struct {
	mu           sync.Mutex
	comprobantes []uuid.UUID
	alertas      []worker.AlertaStockPayload
}

func (c *fakeCola) EnqueueComprobante(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.comprobantes = append(c.comprobantes, id)
	return nil
}

func (c *fakeCola) EnqueueAlertaStock(_ context.Context, a worker.AlertaStockPayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alertas = append(c.alertas, a)
	return nil
}

// fakeCerrojo with perdido set hands out a run context whose lock was already lost.
type fakeCerrojo struct{ ocupado, perdido bool }

func (c *fakeCerrojo) Adquirir(ctx context.Context) (context.Context, func(), error) {
	if c.ocupado {
		return nil, nil, infra.ErrCerrojoOcupado
	}
	c.ocupado = true
	runCtx, cancel := context.WithCancelCause(ctx)
	if c.perdido {
		cancel(infra.ErrCerrojoPerdido)
	}
	return runCtx, func() {
		cancel(nil)
		c.ocupado = false
	}, nil
}

var errDisco = errors.New("disk full")

// ── Wiring ───────────────────────────────────────────────────────────────────

type entorno struct {
	store   *memStore
	cache   *fakeCache
	cola    *fakeCola
	cerrojo *fakeCerrojo

	productos   service.ProductoService
	proveedores service.ProveedorService
	salidas     service.SalidaService
	importacion service.ImportacionService
	historial   service.HistorialService
}

func nuevoEntorno() *entorno {
	s := newMemStore()
	e := &entorno{store: s, cache: newFakeCache(), cola: &fakeCola{}, cerrojo: &fakeCerrojo{}}

	productoRepo := stubProductoRepo{s}
	proveedorRepo := stubProveedorRepo{s}
	salidaRepo := stubSalidaRepo{s}
	historialRepo := stubHistorialRepo{s}
	precioRepo := stubHistorialPrecioRepo{s}

	e.productos = service.NewProductoService(s, productoRepo, proveedorRepo, salidaRepo, historialRepo, precioRepo, e.cache)
	e.proveedores = service.NewProveedorService(s, proveedorRepo, productoRepo)
	e.salidas = service.NewSalidaService(s, productoRepo, salidaRepo, historialRepo, e.cache, e.cola)
	e.importacion = service.NewImportacionService(s, productoRepo, proveedorRepo, historialRepo, precioRepo, e.cache, e.cerrojo)
	e.historial = service.NewHistorialService(historialRepo)
	return e
}
