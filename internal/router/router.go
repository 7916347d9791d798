package router

import (
	"time"

	"inventario/internal/config"
	"inventario/internal/handler"
	"inventario/internal/infra"
	"inventario/internal/middleware"
	"inventario/internal/repository"
	"inventario/internal/service"
	"inventario/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Servicios is the wired service layer, shared by the HTTP router and the
// worker pool.
type Servicios struct {
	Auth        service.AuthService
	Productos   service.ProductoService
	Proveedores service.ProveedorService
	Salidas     service.SalidaService
	Importacion service.ImportacionService
	Historial   service.HistorialService

	HistorialPrecios repository.HistorialPrecioRepository
}

// NewServicios builds the dependency graph: Service ← Repository ← DB/Redis.
func NewServicios(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Servicios {
	// ── Infrastructure ───────────────────────────────────────────────────────
	tx := repository.NewTransactor(db)
	cache := infra.NewPrecioCache(rdb)
	cerrojo := infra.NewCerrojoImportacion(rdb, time.Duration(cfg.ImportLockTTLSeconds)*time.Second)
	dispatcher := worker.NewDispatcher(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	salidaRepo := repository.NewSalidaRepository(db)
	historialRepo := repository.NewHistorialRepository(db)
	historialPrecioRepo := repository.NewHistorialPrecioRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	return &Servicios{
		Auth:             service.NewAuthService(usuarioRepo, cfg),
		Productos:        service.NewProductoService(tx, productoRepo, proveedorRepo, salidaRepo, historialRepo, historialPrecioRepo, cache),
		Proveedores:      service.NewProveedorService(tx, proveedorRepo, productoRepo),
		Salidas:          service.NewSalidaService(tx, productoRepo, salidaRepo, historialRepo, cache, dispatcher),
		Importacion:      service.NewImportacionService(tx, productoRepo, proveedorRepo, historialRepo, historialPrecioRepo, cache, cerrojo),
		Historial:        service.NewHistorialService(historialRepo),
		HistorialPrecios: historialPrecioRepo,
	}
}

// New returns a configured Gin engine serving svcs.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svcs *Servicios) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Env, cfg.CORSAllowedOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svcs.Auth)
	productosH := handler.NewProductosHandler(svcs.Productos)
	proveedoresH := handler.NewProveedoresHandler(svcs.Proveedores)
	salidasH := handler.NewSalidasHandler(svcs.Salidas)
	importacionesH := handler.NewImportacionesHandler(svcs.Importacion, cfg.MaxImportMB)
	historialH := handler.NewHistorialHandler(svcs.Historial)
	historialPreciosH := handler.NewHistorialPreciosHandler(svcs.HistorialPrecios)
	consultaH := handler.NewConsultaPreciosHandler(svcs.Productos)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	r.GET("/v1/precio/:codigo", consultaH.GetPrecioPorCodigo)

	// Protected routes
	todos := middleware.RequireRole(service.RolOperador, service.RolAdministrador)
	admin := middleware.RequireRole(service.RolAdministrador)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		v1.GET("/resumen", todos, productosH.Resumen)

		prods := v1.Group("/productos")
		{
			prods.GET("", todos, productosH.Listar)
			prods.GET("/:id", todos, productosH.ObtenerPorID)
			prods.GET("/:id/historial-precios", todos, historialPreciosH.ListarPorProducto)
			prods.POST("", todos, productosH.Crear)
			prods.POST("/lote", todos, productosH.CrearLote)
			prods.PUT("/:id", todos, productosH.Actualizar)
			prods.PATCH("/:id/desactivar", todos, productosH.Desactivar)
			prods.PATCH("/:id/reactivar", todos, productosH.Reactivar)
			prods.DELETE("/:id", admin, productosH.Eliminar)
		}

		prov := v1.Group("/proveedores")
		{
			prov.GET("", todos, proveedoresH.Listar)
			prov.GET("/:id", todos, proveedoresH.ObtenerPorID)
			prov.POST("", admin, proveedoresH.Crear)
			prov.PUT("/:id", admin, proveedoresH.Actualizar)
			prov.DELETE("/:id", admin, proveedoresH.Eliminar)
		}

		salidas := v1.Group("/salidas", todos)
		{
			salidas.POST("", salidasH.Registrar)
			salidas.GET("", salidasH.Listar)
			salidas.GET("/:id", salidasH.ObtenerPorID)
			salidas.GET("/:id/comprobante", salidasH.Comprobante)
		}

		v1.POST("/importaciones", admin, importacionesH.Importar)
		v1.GET("/historial", todos, historialH.Listar)
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
