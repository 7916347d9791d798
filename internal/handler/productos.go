package handler

import (
	"net/http"

	"inventario/internal/dto"
	"inventario/internal/middleware"
	"inventario/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// Crear godoc
// @Summary Crea un producto (aplica markup al precio de costo)
// @Tags productos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CrearProductoRequest true "Producto"
// @Success 201 {object} dto.ProductoResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/productos [post]
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CrearLote godoc
// @Summary Crea entre 1 y 50 productos; cada uno se confirma por separado
// @Tags productos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CrearLoteRequest true "Productos"
// @Success 200 {object} dto.LoteResponse
// @Router /v1/productos/lote [post]
func (h *ProductosHandler) CrearLote(c *gin.Context) {
	var req dto.CrearLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearLote(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Lista productos (categoria o "todos", busqueda por nombre, 10 por página)
// @Tags productos
// @Security BearerAuth
// @Produce json
// @Param categoria query string false "Categoría o todos"
// @Param busqueda query string false "Texto contenido en el nombre"
// @Param page query int false "Página"
// @Success 200 {object} dto.ProductoListResponse
// @Router /v1/productos [get]
func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		// A malformed page number falls back to the first page.
		filter = dto.ProductoFilter{
			Categoria: c.Query("categoria"),
			Busqueda:  c.Query("busqueda"),
			Activo:    c.Query("activo"),
			Page:      1,
		}
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), middleware.ActorID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Elimina un producto sin salidas registradas
// @Tags productos
// @Security BearerAuth
// @Param id path string true "UUID del producto"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/productos/{id} [delete]
func (h *ProductosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), middleware.ActorID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductosHandler) Desactivar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), middleware.ActorID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductosHandler) Reactivar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Reactivar(c.Request.Context(), middleware.ActorID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Resumen godoc
// @Summary Totales del tablero: productos, proveedores, stock bajo y recientes
// @Tags productos
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ResumenResponse
// @Router /v1/resumen [get]
func (h *ProductosHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.Resumen(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
