package handler

import (
	"net/http"

	"inventario/internal/dto"
	"inventario/internal/service"

	"github.com/gin-gonic/gin"
)

type ProveedoresHandler struct{ svc service.ProveedorService }

func NewProveedoresHandler(svc service.ProveedorService) *ProveedoresHandler {
	return &ProveedoresHandler{svc: svc}
}

func (h *ProveedoresHandler) Crear(c *gin.Context) {
	var req dto.CrearProveedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProveedoresHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProveedoresHandler) ObtenerPorID(c *gin.Context) {
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

func (h *ProveedoresHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CrearProveedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Elimina un proveedor; sus productos quedan sin proveedor
// @Tags proveedores
// @Security BearerAuth
// @Param id path string true "UUID del proveedor"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/proveedores/{id} [delete]
func (h *ProveedoresHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
