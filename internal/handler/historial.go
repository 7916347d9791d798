package handler

import (
	"net/http"

	"inventario/internal/dto"
	"inventario/internal/service"

	"github.com/gin-gonic/gin"
)

type HistorialHandler struct{ svc service.HistorialService }

func NewHistorialHandler(svc service.HistorialService) *HistorialHandler {
	return &HistorialHandler{svc: svc}
}

// Listar godoc
// @Summary Historial de movimientos, más recientes primero
// @Tags historial
// @Security BearerAuth
// @Produce json
// @Param tipo query string false "CREACION, EDICION, ELIMINACION, SALIDA, DESHABILITACION o todos"
// @Param producto_id query string false "UUID del producto"
// @Param page query int false "Página"
// @Success 200 {object} dto.HistorialListResponse
// @Router /v1/historial [get]
func (h *HistorialHandler) Listar(c *gin.Context) {
	var filter dto.HistorialFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		filter = dto.HistorialFilter{Tipo: c.Query("tipo"), ProductoID: c.Query("producto_id"), Page: 1}
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
