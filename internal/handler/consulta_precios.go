package handler

import (
	"net/http"

	"inventario/internal/service"

	"github.com/gin-gonic/gin"
)

// ConsultaPreciosHandler serves the public price check endpoint.
// No authentication and no side effects.
type ConsultaPreciosHandler struct {
	svc service.ProductoService
}

func NewConsultaPreciosHandler(svc service.ProductoService) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{svc: svc}
}

// GetPrecioPorCodigo godoc
// @Summary Consulta de precio por código (sin autenticación)
// @Tags precio
// @Produce json
// @Param codigo path string true "Código del producto"
// @Success 200 {object} dto.ConsultaPreciosResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/precio/{codigo} [get]
func (h *ConsultaPreciosHandler) GetPrecioPorCodigo(c *gin.Context) {
	resp, err := h.svc.ConsultarPrecio(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
