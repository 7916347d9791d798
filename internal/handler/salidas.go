package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"inventario/internal/dto"
	"inventario/internal/infra"
	"inventario/internal/middleware"
	"inventario/internal/service"

	"github.com/gin-gonic/gin"
)

type SalidasHandler struct{ svc service.SalidaService }

func NewSalidasHandler(svc service.SalidaService) *SalidasHandler {
	return &SalidasHandler{svc: svc}
}

// Registrar godoc
// @Summary Registra una salida de stock
// @Description Descuenta stock y agrega la entrada SALIDA al historial en una sola transacción.
// @Tags salidas
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.RegistrarSalidaRequest true "Salida"
// @Success 201 {object} dto.SalidaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.StockError
// @Router /v1/salidas [post]
func (h *SalidasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarSalidaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarSalida(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SalidasHandler) Listar(c *gin.Context) {
	var filter dto.SalidaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		filter = dto.SalidaFilter{ProductoID: c.Query("producto_id"), Page: 1}
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SalidasHandler) ObtenerPorID(c *gin.Context) {
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

// Comprobante godoc
// @Summary Descarga el comprobante PDF de una salida
// @Tags salidas
// @Security BearerAuth
// @Produce application/pdf
// @Param id path string true "UUID de la salida"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/salidas/{id}/comprobante [get]
func (h *SalidasHandler) Comprobante(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	datos, err := h.svc.Comprobante(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := infra.RenderComprobanteSalida(&buf, datos); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="salida_%s.pdf"`, datos.SalidaID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
