package handler

import (
	"net/http"
	"strconv"

	"inventario/internal/dto"
	"inventario/internal/model"
	"inventario/internal/repository"

	"github.com/gin-gonic/gin"
)

// HistorialPreciosHandler lists the price changes of one product.
type HistorialPreciosHandler struct {
	repo repository.HistorialPrecioRepository
}

func NewHistorialPreciosHandler(repo repository.HistorialPrecioRepository) *HistorialPreciosHandler {
	return &HistorialPreciosHandler{repo: repo}
}

// ListarPorProducto godoc
// @Summary      Historial de precios de un producto
// @Description  Cambios de costo y precio de venta, ordenados por fecha descendente.
// @Tags         productos
// @Security     BearerAuth
// @Param        id    path     string  true  "UUID del producto"
// @Param        page  query    int     false "Página (default 1)"
// @Param        limit query    int     false "Registros por página (default 50, max 200)"
// @Success      200   {object} dto.HistorialPrecioListResponse
// @Failure      400   {object} apierror.APIError
// @Router       /v1/productos/{id}/historial-precios [get]
func (h *HistorialPreciosHandler) ListarPorProducto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, total, err := h.repo.ListByProducto(c.Request.Context(), id, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]dto.HistorialPrecioItem, 0, len(rows))
	for i := range rows {
		data = append(data, historialPrecioToDTO(&rows[i]))
	}

	c.JSON(http.StatusOK, dto.HistorialPrecioListResponse{
		Data:  data,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func historialPrecioToDTO(h *model.HistorialPrecio) dto.HistorialPrecioItem {
	item := dto.HistorialPrecioItem{
		ID:            h.ID.String(),
		CostoAntes:    h.CostoAntes,
		CostoDespues:  h.CostoDespues,
		PrecioAntes:   h.PrecioAntes,
		PrecioDespues: h.PrecioDespues,
		Motivo:        h.Motivo,
		CreatedAt:     h.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if h.ProductoID != nil {
		s := h.ProductoID.String()
		item.ProductoID = &s
	}
	return item
}
