package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"inventario/internal/apierror"
	"inventario/internal/middleware"
	"inventario/internal/service"

	"github.com/gin-gonic/gin"
)

type ImportacionesHandler struct {
	svc      service.ImportacionService
	maxBytes int64
}

func NewImportacionesHandler(svc service.ImportacionService, maxMB int) *ImportacionesHandler {
	return &ImportacionesHandler{svc: svc, maxBytes: int64(maxMB) << 20}
}

// Importar godoc
// @Summary Importa productos desde una planilla .xlsx
// @Description Columnas: código, nombre, descripción, precio, stock, categoría, proveedor.
// @Description Los códigos existentes suman el stock; los nuevos se crean. Las filas con error se informan sin abortar el lote.
// @Tags importaciones
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param archivo formData file true "Planilla .xlsx"
// @Success 200 {object} dto.ReporteImportacion
// @Failure 409 {object} apierror.APIError
// @Router /v1/importaciones [post]
func (h *ImportacionesHandler) Importar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	fh, err := c.FormFile("archivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Falta el archivo (campo 'archivo')"))
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, apierror.New("Solo se aceptan archivos .xlsx"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el archivo"))
		return
	}
	defer f.Close()

	reporte, err := h.svc.ImportarExcel(c.Request.Context(), middleware.ActorID(c), f)
	if err != nil && reporte == nil {
		respondError(c, err)
		return
	}
	// A cancelled import still reports what was committed.
	c.JSON(http.StatusOK, reporte)
}
