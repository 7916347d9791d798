package handler

import (
	"errors"
	"net/http"
	"reflect"

	"inventario/internal/apierror"
	"inventario/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseID reads the :id path param; on failure it writes a 400 and returns false.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors to HTTP status codes. Storage failures are
// attached to the context for ErrorHandler to log and never shown verbatim.
func respondError(c *gin.Context, err error) {
	var stockErr *service.StockInsuficienteError
	var valErr *service.ValidacionError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewStock(stockErr.Error(), stockErr.Disponible))
	case errors.As(err, &valErr):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{valErr.Campo: valErr.Motivo}))
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New("Recurso no encontrado"))
	case errors.Is(err, service.ErrCodigoDuplicado),
		errors.Is(err, service.ErrReferenciaProtegida),
		errors.Is(err, service.ErrImportacionEnCurso):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCredenciales):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
