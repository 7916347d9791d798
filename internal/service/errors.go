package service

import (
	"errors"
	"fmt"
	"strings"

	"inventario/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrNoEncontrado        = errors.New("no encontrado")
	ErrCodigoDuplicado     = errors.New("ya existe un producto con ese código")
	ErrReferenciaProtegida = errors.New("el producto tiene salidas registradas y no puede eliminarse")
	ErrAlmacenamiento      = errors.New("error de almacenamiento")
	ErrCredenciales        = errors.New("credenciales invalidas")
	ErrImportacionEnCurso  = errors.New("ya hay una importación en curso")
)

// StockInsuficienteError reports how many units were available when a
// withdrawal or an import accumulation would have driven stock negative.
type StockInsuficienteError struct {
	Disponible int
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("No hay suficiente stock. Stock disponible: %d", e.Disponible)
}

// ValidacionError describes a malformed field. Fila is 0 outside of imports.
type ValidacionError struct {
	Fila   int
	Campo  string
	Motivo string
}

func (e *ValidacionError) Error() string {
	if e.Fila > 0 {
		return fmt.Sprintf("fila %d: %s: %s", e.Fila, e.Campo, e.Motivo)
	}
	return fmt.Sprintf("%s: %s", e.Campo, e.Motivo)
}

// traducirError maps persistence errors to the service taxonomy. Errors that
// already belong to it pass through untouched.
func traducirError(err error) error {
	if err == nil {
		return nil
	}
	var stockErr *StockInsuficienteError
	var valErr *ValidacionError
	switch {
	case errors.As(err, &stockErr), errors.As(err, &valErr),
		errors.Is(err, ErrNoEncontrado), errors.Is(err, ErrCodigoDuplicado),
		errors.Is(err, ErrReferenciaProtegida), errors.Is(err, ErrAlmacenamiento):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNoEncontrado
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrCodigoDuplicado
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrReferenciaProtegida
	case errors.Is(err, repository.ErrStockInsuficiente):
		return &StockInsuficienteError{}
	}
	return fmt.Errorf("%w: %v", ErrAlmacenamiento, err)
}

// esDuplicado also catches drivers that were not opened with TranslateError.
func esDuplicado(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		(err != nil && strings.Contains(err.Error(), "SQLSTATE 23505"))
}
