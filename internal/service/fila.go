package service

import (
	"math"
	"strings"
	"unicode"

	"inventario/internal/model"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Spreadsheet column order.
const (
	colCodigo = iota
	colNombre
	colDescripcion
	colPrecio
	colStock
	colCategoria
	colProveedor
)

// StockMaximo is the largest stock the products table can hold (Postgres integer).
const StockMaximo = math.MaxInt32

var (
	enteroMinimo = decimal.NewFromInt(math.MinInt32)
	enteroMaximo = decimal.NewFromInt(math.MaxInt32)
)

// FilaCruda is one typed spreadsheet row. Precio is nil when the cell was
// empty; every other numeric field has already been coerced.
type FilaCruda struct {
	Numero      int
	Codigo      string
	Nombre      string
	Descripcion string
	Precio      *decimal.Decimal
	StockDelta  int
	Categoria   model.Categoria
	Proveedor   string
}

// ParsearFila turns positional cells into a FilaCruda. Missing trailing cells
// read as empty. Malformed numbers become 0; only a missing code or name, or a
// negative price, rejects the row.
func ParsearFila(numero int, celdas []string) (FilaCruda, error) {
	celda := func(i int) string {
		if i < len(celdas) {
			return strings.TrimSpace(celdas[i])
		}
		return ""
	}

	fila := FilaCruda{
		Numero:      numero,
		Codigo:      celda(colCodigo),
		Nombre:      celda(colNombre),
		Descripcion: celda(colDescripcion),
		StockDelta:  parsearEntero(celda(colStock)),
		Categoria:   normalizarCategoria(celda(colCategoria)),
		Proveedor:   celda(colProveedor),
	}

	if fila.Codigo == "" {
		return fila, &ValidacionError{Fila: numero, Campo: "codigo", Motivo: "es obligatorio"}
	}
	if fila.Nombre == "" {
		return fila, &ValidacionError{Fila: numero, Campo: "nombre", Motivo: "es obligatorio"}
	}

	if raw := celda(colPrecio); raw != "" {
		precio, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
		if err != nil {
			precio = decimal.Zero
		}
		if precio.IsNegative() {
			return fila, &ValidacionError{Fila: numero, Campo: "precio", Motivo: "no puede ser negativo"}
		}
		fila.Precio = &precio
	}
	return fila, nil
}

// parsearEntero accepts "5" as well as the "5.0" that spreadsheets tend to
// produce. Anything else, including values outside the integer column range,
// is 0.
func parsearEntero(raw string) int {
	if raw == "" {
		return 0
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return 0
	}
	d = d.Truncate(0)
	if d.LessThan(enteroMinimo) || d.GreaterThan(enteroMaximo) {
		return 0
	}
	return int(d.IntPart())
}

var aliasCategoria = map[string]model.Categoria{
	"COMPUTADORA": model.CategoriaComputadoras,
	"COMPUTERS":   model.CategoriaComputadoras,
	"COMPUTER":    model.CategoriaComputadoras,
	"LAPTOP":      model.CategoriaLaptops,
	"PERIFERICO":  model.CategoriaPerifericos,
	"PERIPHERALS": model.CategoriaPerifericos,
	"PERIPHERAL":  model.CategoriaPerifericos,
}

// normalizarCategoria never fails: unknown text falls back to COMPUTADORAS.
func normalizarCategoria(texto string) model.Categoria {
	limpio := strings.ToUpper(strings.TrimSpace(quitarAcentos(texto)))
	if c := model.Categoria(limpio); c.Valida() {
		return c
	}
	if c, ok := aliasCategoria[limpio]; ok {
		return c
	}
	return model.CategoriaComputadoras
}

func quitarAcentos(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
