package service_test

import (
	"testing"

	"inventario/internal/model"
	"inventario/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsearFila_Completa(t *testing.T) {
	fila, err := service.ParsearFila(2, []string{" A-1 ", "Monitor 24", "IPS", "100,50", "5.0", "Periféricos", "Acme"})
	require.NoError(t, err)

	assert.Equal(t, 2, fila.Numero)
	assert.Equal(t, "A-1", fila.Codigo)
	assert.Equal(t, "Monitor 24", fila.Nombre)
	assert.Equal(t, "IPS", fila.Descripcion)
	require.NotNil(t, fila.Precio)
	assert.Equal(t, "100.50", fila.Precio.StringFixed(2))
	assert.Equal(t, 5, fila.StockDelta)
	assert.Equal(t, model.CategoriaPerifericos, fila.Categoria)
	assert.Equal(t, "Acme", fila.Proveedor)
}

func TestParsearFila_CeldasFaltantesSonVacias(t *testing.T) {
	fila, err := service.ParsearFila(3, []string{"B-1", "Mouse"})
	require.NoError(t, err)
	assert.Nil(t, fila.Precio)
	assert.Equal(t, 0, fila.StockDelta)
	assert.Equal(t, model.CategoriaComputadoras, fila.Categoria)
	assert.Empty(t, fila.Proveedor)
}

func TestParsearFila_NumerosMalformadosSonCero(t *testing.T) {
	fila, err := service.ParsearFila(4, []string{"C-1", "Teclado", "", "abc", "muchos"})
	require.NoError(t, err)
	require.NotNil(t, fila.Precio)
	assert.True(t, fila.Precio.IsZero())
	assert.Equal(t, 0, fila.StockDelta)
}

func TestParsearFila_StockFueraDeRangoEsCero(t *testing.T) {
	casos := []string{
		"18446744073709551621",
		"9223372036854775808",
		"1e30",
		"-1e30",
		"2147483648",
	}
	for _, raw := range casos {
		t.Run(raw, func(t *testing.T) {
			fila, err := service.ParsearFila(2, []string{"C1", "N", "", "10", raw, "UPS"})
			require.NoError(t, err)
			assert.Equal(t, 0, fila.StockDelta)
		})
	}

	fila, err := service.ParsearFila(2, []string{"C1", "N", "", "", "2147483647"})
	require.NoError(t, err)
	assert.Equal(t, service.StockMaximo, fila.StockDelta)

	fila, err = service.ParsearFila(2, []string{"C1", "N", "", "", "1e2"})
	require.NoError(t, err)
	assert.Equal(t, 100, fila.StockDelta)
}

func TestParsearFila_StockNegativoSeConserva(t *testing.T) {
	fila, err := service.ParsearFila(5, []string{"C-2", "Cable", "", "", "-3"})
	require.NoError(t, err)
	assert.Equal(t, -3, fila.StockDelta)
}

func TestParsearFila_Rechazos(t *testing.T) {
	casos := []struct {
		nombre string
		celdas []string
		campo  string
	}{
		{"sin código", []string{"", "Mouse"}, "codigo"},
		{"sin nombre", []string{"X-1", "  "}, "nombre"},
		{"precio negativo", []string{"X-2", "Mouse", "", "-1"}, "precio"},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, err := service.ParsearFila(7, c.celdas)
			var valErr *service.ValidacionError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, 7, valErr.Fila)
			assert.Equal(t, c.campo, valErr.Campo)
		})
	}
}

func TestParsearFila_NormalizaCategoria(t *testing.T) {
	casos := map[string]model.Categoria{
		"laptops":     model.CategoriaLaptops,
		"Laptop":      model.CategoriaLaptops,
		"ups":         model.CategoriaUPS,
		"Periférico":  model.CategoriaPerifericos,
		"PERIPHERALS": model.CategoriaPerifericos,
		"Computer":    model.CategoriaComputadoras,
		"Cómputo":     model.CategoriaComputadoras,
		"":            model.CategoriaComputadoras,
	}
	for texto, esperada := range casos {
		fila, err := service.ParsearFila(2, []string{"Z", "Z", "", "", "", texto})
		require.NoError(t, err)
		assert.Equal(t, esperada, fila.Categoria, texto)
	}
}
