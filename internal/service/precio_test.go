package service_test

import (
	"testing"

	"inventario/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAplicarMarkup(t *testing.T) {
	casos := []struct {
		costo, esperado string
	}{
		{"10", "13.00"},
		{"0.05", "0.07"},
		{"1.25", "1.63"},
		{"0.005", "0.01"},
		{"0", "0.00"},
		{"999.99", "1299.99"},
	}
	for _, c := range casos {
		t.Run(c.costo, func(t *testing.T) {
			got := service.AplicarMarkup(decimal.RequireFromString(c.costo))
			assert.Equal(t, c.esperado, got.StringFixed(2))
		})
	}
}

func TestAplicarMarkup_NoSeAcumula(t *testing.T) {
	costo := decimal.RequireFromString("10")
	primera := service.AplicarMarkup(costo)
	segunda := service.AplicarMarkup(costo)
	assert.True(t, primera.Equal(segunda))
}
