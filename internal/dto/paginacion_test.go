package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagina(t *testing.T) {
	cases := []struct {
		name        string
		page, limit int
		total       int64
		want        int
	}{
		{"primera", 1, 20, 100, 1},
		{"menor a uno", 0, 20, 100, 1},
		{"negativa", -3, 20, 100, 1},
		{"más allá del final", 9, 20, 45, 3},
		{"última exacta", 5, 20, 100, 5},
		{"vacío", 4, 20, 0, 1},
		{"sin límite", 2, 0, 10, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Pagina(tc.page, tc.limit, tc.total))
		})
	}
}

func TestTotalPaginas(t *testing.T) {
	assert.Equal(t, 1, TotalPaginas(20, 0))
	assert.Equal(t, 1, TotalPaginas(20, 20))
	assert.Equal(t, 2, TotalPaginas(20, 21))
	assert.Equal(t, 1, TotalPaginas(0, 50))
}
