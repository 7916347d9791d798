package infra_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"inventario/internal/dto"
	"inventario/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comprobante() *dto.ComprobanteSalida {
	return &dto.ComprobanteSalida{
		SalidaID:       "7f1c1a4e-3f7a-4d55-9c1e-8f4a2b6d9e10",
		ProductoNombre: "Notebook 14\" Ñandú",
		ProductoCodigo: "NB-01",
		Cantidad:       2,
		Motivo:         "Devolución al proveedor",
		Descripcion:    "Pantalla con píxeles muertos",
		Fecha:          "01/03/2025 10:00",
		Usuario:        "Ana",
	}
}

func TestRenderComprobanteSalida(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, infra.RenderComprobanteSalida(&buf, comprobante()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 500)
}

func TestGuardarComprobanteSalida(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "comprobantes")

	path, err := infra.GuardarComprobanteSalida(comprobante(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "salida_7f1c1a4e-3f7a-4d55-9c1e-8f4a2b6d9e10.pdf"), path)

	contenido, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(contenido, []byte("%PDF")))
}
