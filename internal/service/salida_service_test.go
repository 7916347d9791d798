package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"inventario/internal/dto"
	"inventario/internal/model"
	"inventario/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sembrarNotebook(e *entorno, stock int) model.Producto {
	return e.store.sembrarProducto(model.Producto{
		Codigo:      "NB-01",
		Nombre:      "Notebook 14",
		PrecioCosto: decimal.NewFromInt(100),
		Precio:      decimal.NewFromInt(130),
		Stock:       stock,
		Categoria:   model.CategoriaLaptops,
		Activo:      true,
	})
}

func salida(id uuid.UUID, cantidad int) dto.RegistrarSalidaRequest {
	return dto.RegistrarSalidaRequest{ProductoID: id.String(), Cantidad: cantidad, Motivo: "VENTA"}
}

func TestRegistrarSalida_DescuentaStockYRegistraHistorial(t *testing.T) {
	e := nuevoEntorno()
	p := sembrarNotebook(e, 10)
	actor := uuid.New()

	req := salida(p.ID, 3)
	req.Descripcion = "Factura 0001"
	resp, err := e.salidas.RegistrarSalida(context.Background(), &actor, req)
	require.NoError(t, err)

	require.NotNil(t, resp.StockRestante)
	assert.Equal(t, 7, *resp.StockRestante)
	assert.Equal(t, "Venta", resp.MotivoEtiqueta)
	assert.Equal(t, "NB-01", resp.ProductoCodigo)

	guardado, _ := e.store.producto(p.ID)
	assert.Equal(t, 7, guardado.Stock)
	assert.Equal(t, 1, e.store.cantidadSalidas())

	movs := e.store.movimientosDe(model.TipoSalida)
	require.Len(t, movs, 1)
	assert.Equal(t, "Salida de 3 unidades. Motivo: Venta. Factura 0001", movs[0].Detalles)
	assert.Equal(t, "Notebook 14", movs[0].NombreProducto)
	require.NotNil(t, movs[0].ProductoID)
	assert.Equal(t, p.ID, *movs[0].ProductoID)
	assert.Equal(t, &actor, movs[0].UsuarioID)

	assert.Equal(t, []string{"NB-01"}, e.cache.invalidados)
	assert.Len(t, e.cola.comprobantes, 1)
	assert.Empty(t, e.cola.alertas)
}

func TestRegistrarSalida_StockInsuficiente(t *testing.T) {
	e := nuevoEntorno()
	p := sembrarNotebook(e, 2)

	_, err := e.salidas.RegistrarSalida(context.Background(), nil, salida(p.ID, 5))

	var stockErr *service.StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Disponible)
	assert.Equal(t, "No hay suficiente stock. Stock disponible: 2", err.Error())

	guardado, _ := e.store.producto(p.ID)
	assert.Equal(t, 2, guardado.Stock)
	assert.Zero(t, e.store.cantidadSalidas())
	assert.Empty(t, e.store.movimientosDe(model.TipoSalida))
}

func TestRegistrarSalida_TodoElStock(t *testing.T) {
	e := nuevoEntorno()
	p := sembrarNotebook(e, 4)

	resp, err := e.salidas.RegistrarSalida(context.Background(), nil, salida(p.ID, 4))
	require.NoError(t, err)
	assert.Equal(t, 0, *resp.StockRestante)
	require.Len(t, e.cola.alertas, 1)
	assert.Equal(t, 0, e.cola.alertas[0].Stock)
}

func TestRegistrarSalida_ProductoInexistente(t *testing.T) {
	e := nuevoEntorno()
	_, err := e.salidas.RegistrarSalida(context.Background(), nil, salida(uuid.New(), 1))
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}

func TestRegistrarSalida_Validaciones(t *testing.T) {
	e := nuevoEntorno()
	p := sembrarNotebook(e, 10)

	casos := map[string]dto.RegistrarSalidaRequest{
		"cantidad":    {ProductoID: p.ID.String(), Cantidad: 0, Motivo: "VENTA"},
		"motivo":      {ProductoID: p.ID.String(), Cantidad: 1, Motivo: "ROBO"},
		"producto_id": {ProductoID: "no-uuid", Cantidad: 1, Motivo: "VENTA"},
	}
	for campo, req := range casos {
		_, err := e.salidas.RegistrarSalida(context.Background(), nil, req)
		var valErr *service.ValidacionError
		require.ErrorAs(t, err, &valErr, campo)
		assert.Equal(t, campo, valErr.Campo)
	}
	guardado, _ := e.store.producto(p.ID)
	assert.Equal(t, 10, guardado.Stock)
}

func TestRegistrarSalida_FalloAlPersistirRevierteTodo(t *testing.T) {
	e := nuevoEntorno()
	p := sembrarNotebook(e, 10)
	e.store.fallarSalida = errDisco

	_, err := e.salidas.RegistrarSalida(context.Background(), nil, salida(p.ID, 3))
	assert.ErrorIs(t, err, service.ErrAlmacenamiento)

	guardado, _ := e.store.producto(p.ID)
	assert.Equal(t, 10, guardado.Stock)
	assert.Zero(t, e.store.cantidadSalidas())
	assert.Empty(t, e.store.movimientosDe(model.TipoSalida))
	assert.Empty(t, e.cola.comprobantes)
}

func TestRegistrarSalida_Concurrentes(t *testing.T) {
	e := nuevoEntorno()
	p := sembrarNotebook(e, 10)

	const intentos = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		exitos   int
		rechazos int
		otros    []error
	)
	for i := 0; i < intentos; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.salidas.RegistrarSalida(context.Background(), nil, salida(p.ID, 1))
			mu.Lock()
			defer mu.Unlock()
			var stockErr *service.StockInsuficienteError
			switch {
			case err == nil:
				exitos++
			case errors.As(err, &stockErr):
				rechazos++
			default:
				otros = append(otros, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, otros)
	assert.Equal(t, 10, exitos)
	assert.Equal(t, 10, rechazos)
	guardado, _ := e.store.producto(p.ID)
	assert.Equal(t, 0, guardado.Stock)
	assert.Equal(t, 10, e.store.cantidadSalidas())
	assert.Len(t, e.store.movimientosDe(model.TipoSalida), 10)
}

func TestComprobante(t *testing.T) {
	e := nuevoEntorno()
	p := sembrarNotebook(e, 10)
	req := salida(p.ID, 2)
	req.Motivo = "garantia"

	resp, err := e.salidas.RegistrarSalida(context.Background(), nil, req)
	require.NoError(t, err)

	c, err := e.salidas.Comprobante(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, resp.ID, c.SalidaID)
	assert.Equal(t, "Notebook 14", c.ProductoNombre)
	assert.Equal(t, "NB-01", c.ProductoCodigo)
	assert.Equal(t, 2, c.Cantidad)
	assert.Equal(t, "Garantía", c.Motivo)
	assert.Equal(t, "Sistema", c.Usuario)
	assert.Regexp(t, `^\d{2}/\d{2}/\d{4} \d{2}:\d{2}$`, c.Fecha)

	_, err = e.salidas.Comprobante(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}

func TestListarSalidas_FiltraPorProducto(t *testing.T) {
	e := nuevoEntorno()
	a := sembrarNotebook(e, 10)
	b := e.store.sembrarProducto(model.Producto{Codigo: "UPS-1", Nombre: "UPS 600VA", Stock: 5, Activo: true})

	for _, id := range []uuid.UUID{a.ID, b.ID, a.ID} {
		_, err := e.salidas.RegistrarSalida(context.Background(), nil, salida(id, 1))
		require.NoError(t, err)
	}

	todas, err := e.salidas.Listar(context.Background(), dto.SalidaFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), todas.Total)
	assert.Equal(t, 1, todas.Page)
	assert.Equal(t, 10, todas.Limit)

	deA, err := e.salidas.Listar(context.Background(), dto.SalidaFilter{ProductoID: a.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deA.Total)

	_, err = e.salidas.Listar(context.Background(), dto.SalidaFilter{ProductoID: "x"})
	var valErr *service.ValidacionError
	assert.ErrorAs(t, err, &valErr)
}
