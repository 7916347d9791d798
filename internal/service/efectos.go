package service

import (
	"context"

	"inventario/internal/dto"
	"inventario/internal/worker"

	"github.com/google/uuid"
)

// CachePrecios backs the public price lookup. Implemented by infra.PrecioCache.
type CachePrecios interface {
	Obtener(ctx context.Context, codigo string) (*dto.ConsultaPreciosResponse, bool)
	Guardar(ctx context.Context, resp *dto.ConsultaPreciosResponse)
	Invalidar(ctx context.Context, codigo string) error
}

// ColaTrabajos receives the jobs enqueued after a withdrawal commits.
// Implemented by *worker.Dispatcher.
type ColaTrabajos interface {
	EnqueueComprobante(ctx context.Context, salidaID uuid.UUID) error
	EnqueueAlertaStock(ctx context.Context, alerta worker.AlertaStockPayload) error
}
