package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"inventario/internal/dto"
	"inventario/internal/infra"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FuenteComprobantes loads the data printed on a withdrawal receipt.
type FuenteComprobantes interface {
	Comprobante(ctx context.Context, id uuid.UUID) (*dto.ComprobanteSalida, error)
}

// ComprobanteWorker archives one receipt PDF per withdrawal under storagePath.
type ComprobanteWorker struct {
	fuente      FuenteComprobantes
	storagePath string
}

func NewComprobanteWorker(fuente FuenteComprobantes, storagePath string) *ComprobanteWorker {
	return &ComprobanteWorker{fuente: fuente, storagePath: storagePath}
}

func (w *ComprobanteWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ComprobantePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		// A malformed payload never succeeds; drop it instead of retrying.
		log.Error().Err(err).Msg("comprobante_worker: invalid payload")
		return nil
	}
	id, err := uuid.Parse(payload.SalidaID)
	if err != nil {
		log.Error().Str("salida_id", payload.SalidaID).Msg("comprobante_worker: invalid salida_id")
		return nil
	}

	datos, err := w.fuente.Comprobante(ctx, id)
	if err != nil {
		return fmt.Errorf("comprobante_worker: load salida %s: %w", id, err)
	}
	path, err := infra.GuardarComprobanteSalida(datos, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("salida_id", id.String()).Str("path", path).Msg("comprobante_worker: receipt archived")
	return nil
}
