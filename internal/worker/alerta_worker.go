package worker

// alerta_worker.go
// Emails a low-stock notice for jobs from QueueAlertas.

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// NotificadorAlertas is implemented by *infra.Mailer.
type NotificadorAlertas interface {
	SendAlertaStock(to, codigo, nombre string, stock int) error
}

// AlertaStockWorker sends low-stock alerts to a fixed recipient. With no
// mailer or no recipient configured, alerts are only logged.
type AlertaStockWorker struct {
	mailer NotificadorAlertas
	to     string
}

func NewAlertaStockWorker(mailer NotificadorAlertas, to string) *AlertaStockWorker {
	return &AlertaStockWorker{mailer: mailer, to: to}
}

func (w *AlertaStockWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload AlertaStockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alerta_worker: invalid payload")
		return nil
	}

	log.Warn().
		Str("codigo", payload.Codigo).
		Str("nombre", payload.Nombre).
		Int("stock", payload.Stock).
		Msg("alerta_worker: low stock")

	if w.mailer == nil || w.to == "" {
		return nil
	}
	if err := w.mailer.SendAlertaStock(w.to, payload.Codigo, payload.Nombre, payload.Stock); err != nil {
		return err
	}
	log.Info().Str("to", w.to).Str("codigo", payload.Codigo).Msg("alerta_worker: alert sent")
	return nil
}
