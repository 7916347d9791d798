package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueComprobantes = "jobs:comprobantes"
	QueueAlertas      = "jobs:alertas"

	JobComprobante = "comprobante"
	JobAlertaStock = "alerta_stock"

	// MaxAttempts is how many times a job runs before it goes to the DLQ.
	MaxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// ComprobantePayload asks the pool to archive the receipt PDF of a withdrawal.
type ComprobantePayload struct {
	SalidaID string `json:"salida_id"`
}

// AlertaStockPayload is enqueued when a withdrawal leaves a product below the
// low-stock threshold.
type AlertaStockPayload struct {
	ProductoID string `json:"producto_id"`
	Codigo     string `json:"codigo"`
	Nombre     string `json:"nombre"`
	Stock      int    `json:"stock"`
}

// Handler processes one job payload. A returned error schedules a retry.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueComprobante pushes a receipt-archive job.
func (d *Dispatcher) EnqueueComprobante(ctx context.Context, salidaID uuid.UUID) error {
	return d.enqueue(ctx, QueueComprobantes, JobComprobante, ComprobantePayload{SalidaID: salidaID.String()})
}

// EnqueueAlertaStock pushes a low-stock notification job.
func (d *Dispatcher) EnqueueAlertaStock(ctx context.Context, alerta AlertaStockPayload) error {
	return d.enqueue(ctx, QueueAlertas, JobAlertaStock, alerta)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes both queues and routes each job to its Handler by type.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
}

func NewPool(rdb *redis.Client) *Pool {
	return &Pool{rdb: rdb, handlers: make(map[string]Handler)}
}

// Handle registers h for jobType. Not safe to call after Start.
func (p *Pool) Handle(jobType string, h Handler) {
	p.handlers[jobType] = h
}

// Start launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP and uses no CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, id int) {
	queues := []string{QueueComprobantes, QueueAlertas}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			p.process(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	h, ok := p.handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job, "no handler registered")
		return
	}

	job.Attempts++
	err := runHandler(ctx, h, job.Payload)
	if err == nil {
		log.Debug().Str("type", job.Type).Int("attempts", job.Attempts).Msg("job done")
		return
	}

	if job.Attempts >= MaxAttempts {
		SendToDLQ(ctx, p.rdb, queue, job, err.Error())
		return
	}
	log.Warn().Err(err).Str("type", job.Type).Int("attempts", job.Attempts).Msg("job failed, requeueing")
	if pushErr := push(ctx, p.rdb, queue, job); pushErr != nil {
		log.Error().Err(pushErr).Str("queue", queue).Msg("failed to requeue job")
	}
}

// runHandler turns a handler panic into an ordinary failure so the job is retried.
func runHandler(ctx context.Context, h Handler, payload json.RawMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(ctx, payload)
}
