package infra

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const claveImportacion = "lock:importacion"

var (
	// ErrCerrojoOcupado means another instance is already running an import.
	ErrCerrojoOcupado = errors.New("cerrojo ocupado")
	// ErrCerrojoPerdido is the cancel cause of the import context when the lock
	// could not be refreshed and may have expired.
	ErrCerrojoPerdido = errors.New("cerrojo de importación perdido")
)

// CerrojoImportacion serializes spreadsheet imports across instances.
// The lock is refreshed every ttl/2 while held, so long imports keep it.
type CerrojoImportacion struct {
	locker *redislock.Client
	ttl    time.Duration
}

func NewCerrojoImportacion(rdb *redis.Client, ttl time.Duration) *CerrojoImportacion {
	return &CerrojoImportacion{locker: redislock.New(rdb), ttl: ttl}
}

// Adquirir does not wait: it fails with ErrCerrojoOcupado when the lock is held.
// Work done under the lock must use the returned context, which is cancelled
// with ErrCerrojoPerdido if a refresh fails. The returned func releases the
// lock and must be called exactly once.
func (c *CerrojoImportacion) Adquirir(ctx context.Context) (context.Context, func(), error) {
	lock, err := c.locker.Obtain(ctx, claveImportacion, c.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, nil, ErrCerrojoOcupado
	}
	if err != nil {
		return nil, nil, err
	}

	lockCtx, cancel := context.WithCancelCause(ctx)
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(c.ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := lock.Refresh(context.Background(), c.ttl, nil); err != nil {
					log.Warn().Err(err).Msg("import lock: refresh failed")
					cancel(ErrCerrojoPerdido)
					return
				}
			}
		}
	}()

	return lockCtx, func() {
		close(done)
		cancel(nil)
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			log.Warn().Err(err).Msg("import lock: release failed")
		}
	}, nil
}
