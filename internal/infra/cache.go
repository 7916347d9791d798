package infra

import (
	"context"
	"encoding/json"
	"time"

	"inventario/internal/dto"

	"github.com/redis/go-redis/v9"
)

const precioCacheTTL = 4 * time.Hour

// PrecioCache stores public price lookups in Redis under precio:{codigo}.
// Read and write failures are treated as cache misses.
type PrecioCache struct {
	rdb *redis.Client
}

func NewPrecioCache(rdb *redis.Client) *PrecioCache {
	return &PrecioCache{rdb: rdb}
}

func clavePrecio(codigo string) string { return "precio:" + codigo }

func (c *PrecioCache) Obtener(ctx context.Context, codigo string) (*dto.ConsultaPreciosResponse, bool) {
	cached, err := c.rdb.Get(ctx, clavePrecio(codigo)).Bytes()
	if err != nil {
		return nil, false
	}
	var resp dto.ConsultaPreciosResponse
	if err := json.Unmarshal(cached, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (c *PrecioCache) Guardar(ctx context.Context, resp *dto.ConsultaPreciosResponse) {
	if b, err := json.Marshal(resp); err == nil {
		_ = c.rdb.Set(ctx, clavePrecio(resp.Codigo), b, precioCacheTTL).Err()
	}
}

func (c *PrecioCache) Invalidar(ctx context.Context, codigo string) error {
	return c.rdb.Del(ctx, clavePrecio(codigo)).Err()
}
