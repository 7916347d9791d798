package handler

import (
	"context"
	"net/http"
	"time"

	"inventario/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health checks DB and Redis connectivity and reports dead-letter queue depth.
// Never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		dlq := gin.H{}
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		} else {
			for _, q := range []string{worker.QueueComprobantes, worker.QueueAlertas} {
				if n, err := worker.DLQLength(ctx, rdb, q); err == nil {
					dlq[q] = n
				}
			}
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
			"dlq":   dlq,
		})
	}
}
