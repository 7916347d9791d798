package middleware

import (
	"net/http"
	"sync"
	"time"

	"inventario/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ventana counts requests from one IP inside a fixed window.
type ventana struct {
	count int
	fin   time.Time
}

// limitador is a per-IP fixed-window counter. Expired windows are purged in
// the background so IPs that never return do not accumulate.
type limitador struct {
	mu       sync.Mutex
	limite   int
	duracion time.Duration
	ips      map[string]*ventana
}

const purgeInterval = 5 * time.Minute

func nuevoLimitador(limite int, duracion time.Duration) *limitador {
	l := &limitador{limite: limite, duracion: duracion, ips: make(map[string]*ventana)}
	go l.purgar()
	return l
}

// permitir registers one request and reports whether it is within the limit,
// plus the end of the current window.
func (l *limitador) permitir(ip string, now time.Time) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.ips[ip]
	if !ok || now.After(v.fin) {
		v = &ventana{fin: now.Add(l.duracion)}
		l.ips[ip] = v
	}
	v.count++
	return v.count <= l.limite, v.fin
}

func (l *limitador) purgar() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for now := range ticker.C {
		l.mu.Lock()
		purged := 0
		for ip, v := range l.ips {
			if now.After(v.fin) {
				delete(l.ips, ip)
				purged++
			}
		}
		remaining := len(l.ips)
		l.mu.Unlock()
		if purged > 0 {
			log.Debug().Int("purged", purged).Int("remaining", remaining).Msg("rate limiter purged")
		}
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	l := nuevoLimitador(20, time.Minute)
	return func(c *gin.Context) {
		if ok, _ := l.permitir(c.ClientIP(), time.Now()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter is the general-purpose per-IP limiter.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := nuevoLimitador(limit, window)
	return func(c *gin.Context) {
		ok, fin := l.permitir(c.ClientIP(), time.Now())
		if !ok {
			c.Header("Retry-After", fin.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}
