package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows any origin outside production. In production only the
// comma-separated allowedOrigins are accepted; none configured means none allowed.
func CORS(env, allowedOrigins string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if env == "production" {
		cfg.AllowOrigins = splitAndTrim(allowedOrigins)
		if len(cfg.AllowOrigins) == 0 {
			cfg.AllowOriginFunc = func(string) bool { return false }
		}
	} else {
		cfg.AllowAllOrigins = true
	}
	cfg.AddAllowMethods("PATCH")
	cfg.AddAllowHeaders("Authorization", "X-Request-ID")
	cfg.AddExposeHeaders("X-Request-ID", "Content-Disposition")
	return cors.New(cfg)
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
