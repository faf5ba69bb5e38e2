package main

import (
	"log/slog"
	"os"
	"time"

	"meudinheiro/pkg/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	jwtSecret []byte        // fixed at startup from JWT_SECRET
	tokenTTL  time.Duration // access token lifetime
)

func main() {
	logging.Setup()

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("bad configuration", "error", err)
		os.Exit(1)
	}
	jwtSecret = []byte(cfg.JWTSecret)
	tokenTTL = cfg.TokenTTL

	if err := initDB(cfg); err != nil {
		slog.Error("database init failed", "error", err)
		os.Exit(1)
	}

	// Support a lightweight migrate command: `./meudinheiro migrate`
	// runs migrations and exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		slog.Info("migration completed")
		return
	}

	r := newRouter(cfg)
	slog.Info("listening", "addr", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), corsMiddleware(cfg.CORSOrigins))
	setupRoutes(r)
	return r
}

// requestLogger logs every request with a generated request id.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := uuid.NewString()
		c.Writer.Header().Set("X-Request-ID", reqID)

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"request_id", reqID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if status >= 500 {
			slog.Error("request failed", attrs...)
		} else {
			slog.Info("request completed", attrs...)
		}
	}
}

// corsMiddleware allows browser access from the configured origins.
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
