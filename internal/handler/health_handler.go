package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const healthCheckTimeout = 3 * time.Second

// HealthHandler 依存先（データベースなど）の疎通を確認する
type HealthHandler struct {
	service string
	checks  map[string]func(ctx context.Context) error
}

func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{
		service: service,
		checks:  make(map[string]func(ctx context.Context) error),
	}
}

// Register 名前付きのヘルスチェックを追加する
func (h *HealthHandler) Register(name string, check func(ctx context.Context) error) {
	h.checks[name] = check
}

// Health GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := gin.H{}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			log.Error().Err(err).Str("check", name).Msg("❌ ヘルスチェック失敗")
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	body := gin.H{"status": "healthy", "service": h.service, "checks": results}
	if status != http.StatusOK {
		body["status"] = "unhealthy"
	}
	c.JSON(status, body)
}
