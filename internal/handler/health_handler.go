package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/database"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/redis"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/response"
)

// HealthHandler reports process and dependency health
type HealthHandler struct {
	db    *database.PostgresDB
	redis *redis.Client // nil when Redis is disabled
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *database.PostgresDB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// Live reports that the process is up
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}

// Ready reports whether the backing stores are reachable
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := gin.H{}
	healthy := true

	if err := h.db.HealthCheck(c.Request.Context()); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.HealthCheck(c.Request.Context()); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, response.Response{
			Success: false,
			Data:    checks,
		})
		return
	}

	response.Success(c, checks)
}
