package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/repository"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	store *repository.Store
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store *repository.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// HealthResponse represents the response for health check endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	Questions int    `json:"questions"`
	Stale     bool   `json:"stale"`
	FetchedAt string `json:"fetched_at,omitempty"`
}

// Health handles GET /health - comprehensive health check.
// A stale snapshot still reports healthy; the flag tells operators the sheet
// has been unreachable since the last restart.
func (h *HealthHandler) Health(c *gin.Context) {
	snap := h.store.Load()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status: "unhealthy",
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   "1.0.0",
		Questions: snap.QuestionCount(),
		Stale:     snap.Stale(),
		FetchedAt: snap.FetchedAt().Format(TimeFormat),
	})
}

// Ready handles GET /ready - readiness probe for Kubernetes.
// The service is ready once the first refresh installed a snapshot, cached
// or live.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.store.Load() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Live handles GET /live - liveness probe for Kubernetes.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
