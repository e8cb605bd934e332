package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/repository"
)

func newHealthRouter(store *repository.Store) *gin.Engine {
	h := NewHealthHandler(store)
	router := gin.New()
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/live", h.Live)
	return router
}

func TestHealth_BeforeFirstSnapshot(t *testing.T) {
	router := newHealthRouter(repository.NewStore())

	w, body := doRequest(t, router, "/health")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unhealthy", body["status"])

	w, body = doRequest(t, router, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "not ready", body["status"])
}

func TestHealth_WithSnapshot(t *testing.T) {
	store := repository.NewStore()
	store.Swap(repository.BuildSnapshot(testQuestions(), 1, time.Now()))
	router := newHealthRouter(store)

	w, body := doRequest(t, router, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(2), body["questions"])
	assert.Equal(t, false, body["stale"])

	w, body = doRequest(t, router, "/ready")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", body["status"])
}

func TestLive_AlwaysOK(t *testing.T) {
	router := newHealthRouter(repository.NewStore())

	w, body := doRequest(t, router, "/live")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alive", body["status"])
}
