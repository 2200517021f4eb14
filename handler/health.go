package handler

import (
	"net/http"
	"time"

	"github.com/Saifullah3711/cac-multi-docs-mvp/service"
	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness and whether uploads are possible.
type HealthHandler struct {
	workflow service.Workflow
	sessions *service.SessionStore
}

func NewHealthHandler(workflow service.Workflow, sessions *service.SessionStore) *HealthHandler {
	return &HealthHandler{workflow: workflow, sessions: sessions}
}

func (h *HealthHandler) Check(c *gin.Context) {
	storage := "ok"
	if err := h.workflow.StorageReady(); err != nil {
		storage = "unavailable"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"storage":   storage,
		"sessions":  h.sessions.Count(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
