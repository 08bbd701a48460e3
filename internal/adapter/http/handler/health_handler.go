package handler

import (
	"net/http"
	"time"

	"todolist/internal/adapter/http/helper"
	"todolist/internal/core/model/response"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	now func() time.Time
}

func NewHealthHandler(now func() time.Time) *HealthHandler {
	if now == nil {
		now = time.Now
	}

	return &HealthHandler{now: now}
}

// Health never touches storage.
func (h *HealthHandler) Health(c *gin.Context) {
	helper.SendSuccess(c, http.StatusOK, response.HealthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}
