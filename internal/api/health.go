package api

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

type AliveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CheckInfo is the liveness report.
type CheckInfo struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Goroutines  int    `json:"goroutines"`
	Subscribers int    `json:"subscribers"`
	PhotoInput  bool   `json:"photo_input"`
}

func (h *Handler) Probe(c *gin.Context) {
	c.JSON(http.StatusOK, AliveResponse{Success: true, Message: "ok"})
}

func (h *Handler) CheckAlive(c *gin.Context) {
	info := CheckInfo{
		Status:     "ok",
		Database:   "ok",
		Goroutines: runtime.NumGoroutine(),
		PhotoInput: h.svcs.Photo != nil,
	}
	if h.hub != nil {
		info.Subscribers = h.hub.Subscribers()
	}

	status := http.StatusOK
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			info.Status = "degraded"
			info.Database = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	c.JSON(status, info)
}
