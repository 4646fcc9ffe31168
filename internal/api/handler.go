package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vladimiradmaev/calorie-tracker/internal/changes"
	apperrors "github.com/vladimiradmaev/calorie-tracker/internal/errors"
	"github.com/vladimiradmaev/calorie-tracker/internal/interfaces"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
)

// Handler holds the services behind every route.
type Handler struct {
	svcs       interfaces.Services
	hub        *changes.Hub
	ping       Pinger
	errHandler *apperrors.Handler
}

func NewHandler(svcs interfaces.Services, hub *changes.Hub, ping Pinger) *Handler {
	return &Handler{
		svcs:       svcs,
		hub:        hub,
		ping:       ping,
		errHandler: apperrors.NewHandler(logger.Component("http")),
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *Handler) fail(c *gin.Context, err error) {
	h.errHandler.Handle(c.Request.Context(), err)
	resp := errorResponse{Error: apperrors.PublicMessage(err)}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp.Code = appErr.Code
	}
	c.AbortWithStatusJSON(apperrors.HTTPStatus(err), resp)
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	h.fail(c, apperrors.NewValidationError("invalid request body: "+err.Error()))
}

func limitParam(c *gin.Context) int {
	n, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
