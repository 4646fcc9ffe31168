package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/vladimiradmaev/calorie-tracker/internal/errors"
	"github.com/vladimiradmaev/calorie-tracker/internal/nutrition"
	"github.com/vladimiradmaev/calorie-tracker/internal/settings"
)

// goalRequest carries a goal in the nutrient's display unit.
type goalRequest struct {
	Value *float64 `json:"value"`
}

func (h *Handler) GetSettings(c *gin.Context) {
	s, err := h.svcs.Settings.Load(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) PutSettings(c *gin.Context) {
	var s settings.Settings
	if err := c.ShouldBindJSON(&s); err != nil {
		h.badRequest(c, err)
		return
	}
	saved, err := h.svcs.Settings.Save(c.Request.Context(), s)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *Handler) PutGoal(c *gin.Context) {
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if req.Value == nil {
		h.fail(c, apperrors.NewValidationError("value is required"))
		return
	}
	saved, err := h.svcs.Settings.SetGoal(c.Request.Context(), nutrition.Nutrient(c.Param("nutrient")), *req.Value)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}
