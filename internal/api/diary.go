package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vladimiradmaev/calorie-tracker/internal/calendar"
	apperrors "github.com/vladimiradmaev/calorie-tracker/internal/errors"
	"github.com/vladimiradmaev/calorie-tracker/internal/services"
)

// dayParam accepts YYYY-MM-DD, "today" or "yesterday".
func (h *Handler) dayParam(c *gin.Context) (calendar.Day, error) {
	raw := c.Param("day")
	today := h.svcs.Diary.Today()
	switch raw {
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDays(-1), nil
	}
	d, err := calendar.ParseDay(raw)
	if err != nil {
		return "", apperrors.NewValidationError(err.Error())
	}
	return d, nil
}

func (h *Handler) GetDay(c *gin.Context) {
	day, err := h.dayParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	summary, err := h.svcs.Diary.Day(c.Request.Context(), day)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) CreateEntry(c *gin.Context) {
	var in services.LogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, err)
		return
	}
	entry, err := h.svcs.Diary.Log(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) GetEntry(c *gin.Context) {
	entry, err := h.svcs.Diary.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) UpdateEntry(c *gin.Context) {
	var upd services.EntryUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		h.badRequest(c, err)
		return
	}
	entry, err := h.svcs.Diary.UpdateEntry(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) DeleteEntry(c *gin.Context) {
	if err := h.svcs.Diary.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	noContent(c)
}

func (h *Handler) GetCalendar(c *gin.Context) {
	raw := c.Param("month")
	month := calendar.Month(raw)
	if raw == "current" {
		month = calendar.MonthOf(h.svcs.Diary.Today().Time())
	}
	days, err := h.svcs.Diary.Calendar(c.Request.Context(), month)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

func (h *Handler) GetStreak(c *gin.Context) {
	summary, err := h.svcs.Streaks.Summary(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
