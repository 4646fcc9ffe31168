package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/vladimiradmaev/calorie-tracker/internal/errors"
)

const maxPhotoBytes = 10 << 20

// EstimatePhoto accepts a multipart "image" field and returns the custom
// food created from the estimate.
func (h *Handler) EstimatePhoto(c *gin.Context) {
	if h.svcs.Photo == nil {
		c.AbortWithStatusJSON(http.StatusNotImplemented, errorResponse{Error: "photo estimates are not configured"})
		return
	}
	header, err := c.FormFile("image")
	if err != nil {
		h.fail(c, apperrors.NewValidationError("image file is required"))
		return
	}
	if header.Size > maxPhotoBytes {
		h.fail(c, apperrors.NewValidationError("image is larger than 10 MB"))
		return
	}
	f, err := header.Open()
	if err != nil {
		h.fail(c, apperrors.NewInternalError(err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxPhotoBytes))
	if err != nil {
		h.fail(c, apperrors.NewInternalError(err))
		return
	}
	mime := header.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(data)
	}

	est, err := h.svcs.Photo.Estimate(c.Request.Context(), data, mime)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, est)
}
