package handlers

import (
	"errors"
	"net/http"

	"travelstory/internal/service"

	"github.com/gin-gonic/gin"
)

const errGenericStorage = "internal server error"

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// respondError maps a service error to an HTTP status. Client-caused errors
// echo their precise cause; anything else is treated as a storage failure,
// logged in full and answered with a generic message.
func (h *Handler) respondError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrEmptyQuery),
		errors.Is(err, service.ErrInvalidRange),
		errors.Is(err, service.ErrDuplicateUser),
		errors.Is(err, service.ErrNoFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrStoryNotFound),
		errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		if h.log != nil {
			fields := append([]interface{}{"err", err}, kv...)
			h.log.Errorw(logKey, fields...)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": errGenericStorage})
	}
}
