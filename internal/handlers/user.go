package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Get the authenticated user's profile
// @Tags         user
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "user"
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/user [get]
// @Security     BearerAuth
func (h *Handler) getUser(c *gin.Context) {
	user, err := h.services.GetUser(c.Request.Context(), userID(c))
	if err != nil {
		h.respondError(c, err, "user_fetch_failed", "user_id", userID(c))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
