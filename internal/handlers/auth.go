package handlers

import (
	"errors"
	"net/http"

	"travelstory/internal/service"

	"github.com/gin-gonic/gin"
)

type signUpRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Registration payload"
// @Success      201   {object}  map[string]interface{}  "user, accessToken"
// @Failure      400   {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input signUpRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	user, token, err := h.services.SignUp(input.FullName, input.Email, input.Password)
	if err != nil {
		h.respondError(c, err, "auth_sign_up_failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "accessToken": token})
}

// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  map[string]interface{}  "user, accessToken"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input signInRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	user, token, err := h.services.SignIn(input.Email, input.Password)
	if err != nil {
		// An unregistered email is a client mistake on sign-in, not a
		// missing resource.
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.respondError(c, err, "auth_sign_in_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "accessToken": token})
}
