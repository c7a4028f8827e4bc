package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradelink_backend/internal/appErrors"
	"tradelink_backend/internal/services"
	"tradelink_backend/internal/services/dto"
	"tradelink_backend/internal/validator"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErrors.HandleError(c, appErrors.ValidationError(err.Error()))
		return
	}
	if details := validator.Struct(req); details != nil {
		appErrors.HandleError(c, appErrors.ValidationError(details))
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		appErrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErrors.HandleError(c, appErrors.ValidationError(err.Error()))
		return
	}
	if details := validator.Struct(req); details != nil {
		appErrors.HandleError(c, appErrors.ValidationError(details))
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		appErrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
