package handlers

import (
	"net/http"

	"todostock/internal/common"
	"todostock/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges email and password for a session at the identity provider
//
//	@Summary	Log in
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		LoginRequest	true	"Credentials"
//	@Success	200		{object}	models.LoginResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	401		{object}	ErrorResponse
//	@Failure	429		{object}	ErrorResponse
//	@Router		/login [post]
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "invalid request body")
	}

	session, err := h.authService.Login(c.Request().Context(), c.RealIP(), req.Email, req.Password)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// Me returns the identity carried by the verified token
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
	}
	email, _ := common.GetUserEmailFromContext(ctx)

	return c.JSON(http.StatusOK, map[string]string{
		"id":    userID.String(),
		"email": email,
	})
}
