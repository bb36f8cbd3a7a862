package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skymanifest/passenger-admin/internal/api/metrics"
	"github.com/skymanifest/passenger-admin/internal/core/domain"
	"github.com/skymanifest/passenger-admin/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	resolver    PrincipalResolver
	cookie      SessionCookie
}

func NewAuthHandler(authService ports.AuthService, resolver PrincipalResolver, cookie SessionCookie) *AuthHandler {
	return &AuthHandler{authService: authService, resolver: resolver, cookie: cookie}
}

// Register creates a new USER account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login verifies credentials and sets the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Header       200   {string}  Set-Cookie  "token=<session token>; HttpOnly"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	h.cookie.Set(c, res.Token, res.ExpiresAt)
	return c.JSON(http.StatusOK, loginResponse{User: toUserResponse(res.User), ExpiresAt: res.ExpiresAt.UTC()})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	case errors.Is(err, domain.ErrValidation):
		return "invalid_request"
	default:
		return "error"
	}
}

// Logout clears the session cookie. Tokens are stateless, so a copied token
// stays valid until it expires.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.cookie.Clear(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// Session reports the principal behind the session cookie.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	p, err := principal(h.resolver, c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{ID: p.ID, Role: string(p.Role)})
}
