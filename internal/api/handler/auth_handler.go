package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/notekeeper/notes-api/internal/api/metrics"
	"github.com/notekeeper/notes-api/internal/api/middleware"
	"github.com/notekeeper/notes-api/internal/core/domain"
	"github.com/notekeeper/notes-api/internal/core/ports"
	"github.com/notekeeper/notes-api/internal/core/token"
)

// AuthHandler handles registration, login, and token introspection.
type AuthHandler struct {
	authService ports.AuthService
	tokens      *token.Issuer
}

func NewAuthHandler(authService ports.AuthService, tokens *token.Issuer) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens}
}

type credentialsRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerResponse struct {
	Token string `json:"token"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

type tokenInfoResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// setSessionCookie delivers the token to the browser. The cookie mirrors the
// token TTL and is deliberately readable by the client script (HttpOnly=false,
// Secure=false) with SameSite=Strict.
func (h *AuthHandler) setSessionCookie(c echo.Context, tok string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tok,
		Path:     "/",
		Expires:  time.Now().Add(h.tokens.TTL()),
		MaxAge:   int(h.tokens.TTL() / time.Second),
		HttpOnly: false,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	})
}

// Register creates a new user account and starts a session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Email and password"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	tok, _, err := h.authService.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
			return c.JSON(http.StatusConflict, map[string]string{"message": "user with this email already exists"})
		}
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	h.setSessionCookie(c, tok)
	return c.JSON(http.StatusCreated, registerResponse{Token: tok})
}

// Login authenticates a user and starts a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Email and password"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	tok, _, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid email or password"})
		case errors.Is(err, domain.ErrTooManyAttempts):
			metrics.AuthAttemptsTotal.WithLabelValues("login", "limited").Inc()
			return c.JSON(http.StatusTooManyRequests, map[string]string{"message": "too many login attempts, try again later"})
		}
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	h.setSessionCookie(c, tok)
	return c.JSON(http.StatusOK, loginResponse{Token: tok, Message: "Logged in successfully"})
}

// TokenInfo returns the identity claims of the current session token. The
// token is strictly verified, not merely decoded, so a forged or expired
// cookie is rejected here like on every other authenticated path.
//
// @Summary      Inspect the current session token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  tokenInfoResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/tokeninfo [get]
func (h *AuthHandler) TokenInfo(c echo.Context) error {
	cookie, err := c.Cookie(middleware.SessionCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "no token found"})
	}

	claims, err := h.tokens.Verify(cookie.Value)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token"})
	}

	return c.JSON(http.StatusOK, tokenInfoResponse{UserID: claims.UserID, Email: claims.Email})
}
