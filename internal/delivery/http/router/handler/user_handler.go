// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	httpmiddleware "nearby/internal/delivery/http/middleware"
	"nearby/internal/delivery/http/response"
	"nearby/internal/domain/entity"
	"nearby/internal/session"
	"nearby/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserHandler holds dependencies for auth and account handlers.
type UserHandler struct {
	uc         usecase.UserUsecase
	sessionBus *session.Bus
	logger     *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase, sessionBus *session.Bus, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		uc:         uc,
		sessionBus: sessionBus,
		logger:     logger,
	}
}

// Register handles the user registration request.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output.User, "User registered successfully")
}

// Login handles the user login request.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	h.publishSession(output)

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// RefreshToken handles the token refresh request.
func (h *UserHandler) RefreshToken(c echo.Context) error {
	var req refreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh token input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.RefreshToken(c.Request().Context(), &usecase.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Token refresh is a session change: same identity, new access token.
	if current, _ := h.sessionBus.CurrentSession(c.Request().Context()); current != nil {
		h.sessionBus.Publish(&entity.Session{
			Identity:     current.Identity,
			AccessToken:  output.AccessToken,
			RefreshToken: current.RefreshToken,
		})
	}

	return response.Success(c, http.StatusOK, output, "Token refreshed successfully")
}

// Logout handles the user logout request. An already-revoked session is
// still a successful logout from the client's point of view.
func (h *UserHandler) Logout(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid logout input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.uc.Logout(c.Request().Context(), &usecase.LogoutInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	h.sessionBus.Publish(nil)

	return response.Success(c, http.StatusOK, result, "Logout successful")
}

// GoogleLogin starts the Google Sign-In redirect flow. With ?redirect=true
// the client is sent straight to the consent page; otherwise the URL is
// returned for the client to follow.
func (h *UserHandler) GoogleLogin(c echo.Context) error {
	oauthURL, err := h.uc.GoogleAuthURL(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	if c.QueryParam("redirect") == "true" {
		return c.Redirect(http.StatusTemporaryRedirect, oauthURL)
	}

	return response.Success(c, http.StatusOK, map[string]string{"auth_url": oauthURL}, "Authorization URL generated")
}

// GoogleCallback completes the Google Sign-In flow.
func (h *UserHandler) GoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Missing code or state parameter")
	}

	output, err := h.uc.GoogleCallback(c.Request().Context(), &usecase.GoogleCallbackInput{
		Code:  code,
		State: state,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	h.publishSession(output)

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// Me returns the caller's merged identity.
func (h *UserHandler) Me(c echo.Context) error {
	userID, ok := httpmiddleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	identity, err := h.uc.GetCurrentIdentity(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, identity, "")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}

func (h *UserHandler) publishSession(output *usecase.LoginOutput) {
	h.sessionBus.Publish(&entity.Session{
		Identity:     entity.IdentityFromUser(output.User),
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
	})
}
