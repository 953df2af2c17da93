package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cargolink/cargo-portal/internal/api/metrics"
	"github.com/cargolink/cargo-portal/internal/api/middleware"
	"github.com/cargolink/cargo-portal/internal/core/domain"
	"github.com/cargolink/cargo-portal/internal/core/ports"
)

// AuthHandler serves the landing page, the auth shell and the
// register/login/logout flow.
type AuthHandler struct {
	accounts   ports.AccountService
	sessions   ports.SessionStore
	sessionTTL time.Duration
}

func NewAuthHandler(accounts ports.AccountService, sessions ports.SessionStore, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions, sessionTTL: sessionTTL}
}

type registerRequest struct {
	Username        string `json:"username" validate:"required,max=150"`
	Email           string `json:"email" validate:"required,email"`
	FirstName       string `json:"first_name" validate:"required,max=30"`
	LastName        string `json:"last_name" validate:"required,max=30"`
	Role            string `json:"role" validate:"required"`
	PhoneNumber     string `json:"phone_number" validate:"omitempty,max=15"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Landing is the public landing page.
//
// @Summary      Landing page
// @Tags         pages
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       / [get]
func (h *AuthHandler) Landing(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"service": "cargo-portal",
		"links": map[string]string{
			"auth":      "/auth/",
			"login":     domain.PathLogin,
			"register":  "/register/",
			"dashboard": domain.PathDashboard,
		},
	})
}

// AuthPage is the combined login/register page shell.
//
// @Summary      Auth page shell
// @Tags         pages
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /auth/ [get]
func (h *AuthHandler) AuthPage(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"login":    domain.PathLogin,
		"register": "/register/",
	})
}

// LoginPage describes the login form. An already-authenticated caller is
// redirected straight to their dashboard without re-authentication.
//
// @Summary      Login page
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Success      303  {string}  string  "redirect for authenticated sessions"
// @Router       /login/ [get]
func (h *AuthHandler) LoginPage(c echo.Context) error {
	if p, ok := middleware.PrincipalFrom(c); ok {
		return c.Redirect(http.StatusSeeOther, p.Role.DashboardPath())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"fields": []string{"username", "password"},
	})
}

// Login authenticates a user, sets the session cookie and redirects to the
// role's dashboard.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      303   {string}  string  "redirect to the role dashboard"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /login/ [post]
func (h *AuthHandler) Login(c echo.Context) error {
	if p, ok := middleware.PrincipalFrom(c); ok {
		return c.Redirect(http.StatusSeeOther, p.Role.DashboardPath())
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, account, err := h.accounts.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	middleware.SetSessionCookie(c, token, h.sessionTTL)
	return c.Redirect(http.StatusSeeOther, account.Role.DashboardPath())
}

// RegisterPage describes the registration form, including the role choices.
//
// @Summary      Registration page
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /register/ [get]
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	roles := make([]map[string]string, 0, len(domain.AllRoles))
	for _, role := range domain.AllRoles {
		roles = append(roles, map[string]string{"value": string(role), "label": role.Label()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"fields": []string{"username", "email", "first_name", "last_name", "role", "phone_number", "password", "password_confirm"},
		"roles":  roles,
	})
}

// Register creates a new account, logs it in immediately and redirects to
// the chosen role's dashboard.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      303   {string}  string  "redirect to the role dashboard"
// @Failure      400   {object}  map[string]interface{}
// @Router       /register/ [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, account, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Role:            domain.Role(req.Role),
		PhoneNumber:     req.PhoneNumber,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(account.Role)).Inc()
	notice := fmt.Sprintf("Account created for %s as %s!", account.Username, account.Role.Label())
	_ = h.sessions.PushNotice(c.Request().Context(), account.Username, notice)

	middleware.SetSessionCookie(c, token, h.sessionTTL)
	return c.Redirect(http.StatusSeeOther, account.Role.DashboardPath())
}

// Logout terminates the session unconditionally and clears the cookie.
//
// @Summary      Logout
// @Tags         auth
// @Success      303  {string}  string  "redirect to the landing page"
// @Router       /logout/ [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	p, _ := middleware.PrincipalFrom(c)
	if err := h.accounts.Logout(c.Request().Context(), p); err != nil {
		return err
	}
	metrics.LogoutsTotal.Inc()
	middleware.ClearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, "/")
}
