package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cargolink/cargo-portal/internal/api/middleware"
	"github.com/cargolink/cargo-portal/internal/core/domain"
	"github.com/cargolink/cargo-portal/internal/core/ports"
)

// DashboardHandler serves the role-dispatch endpoint and the four
// role-specific dashboards. Role enforcement lives in the RequireRole
// middleware; handlers here only render.
type DashboardHandler struct {
	directory ports.DirectoryService
	sessions  ports.SessionStore
}

func NewDashboardHandler(directory ports.DirectoryService, sessions ports.SessionStore) *DashboardHandler {
	return &DashboardHandler{directory: directory, sessions: sessions}
}

type dashboardResponse struct {
	Dashboard string               `json:"dashboard"`
	User      *domain.Account      `json:"user"`
	Notices   []string             `json:"notices,omitempty"`
	Stats     *adminDashboardStats `json:"stats,omitempty"`
}

type adminDashboardStats struct {
	TotalUsers      int64 `json:"total_users"`
	Clients         int64 `json:"clients"`
	Drivers         int64 `json:"drivers"`
	ClearanceAgents int64 `json:"clearance_agents"`
	Admins          int64 `json:"admins"`
}

// Dispatch routes an authenticated session to its role's dashboard.
// Unrecognized roles fall through to a generic dashboard payload rather
// than an error.
//
// @Summary      Role-dispatch dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dashboardResponse  "generic dashboard for unrecognized roles"
// @Success      303  {string}  string  "redirect to the role dashboard"
// @Router       /dashboard/ [get]
func (h *DashboardHandler) Dispatch(c echo.Context) error {
	p, _ := middleware.PrincipalFrom(c)
	if path := p.Role.DashboardPath(); path != domain.PathDashboard {
		return c.Redirect(http.StatusSeeOther, path)
	}
	return h.render(c, p, "default")
}

// Client serves the client dashboard.
//
// @Summary      Client dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Router       /dashboard/client/ [get]
func (h *DashboardHandler) Client(c echo.Context) error {
	p, _ := middleware.PrincipalFrom(c)
	return h.render(c, p, "client")
}

// Driver serves the driver dashboard.
//
// @Summary      Driver dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Router       /dashboard/driver/ [get]
func (h *DashboardHandler) Driver(c echo.Context) error {
	p, _ := middleware.PrincipalFrom(c)
	return h.render(c, p, "driver")
}

// ClearanceAgent serves the clearance-agent dashboard.
//
// @Summary      Clearance agent dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Router       /dashboard/clearance-agent/ [get]
func (h *DashboardHandler) ClearanceAgent(c echo.Context) error {
	p, _ := middleware.PrincipalFrom(c)
	return h.render(c, p, "clearance_agent")
}

// Admin serves the admin dashboard, including live per-role account counts
// computed at request time.
//
// @Summary      Admin dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Router       /dashboard/admin/ [get]
func (h *DashboardHandler) Admin(c echo.Context) error {
	p, _ := middleware.PrincipalFrom(c)

	counts, err := h.directory.Counts(c.Request().Context())
	if err != nil {
		return err
	}

	resp, err := h.buildResponse(c, p, "admin")
	if err != nil {
		return err
	}
	resp.Stats = &adminDashboardStats{
		TotalUsers:      counts.Total(),
		Clients:         counts.Clients,
		Drivers:         counts.Drivers,
		ClearanceAgents: counts.ClearanceAgents,
		Admins:          counts.Admins,
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) render(c echo.Context, p domain.Principal, name string) error {
	resp, err := h.buildResponse(c, p, name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) buildResponse(c echo.Context, p domain.Principal, name string) (*dashboardResponse, error) {
	account, err := h.directory.Get(c.Request().Context(), p.Username)
	if err != nil {
		return nil, err
	}
	notices, err := h.sessions.PopNotices(c.Request().Context(), p.Username)
	if err != nil {
		notices = nil
	}
	return &dashboardResponse{
		Dashboard: name,
		User:      account,
		Notices:   notices,
	}, nil
}
