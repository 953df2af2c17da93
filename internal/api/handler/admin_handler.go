package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cargolink/cargo-portal/internal/core/domain"
	"github.com/cargolink/cargo-portal/internal/core/ports"
)

// AdminHandler exposes the administrative account tooling: listings and
// bulk mutations. Routes using it sit behind RequireRole(admin) plus
// RequireStaff.
type AdminHandler struct {
	directory ports.DirectoryService
}

func NewAdminHandler(directory ports.DirectoryService) *AdminHandler {
	return &AdminHandler{directory: directory}
}

type bulkActionRequest struct {
	Action    string   `json:"action" validate:"required"`
	Usernames []string `json:"usernames" validate:"required"`
	Role      string   `json:"role" validate:"omitempty"`
}

type accountListResponse struct {
	Accounts []domain.Account `json:"accounts"`
	Count    int              `json:"count"`
}

// ListAccounts returns directory entries, optionally filtered by role,
// active flag, or a free-text query over identity fields.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Param        role    query     string  false  "filter by role"
// @Param        active  query     bool    false  "filter by active flag"
// @Param        q       query     string  false  "search username/email/names"
// @Success      200     {object}  accountListResponse
// @Failure      403     {object}  map[string]string
// @Router       /admin/accounts/ [get]
func (h *AdminHandler) ListAccounts(c echo.Context) error {
	filter := ports.AccountFilter{
		Role:  domain.Role(c.QueryParam("role")),
		Query: c.QueryParam("q"),
	}
	if raw := c.QueryParam("active"); raw != "" {
		active := raw == "true" || raw == "1"
		filter.Active = &active
	}

	accounts, err := h.directory.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountListResponse{Accounts: accounts, Count: len(accounts)})
}

// BulkActions applies one administrative action to a set of accounts.
// Rows are updated independently; the response reports per-username
// outcomes.
//
// @Summary      Bulk account actions
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      bulkActionRequest  true  "Action to apply"
// @Success      200   {object}  ports.BulkOutcome
// @Failure      400   {object}  map[string]interface{}
// @Failure      403   {object}  map[string]string
// @Router       /admin/accounts/actions/ [post]
func (h *AdminHandler) BulkActions(c echo.Context) error {
	var req bulkActionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	outcome, err := h.directory.Apply(c.Request().Context(), ports.BulkActionInput{
		Action:    req.Action,
		Usernames: req.Usernames,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, outcome)
}
