package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skymanifest/passenger-admin/internal/core/ports"
)

type DashboardHandler struct {
	service  ports.DashboardService
	resolver PrincipalResolver
}

func NewDashboardHandler(service ports.DashboardService, resolver PrincipalResolver) *DashboardHandler {
	return &DashboardHandler{service: service, resolver: resolver}
}

// Summary handles GET /api/dashboard.
//
// @Summary      Dashboard counters for the caller's scope
// @Tags         dashboard
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Summary(c echo.Context) error {
	p, err := principal(h.resolver, c)
	if err != nil {
		return err
	}

	summary, err := h.service.Summary(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDashboardResponse(summary))
}
