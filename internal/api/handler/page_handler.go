package handler

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skymanifest/passenger-admin/internal/core/authz"
	"github.com/skymanifest/passenger-admin/internal/core/domain"
	"github.com/skymanifest/passenger-admin/internal/core/ports"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"login", "register", "dashboard", "passengers", "users"}

// TemplateRenderer renders the server-side pages. Each page is parsed into
// its own clone of the layout so "content" blocks do not collide.
type TemplateRenderer struct {
	pages map[string]*template.Template
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	layout, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = t
	}
	return &TemplateRenderer{pages: pages}, nil
}

// Render satisfies echo.Renderer.
func (r *TemplateRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

type pageData struct {
	Title     string
	Principal domain.Principal
	IsAdmin   bool
	Data      any
}

// PageHandler serves the HTML pages. Page access is enforced by the gate;
// the data shown still goes through the services and therefore the guard.
type PageHandler struct {
	resolver   PrincipalResolver
	guard      *authz.Guard
	passengers ports.PassengerService
	users      ports.UserService
	dashboard  ports.DashboardService
}

func NewPageHandler(resolver PrincipalResolver, guard *authz.Guard, passengers ports.PassengerService, users ports.UserService, dashboard ports.DashboardService) *PageHandler {
	return &PageHandler{resolver: resolver, guard: guard, passengers: passengers, users: users, dashboard: dashboard}
}

func (h *PageHandler) Root(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/dashboard")
}

func (h *PageHandler) Login(c echo.Context) error {
	return c.Render(http.StatusOK, "login", pageData{Title: "Sign in"})
}

func (h *PageHandler) Register(c echo.Context) error {
	return c.Render(http.StatusOK, "register", pageData{Title: "Register"})
}

func (h *PageHandler) Dashboard(c echo.Context) error {
	p, err := principal(h.resolver, c)
	if err != nil {
		return err
	}
	summary, err := h.dashboard.Summary(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "dashboard", h.page("Dashboard", p, toDashboardResponse(summary)))
}

func (h *PageHandler) Passengers(c echo.Context) error {
	p, err := principal(h.resolver, c)
	if err != nil {
		return err
	}
	q, err := bindListQuery(c)
	if err != nil {
		return err
	}
	res, err := h.passengers.List(c.Request().Context(), p, toListPassengersInput(q))
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "passengers", h.page("Passengers", p, toListPassengersResponse(res)))
}

func (h *PageHandler) Users(c echo.Context) error {
	p, err := principal(h.resolver, c)
	if err != nil {
		return err
	}
	res, err := h.users.List(c.Request().Context(), p, ports.ListUsersInput{
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "users", h.page("Users", p, toListUsersResponse(res)))
}

func (h *PageHandler) page(title string, p domain.Principal, data any) pageData {
	return pageData{
		Title:     title,
		Principal: p,
		IsAdmin:   h.guard.CanAccess(p, domain.ResourceUser, "", domain.ActionRead),
		Data:      data,
	}
}
