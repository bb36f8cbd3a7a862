package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skymanifest/passenger-admin/internal/api/metrics"
	"github.com/skymanifest/passenger-admin/internal/core/domain"
	"github.com/skymanifest/passenger-admin/internal/core/ports"
	"github.com/skymanifest/passenger-admin/internal/infrastructure/export"
)

// PassengerHandler handles HTTP requests for the manifest.
type PassengerHandler struct {
	service  ports.PassengerService
	resolver PrincipalResolver
	now      func() time.Time
}

func NewPassengerHandler(service ports.PassengerService, resolver PrincipalResolver) *PassengerHandler {
	return &PassengerHandler{service: service, resolver: resolver, now: time.Now}
}

// List handles GET /api/passengers.
//
// @Summary      List passengers visible to the caller
// @Tags         passengers
// @Produce      json
// @Security     CookieAuth
// @Param        status         query     string  false  "booked, checked_in, boarded or cancelled"
// @Param        flight_number  query     string  false  "Flight number"
// @Param        search         query     string  false  "Matches name or document"
// @Param        date_from      query     string  false  "Earliest departure (YYYY-MM-DD)"
// @Param        date_to        query     string  false  "Latest departure (YYYY-MM-DD)"
// @Param        page           query     int     false  "Page (1-based)"
// @Param        limit          query     int     false  "Page size (max 100)"
// @Success      200            {object}  listPassengersResponse
// @Failure      400            {object}  errorResponse
// @Failure      401            {object}  errorResponse
// @Router       /api/passengers [get]
func (h *PassengerHandler) List(c echo.Context) error {
	p, err := principal(h.resolver, c)
	if err != nil {
		return err
	}
	q, err := bindListQuery(c)
	if err != nil {
		return err
	}

	res, err := h.service.List(c.Request().Context(), p, toListPassengersInput(q))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListPassengersResponse(res))
}

// Get handles GET /api/passengers/:id.
//
// @Summary      Get a passenger
// @Tags         passengers
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Passenger id"
// @Success      200  {object}  passengerResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/passengers/{id} [get]
func (h *PassengerHandler) Get(c echo.Context) error {
	p, err := principal(h.resolver, c)
	if err != nil {
		return err
	}

	passenger, err := h.service.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPassengerResponse(passenger))
}

// Create handles POST /api/passengers.
//
// @Summary      Add a passenger to the manifest
// @Tags         passengers
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      passengerRequest  true  "Passenger details"
// @Success      201   {object}  passengerResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/passengers [post]
func (h *PassengerHandler) Create(c echo.Context) error {
	p, err := principal(h.resolver, c)
	if err != nil {
		return err
	}

	var req passengerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	passenger, err := h.service.Create(c.Request().Context(), p, toPassengerInput(req))
	if err != nil {
		return err
	}
	metrics.PassengersCreatedTotal.WithLabelValues(string(passenger.Status)).Inc()

	c.Response().Header().Set(echo.HeaderLocation, "/api/passengers/"+passenger.ID)
	return c.JSON(http.StatusCreated, toPassengerResponse(passenger))
}

// Update handles PUT /api/passengers/:id.
//
// @Summary      Replace a passenger's details
// @Tags         passengers
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string            true  "Passenger id"
// @Param        body  body      passengerRequest  true  "Passenger details"
// @Success      200   {object}  passengerResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/passengers/{id} [put]
func (h *PassengerHandler) Update(c echo.Context) error {
	p, err := principal(h.resolver, c)
	if err != nil {
		return err
	}

	var req passengerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	passenger, err := h.service.Update(c.Request().Context(), p, c.Param("id"), toPassengerInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPassengerResponse(passenger))
}

// Delete handles DELETE /api/passengers/:id.
//
// @Summary      Remove a passenger
// @Tags         passengers
// @Security     CookieAuth
// @Param        id   path  string  true  "Passenger id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/passengers/{id} [delete]
func (h *PassengerHandler) Delete(c echo.Context) error {
	p, err := principal(h.resolver, c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ExportCSV handles GET /api/passengers/export.csv.
//
// @Summary      Export the visible manifest as CSV
// @Tags         passengers
// @Produce      text/csv
// @Security     CookieAuth
// @Param        status         query  string  false  "Status filter"
// @Param        flight_number  query  string  false  "Flight number"
// @Success      200  {file}  file
// @Failure      401  {object}  errorResponse
// @Router       /api/passengers/export.csv [get]
func (h *PassengerHandler) ExportCSV(c echo.Context) error {
	return h.export(c, "csv", "text/csv; charset=utf-8", func(buf *bytes.Buffer, rows exportRows) error {
		return export.WriteCSV(buf, rows)
	})
}

// ExportPDF handles GET /api/passengers/export.pdf.
//
// @Summary      Export the visible manifest as PDF
// @Tags         passengers
// @Produce      application/pdf
// @Security     CookieAuth
// @Param        status         query  string  false  "Status filter"
// @Param        flight_number  query  string  false  "Flight number"
// @Success      200  {file}  file
// @Failure      401  {object}  errorResponse
// @Router       /api/passengers/export.pdf [get]
func (h *PassengerHandler) ExportPDF(c echo.Context) error {
	return h.export(c, "pdf", "application/pdf", func(buf *bytes.Buffer, rows exportRows) error {
		return export.WritePDF(buf, "Passenger manifest", rows, h.now())
	})
}

// export renders into a buffer first so a rendering failure still produces a
// proper error response instead of a truncated download.
func (h *PassengerHandler) export(c echo.Context, format, contentType string, render func(*bytes.Buffer, exportRows) error) error {
	p, err := principal(h.resolver, c)
	if err != nil {
		return err
	}
	q, err := bindListQuery(c)
	if err != nil {
		return err
	}

	rows, err := h.service.Export(c.Request().Context(), p, toListPassengersInput(q))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := render(&buf, rows); err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	metrics.ExportsTotal.WithLabelValues(format).Inc()

	filename := fmt.Sprintf("manifest-%s.%s", h.now().UTC().Format("20060102-150405"), format)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}

type exportRows = []*domain.Passenger

func bindListQuery(c echo.Context) (listPassengersQuery, error) {
	var q listPassengersQuery
	if err := c.Bind(&q); err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return q, err
	}
	return q, nil
}
