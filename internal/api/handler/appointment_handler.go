package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/appointment-scheduler/internal/api/metrics"
	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
	"github.com/sirpyerre/appointment-scheduler/internal/core/ports"
)

type AppointmentHandler struct {
	appointments ports.AppointmentService
	audit        ports.AuditService
}

func NewAppointmentHandler(appointments ports.AppointmentService, audit ports.AuditService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments, audit: audit}
}

// List returns the upcoming appointments visible to the caller.
//
// @Summary      List upcoming appointments
// @Description  ADMIN sees every appointment, USER only their own. Without limit the whole list is returned.
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "1-based page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  listAppointmentsResponse
// @Failure      400    {object}  validationErrorResponse
// @Failure      401    {object}  errorResponse
// @Router       /api/appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var q listAppointmentsQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	res, err := h.appointments.ListAppointments(c.Request().Context(), caller, toListInput(q))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listAppointmentsResponse{
		Data:    toAppointmentResponses(res.Data),
		HasMore: res.HasMore,
	})
}

// Calendar returns every appointment starting within [from, to].
//
// @Summary      Calendar view
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  true  "Range start (YYYY-MM-DDTHH:mm:ss.sssZ)"
// @Param        to    query     string  true  "Range end (YYYY-MM-DDTHH:mm:ss.sssZ)"
// @Success      200   {array}   appointmentResponse
// @Failure      400   {object}  validationErrorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/appointments/calendar [get]
func (h *AppointmentHandler) Calendar(c echo.Context) error {
	if _, err := callerFrom(c); err != nil {
		return err
	}

	var q calendarQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	items, err := h.appointments.ListForCalendar(c.Request().Context(), mustParseISO(q.From), mustParseISO(q.To))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toAppointmentResponses(items))
}

// Get returns one appointment.
//
// @Summary      Get an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment ID"
// @Success      200  {object}  appointmentResponse
// @Failure      400  {object}  validationErrorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/appointments/{id} [get]
func (h *AppointmentHandler) Get(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var p idParams
	if err := bindPath(c, &p); err != nil {
		return err
	}

	a, err := h.appointments.GetAppointment(c.Request().Context(), caller, p.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toAppointmentResponse(a))
}

// History returns the change log of an appointment, oldest first.
//
// @Summary      Appointment history
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment ID"
// @Success      200  {array}   auditEventResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/appointments/{id}/history [get]
func (h *AppointmentHandler) History(c echo.Context) error {
	var p idParams
	if err := bindPath(c, &p); err != nil {
		return err
	}

	events, err := h.audit.History(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toAuditEventResponses(events))
}

// Availability reports whether a slot is free.
//
// @Summary      Check slot availability
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      availabilityRequest  true  "Slot to check"
// @Success      200   {object}  availabilityResponse
// @Failure      400   {object}  validationErrorResponse
// @Router       /api/appointments/availability [post]
func (h *AppointmentHandler) Availability(c echo.Context) error {
	if _, err := callerFrom(c); err != nil {
		return err
	}

	var req availabilityRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	start := time.Now()
	slot := domain.Slot{StartAt: mustParseISO(req.StartAt), EndAt: mustParseISO(req.EndAt)}
	ok, err := h.appointments.IsAvailable(c.Request().Context(), slot, req.ExcludeID)
	metrics.AvailabilityCheckDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, availabilityResponse{Available: ok})
}

// Create books an appointment for the user in the path.
//
// @Summary      Create an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string              true  "Owner user ID"
// @Param        body    body      appointmentRequest  true  "Appointment"
// @Success      200     {object}  appointmentResponse
// @Failure      400     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /api/appointments/{userId} [post]
func (h *AppointmentHandler) Create(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var p userIDParams
	if err := bindPath(c, &p); err != nil {
		return err
	}
	var req appointmentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	a, err := h.appointments.CreateAppointment(c.Request().Context(), caller, p.UserID, toAppointmentInput(req))
	observeWrite("create", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toAppointmentResponse(a))
}

// Update replaces an appointment.
//
// @Summary      Update an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Appointment ID"
// @Param        body  body      appointmentRequest  true  "Appointment"
// @Success      200   {object}  appointmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/appointments/{id} [put]
func (h *AppointmentHandler) Update(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var p idParams
	if err := bindPath(c, &p); err != nil {
		return err
	}
	var req appointmentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	a, err := h.appointments.UpdateAppointment(c.Request().Context(), caller, p.ID, toAppointmentInput(req))
	observeWrite("update", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toAppointmentResponse(a))
}

// Delete removes an appointment and responds with true.
//
// @Summary      Delete an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment ID"
// @Success      200  {boolean} boolean
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/appointments/{id} [delete]
func (h *AppointmentHandler) Delete(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var p idParams
	if err := bindPath(c, &p); err != nil {
		return err
	}

	err = h.appointments.DeleteAppointment(c.Request().Context(), caller, p.ID)
	observeWrite("delete", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, true)
}

func observeWrite(operation string, err error) {
	metrics.AppointmentOperationsTotal.WithLabelValues(operation, resultLabel(err)).Inc()
	if errors.Is(err, domain.ErrSlotUnavailable) {
		metrics.SlotConflictsTotal.Inc()
	}
}
