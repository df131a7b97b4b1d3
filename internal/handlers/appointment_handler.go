package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/httpresp"
	"github.com/BruksfildServices01/barbersaas/internal/middleware"
	"github.com/BruksfildServices01/barbersaas/internal/models"
	"github.com/BruksfildServices01/barbersaas/internal/timezone"
	"github.com/BruksfildServices01/barbersaas/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	confirmUC     *appointment.ConfirmAppointment
	refuseUC      *appointment.RefuseAppointment
	completeUC    *appointment.CompleteAppointment
	patchUC       *appointment.PatchAppointment
	listByDateUC  *appointment.ListAppointmentsByDate
	listByMonthUC *appointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	confirmUC *appointment.ConfirmAppointment,
	refuseUC *appointment.RefuseAppointment,
	completeUC *appointment.CompleteAppointment,
	patchUC *appointment.PatchAppointment,
	listByDateUC *appointment.ListAppointmentsByDate,
	listByMonthUC *appointment.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		confirmUC:     confirmUC,
		refuseUC:      refuseUC,
		completeUC:    completeUC,
		patchUC:       patchUC,
		listByDateUC:  listByDateUC,
		listByMonthUC: listByMonthUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type RefuseRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// LIST (AGENDA DO BARBEIRO)
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	barberID := middleware.BarberID(c)

	date := c.Query("date")
	if date == "" {
		date = timezone.Now().Format(timezone.DateLayout)
	}

	out, err := h.listByDateUC.Execute(c.Request.Context(), barberID, date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, out)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	barberID := middleware.BarberID(c)

	now := timezone.Now()
	year, err1 := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	month, err2 := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_month", "Ano ou mês inválido.")
		return
	}

	out, err := h.listByMonthUC.Execute(c.Request.Context(), barberID, year, month)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, out)
}

// ======================================================
// LIFECYCLE
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	ap, err := h.confirmUC.Execute(c.Request.Context(), middleware.BarberID(c), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Refuse(c *gin.Context) {
	var req RefuseRequest
	// corpo opcional: sem motivo usa o padrão
	_ = c.ShouldBindJSON(&req)

	ap, err := h.refuseUC.Execute(c.Request.Context(), middleware.BarberID(c), c.Param("id"), req.Reason)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	ap, err := h.completeUC.Execute(c.Request.Context(), middleware.BarberID(c), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

// ======================================================
// PATCH (ADMIN)
// ======================================================

func (h *AppointmentHandler) Patch(c *gin.Context) {
	var patch models.AppointmentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.patchUC.Execute(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}
