package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barbersaas/internal/domain/appointment"
	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/httpresp"
	"github.com/BruksfildServices01/barbersaas/internal/infra/repository"
	"github.com/BruksfildServices01/barbersaas/internal/models"
	"github.com/BruksfildServices01/barbersaas/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	store        *repository.SnapshotStore
	createUC     *appointment.CreateBooking
	availability *appointment.GetAvailability
	rateUC       *appointment.RateAppointment
}

func NewPublicHandler(
	store *repository.SnapshotStore,
	createUC *appointment.CreateBooking,
	availability *appointment.GetAvailability,
	rateUC *appointment.RateAppointment,
) *PublicHandler {
	return &PublicHandler{
		store:        store,
		createUC:     createUC,
		availability: availability,
		rateUC:       rateUC,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ClientName    string `json:"client_name" binding:"required"`
	ClientPhone   string `json:"client_phone" binding:"required"`
	ServiceID     string `json:"service_id" binding:"required"`
	BarberID      string `json:"barber_id" binding:"required"`
	Date          string `json:"date" binding:"required"` // YYYY-MM-DD
	Time          string `json:"time" binding:"required"` // HH:mm
	PaymentMethod string `json:"payment_method"`
}

type RateRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Review string `json:"review"`
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	snap, err := h.store.Snapshot(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, snap.Services)
}

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	snap, err := h.store.Snapshot(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	out := make([]models.Barber, 0, len(snap.Barbers))
	for _, b := range snap.Barbers {
		out = append(out, b.Public())
	}
	httpresp.List(c, out)
}

////////////////////////////////////////////////////////
// AVAILABILITY (MESMA REGRA DO COMMIT)
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	in := domain.AvailabilityInput{
		BarberID:  c.Query("barber_id"),
		ServiceID: c.Query("service_id"),
		Date:      c.Query("date"),
	}
	if in.BarberID == "" || in.Date == "" {
		httperr.BadRequest(c, "missing_params", "Barbeiro e data obrigatórios.")
		return
	}

	res, err := h.availability.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, res)
}

////////////////////////////////////////////////////////
// BOOKING
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), appointment.CreateBookingInput{
		ClientName:    req.ClientName,
		ClientPhone:   req.ClientPhone,
		ServiceID:     req.ServiceID,
		BarberID:      req.BarberID,
		Date:          req.Date,
		Time:          req.Time,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

func (h *PublicHandler) RateAppointment(c *gin.Context) {
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.rateUC.Execute(c.Request.Context(), c.Param("id"), req.Rating, req.Review)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}
