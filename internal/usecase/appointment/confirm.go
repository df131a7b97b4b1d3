package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbersaas/internal/audit"
	domain "github.com/BruksfildServices01/barbersaas/internal/domain/appointment"
	"github.com/BruksfildServices01/barbersaas/internal/models"
)

type ConfirmAppointment struct {
	lifecycle
}

func NewConfirmAppointment(
	repo domain.Repository,
	outbox SyncQueue,
	audit *audit.Dispatcher,
) *ConfirmAppointment {
	return &ConfirmAppointment{lifecycle{repo: repo, outbox: outbox, audit: audit, now: time.Now}}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	barberID string,
	appointmentID string,
) (*models.Appointment, error) {
	return uc.apply(ctx, barberID, appointmentID, "appointment_confirmed", TriggerConfirmed, domain.Confirm)
}
