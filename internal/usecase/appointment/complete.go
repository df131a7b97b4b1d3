package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbersaas/internal/audit"
	domain "github.com/BruksfildServices01/barbersaas/internal/domain/appointment"
	"github.com/BruksfildServices01/barbersaas/internal/models"
)

type CompleteAppointment struct {
	lifecycle
}

func NewCompleteAppointment(
	repo domain.Repository,
	outbox SyncQueue,
	audit *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{lifecycle{repo: repo, outbox: outbox, audit: audit, now: time.Now}}
}

// Execute conclui e emite o recibo; só a partir de confirmed.
func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	barberID string,
	appointmentID string,
) (*models.Appointment, error) {
	return uc.apply(ctx, barberID, appointmentID, "appointment_completed", TriggerCompleted, domain.Complete)
}
