package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbersaas/internal/audit"
	domain "github.com/BruksfildServices01/barbersaas/internal/domain/appointment"
	"github.com/BruksfildServices01/barbersaas/internal/models"
)

type RefuseAppointment struct {
	lifecycle
}

func NewRefuseAppointment(
	repo domain.Repository,
	outbox SyncQueue,
	audit *audit.Dispatcher,
) *RefuseAppointment {
	return &RefuseAppointment{lifecycle{repo: repo, outbox: outbox, audit: audit, now: time.Now}}
}

// Execute recusa; reason vazio vira o motivo padrão.
func (uc *RefuseAppointment) Execute(
	ctx context.Context,
	barberID string,
	appointmentID string,
	reason string,
) (*models.Appointment, error) {
	return uc.apply(ctx, barberID, appointmentID, "appointment_refused", TriggerRefused,
		func(ap *models.Appointment, now time.Time) error {
			return domain.Refuse(ap, reason, now)
		})
}
