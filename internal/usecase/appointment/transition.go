package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbersaas/internal/audit"
	domain "github.com/BruksfildServices01/barbersaas/internal/domain/appointment"
	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/models"
)

// lifecycle reúne o que confirmar, recusar e concluir têm em comum.
type lifecycle struct {
	repo   domain.Repository
	outbox SyncQueue
	audit  *audit.Dispatcher
	now    func() time.Time
}

func (l *lifecycle) SetClock(now func() time.Time) {
	l.now = now
}

// apply runs action on the stored record. barberID, when set, must own the
// appointment; someone else's appointment is reported as not found.
func (l *lifecycle) apply(
	ctx context.Context,
	barberID string,
	appointmentID string,
	action string,
	trigger string,
	fn func(ap *models.Appointment, now time.Time) error,
) (*models.Appointment, error) {

	ap, err := l.repo.UpdateAppointment(ctx, appointmentID, func(ap *models.Appointment) error {
		if barberID != "" && ap.BarberID != barberID {
			return httperr.ErrNotFound("appointment_not_found")
		}
		return fn(ap, l.now())
	})
	if err != nil {
		return nil, err
	}

	enqueue(l.outbox, trigger, ap.ID)

	l.audit.Dispatch(audit.Event{
		Actor:    Actor(barberID),
		Action:   action,
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]string{"status": ap.Status},
	})

	return ap, nil
}
