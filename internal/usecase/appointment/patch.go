package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbersaas/internal/audit"
	domain "github.com/BruksfildServices01/barbersaas/internal/domain/appointment"
	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/models"
	"github.com/BruksfildServices01/barbersaas/internal/timezone"
	"github.com/BruksfildServices01/barbersaas/internal/validators"
)

type PatchAppointment struct {
	repo   domain.Repository
	outbox SyncQueue
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewPatchAppointment(
	repo domain.Repository,
	outbox SyncQueue,
	audit *audit.Dispatcher,
) *PatchAppointment {
	return &PatchAppointment{repo: repo, outbox: outbox, audit: audit, now: time.Now}
}

func validatePatch(p *models.AppointmentPatch) error {
	if p.Date != nil && !timezone.ValidDate(*p.Date) {
		return httperr.ErrBusiness("invalid_date")
	}
	if p.Time != nil && !timezone.ValidTime(*p.Time) {
		return httperr.ErrBusiness("invalid_time")
	}
	if p.ServiceDuration != nil && *p.ServiceDuration <= 0 {
		return httperr.ErrBusiness("invalid_duration")
	}
	if p.ServicePrice != nil && *p.ServicePrice < 0 {
		return httperr.ErrBusiness("invalid_price")
	}
	if p.ClientPhone != nil {
		phone := validators.NormalizePhone(*p.ClientPhone)
		if len(phone) < validators.MinLocalDigits {
			return httperr.ErrBusiness("invalid_client_phone")
		}
		p.ClientPhone = &phone
	}
	return nil
}

// Execute faz o merge campo a campo. Remarcações passam de novo pela checagem de
// disponibilidade, ignorando o próprio agendamento.
func (uc *PatchAppointment) Execute(
	ctx context.Context,
	appointmentID string,
	patch models.AppointmentPatch,
) (*models.Appointment, error) {

	if err := validatePatch(&patch); err != nil {
		return nil, err
	}

	var out models.Appointment
	err := uc.repo.Mutate(ctx, func(next *models.Snapshot) (bool, error) {
		ap := next.Appointment(appointmentID)
		if ap == nil {
			return false, httperr.ErrNotFound("appointment_not_found")
		}

		candidate := ap.Clone()
		patch.Apply(&candidate)

		if patch.TouchesSchedule() && domain.Status(candidate.Status).IsBusy() {
			if err := domain.CheckAvailability(domain.AvailabilityQuery{
				Barber:       next.Barber(candidate.BarberID),
				Date:         candidate.Date,
				Time:         candidate.Time,
				Duration:     candidate.ServiceDuration,
				Appointments: next.Appointments,
				ExcludeID:    appointmentID,
			}); err != nil {
				return false, err
			}
		}

		candidate.ID = appointmentID
		candidate.UpdatedAt = uc.now()
		*ap = candidate
		out = candidate.Clone()
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	enqueue(uc.outbox, TriggerPatched, out.ID)

	uc.audit.Dispatch(audit.Event{
		Actor:    "admin",
		Action:   "appointment_patched",
		Entity:   "appointment",
		EntityID: out.ID,
	})

	return &out, nil
}
