package appointment

import (
	"context"

	"github.com/BruksfildServices01/barbersaas/internal/audit"
	domain "github.com/BruksfildServices01/barbersaas/internal/domain/appointment"
	"github.com/BruksfildServices01/barbersaas/internal/models"
)

type RateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRateAppointment(repo domain.Repository, audit *audit.Dispatcher) *RateAppointment {
	return &RateAppointment{repo: repo, audit: audit}
}

func (uc *RateAppointment) Execute(
	ctx context.Context,
	appointmentID string,
	rating int,
	review string,
) (*models.Appointment, error) {

	ap, err := uc.repo.UpdateAppointment(ctx, appointmentID, func(ap *models.Appointment) error {
		return domain.Rate(ap, rating, review)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    "public",
		Action:   "appointment_rated",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]int{"rating": rating},
	})

	return ap, nil
}
