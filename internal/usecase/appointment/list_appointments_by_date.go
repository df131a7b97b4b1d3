package appointment

import (
	"context"
	"sort"

	domain "github.com/BruksfildServices01/barbersaas/internal/domain/appointment"
	"github.com/BruksfildServices01/barbersaas/internal/dto"
	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/models"
	"github.com/BruksfildServices01/barbersaas/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

func toListDTO(appointments []models.Appointment) []dto.AppointmentListDTO {
	sort.SliceStable(appointments, func(i, j int) bool {
		if appointments[i].Date != appointments[j].Date {
			return appointments[i].Date < appointments[j].Date
		}
		return appointments[i].Time < appointments[j].Time
	})

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.FromAppointment(ap))
	}
	return out
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	barberID string,
	date string,
) ([]dto.AppointmentListDTO, error) {

	if !timezone.ValidDate(date) {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	appointments, err := uc.repo.Query(ctx, func(ap *models.Appointment) bool {
		return ap.BarberID == barberID && ap.Date == date
	})
	if err != nil {
		return nil, err
	}

	return toListDTO(appointments), nil
}
