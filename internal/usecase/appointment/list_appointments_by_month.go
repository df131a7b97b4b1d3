package appointment

import (
	"context"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/barbersaas/internal/domain/appointment"
	"github.com/BruksfildServices01/barbersaas/internal/dto"
	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/models"
)

type ListAppointmentsByMonth struct {
	repo appointment.Repository
}

func NewListAppointmentsByMonth(
	repo appointment.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	barberID string,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if year < 2000 || month < 1 || month > 12 {
		return nil, httperr.ErrBusiness("invalid_month")
	}

	// datas ISO: o prefixo "2025-03-" identifica o mês
	prefix := fmt.Sprintf("%04d-%02d-", year, month)

	appointments, err := uc.repo.Query(ctx, func(ap *models.Appointment) bool {
		return ap.BarberID == barberID && strings.HasPrefix(ap.Date, prefix)
	})
	if err != nil {
		return nil, err
	}

	return toListDTO(appointments), nil
}
