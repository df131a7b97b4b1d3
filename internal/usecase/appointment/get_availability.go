package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barbersaas/internal/domain/appointment"
	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/timezone"
)

type AvailabilityResult struct {
	BarberID  string             `json:"barber_id"`
	ServiceID string             `json:"service_id"`
	Date      string             `json:"date"`
	Duration  int                `json:"duration"`
	Slots     []domain.SlotState `json:"slots"`
}

type GetAvailability struct {
	repo domain.Repository
	loc  *time.Location
	now  func() time.Time
}

func NewGetAvailability(repo domain.Repository, loc *time.Location) *GetAvailability {
	if loc == nil {
		loc = time.UTC
	}
	return &GetAvailability{repo: repo, loc: loc, now: time.Now}
}

func (uc *GetAvailability) SetClock(now func() time.Time) {
	uc.now = now
}

// Execute monta a grade do dia com a mesma regra usada no commit da reserva.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*AvailabilityResult, error) {

	if !timezone.ValidDate(in.Date) {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	snap, err := uc.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	barber := snap.Barber(in.BarberID)
	if barber == nil {
		return nil, httperr.ErrNotFound("barber_not_found")
	}

	duration := domain.DefaultDuration
	if in.ServiceID != "" {
		svc := snap.Service(in.ServiceID)
		if svc == nil {
			return nil, httperr.ErrNotFound("service_not_found")
		}
		if svc.Duration > 0 {
			duration = svc.Duration
		}
	}

	return &AvailabilityResult{
		BarberID:  barber.ID,
		ServiceID: in.ServiceID,
		Date:      in.Date,
		Duration:  duration,
		Slots: domain.SlotGrid(domain.AvailabilityQuery{
			Barber:       barber,
			Date:         in.Date,
			Duration:     duration,
			Appointments: snap.Appointments,
			Now:          uc.now(),
			Location:     uc.loc,
		}),
	}, nil
}
