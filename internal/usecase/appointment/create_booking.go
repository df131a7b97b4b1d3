package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/barbersaas/internal/audit"
	domain "github.com/BruksfildServices01/barbersaas/internal/domain/appointment"
	"github.com/BruksfildServices01/barbersaas/internal/domain/client"
	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/models"
	"github.com/BruksfildServices01/barbersaas/internal/timezone"
	"github.com/BruksfildServices01/barbersaas/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	ClientName  string
	ClientPhone string

	ServiceID string
	BarberID  string

	Date string
	Time string

	PaymentMethod string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo   domain.Repository
	outbox SyncQueue
	audit  *audit.Dispatcher
	loc    *time.Location
	now    func() time.Time
}

func NewCreateBooking(
	repo domain.Repository,
	outbox SyncQueue,
	audit *audit.Dispatcher,
	loc *time.Location,
) *CreateBooking {
	return &CreateBooking{
		repo:   repo,
		outbox: outbox,
		audit:  audit,
		loc:    loc,
		now:    time.Now,
	}
}

func (uc *CreateBooking) SetClock(now func() time.Time) {
	uc.now = now
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Validação do payload
	// --------------------------------------------------
	if validators.IsBlank(in.ClientName) {
		return nil, httperr.ErrBusiness("invalid_client_name")
	}
	if !validators.IsLocalPhoneValid(in.ClientPhone) {
		return nil, httperr.ErrBusiness("invalid_client_phone")
	}
	if in.ServiceID == "" || in.BarberID == "" {
		return nil, httperr.ErrBusiness("missing_service_or_barber")
	}
	if !timezone.ValidDate(in.Date) || !timezone.ValidTime(in.Time) {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	payment := strings.TrimSpace(in.PaymentMethod)
	if payment == "" {
		payment = domain.DefaultPaymentMethod
	}

	// --------------------------------------------------
	// 2️⃣ Commit: revalida e grava na mesma seção crítica
	// (horário passado também é regra da disponibilidade)
	// --------------------------------------------------
	var created models.Appointment
	err := uc.repo.Mutate(ctx, func(next *models.Snapshot) (bool, error) {
		svc := next.Service(in.ServiceID)
		if svc == nil {
			return false, httperr.ErrNotFound("service_not_found")
		}

		duration := svc.Duration
		if duration <= 0 {
			duration = domain.DefaultDuration
		}

		barber := next.Barber(in.BarberID)
		if err := domain.CheckAvailability(domain.AvailabilityQuery{
			Barber:       barber,
			Date:         in.Date,
			Time:         in.Time,
			Duration:     duration,
			Appointments: next.Appointments,
			Now:          uc.now(),
			Location:     uc.loc,
		}); err != nil {
			return false, err
		}

		now := uc.now()
		c, err := client.Upsert(next, in.ClientName, in.ClientPhone, now)
		if err != nil {
			return false, err
		}

		created = models.Appointment{
			ID:              domain.NewID(),
			ClientName:      c.Name,
			ClientPhone:     c.Phone,
			ServiceID:       svc.ID,
			ServiceName:     svc.Name,
			ServiceDuration: duration,
			ServicePrice:    svc.Price,
			BarberID:        barber.ID,
			BarberName:      barber.Name,
			Date:            in.Date,
			Time:            in.Time,
			Status:          string(domain.InitialStatus()),
			PaymentMethod:   payment,
			AutomationMeta:  models.AutomationMeta{Events: []models.AutomationEvent{}},
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		next.Appointments = append(next.Appointments, created)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Automação + auditoria
	// --------------------------------------------------
	enqueue(uc.outbox, TriggerCreated, created.ID)

	uc.audit.Dispatch(audit.Event{
		Actor:    "public",
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: created.ID,
		Metadata: map[string]string{
			"barber_id": created.BarberID,
			"date":      created.Date,
			"time":      created.Time,
		},
	})

	return &created, nil
}
