package appointment

import (
	"context"

	"github.com/BruksfildServices01/barbersaas/internal/models"
)

type Repository interface {
	// -------- Snapshot --------
	Snapshot(ctx context.Context) (*models.Snapshot, error)

	// Mutate runs fn on a private copy and persists it once when fn reports a
	// change. Check-then-write sequences (booking commit) must use it.
	Mutate(
		ctx context.Context,
		fn func(next *models.Snapshot) (bool, error),
	) error

	// -------- Catalog --------
	GetService(ctx context.Context, id string) (*models.Service, error)
	GetBarber(ctx context.Context, id string) (*models.Barber, error)

	// -------- Appointment --------
	Create(ctx context.Context, ap *models.Appointment) (*models.Appointment, error)
	FindByID(ctx context.Context, id string) (*models.Appointment, error)

	Patch(
		ctx context.Context,
		id string,
		patch models.AppointmentPatch,
	) (*models.Appointment, error)

	// UpdateAppointment applies fn to the current stored record, not to a
	// caller-held copy.
	UpdateAppointment(
		ctx context.Context,
		id string,
		fn func(ap *models.Appointment) error,
	) (*models.Appointment, error)

	Query(
		ctx context.Context,
		pred func(ap *models.Appointment) bool,
	) ([]models.Appointment, error)

	// -------- Barber --------
	UpdateBarber(
		ctx context.Context,
		id string,
		fn func(b *models.Barber) error,
	) (*models.Barber, error)
}
