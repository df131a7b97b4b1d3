// Package barber holds what a barber does to their own profile and agenda.
package barber

import (
	"context"

	"github.com/BruksfildServices01/barbersaas/internal/models"
)

type Repository interface {
	GetBarber(ctx context.Context, id string) (*models.Barber, error)
	UpdateBarber(ctx context.Context, id string, fn func(b *models.Barber) error) (*models.Barber, error)
	ReplaceBarbers(ctx context.Context, barbers []models.Barber) error
}
