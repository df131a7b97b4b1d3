package barber

import (
	"context"
	"io"
	"time"

	"github.com/BruksfildServices01/barbersaas/internal/audit"
	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/media"
	"github.com/BruksfildServices01/barbersaas/internal/models"
)

type UploadPhoto struct {
	repo    Repository
	objects media.Store
	audit   *audit.Dispatcher
	now     func() time.Time
}

func NewUploadPhoto(repo Repository, objects media.Store, audit *audit.Dispatcher) *UploadPhoto {
	return &UploadPhoto{repo: repo, objects: objects, audit: audit, now: time.Now}
}

// Execute converte para WebP, envia ao storage e grava a URL no barbeiro.
func (uc *UploadPhoto) Execute(ctx context.Context, barberID string, r io.Reader) (*models.Barber, error) {
	if uc.objects == nil {
		return nil, httperr.ErrBusiness("photo_storage_disabled")
	}
	if _, err := uc.repo.GetBarber(ctx, barberID); err != nil {
		return nil, err
	}

	data, err := media.ToWebP(r, media.DefaultMaxSide, media.DefaultQuality)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_image")
	}

	url, err := uc.objects.Put(ctx, media.BarberPhotoKey(barberID, uc.now().Unix()), data, "image/webp")
	if err != nil {
		return nil, err
	}

	b, err := uc.repo.UpdateBarber(ctx, barberID, func(b *models.Barber) error {
		b.Photo = url
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    "barber:" + barberID,
		Action:   "barber_photo_updated",
		Entity:   "barber",
		EntityID: barberID,
	})

	out := b.Public()
	return &out, nil
}
