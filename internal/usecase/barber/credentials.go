package barber

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/models"
)

const MinPinLength = 4

// BarberInput é o barbeiro recebido em PUT /barbers; Pin chega em texto puro.
type BarberInput struct {
	models.Barber
	Pin string `json:"pin"`
}

type ReplaceBarbers struct {
	repo Repository
	cost int
}

func NewReplaceBarbers(repo Repository) *ReplaceBarbers {
	return &ReplaceBarbers{repo: repo, cost: bcrypt.DefaultCost}
}

// Execute hashes every plain pin; a barber sent without pin keeps the stored
// hash.
func (uc *ReplaceBarbers) Execute(ctx context.Context, in []BarberInput) error {
	seen := make(map[string]bool, len(in))
	out := make([]models.Barber, 0, len(in))

	for _, b := range in {
		b.ID = strings.TrimSpace(b.ID)
		b.Name = strings.TrimSpace(b.Name)
		if b.ID == "" || b.Name == "" {
			return httperr.ErrBusiness("invalid_barber")
		}
		if seen[b.ID] {
			return httperr.ErrBusiness("duplicate_barber_id")
		}
		seen[b.ID] = true

		if b.CommissionRate < 0 || b.CommissionRate > 100 {
			return httperr.ErrBusiness("invalid_commission_rate")
		}

		barber := b.Barber
		barber.PinHash = ""
		if pin := strings.TrimSpace(b.Pin); pin != "" {
			if len(pin) < MinPinLength {
				return httperr.ErrBusiness("invalid_pin")
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(pin), uc.cost)
			if err != nil {
				return err
			}
			barber.PinHash = string(hashed)
		}
		out = append(out, barber)
	}

	return uc.repo.ReplaceBarbers(ctx, out)
}

type Authenticate struct {
	repo Repository
}

func NewAuthenticate(repo Repository) *Authenticate {
	return &Authenticate{repo: repo}
}

// Execute confere o PIN; qualquer falha vira invalid_credentials.
func (uc *Authenticate) Execute(ctx context.Context, barberID, pin string) (*models.Barber, error) {
	b, err := uc.repo.GetBarber(ctx, barberID)
	if err != nil || b.PinHash == "" {
		return nil, httperr.ErrBusiness("invalid_credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(b.PinHash), []byte(pin)); err != nil {
		return nil, httperr.ErrBusiness("invalid_credentials")
	}
	out := b.Public()
	return &out, nil
}
