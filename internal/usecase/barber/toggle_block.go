package barber

import (
	"context"
	"log"

	"github.com/BruksfildServices01/barbersaas/internal/audit"
	domain "github.com/BruksfildServices01/barbersaas/internal/domain/appointment"
	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/models"
	"github.com/BruksfildServices01/barbersaas/internal/timezone"
)

// ToggleBlockInput: sem Time alterna a folga do dia; com Time alterna um horário.
type ToggleBlockInput struct {
	BarberID string
	Date     string
	Time     string
}

type ToggleBlockResult struct {
	Barber  *models.Barber `json:"barber"`
	Blocked bool           `json:"blocked"`
}

type ToggleBlock struct {
	repo  Repository
	audit *audit.Dispatcher
}

func NewToggleBlock(repo Repository, audit *audit.Dispatcher) *ToggleBlock {
	return &ToggleBlock{repo: repo, audit: audit}
}

func (uc *ToggleBlock) Execute(ctx context.Context, in ToggleBlockInput) (*ToggleBlockResult, error) {
	if !timezone.ValidDate(in.Date) {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	if in.Time != "" && !domain.IsCatalogSlot(in.Time) {
		return nil, httperr.ErrBusiness("invalid_time")
	}

	var blocked bool
	b, err := uc.repo.UpdateBarber(ctx, in.BarberID, func(b *models.Barber) error {
		if in.Time == "" {
			blocked = toggleOffDay(b, in.Date)
			return nil
		}
		blocked = toggleManualBlock(b, in.Date, in.Time)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// agendamentos já existentes não são cancelados pelo bloqueio
	if blocked {
		log.Printf("[barber] %s blocked %s %s", in.BarberID, in.Date, in.Time)
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    "barber:" + in.BarberID,
		Action:   "barber_block_toggled",
		Entity:   "barber",
		EntityID: in.BarberID,
		Metadata: map[string]any{"date": in.Date, "time": in.Time, "blocked": blocked},
	})

	return &ToggleBlockResult{Barber: b, Blocked: blocked}, nil
}

func toggleOffDay(b *models.Barber, date string) bool {
	for i, d := range b.OffDays {
		if d == date {
			b.OffDays = append(b.OffDays[:i:i], b.OffDays[i+1:]...)
			return false
		}
	}
	b.OffDays = append(b.OffDays, date)
	return true
}

func toggleManualBlock(b *models.Barber, date, hm string) bool {
	for i, blk := range b.ManualBlocks {
		if blk.Date == date && blk.Time == hm {
			b.ManualBlocks = append(b.ManualBlocks[:i:i], b.ManualBlocks[i+1:]...)
			return false
		}
	}
	b.ManualBlocks = append(b.ManualBlocks, models.ManualBlock{Date: date, Time: hm})
	return true
}
