package appointment

import (
	"errors"
	"time"

	"github.com/BruksfildServices01/barbersaas/internal/timezone"
)

const SlotMinutes = 30

// Expediente: manhã 09:00–11:30, pausa ao meio-dia, tarde 14:00–20:00.
var slotCatalog = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
	"17:00", "17:30", "18:00", "18:30", "19:00", "19:30", "20:00",
}

var (
	ErrInvalidDuration = errors.New("invalid_duration")
	ErrOutsideCatalog  = errors.New("outside_hours")
)

func Catalog() []string {
	return append([]string(nil), slotCatalog...)
}

func IsCatalogSlot(hm string) bool {
	for _, s := range slotCatalog {
		if s == hm {
			return true
		}
	}
	return false
}

// SlotsNeeded = ceil(duration / 30)
func SlotsNeeded(duration int) int {
	if duration <= 0 {
		return 0
	}
	return (duration + SlotMinutes - 1) / SlotMinutes
}

// Coverage lista os slots ocupados a partir de start. Qualquer slot fora do
// catálogo invalida a cobertura inteira.
func Coverage(start string, duration int) ([]string, error) {
	n := SlotsNeeded(duration)
	if n == 0 {
		return nil, ErrInvalidDuration
	}

	t, err := time.Parse(timezone.TimeLayout, start)
	if err != nil || !IsCatalogSlot(start) {
		return nil, ErrOutsideCatalog
	}

	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		label := t.Add(time.Duration(i*SlotMinutes) * time.Minute).Format(timezone.TimeLayout)
		if !IsCatalogSlot(label) {
			return nil, ErrOutsideCatalog
		}
		out = append(out, label)
	}
	return out, nil
}
