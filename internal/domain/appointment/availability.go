package appointment

import (
	"errors"
	"time"

	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/models"
	"github.com/BruksfildServices01/barbersaas/internal/timezone"
)

// motivos de indisponibilidade
const (
	ReasonBarberNotFound = "barber_not_found"
	ReasonPast           = "past_datetime"
	ReasonDayOff         = "day_off"
	ReasonOutsideHours   = "outside_hours"
	ReasonInvalidLength  = "invalid_duration"
	ReasonBlocked        = "slot_blocked"
	ReasonTaken          = "slot_taken"
)

type AvailabilityInput struct {
	BarberID  string
	ServiceID string
	Date      string
}

// AvailabilityQuery is everything CheckAvailability needs; Barber nil means the
// barber does not exist.
type AvailabilityQuery struct {
	Barber       *models.Barber
	Date         string
	Time         string
	Duration     int
	Appointments []models.Appointment

	// ignora o próprio agendamento ao revalidar uma remarcação
	ExcludeID string

	// Now zero desliga a checagem de horário passado (edição pelo admin).
	Now      time.Time
	Location *time.Location
}

func (q AvailabilityQuery) startsInPast() bool {
	if q.Now.IsZero() {
		return false
	}
	loc := q.Location
	if loc == nil {
		loc = time.UTC
	}
	start, err := timezone.Combine(q.Date, q.Time, loc)
	if err != nil {
		// data ou hora inválida cai na checagem do catálogo
		return false
	}
	return !start.After(q.Now)
}

type SlotState struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// CheckAvailability has no side effects. The slot grid shown to the client and
// the booking commit both go through it.
func CheckAvailability(q AvailabilityQuery) error {
	if q.Barber == nil {
		return httperr.ErrSlotUnavailable(ReasonBarberNotFound)
	}
	if q.startsInPast() {
		return httperr.ErrSlotUnavailable(ReasonPast)
	}
	if q.Barber.IsOffDay(q.Date) {
		return httperr.ErrSlotUnavailable(ReasonDayOff)
	}

	wanted, err := Coverage(q.Time, q.Duration)
	if err != nil {
		if errors.Is(err, ErrInvalidDuration) {
			return httperr.ErrSlotUnavailable(ReasonInvalidLength)
		}
		return httperr.ErrSlotUnavailable(ReasonOutsideHours)
	}

	for _, slot := range wanted {
		if q.Barber.IsBlocked(q.Date, slot) {
			return httperr.ErrSlotUnavailable(ReasonBlocked)
		}
	}

	taken := busySlots(q.Barber.ID, q.Date, q.ExcludeID, q.Appointments)
	for _, slot := range wanted {
		if _, ok := taken[slot]; ok {
			return httperr.ErrSlotUnavailable(ReasonTaken)
		}
	}

	return nil
}

// SlotGrid avalia CheckAvailability para cada horário do catálogo; q.Time é
// ignorado.
func SlotGrid(q AvailabilityQuery) []SlotState {
	out := make([]SlotState, 0, len(slotCatalog))
	for _, hm := range slotCatalog {
		q.Time = hm
		err := CheckAvailability(q)
		out = append(out, SlotState{
			Time:      hm,
			Available: err == nil,
			Reason:    httperr.Reason(err),
		})
	}
	return out
}

func busySlots(barberID, date, excludeID string, appointments []models.Appointment) map[string]struct{} {
	taken := make(map[string]struct{})
	for _, ap := range appointments {
		if ap.BarberID != barberID || ap.Date != date || ap.ID == excludeID {
			continue
		}
		if !Status(ap.Status).IsBusy() {
			continue
		}

		cov, err := Coverage(ap.Time, ap.ServiceDuration)
		if err != nil {
			// registro legado fora do catálogo: bloqueia ao menos o horário de início
			taken[ap.Time] = struct{}{}
			continue
		}
		for _, slot := range cov {
			taken[slot] = struct{}{}
		}
	}
	return taken
}
