package automation

import (
	"time"

	domain "github.com/BruksfildServices01/barbersaas/internal/domain/appointment"
	"github.com/BruksfildServices01/barbersaas/internal/models"
	"github.com/BruksfildServices01/barbersaas/internal/timezone"
)

// ReminderLead is how long before the start the reminder window opens.
const ReminderLead = 2 * time.Hour

// StartAt combina date + time no fuso da barbearia.
func StartAt(ap *models.Appointment, loc *time.Location) (time.Time, bool) {
	if ap.Date == "" || ap.Time == "" {
		return time.Time{}, false
	}
	t, err := timezone.Combine(ap.Date, ap.Time, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func activeStatus(ap *models.Appointment) bool {
	s := domain.Status(ap.Status)
	return s == domain.StatusPending || s == domain.StatusConfirmed
}

func ShouldSendConfirmation(ap *models.Appointment) bool {
	return ap.AutomationMeta.ConfirmationSentAt == nil && activeStatus(ap)
}

// ShouldSendReminder: janela [início-2h, início)
func ShouldSendReminder(ap *models.Appointment, now time.Time, loc *time.Location) bool {
	if ap.AutomationMeta.ReminderSentAt != nil || !activeStatus(ap) {
		return false
	}

	start, ok := StartAt(ap, loc)
	if !ok {
		return false
	}

	opens := start.Add(-ReminderLead)
	return !now.Before(opens) && now.Before(start)
}

func ShouldSendPostService(ap *models.Appointment) bool {
	return ap.AutomationMeta.PostServiceSentAt == nil &&
		domain.Status(ap.Status) == domain.StatusCompleted
}

// Eligible dispatches on the closed kind set.
func Eligible(ap *models.Appointment, kind models.NotificationKind, now time.Time, loc *time.Location) bool {
	switch kind {
	case models.KindConfirmation:
		return ShouldSendConfirmation(ap)
	case models.KindReminder:
		return ShouldSendReminder(ap, now, loc)
	case models.KindPostService:
		return ShouldSendPostService(ap)
	}
	return false
}

// DueKinds lists every kind ap is eligible for at now, in send order.
func DueKinds(ap *models.Appointment, now time.Time, loc *time.Location) []models.NotificationKind {
	var out []models.NotificationKind
	for _, kind := range models.NotificationKinds() {
		if Eligible(ap, kind, now, loc) {
			out = append(out, kind)
		}
	}
	return out
}
