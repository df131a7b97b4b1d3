package automation

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/barbersaas/internal/models"
)

const (
	DefaultLogLimit = 80
	MaxLogLimit     = 300
)

type SentCounts struct {
	Confirmation int `json:"confirmation"`
	Reminder     int `json:"reminder"`
	PostService  int `json:"post_service"`
}

type LogEntry struct {
	AppointmentID string                  `json:"appointment_id"`
	ClientName    string                  `json:"client_name"`
	ClientPhone   string                  `json:"client_phone"`
	BarberName    string                  `json:"barber_name"`
	Date          string                  `json:"date"`
	Time          string                  `json:"time"`
	Status        string                  `json:"status"`
	At            time.Time               `json:"at"`
	Kind          models.NotificationKind `json:"kind"`
	Success       bool                    `json:"success"`
	Provider      string                  `json:"provider"`
	MessageID     string                  `json:"message_id,omitempty"`
	Error         string                  `json:"error,omitempty"`
}

func CountSent(appointments []models.Appointment) SentCounts {
	var out SentCounts
	for i := range appointments {
		meta := &appointments[i].AutomationMeta
		if meta.ConfirmationSentAt != nil {
			out.Confirmation++
		}
		if meta.ReminderSentAt != nil {
			out.Reminder++
		}
		if meta.PostServiceSentAt != nil {
			out.PostService++
		}
	}
	return out
}

// ClampLimit keeps limit within 1..MaxLogLimit, 0 meaning the default.
func ClampLimit(limit int) int {
	if limit == 0 {
		return DefaultLogLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > MaxLogLimit {
		return MaxLogLimit
	}
	return limit
}

// Logs flattens every appointment's events, newest first. fallbackProvider
// fills events recorded without one (failures).
func Logs(appointments []models.Appointment, limit int, fallbackProvider string) []LogEntry {
	limit = ClampLimit(limit)

	var out []LogEntry
	for _, ap := range appointments {
		for _, ev := range ap.AutomationMeta.Events {
			provider := ev.Provider
			if provider == "" {
				provider = fallbackProvider
			}
			out = append(out, LogEntry{
				AppointmentID: ap.ID,
				ClientName:    ap.ClientName,
				ClientPhone:   ap.ClientPhone,
				BarberName:    ap.BarberName,
				Date:          ap.Date,
				Time:          ap.Time,
				Status:        ap.Status,
				At:            ev.At,
				Kind:          ev.Kind,
				Success:       ev.Success,
				Provider:      provider,
				MessageID:     ev.MessageID,
				Error:         ev.Error,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.After(out[j].At)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []LogEntry{}
	}
	return out
}
