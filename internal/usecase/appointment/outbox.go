package appointment

import (
	"github.com/BruksfildServices01/barbersaas/internal/automation"
)

// SyncQueue recebe as tarefas de sincronização da automação.
type SyncQueue interface {
	Enqueue(t automation.Task) bool
}

const (
	TriggerCreated   = "appointment_created"
	TriggerPatched   = "appointment_patched"
	TriggerConfirmed = "appointment_confirmed"
	TriggerRefused   = "appointment_refused"
	TriggerCompleted = "appointment_completed"
)

func enqueue(q SyncQueue, trigger, appointmentID string) {
	if q == nil {
		return
	}
	q.Enqueue(automation.Task{Trigger: trigger, AppointmentID: appointmentID})
}

// Actor identifica quem executou a ação na auditoria.
func Actor(barberID string) string {
	if barberID == "" {
		return "admin"
	}
	return "barber:" + barberID
}
