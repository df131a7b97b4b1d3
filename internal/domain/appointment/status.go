package appointment

import "github.com/BruksfildServices01/barbersaas/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRefused   Status = "refused"
	StatusCompleted Status = "completed"
)

// transições permitidas; refused e completed são terminais
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusRefused},
	StatusConfirmed: {StatusCompleted},
}

func InitialStatus() Status {
	return StatusPending
}

// IsBusy: ocupa espaço na agenda (recusados liberam o horário)
func (s Status) IsBusy() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCompleted
}

func (s Status) IsTerminal() bool {
	return s == StatusRefused || s == StatusCompleted
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRefused, StatusCompleted:
		return true
	}
	return false
}

// ===============================
// Validations
// ===============================

func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrInvalidTransition(string(from), string(to))
}
