package models

import "time"

// NotificationKind is the closed set of automated messages.
type NotificationKind string

const (
	KindConfirmation NotificationKind = "confirmation"
	KindReminder     NotificationKind = "reminder"
	KindPostService  NotificationKind = "post_service"
)

// MaxAutomationEvents caps the per-appointment event log.
const MaxAutomationEvents = 25

func NotificationKinds() []NotificationKind {
	return []NotificationKind{KindConfirmation, KindReminder, KindPostService}
}

func (k NotificationKind) Valid() bool {
	switch k {
	case KindConfirmation, KindReminder, KindPostService:
		return true
	}
	return false
}

type AutomationEvent struct {
	At        time.Time        `json:"at"`
	Kind      NotificationKind `json:"kind"`
	Success   bool             `json:"success"`
	Provider  string           `json:"provider,omitempty"`
	MessageID string           `json:"message_id,omitempty"`
	Error     string           `json:"error,omitempty"`
}

type AutomationMeta struct {
	ConfirmationSentAt    *time.Time `json:"confirmation_sent_at,omitempty"`
	ConfirmationMessageID string     `json:"confirmation_message_id,omitempty"`
	ReminderSentAt        *time.Time `json:"reminder_sent_at,omitempty"`
	ReminderMessageID     string     `json:"reminder_message_id,omitempty"`
	PostServiceSentAt     *time.Time `json:"post_service_sent_at,omitempty"`
	PostServiceMessageID  string     `json:"post_service_message_id,omitempty"`

	// newest first
	Events []AutomationEvent `json:"events"`
}

func (m AutomationMeta) Clone() AutomationMeta {
	out := m
	out.Events = append([]AutomationEvent{}, m.Events...)
	return out
}

func (m *AutomationMeta) SentAt(kind NotificationKind) *time.Time {
	switch kind {
	case KindConfirmation:
		return m.ConfirmationSentAt
	case KindReminder:
		return m.ReminderSentAt
	case KindPostService:
		return m.PostServiceSentAt
	}
	return nil
}

func (m *AutomationMeta) MarkSent(kind NotificationKind, at time.Time, messageID string) {
	switch kind {
	case KindConfirmation:
		m.ConfirmationSentAt = &at
		m.ConfirmationMessageID = messageID
	case KindReminder:
		m.ReminderSentAt = &at
		m.ReminderMessageID = messageID
	case KindPostService:
		m.PostServiceSentAt = &at
		m.PostServiceMessageID = messageID
	}
}

// Record prepends ev and drops the oldest entries past MaxAutomationEvents.
func (m *AutomationMeta) Record(ev AutomationEvent) {
	events := make([]AutomationEvent, 0, len(m.Events)+1)
	events = append(events, ev)
	events = append(events, m.Events...)
	if len(events) > MaxAutomationEvents {
		events = events[:MaxAutomationEvents]
	}
	m.Events = events
}
