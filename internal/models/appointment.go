package models

import "time"

type Appointment struct {
	ID string `json:"id"`

	// snapshot do cliente / serviço / barbeiro no momento da reserva
	ClientName      string  `json:"client_name"`
	ClientPhone     string  `json:"client_phone"`
	ServiceID       string  `json:"service_id"`
	ServiceName     string  `json:"service_name"`
	ServiceDuration int     `json:"service_duration"`
	ServicePrice    float64 `json:"service_price"`
	BarberID        string  `json:"barber_id"`
	BarberName      string  `json:"barber_name"`

	Date string `json:"date"` // 2006-01-02
	Time string `json:"time"` // 15:04

	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`

	RefusalReason string     `json:"refusal_reason,omitempty"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
	RefusedAt     *time.Time `json:"refused_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`

	Rating  *int     `json:"rating,omitempty"`
	Review  string   `json:"review,omitempty"`
	Receipt *Receipt `json:"receipt,omitempty"`

	AutomationMeta AutomationMeta `json:"automation_meta"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Receipt struct {
	Number        string    `json:"number"`
	IssuedAt      time.Time `json:"issued_at"`
	ClientName    string    `json:"client_name"`
	ServiceName   string    `json:"service_name"`
	Value         float64   `json:"value"`
	PaymentMethod string    `json:"payment_method"`
	DateTime      string    `json:"date_time"`
}

func (a Appointment) Clone() Appointment {
	out := a
	if a.Rating != nil {
		r := *a.Rating
		out.Rating = &r
	}
	if a.Receipt != nil {
		rc := *a.Receipt
		out.Receipt = &rc
	}
	out.AutomationMeta = a.AutomationMeta.Clone()
	return out
}

// AppointmentPatch is a field-level merge. Nil fields are left untouched and the
// ID can never be patched.
type AppointmentPatch struct {
	ClientName      *string         `json:"client_name"`
	ClientPhone     *string         `json:"client_phone"`
	ServiceName     *string         `json:"service_name"`
	ServiceDuration *int            `json:"service_duration"`
	ServicePrice    *float64        `json:"service_price"`
	BarberName      *string         `json:"barber_name"`
	Date            *string         `json:"date"`
	Time            *string         `json:"time"`
	PaymentMethod   *string         `json:"payment_method"`
	Review          *string         `json:"review"`
	AutomationMeta  *AutomationMeta `json:"automation_meta"`
}

func (p AppointmentPatch) Apply(a *Appointment) {
	if p.ClientName != nil {
		a.ClientName = *p.ClientName
	}
	if p.ClientPhone != nil {
		a.ClientPhone = *p.ClientPhone
	}
	if p.ServiceName != nil {
		a.ServiceName = *p.ServiceName
	}
	if p.ServiceDuration != nil {
		a.ServiceDuration = *p.ServiceDuration
	}
	if p.ServicePrice != nil {
		a.ServicePrice = *p.ServicePrice
	}
	if p.BarberName != nil {
		a.BarberName = *p.BarberName
	}
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.Time != nil {
		a.Time = *p.Time
	}
	if p.PaymentMethod != nil {
		a.PaymentMethod = *p.PaymentMethod
	}
	if p.Review != nil {
		a.Review = *p.Review
	}
	if p.AutomationMeta != nil {
		a.AutomationMeta = p.AutomationMeta.Clone()
	}
}

// TouchesSchedule reports whether the patch moves the appointment in the calendar.
func (p AppointmentPatch) TouchesSchedule() bool {
	return p.Date != nil || p.Time != nil || p.ServiceDuration != nil
}
