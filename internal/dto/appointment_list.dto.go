package dto

import (
	"time"

	"github.com/BruksfildServices01/barbersaas/internal/models"
)

type AppointmentListDTO struct {
	ID            string          `json:"id"`
	Date          string          `json:"date"`
	StartTime     string          `json:"start_time"`
	EndTime       string          `json:"end_time"`
	Status        string          `json:"status"`
	ClientName    string          `json:"client_name"`
	ClientPhone   string          `json:"client_phone"`
	ServiceName   string          `json:"service_name"`
	ServicePrice  float64         `json:"service_price"`
	PaymentMethod string          `json:"payment_method"`
	Receipt       *models.Receipt `json:"receipt,omitempty"`
}

// endTime: "14:00" + 70min -> "15:10"; vazio quando o horário não faz parse
func endTime(hm string, duration int) string {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return ""
	}
	return t.Add(time.Duration(duration) * time.Minute).Format("15:04")
}

func FromAppointment(ap models.Appointment) AppointmentListDTO {
	return AppointmentListDTO{
		ID:            ap.ID,
		Date:          ap.Date,
		StartTime:     ap.Time,
		EndTime:       endTime(ap.Time, ap.ServiceDuration),
		Status:        ap.Status,
		ClientName:    ap.ClientName,
		ClientPhone:   ap.ClientPhone,
		ServiceName:   ap.ServiceName,
		ServicePrice:  ap.ServicePrice,
		PaymentMethod: ap.PaymentMethod,
		Receipt:       ap.Receipt,
	}
}
