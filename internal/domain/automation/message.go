package automation

import (
	"strings"

	"github.com/BruksfildServices01/barbersaas/internal/models"
)

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// BuildMessage renders the WhatsApp text for kind.
func BuildMessage(kind models.NotificationKind, ap *models.Appointment) string {
	client := orDefault(ap.ClientName, "Cliente")
	service := orDefault(ap.ServiceName, "servico")
	barber := orDefault(ap.BarberName, "seu barbeiro")
	date := orDefault(ap.Date, "data")
	hm := orDefault(ap.Time, "horario")

	var lines []string
	switch kind {
	case models.KindConfirmation:
		lines = []string{
			"Ola, " + client + "!",
			"Seu agendamento BARBERSAAS foi confirmado.",
			"Servico: " + service,
			"Barbeiro: " + barber,
			"Data: " + date + " as " + hm,
		}
	case models.KindReminder:
		lines = []string{
			"Lembrete, " + client + "!",
			"Seu atendimento acontece em aproximadamente 2 horas.",
			"Servico: " + service,
			"Barbeiro: " + barber,
			"Horario: " + date + " " + hm,
		}
	case models.KindPostService:
		lines = []string{
			"Obrigado por vir, " + client + "!",
			"Esperamos que tenha gostado da experiencia.",
			"Quando puder, avalie seu atendimento com 1 a 5 estrelas no app.",
			"Barbeiro: " + barber,
		}
	}
	return strings.Join(lines, "\n")
}
