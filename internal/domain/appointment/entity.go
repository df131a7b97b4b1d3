package appointment

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/models"
	"github.com/BruksfildServices01/barbersaas/internal/validators"
)

const (
	DefaultPaymentMethod = "Presencial"
	DefaultRefusalReason = "Sem motivo informado"
	DefaultDuration      = 30
	IDPrefix             = "apt"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusConfirmed); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	ap.ConfirmedAt = &now
	return nil
}

func Refuse(ap *models.Appointment, reason string, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusRefused); err != nil {
		return err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultRefusalReason
	}

	ap.Status = string(StatusRefused)
	ap.RefusalReason = reason
	ap.RefusedAt = &now
	return nil
}

// Complete conclui o atendimento e sempre emite o recibo.
func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusCompleted); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	ap.Receipt = NewReceipt(ap, now)
	return nil
}

func Rate(ap *models.Appointment, rating int, review string) error {
	if Status(ap.Status) != StatusCompleted {
		return httperr.ErrBusiness("not_completed")
	}
	if rating < 1 || rating > 5 {
		return httperr.ErrBusiness("invalid_rating")
	}

	ap.Rating = &rating
	ap.Review = strings.TrimSpace(review)
	return nil
}

// NewID gera "apt-<uuid>"; o primeiro bloco vira o número do recibo.
func NewID() string {
	return IDPrefix + "-" + uuid.NewString()
}

func NewReceipt(ap *models.Appointment, issuedAt time.Time) *models.Receipt {
	return &models.Receipt{
		Number:        ReceiptNumber(ap.ID),
		IssuedAt:      issuedAt,
		ClientName:    ap.ClientName,
		ServiceName:   ap.ServiceName,
		Value:         ap.ServicePrice,
		PaymentMethod: ap.PaymentMethod,
		DateTime:      ap.Date + " " + ap.Time,
	}
}

// ReceiptNumber: "apt-1a2b3c4d-..." -> "REC-1A2B3C4D"
func ReceiptNumber(id string) string {
	parts := strings.Split(id, "-")
	seg := id
	if len(parts) > 1 && parts[1] != "" {
		seg = parts[1]
	}
	return "REC-" + strings.ToUpper(seg)
}

// Normalize fills defaults on records that predate a field, keeps the client
// phone digits-only and backfills the receipt of completed appointments stored
// without one.
func Normalize(ap *models.Appointment) bool {
	changed := false
	if phone := validators.NormalizePhone(ap.ClientPhone); phone != ap.ClientPhone {
		ap.ClientPhone = phone
		changed = true
	}
	if ap.PaymentMethod == "" {
		ap.PaymentMethod = DefaultPaymentMethod
		changed = true
	}
	if ap.ServiceDuration <= 0 {
		ap.ServiceDuration = DefaultDuration
		changed = true
	}
	if ap.Status == "" {
		ap.Status = string(InitialStatus())
		changed = true
	}
	if ap.Receipt == nil && Status(ap.Status) == StatusCompleted {
		issued := ap.UpdatedAt
		if ap.CompletedAt != nil {
			issued = *ap.CompletedAt
		}
		ap.Receipt = NewReceipt(ap, issued)
		changed = true
	}
	return changed
}
