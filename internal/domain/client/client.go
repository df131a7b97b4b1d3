package client

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/models"
	"github.com/BruksfildServices01/barbersaas/internal/validators"
)

// Upsert grava o cliente usando o telefone normalizado como identidade.
func Upsert(snap *models.Snapshot, name, phone string, now time.Time) (*models.Client, error) {
	name = strings.TrimSpace(name)
	phone = validators.NormalizePhone(phone)

	if name == "" {
		return nil, httperr.ErrBusiness("invalid_client_name")
	}
	if len(phone) < validators.MinLocalDigits {
		return nil, httperr.ErrBusiness("invalid_client_phone")
	}

	if existing := snap.ClientByPhone(phone); existing != nil {
		existing.Name = name
		existing.UpdatedAt = now
		return existing, nil
	}

	snap.Clients = append(snap.Clients, models.Client{
		ID:        "cli-" + uuid.NewString(),
		Name:      name,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return &snap.Clients[len(snap.Clients)-1], nil
}
