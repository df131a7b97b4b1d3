package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/httpresp"
	"github.com/BruksfildServices01/barbersaas/internal/infra/repository"
)

type ClientHandler struct {
	store *repository.SnapshotStore
}

func NewClientHandler(store *repository.SnapshotStore) *ClientHandler {
	return &ClientHandler{store: store}
}

type UpsertClientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Upsert usa o telefone (só dígitos) como identidade do cliente.
func (h *ClientHandler) Upsert(c *gin.Context) {
	var req UpsertClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	client, err := h.store.UpsertClient(c.Request.Context(), req.Name, req.Phone)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, client)
}

func (h *ClientHandler) List(c *gin.Context) {
	snap, err := h.store.Snapshot(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, snap.Clients)
}
