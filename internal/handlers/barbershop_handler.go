package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbersaas/internal/audit"
	"github.com/BruksfildServices01/barbersaas/internal/automation"
	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/httpresp"
	"github.com/BruksfildServices01/barbersaas/internal/infra/repository"
	"github.com/BruksfildServices01/barbersaas/internal/models"
	"github.com/BruksfildServices01/barbersaas/internal/usecase/appointment"
	ucBarber "github.com/BruksfildServices01/barbersaas/internal/usecase/barber"
)

const TriggerSyncBulk = "sync_bulk"

// BarbershopHandler concentra as rotas administrativas da barbearia.
type BarbershopHandler struct {
	store     *repository.SnapshotStore
	replaceUC *ucBarber.ReplaceBarbers
	outbox    appointment.SyncQueue
	audit     *audit.Dispatcher
}

func NewBarbershopHandler(
	store *repository.SnapshotStore,
	replaceUC *ucBarber.ReplaceBarbers,
	outbox appointment.SyncQueue,
	audit *audit.Dispatcher,
) *BarbershopHandler {
	return &BarbershopHandler{
		store:     store,
		replaceUC: replaceUC,
		outbox:    outbox,
		audit:     audit,
	}
}

type SyncBulkRequest struct {
	Data *models.SnapshotPatch `json:"data"`
}

type MonthlyGoalRequest struct {
	MonthlyGoal float64 `json:"monthly_goal"`
}

////////////////////////////////////////////////////////
// BOOTSTRAP / SYNC
////////////////////////////////////////////////////////

// Bootstrap devolve o estado completo, sem o hash dos PINs.
func (h *BarbershopHandler) Bootstrap(c *gin.Context) {
	snap, err := h.store.Snapshot(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	for i := range snap.Barbers {
		snap.Barbers[i] = snap.Barbers[i].Public()
	}
	httpresp.OK(c, snap)
}

func (h *BarbershopHandler) SyncBulk(c *gin.Context) {
	var req SyncBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Data == nil {
		httperr.BadRequest(c, "invalid_sync_payload", "Payload inválido. Esperado { data: {...} }")
		return
	}

	if err := h.store.ApplySnapshotPatch(c.Request.Context(), *req.Data); err != nil {
		httperr.FromError(c, err)
		return
	}

	if h.outbox != nil {
		h.outbox.Enqueue(automation.Task{Trigger: TriggerSyncBulk})
	}
	h.audit.Dispatch(audit.Event{
		Actor:  "admin",
		Action: "sync_bulk",
		Entity: "snapshot",
	})

	httpresp.OK(c, gin.H{
		"ok":        true,
		"synced_at": time.Now().UTC().Format(time.RFC3339),
	})
}

////////////////////////////////////////////////////////
// CATALOGO
////////////////////////////////////////////////////////

func (h *BarbershopHandler) ReplaceServices(c *gin.Context) {
	var services []models.Service
	if err := c.ShouldBindJSON(&services); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if err := h.store.ReplaceServices(c.Request.Context(), services); err != nil {
		httperr.FromError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		Actor:    "admin",
		Action:   "services_replaced",
		Entity:   "service",
		Metadata: map[string]any{"count": len(services)},
	})
	httpresp.List(c, services)
}

func (h *BarbershopHandler) ReplaceBarbers(c *gin.Context) {
	var in []ucBarber.BarberInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if err := h.replaceUC.Execute(c.Request.Context(), in); err != nil {
		httperr.FromError(c, err)
		return
	}

	snap, err := h.store.Snapshot(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	out := make([]models.Barber, 0, len(snap.Barbers))
	for _, b := range snap.Barbers {
		out = append(out, b.Public())
	}

	h.audit.Dispatch(audit.Event{
		Actor:    "admin",
		Action:   "barbers_replaced",
		Entity:   "barber",
		Metadata: map[string]any{"count": len(out)},
	})
	httpresp.List(c, out)
}

func (h *BarbershopHandler) PatchBarber(c *gin.Context) {
	var patch models.BarberPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	if patch.CommissionRate != nil && (*patch.CommissionRate < 0 || *patch.CommissionRate > 100) {
		httperr.BadRequest(c, "invalid_commission_rate", "Comissão deve ficar entre 0 e 100.")
		return
	}

	b, err := h.store.PatchBarber(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		Actor:    "admin",
		Action:   "barber_patched",
		Entity:   "barber",
		EntityID: b.ID,
		Metadata: patch,
	})
	httpresp.OK(c, b.Public())
}

////////////////////////////////////////////////////////
// CONFIG
////////////////////////////////////////////////////////

func (h *BarbershopHandler) SetMonthlyGoal(c *gin.Context) {
	var req MonthlyGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if err := h.store.SetMonthlyGoal(c.Request.Context(), req.MonthlyGoal); err != nil {
		httperr.FromError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		Actor:    "admin",
		Action:   "monthly_goal_updated",
		Entity:   "settings",
		Metadata: map[string]any{"monthly_goal": req.MonthlyGoal},
	})
	httpresp.OK(c, gin.H{"monthly_goal": req.MonthlyGoal})
}
