package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbersaas/internal/automation"
	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/httpresp"
	"github.com/BruksfildServices01/barbersaas/internal/infra/repository"
)

type AutomationHandler struct {
	store     *repository.SnapshotStore
	scheduler *automation.Scheduler
	startedAt time.Time
}

func NewAutomationHandler(store *repository.SnapshotStore, scheduler *automation.Scheduler) *AutomationHandler {
	return &AutomationHandler{
		store:     store,
		scheduler: scheduler,
		startedAt: time.Now(),
	}
}

// ======================================================
// HEALTH
// ======================================================

func (h *AutomationHandler) Health(c *gin.Context) {
	snap, err := h.store.Snapshot(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"ok":         true,
		"uptime_sec": int64(time.Since(h.startedAt).Seconds()),
		"backend":    h.store.BackendName(),
		"whatsapp": gin.H{
			"provider":    h.scheduler.Provider(),
			"interval_ms": h.scheduler.Interval().Milliseconds(),
		},
		"counts": gin.H{
			"services":     len(snap.Services),
			"barbers":      len(snap.Barbers),
			"clients":      len(snap.Clients),
			"appointments": len(snap.Appointments),
		},
	})
}

// ======================================================
// AUTOMATION
// ======================================================

func (h *AutomationHandler) Status(c *gin.Context) {
	st, err := h.scheduler.Status(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, st)
}

func (h *AutomationHandler) Logs(c *gin.Context) {
	// limite fora do intervalo é ajustado no domínio
	limit, _ := strconv.Atoi(c.Query("limit"))

	logs, err := h.scheduler.Logs(c.Request.Context(), limit)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, logs)
}

func (h *AutomationHandler) Run(c *gin.Context) {
	report, err := h.scheduler.RunCycle(c.Request.Context(), automation.TriggerManual)
	if errors.Is(err, automation.ErrCycleRunning) {
		httperr.Conflict(c, "cycle_running", "Já existe um ciclo de automação em andamento.")
		return
	}
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, report)
}
