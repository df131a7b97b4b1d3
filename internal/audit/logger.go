package audit

import (
	"encoding/json"
	"log"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbersaas/internal/models"
)

// Sink grava um evento de auditoria.
type Sink interface {
	Log(ev Event) error
}

func encodeMetadata(metadata any) string {
	if metadata == nil {
		return ""
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		log.Printf("[audit] metadata dropped: %v", err)
		return ""
	}
	return string(b)
}

// Logger persists events in the audit_logs table.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ev Event) error {
	row := models.AuditLog{
		Actor:    ev.Actor,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: encodeMetadata(ev.Metadata),
	}
	return l.db.Create(&row).Error
}

// Recent lists the newest entries first.
func (l *Logger) Recent(limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []models.AuditLog
	err := l.db.Order("id DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

// StdLogger is used when no database is configured.
type StdLogger struct{}

func (StdLogger) Log(ev Event) error {
	log.Printf("[audit] actor=%s action=%s %s=%s %s",
		ev.Actor, ev.Action, ev.Entity, ev.EntityID, encodeMetadata(ev.Metadata))
	return nil
}
