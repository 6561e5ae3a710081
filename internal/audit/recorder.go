package audit

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"loftmanager/internal/logs"
	"loftmanager/internal/models"
)

// Recorder appends audit events. Recording never fails the calling
// operation; persistence problems are logged and dropped.
type Recorder struct{ db *gorm.DB }

func NewRecorder(db *gorm.DB) *Recorder { return &Recorder{db: db} }

func (r *Recorder) Record(ctx context.Context, actor, action string, details map[string]any) {
	if r == nil || r.db == nil {
		return
	}
	ev := models.AuditEvent{Actor: actor, Action: action}
	if len(details) > 0 {
		b, err := json.Marshal(details)
		if err != nil {
			logs.Logger.Warnf("audit: encode details for %s: %v", action, err)
		} else {
			ev.Details = datatypes.JSON(b)
		}
	}
	if err := r.db.WithContext(ctx).Create(&ev).Error; err != nil {
		logs.Logger.Warnf("audit: record %s by %s: %v", action, actor, err)
	}
}

// Recent returns the newest events for the settings page.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]models.AuditEvent, error) {
	var out []models.AuditEvent
	err := r.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&out).Error
	return out, err
}
