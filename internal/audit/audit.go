// Package audit records administrative mutations for traceability.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sweeezy/backend/internal/model"
	"github.com/sweeezy/backend/internal/repository"
)

// Recorder writes audit log entries. Failures are logged and swallowed so
// auditing never breaks the mutation it describes.
type Recorder struct {
	logs repository.AuditLogRepository
	now  func() time.Time
}

// NewRecorder creates a Recorder.
func NewRecorder(logs repository.AuditLogRepository) *Recorder {
	return &Recorder{logs: logs, now: time.Now}
}

// Record stores one mutation. changes may be any JSON-serializable diff;
// nil records an entry without a diff.
func (r *Recorder) Record(ctx context.Context, userEmail, action, entity, entityID string, changes any) {
	var encoded string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err == nil {
			encoded = string(data)
		}
	}

	entry := &model.AuditLog{
		ID:        uuid.NewString(),
		UserEmail: userEmail,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Changes:   encoded,
		CreatedAt: r.now(),
	}
	if err := r.logs.Create(ctx, entry); err != nil {
		slog.Warn("failed to write audit log entry",
			"entity", entity, "action", action, "error", err)
	}
}
