package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/projectpulse/projectpulse/internal/domain"
	"github.com/projectpulse/projectpulse/internal/ports"
)

// Recorder appends audit entries for committed mutations. Audit is a
// best-effort side channel: nothing the recorder does can fail from the
// caller's point of view. A serialization or store failure is logged and
// the entry is lost; there is no retry and no dead-letter queue.
type Recorder struct {
	repo ports.AuditRepository
	log  *logrus.Logger
	now  func() time.Time
}

// NewRecorder creates a recorder writing to the given audit repository.
func NewRecorder(repo ports.AuditRepository, log *logrus.Logger) *Recorder {
	return &Recorder{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Record appends one audit entry for a committed mutation. The timestamp is
// assigned here, not by the caller. An empty actor defaults to SYSTEM. A nil
// snapshot (deletes) produces an empty payload.
func (r *Recorder) Record(ctx context.Context, action domain.ActionType, kind, id, actor string, snapshot interface{}) {
	payload := ""
	if snapshot != nil {
		data, err := json.Marshal(snapshot)
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"action":      action,
				"entity_kind": kind,
				"entity_id":   id,
			}).WithError(err).Error("failed to serialize audit payload, entry dropped")
			return
		}
		payload = string(data)
	}

	if actor == "" {
		actor = domain.ActorSystem
	}

	entry := &domain.AuditEntry{
		ActionType: action,
		EntityKind: kind,
		EntityID:   id,
		Timestamp:  r.now().UTC(),
		ActorName:  actor,
		Payload:    payload,
	}

	if err := r.repo.Append(ctx, entry); err != nil {
		r.log.WithFields(logrus.Fields{
			"action":      action,
			"entity_kind": kind,
			"entity_id":   id,
			"actor_name":  actor,
		}).WithError(err).Error("failed to append audit entry")
		return
	}

	r.log.WithFields(logrus.Fields{
		"action":      action,
		"entity_kind": kind,
		"entity_id":   id,
		"actor_name":  actor,
	}).Debug("audit entry appended")
}
