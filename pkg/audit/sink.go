package audit

import (
	"context"

	"github.com/duit-aim/vcz-estimator/pkg/common/logger"
	"github.com/duit-aim/vcz-estimator/pkg/common/models"
)

// Sink persists audit events consumed from the estimation topic.
type Sink struct {
	repo *Repository
}

func NewSink(repo *Repository) *Sink {
	return &Sink{repo: repo}
}

// HandleEvent is the kafka consumer callback. Unknown event types are
// recorded too; the topic is the source of truth for what happened.
func (s *Sink) HandleEvent(ctx context.Context, event models.Event) error {
	if err := s.repo.RecordEvent(ctx, event); err != nil {
		return err
	}
	logger.Log.WithFields(map[string]interface{}{
		"event_id":   event.ID,
		"event_type": event.Type,
	}).Debug("Audit event stored")
	return nil
}
