package audit

import (
	"context"
	"time"

	"github.com/duit-aim/vcz-estimator/pkg/common/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventRecord persists one audit event from the estimation topic.
type EventRecord struct {
	ID         uuid.UUID         `gorm:"primaryKey;column:id"`
	EventID    string            `gorm:"column:event_id;uniqueIndex"`
	EventType  string            `gorm:"column:event_type;index"`
	Source     string            `gorm:"column:source"`
	Payload    datatypes.JSONMap `gorm:"column:payload"`
	OccurredAt time.Time         `gorm:"column:occurred_at"`
	CreatedAt  time.Time         `gorm:"column:created_at"`
}

func (EventRecord) TableName() string { return "audit_events" }

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&EventRecord{})
}

// RecordEvent stores an event. Duplicates from topic redelivery are dropped
// at the database level, so a replayed message never poisons the consumer.
func (r *Repository) RecordEvent(ctx context.Context, event models.Event) error {
	record := EventRecord{
		ID:         uuid.New(),
		EventID:    event.ID,
		EventType:  event.Type,
		Source:     event.Source,
		Payload:    datatypes.JSONMap(event.Data),
		OccurredAt: event.Timestamp,
		CreatedAt:  time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&record).Error
}

// ListByType returns the most recent events of one type up to limit.
func (r *Repository) ListByType(ctx context.Context, eventType string, limit int) ([]EventRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []EventRecord
	err := r.db.WithContext(ctx).
		Where("event_type = ?", eventType).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
