package audit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/duit-aim/vcz-estimator/pkg/common/logger"
	"github.com/duit-aim/vcz-estimator/pkg/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// newDryRunDB builds a gorm handle that renders SQL without touching a
// database.
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=vcz dbname=vcz",
	}), &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	return db
}

func testEvent(id string) models.Event {
	return models.Event{
		ID:        id,
		Type:      models.EventEstimationCompleted,
		Source:    "estimator-service",
		Data:      map[string]interface{}{"request_id": "abc"},
		Timestamp: time.Now(),
	}
}

func TestRecordEventDropsRedeliveredDuplicates(t *testing.T) {
	db := newDryRunDB(t)

	var insertSQL string
	err := db.Callback().Create().After("gorm:create").Register("capture_insert", func(tx *gorm.DB) {
		insertSQL = tx.Statement.SQL.String()
	})
	require.NoError(t, err)

	repo := NewRepository(db)
	require.NoError(t, repo.RecordEvent(context.Background(), testEvent("evt-1")))

	// A redelivered event must be swallowed by the insert itself, not by
	// interpreting a driver error after the fact.
	assert.Contains(t, insertSQL, `ON CONFLICT ("event_id") DO NOTHING`)
}

func TestSinkHandleEventPropagatesRepoResult(t *testing.T) {
	db := newDryRunDB(t)
	sink := NewSink(NewRepository(db))

	if err := sink.HandleEvent(context.Background(), testEvent("evt-2")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
